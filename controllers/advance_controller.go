package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hr-backend/middleware"
	"hr-backend/services"
	"hr-backend/utils"
)

type AdvanceController struct {
	Advances *services.AdvanceRequestService
}

func NewAdvanceController(advances *services.AdvanceRequestService) *AdvanceController {
	return &AdvanceController{Advances: advances}
}

type advancePayload struct {
	Amount float64 `json:"amount" binding:"required"`
	Reason string  `json:"reason"`
}

func (ac *AdvanceController) CreateRequest(c *gin.Context) {
	var payload advancePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Amount is required")
		return
	}

	request, err := ac.Advances.Create(middleware.ActorFromContext(c), c.ClientIP(), payload.Amount, payload.Reason)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, request)
}

func (ac *AdvanceController) GetMyHistory(c *gin.Context) {
	requests, err := ac.Advances.GetMyHistory(middleware.ActorFromContext(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, requests)
}

func (ac *AdvanceController) GetRequests(c *gin.Context) {
	requests, err := ac.Advances.GetAllRequests(c.Query("status"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, requests)
}

type reviewPayload struct {
	Status          string `json:"status" binding:"required"`
	RejectionReason string `json:"rejectionReason"`
}

func (ac *AdvanceController) ReviewRequest(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var payload reviewPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Status is required")
		return
	}

	request, err := ac.Advances.Review(middleware.ActorFromContext(c), c.ClientIP(), id, payload.Status, payload.RejectionReason)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, request)
}
