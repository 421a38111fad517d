package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"hr-backend/services"
	"hr-backend/utils"
)

type AuditController struct {
	Audit *services.AuditService
}

func NewAuditController(audit *services.AuditService) *AuditController {
	return &AuditController{Audit: audit}
}

func (ac *AuditController) GetLogs(c *gin.Context) {
	filter := services.AuditLogFilter{
		EntityType: c.Query("entityType"),
		Action:     c.Query("action"),
	}

	if raw := c.Query("userId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "userId must be a number")
			return
		}
		userID := uint(id)
		filter.UserID = &userID
	}
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "from must be an RFC3339 timestamp")
			return
		}
		filter.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "to must be an RFC3339 timestamp")
			return
		}
		filter.To = &t
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "0"))
	filter.Size, _ = strconv.Atoi(c.DefaultQuery("size", "20"))

	page, err := ac.Audit.GetLogs(filter)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, page)
}

func (ac *AuditController) GetEntityHistory(c *gin.Context) {
	entityType := c.Param("type")
	entityID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	logs, err := ac.Audit.GetEntityHistory(entityType, entityID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, logs)
}

func (ac *AuditController) GetRecent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	logs, err := ac.Audit.GetRecentLogs(limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, logs)
}

func (ac *AuditController) GetStatistics(c *gin.Context) {
	stats, err := ac.Audit.GetStatistics()
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, stats)
}
