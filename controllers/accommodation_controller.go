package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hr-backend/middleware"
	"hr-backend/services"
	"hr-backend/utils"
)

type AccommodationController struct {
	Accommodations *services.AccommodationService
}

func NewAccommodationController(accommodations *services.AccommodationService) *AccommodationController {
	return &AccommodationController{Accommodations: accommodations}
}

func (ac *AccommodationController) GetAccommodations(c *gin.Context) {
	accommodations, err := ac.Accommodations.GetAllAccommodations()
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, accommodations)
}

type accommodationPayload struct {
	Name           string `json:"name" binding:"required"`
	Address        string `json:"address" binding:"required"`
	ManagerContact string `json:"managerContact"`
}

func (ac *AccommodationController) CreateAccommodation(c *gin.Context) {
	var payload accommodationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Name and address are required")
		return
	}

	accommodation, err := ac.Accommodations.CreateAccommodation(
		middleware.ActorFromContext(c), c.ClientIP(),
		payload.Name, payload.Address, payload.ManagerContact)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, accommodation)
}

func (ac *AccommodationController) UpdateAccommodation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input services.UpdateAccommodationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid accommodation payload")
		return
	}

	accommodation, err := ac.Accommodations.UpdateAccommodation(
		middleware.ActorFromContext(c), c.ClientIP(), id, input)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, accommodation)
}

func (ac *AccommodationController) GetRoomsByAccommodation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	rooms, err := ac.Accommodations.GetRoomsByAccommodation(id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

func (ac *AccommodationController) GetAllRooms(c *gin.Context) {
	if c.Query("available") == "true" {
		rooms, err := ac.Accommodations.GetAvailableRooms()
		if err != nil {
			utils.HandleServiceError(c, err)
			return
		}
		utils.JSONSuccess(c, http.StatusOK, rooms)
		return
	}

	rooms, err := ac.Accommodations.GetAllRooms()
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

func (ac *AccommodationController) GetRoomOccupancy(c *gin.Context) {
	roomID, ok := parseIDParam(c, "roomId")
	if !ok {
		return
	}
	room, err := ac.Accommodations.GetRoomOccupancy(roomID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

type roomPayload struct {
	RoomNumber string `json:"roomNumber" binding:"required"`
	Capacity   int    `json:"capacity" binding:"required"`
}

func (ac *AccommodationController) CreateRoom(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var payload roomPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Room number and capacity are required")
		return
	}

	room, err := ac.Accommodations.CreateRoom(
		middleware.ActorFromContext(c), c.ClientIP(), id, payload.RoomNumber, payload.Capacity)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, room)
}

func (ac *AccommodationController) UpdateRoom(c *gin.Context) {
	roomID, ok := parseIDParam(c, "roomId")
	if !ok {
		return
	}

	var input services.UpdateRoomInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid room payload")
		return
	}

	room, err := ac.Accommodations.UpdateRoom(middleware.ActorFromContext(c), c.ClientIP(), roomID, input)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

func (ac *AccommodationController) DeleteRoom(c *gin.Context) {
	roomID, ok := parseIDParam(c, "roomId")
	if !ok {
		return
	}
	if err := ac.Accommodations.DeleteRoom(middleware.ActorFromContext(c), c.ClientIP(), roomID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "Room deleted"})
}

type allocationPayload struct {
	RoomID      uint       `json:"roomId" binding:"required"`
	EmployeeID  uint       `json:"employeeId" binding:"required"`
	CheckInDate *time.Time `json:"checkInDate"`
}

func (ac *AccommodationController) CreateAllocation(c *gin.Context) {
	var payload allocationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Room ID and employee ID are required")
		return
	}

	allocation, err := ac.Accommodations.CreateAllocation(
		middleware.ActorFromContext(c), c.ClientIP(),
		payload.RoomID, payload.EmployeeID, payload.CheckInDate)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, allocation)
}

type checkOutPayload struct {
	CheckOutDate *time.Time `json:"checkOutDate"`
}

func (ac *AccommodationController) CheckOut(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var payload checkOutPayload
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&payload); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid checkout payload")
			return
		}
	}

	allocation, err := ac.Accommodations.CheckOut(
		middleware.ActorFromContext(c), c.ClientIP(), id, payload.CheckOutDate)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, allocation)
}

func (ac *AccommodationController) GetEmployeeRoomHistory(c *gin.Context) {
	employeeID, ok := parseIDParam(c, "employeeId")
	if !ok {
		return
	}
	history, err := ac.Accommodations.GetEmployeeRoomHistory(employeeID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, history)
}
