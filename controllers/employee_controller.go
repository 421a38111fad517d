package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hr-backend/middleware"
	"hr-backend/services"
	"hr-backend/utils"
)

type EmployeeController struct {
	Employees *services.EmployeeService
}

func NewEmployeeController(employees *services.EmployeeService) *EmployeeController {
	return &EmployeeController{Employees: employees}
}

func (ec *EmployeeController) GetEmployees(c *gin.Context) {
	var isActive *bool
	if raw := c.Query("isActive"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "isActive must be true or false")
			return
		}
		isActive = &parsed
	}

	employees, err := ec.Employees.GetAllEmployees(isActive, c.Query("search"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, employees)
}

func (ec *EmployeeController) GetEmployeeByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	employee, err := ec.Employees.GetEmployeeByID(id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, employee)
}

func (ec *EmployeeController) GetMe(c *gin.Context) {
	actor := middleware.ActorFromContext(c)
	if actor == nil {
		utils.JSONError(c, http.StatusUnauthorized, "Authentication required")
		return
	}
	employee, err := ec.Employees.GetEmployeeByUserID(actor.UserID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, employee)
}

func (ec *EmployeeController) GetMyRoom(c *gin.Context) {
	actor := middleware.ActorFromContext(c)
	if actor == nil {
		utils.JSONError(c, http.StatusUnauthorized, "Authentication required")
		return
	}
	info, err := ec.Employees.GetMyRoomInfo(actor.UserID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, info)
}

func (ec *EmployeeController) GetMyRoomHistory(c *gin.Context) {
	actor := middleware.ActorFromContext(c)
	if actor == nil {
		utils.JSONError(c, http.StatusUnauthorized, "Authentication required")
		return
	}
	history, err := ec.Employees.GetMyRoomHistory(actor.UserID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, history)
}

func (ec *EmployeeController) CreateEmployee(c *gin.Context) {
	var input services.CreateEmployeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid employee payload: "+err.Error())
		return
	}

	employee, err := ec.Employees.CreateEmployee(middleware.ActorFromContext(c), c.ClientIP(), input)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, employee)
}

func (ec *EmployeeController) UpdateEmployee(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input services.UpdateEmployeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid employee payload: "+err.Error())
		return
	}

	employee, err := ec.Employees.UpdateEmployee(middleware.ActorFromContext(c), c.ClientIP(), id, input)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, employee)
}

func (ec *EmployeeController) DeleteEmployee(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ec.Employees.DeleteEmployee(middleware.ActorFromContext(c), c.ClientIP(), id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "Employee deactivated"})
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "Invalid "+name+" parameter")
		return 0, false
	}
	return uint(id), true
}
