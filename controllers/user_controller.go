package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hr-backend/services"
	"hr-backend/utils"
)

type UserController struct {
	Users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{Users: users}
}

func (uc *UserController) GetUsers(c *gin.Context) {
	var isActive *bool
	if raw := c.Query("isActive"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "isActive must be true or false")
			return
		}
		isActive = &parsed
	}

	users, err := uc.Users.GetAllUsers(c.Query("role"), isActive, c.Query("search"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, users)
}
