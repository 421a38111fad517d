package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hr-backend/middleware"
	"hr-backend/services"
	"hr-backend/utils"
)

type AuthController struct {
	Users     *services.UserService
	JWTSecret string
}

func NewAuthController(users *services.UserService, jwtSecret string) *AuthController {
	return &AuthController{Users: users, JWTSecret: jwtSecret}
}

type loginPayload struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (ac *AuthController) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := ac.Users.Login(c.ClientIP(), payload.Email, payload.Password)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	token, err := utils.GenerateToken(*user, ac.JWTSecret)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":        user.ID,
			"firstName": user.FirstName,
			"lastName":  user.LastName,
			"email":     user.Email,
			"role":      user.Role,
		},
	})
}

func (ac *AuthController) Logout(c *gin.Context) {
	ac.Users.Logout(middleware.ActorFromContext(c), c.ClientIP())
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "Logged out"})
}

type changePasswordPayload struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

func (ac *AuthController) ChangePassword(c *gin.Context) {
	var payload changePasswordPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Old and new password are required")
		return
	}

	actor := middleware.ActorFromContext(c)
	if err := ac.Users.ChangePassword(actor, payload.OldPassword, payload.NewPassword); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "Password changed"})
}
