package utils

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"hr-backend/services"
)

func JSONSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

func JSONError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": false, "error": message})
}

// HandleServiceError maps service errors to HTTP responses. Anything
// that is not an AppError or a missing record is a 500.
func HandleServiceError(c *gin.Context, err error) {
	var appErr *services.AppError
	if errors.As(err, &appErr) {
		JSONError(c, appErr.Status, appErr.Message)
		return
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		JSONError(c, http.StatusNotFound, "Resource not found")
		return
	}
	log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	JSONError(c, http.StatusInternalServerError, "Internal server error")
}
