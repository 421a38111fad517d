package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hr-backend/services"
	"hr-backend/utils"
)

type DashboardController struct {
	Dashboard *services.DashboardService
}

func NewDashboardController(dashboard *services.DashboardService) *DashboardController {
	return &DashboardController{Dashboard: dashboard}
}

func (dc *DashboardController) GetStats(c *gin.Context) {
	stats, err := dc.Dashboard.GetStats()
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, stats)
}
