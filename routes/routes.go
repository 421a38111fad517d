package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"hr-backend/controllers"
	"hr-backend/middleware"
	"hr-backend/models"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// Controllers bundles everything SetupRouter wires up.
type Controllers struct {
	Auth           *controllers.AuthController
	Users          *controllers.UserController
	Employees      *controllers.EmployeeController
	Accommodations *controllers.AccommodationController
	Contracts      *controllers.ContractController
	Advances       *controllers.AdvanceController
	Audit          *controllers.AuditController
	Dashboard      *controllers.DashboardController
}

func SetupRouter(ctrl Controllers, jwtSecret string) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.Logger())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/login", ctrl.Auth.Login)
		auth.POST("/logout", middleware.RequireAuth(jwtSecret), ctrl.Auth.Logout)
		auth.POST("/change-password", middleware.RequireAuth(jwtSecret), ctrl.Auth.ChangePassword)
	}

	protected := api.Group("")
	protected.Use(middleware.RequireAuth(jwtSecret))

	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	staffOnly := middleware.RequireRoles(models.RoleAdmin, models.RoleHR)

	users := protected.Group("/users")
	{
		users.GET("", adminOnly, ctrl.Users.GetUsers)
	}

	employees := protected.Group("/employees")
	{
		// /me routes must come before /:id
		employees.GET("/me", ctrl.Employees.GetMe)
		employees.GET("/me/room", ctrl.Employees.GetMyRoom)
		employees.GET("/me/room-history", ctrl.Employees.GetMyRoomHistory)

		employees.GET("", staffOnly, ctrl.Employees.GetEmployees)
		employees.POST("", staffOnly, ctrl.Employees.CreateEmployee)
		employees.GET("/:id", staffOnly, ctrl.Employees.GetEmployeeByID)
		employees.PUT("/:id", staffOnly, ctrl.Employees.UpdateEmployee)
		employees.DELETE("/:id", adminOnly, ctrl.Employees.DeleteEmployee)

		employees.GET("/:id/contracts", staffOnly, ctrl.Contracts.GetEmployeeContracts)
		employees.POST("/:id/contracts", staffOnly, ctrl.Contracts.CreateContract)
	}

	accommodations := protected.Group("/accommodations")
	accommodations.Use(staffOnly)
	{
		accommodations.GET("", ctrl.Accommodations.GetAccommodations)
		accommodations.POST("", ctrl.Accommodations.CreateAccommodation)
		accommodations.PUT("/:id", ctrl.Accommodations.UpdateAccommodation)

		accommodations.GET("/:id/rooms", ctrl.Accommodations.GetRoomsByAccommodation)
		accommodations.POST("/:id/rooms", ctrl.Accommodations.CreateRoom)
		accommodations.GET("/rooms", ctrl.Accommodations.GetAllRooms)
		accommodations.GET("/rooms/:roomId", ctrl.Accommodations.GetRoomOccupancy)
		accommodations.PUT("/rooms/:roomId", ctrl.Accommodations.UpdateRoom)
		accommodations.DELETE("/rooms/:roomId", ctrl.Accommodations.DeleteRoom)

		accommodations.POST("/allocations", ctrl.Accommodations.CreateAllocation)
		accommodations.PUT("/allocations/:id/checkout", ctrl.Accommodations.CheckOut)
		accommodations.GET("/employees/:employeeId/room-history", ctrl.Accommodations.GetEmployeeRoomHistory)
	}

	contracts := protected.Group("/contracts")
	{
		contracts.GET("/:id/pdf", staffOnly, ctrl.Contracts.DownloadContractPdf)
		contracts.PUT("/:id/invalidate", staffOnly, ctrl.Contracts.InvalidateContract)
	}

	advances := protected.Group("/advances")
	{
		advances.POST("", ctrl.Advances.CreateRequest)
		advances.GET("/my-history", ctrl.Advances.GetMyHistory)
		advances.GET("", staffOnly, ctrl.Advances.GetRequests)
		advances.PUT("/:id/review", staffOnly, ctrl.Advances.ReviewRequest)
	}

	auditLogs := protected.Group("/audit-logs")
	auditLogs.Use(adminOnly)
	{
		auditLogs.GET("", ctrl.Audit.GetLogs)
		auditLogs.GET("/entity/:type/:id", ctrl.Audit.GetEntityHistory)
		auditLogs.GET("/recent", ctrl.Audit.GetRecent)
		auditLogs.GET("/statistics", ctrl.Audit.GetStatistics)
	}

	dashboard := protected.Group("/dashboard")
	dashboard.Use(staffOnly)
	{
		dashboard.GET("/stats", ctrl.Dashboard.GetStats)
	}

	return r
}
