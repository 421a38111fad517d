package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"hr-backend/config"
	"hr-backend/controllers"
	"hr-backend/routes"
	"hr-backend/services"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found or couldn't load it; continuing with environment variables")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("ERROR: JWT_SECRET environment variable is not set. Cannot issue tokens.")
	}

	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Database connect failed: %v", err)
	}
	db := config.DB
	if db == nil {
		log.Fatal("config.DB is nil after ConnectDatabase()")
	}
	log.Println("Database connection established and migrations applied.")

	// Services
	auditService := services.NewAuditService(db)
	userService := services.NewUserService(db, auditService)
	employeeService := services.NewEmployeeService(db, auditService)
	accommodationService := services.NewAccommodationService(db, auditService)
	pdfGenerator := services.NewPdfGenerator(os.Getenv("CONTRACT_PDF_DIR"))
	contractService := services.NewContractService(db, auditService, pdfGenerator)
	advanceService := services.NewAdvanceRequestService(db, auditService)
	dashboardService := services.NewDashboardService(db)

	// Controllers
	ctrl := routes.Controllers{
		Auth:           controllers.NewAuthController(userService, jwtSecret),
		Users:          controllers.NewUserController(userService),
		Employees:      controllers.NewEmployeeController(employeeService),
		Accommodations: controllers.NewAccommodationController(accommodationService),
		Contracts:      controllers.NewContractController(contractService),
		Advances:       controllers.NewAdvanceController(advanceService),
		Audit:          controllers.NewAuditController(auditService),
		Dashboard:      controllers.NewDashboardController(dashboardService),
	}

	router := routes.SetupRouter(ctrl, jwtSecret)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped gracefully")
}
