package routes

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/nanafox/user-management-system/internal/handlers"
)

// SetupRoutes configures all application routes
func SetupRoutes(userHandler *handlers.UserHandler, healthHandler *handlers.HealthHandler) {
	// Health check routes
	http.HandleFunc("/healthz", healthHandler.HealthCheck)
	http.HandleFunc("/livez", healthHandler.LivenessCheck)
	http.HandleFunc("/readyz", healthHandler.ReadinessCheck)

	// API status route
	http.HandleFunc("/api/status", healthHandler.Status)

	// User routes
	http.HandleFunc("/api/users", userHandler.Users)
	http.HandleFunc("/api/users/", userHandler.UserByID)

	// Swagger documentation
	http.Handle("/api/docs/", httpSwagger.WrapHandler)

	// Root route
	http.HandleFunc("/", rootHandler)
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("User management system is running."))
}
