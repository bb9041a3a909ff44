package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/cache"
	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/catalog"
	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/repository"
	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/service"
	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/transport/rest/handler"
	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/transport/rest/middleware"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService  *service.AuthService
	SessionRepo  repository.SessionRepo
	SessionCache cache.SessionCache
	EventQueue   cache.EventQueue
	Catalog      *catalog.Catalog
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	intakeHandler := handler.NewIntakeHandler(c.EventQueue)
	adminHandler := handler.NewAdminHandler(c.SessionRepo, c.SessionCache, c.Catalog)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/events", intakeHandler.Enqueue).Methods("POST", "OPTIONS")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Operator routes (require operator auth)
	adminRoutes := v1.NewRoute().Subrouter()
	adminRoutes.Use(authMW.RequireOperator)

	adminRoutes.HandleFunc("/admin/sessions/{respondentId}", adminHandler.Status).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/admin/sessions/{respondentId}/reset", adminHandler.Reset).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/admin/sessions/{respondentId}/goto", adminHandler.JumpTo).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
