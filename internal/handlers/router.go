package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/xelth-com/storesync/internal/buildinfo"
	"github.com/xelth-com/storesync/internal/config"
	"github.com/xelth-com/storesync/internal/database"
	"github.com/xelth-com/storesync/internal/middleware"
	"github.com/xelth-com/storesync/internal/sync"
)

// Router wraps the mux router and its dependencies
type Router struct {
	*mux.Router
	db   *database.DB
	cfg  *config.Config
	sync *sync.Service
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(db *database.DB, cfg *config.Config, svc *sync.Service) *Router {
	r := &Router{
		Router: mux.NewRouter(),
		db:     db,
		cfg:    cfg,
		sync:   svc,
	}
	r.Use(middleware.RequestLogger)

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// Auth routes
	auth := r.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.login).Methods("POST")

	// Sync routes (protected)
	api := r.PathPrefix("/api/sync").Subrouter()
	api.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	api.HandleFunc("/push", r.push).Methods("POST")
	api.HandleFunc("/pull", r.pull).Methods("POST")
	api.HandleFunc("/history", r.history).Methods("GET")

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	status := "ok"
	code := http.StatusOK
	if sqlDB, err := r.db.DB.DB(); err != nil || sqlDB.PingContext(req.Context()) != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	respondJSON(w, code, map[string]string{
		"status":     status,
		"server":     "central",
		"version":    buildinfo.Version(),
		"started_at": buildinfo.StartTime,
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response in the shape terminals expect
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"status":  "error",
		"message": message,
	})
}
