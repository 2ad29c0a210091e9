package handlers

import (
	"net/http"

	"fleetdash-backend/internal/services"
	"fleetdash-backend/internal/store"
	"fleetdash-backend/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Deps are the components the HTTP API is served from
type Deps struct {
	Registry       *store.Registry
	Projector      *store.Projector
	Alerts         *services.AlertService
	Tokens         *services.TokenStore
	Hub            *websocket.Hub
	AllowedOrigins []string
}

// NewRouter builds the chi router with all routes mounted. Optional
// dependencies (Hub, Alerts) disable their routes when nil; a nil Tokens
// gets a fresh in-memory store.
func NewRouter(deps Deps) http.Handler {
	if deps.Tokens == nil {
		deps.Tokens = services.NewTokenStore()
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)

	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Live dashboard feed
	if deps.Hub != nil {
		r.Get("/ws", websocket.HandleWebSocket(deps.Hub))
	}

	r.Route("/api", func(r chi.Router) {
		// Drivers
		r.Get("/drivers", GetDrivers(deps.Registry))
		r.Post("/drivers", CreateDriver(deps.Registry))
		r.Delete("/drivers", RemoveDrivers(deps.Registry, deps.Tokens))
		r.Get("/drivers/{license}", GetDriver(deps.Registry))
		r.Post("/drivers/{license}/duty/start", StartDuty(deps.Registry))
		r.Post("/drivers/{license}/duty/end", EndDuty(deps.Registry))
		r.Post("/drivers/{license}/fcm-token", RegisterDriverFCMToken(deps.Registry, deps.Tokens))

		// Fatigue
		r.Get("/fatigue/summary", GetFatigueSummary(deps.Registry))

		// Vehicles and dispatch
		r.Get("/vehicles", GetVehicles(deps.Projector))
		r.Get("/vehicles/{id}", GetVehicle(deps.Projector))
		r.Post("/vehicles/{id}/assign-job", AssignJob(deps.Projector, deps.Alerts))

		// Dashboard
		r.Get("/dashboard/stats", GetDashboardStats(deps.Registry, deps.Projector))

		// Alerts
		if deps.Alerts != nil {
			r.Get("/alerts", GetAlerts(deps.Alerts))
		}
		r.Post("/supervisors/fcm-token", RegisterSupervisorFCMToken(deps.Tokens))
	})

	return r
}
