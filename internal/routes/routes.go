package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/breatheapp/breathe-backend/internal/handlers"
)

func SetupRoutes(r *chi.Mux, h *handlers.Handler) {
	// Identity bootstrap
	r.Post("/api/auth/anonymous", h.AnonymousSignIn)

	// Profile lifecycle
	r.Get("/api/profile", h.GetProfile)
	r.Post("/api/onboarding", h.CompleteOnboarding)

	// Cravings SOS (rate limited in middleware; every call is a fresh generation)
	r.Post("/api/sos", h.CravingSOS)

	// Smoke-free stats
	r.Get("/api/stats", h.GetStats)

	// WebSocket endpoint streaming the 1-second dashboard ticker
	r.Get("/ws/stats", h.StatsWebSocket)
}
