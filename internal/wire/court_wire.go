package wire

import (
	"court-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireCourt(r chi.Router, courtHandler *adaptor.CourtHandler, g guards) {
	// ==================== PUBLIC ROUTES ====================
	r.Route("/api/courts", func(r chi.Router) {
		// GET /api/courts/search - Courts free or conflicting for one slot
		r.Get("/search", courtHandler.SearchCourts)

		r.Get("/{id}", courtHandler.GetCourt)

		// GET /api/courts/{id}/day - Hourly slots for one local day
		r.Get("/{id}/day", courtHandler.GetDayView)

		// GET /api/courts/{id}/quote - Price preview without booking
		r.Get("/{id}/quote", courtHandler.QuotePrice)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/courts", func(r chi.Router) {
		// Require both authentication AND admin role
		r.Use(g.auth)
		r.Use(g.admin)

		r.Post("/", courtHandler.CreateCourt)
		r.Put("/{id}", courtHandler.UpdateCourt)
	})
}
