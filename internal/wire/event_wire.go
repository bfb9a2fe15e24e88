package wire

import (
	"court-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireEvent(r chi.Router, eventHandler *adaptor.EventHandler, g guards) {
	r.Route("/api/events", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		r.Get("/search", eventHandler.SearchEvents)

		// Auth is optional here, it only fills is_joined
		r.With(g.optionalAuth).Get("/{id}", eventHandler.GetEvent)

		// ==================== PROTECTED ROUTES (require auth) ====================
		r.Group(func(r chi.Router) {
			r.Use(g.auth)

			r.Get("/my", eventHandler.GetMyEvents)
			r.Post("/{id}/rsvp", eventHandler.JoinEvent)
			r.Delete("/{id}/rsvp", eventHandler.LeaveEvent)
		})
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/events", func(r chi.Router) {
		r.Use(g.auth)
		r.Use(g.admin)

		r.Post("/", eventHandler.CreateEvent)
	})
}
