package wire

import (
	"court-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireOffer(r chi.Router, offerHandler *adaptor.OfferHandler, g guards) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/offers/search - Offers active right now
	r.Get("/api/offers/search", offerHandler.SearchOffers)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/offers", func(r chi.Router) {
		r.Use(g.auth)
		r.Use(g.admin)

		r.Post("/", offerHandler.CreateOffer)
		r.Delete("/{id}", offerHandler.DeleteOffer)
	})
}
