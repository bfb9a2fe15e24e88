package adaptor

import (
	"net/http"

	"court-booking/internal/dto/request"
	"court-booking/internal/usecase"
	"court-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type OfferHandler struct {
	service usecase.OfferService
	log     *zap.Logger
}

func NewOfferHandler(service usecase.OfferService, log *zap.Logger) *OfferHandler {
	return &OfferHandler{
		service: service,
		log:     log.With(zap.String("handler", "offer")),
	}
}

// SearchOffers handles GET /api/offers/search (public)
func (h *OfferHandler) SearchOffers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := &request.SearchOffersRequest{
		Sport:         query.Get("sport"),
		City:          query.Get("city"),
		Query:         query.Get("q"),
		Sort:          query.Get("sort"),
		OffsetRequest: pageFromQuery(query),
	}

	offers, err := h.service.SearchOffers(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.log, err, "search offers")
		return
	}

	utils.ResponseSuccess(w, "success", offers)
}

// ==================== ADMIN METHODS ====================

// CreateOffer handles POST /api/admin/offers (admin only)
func (h *OfferHandler) CreateOffer(w http.ResponseWriter, r *http.Request) {
	var req request.CreateOfferRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	offer, err := h.service.CreateOffer(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "create offer")
		return
	}

	utils.ResponseCreated(w, "Offer created", offer)
}

// DeleteOffer handles DELETE /api/admin/offers/{id} (admin only)
func (h *OfferHandler) DeleteOffer(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteOffer(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, h.log, err, "delete offer")
		return
	}

	utils.ResponseSuccess(w, "Offer deleted", nil)
}
