package adaptor

import (
	"net/http"

	"court-booking/internal/dto/request"
	"court-booking/internal/usecase"
	"court-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CourtHandler struct {
	service usecase.CourtService
	log     *zap.Logger
}

func NewCourtHandler(service usecase.CourtService, log *zap.Logger) *CourtHandler {
	return &CourtHandler{
		service: service,
		log:     log.With(zap.String("handler", "court")),
	}
}

// SearchCourts handles GET /api/courts/search (public)
func (h *CourtHandler) SearchCourts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	hour, err := queryInt(query, "hour")
	if err != nil {
		utils.ResponseBadRequest(w, err.Error(), nil)
		return
	}

	req := &request.SearchCourtsRequest{
		Sport:    query.Get("sport"),
		Date:     query.Get("date"),
		Hour:     hour,
		Duration: utils.ParseInt(query.Get("duration"), 0),
		City:     query.Get("city"),
		Query:    query.Get("q"),
	}

	result, err := h.service.SearchCourts(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.log, err, "search courts")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}

// GetCourt handles GET /api/courts/{id} (public)
func (h *CourtHandler) GetCourt(w http.ResponseWriter, r *http.Request) {
	court, err := h.service.GetCourt(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.log, err, "get court")
		return
	}

	utils.ResponseSuccess(w, "success", court)
}

// GetDayView handles GET /api/courts/{id}/day (public)
func (h *CourtHandler) GetDayView(w http.ResponseWriter, r *http.Request) {
	req := &request.DayViewRequest{Date: r.URL.Query().Get("date")}

	day, err := h.service.GetDayView(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, h.log, err, "get day view")
		return
	}

	utils.ResponseSuccess(w, "success", day)
}

// QuotePrice handles GET /api/courts/{id}/quote (public)
func (h *CourtHandler) QuotePrice(w http.ResponseWriter, r *http.Request) {
	slot, err := slotFromQuery(r.URL.Query())
	if err != nil {
		utils.ResponseBadRequest(w, err.Error(), nil)
		return
	}

	quote, err := h.service.QuotePrice(r.Context(), chi.URLParam(r, "id"), &request.QuoteRequest{SlotRequest: slot})
	if err != nil {
		writeServiceError(w, h.log, err, "quote price")
		return
	}

	utils.ResponseSuccess(w, "success", quote)
}

// ==================== ADMIN METHODS ====================

// CreateCourt handles POST /api/admin/courts (admin only)
func (h *CourtHandler) CreateCourt(w http.ResponseWriter, r *http.Request) {
	var req request.CreateCourtRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	court, err := h.service.CreateCourt(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "create court")
		return
	}

	utils.ResponseCreated(w, "Court created", court)
}

// UpdateCourt handles PUT /api/admin/courts/{id} (admin only)
func (h *CourtHandler) UpdateCourt(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateCourtRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	court, err := h.service.UpdateCourt(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "update court")
		return
	}

	utils.ResponseSuccess(w, "Court updated", court)
}
