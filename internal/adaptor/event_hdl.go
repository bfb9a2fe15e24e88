package adaptor

import (
	"net/http"

	"court-booking/internal/dto/request"
	"court-booking/internal/usecase"
	"court-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type EventHandler struct {
	service usecase.EventService
	log     *zap.Logger
}

func NewEventHandler(service usecase.EventService, log *zap.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		log:     log.With(zap.String("handler", "event")),
	}
}

// SearchEvents handles GET /api/events/search (public)
func (h *EventHandler) SearchEvents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	from, err := queryTime(query, "from")
	if err != nil {
		utils.ResponseBadRequest(w, err.Error(), nil)
		return
	}
	to, err := queryTime(query, "to")
	if err != nil {
		utils.ResponseBadRequest(w, err.Error(), nil)
		return
	}

	req := &request.SearchEventsRequest{
		Sport:         query.Get("sport"),
		City:          query.Get("city"),
		Query:         query.Get("q"),
		From:          from,
		To:            to,
		OffsetRequest: pageFromQuery(query),
	}

	events, err := h.service.SearchEvents(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.log, err, "search events")
		return
	}

	utils.ResponseSuccess(w, "success", events)
}

// GetEvent handles GET /api/events/{id} (public, is_joined needs auth)
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	viewerID := ""
	if userID, ok := utils.GetUserIDFromContext(r.Context()); ok {
		viewerID = userID.String()
	}

	event, err := h.service.GetEvent(r.Context(), chi.URLParam(r, "id"), viewerID)
	if err != nil {
		writeServiceError(w, h.log, err, "get event")
		return
	}

	utils.ResponseSuccess(w, "success", event)
}

// GetMyEvents handles GET /api/events/my (protected)
func (h *EventHandler) GetMyEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	events, err := h.service.GetMyEvents(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.log, err, "get my events")
		return
	}

	utils.ResponseSuccess(w, "success", events)
}

// JoinEvent handles POST /api/events/{id}/rsvp (protected)
func (h *EventHandler) JoinEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.service.JoinEvent(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, h.log, err, "join event")
		return
	}

	utils.ResponseCreated(w, "Joined event", nil)
}

// LeaveEvent handles DELETE /api/events/{id}/rsvp (protected)
func (h *EventHandler) LeaveEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.service.LeaveEvent(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, h.log, err, "leave event")
		return
	}

	utils.ResponseSuccess(w, "Left event", nil)
}

// ==================== ADMIN METHODS ====================

// CreateEvent handles POST /api/admin/events (admin only)
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req request.CreateEventRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	event, err := h.service.CreateEvent(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "create event")
		return
	}

	utils.ResponseCreated(w, "Event created", event)
}
