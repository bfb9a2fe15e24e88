package adaptor

import (
	"net/http"

	"court-booking/internal/dto/request"
	"court-booking/internal/usecase"
	"court-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type InviteHandler struct {
	service usecase.InviteService
	log     *zap.Logger
}

func NewInviteHandler(service usecase.InviteService, log *zap.Logger) *InviteHandler {
	return &InviteHandler{
		service: service,
		log:     log.With(zap.String("handler", "invite")),
	}
}

// CreateInvites handles POST /api/bookings/invites (protected)
func (h *InviteHandler) CreateInvites(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req request.CreateInvitesRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.service.CreateInvites(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "create invites")
		return
	}

	utils.ResponseCreated(w, "Invites sent", result)
}

// GetPendingInvites handles GET /api/bookings/invites (protected)
func (h *InviteHandler) GetPendingInvites(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	invites, err := h.service.GetPendingInvites(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.log, err, "get pending invites")
		return
	}

	utils.ResponseSuccess(w, "success", invites)
}

// RespondInvite handles PATCH /api/bookings/invites/{id} (protected)
func (h *InviteHandler) RespondInvite(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req request.RespondInviteRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	invite, err := h.service.RespondInvite(r.Context(), userID, chi.URLParam(r, "id"), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "respond invite")
		return
	}

	utils.ResponseSuccess(w, "success", invite)
}

// LeaveInvite handles DELETE /api/bookings/invites/{id} (protected)
func (h *InviteHandler) LeaveInvite(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.service.LeaveInvite(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, h.log, err, "leave invite")
		return
	}

	utils.ResponseSuccess(w, "Left booking", nil)
}
