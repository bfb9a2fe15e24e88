package request

type CreateBookingRequest struct {
	CourtID string `json:"court_id" validate:"required,uuid"`
	SlotRequest
}

type CreateInvitesRequest struct {
	BookingID  string   `json:"booking_id" validate:"required,uuid"`
	InviteeIDs []string `json:"invitee_ids" validate:"required,min=1,max=20,dive,uuid"`
}

type RespondInviteRequest struct {
	Action string `json:"action" validate:"required,oneof=accept decline"`
}
