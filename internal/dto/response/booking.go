package response

import (
	"time"

	"court-booking/internal/data/entity"

	"github.com/google/uuid"
)

type CreateBookingResponse struct {
	ID             string  `json:"id"`
	PriceEUR       float64 `json:"price_eur"`
	AppliedOfferID *string `json:"applied_offer_id"`
}

type BookingResponse struct {
	ID             string        `json:"id"`
	Court          CourtResponse `json:"court"`
	StartAt        time.Time     `json:"start_at"`
	EndAt          time.Time     `json:"end_at"`
	PriceEUR       float64       `json:"price_eur"`
	AppliedOfferID *string       `json:"applied_offer_id"`
	Role           string        `json:"role"`
	// InviteID is the accepted invite behind a guest booking, the id
	// DELETE /api/bookings/invites/{id} takes to leave it.
	InviteID  *string   `json:"invite_id"`
	CanCancel bool      `json:"can_cancel"`
	CanLeave  bool      `json:"can_leave"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateInvitesResponse struct {
	BookingID string `json:"booking_id"`
	Invited   int    `json:"invited"`
}

type InviteResponse struct {
	ID        string              `json:"id"`
	BookingID string              `json:"booking_id"`
	InviterID string              `json:"inviter_id"`
	InviteeID string              `json:"invitee_id"`
	Status    entity.InviteStatus `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
}

type InviteDetailResponse struct {
	InviteResponse
	Court   CourtResponse `json:"court"`
	StartAt time.Time     `json:"start_at"`
	EndAt   time.Time     `json:"end_at"`
}

const (
	BookingRoleOwner = "owner"
	BookingRoleGuest = "guest"
)

// Helper converters
func uuidPtrString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func BookingToCreateResponse(booking *entity.Booking) CreateBookingResponse {
	return CreateBookingResponse{
		ID:             booking.ID.String(),
		PriceEUR:       booking.PriceEUR,
		AppliedOfferID: uuidPtrString(booking.AppliedOfferID),
	}
}

func BookingToResponse(b *entity.BookingWithCourt) BookingResponse {
	role := BookingRoleOwner
	if b.Guest {
		role = BookingRoleGuest
	}
	return BookingResponse{
		ID:             b.ID.String(),
		Court:          CourtToResponse(&b.Court),
		StartAt:        b.StartAt,
		EndAt:          b.EndAt,
		PriceEUR:       b.PriceEUR,
		AppliedOfferID: uuidPtrString(b.AppliedOfferID),
		Role:           role,
		InviteID:       uuidPtrString(b.InviteID),
		CanCancel:      !b.Guest,
		CanLeave:       b.Guest,
		CreatedAt:      b.CreatedAt,
	}
}

func InviteToResponse(invite *entity.BookingInvite) InviteResponse {
	return InviteResponse{
		ID:        invite.ID.String(),
		BookingID: invite.BookingID.String(),
		InviterID: invite.InviterID.String(),
		InviteeID: invite.InviteeID.String(),
		Status:    invite.Status,
		CreatedAt: invite.CreatedAt,
	}
}

func InviteToDetailResponse(invite *entity.InviteDetail) InviteDetailResponse {
	return InviteDetailResponse{
		InviteResponse: InviteToResponse(&invite.BookingInvite),
		Court:          CourtToResponse(&invite.Court),
		StartAt:        invite.Booking.StartAt,
		EndAt:          invite.Booking.EndAt,
	}
}
