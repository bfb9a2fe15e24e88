package entity

import (
	"github.com/google/uuid"
)

type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"
	InviteStatusAccepted InviteStatus = "accepted"
	InviteStatusDeclined InviteStatus = "declined"
	InviteStatusLeft     InviteStatus = "left"
)

type BookingInvite struct {
	BaseSimple
	BookingID uuid.UUID    `db:"booking_id"`
	InviterID uuid.UUID    `db:"inviter_id"`
	InviteeID uuid.UUID    `db:"invitee_id"`
	Status    InviteStatus `db:"status"`
}

// InviteDetail is an invite joined with its booking and court.
type InviteDetail struct {
	BookingInvite
	Booking Booking
	Court   Court
}
