package entity

import (
	"time"

	"github.com/google/uuid"
)

type Event struct {
	BaseSimple
	Title         string    `db:"title"`
	Sport         string    `db:"sport"`
	Description   string    `db:"description"`
	StartAt       time.Time `db:"start_at"`
	EndAt         time.Time `db:"end_at"`
	TeamSize      *int      `db:"team_size"`
	CapacityTeams *int      `db:"capacity_teams"`
}

type EventWindow struct {
	ID      uuid.UUID `db:"id"`
	EventID uuid.UUID `db:"event_id"`
	StartAt time.Time `db:"start_at"`
	EndAt   time.Time `db:"end_at"`
}

type EventRSVP struct {
	BaseSimple
	EventID uuid.UUID `db:"event_id"`
	UserID  uuid.UUID `db:"user_id"`
}

// CourtEvent is an event occupying one court, with all of its windows.
type CourtEvent struct {
	CourtID uuid.UUID
	Event   Event
	Windows []EventWindow
}
