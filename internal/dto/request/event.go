package request

import "time"

type SearchEventsRequest struct {
	Sport string     `json:"sport" validate:"max=50"`
	City  string     `json:"city" validate:"max=100"`
	Query string     `json:"q" validate:"max=100"`
	From  *time.Time `json:"from,omitempty"`
	To    *time.Time `json:"to,omitempty"`
	OffsetRequest
}

type EventWindowRequest struct {
	StartAt time.Time `json:"start_at" validate:"required"`
	EndAt   time.Time `json:"end_at" validate:"required,gtfield=StartAt"`
}

type CreateEventRequest struct {
	Title         string               `json:"title" validate:"required,max=200"`
	Sport         string               `json:"sport" validate:"required,max=50"`
	Description   string               `json:"description"`
	StartAt       time.Time            `json:"start_at" validate:"required"`
	EndAt         time.Time            `json:"end_at" validate:"required,gtfield=StartAt"`
	TeamSize      *int                 `json:"team_size,omitempty" validate:"omitempty,gte=1"`
	CapacityTeams *int                 `json:"capacity_teams,omitempty" validate:"omitempty,gte=1"`
	CourtIDs      []string             `json:"court_ids" validate:"required,min=1,dive,uuid"`
	Windows       []EventWindowRequest `json:"windows" validate:"dive"`
}
