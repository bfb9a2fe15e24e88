package response

import (
	"time"

	"court-booking/internal/data/entity"
)

type EventWindowResponse struct {
	StartAt time.Time `json:"start_at"`
	EndAt   time.Time `json:"end_at"`
}

type EventResponse struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Sport         string         `json:"sport"`
	Description   string         `json:"description"`
	StartAt       time.Time      `json:"start_at"`
	EndAt         time.Time      `json:"end_at"`
	TeamSize      *int           `json:"team_size"`
	CapacityTeams *int           `json:"capacity_teams"`
	Court         *CourtResponse `json:"court"`
}

type EventDetailResponse struct {
	EventResponse
	Courts    []CourtResponse       `json:"courts"`
	Windows   []EventWindowResponse `json:"windows,omitempty"`
	RSVPCount int64                 `json:"rsvp_count"`
	IsJoined  bool                  `json:"is_joined"`
}

// Helper converters
func EventToResponse(event *entity.Event, primary *entity.Court) EventResponse {
	resp := EventResponse{
		ID:            event.ID.String(),
		Title:         event.Title,
		Sport:         event.Sport,
		Description:   event.Description,
		StartAt:       event.StartAt,
		EndAt:         event.EndAt,
		TeamSize:      event.TeamSize,
		CapacityTeams: event.CapacityTeams,
	}
	if primary != nil {
		court := CourtToResponse(primary)
		resp.Court = &court
	}
	return resp
}

func EventToDetailResponse(event *entity.Event, primary *entity.Court, courts []*entity.Court, windows []entity.EventWindow, rsvps int64, joined bool) EventDetailResponse {
	detail := EventDetailResponse{
		EventResponse: EventToResponse(event, primary),
		Courts:        make([]CourtResponse, 0, len(courts)),
		RSVPCount:     rsvps,
		IsJoined:      joined,
	}
	for _, c := range courts {
		detail.Courts = append(detail.Courts, CourtToResponse(c))
	}
	for _, w := range windows {
		detail.Windows = append(detail.Windows, EventWindowResponse{StartAt: w.StartAt, EndAt: w.EndAt})
	}
	return detail
}
