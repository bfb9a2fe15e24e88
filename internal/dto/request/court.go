package request

import "time"

// SlotRequest selects a court interval either by explicit instants or by a
// date, start hour and duration in whole hours.
type SlotRequest struct {
	StartAt  *time.Time `json:"start_at,omitempty" validate:"required_with=EndAt"`
	EndAt    *time.Time `json:"end_at,omitempty" validate:"required_with=StartAt"`
	Date     string     `json:"date,omitempty" validate:"required_without=StartAt,omitempty,datetime=2006-01-02"`
	Hour     *int       `json:"hour,omitempty" validate:"required_with=Date,omitempty,gte=0,lte=23"`
	Duration int        `json:"duration,omitempty" validate:"required_with=Date,omitempty,gte=1"`
}

// Explicit reports whether the interval was given as start/end instants.
func (s SlotRequest) Explicit() bool {
	return s.StartAt != nil
}

type SearchCourtsRequest struct {
	Sport    string `json:"sport" validate:"required,max=50"`
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	Hour     *int   `json:"hour" validate:"required,gte=0,lte=23"`
	Duration int    `json:"duration" validate:"required,gte=1"`
	City     string `json:"city" validate:"max=100"`
	Query    string `json:"q" validate:"max=100"`
}

type DayViewRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

type QuoteRequest struct {
	SlotRequest
}

type CreateCourtRequest struct {
	Name         string  `json:"name" validate:"required,max=120"`
	Sport        string  `json:"sport" validate:"required,max=50"`
	Address      string  `json:"address" validate:"max=255"`
	City         string  `json:"city" validate:"required,max=100"`
	Description  string  `json:"description"`
	ImageURL     string  `json:"image_url" validate:"omitempty,url"`
	PricePerHour float64 `json:"price_per_hour" validate:"gte=0"`
}

type UpdateCourtRequest struct {
	Name         *string  `json:"name,omitempty" validate:"omitempty,max=120"`
	Sport        *string  `json:"sport,omitempty" validate:"omitempty,max=50"`
	Address      *string  `json:"address,omitempty" validate:"omitempty,max=255"`
	City         *string  `json:"city,omitempty" validate:"omitempty,max=100"`
	Description  *string  `json:"description,omitempty"`
	ImageURL     *string  `json:"image_url,omitempty" validate:"omitempty,url"`
	PricePerHour *float64 `json:"price_per_hour,omitempty" validate:"omitempty,gte=0"`
}
