package usecase

import (
	"context"
	"fmt"
	"time"

	"court-booking/internal/availability"
	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"
	"court-booking/internal/dto/request"
	"court-booking/pkg/utils"

	"github.com/google/uuid"
)

// venue is the local wall clock and limits every slot is laid out in.
type venue struct {
	loc      *time.Location
	hours    availability.OperatingHours
	maxHours int
}

func newVenue(cfg utils.VenueConfig) venue {
	hours := availability.OperatingHours{Open: cfg.OpenHour, Close: cfg.CloseHour}
	if hours.Open < 0 || hours.Close > 24 || hours.Open >= hours.Close {
		hours = availability.DefaultHours
	}
	maxHours := cfg.BookingMaxHours
	if maxHours < 1 {
		maxHours = 3
	}
	return venue{loc: cfg.Location(), hours: hours, maxHours: maxHours}
}

func (v venue) parseDate(s string) (time.Time, error) {
	date, err := availability.ParseDate(s, v.loc)
	if err != nil {
		return time.Time{}, invalidf("invalid date %q, use YYYY-MM-DD", s)
	}
	return date, nil
}

func (v venue) checkDuration(hours int) error {
	if hours < 1 || hours > v.maxHours {
		return invalidf("duration must be between 1 and %d hours", v.maxHours)
	}
	return nil
}

// slotInterval builds [hour:00, hour+hours:00) on date after checking it
// fits the opening hours.
func (v venue) slotInterval(date time.Time, hour, hours int) (availability.Interval, error) {
	if err := v.checkDuration(hours); err != nil {
		return availability.Interval{}, err
	}
	if !v.hours.Contains(hour, hours) {
		return availability.Interval{}, invalidf("slot %02d:00 + %dh is outside opening hours %02d:00-%02d:00",
			hour, hours, v.hours.Open, v.hours.Close)
	}
	return availability.SlotInterval(date, hour, hours, v.loc), nil
}

// resolveSlot turns a slot request into an interval and its length in
// whole hours.
func (v venue) resolveSlot(req request.SlotRequest) (availability.Interval, int, error) {
	if !req.Explicit() {
		date, err := v.parseDate(req.Date)
		if err != nil {
			return availability.Interval{}, 0, err
		}
		if req.Hour == nil {
			return availability.Interval{}, 0, invalidf("hour is required with date")
		}
		iv, err := v.slotInterval(date, *req.Hour, req.Duration)
		return iv, req.Duration, err
	}

	if req.EndAt == nil {
		return availability.Interval{}, 0, invalidf("end_at is required with start_at")
	}
	iv := availability.Interval{Start: *req.StartAt, End: *req.EndAt}
	if !iv.Valid() {
		return availability.Interval{}, 0, invalidf("end_at must be after start_at")
	}
	if iv.Duration()%time.Hour != 0 {
		return availability.Interval{}, 0, invalidf("booking must span whole hours")
	}
	hours := int(iv.Duration() / time.Hour)
	if err := v.checkDuration(hours); err != nil {
		return availability.Interval{}, 0, err
	}

	open := availability.SlotStart(iv.Start, v.hours.Open, v.loc)
	closing := availability.SlotStart(iv.Start, v.hours.Close, v.loc)
	if iv.Start.Before(open) || iv.End.After(closing) {
		return availability.Interval{}, 0, invalidf("booking must fall within opening hours %02d:00-%02d:00",
			v.hours.Open, v.hours.Close)
	}
	return iv, hours, nil
}

func courtIDs(courts []*entity.Court) []uuid.UUID {
	ids := make([]uuid.UUID, len(courts))
	for i, c := range courts {
		ids[i] = c.ID
	}
	return ids
}

func toAvailabilityOffer(o *entity.Offer) availability.Offer {
	return availability.Offer{
		ID:             o.ID.String(),
		CourtID:        o.CourtID.String(),
		Title:          o.Title,
		DiscountPct:    o.DiscountPct,
		Price:          o.Price,
		OriginalPrice:  o.OriginalPrice,
		StartsAt:       o.StartsAt,
		EndsAt:         o.EndsAt,
		ValidHourStart: o.ValidHourStart,
		ValidHourEnd:   o.ValidHourEnd,
	}
}

func toAvailabilityEvent(ce *entity.CourtEvent) availability.Event {
	ev := availability.Event{
		ID:    ce.Event.ID.String(),
		Range: availability.Interval{Start: ce.Event.StartAt, End: ce.Event.EndAt},
	}
	for _, w := range ce.Windows {
		ev.Windows = append(ev.Windows, availability.Interval{Start: w.StartAt, End: w.EndAt})
	}
	return ev
}

// appliedOfferID parses the resolved offer's id back into a uuid.
func appliedOfferID(o *availability.Offer) *uuid.UUID {
	if o == nil {
		return nil
	}
	id, err := uuid.Parse(o.ID)
	if err != nil {
		return nil
	}
	return &id
}

// loadOccupancy returns, per court, every booking and event interval that
// can block a slot inside window.
func loadOccupancy(ctx context.Context, repo *repository.Repository, ids []uuid.UUID, window availability.Interval, loc *time.Location) (map[uuid.UUID][]availability.Interval, error) {
	occupied := make(map[uuid.UUID][]availability.Interval, len(ids))
	if len(ids) == 0 {
		return occupied, nil
	}

	bookings, err := repo.Booking.FindOverlapping(ctx, ids, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}
	for _, b := range bookings {
		occupied[b.CourtID] = append(occupied[b.CourtID], availability.Interval{Start: b.StartAt, End: b.EndAt})
	}

	events, err := repo.Event.FindOccupying(ctx, ids, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	for _, ce := range events {
		occupied[ce.CourtID] = append(occupied[ce.CourtID], availability.EventOccupancy(toAvailabilityEvent(ce), window, loc)...)
	}

	return occupied, nil
}

// loadOffers returns, per court, the offers whose validity touches window.
func loadOffers(ctx context.Context, repo *repository.Repository, ids []uuid.UUID, window availability.Interval) (map[uuid.UUID][]availability.Offer, error) {
	offers := make(map[uuid.UUID][]availability.Offer, len(ids))
	if len(ids) == 0 {
		return offers, nil
	}

	rows, err := repo.Offer.FindForCourts(ctx, ids, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("load offers: %w", err)
	}
	for _, o := range rows {
		offers[o.CourtID] = append(offers[o.CourtID], toAvailabilityOffer(o))
	}
	return offers, nil
}
