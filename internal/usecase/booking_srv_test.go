package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"
	"court-booking/internal/dto/request"
	"court-booking/internal/dto/response"
	"court-booking/pkg/mq"
	"court-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

var (
	testVenue = utils.VenueConfig{Timezone: "UTC", OpenHour: 7, CloseHour: 24, BookingMaxHours: 3}
	testNow   = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
)

// at is hour:00 UTC on the given day of June 2026.
func at(day, hour int) time.Time {
	return time.Date(2026, 6, day, hour, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

func newTestBookingService(m *memStore, pub mq.Publisher) *bookingService {
	s := NewBookingService(m.repo(), testVenue, pub, zap.NewNop()).(*bookingService)
	s.now = func() time.Time { return testNow }
	return s
}

func explicitBooking(courtID uuid.UUID, start, end time.Time) *request.CreateBookingRequest {
	return &request.CreateBookingRequest{
		CourtID:     courtID.String(),
		SlotRequest: request.SlotRequest{StartAt: ptr(start), EndAt: ptr(end)},
	}
}

func hourlyBooking(courtID uuid.UUID, date string, hour, duration int) *request.CreateBookingRequest {
	return &request.CreateBookingRequest{
		CourtID:     courtID.String(),
		SlotRequest: request.SlotRequest{Date: date, Hour: ptr(hour), Duration: duration},
	}
}

func TestCreateBooking_OverlapGuard(t *testing.T) {
	ctx := context.Background()
	m := newMemStore()
	court := m.addCourt("Court 1", "padel", 20)
	m.addBooking(court.ID, uuid.New(), at(2, 10), at(2, 11))

	pub := &recordingPublisher{}
	s := newTestBookingService(m, pub)
	user := uuid.New().String()

	_, err := s.CreateBooking(ctx, user, explicitBooking(court.ID, at(2, 10).Add(30*time.Minute), at(2, 11).Add(30*time.Minute)))
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict for 10:30-11:30, got %v", err)
	}
	if len(m.bookings) != 1 {
		t.Fatalf("conflicting booking must not be stored, have %d", len(m.bookings))
	}

	resp, err := s.CreateBooking(ctx, user, explicitBooking(court.ID, at(2, 11), at(2, 12)))
	if err != nil {
		t.Fatalf("back-to-back booking should succeed: %v", err)
	}
	if resp.PriceEUR != 20 || resp.AppliedOfferID != nil {
		t.Fatalf("unexpected booking response %+v", resp)
	}
	if len(m.bookings) != 2 {
		t.Fatalf("expected booking to be stored")
	}
	if m.txCalls != 2 {
		t.Fatalf("expected both attempts to run in a transaction, got %d", m.txCalls)
	}
	if len(pub.keys) != 1 || pub.keys[0] != mq.KeyBookingCreated {
		t.Fatalf("expected one booking.created event, got %v", pub.keys)
	}
}

func TestCreateBooking_AppliesResolvedOffer(t *testing.T) {
	m := newMemStore()
	court := m.addCourt("Court 1", "padel", 20)
	offer := m.addOffer(court.ID, at(1, 0), at(30, 0), func(o *entity.Offer) {
		o.DiscountPct = ptr(25.0)
		o.ValidHourStart = ptr(18)
		o.ValidHourEnd = ptr(22)
	})
	s := newTestBookingService(m, mq.NopPublisher{})

	resp, err := s.CreateBooking(context.Background(), uuid.New().String(), hourlyBooking(court.ID, "2026-06-02", 18, 2))
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	if resp.PriceEUR != 30 {
		t.Fatalf("expected 2h at 15.00 = 30.00, got %v", resp.PriceEUR)
	}
	if resp.AppliedOfferID == nil || *resp.AppliedOfferID != offer.ID.String() {
		t.Fatalf("expected applied offer %s, got %v", offer.ID, resp.AppliedOfferID)
	}

	stored := m.bookings[0]
	if !stored.StartAt.Equal(at(2, 18)) || !stored.EndAt.Equal(at(2, 20)) {
		t.Fatalf("unexpected stored interval %v - %v", stored.StartAt, stored.EndAt)
	}

	// Outside the hour window the base rate applies.
	resp, err = s.CreateBooking(context.Background(), uuid.New().String(), hourlyBooking(court.ID, "2026-06-02", 10, 1))
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	if resp.PriceEUR != 20 || resp.AppliedOfferID != nil {
		t.Fatalf("expected base price without offer, got %+v", resp)
	}
}

func TestCreateBooking_PersistenceConflict(t *testing.T) {
	cases := map[string]error{
		"exclusion constraint": fmt.Errorf("create booking: %w", repository.ErrOverlap),
		"raw exclusion error":  &pgconn.PgError{Code: "23P01"},
	}
	for name, storeErr := range cases {
		t.Run(name, func(t *testing.T) {
			m := newMemStore()
			court := m.addCourt("Court 1", "padel", 20)
			m.createBookingErr = storeErr
			pub := &recordingPublisher{}
			s := newTestBookingService(m, pub)

			_, err := s.CreateBooking(context.Background(), uuid.New().String(), explicitBooking(court.ID, at(2, 10), at(2, 11)))
			if !errors.Is(err, ErrConflict) {
				t.Fatalf("expected conflict, got %v", err)
			}
			if len(pub.keys) != 0 {
				t.Fatalf("nothing should be published on conflict")
			}
		})
	}
}

func TestCreateBooking_RetriesSerializationFailure(t *testing.T) {
	m := newMemStore()
	court := m.addCourt("Court 1", "padel", 20)
	m.txAborts = 1
	pub := &recordingPublisher{}
	s := newTestBookingService(m, pub)

	resp, err := s.CreateBooking(context.Background(), uuid.New().String(), explicitBooking(court.ID, at(2, 10), at(2, 11)))
	if err != nil {
		t.Fatalf("a free slot must be booked after one aborted attempt: %v", err)
	}
	if m.txCalls != 2 {
		t.Fatalf("expected 2 transaction attempts, got %d", m.txCalls)
	}
	if len(m.bookings) != 1 || m.bookings[0].ID.String() != resp.ID {
		t.Fatalf("expected exactly the returned booking to be stored, have %d", len(m.bookings))
	}
	if len(pub.keys) != 1 {
		t.Fatalf("expected one booking.created event, got %v", pub.keys)
	}
}

func TestCreateBooking_SerializationExhaustedIsNotConflict(t *testing.T) {
	m := newMemStore()
	court := m.addCourt("Court 1", "padel", 20)
	m.txAborts = 10
	pub := &recordingPublisher{}
	s := newTestBookingService(m, pub)

	_, err := s.CreateBooking(context.Background(), uuid.New().String(), explicitBooking(court.ID, at(2, 10), at(2, 11)))
	if err == nil || errors.Is(err, ErrConflict) {
		t.Fatalf("expected a retryable internal error, got %v", err)
	}
	if !errors.Is(err, repository.ErrSerialization) {
		t.Fatalf("expected ErrSerialization in the chain, got %v", err)
	}
	if m.txCalls != 3 {
		t.Fatalf("expected retries to stop after 3 attempts, got %d", m.txCalls)
	}
	if len(m.bookings) != 0 || len(pub.keys) != 0 {
		t.Fatalf("nothing should be stored or published")
	}
}

func TestCreateBooking_StoreFailureIsInternal(t *testing.T) {
	m := newMemStore()
	court := m.addCourt("Court 1", "padel", 20)
	m.createBookingErr = errors.New("connection reset")
	s := newTestBookingService(m, mq.NopPublisher{})

	_, err := s.CreateBooking(context.Background(), uuid.New().String(), explicitBooking(court.ID, at(2, 10), at(2, 11)))
	if err == nil || errors.Is(err, ErrConflict) || errors.Is(err, ErrValidation) {
		t.Fatalf("expected a plain internal error, got %v", err)
	}
}

func TestCreateBooking_Rejects(t *testing.T) {
	m := newMemStore()
	court := m.addCourt("Court 1", "padel", 20)
	s := newTestBookingService(m, mq.NopPublisher{})

	cases := []struct {
		name string
		req  *request.CreateBookingRequest
		want error
	}{
		{"starts in the past", explicitBooking(court.ID, at(1, 7), at(1, 8)), ErrValidation},
		{"partial hour", explicitBooking(court.ID, at(2, 10), at(2, 10).Add(30*time.Minute)), ErrValidation},
		{"inverted", explicitBooking(court.ID, at(2, 11), at(2, 10)), ErrValidation},
		{"too long", hourlyBooking(court.ID, "2026-06-02", 10, 4), ErrValidation},
		{"past closing", hourlyBooking(court.ID, "2026-06-02", 23, 2), ErrValidation},
		{"before opening", explicitBooking(court.ID, at(2, 6), at(2, 7)), ErrValidation},
		{"bad date", hourlyBooking(court.ID, "02.06.2026", 10, 1), ErrValidation},
		{"no slot", &request.CreateBookingRequest{CourtID: court.ID.String()}, ErrValidation},
		{"bad court id", &request.CreateBookingRequest{CourtID: "nope", SlotRequest: request.SlotRequest{Date: "2026-06-02", Hour: ptr(10), Duration: 1}}, ErrValidation},
		{"unknown court", hourlyBooking(uuid.New(), "2026-06-02", 10, 1), ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.CreateBooking(context.Background(), uuid.New().String(), tc.req)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
	if len(m.bookings) != 0 {
		t.Fatalf("no booking should have been stored")
	}
}

func TestCreateBooking_EventOccupancy(t *testing.T) {
	m := newMemStore()
	court := m.addCourt("Court 1", "padel", 20)
	windowed := m.addEvent("League night", at(2, 0), at(4, 0), court.ID)
	m.windows[windowed.ID] = []entity.EventWindow{
		{ID: uuid.New(), EventID: windowed.ID, StartAt: at(2, 18), EndAt: at(2, 20)},
	}
	other := m.addCourt("Court 2", "padel", 20)
	m.addEvent("Tournament", at(2, 9), at(2, 17), other.ID)
	s := newTestBookingService(m, mq.NopPublisher{})
	ctx := context.Background()

	if _, err := s.CreateBooking(ctx, uuid.New().String(), hourlyBooking(court.ID, "2026-06-02", 19, 1)); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected event window to block 19:00, got %v", err)
	}
	if _, err := s.CreateBooking(ctx, uuid.New().String(), hourlyBooking(court.ID, "2026-06-02", 10, 1)); err != nil {
		t.Fatalf("10:00 is outside the window: %v", err)
	}
	// June 3 has no window, so the whole event range blocks it.
	if _, err := s.CreateBooking(ctx, uuid.New().String(), hourlyBooking(court.ID, "2026-06-03", 10, 1)); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected whole-range occupancy on a day without windows, got %v", err)
	}
	if _, err := s.CreateBooking(ctx, uuid.New().String(), hourlyBooking(other.ID, "2026-06-02", 16, 2)); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected tournament to block court 2, got %v", err)
	}
	if _, err := s.CreateBooking(ctx, uuid.New().String(), hourlyBooking(other.ID, "2026-06-02", 17, 1)); err != nil {
		t.Fatalf("17:00 starts when the tournament ends: %v", err)
	}
}

func TestGetMyBookings_MergesOwnedAndGuest(t *testing.T) {
	m := newMemStore()
	court := m.addCourt("Court 1", "padel", 20)
	user := uuid.New()
	friend := uuid.New()

	owned := m.addBooking(court.ID, user, at(3, 10), at(3, 11))
	m.addBooking(court.ID, user, at(1, 7), at(1, 8)) // ended at testNow
	guest := m.addBooking(court.ID, friend, at(2, 10), at(2, 11))

	for _, b := range []*entity.Booking{guest, owned} {
		inv := &entity.BookingInvite{BookingID: b.ID, InviterID: b.UserID, InviteeID: user, Status: entity.InviteStatusAccepted}
		inv.ID = uuid.New()
		m.invites[inv.ID] = inv
	}

	s := newTestBookingService(m, mq.NopPublisher{})
	got, err := s.GetMyBookings(context.Background(), user.String())
	if err != nil {
		t.Fatalf("get bookings: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 upcoming bookings, got %d", len(got))
	}
	if got[0].ID != guest.ID.String() || got[0].Role != response.BookingRoleGuest {
		t.Fatalf("expected guest booking first, got %+v", got[0])
	}
	if got[1].ID != owned.ID.String() || got[1].Role != response.BookingRoleOwner {
		t.Fatalf("expected owned booking second, got %+v", got[1])
	}
	if got[0].Court.Name != "Court 1" {
		t.Fatalf("expected court to be joined, got %+v", got[0].Court)
	}
}

func TestCancelBooking(t *testing.T) {
	m := newMemStore()
	court := m.addCourt("Court 1", "padel", 20)
	owner := uuid.New()
	upcoming := m.addBooking(court.ID, owner, at(2, 10), at(2, 11))
	past := m.addBooking(court.ID, owner, at(1, 6), at(1, 7))
	pub := &recordingPublisher{}
	s := newTestBookingService(m, pub)
	ctx := context.Background()

	if err := s.CancelBooking(ctx, uuid.New().String(), upcoming.ID.String()); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden for another user, got %v", err)
	}
	if err := s.CancelBooking(ctx, owner.String(), past.ID.String()); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict for an ended booking, got %v", err)
	}
	if err := s.CancelBooking(ctx, owner.String(), uuid.New().String()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := s.CancelBooking(ctx, owner.String(), upcoming.ID.String()); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if len(m.bookings) != 1 {
		t.Fatalf("expected booking to be deleted")
	}
	if len(pub.keys) != 1 || pub.keys[0] != mq.KeyBookingCancelled {
		t.Fatalf("expected booking.cancelled, got %v", pub.keys)
	}
}

func TestCreateBooking_PublishFailureDoesNotFail(t *testing.T) {
	m := newMemStore()
	court := m.addCourt("Court 1", "padel", 20)
	s := newTestBookingService(m, &recordingPublisher{err: errors.New("broker down")})

	if _, err := s.CreateBooking(context.Background(), uuid.New().String(), explicitBooking(court.ID, at(2, 10), at(2, 11))); err != nil {
		t.Fatalf("publish failure must not fail the booking: %v", err)
	}
}
