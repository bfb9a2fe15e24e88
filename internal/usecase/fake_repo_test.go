package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// memStore backs every fake repository with plain maps and slices.
type memStore struct {
	courts        map[uuid.UUID]*entity.Court
	bookings      []*entity.Booking
	events        map[uuid.UUID]*entity.Event
	windows       map[uuid.UUID][]entity.EventWindow
	eventCourts   map[uuid.UUID][]uuid.UUID
	rsvps         map[[2]uuid.UUID]bool
	offers        []*entity.Offer
	invites       map[uuid.UUID]*entity.BookingInvite
	notifications []*entity.Notification

	// createBookingErr, when set, is returned by Booking.Create.
	createBookingErr error
	// txAborts makes that many transaction attempts fail with a
	// serialization failure before fn runs.
	txAborts int
	txCalls  int
}

func newMemStore() *memStore {
	return &memStore{
		courts:      map[uuid.UUID]*entity.Court{},
		events:      map[uuid.UUID]*entity.Event{},
		windows:     map[uuid.UUID][]entity.EventWindow{},
		eventCourts: map[uuid.UUID][]uuid.UUID{},
		rsvps:       map[[2]uuid.UUID]bool{},
		invites:     map[uuid.UUID]*entity.BookingInvite{},
	}
}

func (m *memStore) repo() *repository.Repository {
	r := &repository.Repository{
		Court:        fakeCourts{m},
		Booking:      fakeBookings{m},
		Event:        fakeEvents{m},
		Offer:        fakeOffers{m},
		Invite:       fakeInvites{m},
		Notification: fakeNotifications{m},
		Health:       func(context.Context) error { return nil },
	}
	r.Tx = &fakeTx{m: m, r: r}
	return r
}

func (m *memStore) addCourt(name, sport string, price float64) *entity.Court {
	c := &entity.Court{Name: name, Sport: sport, City: "Zagreb", PricePerHour: price}
	c.ID = uuid.New()
	m.courts[c.ID] = c
	return c
}

func (m *memStore) addBooking(courtID, userID uuid.UUID, start, end time.Time) *entity.Booking {
	b := &entity.Booking{CourtID: courtID, UserID: userID, StartAt: start, EndAt: end}
	b.ID = uuid.New()
	m.bookings = append(m.bookings, b)
	return b
}

func (m *memStore) addEvent(title string, start, end time.Time, courts ...uuid.UUID) *entity.Event {
	e := &entity.Event{Title: title, Sport: "padel", StartAt: start, EndAt: end}
	e.ID = uuid.New()
	m.events[e.ID] = e
	m.eventCourts[e.ID] = courts
	return e
}

func (m *memStore) addOffer(courtID uuid.UUID, start, end time.Time, mutate func(*entity.Offer)) *entity.Offer {
	o := &entity.Offer{CourtID: courtID, Title: "offer", StartsAt: start, EndsAt: end}
	o.ID = uuid.New()
	if mutate != nil {
		mutate(o)
	}
	m.offers = append(m.offers, o)
	return o
}

func contains(ids []uuid.UUID, id uuid.UUID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

type fakeTx struct {
	m *memStore
	r *repository.Repository
}

func (t *fakeTx) WithinSerializable(ctx context.Context, fn func(tx *repository.Repository) error) error {
	return repository.RetrySerializable(ctx, zap.NewNop(), func() error {
		t.m.txCalls++
		if t.m.txAborts > 0 {
			t.m.txAborts--
			return &pgconn.PgError{Code: "40001", Message: "could not serialize access"}
		}
		return fn(t.r)
	})
}

// ==================== COURTS ====================

type fakeCourts struct{ m *memStore }

func (f fakeCourts) Create(_ context.Context, c *entity.Court) error {
	f.m.courts[c.ID] = c
	return nil
}

func (f fakeCourts) Update(_ context.Context, c *entity.Court) error {
	if _, ok := f.m.courts[c.ID]; !ok {
		return fmt.Errorf("court %s: %w", c.ID, repository.ErrNotFound)
	}
	f.m.courts[c.ID] = c
	return nil
}

func (f fakeCourts) FindByID(_ context.Context, id uuid.UUID) (*entity.Court, error) {
	return f.m.courts[id], nil
}

func (f fakeCourts) Search(_ context.Context, filter repository.CourtFilter) ([]*entity.Court, error) {
	var out []*entity.Court
	for _, c := range f.m.courts {
		if filter.Sport != "" && !strings.EqualFold(c.Sport, filter.Sport) {
			continue
		}
		if filter.City != "" && !strings.EqualFold(c.City, filter.City) {
			continue
		}
		if filter.Query != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(filter.Query)) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f fakeCourts) FindByEventIDs(_ context.Context, eventIDs []uuid.UUID) (map[uuid.UUID][]*entity.Court, error) {
	out := make(map[uuid.UUID][]*entity.Court, len(eventIDs))
	for _, eid := range eventIDs {
		for _, cid := range f.m.eventCourts[eid] {
			if c, ok := f.m.courts[cid]; ok {
				out[eid] = append(out[eid], c)
			}
		}
	}
	return out, nil
}

// ==================== BOOKINGS ====================

type fakeBookings struct{ m *memStore }

func (f fakeBookings) Create(_ context.Context, b *entity.Booking) error {
	if f.m.createBookingErr != nil {
		return f.m.createBookingErr
	}
	for _, other := range f.m.bookings {
		if other.CourtID == b.CourtID && other.StartAt.Before(b.EndAt) && b.StartAt.Before(other.EndAt) {
			return fmt.Errorf("create booking: %w", repository.ErrOverlap)
		}
	}
	f.m.bookings = append(f.m.bookings, b)
	return nil
}

func (f fakeBookings) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	for _, b := range f.m.bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, nil
}

func (f fakeBookings) Delete(_ context.Context, id uuid.UUID) error {
	for i, b := range f.m.bookings {
		if b.ID == id {
			f.m.bookings = append(f.m.bookings[:i], f.m.bookings[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("booking %s: %w", id, repository.ErrNotFound)
}

func (f fakeBookings) FindOverlapping(_ context.Context, courtIDs []uuid.UUID, start, end time.Time) ([]*entity.Booking, error) {
	var out []*entity.Booking
	for _, b := range f.m.bookings {
		if contains(courtIDs, b.CourtID) && b.StartAt.Before(end) && b.EndAt.After(start) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f fakeBookings) withCourt(b *entity.Booking, guest bool) *entity.BookingWithCourt {
	bw := &entity.BookingWithCourt{Booking: *b, Guest: guest}
	if c, ok := f.m.courts[b.CourtID]; ok {
		bw.Court = *c
	}
	return bw
}

func (f fakeBookings) FindUpcomingByUser(_ context.Context, userID uuid.UUID, from time.Time) ([]*entity.BookingWithCourt, error) {
	var out []*entity.BookingWithCourt
	for _, b := range f.m.bookings {
		if b.UserID == userID && b.EndAt.After(from) {
			out = append(out, f.withCourt(b, false))
		}
	}
	return out, nil
}

func (f fakeBookings) FindUpcomingByGuest(_ context.Context, userID uuid.UUID, from time.Time) ([]*entity.BookingWithCourt, error) {
	var out []*entity.BookingWithCourt
	for _, inv := range f.m.invites {
		if inv.InviteeID != userID || inv.Status != entity.InviteStatusAccepted {
			continue
		}
		for _, b := range f.m.bookings {
			if b.ID == inv.BookingID && b.EndAt.After(from) {
				bw := f.withCourt(b, true)
				bw.InviteID = &inv.ID
				out = append(out, bw)
			}
		}
	}
	return out, nil
}

// ==================== EVENTS ====================

type fakeEvents struct{ m *memStore }

func (f fakeEvents) Create(_ context.Context, e *entity.Event) error {
	f.m.events[e.ID] = e
	return nil
}

func (f fakeEvents) AddWindows(_ context.Context, windows []*entity.EventWindow) error {
	for _, w := range windows {
		f.m.windows[w.EventID] = append(f.m.windows[w.EventID], *w)
	}
	return nil
}

func (f fakeEvents) AddCourts(_ context.Context, eventID uuid.UUID, courtIDs []uuid.UUID) error {
	f.m.eventCourts[eventID] = append(f.m.eventCourts[eventID], courtIDs...)
	return nil
}

func (f fakeEvents) FindByID(_ context.Context, id uuid.UUID) (*entity.Event, error) {
	return f.m.events[id], nil
}

func (f fakeEvents) FindWindows(_ context.Context, eventID uuid.UUID) ([]entity.EventWindow, error) {
	return f.m.windows[eventID], nil
}

func (f fakeEvents) Search(_ context.Context, filter repository.EventFilter) ([]*entity.Event, int64, error) {
	var matched []*entity.Event
	for _, e := range f.m.events {
		if !e.EndAt.After(filter.From) {
			continue
		}
		if filter.To != nil && !e.StartAt.Before(*filter.To) {
			continue
		}
		if filter.Sport != "" && !strings.EqualFold(e.Sport, filter.Sport) {
			continue
		}
		matched = append(matched, e)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].StartAt.Before(matched[j].StartAt) })

	total := int64(len(matched))
	if filter.Offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (f fakeEvents) FindOccupying(_ context.Context, courtIDs []uuid.UUID, start, end time.Time) ([]*entity.CourtEvent, error) {
	var out []*entity.CourtEvent
	for id, e := range f.m.events {
		if !(e.StartAt.Before(end) && e.EndAt.After(start)) {
			continue
		}
		for _, cid := range f.m.eventCourts[id] {
			if contains(courtIDs, cid) {
				out = append(out, &entity.CourtEvent{CourtID: cid, Event: *e, Windows: f.m.windows[id]})
			}
		}
	}
	return out, nil
}

func (f fakeEvents) AddRSVP(_ context.Context, rsvp *entity.EventRSVP) error {
	key := [2]uuid.UUID{rsvp.EventID, rsvp.UserID}
	if f.m.rsvps[key] {
		return fmt.Errorf("rsvp to event %s: %w", rsvp.EventID, repository.ErrDuplicate)
	}
	f.m.rsvps[key] = true
	return nil
}

func (f fakeEvents) RemoveRSVP(_ context.Context, eventID, userID uuid.UUID) error {
	delete(f.m.rsvps, [2]uuid.UUID{eventID, userID})
	return nil
}

func (f fakeEvents) CountRSVPs(_ context.Context, eventID uuid.UUID) (int64, error) {
	var n int64
	for key := range f.m.rsvps {
		if key[0] == eventID {
			n++
		}
	}
	return n, nil
}

func (f fakeEvents) HasRSVP(_ context.Context, eventID, userID uuid.UUID) (bool, error) {
	return f.m.rsvps[[2]uuid.UUID{eventID, userID}], nil
}

func (f fakeEvents) FindJoinedByUser(_ context.Context, userID uuid.UUID) ([]*entity.Event, error) {
	var out []*entity.Event
	for key := range f.m.rsvps {
		if key[1] == userID {
			out = append(out, f.m.events[key[0]])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out, nil
}

// ==================== OFFERS ====================

type fakeOffers struct{ m *memStore }

func (f fakeOffers) Create(_ context.Context, o *entity.Offer) error {
	f.m.offers = append(f.m.offers, o)
	return nil
}

func (f fakeOffers) Delete(_ context.Context, id uuid.UUID) error {
	for i, o := range f.m.offers {
		if o.ID == id {
			f.m.offers = append(f.m.offers[:i], f.m.offers[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("offer %s: %w", id, repository.ErrNotFound)
}

func (f fakeOffers) FindByID(_ context.Context, id uuid.UUID) (*entity.Offer, error) {
	for _, o := range f.m.offers {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, nil
}

func (f fakeOffers) FindForCourts(_ context.Context, courtIDs []uuid.UUID, start, end time.Time) ([]*entity.Offer, error) {
	var out []*entity.Offer
	for _, o := range f.m.offers {
		if contains(courtIDs, o.CourtID) && o.StartsAt.Before(end) && o.EndsAt.After(start) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f fakeOffers) Search(_ context.Context, filter repository.OfferFilter) ([]*entity.OfferWithCourt, int64, error) {
	var out []*entity.OfferWithCourt
	for _, o := range f.m.offers {
		if filter.Now.Before(o.StartsAt) || !filter.Now.Before(o.EndsAt) {
			continue
		}
		c := f.m.courts[o.CourtID]
		if c == nil || (filter.Sport != "" && !strings.EqualFold(c.Sport, filter.Sport)) {
			continue
		}
		out = append(out, &entity.OfferWithCourt{Offer: *o, Court: *c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EndsAt.Before(out[j].EndsAt) })
	return out, int64(len(out)), nil
}

// ==================== INVITES ====================

type fakeInvites struct{ m *memStore }

func (f fakeInvites) CreateBatch(_ context.Context, invites []*entity.BookingInvite) (int, error) {
	created := 0
	for _, inv := range invites {
		dup := false
		for _, existing := range f.m.invites {
			if existing.BookingID == inv.BookingID && existing.InviteeID == inv.InviteeID {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		f.m.invites[inv.ID] = inv
		created++
	}
	return created, nil
}

func (f fakeInvites) FindByID(_ context.Context, id uuid.UUID) (*entity.BookingInvite, error) {
	inv, ok := f.m.invites[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (f fakeInvites) FindPendingByInvitee(_ context.Context, inviteeID uuid.UUID) ([]*entity.InviteDetail, error) {
	var out []*entity.InviteDetail
	for _, inv := range f.m.invites {
		if inv.InviteeID != inviteeID || inv.Status != entity.InviteStatusPending {
			continue
		}
		detail := &entity.InviteDetail{BookingInvite: *inv}
		for _, b := range f.m.bookings {
			if b.ID == inv.BookingID {
				detail.Booking = *b
				if c, ok := f.m.courts[b.CourtID]; ok {
					detail.Court = *c
				}
			}
		}
		out = append(out, detail)
	}
	return out, nil
}

func (f fakeInvites) UpdateStatus(_ context.Context, id uuid.UUID, from, to entity.InviteStatus) error {
	inv, ok := f.m.invites[id]
	if !ok || inv.Status != from {
		return fmt.Errorf("invite %s: %w", id, repository.ErrStale)
	}
	inv.Status = to
	return nil
}

// ==================== NOTIFICATIONS ====================

type fakeNotifications struct{ m *memStore }

func (f fakeNotifications) Create(_ context.Context, n *entity.Notification) error {
	f.m.notifications = append(f.m.notifications, n)
	return nil
}

// ==================== PUBLISHER ====================

type recordingPublisher struct {
	keys []string
	err  error
}

func (p *recordingPublisher) PublishJSON(_ context.Context, key string, _ any) error {
	p.keys = append(p.keys, key)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }
