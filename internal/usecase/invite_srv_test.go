package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/internal/dto/request"
	"court-booking/internal/dto/response"
	"court-booking/pkg/mq"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newTestInviteService(m *memStore, pub mq.Publisher) *inviteService {
	s := NewInviteService(m.repo(), pub, zap.NewNop()).(*inviteService)
	s.now = func() time.Time { return testNow }
	return s
}

func TestCreateInvites(t *testing.T) {
	m := newMemStore()
	court := m.addCourt("Court 1", "padel", 20)
	owner := uuid.New()
	booking := m.addBooking(court.ID, owner, at(2, 10), at(2, 11))
	s := newTestInviteService(m, mq.NopPublisher{})
	ctx := context.Background()

	friend, other := uuid.New(), uuid.New()
	resp, err := s.CreateInvites(ctx, owner.String(), &request.CreateInvitesRequest{
		BookingID:  booking.ID.String(),
		InviteeIDs: []string{friend.String(), owner.String(), friend.String(), other.String()},
	})
	if err != nil {
		t.Fatalf("create invites: %v", err)
	}
	if resp.Invited != 2 || len(m.invites) != 2 {
		t.Fatalf("expected 2 invites (self and duplicate skipped), got %d", resp.Invited)
	}

	// Inviting the same people again is not an error, just a no-op.
	resp, err = s.CreateInvites(ctx, owner.String(), &request.CreateInvitesRequest{
		BookingID:  booking.ID.String(),
		InviteeIDs: []string{friend.String()},
	})
	if err != nil || resp.Invited != 0 {
		t.Fatalf("expected duplicate invite to be ignored, got %v / %+v", err, resp)
	}

	_, err = s.CreateInvites(ctx, friend.String(), &request.CreateInvitesRequest{
		BookingID:  booking.ID.String(),
		InviteeIDs: []string{other.String()},
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected non-owner to be forbidden, got %v", err)
	}

	_, err = s.CreateInvites(ctx, owner.String(), &request.CreateInvitesRequest{
		BookingID:  booking.ID.String(),
		InviteeIDs: []string{owner.String()},
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected self-only invite to be rejected, got %v", err)
	}

	_, err = s.CreateInvites(ctx, owner.String(), &request.CreateInvitesRequest{
		BookingID:  uuid.New().String(),
		InviteeIDs: []string{friend.String()},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected unknown booking to be not found, got %v", err)
	}
}

func seedInvite(m *memStore, status entity.InviteStatus) (*entity.BookingInvite, uuid.UUID) {
	court := m.addCourt("Court 1", "padel", 20)
	owner := uuid.New()
	booking := m.addBooking(court.ID, owner, at(2, 10), at(2, 11))
	inv := &entity.BookingInvite{BookingID: booking.ID, InviterID: owner, InviteeID: uuid.New(), Status: status}
	inv.ID = uuid.New()
	m.invites[inv.ID] = inv
	return inv, owner
}

func TestRespondInvite_Accept(t *testing.T) {
	m := newMemStore()
	inv, owner := seedInvite(m, entity.InviteStatusPending)
	pub := &recordingPublisher{}
	s := newTestInviteService(m, pub)
	ctx := context.Background()

	pending, err := s.GetPendingInvites(ctx, inv.InviteeID.String())
	if err != nil || len(pending) != 1 || pending[0].Court.Name != "Court 1" {
		t.Fatalf("expected one pending invite with its court, got %v / %+v", err, pending)
	}

	resp, err := s.RespondInvite(ctx, inv.InviteeID.String(), inv.ID.String(), &request.RespondInviteRequest{Action: "accept"})
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if resp.Status != entity.InviteStatusAccepted || m.invites[inv.ID].Status != entity.InviteStatusAccepted {
		t.Fatalf("expected accepted, got %s", resp.Status)
	}
	if len(m.notifications) != 1 || m.notifications[0].UserID != owner || m.notifications[0].Type != entity.NotificationInviteAccepted {
		t.Fatalf("expected the owner to be notified, got %+v", m.notifications)
	}
	if len(pub.keys) != 1 || pub.keys[0] != mq.KeyInviteAccepted {
		t.Fatalf("expected invite.accepted, got %v", pub.keys)
	}

	_, err = s.RespondInvite(ctx, inv.InviteeID.String(), inv.ID.String(), &request.RespondInviteRequest{Action: "decline"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected answered invite to conflict, got %v", err)
	}
}

func TestRespondInvite_DeclineAndGuards(t *testing.T) {
	m := newMemStore()
	inv, _ := seedInvite(m, entity.InviteStatusPending)
	s := newTestInviteService(m, mq.NopPublisher{})
	ctx := context.Background()

	if _, err := s.RespondInvite(ctx, uuid.New().String(), inv.ID.String(), &request.RespondInviteRequest{Action: "accept"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected another user to be forbidden, got %v", err)
	}
	if _, err := s.RespondInvite(ctx, inv.InviteeID.String(), inv.ID.String(), &request.RespondInviteRequest{Action: "maybe"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected unknown action to be rejected, got %v", err)
	}
	if _, err := s.RespondInvite(ctx, inv.InviteeID.String(), uuid.New().String(), &request.RespondInviteRequest{Action: "accept"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	resp, err := s.RespondInvite(ctx, inv.InviteeID.String(), inv.ID.String(), &request.RespondInviteRequest{Action: "decline"})
	if err != nil || resp.Status != entity.InviteStatusDeclined {
		t.Fatalf("expected declined, got %v / %+v", err, resp)
	}
	if len(m.notifications) != 0 {
		t.Fatalf("declining must not notify the owner")
	}
}

func TestLeaveInvite(t *testing.T) {
	m := newMemStore()
	pendingInv, _ := seedInvite(m, entity.InviteStatusPending)
	acceptedInv, owner := seedInvite(m, entity.InviteStatusAccepted)
	pub := &recordingPublisher{}
	s := newTestInviteService(m, pub)
	ctx := context.Background()

	if err := s.LeaveInvite(ctx, pendingInv.InviteeID.String(), pendingInv.ID.String()); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected pending invite to be unleavable, got %v", err)
	}

	if err := s.LeaveInvite(ctx, acceptedInv.InviteeID.String(), acceptedInv.ID.String()); err != nil {
		t.Fatalf("leave: %v", err)
	}
	if m.invites[acceptedInv.ID].Status != entity.InviteStatusLeft {
		t.Fatalf("expected status left, got %s", m.invites[acceptedInv.ID].Status)
	}
	if len(m.notifications) != 1 || m.notifications[0].UserID != owner || m.notifications[0].Type != entity.NotificationInviteLeft {
		t.Fatalf("expected the owner to be notified, got %+v", m.notifications)
	}
	if len(pub.keys) != 1 || pub.keys[0] != mq.KeyInviteLeft {
		t.Fatalf("expected invite.left, got %v", pub.keys)
	}
}

func TestAcceptedInvite_ListedWithIDAndLeavable(t *testing.T) {
	m := newMemStore()
	inv, owner := seedInvite(m, entity.InviteStatusPending)
	invites := newTestInviteService(m, mq.NopPublisher{})
	bookings := newTestBookingService(m, mq.NopPublisher{})
	ctx := context.Background()
	guest := inv.InviteeID.String()

	if _, err := invites.RespondInvite(ctx, guest, inv.ID.String(), &request.RespondInviteRequest{Action: "accept"}); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if pending, _ := invites.GetPendingInvites(ctx, guest); len(pending) != 0 {
		t.Fatalf("accepted invite should leave the pending list, got %d", len(pending))
	}

	listed, err := bookings.GetMyBookings(ctx, guest)
	if err != nil || len(listed) != 1 {
		t.Fatalf("expected the joined booking, got %v / %+v", err, listed)
	}
	b := listed[0]
	if b.Role != response.BookingRoleGuest || b.InviteID == nil || *b.InviteID != inv.ID.String() {
		t.Fatalf("expected guest booking carrying invite %s, got %+v", inv.ID, b)
	}
	if b.CanCancel || !b.CanLeave {
		t.Fatalf("a guest can leave but not cancel, got cancel=%v leave=%v", b.CanCancel, b.CanLeave)
	}

	ownerView, err := bookings.GetMyBookings(ctx, owner.String())
	if err != nil || len(ownerView) != 1 || !ownerView[0].CanCancel || ownerView[0].CanLeave || ownerView[0].InviteID != nil {
		t.Fatalf("unexpected owner view %v / %+v", err, ownerView)
	}

	if err := invites.LeaveInvite(ctx, guest, *b.InviteID); err != nil {
		t.Fatalf("leave through the listed invite id: %v", err)
	}
	if listed, _ := bookings.GetMyBookings(ctx, guest); len(listed) != 0 {
		t.Fatalf("left booking should no longer be listed, got %d", len(listed))
	}
}

func TestRespondInvite_ConcurrentAnswerConflicts(t *testing.T) {
	m := newMemStore()
	inv, _ := seedInvite(m, entity.InviteStatusPending)
	pub := &recordingPublisher{}
	s := newTestInviteService(m, pub)

	// Another request answered the invite after this one loaded it.
	stale := *inv
	m.invites[inv.ID].Status = entity.InviteStatusAccepted

	err := s.transition(context.Background(), &stale, entity.InviteStatusAccepted, entity.NotificationInviteAccepted)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict for a stale invite, got %v", err)
	}
	if len(m.notifications) != 0 || len(pub.keys) != 0 {
		t.Fatalf("a lost race must not notify twice")
	}
}
