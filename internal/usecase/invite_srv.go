package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"
	"court-booking/internal/dto/request"
	"court-booking/internal/dto/response"
	"court-booking/pkg/mq"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type InviteService interface {
	CreateInvites(ctx context.Context, userID string, req *request.CreateInvitesRequest) (*response.CreateInvitesResponse, error)
	GetPendingInvites(ctx context.Context, userID string) ([]response.InviteDetailResponse, error)
	RespondInvite(ctx context.Context, userID, inviteID string, req *request.RespondInviteRequest) (*response.InviteResponse, error)
	LeaveInvite(ctx context.Context, userID, inviteID string) error
}

type inviteService struct {
	repo      *repository.Repository
	publisher mq.Publisher
	now       func() time.Time
	log       *zap.Logger
}

func NewInviteService(repo *repository.Repository, publisher mq.Publisher, log *zap.Logger) InviteService {
	return &inviteService{
		repo:      repo,
		publisher: publisher,
		now:       time.Now,
		log:       log.With(zap.String("service", "invite")),
	}
}

type inviteEvent struct {
	InviteID  string `json:"invite_id"`
	BookingID string `json:"booking_id"`
	InviterID string `json:"inviter_id"`
	InviteeID string `json:"invitee_id"`
}

func newInviteEvent(inv *entity.BookingInvite) inviteEvent {
	return inviteEvent{
		InviteID:  inv.ID.String(),
		BookingID: inv.BookingID.String(),
		InviterID: inv.InviterID.String(),
		InviteeID: inv.InviteeID.String(),
	}
}

// CreateInvites invites users to a booking the caller owns. The caller and
// users already invited are skipped.
func (s *inviteService) CreateInvites(ctx context.Context, userID string, req *request.CreateInvitesRequest) (*response.CreateInvitesResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Create invites validation failed", zap.Error(err))
		return nil, err
	}

	userUUID, err := parseID("user", userID)
	if err != nil {
		return nil, err
	}
	bookingID, err := parseID("booking", req.BookingID)
	if err != nil {
		return nil, err
	}

	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking %s: %w", req.BookingID, err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", req.BookingID, ErrNotFound)
	}
	if booking.UserID != userUUID {
		return nil, fmt.Errorf("only the booking owner can invite: %w", ErrForbidden)
	}

	now := s.now()
	seen := map[uuid.UUID]bool{userUUID: true}
	invites := make([]*entity.BookingInvite, 0, len(req.InviteeIDs))
	for _, raw := range req.InviteeIDs {
		inviteeID, err := parseID("invitee", raw)
		if err != nil {
			return nil, err
		}
		if seen[inviteeID] {
			continue
		}
		seen[inviteeID] = true
		invites = append(invites, &entity.BookingInvite{
			BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
			BookingID:  bookingID,
			InviterID:  userUUID,
			InviteeID:  inviteeID,
			Status:     entity.InviteStatusPending,
		})
	}
	if len(invites) == 0 {
		return nil, invalidf("no one to invite besides yourself")
	}

	created, err := s.repo.Invite.CreateBatch(ctx, invites)
	if err != nil {
		s.log.Error("Failed to create invites", zap.Error(err), zap.String("booking_id", req.BookingID))
		return nil, fmt.Errorf("create invites: %w", err)
	}

	s.log.Info("Invites created",
		zap.String("booking_id", req.BookingID),
		zap.Int("requested", len(invites)),
		zap.Int("created", created),
	)

	return &response.CreateInvitesResponse{BookingID: req.BookingID, Invited: created}, nil
}

func (s *inviteService) GetPendingInvites(ctx context.Context, userID string) ([]response.InviteDetailResponse, error) {
	userUUID, err := parseID("user", userID)
	if err != nil {
		return nil, err
	}

	invites, err := s.repo.Invite.FindPendingByInvitee(ctx, userUUID)
	if err != nil {
		s.log.Error("Failed to get pending invites", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("get pending invites: %w", err)
	}

	resp := make([]response.InviteDetailResponse, len(invites))
	for i, inv := range invites {
		resp[i] = response.InviteToDetailResponse(inv)
	}
	return resp, nil
}

// findOwnInvite loads an invite addressed to userUUID.
func (s *inviteService) findOwnInvite(ctx context.Context, userUUID uuid.UUID, inviteID string) (*entity.BookingInvite, error) {
	id, err := parseID("invite", inviteID)
	if err != nil {
		return nil, err
	}

	invite, err := s.repo.Invite.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get invite %s: %w", inviteID, err)
	}
	if invite == nil {
		return nil, fmt.Errorf("invite %s: %w", inviteID, ErrNotFound)
	}
	if invite.InviteeID != userUUID {
		return nil, fmt.Errorf("invite %s is addressed to another user: %w", inviteID, ErrForbidden)
	}
	return invite, nil
}

// transition moves invite from its loaded status to status and, when kind is
// set, notifies the inviter, both in one transaction. A concurrent answer to
// the same invite makes the update miss and surfaces as ErrConflict.
func (s *inviteService) transition(ctx context.Context, invite *entity.BookingInvite, status entity.InviteStatus, kind entity.NotificationType) error {
	err := s.repo.Tx.WithinSerializable(ctx, func(tx *repository.Repository) error {
		if err := tx.Invite.UpdateStatus(ctx, invite.ID, invite.Status, status); err != nil {
			return err
		}
		if kind == "" {
			return nil
		}
		return tx.Notification.Create(ctx, &entity.Notification{
			BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: s.now()},
			UserID:     invite.InviterID,
			Type:       kind,
			Payload: map[string]any{
				"invite_id":  invite.ID.String(),
				"booking_id": invite.BookingID.String(),
				"invitee_id": invite.InviteeID.String(),
			},
		})
	})
	if err != nil {
		if errors.Is(err, repository.ErrStale) {
			s.log.Warn("Invite changed concurrently", zap.String("invite_id", invite.ID.String()), zap.String("status", string(status)))
			return fmt.Errorf("invite %s is no longer %s: %w", invite.ID, invite.Status, ErrConflict)
		}
		if cerr := asConflict(err, "update invite"); cerr != nil {
			return cerr
		}
		s.log.Error("Failed to update invite",
			zap.Error(err),
			zap.String("invite_id", invite.ID.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update invite %s: %w", invite.ID, err)
	}

	invite.Status = status
	return nil
}

// RespondInvite accepts or declines a pending invite. Accepting notifies
// the booking owner.
func (s *inviteService) RespondInvite(ctx context.Context, userID, inviteID string, req *request.RespondInviteRequest) (*response.InviteResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	userUUID, err := parseID("user", userID)
	if err != nil {
		return nil, err
	}

	invite, err := s.findOwnInvite(ctx, userUUID, inviteID)
	if err != nil {
		return nil, err
	}
	if invite.Status != entity.InviteStatusPending {
		return nil, fmt.Errorf("invite %s is already %s: %w", inviteID, invite.Status, ErrConflict)
	}

	status, kind := entity.InviteStatusDeclined, entity.NotificationType("")
	if req.Action == "accept" {
		status, kind = entity.InviteStatusAccepted, entity.NotificationInviteAccepted
	}
	if err := s.transition(ctx, invite, status, kind); err != nil {
		return nil, err
	}

	s.log.Info("Invite answered", zap.String("invite_id", inviteID), zap.String("status", string(status)))
	if status == entity.InviteStatusAccepted {
		publish(ctx, s.publisher, s.log, mq.KeyInviteAccepted, newInviteEvent(invite))
	}

	resp := response.InviteToResponse(invite)
	return &resp, nil
}

// LeaveInvite withdraws from a booking the user had accepted and notifies
// the booking owner.
func (s *inviteService) LeaveInvite(ctx context.Context, userID, inviteID string) error {
	userUUID, err := parseID("user", userID)
	if err != nil {
		return err
	}

	invite, err := s.findOwnInvite(ctx, userUUID, inviteID)
	if err != nil {
		return err
	}
	if invite.Status != entity.InviteStatusAccepted {
		return fmt.Errorf("invite %s is %s, only accepted invites can be left: %w", inviteID, invite.Status, ErrConflict)
	}

	if err := s.transition(ctx, invite, entity.InviteStatusLeft, entity.NotificationInviteLeft); err != nil {
		return err
	}

	s.log.Info("Invite left", zap.String("invite_id", inviteID), zap.String("user_id", userID))
	publish(ctx, s.publisher, s.log, mq.KeyInviteLeft, newInviteEvent(invite))

	return nil
}
