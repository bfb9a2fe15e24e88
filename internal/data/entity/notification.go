package entity

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationInviteAccepted NotificationType = "invite_accepted"
	NotificationInviteLeft     NotificationType = "invite_left"
)

type Notification struct {
	BaseSimple
	UserID  uuid.UUID        `db:"user_id"`
	Type    NotificationType `db:"type"`
	Payload map[string]any   `db:"payload"`
	ReadAt  *time.Time       `db:"read_at"`
}
