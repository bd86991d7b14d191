package domain

import (
	"context"
	"time"
)

// NotificationType classifies a lottery notification.
type NotificationType string

const (
	NotifyInvited    NotificationType = "INVITED"
	NotifyWaitlisted NotificationType = "WAITLISTED"
	NotifyAccepted   NotificationType = "ACCEPTED"
	NotifyDeclined   NotificationType = "DECLINED"
	NotifyConfirmed  NotificationType = "CONFIRMED"
	NotifyCancelled  NotificationType = "CANCELLED"
)

// NotificationRequest asks the sink to notify a set of users about an event.
// The core never formats message text; that belongs to the sink.
type NotificationRequest struct {
	UserIDs   []string
	EventID   string
	EventName string
	Type      NotificationType
}

// Notifier is the delivery sink for notification requests. Callers treat it
// as fire-and-forget: a delivery failure is logged and never fails the
// state transition that triggered it.
type Notifier interface {
	Notify(ctx context.Context, req NotificationRequest) error
}

// Notification is one persisted entry of the in-app notification log.
// swagger:model Notification
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	EventID   string           `json:"event_id"`
	EventName string           `json:"event_name"`
	Type      NotificationType `json:"type"`
	CreatedAt time.Time        `json:"created_at"`
}

// NotificationRepository persists the notification log.
type NotificationRepository interface {
	CreateBatch(ctx context.Context, notifications []*Notification) error
	ListByUserID(ctx context.Context, userID string, params PaginationParams) ([]*Notification, int, error)
}
