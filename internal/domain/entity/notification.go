package entity

import (
	"time"
)

// NotificationChannel represents the delivery channel of a dispatched reminder.
type NotificationChannel string

const (
	NotificationChannelEmail NotificationChannel = "email"
	NotificationChannelPush  NotificationChannel = "push"
)

// NotificationStatus represents the status of a dispatch attempt.
type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
)

// Notification is the audit record of a single dispatch attempt.
// Dispatch is best-effort: a failed row is never retried, the next
// day's occurrence is the de facto retry.
type Notification struct {
	ID        string
	UserID    string
	HabitID   string
	Channel   NotificationChannel
	Status    NotificationStatus
	Subject   string
	Body      string
	To        string
	SentAt    *time.Time
	FailedAt  *time.Time
	Error     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
