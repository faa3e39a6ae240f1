package shared

import (
	"context"
	"time"
)

// NotificationKind is the severity of a user-facing notification
type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
	NotifyInfo    NotificationKind = "info"
)

// Notification is a transient message shown to the operator
type Notification struct {
	Kind      NotificationKind `json:"kind"`
	Message   string           `json:"message"`
	Duration  time.Duration    `json:"-"`
	CreatedAt time.Time        `json:"created_at"`
}

// DurationMs is the display duration in milliseconds
func (n Notification) DurationMs() int64 {
	return n.Duration.Milliseconds()
}

// DefaultDuration returns the display duration used when none is given
func DefaultDuration(kind NotificationKind) time.Duration {
	if kind == NotifyError {
		return 5 * time.Second
	}
	return 3 * time.Second
}

// Notifier is a fire-and-forget notification sink. Implementations must not
// block the caller and give no delivery ordering guarantees.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NotifierFunc adapts a function to the Notifier interface
type NotifierFunc func(ctx context.Context, n Notification)

// Notify calls f
func (f NotifierFunc) Notify(ctx context.Context, n Notification) {
	f(ctx, n)
}

// NopNotifier discards notifications
type NopNotifier struct{}

// Notify does nothing
func (NopNotifier) Notify(context.Context, Notification) {}
