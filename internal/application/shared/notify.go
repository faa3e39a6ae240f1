package shared

import (
	"context"
	"errors"

	domain "github.com/erp/pos/internal/domain/shared"
)

const genericFailure = "Something went wrong, please try again"

// Outcome emits the notification for the result of an operation and returns
// err unchanged: an error notification carrying the user-facing message when
// err is set, otherwise a success notification with success.
func Outcome(ctx context.Context, n domain.Notifier, err error, success string) error {
	if err != nil {
		n.Notify(ctx, domain.Notification{Kind: domain.NotifyError, Message: UserMessage(err)})
		return err
	}
	if success != "" {
		n.Notify(ctx, domain.Notification{Kind: domain.NotifySuccess, Message: success})
	}
	return nil
}

// UserMessage is the operator-facing text for err
func UserMessage(err error) string {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "The request was cancelled"
	}
	var de *domain.DomainError
	if !errors.As(err, &de) {
		return genericFailure
	}
	if de.Kind == domain.KindPersistence {
		return "Could not save changes, please try again"
	}
	return de.Message
}
