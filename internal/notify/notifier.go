package notify

import "context"

// Notifier defines the interface for publishing messages to an out-of-band
// notification channel. This abstraction allows swapping the mock with the
// real email integration without refactoring.
type Notifier interface {
	Publish(ctx context.Context, subject, message string) error
}
