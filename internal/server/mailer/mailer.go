// Package mailer delivers notification email. Delivery is always
// best-effort: callers treat a failed send as a logged warning, never as a
// failure of the operation that triggered it.
package mailer

import "context"

// Notifier sends a single message to a recipient.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}
