package mailer

import (
	"context"

	"github.com/uscre/auth-service/internal/logging"
)

// LogNotifier writes messages to the log instead of sending them. It is used
// when mail credentials are not configured, so development registrations
// still surface their verification links.
type LogNotifier struct {
	logger logging.Logger
}

func NewLogNotifier(logger logging.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("module", "mailer")}
}

func (n *LogNotifier) Send(ctx context.Context, to, subject, body string) error {
	n.logger.Info(ctx, "mail credentials not configured, skipping send",
		"to", to, "subject", subject, "body", body)
	return nil
}
