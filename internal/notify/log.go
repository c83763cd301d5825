package notify

import (
	"context"
	"log/slog"
)

// LogNotifier just logs the summary. Useful when developing locally without a
// notification channel.
type LogNotifier struct{}

var _ Notifier = LogNotifier{}

func (LogNotifier) Publish(ctx context.Context, subject, message string) error {
	slog.Info("summary", "subject", subject, "message", message)
	return nil
}
