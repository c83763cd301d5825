// Package notify publishes finished summaries to a fan-out channel with zero
// or more subscribers.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/dexterm300/aer-daily-oil-and-gas-reports-advisor/internal/reports"
)

// ErrDeliveryFailed means the publish call itself failed. Subscriber delivery
// beyond the publish is the channel's concern, not ours.
var ErrDeliveryFailed = errors.New("summary delivery failed")

type Notifier interface {
	Publish(ctx context.Context, subject, message string) error
}

// SummarySubject is the notification subject line for one day's summary.
func SummarySubject(dataset reports.Dataset, date reports.Date) string {
	return fmt.Sprintf("AER %s summary – %s", dataset, date)
}

// SummaryBody renders the plain-text notification. SNS email subscriptions
// deliver text only, so there is no HTML variant.
func SummaryBody(dataset reports.Dataset, date reports.Date, summary, stagingKey string) string {
	return fmt.Sprintf("Daily AER Summary – %s\nDataset: %s\n\n%s\n\nSource (temporary staging key): %s",
		date, dataset, summary, stagingKey)
}
