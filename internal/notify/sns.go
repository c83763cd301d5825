package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SNSNotifier publishes to an SNS topic whose subscriptions (email, SMS, ...)
// are managed out-of-band.
type SNSNotifier struct {
	client   *sns.Client
	topicARN string
}

var _ Notifier = (*SNSNotifier)(nil)

func NewSNSNotifier(cfg aws.Config, topicARN string) *SNSNotifier {
	return &SNSNotifier{
		client:   sns.NewFromConfig(cfg),
		topicARN: topicARN,
	}
}

func (n *SNSNotifier) Publish(ctx context.Context, subject, message string) error {
	_, err := n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(message),
	})
	if err != nil {
		slog.Error("sns publish failed", "topic", n.topicARN, "error", err)
		return fmt.Errorf("failed to publish to %s: %w: %w", n.topicARN, ErrDeliveryFailed, err)
	}

	slog.Info("summary published", "topic", n.topicARN, "subject", subject)
	return nil
}
