package config

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	aws_config "github.com/aws/aws-sdk-go-v2/config"

	"github.com/dexterm300/aer-daily-oil-and-gas-reports-advisor/internal/notify"
	"github.com/dexterm300/aer-daily-oil-and-gas-reports-advisor/internal/pipeline"
	"github.com/dexterm300/aer-daily-oil-and-gas-reports-advisor/internal/reports"
	"github.com/dexterm300/aer-daily-oil-and-gas-reports-advisor/internal/source"
	"github.com/dexterm300/aer-daily-oil-and-gas-reports-advisor/internal/staging"
	"github.com/dexterm300/aer-daily-oil-and-gas-reports-advisor/internal/summarize"
)

// NewPipeline builds the orchestrator with collaborators selected by the
// configuration. All four are injected here, not read ambiently mid-run, so
// tests can swap in fakes.
func (c *Config) NewPipeline(ctx context.Context) (*pipeline.Pipeline, error) {
	store, err := c.NewStagingStore(ctx)
	if err != nil {
		return nil, err
	}

	summarizer, err := c.NewSummarizer(ctx)
	if err != nil {
		return nil, err
	}

	notifier, err := c.NewNotifier(ctx)
	if err != nil {
		return nil, err
	}

	return pipeline.New(pipeline.Deps{
		Fetcher:    source.NewAERFetcher(c.SourceBaseURL),
		Store:      store,
		Summarizer: summarizer,
		Notifier:   notifier,
	}), nil
}

func (c *Config) NewStagingStore(ctx context.Context) (staging.Store, error) {
	switch c.StagingBackend {
	case "s3":
		return staging.NewS3Store(ctx, c.RawBucket, staging.S3ClientConfig{
			Endpoint:        c.S3EndpointURL,
			AccessKeyID:     c.AWSAccessKeyID,
			SecretAccessKey: c.AWSSecretKey,
			Region:          c.AWSRegion,
		})
	case "local":
		return staging.NewLocalStore(c.LocalStagingDir)
	}
	return nil, fmt.Errorf("unknown staging backend %q, expected 's3' or 'local'", c.StagingBackend)
}

func (c *Config) NewSummarizer(ctx context.Context) (summarize.Summarizer, error) {
	switch c.SummarizerProvider {
	case "bedrock":
		awsCfg, err := c.loadAWSConfig(ctx)
		if err != nil {
			return nil, err
		}
		return summarize.NewBedrockSummarizer(awsCfg, c.ModelID), nil
	case "openai":
		return summarize.NewOpenAISummarizer(c.ModelID), nil
	}
	return nil, fmt.Errorf("unknown summarizer provider %q, expected 'bedrock' or 'openai'", c.SummarizerProvider)
}

func (c *Config) NewNotifier(ctx context.Context) (notify.Notifier, error) {
	switch c.NotifierKind {
	case "sns":
		if c.SNSTopicARN == "" {
			return nil, fmt.Errorf("SNS_TOPIC_ARN is required for the sns notifier")
		}
		awsCfg, err := c.loadAWSConfig(ctx)
		if err != nil {
			return nil, err
		}
		return notify.NewSNSNotifier(awsCfg, c.SNSTopicARN), nil
	case "amqp":
		return notify.NewAMQPNotifier(c.AMQPURL, c.AMQPExchange)
	case "log":
		return notify.LogNotifier{}, nil
	}
	return nil, fmt.Errorf("unknown notifier %q, expected 'sns', 'amqp' or 'log'", c.NotifierKind)
}

// DateOverride parses the backfill override, if set.
func (c *Config) DateOverride() (reports.Date, error) {
	if c.ReportDateOverride == "" {
		return reports.Date{}, nil
	}
	return reports.ParseDate(c.ReportDateOverride)
}

func (c *Config) loadAWSConfig(ctx context.Context) (aws.Config, error) {
	awsCfg, err := aws_config.LoadDefaultConfig(ctx, aws_config.WithRegion(c.AWSRegion))
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return awsCfg, nil
}
