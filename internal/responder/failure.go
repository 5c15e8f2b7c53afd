package responder

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

const failureSubject = "Generate Failure: CNM Responder"

// FailureNotifier resolves the failure topic and publishes to it.
type FailureNotifier interface {
	ResolveTopic(ctx context.Context, match string) (string, error)
	Publish(ctx context.Context, topic string, key, value []byte, headers map[string]string) error
}

// FailureReporter publishes terminal-failure notifications to the
// batch-job-failure topic. The topic is resolved by substring match at
// report time because it carries an environment-specific prefix.
type FailureReporter struct {
	notifier   FailureNotifier
	topicMatch string
	logger     *zap.Logger
}

// NewFailureReporter constructs a FailureReporter.
func NewFailureReporter(notifier FailureNotifier, topicMatch string, logger *zap.Logger) *FailureReporter {
	return &FailureReporter{
		notifier:   notifier,
		topicMatch: topicMatch,
		logger:     logger,
	}
}

// Report publishes a plain-text failure message for the given granule.
func (r *FailureReporter) Report(ctx context.Context, granule, collection, message string) error {
	topic, err := r.notifier.ResolveTopic(ctx, r.topicMatch)
	if err != nil {
		return fmt.Errorf("resolve failure topic: %w", err)
	}

	body := fmt.Sprintf("Ingestion failed for %s in %s.\n%s", granule, collection, message)
	headers := map[string]string{
		"subject": failureSubject,
	}
	if err := r.notifier.Publish(ctx, topic, []byte(granule), []byte(body), headers); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}

	r.logger.Info("failure notification published", zap.String("topic", topic))
	return nil
}
