package kafka

import (
	"context"
	"fmt"
	"strings"

	kafkago "github.com/segmentio/kafka-go"
)

// ResolveTopic returns the first existing topic whose name contains match.
// The failure-notification topic is provisioned out of band with an
// environment-specific prefix, so it is located by substring rather than
// configured by exact name.
func ResolveTopic(ctx context.Context, brokers []string, match string) (string, error) {
	client := &kafkago.Client{Addr: kafkago.TCP(brokers...)}

	resp, err := client.Metadata(ctx, &kafkago.MetadataRequest{Addr: client.Addr})
	if err != nil {
		return "", fmt.Errorf("list topics: %w", err)
	}

	for _, topic := range resp.Topics {
		if topic.Error != nil {
			continue
		}
		if strings.Contains(topic.Name, match) {
			return topic.Name, nil
		}
	}

	return "", fmt.Errorf("no topic matching %q", match)
}
