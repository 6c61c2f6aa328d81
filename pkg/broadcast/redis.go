package broadcast

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// StreamClient publishes EventMessages onto a Redis Stream per symbol,
// for consumers that want a replayable, at-least-once event log rather
// than Kafka's partitioned topic model.
type StreamClient struct {
	client *redis.Client
}

// NewStreamClient wraps an already-configured redis.Client.
func NewStreamClient(client *redis.Client) *StreamClient {
	return &StreamClient{client: client}
}

// PublishEvent appends msg to stream "events:<symbol>" and returns the
// assigned entry ID.
func (c *StreamClient) PublishEvent(ctx context.Context, symbol string, msg EventMessage) (string, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("broadcast: marshal event: %w", err)
	}

	id, err := c.client.XAdd(ctx, &redis.XAddArgs{
		Stream: streamName(symbol),
		Values: map[string]any{"data": string(data)},
	}).Result()
	if err != nil {
		return "", fmt.Errorf("broadcast: xadd: %w", err)
	}
	return id, nil
}

// Trim caps stream "events:<symbol>" at maxLen entries.
func (c *StreamClient) Trim(ctx context.Context, symbol string, maxLen int64) error {
	return c.client.XTrimMaxLen(ctx, streamName(symbol), maxLen).Err()
}

func streamName(symbol string) string {
	return "events:" + symbol
}
