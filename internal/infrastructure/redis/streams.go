package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CreditsStream carries purchase status events for external consumers
// (frontend notifications, analytics). Entries use the
// {"event": type, "data": payload} envelope.
const CreditsStream = "credits:events"

type StreamProducer struct {
	client *redis.Client
}

func NewStreamProducer(client *redis.Client) *StreamProducer {
	return &StreamProducer{client: client}
}

// PublishStatusEvent publishes a purchase status event to the credits stream.
func (p *StreamProducer) PublishStatusEvent(ctx context.Context, eventType string, data map[string]any) error {
	envelope, err := json.Marshal(map[string]any{
		"event": eventType,
		"data":  data,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: CreditsStream,
		Values: map[string]any{
			"event_type": eventType,
			"payload":    string(envelope),
			"timestamp":  time.Now().Unix(),
		},
	}

	if _, err := p.client.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to publish status event: %w", err)
	}

	return nil
}
