// Package notifications publishes activity feed events to Redis subscribers.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	"cinemate/internal/models"

	"github.com/redis/go-redis/v9"
)

// Notifier provides helpers to publish feed events into Redis channels
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
// A nil client turns every publish into a no-op.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// FeedChannel is the channel carrying a user's feed events.
func FeedChannel(userID uint) string {
	return fmt.Sprintf("feed:user:%d", userID)
}

// Enabled reports whether a Redis client is attached.
func (n *Notifier) Enabled() bool {
	return n != nil && n.rdb != nil
}

// PublishEvent sends the event as JSON to the owner's feed channel.
func (n *Notifier) PublishEvent(ctx context.Context, event *models.Event) error {
	if !n.Enabled() {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode feed event: %w", err)
	}
	return n.rdb.Publish(ctx, FeedChannel(event.UserID), payload).Err()
}
