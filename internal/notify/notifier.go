// Package notify publishes domain events to Redis channels so other
// instances (or a websocket gateway) can fan them out to connected users.
// Delivery is best-effort; request handling never fails because of it.
package notify

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"

	"orghub-server/internal/config"
)

const broadcastChannel = "orghub:announcements"

// Notifier publishes events over Redis pub/sub. A nil Notifier is valid
// and drops everything, so callers don't need to guard for a missing
// Redis configuration.
type Notifier struct {
	rdb *redis.Client
}

// New creates a Notifier from config. Returns nil when no Redis address
// is configured.
func New(cfg config.RedisConfig) *Notifier {
	if cfg.Addr == "" {
		return nil
	}
	return &Notifier{
		rdb: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

// Event is the payload published to subscribers.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// NotifyUser publishes an event on the given user's channel.
func (n *Notifier) NotifyUser(ctx context.Context, userID string, event Event) {
	n.publish(ctx, "orghub:user:"+userID, event)
}

// Broadcast publishes an event on the shared announcement channel.
func (n *Notifier) Broadcast(ctx context.Context, event Event) {
	n.publish(ctx, broadcastChannel, event)
}

func (n *Notifier) publish(ctx context.Context, channel string, event Event) {
	if n == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("notify: marshal event: %v", err)
		return
	}
	if err := n.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		log.Printf("notify: publish to %s: %v", channel, err)
	}
}
