// Package cache provides the shared key-value store backing the tick
// cache and the subscription request bus. Consumers and the connection
// supervisor never talk to each other directly; they meet here.
package cache

import (
	"context"
	"time"

	"github.com/Hybrid05-team03/auto-stock-trading-system-backend/internal/model"
)

// RequestChannel is the pub/sub topic consumers publish subscription
// requests to and the supervisor drains.
const RequestChannel = "subscribe.add"

// SubscriptionRequest asks the supervisor to start a feed subscription.
// No acknowledgement comes back on the channel; success is observed via
// the tick cache.
type SubscriptionRequest struct {
	FeedID        string     `json:"tr_id"`
	InstrumentKey string     `json:"tr_key"`
	Kind          model.Kind `json:"type"`
}

// Store is the shared key-value store plus its pub/sub facility.
// Single-key writes are atomic; implementations must be safe for
// concurrent use by many consumers and one supervisor.
type Store interface {
	// Get returns the value at key, reporting false on miss or expiry.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set overwrites the value at key with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Publish sends a payload to every subscriber of channel.
	Publish(ctx context.Context, channel string, payload []byte) error

	// Subscribe returns a channel of payloads published to channel and a
	// stop function releasing the subscription.
	Subscribe(ctx context.Context, channel string) (<-chan []byte, func(), error)
}
