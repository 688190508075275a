// Package quote implements the consumer-side fetch protocol: answer from
// the tick cache when possible, otherwise request a subscription and
// poll for the first frame to land.
package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Hybrid05-team03/auto-stock-trading-system-backend/internal/api"
	"github.com/Hybrid05-team03/auto-stock-trading-system-backend/internal/cache"
	"github.com/Hybrid05-team03/auto-stock-trading-system-backend/internal/model"
)

// ErrNoData means no record arrived within the caller's deadline and no
// fallback could produce one.
var ErrNoData = errors.New("no data available")

// Snapshotter provides the REST price snapshot used when the venue is
// closed and the streaming path cannot produce fresh data.
type Snapshotter interface {
	InquirePrice(ctx context.Context, symbol string) (api.PriceSnapshot, error)
}

// VenueHours reports whether the venue is trading at a given instant.
type VenueHours interface {
	IsOpen(t time.Time) bool
}

// Config tunes the fetch loop.
type Config struct {
	// PollInterval is the cache re-check cadence while waiting for the
	// first frame.
	PollInterval time.Duration

	// DefaultTimeout bounds a Fetch whose caller passed no timeout.
	DefaultTimeout time.Duration
}

// Service answers point-in-time record requests.
type Service struct {
	store  cache.Store
	rest   Snapshotter
	hours  VenueHours
	cfg    Config
	logger *slog.Logger

	now func() time.Time
}

// NewService creates a fetch service.
func NewService(store cache.Store, rest Snapshotter, hours VenueHours, cfg Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = 200 * time.Millisecond
	}
	if cfg.DefaultTimeout == 0 {
		cfg.DefaultTimeout = 10 * time.Second
	}

	return &Service{
		store:  store,
		rest:   rest,
		hours:  hours,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Fetch returns the freshest record for kind/instrumentKey.
//
// Cache hits return immediately. On a miss during trading hours a
// subscription request is published and the cache polled until a frame
// lands or timeout elapses. Outside trading hours no subscription is
// requested: price misses fall back to a REST snapshot, everything else
// returns ErrNoData since those records only exist on the stream.
func (s *Service) Fetch(ctx context.Context, kind model.Kind, instrumentKey string, timeout time.Duration) (json.RawMessage, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown record kind %q", kind)
	}
	if timeout <= 0 {
		timeout = s.cfg.DefaultTimeout
	}

	cacheKey := kind.CacheKey(instrumentKey)

	if data, ok, err := s.store.Get(ctx, cacheKey); err != nil {
		return nil, fmt.Errorf("read tick cache: %w", err)
	} else if ok {
		return data, nil
	}

	if !s.hours.IsOpen(s.now()) {
		return s.closedMarket(ctx, kind, instrumentKey, cacheKey)
	}

	if err := s.requestSubscription(ctx, kind, instrumentKey); err != nil {
		return nil, err
	}

	return s.poll(ctx, cacheKey, timeout)
}

// closedMarket serves a miss while the venue is closed. Prices have a
// REST equivalent; the other kinds do not.
func (s *Service) closedMarket(ctx context.Context, kind model.Kind, instrumentKey, cacheKey string) (json.RawMessage, error) {
	if kind != model.KindPrice {
		return nil, fmt.Errorf("%w: venue closed and %s records have no snapshot source", ErrNoData, kind)
	}

	snap, err := s.rest.InquirePrice(ctx, instrumentKey)
	if err != nil {
		return nil, fmt.Errorf("closed-market snapshot for %s: %w", instrumentKey, err)
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}

	// Cache the snapshot so the next miss inside the TTL is free.
	if err := s.store.Set(ctx, cacheKey, data, kind.TTL()); err != nil {
		s.logger.Warn("cache snapshot", "key", cacheKey, "error", err)
	}

	s.logger.Debug("served closed-market snapshot", "instrument_key", instrumentKey)
	return data, nil
}

func (s *Service) requestSubscription(ctx context.Context, kind model.Kind, instrumentKey string) error {
	payload, err := json.Marshal(cache.SubscriptionRequest{
		FeedID:        kind.FeedID(),
		InstrumentKey: instrumentKey,
		Kind:          kind,
	})
	if err != nil {
		return fmt.Errorf("marshal subscription request: %w", err)
	}
	if err := s.store.Publish(ctx, cache.RequestChannel, payload); err != nil {
		return fmt.Errorf("publish subscription request: %w", err)
	}

	s.logger.Debug("requested subscription",
		"kind", kind,
		"instrument_key", instrumentKey,
	)
	return nil
}

// poll re-checks the cache until a record lands or the deadline passes.
func (s *Service) poll(ctx context.Context, cacheKey string, timeout time.Duration) (json.RawMessage, error) {
	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return nil, fmt.Errorf("%w: no frame within %s for %s", ErrNoData, timeout, cacheKey)
		case <-ticker.C:
			data, ok, err := s.store.Get(ctx, cacheKey)
			if err != nil {
				return nil, fmt.Errorf("read tick cache: %w", err)
			}
			if ok {
				return data, nil
			}
		}
	}
}
