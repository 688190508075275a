// Package router dispatches raw data frames to the parser registered for
// their subscription and writes the decoded records into the tick cache.
package router

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/Hybrid05-team03/auto-stock-trading-system-backend/internal/cache"
	"github.com/Hybrid05-team03/auto-stock-trading-system-backend/internal/model"
	"github.com/Hybrid05-team03/auto-stock-trading-system-backend/internal/parser"
)

// Registry exposes the supervisor's active subscription table. The router
// only parses frames for pairs that were explicitly subscribed: two feeds
// can share overlapping field layouts, so guessing is never safe.
type Registry interface {
	Lookup(feedID, instrumentKey string) (model.Kind, bool)
}

// Stats contains runtime counters.
type Stats struct {
	Received    int64
	Routed      int64
	ParseErrors int64
	Unmatched   int64
}

// Router routes one frame at a time; it holds no goroutines of its own.
type Router struct {
	registry Registry
	store    cache.Store
	logger   *slog.Logger

	execHook func(ctx context.Context, ev model.ExecutionEvent)

	mu    sync.Mutex
	stats Stats
}

// New creates a Router writing into store.
func New(registry Registry, store cache.Store, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		registry: registry,
		store:    store,
		logger:   logger,
	}
}

// SetExecHook registers a callback invoked for every routed execution
// notification, after the cache write. Used to keep the order journal
// current.
func (r *Router) SetExecHook(hook func(ctx context.Context, ev model.ExecutionEvent)) {
	r.execHook = hook
}

// Handle parses one raw data frame and writes the record to the cache.
// Undecodable or unmatched frames are logged and dropped; the receive
// loop never stops for them.
func (r *Router) Handle(ctx context.Context, raw string) {
	r.count(func(s *Stats) { s.Received++ })

	feedID, key, ok := parser.Header(raw)
	if !ok {
		r.logger.Warn("undecodable frame header", "frame", snippet(raw))
		r.count(func(s *Stats) { s.ParseErrors++ })
		return
	}

	kind, ok := r.registry.Lookup(feedID, key)
	if !ok {
		r.logger.Warn("frame for unsubscribed pair, discarding",
			"feed_id", feedID,
			"instrument_key", key,
		)
		r.count(func(s *Stats) { s.Unmatched++ })
		return
	}

	record, ok := r.parse(kind, raw)
	if !ok {
		r.logger.Warn("unparseable frame",
			"feed_id", feedID,
			"instrument_key", key,
			"kind", kind,
		)
		r.count(func(s *Stats) { s.ParseErrors++ })
		return
	}

	data, err := json.Marshal(record)
	if err != nil {
		r.logger.Error("marshal record", "kind", kind, "error", err)
		return
	}

	if err := r.store.Set(ctx, kind.CacheKey(key), data, kind.TTL()); err != nil {
		r.logger.Error("write tick cache",
			"key", kind.CacheKey(key),
			"error", err,
		)
		return
	}

	r.count(func(s *Stats) { s.Routed++ })

	if r.execHook != nil {
		if ev, isExec := record.(model.ExecutionEvent); isExec {
			r.execHook(ctx, ev)
		}
	}
}

// parse invokes the parser selected by the registry, never by the frame.
func (r *Router) parse(kind model.Kind, raw string) (any, bool) {
	switch kind {
	case model.KindPrice:
		return orNil(parser.ParsePrice(raw))
	case model.KindQuote:
		return orNil(parser.ParseQuote(raw))
	case model.KindIndex:
		return orNil(parser.ParseIndex(raw))
	case model.KindExec:
		return orNil(parser.ParseExec(raw))
	}
	return nil, false
}

func orNil[T any](record T, ok bool) (any, bool) {
	if !ok {
		return nil, false
	}
	return record, true
}

// Stats returns a copy of the current counters.
func (r *Router) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

func (r *Router) count(f func(*Stats)) {
	r.mu.Lock()
	f(&r.stats)
	r.mu.Unlock()
}

func snippet(raw string) string {
	if len(raw) > 80 {
		return raw[:80] + "..."
	}
	return raw
}
