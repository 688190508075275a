package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Hybrid05-team03/auto-stock-trading-system-backend/internal/cache"
	"github.com/Hybrid05-team03/auto-stock-trading-system-backend/internal/model"
	"github.com/Hybrid05-team03/auto-stock-trading-system-backend/internal/parser"
)

// State is the supervisor's connection lifecycle state.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Approver supplies the websocket approval key for subscribe frames.
type Approver interface {
	ApprovalKey(ctx context.Context) (string, error)
}

// Handler consumes decoded-frame candidates. Control frames are handled
// by the supervisor itself and never reach the handler.
type Handler interface {
	Handle(ctx context.Context, raw string)
}

// Config tunes the supervisor.
type Config struct {
	// CustType is "P" for personal accounts, "B" for corporate.
	CustType string

	// SendPacing is the minimum gap between outbound control frames. The
	// venue rate-limits subscribe bursts.
	SendPacing time.Duration
}

type subKey struct {
	feedID        string
	instrumentKey string
}

// Supervisor runs the two duties of the streaming connection: draining
// subscription requests into outbound control frames, and splitting
// inbound traffic into control frames (handled here) and data frames
// (passed to the handler). It owns the active subscription table; only
// the send duty mutates it.
type Supervisor struct {
	client   Client
	store    cache.Store
	approver Approver
	cfg      Config
	logger   *slog.Logger

	handler Handler
	state   atomic.Int32

	mu     sync.RWMutex
	active map[subKey]model.Kind
}

// NewSupervisor creates a supervisor. Call SetHandler before Run.
func NewSupervisor(client Client, store cache.Store, approver Approver, cfg Config, logger *slog.Logger) *Supervisor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.CustType == "" {
		cfg.CustType = "P"
	}
	if cfg.SendPacing == 0 {
		cfg.SendPacing = 100 * time.Millisecond
	}

	return &Supervisor{
		client:   client,
		store:    store,
		approver: approver,
		cfg:      cfg,
		logger:   logger,
		active:   make(map[subKey]model.Kind),
	}
}

// SetHandler wires the data-frame consumer. The supervisor and the
// handler reference each other, so one side is attached after
// construction.
func (s *Supervisor) SetHandler(h Handler) {
	s.handler = h
}

// State returns the current lifecycle state.
func (s *Supervisor) State() State {
	return State(s.state.Load())
}

// Lookup returns the kind registered for a feed/instrument pair. This is
// the routing table for inbound data frames.
func (s *Supervisor) Lookup(feedID, instrumentKey string) (model.Kind, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	kind, ok := s.active[subKey{feedID, instrumentKey}]
	return kind, ok
}

// ActiveCount returns the number of live subscriptions.
func (s *Supervisor) ActiveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.active)
}

// Run connects and drives both duties until ctx is cancelled or the
// connection fails. There is no reconnect: on a receive error Run
// returns it and the process is expected to exit for a supervised
// restart with a clean slate.
func (s *Supervisor) Run(ctx context.Context) error {
	if s.handler == nil {
		return fmt.Errorf("supervisor started without a frame handler")
	}

	s.state.Store(int32(StateConnecting))
	defer s.state.Store(int32(StateDisconnected))

	if err := s.client.Connect(ctx); err != nil {
		return fmt.Errorf("connect stream: %w", err)
	}
	defer s.client.Close()

	requests, stop, err := s.store.Subscribe(ctx, cache.RequestChannel)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", cache.RequestChannel, err)
	}
	defer stop()

	s.state.Store(int32(StateConnected))
	s.logger.Info("stream connected")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.sendDuty(ctx, requests) })
	g.Go(func() error { return s.receiveDuty(ctx) })

	err = g.Wait()
	if ctx.Err() != nil && err == ctx.Err() {
		return nil
	}
	return err
}

// sendDuty drains subscription requests and turns each new pair into an
// outbound subscribe control frame, pacing sends to stay under the
// venue's rate limit.
func (s *Supervisor) sendDuty(ctx context.Context, requests <-chan []byte) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case payload, ok := <-requests:
			if !ok {
				return fmt.Errorf("request channel closed")
			}
			if err := s.handleRequest(ctx, payload); err != nil {
				return err
			}
		}
	}
}

func (s *Supervisor) handleRequest(ctx context.Context, payload []byte) error {
	var req cache.SubscriptionRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		s.logger.Warn("malformed subscription request, skipping",
			"payload", string(payload),
			"error", err,
		)
		return nil
	}
	if !req.Kind.Valid() || req.InstrumentKey == "" {
		s.logger.Warn("invalid subscription request, skipping",
			"kind", req.Kind,
			"instrument_key", req.InstrumentKey,
		)
		return nil
	}
	if req.FeedID == "" {
		req.FeedID = req.Kind.FeedID()
	}

	key := subKey{req.FeedID, req.InstrumentKey}

	s.mu.RLock()
	_, exists := s.active[key]
	s.mu.RUnlock()
	if exists {
		s.logger.Warn("duplicate subscription request, skipping",
			"feed_id", req.FeedID,
			"instrument_key", req.InstrumentKey,
		)
		return nil
	}

	approvalKey, err := s.approver.ApprovalKey(ctx)
	if err != nil {
		// The venue session is unusable without an approval key; let the
		// process restart rather than silently dropping the request.
		return fmt.Errorf("approval key for subscribe: %w", err)
	}

	frame, err := subscribeFrame(approvalKey, s.cfg.CustType, req.FeedID, req.InstrumentKey)
	if err != nil {
		return fmt.Errorf("build subscribe frame: %w", err)
	}
	if err := s.client.Send(frame); err != nil {
		return fmt.Errorf("send subscribe frame: %w", err)
	}

	s.mu.Lock()
	s.active[key] = req.Kind
	s.mu.Unlock()

	s.logger.Info("subscribed",
		"feed_id", req.FeedID,
		"instrument_key", req.InstrumentKey,
		"kind", req.Kind,
	)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.cfg.SendPacing):
	}
	return nil
}

// receiveDuty splits inbound traffic: heartbeats are echoed verbatim,
// acks are logged, everything else goes to the handler.
func (s *Supervisor) receiveDuty(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-s.client.Errors():
			return fmt.Errorf("stream receive: %w", err)
		case msg, ok := <-s.client.Messages():
			if !ok {
				return fmt.Errorf("message channel closed")
			}

			if cf, isControl := parser.Control(msg.Data); isControl {
				switch cf.Type {
				case parser.ControlHeartbeat:
					// The venue expects the heartbeat payload echoed
					// byte for byte.
					if err := s.client.Send(msg.Data); err != nil {
						return fmt.Errorf("echo heartbeat: %w", err)
					}
				case parser.ControlAck:
					s.logger.Info("subscription ack",
						"tr_id", cf.TrID,
						"code", cf.Code,
						"message", cf.Message,
					)
				}
				continue
			}

			s.handler.Handle(ctx, string(msg.Data))
		}
	}
}

type subscribeHeader struct {
	ApprovalKey string `json:"approval_key"`
	CustType    string `json:"custtype"`
	TrType      string `json:"tr_type"`
	ContentType string `json:"content-type"`
}

type subscribeBody struct {
	Input struct {
		TrID  string `json:"tr_id"`
		TrKey string `json:"tr_key"`
	} `json:"input"`
}

// subscribeFrame builds the JSON control frame registering one pair.
func subscribeFrame(approvalKey, custType, feedID, instrumentKey string) ([]byte, error) {
	var frame struct {
		Header subscribeHeader `json:"header"`
		Body   subscribeBody   `json:"body"`
	}
	frame.Header = subscribeHeader{
		ApprovalKey: approvalKey,
		CustType:    custType,
		TrType:      "1",
		ContentType: "utf-8",
	}
	frame.Body.Input.TrID = feedID
	frame.Body.Input.TrKey = instrumentKey

	return json.Marshal(frame)
}
