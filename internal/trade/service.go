// Package trade places and cancels cash orders against the venue and
// keeps a journal of their lifecycle, updated from the execution
// notification feed.
package trade

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Hybrid05-team03/auto-stock-trading-system-backend/internal/api"
	"github.com/Hybrid05-team03/auto-stock-trading-system-backend/internal/model"
)

// Orders is the venue order API surface the service drives.
type Orders interface {
	PlaceOrder(ctx context.Context, cfg api.OrderConfig, req api.OrderRequest) (string, error)
	CancelOrder(ctx context.Context, cfg api.OrderConfig, orderNo string, qty int64, total bool) error
}

// Config holds the account settings and the dry-run switch.
type Config struct {
	Order  api.OrderConfig
	DryRun bool
}

// Service places orders and maintains the journal. A nil journal
// disables persistence; orders still go to the venue.
type Service struct {
	orders  Orders
	journal Journal
	cfg     Config
	logger  *slog.Logger

	now func() time.Time
}

// NewService creates a trade service.
func NewService(orders Orders, journal Journal, cfg Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		orders:  orders,
		journal: journal,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

// Place submits one cash order. In dry-run mode nothing reaches the
// venue; the order is journaled with a synthetic order number so
// strategy code can be exercised against the paper account safely.
func (s *Service) Place(ctx context.Context, req api.OrderRequest) (Order, error) {
	order := Order{
		ID:       uuid.New(),
		Symbol:   req.Symbol,
		Side:     req.Side,
		Qty:      req.Qty,
		Price:    req.Price,
		Type:     req.Type,
		PlacedAt: s.now(),
	}

	if s.cfg.DryRun {
		order.OrderNo = "DRY-" + order.ID.String()[:8]
		order.Status = StatusDryRun
		s.logger.Info("dry-run order, not sent",
			"symbol", req.Symbol,
			"side", req.Side,
			"qty", req.Qty,
		)
		return order, s.record(ctx, order)
	}

	orderNo, err := s.orders.PlaceOrder(ctx, s.cfg.Order, req)
	if err != nil {
		return Order{}, err
	}
	order.OrderNo = orderNo
	order.Status = StatusPlaced

	s.logger.Info("order placed",
		"order_no", orderNo,
		"symbol", req.Symbol,
		"side", req.Side,
		"qty", req.Qty,
	)

	return order, s.record(ctx, order)
}

// Cancel cancels the remaining quantity of an order.
func (s *Service) Cancel(ctx context.Context, orderNo string) error {
	if s.cfg.DryRun {
		s.logger.Info("dry-run cancel, not sent", "order_no", orderNo)
		return s.mark(ctx, orderNo, StatusCancelled, 0, 0)
	}

	if err := s.orders.CancelOrder(ctx, s.cfg.Order, orderNo, 0, true); err != nil {
		return err
	}

	s.logger.Info("order cancelled", "order_no", orderNo)
	return s.mark(ctx, orderNo, StatusCancelled, 0, 0)
}

// HandleExecution applies one notification from the fill feed to the
// journal.
func (s *Service) HandleExecution(ctx context.Context, ev model.ExecutionEvent) error {
	status := StatusCancelled
	if ev.Filled() {
		status = StatusFilled
	}

	s.logger.Info("execution notification",
		"order_no", ev.OrderNo,
		"status", status,
		"price", ev.Price,
		"qty", ev.Quantity,
	)

	return s.mark(ctx, ev.OrderNo, status, ev.Price, ev.Quantity)
}

// Open returns the journaled orders still awaiting execution.
func (s *Service) Open(ctx context.Context) ([]Order, error) {
	if s.journal == nil {
		return nil, nil
	}
	return s.journal.ListOpen(ctx)
}

func (s *Service) record(ctx context.Context, order Order) error {
	if s.journal == nil {
		return nil
	}
	if err := s.journal.RecordOrder(ctx, order); err != nil {
		return fmt.Errorf("journal order: %w", err)
	}
	return nil
}

func (s *Service) mark(ctx context.Context, orderNo, status string, price float64, qty int64) error {
	if s.journal == nil {
		return nil
	}
	return s.journal.MarkExecution(ctx, orderNo, status, price, qty)
}
