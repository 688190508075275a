package trade

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Hybrid05-team03/auto-stock-trading-system-backend/internal/api"
)

// Order statuses as stored in the journal.
const (
	StatusPlaced    = "placed"
	StatusFilled    = "filled"
	StatusCancelled = "cancelled"
	StatusDryRun    = "dry_run"
)

// Order is one journaled order.
type Order struct {
	ID       uuid.UUID
	OrderNo  string
	Symbol   string
	Side     api.Side
	Qty      int64
	Price    int64
	Type     api.OrderType
	Status   string
	PlacedAt time.Time
}

// Journal persists the order lifecycle. Implementations must tolerate
// MarkExecution for order numbers they never recorded: fills for orders
// placed outside this process still arrive on the notification feed.
type Journal interface {
	RecordOrder(ctx context.Context, order Order) error
	MarkExecution(ctx context.Context, orderNo, status string, price float64, qty int64) error
	ListOpen(ctx context.Context) ([]Order, error)
}

// PGJournal is the PostgreSQL journal.
type PGJournal struct {
	db *pgxpool.Pool
}

// NewPGJournal creates a journal on an existing pool.
func NewPGJournal(db *pgxpool.Pool) *PGJournal {
	return &PGJournal{db: db}
}

func (j *PGJournal) RecordOrder(ctx context.Context, order Order) error {
	_, err := j.db.Exec(ctx, `
		INSERT INTO orders (id, order_no, symbol, side, qty, price, order_type, status, placed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (order_no) DO NOTHING
	`, order.ID, order.OrderNo, order.Symbol, string(order.Side), order.Qty,
		order.Price, string(order.Type), order.Status, order.PlacedAt)
	if err != nil {
		return fmt.Errorf("record order %s: %w", order.OrderNo, err)
	}
	return nil
}

func (j *PGJournal) MarkExecution(ctx context.Context, orderNo, status string, price float64, qty int64) error {
	// Unknown order numbers match zero rows, which is fine; the
	// notification feed covers the whole account, not just orders this
	// process placed.
	_, err := j.db.Exec(ctx, `
		UPDATE orders
		SET status = $2, exec_price = $3, exec_qty = $4, executed_at = now()
		WHERE order_no = $1
	`, orderNo, status, price, qty)
	if err != nil {
		return fmt.Errorf("mark execution for order %s: %w", orderNo, err)
	}
	return nil
}

func (j *PGJournal) ListOpen(ctx context.Context) ([]Order, error) {
	rows, err := j.db.Query(ctx, `
		SELECT id, order_no, symbol, side, qty, price, order_type, status, placed_at
		FROM orders
		WHERE status = $1
		ORDER BY placed_at
	`, StatusPlaced)
	if err != nil {
		return nil, fmt.Errorf("list open orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		var side, orderType string
		if err := rows.Scan(&o.ID, &o.OrderNo, &o.Symbol, &side, &o.Qty,
			&o.Price, &orderType, &o.Status, &o.PlacedAt); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		o.Side = api.Side(side)
		o.Type = api.OrderType(orderType)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}
	return orders, nil
}
