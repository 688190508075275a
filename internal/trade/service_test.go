package trade

import (
	"context"
	"sync"
	"testing"

	"github.com/Hybrid05-team03/auto-stock-trading-system-backend/internal/api"
	"github.com/Hybrid05-team03/auto-stock-trading-system-backend/internal/model"
)

type fakeOrders struct {
	placed    []api.OrderRequest
	cancelled []string
}

func (f *fakeOrders) PlaceOrder(ctx context.Context, cfg api.OrderConfig, req api.OrderRequest) (string, error) {
	f.placed = append(f.placed, req)
	return "0000117057", nil
}

func (f *fakeOrders) CancelOrder(ctx context.Context, cfg api.OrderConfig, orderNo string, qty int64, total bool) error {
	f.cancelled = append(f.cancelled, orderNo)
	return nil
}

type memJournal struct {
	mu     sync.Mutex
	orders map[string]Order
}

func newMemJournal() *memJournal {
	return &memJournal{orders: make(map[string]Order)}
}

func (j *memJournal) RecordOrder(ctx context.Context, order Order) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.orders[order.OrderNo] = order
	return nil
}

func (j *memJournal) MarkExecution(ctx context.Context, orderNo, status string, price float64, qty int64) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if o, ok := j.orders[orderNo]; ok {
		o.Status = status
		j.orders[orderNo] = o
	}
	return nil
}

func (j *memJournal) ListOpen(ctx context.Context) ([]Order, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	var open []Order
	for _, o := range j.orders {
		if o.Status == StatusPlaced {
			open = append(open, o)
		}
	}
	return open, nil
}

func (j *memJournal) get(orderNo string) (Order, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	o, ok := j.orders[orderNo]
	return o, ok
}

var testOrderCfg = api.OrderConfig{
	AccountNo:  "50123456-01",
	BuyTrID:    "VTTC0802U",
	SellTrID:   "VTTC0801U",
	CancelTrID: "VTTC0803U",
}

func TestService_PlaceJournalsOrder(t *testing.T) {
	venue := &fakeOrders{}
	journal := newMemJournal()
	svc := NewService(venue, journal, Config{Order: testOrderCfg}, nil)

	order, err := svc.Place(context.Background(), api.OrderRequest{
		Symbol: "005930",
		Side:   api.Buy,
		Qty:    10,
		Price:  71000,
		Type:   api.Limit,
	})
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	if order.OrderNo != "0000117057" || order.Status != StatusPlaced {
		t.Errorf("order = %+v", order)
	}
	if len(venue.placed) != 1 {
		t.Fatalf("venue received %d orders, want 1", len(venue.placed))
	}
	if _, ok := journal.get("0000117057"); !ok {
		t.Error("placed order missing from journal")
	}

	open, _ := svc.Open(context.Background())
	if len(open) != 1 {
		t.Errorf("Open = %d orders, want 1", len(open))
	}
}

func TestService_DryRunNeverReachesVenue(t *testing.T) {
	venue := &fakeOrders{}
	journal := newMemJournal()
	svc := NewService(venue, journal, Config{Order: testOrderCfg, DryRun: true}, nil)

	order, err := svc.Place(context.Background(), api.OrderRequest{
		Symbol: "005930",
		Side:   api.Sell,
		Qty:    5,
		Type:   api.Market,
	})
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	if len(venue.placed) != 0 {
		t.Error("dry-run order reached the venue")
	}
	if order.Status != StatusDryRun {
		t.Errorf("Status = %s, want %s", order.Status, StatusDryRun)
	}
	if _, ok := journal.get(order.OrderNo); !ok {
		t.Error("dry-run order missing from journal")
	}

	if err := svc.Cancel(context.Background(), order.OrderNo); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if len(venue.cancelled) != 0 {
		t.Error("dry-run cancel reached the venue")
	}
}

func TestService_ExecutionUpdatesJournal(t *testing.T) {
	venue := &fakeOrders{}
	journal := newMemJournal()
	svc := NewService(venue, journal, Config{Order: testOrderCfg}, nil)

	order, err := svc.Place(context.Background(), api.OrderRequest{
		Symbol: "005930",
		Side:   api.Buy,
		Qty:    10,
		Price:  71000,
		Type:   api.Limit,
	})
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}

	err = svc.HandleExecution(context.Background(), model.ExecutionEvent{
		OrderNo:  order.OrderNo,
		ExecType: model.ExecFilled,
		Price:    71000,
		Quantity: 10,
		Time:     "11:23:25",
	})
	if err != nil {
		t.Fatalf("HandleExecution failed: %v", err)
	}

	got, _ := journal.get(order.OrderNo)
	if got.Status != StatusFilled {
		t.Errorf("Status = %s, want %s", got.Status, StatusFilled)
	}

	open, _ := svc.Open(context.Background())
	if len(open) != 0 {
		t.Errorf("Open = %d orders after fill, want 0", len(open))
	}
}

func TestService_AmendNotificationMarksCancelled(t *testing.T) {
	svc := NewService(&fakeOrders{}, newMemJournal(), Config{Order: testOrderCfg}, nil)

	ev := model.ExecutionEvent{OrderNo: "0000200001", ExecType: model.ExecAmended}
	if err := svc.HandleExecution(context.Background(), ev); err != nil {
		t.Fatalf("HandleExecution failed for an unknown order: %v", err)
	}
}

func TestService_NilJournalIsOptional(t *testing.T) {
	venue := &fakeOrders{}
	svc := NewService(venue, nil, Config{Order: testOrderCfg}, nil)

	if _, err := svc.Place(context.Background(), api.OrderRequest{
		Symbol: "000660",
		Side:   api.Buy,
		Qty:    1,
		Type:   api.Market,
	}); err != nil {
		t.Fatalf("Place failed without a journal: %v", err)
	}

	open, err := svc.Open(context.Background())
	if err != nil || open != nil {
		t.Errorf("Open = %v/%v, want nil/nil", open, err)
	}
}
