package quote

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Hybrid05-team03/auto-stock-trading-system-backend/internal/api"
	"github.com/Hybrid05-team03/auto-stock-trading-system-backend/internal/cache"
	"github.com/Hybrid05-team03/auto-stock-trading-system-backend/internal/model"
)

type hoursStub bool

func (h hoursStub) IsOpen(time.Time) bool { return bool(h) }

type snapshotterStub struct {
	calls atomic.Int64
	snap  api.PriceSnapshot
	err   error
}

func (s *snapshotterStub) InquirePrice(ctx context.Context, symbol string) (api.PriceSnapshot, error) {
	s.calls.Add(1)
	return s.snap, s.err
}

func newService(store cache.Store, rest Snapshotter, open bool) *Service {
	return NewService(store, rest, hoursStub(open), Config{
		PollInterval:   10 * time.Millisecond,
		DefaultTimeout: time.Second,
	}, nil)
}

func TestFetch_CacheHitReturnsImmediately(t *testing.T) {
	store := cache.NewMemory()
	rest := &snapshotterStub{}
	svc := newService(store, rest, true)
	ctx := context.Background()

	cached := []byte(`{"symbol":"005930","current_price":71200}`)
	store.Set(ctx, "price:005930", cached, time.Minute)

	data, err := svc.Fetch(ctx, model.KindPrice, "005930", time.Second)
	if err != nil {
		t.Fatalf("Fetch failed on cache hit: %v", err)
	}
	if string(data) != string(cached) {
		t.Errorf("Fetch = %s, want cached value", data)
	}
	if n := store.Published(cache.RequestChannel); n != 0 {
		t.Errorf("cache hit published %d subscription requests, want 0", n)
	}
}

func TestFetch_MissSubscribesAndPolls(t *testing.T) {
	store := cache.NewMemory()
	svc := newService(store, &snapshotterStub{}, true)
	ctx := context.Background()

	// Simulate the first frame landing after the subscription goes out.
	go func() {
		time.Sleep(40 * time.Millisecond)
		store.Set(ctx, "quote:005930", []byte(`{"symbol":"005930"}`), time.Minute)
	}()

	data, err := svc.Fetch(ctx, model.KindQuote, "005930", time.Second)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Fetch returned empty data")
	}
	if n := store.Published(cache.RequestChannel); n != 1 {
		t.Errorf("published %d subscription requests, want 1", n)
	}
}

func TestFetch_TimeoutYieldsErrNoData(t *testing.T) {
	store := cache.NewMemory()
	svc := newService(store, &snapshotterStub{}, true)

	start := time.Now()
	_, err := svc.Fetch(context.Background(), model.KindPrice, "005930", 100*time.Millisecond)
	elapsed := time.Since(start)

	if !errors.Is(err, ErrNoData) {
		t.Fatalf("error = %v, want ErrNoData", err)
	}
	if elapsed < 100*time.Millisecond {
		t.Errorf("returned after %s, before the timeout", elapsed)
	}
	// Generous upper bound: timeout plus a handful of poll intervals.
	if elapsed > 500*time.Millisecond {
		t.Errorf("returned after %s, long past the timeout", elapsed)
	}
}

func TestFetch_ClosedMarketServesSnapshot(t *testing.T) {
	store := cache.NewMemory()
	rest := &snapshotterStub{snap: api.PriceSnapshot{
		Symbol: "005930",
		Price:  71200,
	}}
	svc := newService(store, rest, false)
	ctx := context.Background()

	data, err := svc.Fetch(ctx, model.KindPrice, "005930", time.Second)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	var snap api.PriceSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("returned data is not a snapshot: %v", err)
	}
	if snap.Price != 71200 {
		t.Errorf("Price = %v, want 71200", snap.Price)
	}

	if n := store.Published(cache.RequestChannel); n != 0 {
		t.Errorf("closed market published %d subscription requests, want 0", n)
	}

	// The snapshot is cached for the next miss.
	if _, ok, _ := store.Get(ctx, "price:005930"); !ok {
		t.Error("snapshot was not written to the cache")
	}
}

func TestFetch_ClosedMarketNonPriceHasNoFallback(t *testing.T) {
	store := cache.NewMemory()
	rest := &snapshotterStub{}
	svc := newService(store, rest, false)

	_, err := svc.Fetch(context.Background(), model.KindExec, "custid", time.Second)
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("error = %v, want ErrNoData", err)
	}
	if rest.calls.Load() != 0 {
		t.Error("non-price kind hit the snapshot endpoint")
	}
}

func TestFetch_SnapshotErrorIsNotNoData(t *testing.T) {
	store := cache.NewMemory()
	rest := &snapshotterStub{err: errors.New("upstream 500")}
	svc := newService(store, rest, false)

	_, err := svc.Fetch(context.Background(), model.KindPrice, "005930", time.Second)
	if err == nil {
		t.Fatal("Fetch succeeded despite snapshot failure")
	}
	if errors.Is(err, ErrNoData) {
		t.Error("snapshot failure reported as ErrNoData; callers cannot tell them apart")
	}
}

func TestFetch_RejectsUnknownKind(t *testing.T) {
	svc := newService(cache.NewMemory(), &snapshotterStub{}, true)

	if _, err := svc.Fetch(context.Background(), model.Kind("bogus"), "005930", time.Second); err == nil {
		t.Fatal("Fetch accepted an unknown kind")
	}
}
