package cache

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process Store used by tests and local development. It
// mirrors the Redis semantics: last write wins, TTL expiry on read,
// fan-out pub/sub with non-blocking delivery.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	subs    map[string][]chan []byte
	pubs    map[string]int

	// now is swappable so TTL tests need not sleep.
	now func() time.Time
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		subs:    make(map[string][]chan []byte),
		pubs:    make(map[string]int),
		now:     time.Now,
	}
}

// SetClock replaces the store's time source.
func (m *Memory) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !entry.expiresAt.IsZero() && m.now().After(entry.expiresAt) {
		delete(m.entries, key)
		return nil, false, nil
	}
	return entry.value, true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}
	m.entries[key] = entry
	return nil
}

func (m *Memory) Publish(_ context.Context, channel string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pubs[channel]++
	for _, ch := range m.subs[channel] {
		select {
		case ch <- append([]byte(nil), payload...):
		default:
		}
	}
	return nil
}

func (m *Memory) Subscribe(_ context.Context, channel string) (<-chan []byte, func(), error) {
	ch := make(chan []byte, 64)

	m.mu.Lock()
	m.subs[channel] = append(m.subs[channel], ch)
	m.mu.Unlock()

	stop := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		subs := m.subs[channel]
		for i, sub := range subs {
			if sub == ch {
				m.subs[channel] = append(subs[:i], subs[i+1:]...)
				close(ch)
				return
			}
		}
	}
	return ch, stop, nil
}

// Published reports how many payloads were published to channel.
func (m *Memory) Published(channel string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pubs[channel]
}
