package numerator

import (
	"context"
	"sync"
)

// Mock is an in-memory Allocator for tests. It is safe for concurrent use
// and mirrors the store contract: per-key counters starting at 1.
type Mock struct {
	mu       sync.Mutex
	counters map[Key]int64
	codes    map[string]int64

	// Err, when set, is returned by every call (simulates store failure).
	Err error
}

// NewMock creates an empty mock allocator.
func NewMock() *Mock {
	return &Mock{
		counters: make(map[Key]int64),
		codes:    make(map[string]int64),
	}
}

// NextSequence implements Allocator.
func (m *Mock) NextSequence(ctx context.Context, key Key) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[key]++
	return m.counters[key], nil
}

// NextCode implements Allocator.
func (m *Mock) NextCode(ctx context.Context, prefix string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[prefix]++
	return FormatCode(prefix, m.codes[prefix]), nil
}

// Current returns the current counter value for a key (test helper).
func (m *Mock) Current(key Key) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[key]
}

var _ Allocator = (*Mock)(nil)
