package numerator

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sebastiansledz/qrsaws-sub000/internal/core/id"
	corenumerator "github.com/sebastiansledz/qrsaws-sub000/internal/core/numerator"
)

// mockRow delivers one scanned int64.
type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

// mockQuerier simulates the counter UPSERT: one atomic increment per
// distinct argument tuple.
type mockQuerier struct {
	mu       sync.Mutex
	counters map[string]int64
	err      error
}

func newMockQuerier() *mockQuerier {
	return &mockQuerier{counters: make(map[string]int64)}
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if m.err != nil {
		return &mockRow{err: m.err}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	key := fmt.Sprint(args...)
	m.counters[key]++
	return &mockRow{val: m.counters[key]}
}

func TestNextSequence_StartsAtOne(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := context.Background()

	key := corenumerator.KeyFor("WZ", id.New(), time.Date(2025, time.August, 10, 0, 0, 0, 0, time.UTC))

	for want := int64(1); want <= 3; want++ {
		got, err := svc.NextSequence(ctx, key)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != want {
			t.Errorf("expected %d, got %d", want, got)
		}
	}
}

func TestNextSequence_KeysAreIndependent(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := context.Background()

	clientA := id.New()
	clientB := id.New()
	period := time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)

	keys := []corenumerator.Key{
		corenumerator.KeyFor("WZ", clientA, period),
		corenumerator.KeyFor("PZ", clientA, period),
		corenumerator.KeyFor("WZ", clientB, period),
		corenumerator.KeyFor("WZ", clientA, period.AddDate(0, 1, 0)),
	}

	// Advance the first key; the others must still start at 1.
	for i := 0; i < 5; i++ {
		if _, err := svc.NextSequence(ctx, keys[0]); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	for _, key := range keys[1:] {
		got, err := svc.NextSequence(ctx, key)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != 1 {
			t.Errorf("key %s: expected 1, got %d", key, got)
		}
	}
}

func TestNextSequence_ConcurrentCallersGetDistinctValues(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := context.Background()

	key := corenumerator.KeyFor("WZ", id.New(), time.Now())

	const callers = 50
	results := make(chan int64, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			num, err := svc.NextSequence(ctx, key)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			results <- num
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int64]bool, callers)
	for num := range results {
		if seen[num] {
			t.Fatalf("sequence %d issued twice", num)
		}
		seen[num] = true
	}
	if len(seen) != callers {
		t.Fatalf("expected %d distinct sequences, got %d", callers, len(seen))
	}
	for want := int64(1); want <= callers; want++ {
		if !seen[want] {
			t.Errorf("sequence %d missing: gaps must not appear under normal operation", want)
		}
	}
}

func TestNextSequence_StoreFailure(t *testing.T) {
	q := newMockQuerier()
	q.err = fmt.Errorf("connection refused")
	svc := New(q)

	_, err := svc.NextSequence(context.Background(), corenumerator.KeyFor("WZ", id.New(), time.Now()))
	if err == nil {
		t.Fatal("expected error when the store fails")
	}
}

func TestNextCode(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := context.Background()

	code, err := svc.NextCode(ctx, "BL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "BL-00001" {
		t.Errorf("expected BL-00001, got %s", code)
	}

	code, err = svc.NextCode(ctx, "BL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "BL-00002" {
		t.Errorf("expected BL-00002, got %s", code)
	}
}
