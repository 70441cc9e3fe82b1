// Package numerator provides the PostgreSQL implementation of sequence
// allocation. It implements core/numerator.Allocator.
package numerator

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	corenumerator "github.com/sebastiansledz/qrsaws-sub000/internal/core/numerator"
)

// Querier is the database operation the allocator needs.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Service allocates document sequences and catalog codes.
//
// Document counters live in doc_counters keyed by the full
// (doc_type, client_id, year, month) tuple. Allocation is a single UPSERT
// with RETURNING, so two concurrent calls for the same key serialize on the
// row and never observe the same value. This runs outside business
// transactions on purpose: a later rollback must not return the number to
// the pool.
type Service struct {
	querier Querier
}

var _ corenumerator.Allocator = (*Service)(nil)

// New creates the allocator on a pool or transaction.
func New(querier Querier) *Service {
	return &Service{querier: querier}
}

// NextSequence returns the next value for the counter key, starting at 1.
func (s *Service) NextSequence(ctx context.Context, key corenumerator.Key) (int64, error) {
	if s == nil || s.querier == nil {
		return 0, fmt.Errorf("numerator service is not initialized")
	}

	var num int64
	err := s.querier.QueryRow(ctx, `
        INSERT INTO doc_counters (doc_type, client_id, year, month, current_val)
        VALUES ($1, $2, $3, $4, 1)
        ON CONFLICT (doc_type, client_id, year, month)
        DO UPDATE SET current_val = doc_counters.current_val + 1
        RETURNING current_val
	`, key.DocType, key.ClientID, key.Year, int(key.Month)).Scan(&num)
	if err != nil {
		return 0, fmt.Errorf("next sequence for %s: %w", key, err)
	}
	return num, nil
}

// NextCode returns the next formatted catalog code for a prefix. Uses the
// generic sys_sequences key table; catalog codes tolerate gaps.
func (s *Service) NextCode(ctx context.Context, prefix string) (string, error) {
	if s == nil || s.querier == nil {
		return "", fmt.Errorf("numerator service is not initialized")
	}

	var num int64
	err := s.querier.QueryRow(ctx, `
        INSERT INTO sys_sequences (key, current_val)
        VALUES ($1, 1)
        ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + 1
        RETURNING current_val
	`, prefix).Scan(&num)
	if err != nil {
		return "", fmt.Errorf("next code for %s: %w", prefix, err)
	}
	return corenumerator.FormatCode(prefix, num), nil
}
