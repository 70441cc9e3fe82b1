// Package numerator defines document sequence allocation.
// The PostgreSQL implementation lives in infrastructure/numerator.
package numerator

import (
	"context"
	"fmt"
	"time"

	"github.com/sebastiansledz/qrsaws-sub000/internal/core/id"
)

// Key identifies one document counter. Sequences are independent per key:
// allocating for one key never affects another.
type Key struct {
	DocType  string
	ClientID id.ID
	Year     int
	Month    time.Month
}

// KeyFor builds the counter key for a document created at the given period.
func KeyFor(docType string, clientID id.ID, period time.Time) Key {
	return Key{
		DocType:  docType,
		ClientID: clientID,
		Year:     period.Year(),
		Month:    period.Month(),
	}
}

// String renders the key for cache maps and log lines.
func (k Key) String() string {
	return fmt.Sprintf("%s:%s:%04d-%02d", k.DocType, k.ClientID, k.Year, int(k.Month))
}

// Allocator produces sequence numbers for documents and codes for catalogs.
//
// NextSequence is the one place in the system with a genuine concurrency
// hazard: two concurrent calls for the same key must never observe the same
// current value. Implementations must perform the read-increment-write as a
// single atomic statement or transaction. On failure the allocation fails
// entirely; callers never construct a document from a guessed number.
type Allocator interface {
	// NextSequence returns the next positive integer for the key,
	// starting at 1 for a previously unseen key.
	NextSequence(ctx context.Context, key Key) (int64, error)

	// NextCode returns the next formatted catalog code for a prefix,
	// e.g. "BL-00001". Gaps here are harmless.
	NextCode(ctx context.Context, prefix string) (string, error)
}

// FormatNumber builds the human-readable document identifier:
// {type}/{clientCode}/{year}/{MM}/{seq padded to 3}, e.g. WZ/AB/2025/08/001.
// The identifier is fixed at document creation; it embeds the client code by
// value and is never recomputed. Sequences >= 1000 simply grow past the
// padding.
func FormatNumber(docType, clientCode string, year int, month time.Month, seq int64) string {
	return fmt.Sprintf("%s/%s/%d/%02d/%03d", docType, clientCode, year, int(month), seq)
}

// FormatCode builds a catalog code, e.g. "BL-00001".
func FormatCode(prefix string, num int64) string {
	return fmt.Sprintf("%s-%05d", prefix, num)
}
