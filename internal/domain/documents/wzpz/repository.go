package wzpz

import (
	"context"
	"time"

	"github.com/sebastiansledz/qrsaws-sub000/internal/core/id"
	"github.com/sebastiansledz/qrsaws-sub000/internal/domain"
)

// ListFilter narrows document listings.
type ListFilter struct {
	Type     DocType
	ClientID id.ID
	Status   Status
	Year     int
	Month    time.Month

	Limit  int
	Offset int
}

// Repository is the document persistence contract.
type Repository interface {
	// Create inserts the document row. The unique index on
	// (doc_type, client_id, year, month, sequence) backs the allocator's
	// no-duplicates guarantee.
	Create(ctx context.Context, doc *Document) error

	// GetByID loads a document without items.
	GetByID(ctx context.Context, docID id.ID) (*Document, error)

	// GetForUpdate loads a document with a row lock inside the current
	// transaction. Used by AddItem to pin the open status.
	GetForUpdate(ctx context.Context, docID id.ID) (*Document, error)

	// GetWithItems loads a document and its line items.
	GetWithItems(ctx context.Context, docID id.ID) (*DocumentWithItems, error)

	// ListOpen returns open documents for (type, client), newest first.
	ListOpen(ctx context.Context, docType DocType, clientID id.ID) ([]*Document, error)

	// List returns documents matching the filter, newest first.
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Document], error)

	// AddItem appends a line. Inserting an existing (document, blade)
	// pair is a silent no-op.
	AddItem(ctx context.Context, item Item) error

	// Close flips open to closed. Returns false when the document was not
	// open, without touching the row.
	Close(ctx context.Context, docID id.ID, closedBy string, closedAt time.Time) (bool, error)

	// ExistsForClient reports whether any document references the client.
	ExistsForClient(ctx context.Context, clientID id.ID) (bool, error)
}
