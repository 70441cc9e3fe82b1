// Package wzpz implements warehouse issue (WZ) and receipt (PZ) documents.
// A document groups blade movements of one type for one client within an
// allocation period and carries a gap-free per-period sequence number.
package wzpz

import (
	"context"
	"time"

	"github.com/sebastiansledz/qrsaws-sub000/internal/core/apperror"
	"github.com/sebastiansledz/qrsaws-sub000/internal/core/entity"
	"github.com/sebastiansledz/qrsaws-sub000/internal/core/id"
	"github.com/sebastiansledz/qrsaws-sub000/internal/core/numerator"
)

// DocType distinguishes issue from receipt documents.
type DocType string

const (
	TypeWZ DocType = "WZ" // issue to client
	TypePZ DocType = "PZ" // receipt from client
)

// Valid reports whether t is a known document type.
func (t DocType) Valid() bool {
	return t == TypeWZ || t == TypePZ
}

// Status is the document lifecycle state. Closed is terminal.
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// Document is one WZ or PZ warehouse document.
type Document struct {
	entity.BaseEntity
	entity.Audited

	Type     DocType `db:"doc_type" json:"type"`
	ClientID id.ID   `db:"client_id" json:"clientId"`

	// ClientCode is copied from the client at creation. The number embeds
	// it by value, so a later client code change never rewrites history.
	ClientCode string `db:"client_code" json:"clientCode"`

	Year     int        `db:"year" json:"year"`
	Month    time.Month `db:"month" json:"month"`
	Sequence int64      `db:"sequence" json:"sequence"`

	// Number is the human-readable identifier, e.g. WZ/AB/2025/08/001.
	// Fixed at creation, never recomputed.
	Number string `db:"number" json:"number"`

	Status   Status     `db:"status" json:"status"`
	ClosedAt *time.Time `db:"closed_at" json:"closedAt,omitempty"`
	ClosedBy string     `db:"closed_by" json:"closedBy,omitempty"`
}

// Item links one blade to one document. Append-only; the (document, blade)
// pair is unique.
type Item struct {
	DocumentID id.ID     `db:"document_id" json:"documentId"`
	BladeID    id.ID     `db:"blade_id" json:"bladeId"`
	AddedAt    time.Time `db:"added_at" json:"addedAt"`
	AddedBy    string    `db:"added_by" json:"addedBy,omitempty"`
}

// DocumentWithItems is the typed read model for document detail views.
type DocumentWithItems struct {
	Document
	Items []Item `json:"items"`
}

// New assembles a document from an allocated sequence. The caller supplies
// the sequence from the allocator; New never invents one.
func New(docType DocType, clientID id.ID, clientCode string, period time.Time, seq int64) *Document {
	now := time.Now().UTC()
	d := &Document{
		BaseEntity: entity.NewBaseEntity(),
		Audited:    entity.Audited{CreatedAt: now, UpdatedAt: now},
		Type:       docType,
		ClientID:   clientID,
		ClientCode: clientCode,
		Year:       period.Year(),
		Month:      period.Month(),
		Sequence:   seq,
		Status:     StatusOpen,
	}
	d.Number = numerator.FormatNumber(string(docType), clientCode, d.Year, d.Month, seq)
	return d
}

// Validate implements entity.Validatable.
func (d *Document) Validate(ctx context.Context) error {
	if !d.Type.Valid() {
		return apperror.NewValidation("document type must be WZ or PZ").
			WithDetail("field", "type").
			WithDetail("value", string(d.Type))
	}
	if id.IsNil(d.ClientID) {
		return apperror.NewValidation("client is required").
			WithDetail("field", "clientId")
	}
	if d.Sequence < 1 {
		return apperror.NewValidation("sequence must be positive").
			WithDetail("field", "sequence")
	}
	if d.Month < time.January || d.Month > time.December {
		return apperror.NewValidation("month out of range").
			WithDetail("field", "month")
	}
	if d.Number == "" {
		return apperror.NewValidation("number is required").
			WithDetail("field", "number")
	}
	return nil
}

// Open reports whether items may still be appended.
func (d *Document) Open() bool {
	return d.Status == StatusOpen
}
