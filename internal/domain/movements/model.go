// Package movements records the immutable blade movement log and drives
// the document side effects of WZ and PZ operations.
package movements

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sebastiansledz/qrsaws-sub000/internal/core/apperror"
	"github.com/sebastiansledz/qrsaws-sub000/internal/core/id"
	"github.com/sebastiansledz/qrsaws-sub000/internal/domain/catalogs/blade"
	"github.com/sebastiansledz/qrsaws-sub000/internal/domain/documents/wzpz"
)

// OpCode is the movement operation. Fixed seven-value enumeration.
type OpCode string

const (
	OpMD      OpCode = "MD"      // supplier warehouse in
	OpPZ      OpCode = "PZ"      // receive from client
	OpSR      OpCode = "SR"      // service / regeneration
	OpST1     OpCode = "ST1"     // mount on equipment
	OpST2     OpCode = "ST2"     // unmount from equipment
	OpWZ      OpCode = "WZ"      // issue to client
	OpMagazyn OpCode = "MAGAZYN" // intake to own warehouse
)

var opLabels = map[OpCode]string{
	OpMD:      "supplier intake",
	OpPZ:      "receipt from client",
	OpSR:      "sent to service",
	OpST1:     "mounted",
	OpST2:     "unmounted",
	OpWZ:      "issue to client",
	OpMagazyn: "warehouse intake",
}

// Valid reports whether the code is one of the seven operations.
func (o OpCode) Valid() bool {
	_, ok := opLabels[o]
	return ok
}

// Label returns the human-readable operation name.
func (o OpCode) Label() string {
	if l, ok := opLabels[o]; ok {
		return l
	}
	return string(o)
}

// DocType returns the document type this operation attaches blades to,
// or "" for operations without documents.
func (o OpCode) DocType() wzpz.DocType {
	switch o {
	case OpWZ:
		return wzpz.TypeWZ
	case OpPZ:
		return wzpz.TypePZ
	default:
		return ""
	}
}

// Movement is one immutable log entry. Rows are inserted and read, never
// updated or deleted.
type Movement struct {
	ID      id.ID  `db:"id" json:"id"`
	BladeID id.ID  `db:"blade_id" json:"bladeId"`
	Op      OpCode `db:"op_code" json:"op"`

	// Status the blade was set to, when the caller supplied one.
	Status blade.Status `db:"status" json:"status,omitempty"`

	// Machine for mount and unmount operations.
	Machine string `db:"machine" json:"machine,omitempty"`

	// HoursWorked for unmount operations. Null otherwise.
	HoursWorked *decimal.Decimal `db:"hours_worked" json:"hoursWorked,omitempty"`

	// DocumentID and DocumentNumber cross-reference the WZ or PZ document
	// the movement was booked on. The number is copied by value.
	DocumentID     *id.ID `db:"document_id" json:"documentId,omitempty"`
	DocumentNumber string `db:"document_number" json:"documentNumber,omitempty"`

	Note      string    `db:"note" json:"note,omitempty"`
	ActorID   string    `db:"actor_id" json:"actorId,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// DocNew selects "allocate a fresh document" in Request.DocChoice.
const DocNew = "new"

// Request is the input for recording one movement. Blade resolution from a
// QR payload happens upstream; the request carries the resolved blade ID.
type Request struct {
	BladeID id.ID  `json:"bladeId"`
	Op      OpCode `json:"op"`

	// ClientID is required for WZ and PZ when the blade has no client.
	ClientID *id.ID `json:"clientId,omitempty"`

	// DocChoice picks the target document for WZ and PZ: empty for
	// "continue the open one or create it", DocNew for "always create",
	// or an existing open document's ID.
	DocChoice string `json:"docChoice,omitempty"`

	Status      blade.Status     `json:"status,omitempty"`
	Machine     string           `json:"machine,omitempty"`
	HoursWorked *decimal.Decimal `json:"hoursWorked,omitempty"`
	Note        string           `json:"note,omitempty"`
}

// Validate checks the enumerated fields and the per-operation requirements
// that do not need a store round trip.
func (r *Request) Validate() error {
	if id.IsNil(r.BladeID) {
		return apperror.NewValidation("bladeId is required").
			WithDetail("field", "bladeId")
	}
	if !r.Op.Valid() {
		return apperror.NewValidation("unknown operation code").
			WithDetail("field", "op").
			WithDetail("value", string(r.Op))
	}
	if r.Status != "" && !r.Status.Valid() {
		return apperror.NewValidation("unknown blade status code").
			WithDetail("field", "status").
			WithDetail("value", string(r.Status))
	}
	if r.DocChoice != "" && r.Op.DocType() == "" {
		return apperror.NewValidation("document choice is only valid for WZ and PZ").
			WithDetail("field", "docChoice")
	}
	if r.DocChoice != "" && r.DocChoice != DocNew {
		if _, err := id.Parse(r.DocChoice); err != nil {
			return apperror.NewValidation("docChoice must be \"new\" or a document id").
				WithDetail("field", "docChoice").
				WithDetail("value", r.DocChoice)
		}
	}
	if r.HoursWorked != nil && r.HoursWorked.IsNegative() {
		return apperror.NewValidation("hoursWorked must not be negative").
			WithDetail("field", "hoursWorked")
	}
	return nil
}
