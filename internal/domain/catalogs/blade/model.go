// Package blade manages the saw blade catalog. Blades are the physical
// tool units tracked through movements and warehouse documents.
package blade

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sebastiansledz/qrsaws-sub000/internal/core/apperror"
	"github.com/sebastiansledz/qrsaws-sub000/internal/core/entity"
	"github.com/sebastiansledz/qrsaws-sub000/internal/core/id"
)

// Status is the physical condition of a blade. Fixed fifteen-value
// enumeration; movements may overwrite it unconditionally.
type Status string

const (
	StatusOK           Status = "c0"  // no issues
	StatusDull         Status = "c1"  // dull, needs sharpening
	StatusSharpened    Status = "c2"  // freshly sharpened
	StatusToothLoss    Status = "c3"  // missing teeth
	StatusCracked      Status = "c4"  // body crack
	StatusWeldDefect   Status = "c5"  // weld seam defect
	StatusBentBody     Status = "c6"  // bent or twisted body
	StatusCorroded     Status = "c7"  // corrosion
	StatusWornGuides   Status = "c8"  // guide wear marks
	StatusOverheated   Status = "c9"  // overheating discoloration
	StatusPitchBuildup Status = "c10" // resin buildup
	StatusTensionLoss  Status = "c11" // lost tension
	StatusRepaired     Status = "c12" // after repair
	StatusNeedsRegen   Status = "c13" // needs regeneration
	StatusScrapped     Status = "c14" // withdrawn from service
)

var statusLabels = map[Status]string{
	StatusOK:           "no issues",
	StatusDull:         "dull",
	StatusSharpened:    "sharpened",
	StatusToothLoss:    "missing teeth",
	StatusCracked:      "cracked",
	StatusWeldDefect:   "weld defect",
	StatusBentBody:     "bent body",
	StatusCorroded:     "corroded",
	StatusWornGuides:   "guide wear",
	StatusOverheated:   "overheated",
	StatusPitchBuildup: "pitch buildup",
	StatusTensionLoss:  "tension loss",
	StatusRepaired:     "repaired",
	StatusNeedsRegen:   "needs regeneration",
	StatusScrapped:     "scrapped",
}

// Valid reports whether s is one of the fifteen known codes.
func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the human-readable condition name, or the raw code when
// unknown.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Blade represents one physical saw blade.
type Blade struct {
	entity.Catalog

	// ClientID is the owning client. Nullable: a blade may be unassigned.
	ClientID *id.ID `db:"client_id" json:"clientId,omitempty"`

	// Physical specification, millimeters.
	Width     decimal.Decimal `db:"width_mm" json:"widthMm"`
	Thickness decimal.Decimal `db:"thickness_mm" json:"thicknessMm"`
	Length    decimal.Decimal `db:"length_mm" json:"lengthMm"`

	// Optional descriptors.
	Pitch       string `db:"pitch" json:"pitch,omitempty"`
	ToothType   string `db:"tooth_type" json:"toothType,omitempty"`
	System      string `db:"system" json:"system,omitempty"`
	MachineType string `db:"machine_type" json:"machineType,omitempty"`

	Status Status `db:"status" json:"status"`

	Notes string `db:"notes" json:"notes,omitempty"`
}

// New creates a blade with a generated ID. The code may be empty and is
// then assigned by the service on create.
func New(code, name string) *Blade {
	b := &Blade{
		Catalog: entity.NewCatalog(strings.TrimSpace(code), name),
		Status:  StatusOK,
	}
	return b
}

// Validate implements entity.Validatable.
func (b *Blade) Validate(ctx context.Context) error {
	if err := b.Catalog.Validate(ctx); err != nil {
		return err
	}

	if b.Status == "" {
		b.Status = StatusOK
	}
	if !b.Status.Valid() {
		return apperror.NewValidation("unknown blade status code").
			WithDetail("field", "status").
			WithDetail("value", string(b.Status))
	}

	for field, v := range map[string]decimal.Decimal{
		"widthMm":     b.Width,
		"thicknessMm": b.Thickness,
		"lengthMm":    b.Length,
	} {
		if v.IsNegative() {
			return apperror.NewValidation("dimension must not be negative").
				WithDetail("field", field).
				WithDetail("value", v.String())
		}
	}

	return nil
}

// SetStatus overwrites the status. Any valid code is accepted; there is no
// transition matrix between conditions.
func (b *Blade) SetStatus(s Status) error {
	if !s.Valid() {
		return apperror.NewValidation("unknown blade status code").
			WithDetail("value", string(s))
	}
	b.Status = s
	return nil
}

// Assigned reports whether the blade belongs to a client.
func (b *Blade) Assigned() bool {
	return b.ClientID != nil && !id.IsNil(*b.ClientID)
}
