package movements

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sebastiansledz/qrsaws-sub000/internal/core/appctx"
	"github.com/sebastiansledz/qrsaws-sub000/internal/core/apperror"
	"github.com/sebastiansledz/qrsaws-sub000/internal/core/id"
	"github.com/sebastiansledz/qrsaws-sub000/internal/core/tx"
	"github.com/sebastiansledz/qrsaws-sub000/internal/domain"
	"github.com/sebastiansledz/qrsaws-sub000/internal/domain/catalogs/blade"
	"github.com/sebastiansledz/qrsaws-sub000/internal/domain/documents/wzpz"
	"github.com/sebastiansledz/qrsaws-sub000/pkg/logger"
)

// defaultUnmountHours is assumed when a blade is unmounted and no mount
// movement exists to measure against.
var defaultUnmountHours = decimal.NewFromInt(16)

// BladeStore is the slice of the blade service the recorder uses.
type BladeStore interface {
	GetByID(ctx context.Context, bladeID id.ID) (*blade.Blade, error)
	Update(ctx context.Context, b *blade.Blade) error
}

// DocumentService is the slice of the document service the recorder uses.
type DocumentService interface {
	CreateOpen(ctx context.Context, docType wzpz.DocType, clientID id.ID) (*wzpz.Document, error)
	EnsureOpen(ctx context.Context, docType wzpz.DocType, clientID id.ID) (*wzpz.Document, error)
	AddItem(ctx context.Context, docID, bladeID id.ID) error
	GetByID(ctx context.Context, docID id.ID) (*wzpz.DocumentWithItems, error)
}

// Recorder persists movement records and their document and blade side
// effects.
type Recorder struct {
	repo      Repository
	blades    BladeStore
	docs      DocumentService
	txManager tx.Manager
	auditor   domain.Auditor
	now       func() time.Time
}

// NewRecorder creates the movement recorder. The auditor may be nil.
func NewRecorder(repo Repository, blades BladeStore, docs DocumentService, txManager tx.Manager, auditor domain.Auditor) *Recorder {
	return &Recorder{
		repo:      repo,
		blades:    blades,
		docs:      docs,
		txManager: txManager,
		auditor:   auditor,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Record writes one movement. For WZ and PZ it also attaches the blade to
// the target document; for any operation it applies the supplied status to
// the blade.
//
// Document resolution runs before the write transaction because creating a
// document allocates a sequence number that must not be rolled back into
// reuse. Everything else, the item line, the movement row and the blade
// status, commits atomically.
func (r *Recorder) Record(ctx context.Context, req Request) (*Movement, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	b, err := r.blades.GetByID(ctx, req.BladeID)
	if err != nil {
		return nil, err
	}

	now := r.now()
	m := &Movement{
		ID:        id.New(),
		BladeID:   b.ID,
		Op:        req.Op,
		Status:    req.Status,
		Machine:   req.Machine,
		Note:      req.Note,
		ActorID:   appctx.ActorID(ctx),
		CreatedAt: now,
	}

	if req.Op == OpST2 {
		hours, err := r.resolveUnmountHours(ctx, b.ID, req.HoursWorked, now)
		if err != nil {
			return nil, err
		}
		m.HoursWorked = &hours
	}

	var doc *wzpz.Document
	if docType := req.Op.DocType(); docType != "" {
		doc, err = r.resolveDocument(ctx, docType, b, req)
		if err != nil {
			return nil, err
		}
		m.DocumentID = &doc.ID
		m.DocumentNumber = doc.Number
	}

	err = r.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if doc != nil {
			if err := r.docs.AddItem(ctx, doc.ID, b.ID); err != nil {
				return err
			}
		}
		if err := r.repo.Create(ctx, m); err != nil {
			return fmt.Errorf("insert movement: %w", err)
		}
		if r.auditor != nil {
			if err := r.auditor.LogChange(ctx, "blade", m.BladeID, domain.AuditMovement, m); err != nil {
				logger.Warn(ctx, "audit write failed", "op", m.Op, "error", err)
			}
		}
		if req.Status != "" {
			if err := b.SetStatus(req.Status); err != nil {
				return err
			}
			if err := r.blades.Update(ctx, b); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "movement recorded",
		"op", m.Op,
		"blade_id", m.BladeID,
		"document", m.DocumentNumber,
	)
	return m, nil
}

// resolveUnmountHours returns the supplied hours, or the elapsed time since
// the blade's most recent mount movement on any machine, or the fixed
// default when the blade was never mounted.
func (r *Recorder) resolveUnmountHours(ctx context.Context, bladeID id.ID, supplied *decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	if supplied != nil {
		return *supplied, nil
	}

	last, err := r.repo.LastByOp(ctx, bladeID, OpST1)
	if err != nil {
		return decimal.Zero, apperror.NewStore(err)
	}
	if last == nil {
		return defaultUnmountHours, nil
	}

	elapsed := now.Sub(last.CreatedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	return decimal.NewFromFloat(elapsed.Hours()).Round(2), nil
}

// resolveDocument picks the WZ or PZ document per the request's choice.
func (r *Recorder) resolveDocument(ctx context.Context, docType wzpz.DocType, b *blade.Blade, req Request) (*wzpz.Document, error) {
	clientID, err := resolveClient(b, req)
	if err != nil {
		return nil, err
	}

	switch {
	case req.DocChoice == DocNew:
		return r.docs.CreateOpen(ctx, docType, clientID)
	case req.DocChoice != "":
		docID, err := id.Parse(req.DocChoice)
		if err != nil {
			return nil, apperror.NewValidation("docChoice must be \"new\" or a document id").
				WithDetail("value", req.DocChoice)
		}
		found, err := r.docs.GetByID(ctx, docID)
		if err != nil {
			return nil, err
		}
		return &found.Document, nil
	default:
		return r.docs.EnsureOpen(ctx, docType, clientID)
	}
}

// resolveClient picks the document's client: the explicit request value
// wins, the blade's owner is the fallback.
func resolveClient(b *blade.Blade, req Request) (id.ID, error) {
	if req.ClientID != nil && !id.IsNil(*req.ClientID) {
		return *req.ClientID, nil
	}
	if b.Assigned() {
		return *b.ClientID, nil
	}
	return id.Nil(), apperror.NewValidation("client is required for WZ and PZ movements").
		WithDetail("field", "clientId").
		WithDetail("blade", b.Code)
}

// GetByID loads one movement.
func (r *Recorder) GetByID(ctx context.Context, movementID id.ID) (*Movement, error) {
	m, err := r.repo.GetByID(ctx, movementID)
	if err != nil {
		if apperror.IsAppError(err) {
			return nil, err
		}
		return nil, apperror.NewStore(err)
	}
	return m, nil
}

// List returns movements matching the filter, newest first.
func (r *Recorder) List(ctx context.Context, filter ListFilter) ([]*Movement, int64, error) {
	if filter.Op != "" && !filter.Op.Valid() {
		return nil, 0, apperror.NewValidation("unknown operation code").
			WithDetail("value", string(filter.Op))
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	res, err := r.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, apperror.NewStore(err)
	}
	return res.Items, res.TotalCount, nil
}

// ListByBlade returns the blade's movement history, newest first.
func (r *Recorder) ListByBlade(ctx context.Context, bladeID id.ID, limit, offset int) ([]*Movement, int64, error) {
	if limit <= 0 {
		limit = 50
	}
	res, err := r.repo.ListByBlade(ctx, bladeID, limit, offset)
	if err != nil {
		return nil, 0, apperror.NewStore(err)
	}
	return res.Items, res.TotalCount, nil
}
