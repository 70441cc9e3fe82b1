package wzpz

import (
	"context"
	"fmt"
	"time"

	"github.com/sebastiansledz/qrsaws-sub000/internal/core/appctx"
	"github.com/sebastiansledz/qrsaws-sub000/internal/core/apperror"
	"github.com/sebastiansledz/qrsaws-sub000/internal/core/id"
	"github.com/sebastiansledz/qrsaws-sub000/internal/core/numerator"
	"github.com/sebastiansledz/qrsaws-sub000/internal/core/tx"
	"github.com/sebastiansledz/qrsaws-sub000/internal/domain"
	"github.com/sebastiansledz/qrsaws-sub000/internal/domain/catalogs/client"
	"github.com/sebastiansledz/qrsaws-sub000/pkg/logger"
)

// ClientResolver provides the client lookups the document service needs.
// The client service satisfies it.
type ClientResolver interface {
	GetByID(ctx context.Context, clientID id.ID) (*client.Client, error)
}

// Service implements the document lifecycle.
type Service struct {
	repo      Repository
	clients   ClientResolver
	allocator numerator.Allocator
	txManager tx.Manager
	auditor   domain.Auditor
	now       func() time.Time
}

// NewService creates the document service. The auditor may be nil.
func NewService(repo Repository, clients ClientResolver, alloc numerator.Allocator, txManager tx.Manager, auditor domain.Auditor) *Service {
	return &Service{
		repo:      repo,
		clients:   clients,
		allocator: alloc,
		txManager: txManager,
		auditor:   auditor,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// audit writes a trail entry, best effort.
func (s *Service) audit(ctx context.Context, doc *Document, action string) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.LogChange(ctx, "document", doc.ID, action, doc); err != nil {
		logger.Warn(ctx, "audit write failed",
			"entity", "document",
			"action", action,
			"error", err,
		)
	}
}

// CreateOpen allocates the next sequence for the current period and inserts
// a new open document.
//
// The sequence commits independently of the document insert. When the insert
// fails afterwards the number is burned and the period keeps a gap. That is
// accepted: a gap is harmless, a duplicate number is not.
func (s *Service) CreateOpen(ctx context.Context, docType DocType, clientID id.ID) (*Document, error) {
	if !docType.Valid() {
		return nil, apperror.NewValidation("document type must be WZ or PZ").
			WithDetail("value", string(docType))
	}

	cl, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	period := s.now()
	seq, err := s.allocator.NextSequence(ctx, numerator.KeyFor(string(docType), clientID, period))
	if err != nil {
		return nil, apperror.NewStore(err).WithDetail("op", "sequence allocation")
	}

	doc := New(docType, clientID, cl.Code, period, seq)
	doc.CreatedBy = appctx.ActorID(ctx)
	doc.UpdatedBy = doc.CreatedBy
	if err := doc.Validate(ctx); err != nil {
		return nil, err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create document %s: %w", doc.Number, err)
		}
		s.audit(ctx, doc, domain.AuditCreate)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "document created",
		"number", doc.Number,
		"type", doc.Type,
		"client_id", doc.ClientID,
	)
	return doc, nil
}

// EnsureOpen returns the most recently created open document for
// (type, client), creating one when none exists. Safe to call repeatedly:
// it never opens a second document while one is already open.
func (s *Service) EnsureOpen(ctx context.Context, docType DocType, clientID id.ID) (*Document, error) {
	if !docType.Valid() {
		return nil, apperror.NewValidation("document type must be WZ or PZ").
			WithDetail("value", string(docType))
	}

	open, err := s.repo.ListOpen(ctx, docType, clientID)
	if err != nil {
		return nil, apperror.NewStore(err)
	}
	if len(open) > 0 {
		return open[0], nil
	}
	return s.CreateOpen(ctx, docType, clientID)
}

// AddItem appends a blade line to an open document. Adding a blade that is
// already on the document succeeds without a second line.
func (s *Service) AddItem(ctx context.Context, docID, bladeID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.repo.GetForUpdate(ctx, docID)
		if err != nil {
			return err
		}
		if !doc.Open() {
			return apperror.NewInvalidState("document is closed").
				WithDetail("number", doc.Number)
		}
		return s.repo.AddItem(ctx, Item{
			DocumentID: docID,
			BladeID:    bladeID,
			AddedAt:    s.now(),
			AddedBy:    appctx.ActorID(ctx),
		})
	})
}

// Close transitions the document to closed, exactly once. A second close
// reports InvalidState so the caller can tell their close from an earlier
// one.
func (s *Service) Close(ctx context.Context, docID id.ID) (*Document, error) {
	var doc *Document
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		closed, err := s.repo.Close(ctx, docID, appctx.ActorID(ctx), s.now())
		if err != nil {
			return err
		}
		if !closed {
			existing, err := s.repo.GetByID(ctx, docID)
			if err != nil {
				return err
			}
			return apperror.NewInvalidState("document already closed").
				WithDetail("number", existing.Number)
		}
		doc, err = s.repo.GetByID(ctx, docID)
		if err != nil {
			return err
		}
		s.audit(ctx, doc, domain.AuditClose)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "document closed", "number", doc.Number)
	return doc, nil
}

// ListOpen returns open documents for the pair, newest first.
func (s *Service) ListOpen(ctx context.Context, docType DocType, clientID id.ID) ([]*Document, error) {
	if !docType.Valid() {
		return nil, apperror.NewValidation("document type must be WZ or PZ").
			WithDetail("value", string(docType))
	}
	docs, err := s.repo.ListOpen(ctx, docType, clientID)
	if err != nil {
		return nil, apperror.NewStore(err)
	}
	return docs, nil
}

// GetByID loads a document with its items.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*DocumentWithItems, error) {
	return s.repo.GetWithItems(ctx, docID)
}

// List returns documents matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Document], error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.repo.List(ctx, filter)
}
