package domain

import (
	"context"
	"fmt"

	"github.com/sebastiansledz/qrsaws-sub000/internal/core/apperror"
	"github.com/sebastiansledz/qrsaws-sub000/internal/core/entity"
	"github.com/sebastiansledz/qrsaws-sub000/internal/core/id"
	"github.com/sebastiansledz/qrsaws-sub000/internal/core/numerator"
	"github.com/sebastiansledz/qrsaws-sub000/internal/core/tx"
	"github.com/sebastiansledz/qrsaws-sub000/pkg/logger"
)

// CatalogService provides common business logic for catalog entities.
// Entity-specific services embed it and add their own checks around the
// Prepare callbacks.
type CatalogService[T entity.Validatable] struct {
	repo      CatalogRepository[T]
	txManager tx.Manager
	allocator numerator.Allocator
	auditor   Auditor
	hooks     Hooks[T]

	// entityName for error messages and audit entries
	entityName string
}

// Hooks are optional callbacks invoked inside Create/Update before the
// transaction starts. Used for code generation and uniqueness checks.
type Hooks[T any] struct {
	BeforeCreate func(ctx context.Context, entity T) error
	BeforeUpdate func(ctx context.Context, entity T) error
}

// CatalogServiceConfig configures the catalog service.
type CatalogServiceConfig[T entity.Validatable] struct {
	Repo       CatalogRepository[T]
	TxManager  tx.Manager
	Allocator  numerator.Allocator
	Auditor    Auditor
	EntityName string
	Hooks      Hooks[T]
}

// NewCatalogService creates a new catalog service.
func NewCatalogService[T entity.Validatable](cfg CatalogServiceConfig[T]) *CatalogService[T] {
	return &CatalogService[T]{
		repo:       cfg.Repo,
		txManager:  cfg.TxManager,
		allocator:  cfg.Allocator,
		auditor:    cfg.Auditor,
		hooks:      cfg.Hooks,
		entityName: cfg.EntityName,
	}
}

// Allocator exposes the code allocator for embedding services.
func (s *CatalogService[T]) Allocator() numerator.Allocator {
	return s.allocator
}

func (s *CatalogService[T]) normalizeValidationErr(err error) error {
	if err == nil {
		return nil
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewValidation(err.Error())
}

func (s *CatalogService[T]) normalizeGetErr(err error, idOrCode any) error {
	if err == nil {
		return nil
	}
	// Preserve existing AppError, but map not-found to the correct entity name.
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound(s.entityName, idOrCode)
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewStore(err).WithDetail("entity", s.entityName).WithDetail("id", idOrCode)
}

// Create creates a new catalog entity.
func (s *CatalogService[T]) Create(ctx context.Context, entity T) error {
	if err := entity.Validate(ctx); err != nil {
		return s.normalizeValidationErr(err)
	}

	if s.hooks.BeforeCreate != nil {
		if err := s.hooks.BeforeCreate(ctx, entity); err != nil {
			return err
		}
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, entity); err != nil {
			return fmt.Errorf("create %s: %w", s.entityName, err)
		}
		s.audit(ctx, entity, AuditCreate, entity)
		return nil
	})
}

// audit writes a trail entry for the mutation. Failures are logged, never
// propagated: the trail must not veto a committed business change.
func (s *CatalogService[T]) audit(ctx context.Context, e T, action string, changes any) {
	if s.auditor == nil {
		return
	}
	identified, ok := any(e).(interface{ GetID() id.ID })
	if !ok {
		return
	}
	if err := s.auditor.LogChange(ctx, s.entityName, identified.GetID(), action, changes); err != nil {
		logger.Warn(ctx, "audit write failed",
			"entity", s.entityName,
			"action", action,
			"error", err,
		)
	}
}

// GetByID retrieves entity by ID.
func (s *CatalogService[T]) GetByID(ctx context.Context, entityID id.ID) (T, error) {
	entity, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return entity, s.normalizeGetErr(err, entityID.String())
	}
	return entity, nil
}

// GetByCode retrieves entity by code.
func (s *CatalogService[T]) GetByCode(ctx context.Context, code string) (T, error) {
	entity, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return entity, s.normalizeGetErr(err, code)
	}
	return entity, nil
}

// Update updates an existing entity.
func (s *CatalogService[T]) Update(ctx context.Context, entity T) error {
	if err := entity.Validate(ctx); err != nil {
		return s.normalizeValidationErr(err)
	}

	if s.hooks.BeforeUpdate != nil {
		if err := s.hooks.BeforeUpdate(ctx, entity); err != nil {
			return err
		}
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, entity); err != nil {
			return fmt.Errorf("update %s: %w", s.entityName, err)
		}
		s.audit(ctx, entity, AuditUpdate, entity)
		return nil
	})
}

// Delete performs soft delete.
func (s *CatalogService[T]) Delete(ctx context.Context, entityID id.ID) error {
	existing, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return s.normalizeGetErr(err, entityID.String())
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.SetDeletionMark(ctx, entityID, true); err != nil {
			return fmt.Errorf("delete %s: %w", s.entityName, err)
		}
		s.audit(ctx, existing, AuditDelete, nil)
		return nil
	})
}

// SetDeletionMark sets or clears the deletion mark.
func (s *CatalogService[T]) SetDeletionMark(ctx context.Context, entityID id.ID, marked bool) error {
	return s.repo.SetDeletionMark(ctx, entityID, marked)
}

// List retrieves entities with filtering.
func (s *CatalogService[T]) List(ctx context.Context, filter ListFilter) (ListResult[T], error) {
	return s.repo.List(ctx, filter)
}

// Exists checks if entity exists.
func (s *CatalogService[T]) Exists(ctx context.Context, entityID id.ID) (bool, error) {
	return s.repo.Exists(ctx, entityID)
}
