package blade

import (
	"context"

	"github.com/sebastiansledz/qrsaws-sub000/internal/core/apperror"
	"github.com/sebastiansledz/qrsaws-sub000/internal/core/id"
	"github.com/sebastiansledz/qrsaws-sub000/internal/core/numerator"
	"github.com/sebastiansledz/qrsaws-sub000/internal/core/tx"
	"github.com/sebastiansledz/qrsaws-sub000/internal/domain"
)

// CodePrefix for auto-generated blade codes, e.g. BL-00001.
const CodePrefix = "BL"

// Repository is the blade-specific persistence contract.
type Repository interface {
	domain.CatalogRepository[*Blade]

	// ListByClient returns the client's blades in code order, optionally
	// narrowed to one status code. Empty status means all.
	ListByClient(ctx context.Context, clientID id.ID, status Status) ([]*Blade, error)
}

// Service provides blade business logic.
type Service struct {
	*domain.CatalogService[*Blade]

	repo Repository
}

// NewService creates the blade service. The auditor may be nil.
func NewService(repo Repository, txManager tx.Manager, alloc numerator.Allocator, auditor domain.Auditor) *Service {
	s := &Service{repo: repo}
	s.CatalogService = domain.NewCatalogService(domain.CatalogServiceConfig[*Blade]{
		Repo:       repo,
		TxManager:  txManager,
		Allocator:  alloc,
		Auditor:    auditor,
		EntityName: "blade",
		Hooks: domain.Hooks[*Blade]{
			BeforeCreate: s.beforeCreate,
		},
	})
	return s
}

// ListByClient returns the client's blades, optionally filtered by status.
func (s *Service) ListByClient(ctx context.Context, clientID id.ID, status Status) ([]*Blade, error) {
	if status != "" && !status.Valid() {
		return nil, apperror.NewValidation("unknown blade status code").
			WithDetail("value", string(status))
	}
	blades, err := s.repo.ListByClient(ctx, clientID, status)
	if err != nil {
		return nil, apperror.NewStore(err)
	}
	return blades, nil
}

// beforeCreate assigns a code when none was supplied and guards uniqueness
// of explicit codes.
func (s *Service) beforeCreate(ctx context.Context, b *Blade) error {
	if b.Code == "" {
		code, err := s.Allocator().NextCode(ctx, CodePrefix)
		if err != nil {
			return apperror.NewStore(err).WithDetail("op", "blade code allocation")
		}
		b.Code = code
		return nil
	}

	exists, err := s.repo.ExistsByCode(ctx, b.Code)
	if err != nil {
		return apperror.NewStore(err)
	}
	if exists {
		return apperror.NewConflict("blade code already in use").
			WithDetail("code", b.Code)
	}
	return nil
}
