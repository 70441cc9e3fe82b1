package client

import (
	"context"

	"github.com/sebastiansledz/qrsaws-sub000/internal/core/apperror"
	"github.com/sebastiansledz/qrsaws-sub000/internal/core/id"
	"github.com/sebastiansledz/qrsaws-sub000/internal/core/numerator"
	"github.com/sebastiansledz/qrsaws-sub000/internal/core/tx"
	"github.com/sebastiansledz/qrsaws-sub000/internal/domain"
)

// DocumentCounter reports whether any warehouse documents reference a client.
// The document repository satisfies it.
type DocumentCounter interface {
	ExistsForClient(ctx context.Context, clientID id.ID) (bool, error)
}

// Service provides client business logic.
type Service struct {
	*domain.CatalogService[*Client]

	repo Repository
	docs DocumentCounter
}

// Repository is the client-specific persistence contract.
type Repository interface {
	domain.CatalogRepository[*Client]

	// FindByNIP retrieves a client by tax identifier.
	FindByNIP(ctx context.Context, nip string) (*Client, error)
}

// NewService creates the client service. The auditor may be nil.
func NewService(repo Repository, txManager tx.Manager, alloc numerator.Allocator, docs DocumentCounter, auditor domain.Auditor) *Service {
	s := &Service{repo: repo, docs: docs}
	s.CatalogService = domain.NewCatalogService(domain.CatalogServiceConfig[*Client]{
		Repo:       repo,
		TxManager:  txManager,
		Allocator:  alloc,
		Auditor:    auditor,
		EntityName: "client",
		Hooks: domain.Hooks[*Client]{
			BeforeCreate: s.beforeCreate,
			BeforeUpdate: s.beforeUpdate,
		},
	})
	return s
}

// GetByNIP looks a client up by tax identifier.
func (s *Service) GetByNIP(ctx context.Context, nip string) (*Client, error) {
	cl, err := s.repo.FindByNIP(ctx, nip)
	if err != nil {
		if apperror.IsAppError(err) {
			return nil, err
		}
		return nil, apperror.NewStore(err)
	}
	return cl, nil
}

func (s *Service) beforeCreate(ctx context.Context, c *Client) error {
	exists, err := s.repo.ExistsByCode(ctx, c.Code)
	if err != nil {
		return apperror.NewStore(err)
	}
	if exists {
		return apperror.NewConflict("client code already in use").
			WithDetail("code", c.Code)
	}
	return nil
}

// beforeUpdate enforces code immutability once the code has been embedded
// into document numbers.
func (s *Service) beforeUpdate(ctx context.Context, c *Client) error {
	current, err := s.repo.GetByID(ctx, c.ID)
	if err != nil {
		return err
	}
	if current.Code == c.Code {
		return nil
	}

	if s.docs != nil {
		referenced, err := s.docs.ExistsForClient(ctx, c.ID)
		if err != nil {
			return apperror.NewStore(err)
		}
		if referenced {
			return apperror.NewInvalidState("client code is frozen: documents already carry it").
				WithDetail("code", current.Code)
		}
	}

	exists, err := s.repo.ExistsByCode(ctx, c.Code)
	if err != nil {
		return apperror.NewStore(err)
	}
	if exists {
		return apperror.NewConflict("client code already in use").
			WithDetail("code", c.Code)
	}
	return nil
}
