package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/sebastiansledz/qrsaws-sub000/internal/core/id"
	"github.com/sebastiansledz/qrsaws-sub000/internal/domain/catalogs/blade"
	"github.com/sebastiansledz/qrsaws-sub000/internal/infrastructure/storage/postgres"
)

const bladeTable = "cat_blades"

// BladeRepo implements blade.Repository.
type BladeRepo struct {
	*BaseCatalogRepo[*blade.Blade]
}

// NewBladeRepo creates a blade repository.
func NewBladeRepo(txManager *postgres.TxManager) *BladeRepo {
	return &BladeRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			bladeTable,
			postgres.ExtractDBColumns[blade.Blade](),
			func() *blade.Blade { return &blade.Blade{} },
		),
	}
}

// ListByClient returns the client's blades, code order, optionally narrowed
// to one status code.
func (r *BladeRepo) ListByClient(ctx context.Context, clientID id.ID, status blade.Status) ([]*blade.Blade, error) {
	query := r.baseSelect().
		Where(squirrel.Eq{"client_id": clientID}).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("code ASC")
	if status != "" {
		query = query.Where(squirrel.Eq{"status": status})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var blades []*blade.Blade
	if err := pgxscan.Select(ctx, r.querier(ctx), &blades, sql, args...); err != nil {
		return nil, fmt.Errorf("list by client: %w", err)
	}
	return blades, nil
}
