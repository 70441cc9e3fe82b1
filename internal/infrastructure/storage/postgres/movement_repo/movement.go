// Package movement_repo provides the PostgreSQL movement log repository.
package movement_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/sebastiansledz/qrsaws-sub000/internal/core/apperror"
	"github.com/sebastiansledz/qrsaws-sub000/internal/core/id"
	"github.com/sebastiansledz/qrsaws-sub000/internal/domain"
	"github.com/sebastiansledz/qrsaws-sub000/internal/domain/movements"
	"github.com/sebastiansledz/qrsaws-sub000/internal/infrastructure/storage/postgres"
)

const movementTable = "reg_movements"

// MovementRepo implements movements.Repository. The table is insert-only;
// no update or delete statement exists here.
type MovementRepo struct {
	txManager  *postgres.TxManager
	selectCols []string
}

var _ movements.Repository = (*MovementRepo)(nil)

// NewMovementRepo creates a movement repository.
func NewMovementRepo(txManager *postgres.TxManager) *MovementRepo {
	return &MovementRepo{
		txManager:  txManager,
		selectCols: postgres.ExtractDBColumns[movements.Movement](),
	}
}

func (r *MovementRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *MovementRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

func (r *MovementRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder().
		Select(r.selectCols...).
		From(movementTable)
}

// Create inserts one movement row.
func (r *MovementRepo) Create(ctx context.Context, m *movements.Movement) error {
	data := postgres.StructToMap(m)

	cols := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if val, ok := data[col]; ok {
			cols[col] = val
		}
	}

	sql, args, err := r.builder().
		Insert(movementTable).
		SetMap(cols).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID loads one movement.
func (r *MovementRepo) GetByID(ctx context.Context, movementID id.ID) (*movements.Movement, error) {
	sql, args, err := r.baseSelect().
		Where(squirrel.Eq{"id": movementID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	m := &movements.Movement{}
	if err := pgxscan.Get(ctx, r.querier(ctx), m, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("movement", movementID.String())
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// LastByOp returns the blade's most recent movement with the given
// operation code, or nil when none exists.
func (r *MovementRepo) LastByOp(ctx context.Context, bladeID id.ID, op movements.OpCode) (*movements.Movement, error) {
	sql, args, err := r.baseSelect().
		Where(squirrel.Eq{"blade_id": bladeID, "op_code": op}).
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	m := &movements.Movement{}
	if err := pgxscan.Get(ctx, r.querier(ctx), m, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("last by op: %w", err)
	}
	return m, nil
}

// ListByBlade returns the blade's movements, newest first.
func (r *MovementRepo) ListByBlade(ctx context.Context, bladeID id.ID, limit, offset int) (domain.ListResult[*movements.Movement], error) {
	return r.List(ctx, movements.ListFilter{BladeID: bladeID, Limit: limit, Offset: offset})
}

// List returns movements matching the filter, newest first.
func (r *MovementRepo) List(ctx context.Context, filter movements.ListFilter) (domain.ListResult[*movements.Movement], error) {
	result := domain.ListResult[*movements.Movement]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect()
	if !id.IsNil(filter.BladeID) {
		q = q.Where(squirrel.Eq{"blade_id": filter.BladeID})
	}
	if filter.Op != "" {
		q = q.Where(squirrel.Eq{"op_code": filter.Op})
	}

	countSQL, countArgs, err := r.builder().
		Select("COUNT(*)").
		FromSelect(q, "sub").
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}
	if err := r.querier(ctx).QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count movements: %w", err)
	}

	q = q.OrderBy("created_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, r.querier(ctx), &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list movements: %w", err)
	}
	return result, nil
}
