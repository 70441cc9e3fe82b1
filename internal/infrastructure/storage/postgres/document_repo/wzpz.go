// Package document_repo provides PostgreSQL implementations for document
// repositories.
package document_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"github.com/sebastiansledz/qrsaws-sub000/internal/core/apperror"
	"github.com/sebastiansledz/qrsaws-sub000/internal/core/id"
	"github.com/sebastiansledz/qrsaws-sub000/internal/domain"
	"github.com/sebastiansledz/qrsaws-sub000/internal/domain/documents/wzpz"
	"github.com/sebastiansledz/qrsaws-sub000/internal/infrastructure/storage/postgres"
)

const (
	docTable  = "doc_wzpz"
	itemTable = "doc_wzpz_items"
)

// WZPZRepo implements wzpz.Repository.
type WZPZRepo struct {
	txManager  *postgres.TxManager
	selectCols []string
	itemCols   []string
}

var _ wzpz.Repository = (*WZPZRepo)(nil)

// NewWZPZRepo creates a document repository.
func NewWZPZRepo(txManager *postgres.TxManager) *WZPZRepo {
	return &WZPZRepo{
		txManager:  txManager,
		selectCols: postgres.ExtractDBColumns[wzpz.Document](),
		itemCols:   postgres.ExtractDBColumns[wzpz.Item](),
	}
}

func (r *WZPZRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *WZPZRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

func (r *WZPZRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder().
		Select(r.selectCols...).
		From(docTable)
}

// Create inserts the document row. The unique index on
// (doc_type, client_id, year, month, sequence) rejects a duplicate sequence
// should the allocator's guarantee ever be violated.
func (r *WZPZRepo) Create(ctx context.Context, doc *wzpz.Document) error {
	data := postgres.StructToMap(doc)

	cols := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if val, ok := data[col]; ok {
			cols[col] = val
		}
	}

	sql, args, err := r.builder().
		Insert(docTable).
		SetMap(cols).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

// GetByID loads a document without items.
func (r *WZPZRepo) GetByID(ctx context.Context, docID id.ID) (*wzpz.Document, error) {
	return r.getOne(ctx, r.baseSelect().
		Where(squirrel.Eq{"id": docID}).
		Limit(1), docID)
}

// GetForUpdate loads a document with a row lock. Must run inside a
// transaction; outside one the lock is released immediately.
func (r *WZPZRepo) GetForUpdate(ctx context.Context, docID id.ID) (*wzpz.Document, error) {
	return r.getOne(ctx, r.baseSelect().
		Where(squirrel.Eq{"id": docID}).
		Suffix("FOR UPDATE"), docID)
}

func (r *WZPZRepo) getOne(ctx context.Context, q squirrel.SelectBuilder, docID id.ID) (*wzpz.Document, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	doc := &wzpz.Document{}
	if err := pgxscan.Get(ctx, r.querier(ctx), doc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("document", docID.String())
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// GetWithItems loads a document and its line items, append order.
func (r *WZPZRepo) GetWithItems(ctx context.Context, docID id.ID) (*wzpz.DocumentWithItems, error) {
	doc, err := r.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	sql, args, err := r.builder().
		Select(r.itemCols...).
		From(itemTable).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("added_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build items query: %w", err)
	}

	var items []wzpz.Item
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}

	return &wzpz.DocumentWithItems{Document: *doc, Items: items}, nil
}

// ListOpen returns open documents for (type, client), newest first.
func (r *WZPZRepo) ListOpen(ctx context.Context, docType wzpz.DocType, clientID id.ID) ([]*wzpz.Document, error) {
	sql, args, err := r.baseSelect().
		Where(squirrel.Eq{
			"doc_type":  docType,
			"client_id": clientID,
			"status":    wzpz.StatusOpen,
		}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var docs []*wzpz.Document
	if err := pgxscan.Select(ctx, r.querier(ctx), &docs, sql, args...); err != nil {
		return nil, fmt.Errorf("list open documents: %w", err)
	}
	return docs, nil
}

// List returns documents matching the filter, newest first.
func (r *WZPZRepo) List(ctx context.Context, filter wzpz.ListFilter) (domain.ListResult[*wzpz.Document], error) {
	result := domain.ListResult[*wzpz.Document]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect()
	if filter.Type != "" {
		q = q.Where(squirrel.Eq{"doc_type": filter.Type})
	}
	if !id.IsNil(filter.ClientID) {
		q = q.Where(squirrel.Eq{"client_id": filter.ClientID})
	}
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.Year != 0 {
		q = q.Where(squirrel.Eq{"year": filter.Year})
	}
	if filter.Month != 0 {
		q = q.Where(squirrel.Eq{"month": int(filter.Month)})
	}

	countSQL, countArgs, err := r.builder().
		Select("COUNT(*)").
		FromSelect(q, "sub").
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}
	if err := r.querier(ctx).QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count documents: %w", err)
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
		return result, fmt.Errorf("list documents: %w", err)
	}
	return result, nil
}

// AddItem appends a line. The primary key on (document_id, blade_id) plus
// ON CONFLICT DO NOTHING makes a duplicate scan a silent no-op.
func (r *WZPZRepo) AddItem(ctx context.Context, item wzpz.Item) error {
	sql, args, err := r.builder().
		Insert(itemTable).
		Columns("document_id", "blade_id", "added_at", "added_by").
		Values(item.DocumentID, item.BladeID, item.AddedAt, item.AddedBy).
		Suffix("ON CONFLICT (document_id, blade_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build item insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// Close flips open to closed in one conditional update. A row that is
// already closed matches nothing and reports false.
func (r *WZPZRepo) Close(ctx context.Context, docID id.ID, closedBy string, closedAt time.Time) (bool, error) {
	sql, args, err := r.builder().
		Update(docTable).
		Set("status", wzpz.StatusClosed).
		Set("closed_by", closedBy).
		Set("closed_at", closedAt).
		Set("updated_at", closedAt).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": docID, "status": wzpz.StatusOpen}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build close: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("close document: %w", err)
	}
	if result.RowsAffected() == 0 {
		// Distinguish missing from already closed.
		var one int
		checkSQL, checkArgs, err := r.builder().
			Select("1").
			From(docTable).
			Where(squirrel.Eq{"id": docID}).
			ToSql()
		if err != nil {
			return false, fmt.Errorf("build close check: %w", err)
		}
		err = r.querier(ctx).QueryRow(ctx, checkSQL, checkArgs...).Scan(&one)
		if err == pgx.ErrNoRows {
			return false, apperror.NewNotFound("document", docID.String())
		}
		if err != nil {
			return false, fmt.Errorf("close check: %w", err)
		}
		return false, nil
	}
	return true, nil
}

// ExistsForClient reports whether any document references the client.
func (r *WZPZRepo) ExistsForClient(ctx context.Context, clientID id.ID) (bool, error) {
	sql, args, err := r.builder().
		Select("1").
		From(docTable).
		Where(squirrel.Eq{"client_id": clientID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	err = r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&one)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists for client: %w", err)
	}
	return true, nil
}
