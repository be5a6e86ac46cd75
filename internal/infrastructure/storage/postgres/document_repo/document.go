// Package document_repo provides PostgreSQL implementations for document repositories.
package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"inventory/internal/core/apperror"
	"inventory/internal/core/id"
	"inventory/internal/domain"
	"inventory/internal/domain/documents"
	"inventory/internal/infrastructure/storage/postgres"
)

const (
	documentTable     = "documents"
	documentItemTable = "document_items"

	referenceConstraint = "documents_reference_key"
)

var itemCols = []string{"document_id", "line_no", "product_id", "quantity", "price"}

// DocumentRepo implements documents.Repository with a header table and an
// items table. Create must run inside a transaction to store both atomically.
type DocumentRepo struct {
	txm        postgres.QuerierSource
	headerCols []string
}

// NewDocumentRepo creates a new document repository.
func NewDocumentRepo(txm postgres.QuerierSource) *DocumentRepo {
	return &DocumentRepo{
		txm:        txm,
		headerCols: postgres.ExtractDBColumns[documents.Document](),
	}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *DocumentRepo) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *DocumentRepo) Create(ctx context.Context, doc *documents.Document) error {
	querier := r.txm.GetQuerier(ctx)

	sql, args, err := r.Builder().
		Insert(documentTable).
		SetMap(postgres.StructToMap(doc)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		if name, dup := postgres.UniqueViolation(err); dup && name == referenceConstraint {
			return apperror.NewDuplicate("document", "reference", doc.Reference)
		}
		return fmt.Errorf("insert %s: %w", documentTable, err)
	}

	if len(doc.Items) == 0 {
		return nil
	}

	sql, args, err = r.insertItems(doc).ToSql()
	if err != nil {
		return fmt.Errorf("build insert items: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return apperror.NewConflict("a referenced product no longer exists").WithCause(err)
		}
		return fmt.Errorf("insert %s: %w", documentItemTable, err)
	}
	return nil
}

func (r *DocumentRepo) insertItems(doc *documents.Document) squirrel.InsertBuilder {
	q := r.Builder().Insert(documentItemTable).Columns(itemCols...)
	for _, it := range doc.Items {
		q = q.Values(doc.ID, it.LineNo, it.ProductID, it.Quantity, it.Price)
	}
	return q
}

func (r *DocumentRepo) GetByReference(ctx context.Context, reference string) (*documents.Document, error) {
	sql, args, err := r.Builder().
		Select(r.headerCols...).
		From(documentTable).
		Where(squirrel.Eq{"reference": reference}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var doc documents.Document
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &doc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("document", reference)
		}
		return nil, fmt.Errorf("select %s: %w", documentTable, err)
	}

	items, err := r.loadItems(ctx, []id.ID{doc.ID})
	if err != nil {
		return nil, err
	}
	doc.Items = items[doc.ID]
	return &doc, nil
}

func (r *DocumentRepo) ExistsByReference(ctx context.Context, reference string) (bool, error) {
	var exists bool
	err := r.txm.GetQuerier(ctx).QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM "+documentTable+" WHERE reference = $1)", reference).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check %s reference: %w", documentTable, err)
	}
	return exists, nil
}

func (r *DocumentRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*documents.Document], error) {
	filter = filter.Normalize()
	result := domain.ListResult[*documents.Document]{
		Items:  []*documents.Document{},
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	querier := r.txm.GetQuerier(ctx)

	countSQL, countArgs, err := r.applyConcept(r.Builder().Select("COUNT(*)").From(documentTable), filter).ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count %s: %w", documentTable, err)
	}

	sql, args, err := r.listQuery(filter).ToSql()
	if err != nil {
		return result, fmt.Errorf("build select: %w", err)
	}
	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("select %s: %w", documentTable, err)
	}
	if len(result.Items) == 0 {
		return result, nil
	}

	ids := make([]id.ID, len(result.Items))
	for i, d := range result.Items {
		ids[i] = d.ID
	}
	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return result, err
	}
	for _, d := range result.Items {
		d.Items = items[d.ID]
	}
	return result, nil
}

func (r *DocumentRepo) listQuery(filter domain.ListFilter) squirrel.SelectBuilder {
	q := r.applyConcept(r.Builder().Select(r.headerCols...).From(documentTable), filter).
		OrderBy("datetime DESC", "id DESC").
		Limit(uint64(filter.Limit))
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}
	return q
}

func (r *DocumentRepo) applyConcept(q squirrel.SelectBuilder, filter domain.ListFilter) squirrel.SelectBuilder {
	if filter.Concept == "" {
		return q
	}
	return q.Where(squirrel.Eq{"concept": filter.Concept})
}

// itemRow is an item together with the document it belongs to.
type itemRow struct {
	DocumentID id.ID `db:"document_id"`
	documents.Item
}

func (r *DocumentRepo) loadItems(ctx context.Context, docIDs []id.ID) (map[id.ID][]documents.Item, error) {
	sql, args, err := r.Builder().
		Select(itemCols...).
		From(documentItemTable).
		Where(squirrel.Eq{"document_id": docIDs}).
		OrderBy("document_id", "line_no").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select items: %w", err)
	}

	var rows []itemRow
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select %s: %w", documentItemTable, err)
	}

	out := make(map[id.ID][]documents.Item, len(docIDs))
	for _, row := range rows {
		out[row.DocumentID] = append(out[row.DocumentID], row.Item)
	}
	return out, nil
}

var _ documents.Repository = (*DocumentRepo)(nil)
