// Package catalog_repo provides PostgreSQL implementations for catalog repositories.
package catalog_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"inventory/internal/core/apperror"
	"inventory/internal/core/id"
	"inventory/internal/domain"
	"inventory/internal/domain/catalogs/product"
	"inventory/internal/infrastructure/storage/postgres"
)

const productTable = "products"

// ProductRepo implements product.Repository.
type ProductRepo struct {
	txm        postgres.QuerierSource
	selectCols []string
}

// NewProductRepo creates a new product repository.
func NewProductRepo(txm postgres.QuerierSource) *ProductRepo {
	return &ProductRepo{
		txm:        txm,
		selectCols: postgres.ExtractDBColumns[product.Product](),
	}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *ProductRepo) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *ProductRepo) Create(ctx context.Context, p *product.Product) error {
	sql, args, err := r.Builder().
		Insert(productTable).
		SetMap(postgres.StructToMap(p)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		if _, dup := postgres.UniqueViolation(err); dup {
			return apperror.NewDuplicate("product", "code", p.Code)
		}
		return fmt.Errorf("insert %s: %w", productTable, err)
	}
	return nil
}

func (r *ProductRepo) GetByID(ctx context.Context, productID id.ID) (*product.Product, error) {
	sql, args, err := r.Builder().
		Select(r.selectCols...).
		From(productTable).
		Where(squirrel.Eq{"id": productID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var p product.Product
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("product", productID)
		}
		return nil, fmt.Errorf("select %s: %w", productTable, err)
	}
	return &p, nil
}

func (r *ProductRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*product.Product], error) {
	filter = filter.Normalize()
	result := domain.ListResult[*product.Product]{
		Items:  []*product.Product{},
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	querier := r.txm.GetQuerier(ctx)

	countSQL, countArgs, err := r.applySearch(r.Builder().Select("COUNT(*)").From(productTable), filter).ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count %s: %w", productTable, err)
	}

	sql, args, err := r.listQuery(filter).ToSql()
	if err != nil {
		return result, fmt.Errorf("build select: %w", err)
	}
	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("select %s: %w", productTable, err)
	}
	return result, nil
}

func (r *ProductRepo) listQuery(filter domain.ListFilter) squirrel.SelectBuilder {
	q := r.applySearch(r.Builder().Select(r.selectCols...).From(productTable), filter).
		OrderBy("code").
		Limit(uint64(filter.Limit))
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}
	return q
}

func (r *ProductRepo) applySearch(q squirrel.SelectBuilder, filter domain.ListFilter) squirrel.SelectBuilder {
	search := strings.TrimSpace(filter.Search)
	if search == "" {
		return q
	}
	pattern := "%" + escapeLike(search) + "%"
	return q.Where(squirrel.Or{
		squirrel.ILike{"code": pattern},
		squirrel.ILike{"name": pattern},
	})
}

func (r *ProductRepo) Update(ctx context.Context, p *product.Product) error {
	sql, args, err := r.updateQuery(p).ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		if _, dup := postgres.UniqueViolation(err); dup {
			return apperror.NewDuplicate("product", "code", p.Code)
		}
		return fmt.Errorf("update %s: %w", productTable, err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// No row matched: either the product is gone or its version moved on.
	existsSQL, existsArgs, err := r.Builder().
		Select("1").
		Prefix("SELECT EXISTS (").
		From(productTable).
		Where(squirrel.Eq{"id": p.ID}).
		Suffix(")").
		ToSql()
	if err != nil {
		return fmt.Errorf("build exists: %w", err)
	}
	var exists bool
	if err := querier.QueryRow(ctx, existsSQL, existsArgs...).Scan(&exists); err != nil {
		return fmt.Errorf("check %s: %w", productTable, err)
	}
	if !exists {
		return apperror.NewNotFound("product", p.ID)
	}
	return product.StaleVersion(p)
}

// updateQuery writes p only while the stored row still has the version p was read at.
func (r *ProductRepo) updateQuery(p *product.Product) squirrel.UpdateBuilder {
	data := postgres.StructToMap(p)
	delete(data, "id")
	delete(data, "created_at")

	return r.Builder().
		Update(productTable).
		SetMap(data).
		Where(squirrel.Eq{"id": p.ID}).
		Where(squirrel.Eq{"version": p.Version - 1})
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var _ product.Repository = (*ProductRepo)(nil)
