package documents

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"inventory/internal/core/apperror"
	"inventory/internal/core/id"
	"inventory/internal/domain/catalogs/product"
)

// DefaultLookupConcurrency bounds parallel product lookups per document.
const DefaultLookupConcurrency = 8

// ProductGetter is the part of the product repository the resolver needs.
type ProductGetter interface {
	GetByID(ctx context.Context, id id.ID) (*product.Product, error)
}

// ProductResolver looks up the products referenced by document items.
type ProductResolver struct {
	products ProductGetter
	limit    int
}

// NewProductResolver creates a resolver running at most limit lookups at once.
func NewProductResolver(products ProductGetter, limit int) *ProductResolver {
	if limit <= 0 {
		limit = DefaultLookupConcurrency
	}
	return &ProductResolver{products: products, limit: limit}
}

// Resolve returns one product per id, in input order. The first failed lookup
// cancels the rest and is returned; a missing product is apperror.NewNotFound.
func (r *ProductResolver) Resolve(ctx context.Context, ids []string) ([]*product.Product, error) {
	parsed := make([]id.ID, len(ids))
	for i, raw := range ids {
		pid, err := id.Parse(raw)
		if err != nil {
			return nil, apperror.NewNotFound("product", raw)
		}
		parsed[i] = pid
	}

	out := make([]*product.Product, len(parsed))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.limit)
	for i, pid := range parsed {
		g.Go(func() error {
			p, err := r.products.GetByID(gctx, pid)
			if err != nil {
				return err
			}
			out[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Lookup returns the products that still exist among ids, keyed by id.
// Missing products are skipped; other errors abort.
func (r *ProductResolver) Lookup(ctx context.Context, ids []id.ID) (map[id.ID]*product.Product, error) {
	var mu sync.Mutex
	found := make(map[id.ID]*product.Product, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.limit)
	for _, pid := range uniqueIDs(ids) {
		g.Go(func() error {
			p, err := r.products.GetByID(gctx, pid)
			if apperror.IsNotFound(err) {
				return nil
			}
			if err != nil {
				return err
			}
			mu.Lock()
			found[pid] = p
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return found, nil
}

func uniqueIDs(ids []id.ID) []id.ID {
	seen := make(map[id.ID]struct{}, len(ids))
	out := make([]id.ID, 0, len(ids))
	for _, v := range ids {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
