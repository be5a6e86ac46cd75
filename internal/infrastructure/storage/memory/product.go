package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"inventory/internal/core/apperror"
	"inventory/internal/core/id"
	"inventory/internal/domain"
	"inventory/internal/domain/catalogs/product"
)

// ProductStore keeps copies of products so callers can never mutate stored state.
type ProductStore struct {
	mu     sync.RWMutex
	byID   map[id.ID]product.Product
	byCode map[string]id.ID
}

// NewProductStore creates an empty product store.
func NewProductStore() *ProductStore {
	return &ProductStore{
		byID:   make(map[id.ID]product.Product),
		byCode: make(map[string]id.ID),
	}
}

func (s *ProductStore) Create(_ context.Context, p *product.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byCode[p.Code]; ok {
		return apperror.NewDuplicate("product", "code", p.Code)
	}
	s.byID[p.ID] = cloneProduct(*p)
	s.byCode[p.Code] = p.ID
	return nil
}

func (s *ProductStore) GetByID(_ context.Context, productID id.ID) (*product.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byID[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID)
	}
	c := cloneProduct(p)
	return &c, nil
}

func (s *ProductStore) List(_ context.Context, filter domain.ListFilter) (domain.ListResult[*product.Product], error) {
	s.mu.RLock()
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	items := make([]*product.Product, 0, len(s.byID))
	for _, p := range s.byID {
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Code), search) &&
			!strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		c := cloneProduct(p)
		items = append(items, &c)
	}
	s.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool { return items[i].Code < items[j].Code })
	return domain.Page(items, filter), nil
}

func (s *ProductStore) Update(_ context.Context, p *product.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.byID[p.ID]
	if !ok {
		return apperror.NewNotFound("product", p.ID)
	}
	if old.Version != p.Version-1 {
		return product.StaleVersion(p)
	}
	if owner, taken := s.byCode[p.Code]; taken && owner != p.ID {
		return apperror.NewDuplicate("product", "code", p.Code)
	}
	delete(s.byCode, old.Code)
	s.byID[p.ID] = cloneProduct(*p)
	s.byCode[p.Code] = p.ID
	return nil
}

func cloneProduct(p product.Product) product.Product {
	if p.Description != nil {
		d := *p.Description
		p.Description = &d
	}
	return p
}

var _ product.Repository = (*ProductStore)(nil)
