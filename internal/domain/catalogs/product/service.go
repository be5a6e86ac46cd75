package product

import (
	"context"
	"time"

	"inventory/internal/core/entity"
	"inventory/internal/core/id"
	"inventory/internal/core/types"
	"inventory/internal/domain"
	"inventory/pkg/logger"
)

// UpdateInput carries the editable fields of a product.
type UpdateInput struct {
	Code        string
	Name        string
	Price       types.Money
	Description *string
}

// Service provides business logic for the product catalog.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a new product service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithClock replaces the time source. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create validates and stores a new product. ID and timestamps are assigned here.
func (s *Service) Create(ctx context.Context, p *Product) (*Product, error) {
	p.Base = entity.NewBase(s.now())
	if err := p.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	logger.Info(ctx, "product created", "id", p.ID, "code", p.Code)
	return p, nil
}

// GetByID returns a product or a not found error.
func (s *Service) GetByID(ctx context.Context, productID id.ID) (*Product, error) {
	return s.repo.GetByID(ctx, productID)
}

// List returns a page of products.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Product], error) {
	return s.repo.List(ctx, filter.Normalize())
}

// Update replaces the editable fields of an existing product.
// Documents already issued keep the price they captured.
func (s *Service) Update(ctx context.Context, productID id.ID, in UpdateInput) (*Product, error) {
	p, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	p.Code = in.Code
	p.Name = in.Name
	p.Price = in.Price
	p.Description = in.Description
	if err := p.Validate(ctx); err != nil {
		return nil, err
	}
	p.Touch(s.now())

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	logger.Info(ctx, "product updated", "id", p.ID, "version", p.Version)
	return p, nil
}
