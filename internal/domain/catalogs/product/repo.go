package product

import (
	"context"

	"inventory/internal/core/apperror"
	"inventory/internal/core/id"
	"inventory/internal/domain"
)

// Repository defines the interface for Product persistence.
type Repository interface {
	// Create inserts a product. A taken code yields apperror.NewDuplicate.
	Create(ctx context.Context, p *Product) error

	// GetByID returns apperror.NewNotFound when the product does not exist.
	GetByID(ctx context.Context, id id.ID) (*Product, error)

	// List returns products ordered by code.
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Product], error)

	// Update overwrites code, name, price, description, version and updated_at.
	// p.Version must already be bumped; the write only applies while the
	// stored version is p.Version-1, otherwise it yields StaleVersion.
	// A missing product yields apperror.NewNotFound.
	Update(ctx context.Context, p *Product) error
}

// StaleVersion reports an update computed from an outdated read.
func StaleVersion(p *Product) *apperror.AppError {
	return apperror.NewConflict("product was modified concurrently").
		WithDetail("entity", "product").
		WithDetail("id", p.ID.String()).
		WithDetail("version", p.Version-1)
}
