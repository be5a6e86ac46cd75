package documents

import (
	"context"

	"inventory/internal/domain"
)

// Repository defines the interface for Document persistence.
type Repository interface {
	// Create stores the header and all items as one unit.
	// A taken reference yields apperror.NewDuplicate.
	Create(ctx context.Context, doc *Document) error

	// GetByReference returns the document with items ordered by line number,
	// or apperror.NewNotFound.
	GetByReference(ctx context.Context, reference string) (*Document, error)

	// ExistsByReference checks if a document with the reference exists.
	ExistsByReference(ctx context.Context, reference string) (bool, error)

	// List returns headers with items, newest first, filtered by concept.
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Document], error)
}
