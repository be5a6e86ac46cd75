// Package documents assembles numbered inventory documents (sales, purchases, ...)
// from product references.
package documents

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"inventory/internal/core/apperror"
	"inventory/internal/core/id"
	"inventory/internal/core/types"
	"inventory/internal/domain/catalogs/product"
)

const (
	maxReferenceLen = 100
	maxConceptLen   = 50
)

// Document is an immutable numbered transaction.
// Consecutive is unique per Concept, not across concepts.
type Document struct {
	ID          id.ID     `db:"id" json:"id"`
	Reference   string    `db:"reference" json:"reference"`
	Concept     string    `db:"concept" json:"concept"`
	Consecutive int64     `db:"consecutive" json:"consecutive"`
	DateTime    time.Time `db:"datetime" json:"datetime"`
	Description *string   `db:"description" json:"description,omitempty"`

	Items []Item `db:"-" json:"items"`
}

// Item is a product line. Price is the product price when the document was
// created and never follows later product changes.
type Item struct {
	LineNo    int         `db:"line_no" json:"line_no"`
	ProductID id.ID       `db:"product_id" json:"product_id"`
	Quantity  int64       `db:"quantity" json:"quantity"`
	Price     types.Money `db:"price" json:"price"`

	// Product is the current catalog entry, attached on read. Nil if the
	// product no longer exists.
	Product *product.Product `db:"-" json:"-"`
}

// Total is price times quantity.
func (i Item) Total() types.Money {
	return types.LineTotal(i.Price, i.Quantity)
}

// Total sums all item totals.
func (d *Document) Total() types.Money {
	sum := types.Zero()
	for _, it := range d.Items {
		sum = sum.Add(it.Total())
	}
	return sum
}

// CreateInput is a request to assemble a new document.
type CreateInput struct {
	Reference   string
	Concept     string
	Description *string
	Items       []ItemInput
}

// ItemInput references a product by id. ProductID is kept as text so that a
// malformed id is reported like an unknown one.
type ItemInput struct {
	ProductID string
	Quantity  int64
}

// Validate checks the request shape. Product existence is checked later.
func (in *CreateInput) Validate(_ context.Context) error {
	in.Reference = strings.TrimSpace(in.Reference)
	in.Concept = strings.TrimSpace(in.Concept)

	if in.Reference == "" {
		return apperror.NewValidation("reference is required").
			WithDetail("field", "reference")
	}
	if utf8.RuneCountInString(in.Reference) > maxReferenceLen {
		return apperror.NewValidation("reference is too long").
			WithDetail("field", "reference").
			WithDetail("max", maxReferenceLen)
	}
	if in.Concept == "" {
		return apperror.NewValidation("concept is required").
			WithDetail("field", "concept")
	}
	if utf8.RuneCountInString(in.Concept) > maxConceptLen {
		return apperror.NewValidation("concept is too long").
			WithDetail("field", "concept").
			WithDetail("max", maxConceptLen)
	}
	if len(in.Items) == 0 {
		return apperror.NewValidation("document must have at least one item").
			WithDetail("field", "items")
	}
	for i, it := range in.Items {
		if it.Quantity <= 0 {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "items.quantity").
				WithDetail("line", i+1)
		}
	}
	return nil
}
