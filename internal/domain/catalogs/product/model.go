// Package product provides the product catalog referenced by documents.
package product

import (
	"context"
	"strings"
	"unicode/utf8"

	"inventory/internal/core/apperror"
	"inventory/internal/core/entity"
	"inventory/internal/core/types"
)

const (
	maxCodeLen = 50
	maxNameLen = 255
)

// Product is a catalog item.
type Product struct {
	entity.Base

	// Code is the business identifier, unique across products
	Code string `db:"code" json:"code"`

	Name string `db:"name" json:"name"`

	// Price is the current unit price. Documents copy it at creation time.
	Price types.Money `db:"price" json:"price"`

	Description *string `db:"description" json:"description,omitempty"`
}

// Validate implements entity.Validatable.
func (p *Product) Validate(_ context.Context) error {
	p.Code = strings.TrimSpace(p.Code)
	p.Name = strings.TrimSpace(p.Name)

	if p.Code == "" {
		return apperror.NewValidation("code is required").
			WithDetail("field", "code")
	}
	if utf8.RuneCountInString(p.Code) > maxCodeLen {
		return apperror.NewValidation("code is too long").
			WithDetail("field", "code").
			WithDetail("max", maxCodeLen)
	}
	if p.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if utf8.RuneCountInString(p.Name) > maxNameLen {
		return apperror.NewValidation("name is too long").
			WithDetail("field", "name").
			WithDetail("max", maxNameLen)
	}
	if p.Price.IsNegative() {
		return apperror.NewValidation("price cannot be negative").
			WithDetail("field", "price")
	}
	return nil
}

var _ entity.Validatable = (*Product)(nil)
