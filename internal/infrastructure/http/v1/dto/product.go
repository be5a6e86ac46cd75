package dto

import (
	"fmt"
	"time"

	"inventory/internal/core/entity"
	"inventory/internal/core/id"
	"inventory/internal/core/types"
	"inventory/internal/domain/catalogs/product"
)

// ProductRequest is the body of POST /product and PUT /product/:id.
type ProductRequest struct {
	Code        string   `json:"code" binding:"required,max=50"`
	Name        string   `json:"name" binding:"required,max=255"`
	Price       *float64 `json:"price" binding:"required,gte=0"`
	Description *string  `json:"description"`
}

func (r *ProductRequest) price() types.Money {
	if r.Price == nil {
		return types.Zero()
	}
	return types.NewMoney(*r.Price)
}

// ToProduct maps a create request to a new product. Identity is assigned by
// the service.
func (r *ProductRequest) ToProduct() *product.Product {
	return &product.Product{
		Code:        r.Code,
		Name:        r.Name,
		Price:       r.price(),
		Description: r.Description,
	}
}

// ToUpdateInput maps an update request.
func (r *ProductRequest) ToUpdateInput() product.UpdateInput {
	return product.UpdateInput{
		Code:        r.Code,
		Name:        r.Name,
		Price:       r.price(),
		Description: r.Description,
	}
}

// ProductResponse is the JSON form of a product.
type ProductResponse struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Description *string   `json:"description,omitempty"`
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FromProduct maps a product to its response.
func FromProduct(p *product.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID.String(),
		Code:        p.Code,
		Name:        p.Name,
		Price:       p.Price.InexactFloat64(),
		Description: p.Description,
		Version:     p.Version,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ToProduct maps a response back to a product.
func (r ProductResponse) ToProduct() (*product.Product, error) {
	pid, err := id.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("parse product id: %w", err)
	}
	return &product.Product{
		Base: entity.Base{
			ID:        pid,
			Version:   r.Version,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		},
		Code:        r.Code,
		Name:        r.Name,
		Price:       types.NewMoney(r.Price),
		Description: r.Description,
	}, nil
}

// FromProducts maps a slice of products.
func FromProducts(items []*product.Product) []ProductResponse {
	out := make([]ProductResponse, len(items))
	for i, p := range items {
		out[i] = FromProduct(p)
	}
	return out
}
