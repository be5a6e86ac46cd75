package dto

import (
	"fmt"
	"time"

	"inventory/internal/core/id"
	"inventory/internal/core/types"
	"inventory/internal/domain/catalogs/product"
	"inventory/internal/domain/documents"
)

// DocumentRequest is the body of POST /document.
type DocumentRequest struct {
	Reference   string                `json:"reference" binding:"required,max=100"`
	Concept     string                `json:"concept" binding:"required,max=50"`
	Description *string               `json:"description"`
	Items       []DocumentItemRequest `json:"items" binding:"required,min=1,dive"`
}

// DocumentItemRequest references a product and a quantity.
type DocumentItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"required,gt=0"`
}

// ToCreateInput maps the request to the assembler input.
func (r *DocumentRequest) ToCreateInput() documents.CreateInput {
	in := documents.CreateInput{
		Reference:   r.Reference,
		Concept:     r.Concept,
		Description: r.Description,
		Items:       make([]documents.ItemInput, len(r.Items)),
	}
	for i, it := range r.Items {
		in.Items[i] = documents.ItemInput{ProductID: it.ProductID, Quantity: it.Quantity}
	}
	return in
}

// DocumentResponse is the JSON form of a document.
type DocumentResponse struct {
	ID          string                 `json:"id"`
	Reference   string                 `json:"reference"`
	Consecutive int64                  `json:"consecutive"`
	DateTime    time.Time              `json:"datetime"`
	Concept     string                 `json:"concept"`
	Description *string                `json:"description,omitempty"`
	Items       []DocumentItemResponse `json:"items"`
	Total       float64                `json:"total"`
}

// DocumentItemResponse shows the captured price and quantity next to the
// current product details.
type DocumentItemResponse struct {
	LineNo             int     `json:"line_no"`
	ProductID          string  `json:"product_id"`
	ProductCode        string  `json:"product_code"`
	ProductName        string  `json:"product_name"`
	ProductDescription *string `json:"product_description,omitempty"`
	Quantity           int64   `json:"quantity"`
	Price              float64 `json:"price"`
	Total              float64 `json:"total"`
}

// FromDocument maps a document to its response.
func FromDocument(d *documents.Document) DocumentResponse {
	resp := DocumentResponse{
		ID:          d.ID.String(),
		Reference:   d.Reference,
		Consecutive: d.Consecutive,
		DateTime:    d.DateTime,
		Concept:     d.Concept,
		Description: d.Description,
		Items:       make([]DocumentItemResponse, len(d.Items)),
		Total:       d.Total().InexactFloat64(),
	}
	for i, it := range d.Items {
		resp.Items[i] = fromItem(it)
	}
	return resp
}

func fromItem(it documents.Item) DocumentItemResponse {
	out := DocumentItemResponse{
		LineNo:    it.LineNo,
		ProductID: it.ProductID.String(),
		Quantity:  it.Quantity,
		Price:     it.Price.InexactFloat64(),
		Total:     it.Total().InexactFloat64(),
	}
	if p := it.Product; p != nil {
		out.ProductCode = p.Code
		out.ProductName = p.Name
		out.ProductDescription = p.Description
	}
	return out
}

// ToDocument maps a response back to a document. Attached products carry
// only the fields the response shows.
func (r DocumentResponse) ToDocument() (*documents.Document, error) {
	docID, err := id.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("parse document id: %w", err)
	}
	doc := &documents.Document{
		ID:          docID,
		Reference:   r.Reference,
		Concept:     r.Concept,
		Consecutive: r.Consecutive,
		DateTime:    r.DateTime,
		Description: r.Description,
		Items:       make([]documents.Item, len(r.Items)),
	}
	for i, it := range r.Items {
		pid, err := id.Parse(it.ProductID)
		if err != nil {
			return nil, fmt.Errorf("parse product id on line %d: %w", it.LineNo, err)
		}
		item := documents.Item{
			LineNo:    it.LineNo,
			ProductID: pid,
			Quantity:  it.Quantity,
			Price:     types.NewMoney(it.Price),
		}
		if it.ProductCode != "" {
			item.Product = &product.Product{
				Code:        it.ProductCode,
				Name:        it.ProductName,
				Description: it.ProductDescription,
			}
			item.Product.ID = pid
		}
		doc.Items[i] = item
	}
	return doc, nil
}

// FromDocuments maps a slice of documents.
func FromDocuments(items []*documents.Document) []DocumentResponse {
	out := make([]DocumentResponse, len(items))
	for i, d := range items {
		out[i] = FromDocument(d)
	}
	return out
}
