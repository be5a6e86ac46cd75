package mongodb

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"inventory/internal/core/entity"
	"inventory/internal/core/id"
	"inventory/internal/core/types"
	"inventory/internal/domain/catalogs/product"
	"inventory/internal/domain/documents"
)

// Ids are stored as their string form in _id. Prices are Decimal128 so that
// they keep the exact decimal value.

type productRecord struct {
	ID          string               `bson:"_id"`
	Code        string               `bson:"code"`
	Name        string               `bson:"name"`
	Price       primitive.Decimal128 `bson:"price"`
	Description *string              `bson:"description,omitempty"`
	Version     int                  `bson:"version"`
	CreatedAt   time.Time            `bson:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at"`
}

type documentRecord struct {
	ID          string       `bson:"_id"`
	Reference   string       `bson:"reference"`
	Concept     string       `bson:"concept"`
	Consecutive int64        `bson:"consecutive"`
	DateTime    time.Time    `bson:"datetime"`
	Description *string      `bson:"description,omitempty"`
	Items       []itemRecord `bson:"items"`
}

type itemRecord struct {
	LineNo    int                  `bson:"line_no"`
	ProductID string               `bson:"product_id"`
	Quantity  int64                `bson:"quantity"`
	Price     primitive.Decimal128 `bson:"price"`
}

func toDecimal128(m types.Money) (primitive.Decimal128, error) {
	d, err := primitive.ParseDecimal128(m.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("encode price %s: %w", m, err)
	}
	return d, nil
}

func fromDecimal128(d primitive.Decimal128) (types.Money, error) {
	return types.NewMoneyFromString(d.String())
}

func toProductRecord(p *product.Product) (productRecord, error) {
	price, err := toDecimal128(p.Price)
	if err != nil {
		return productRecord{}, err
	}
	return productRecord{
		ID:          p.ID.String(),
		Code:        p.Code,
		Name:        p.Name,
		Price:       price,
		Description: p.Description,
		Version:     p.Version,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}, nil
}

func fromProductRecord(r productRecord) (*product.Product, error) {
	pid, err := id.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("decode product id %q: %w", r.ID, err)
	}
	price, err := fromDecimal128(r.Price)
	if err != nil {
		return nil, err
	}
	return &product.Product{
		Base: entity.Base{
			ID:        pid,
			Version:   r.Version,
			CreatedAt: r.CreatedAt.UTC(),
			UpdatedAt: r.UpdatedAt.UTC(),
		},
		Code:        r.Code,
		Name:        r.Name,
		Price:       price,
		Description: r.Description,
	}, nil
}

func toDocumentRecord(d *documents.Document) (documentRecord, error) {
	rec := documentRecord{
		ID:          d.ID.String(),
		Reference:   d.Reference,
		Concept:     d.Concept,
		Consecutive: d.Consecutive,
		DateTime:    d.DateTime,
		Description: d.Description,
		Items:       make([]itemRecord, len(d.Items)),
	}
	for i, it := range d.Items {
		price, err := toDecimal128(it.Price)
		if err != nil {
			return documentRecord{}, err
		}
		rec.Items[i] = itemRecord{
			LineNo:    it.LineNo,
			ProductID: it.ProductID.String(),
			Quantity:  it.Quantity,
			Price:     price,
		}
	}
	return rec, nil
}

func fromDocumentRecord(r documentRecord) (*documents.Document, error) {
	docID, err := id.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("decode document id %q: %w", r.ID, err)
	}
	doc := &documents.Document{
		ID:          docID,
		Reference:   r.Reference,
		Concept:     r.Concept,
		Consecutive: r.Consecutive,
		DateTime:    r.DateTime.UTC(),
		Description: r.Description,
		Items:       make([]documents.Item, len(r.Items)),
	}
	for i, it := range r.Items {
		pid, err := id.Parse(it.ProductID)
		if err != nil {
			return nil, fmt.Errorf("decode product id %q: %w", it.ProductID, err)
		}
		price, err := fromDecimal128(it.Price)
		if err != nil {
			return nil, err
		}
		doc.Items[i] = documents.Item{
			LineNo:    it.LineNo,
			ProductID: pid,
			Quantity:  it.Quantity,
			Price:     price,
		}
	}
	return doc, nil
}
