package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"inventory/internal/core/apperror"
	"inventory/internal/core/types"
	"inventory/internal/domain"
	"inventory/internal/domain/catalogs/product"
	"inventory/internal/domain/documents"
	"inventory/pkg/logger"
)

// Fixture is the YAML seed file.
type Fixture struct {
	Products  []ProductFixture  `yaml:"products"`
	Documents []DocumentFixture `yaml:"documents"`
}

// ProductFixture describes one catalog entry. Price is a decimal string.
type ProductFixture struct {
	Code        string  `yaml:"code"`
	Name        string  `yaml:"name"`
	Price       string  `yaml:"price"`
	Description *string `yaml:"description"`
}

// DocumentFixture references products by code.
type DocumentFixture struct {
	Reference   string        `yaml:"reference"`
	Concept     string        `yaml:"concept"`
	Description *string       `yaml:"description"`
	Items       []ItemFixture `yaml:"items"`
}

// ItemFixture is one document line.
type ItemFixture struct {
	ProductCode string `yaml:"product_code"`
	Quantity    int64  `yaml:"quantity"`
}

// Summary counts what a seed run did.
type Summary struct {
	ProductsCreated  int
	ProductsSkipped  int
	DocumentsCreated int
	DocumentsSkipped int
}

// LoadFixture decodes a seed file. Unknown keys are rejected.
func LoadFixture(r io.Reader) (*Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f Fixture
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	return &f, nil
}

// Seeder applies a fixture through the regular services, so every invariant
// (validation, unique codes and references, consecutive numbering) holds for
// seeded data too. Existing products and documents are skipped.
type Seeder struct {
	products  *product.Service
	documents *documents.Service
}

// NewSeeder creates a seeder.
func NewSeeder(products *product.Service, docs *documents.Service) *Seeder {
	return &Seeder{products: products, documents: docs}
}

// Apply seeds products first, then documents.
func (s *Seeder) Apply(ctx context.Context, f *Fixture) (Summary, error) {
	var sum Summary
	ids := make(map[string]string, len(f.Products))

	for _, pf := range f.Products {
		price, err := types.NewMoneyFromString(pf.Price)
		if err != nil {
			return sum, fmt.Errorf("product %s: price %q: %w", pf.Code, pf.Price, err)
		}

		p, err := s.products.Create(ctx, &product.Product{
			Code:        pf.Code,
			Name:        pf.Name,
			Price:       price,
			Description: pf.Description,
		})
		switch {
		case err == nil:
			sum.ProductsCreated++
		case apperror.IsDuplicate(err):
			if p, err = s.findByCode(ctx, pf.Code); err != nil {
				return sum, err
			}
			sum.ProductsSkipped++
			logger.Info(ctx, "product exists, skipped", "code", pf.Code)
		default:
			return sum, fmt.Errorf("product %s: %w", pf.Code, err)
		}
		ids[p.Code] = p.ID.String()
	}

	for _, df := range f.Documents {
		in := documents.CreateInput{
			Reference:   df.Reference,
			Concept:     df.Concept,
			Description: df.Description,
			Items:       make([]documents.ItemInput, len(df.Items)),
		}
		for i, it := range df.Items {
			productID, ok := ids[it.ProductCode]
			if !ok {
				return sum, fmt.Errorf("document %s: unknown product code %q", df.Reference, it.ProductCode)
			}
			in.Items[i] = documents.ItemInput{ProductID: productID, Quantity: it.Quantity}
		}

		doc, err := s.documents.Create(ctx, in)
		switch {
		case err == nil:
			sum.DocumentsCreated++
			logger.Info(ctx, "document seeded", "reference", doc.Reference, "consecutive", doc.Consecutive)
		case apperror.IsDuplicate(err):
			sum.DocumentsSkipped++
			logger.Info(ctx, "document exists, skipped", "reference", df.Reference)
		default:
			return sum, fmt.Errorf("document %s: %w", df.Reference, err)
		}
	}

	return sum, nil
}

func (s *Seeder) findByCode(ctx context.Context, code string) (*product.Product, error) {
	res, err := s.products.List(ctx, domain.ListFilter{Search: code, Limit: domain.MaxLimit})
	if err != nil {
		return nil, fmt.Errorf("look up product %s: %w", code, err)
	}
	for _, p := range res.Items {
		if strings.EqualFold(p.Code, code) {
			return p, nil
		}
	}
	return nil, apperror.NewNotFound("product", code)
}
