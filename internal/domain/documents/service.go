package documents

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"inventory/internal/core/apperror"
	"inventory/internal/core/id"
	"inventory/internal/core/tx"
	"inventory/internal/domain"
	"inventory/pkg/logger"
)

var tracer = otel.Tracer("inventory/documents")

// Allocator hands out consecutive numbers per concept.
type Allocator interface {
	NextValue(ctx context.Context, name string) (int64, error)
}

// Service provides business operations for documents.
type Service struct {
	repo      Repository
	resolver  *ProductResolver
	allocator Allocator
	txManager tx.Manager
	now       func() time.Time
}

// NewService creates a new document service.
func NewService(
	repo Repository,
	resolver *ProductResolver,
	allocator Allocator,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:      repo,
		resolver:  resolver,
		allocator: allocator,
		txManager: txManager,
		now:       time.Now,
	}
}

// WithClock replaces the time source. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create assembles and stores a new document.
//
// All products are resolved before a consecutive number is taken, so a bad
// product id leaves the concept's counter untouched. The number is allocated
// outside the storage transaction; if storing fails afterwards the number is
// lost and the sequence has a gap.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Document, error) {
	if err := in.Validate(ctx); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "documents.Create", trace.WithAttributes(
		attribute.String("document.concept", in.Concept),
		attribute.Int("document.items", len(in.Items)),
	))
	defer span.End()

	exists, err := s.repo.ExistsByReference(ctx, in.Reference)
	if err != nil {
		return nil, fmt.Errorf("check reference: %w", err)
	}
	if exists {
		return nil, apperror.NewDuplicate("document", "reference", in.Reference)
	}

	productIDs := make([]string, len(in.Items))
	for i, it := range in.Items {
		productIDs[i] = it.ProductID
	}
	products, err := s.resolver.Resolve(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		ID:          id.New(),
		Reference:   in.Reference,
		Concept:     in.Concept,
		Description: in.Description,
		Items:       make([]Item, len(in.Items)),
	}
	for i, it := range in.Items {
		p := products[i]
		doc.Items[i] = Item{
			LineNo:    i + 1,
			ProductID: p.ID,
			Quantity:  it.Quantity,
			Price:     p.Price,
			Product:   p,
		}
	}

	doc.Consecutive, err = s.allocator.NextValue(ctx, in.Concept)
	if err != nil {
		return nil, fmt.Errorf("allocate consecutive: %w", err)
	}
	doc.DateTime = s.now().UTC()
	span.SetAttributes(attribute.Int64("document.consecutive", doc.Consecutive))

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, doc)
	})
	if err != nil {
		logger.Warn(ctx, "document not stored, consecutive lost",
			"concept", doc.Concept,
			"consecutive", doc.Consecutive,
			"error", err)
		if apperror.IsDuplicate(err) {
			return nil, err
		}
		return nil, fmt.Errorf("create document: %w", err)
	}

	logger.Info(ctx, "document created",
		"id", doc.ID,
		"reference", doc.Reference,
		"concept", doc.Concept,
		"consecutive", doc.Consecutive)

	return doc, nil
}

// GetByReference returns the document with its items. Each item carries the
// current product when it still exists; prices stay as captured.
func (s *Service) GetByReference(ctx context.Context, reference string) (*Document, error) {
	doc, err := s.repo.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if err := s.attachProducts(ctx, []*Document{doc}); err != nil {
		return nil, err
	}
	return doc, nil
}

// List returns a page of documents, newest first.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Document], error) {
	res, err := s.repo.List(ctx, filter.Normalize())
	if err != nil {
		return res, err
	}
	if err := s.attachProducts(ctx, res.Items); err != nil {
		return res, err
	}
	return res, nil
}

func (s *Service) attachProducts(ctx context.Context, docs []*Document) error {
	var ids []id.ID
	for _, d := range docs {
		for _, it := range d.Items {
			ids = append(ids, it.ProductID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	found, err := s.resolver.Lookup(ctx, ids)
	if err != nil {
		return fmt.Errorf("load document products: %w", err)
	}
	for _, d := range docs {
		for i := range d.Items {
			d.Items[i].Product = found[d.Items[i].ProductID]
		}
	}
	return nil
}
