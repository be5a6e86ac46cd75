package memory

import (
	"context"
	"sort"
	"sync"

	"inventory/internal/core/apperror"
	"inventory/internal/domain"
	"inventory/internal/domain/documents"
)

// DocumentStore keeps documents keyed by reference.
type DocumentStore struct {
	mu    sync.RWMutex
	byRef map[string]documents.Document
}

// NewDocumentStore creates an empty document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{byRef: make(map[string]documents.Document)}
}

func (s *DocumentStore) Create(_ context.Context, doc *documents.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byRef[doc.Reference]; ok {
		return apperror.NewDuplicate("document", "reference", doc.Reference)
	}
	s.byRef[doc.Reference] = cloneDocument(*doc)
	return nil
}

func (s *DocumentStore) GetByReference(_ context.Context, reference string) (*documents.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.byRef[reference]
	if !ok {
		return nil, apperror.NewNotFound("document", reference)
	}
	c := cloneDocument(d)
	return &c, nil
}

func (s *DocumentStore) ExistsByReference(_ context.Context, reference string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byRef[reference]
	return ok, nil
}

func (s *DocumentStore) List(_ context.Context, filter domain.ListFilter) (domain.ListResult[*documents.Document], error) {
	s.mu.RLock()
	items := make([]*documents.Document, 0, len(s.byRef))
	for _, d := range s.byRef {
		if filter.Concept != "" && d.Concept != filter.Concept {
			continue
		}
		c := cloneDocument(d)
		items = append(items, &c)
	}
	s.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool {
		if !items[i].DateTime.Equal(items[j].DateTime) {
			return items[i].DateTime.After(items[j].DateTime)
		}
		return items[i].ID.String() > items[j].ID.String()
	})
	return domain.Page(items, filter), nil
}

// Count returns the number of stored documents.
func (s *DocumentStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byRef)
}

// cloneDocument copies items and drops attached products; those are
// attached again on read.
func cloneDocument(d documents.Document) documents.Document {
	if d.Description != nil {
		desc := *d.Description
		d.Description = &desc
	}
	items := make([]documents.Item, len(d.Items))
	for i, it := range d.Items {
		it.Product = nil
		items[i] = it
	}
	d.Items = items
	return d
}

var _ documents.Repository = (*DocumentStore)(nil)
