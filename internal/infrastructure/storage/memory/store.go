package memory

import (
	"context"

	"inventory/internal/core/tx"
)

// Store bundles the in-memory repositories.
type Store struct {
	Counters  *CounterStore
	Products  *ProductStore
	Documents *DocumentStore
	TxManager tx.Manager
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		Counters:  NewCounterStore(),
		Products:  NewProductStore(),
		Documents: NewDocumentStore(),
		TxManager: tx.Passthrough{},
	}
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close(context.Context) error { return nil }
