// Package tx decouples domain services from a concrete storage transaction.
package tx

import (
	"context"
)

// Manager runs fn as one unit of work.
// If fn returns an error, nothing written through ctx is kept.
// Nested calls reuse the transaction already carried by ctx.
type Manager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Passthrough runs fn directly. Used by backends whose single writes are already
// atomic for the unit being stored (one document per write).
type Passthrough struct{}

// RunInTransaction implements Manager.
func (Passthrough) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

var _ Manager = Passthrough{}
