package counter

import "context"

// Repository is the sequence store.
//
// Implementations must enforce uniqueness of Name, translate a unique
// violation on Create into AlreadyExists, and perform IncrementAndGet as a
// single server-side operation.
type Repository interface {
	// FindByName returns the counter and true, or false when it does not exist.
	FindByName(ctx context.Context, name string) (Counter, bool, error)

	// Create inserts a counter holding initial.
	Create(ctx context.Context, name string, initial int64) (CreateOutcome, error)

	// IncrementAndGet atomically adds one and returns the new value.
	IncrementAndGet(ctx context.Context, name string) (int64, error)
}
