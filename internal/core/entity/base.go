// Package entity holds fields shared by persisted entities.
package entity

import (
	"context"
	"time"

	"inventory/internal/core/id"
)

// Validatable is implemented by entities that check their own invariants
// without touching storage.
type Validatable interface {
	Validate(ctx context.Context) error
}

// Base contains identity and audit fields.
type Base struct {
	// ID is the primary key (UUIDv7)
	ID id.ID `db:"id" json:"id"`

	// Version is incremented on each update
	Version int `db:"version" json:"version"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// NewBase creates a Base with a fresh ID stamped at now.
func NewBase(now time.Time) Base {
	now = now.UTC()
	return Base{
		ID:        id.New(),
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch records a modification at now.
func (b *Base) Touch(now time.Time) {
	b.Version++
	b.UpdatedAt = now.UTC()
}
