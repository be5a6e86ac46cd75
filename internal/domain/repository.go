// Package domain provides types shared by the domain packages.
package domain

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// ListFilter contains common filtering options for list operations.
type ListFilter struct {
	// Search matches code or name, case-insensitive
	Search string

	// Concept restricts documents to one concept
	Concept string

	Limit  int
	Offset int
}

// Normalize clamps pagination into the allowed range.
func (f ListFilter) Normalize() ListFilter {
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// ListResult contains paginated results.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"total_count"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// Page slices items according to f. Used by stores that filter in memory.
func Page[T any](items []T, f ListFilter) ListResult[T] {
	f = f.Normalize()
	res := ListResult[T]{TotalCount: int64(len(items)), Limit: f.Limit, Offset: f.Offset, Items: []T{}}
	if f.Offset >= len(items) {
		return res
	}
	end := f.Offset + f.Limit
	if end > len(items) {
		end = len(items)
	}
	res.Items = items[f.Offset:end]
	return res
}
