// Package dto provides Data Transfer Objects for API requests/responses.
// Every entity has one mapping function in each direction; handlers never
// copy fields themselves.
package dto

// ListResponse wraps list results with pagination.
type ListResponse[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"total_count"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ListQuery holds common list query parameters.
type ListQuery struct {
	Search  string `form:"search"`
	Concept string `form:"concept"`
	Limit   int    `form:"limit" binding:"omitempty,min=1,max=500"`
	Offset  int    `form:"offset" binding:"omitempty,min=0"`
}
