package domain

import "math"

// PaginatedResult for list responses
type PaginatedResult[T any] struct {
	Items           []T   `json:"items"`
	Total           int64 `json:"total"`
	Page            int   `json:"page"`
	PageSize        int   `json:"pageSize"`
	TotalPages      int   `json:"totalPages"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
}

// NewPaginatedResult builds the standard pagination envelope. Pages are
// 1-indexed; totalPages is 0 when the filtered set is empty.
func NewPaginatedResult[T any](items []T, total int64, page, pageSize int) *PaginatedResult[T] {
	totalPages := 0
	if total > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(pageSize)))
	}
	if items == nil {
		items = []T{}
	}
	return &PaginatedResult[T]{
		Items:           items,
		Total:           total,
		Page:            page,
		PageSize:        pageSize,
		TotalPages:      totalPages,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1 && total > 0,
	}
}

// ClampPage normalizes user-supplied pagination inputs.
func ClampPage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
