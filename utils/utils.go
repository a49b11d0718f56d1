// Package utils holds small helpers shared across the HTTP handlers.
package utils

import "math"

// Pagination is the meta block returned alongside paginated listings,
// such as the notification feed.
type Pagination struct {
	TotalItems  int `json:"totalItems"`
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"pageSize"`
	TotalPages  int `json:"totalPages"`
}

// CreatePagination normalizes the requested page and page size and
// computes the page count for a listing of totalItems entries. Out of
// range values fall back to page 1 and a size of 10.
func CreatePagination(totalItems, page, pageSize int) *Pagination {
	if pageSize <= 0 {
		pageSize = 10
	}
	if page <= 0 {
		page = 1
	}

	return &Pagination{
		TotalItems:  totalItems,
		CurrentPage: page,
		PageSize:    pageSize,
		TotalPages:  int(math.Ceil(float64(totalItems) / float64(pageSize))),
	}
}
