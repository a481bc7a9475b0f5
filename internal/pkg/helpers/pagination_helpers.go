package helpers

import (
	"math"

	"github.com/mitsdash/campuskeys/internal/app/models/dto"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 500
	DefaultPage     = 1 // Default page is 1-based
)

// PageBounds normalizes a 1-based page request against a total count and
// returns the slice bounds for it. Directory results are filtered in memory,
// so pagination is a plain slice window.
func PageBounds(page, size, total int) (start, end, normPage, normSize int) {
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	if page < 1 {
		page = DefaultPage
	}

	start = (page - 1) * size
	if start > total {
		start = total
	}
	end = start + size
	if end > total {
		end = total
	}
	return start, end, page, size
}

// NewPaginationInfo creates a standard PaginationInfo DTO.
// page should be the 1-based page number.
func NewPaginationInfo(totalItems, page, size int) dto.PaginationInfo {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = DefaultPage
	}

	totalPages := 0
	if totalItems > 0 {
		totalPages = int(math.Ceil(float64(totalItems) / float64(size)))
	}

	return dto.PaginationInfo{
		CurrentPage: page,
		PageSize:    size,
		TotalItems:  totalItems,
		TotalPages:  totalPages,
	}
}
