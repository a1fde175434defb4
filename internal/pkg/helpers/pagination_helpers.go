package helpers

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/siprista/backend/internal/app/models/dto"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultPage     = 1
	// MaxPage keeps (page-1)*MaxPageSize well inside the bigint OFFSET range.
	MaxPage         = math.MaxInt32
)

// NormalizePagination applies defaults to out-of-range values.
func NormalizePagination(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

// CalculateOffsetLimit calculates the offset and limit for SQL queries based on 1-based page index.
func CalculateOffsetLimit(page, limit int) (offset uint64, size uint64) {
	page, limit = NormalizePagination(page, limit)
	return uint64(page-1) * uint64(limit), uint64(limit)
}

// NewPaginationInfo builds the pagination block. pages is ceil(total/limit), 0 for an empty set.
func NewPaginationInfo(total int64, page, limit int) dto.PaginationInfo {
	page, limit = NormalizePagination(page, limit)
	pages := 0
	if total > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return dto.PaginationInfo{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: pages,
	}
}

// ParsePaginationParams extracts page and limit from the query string. Invalid values fall back to defaults.
func ParsePaginationParams(c *gin.Context) (page, limit int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = DefaultPage
	}
	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultPageSize)))
	if err != nil {
		limit = DefaultPageSize
	}
	return NormalizePagination(page, limit)
}
