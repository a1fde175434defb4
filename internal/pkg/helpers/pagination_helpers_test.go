package helpers

import (
	"math"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCalculateOffsetLimit(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		limit      int
		wantOffset uint64
		wantSize   uint64
	}{
		{"first page", 1, 10, 0, 10},
		{"third page", 3, 25, 50, 25},
		{"page below one", 0, 10, 0, 10},
		{"limit above max", 2, 500, MaxPageSize, MaxPageSize},
		{"limit below one", 2, 0, DefaultPageSize, DefaultPageSize},
		{"huge page is capped", math.MaxInt / 5, 10, uint64(MaxPage-1) * 10, 10},
		{"max int page", math.MaxInt, MaxPageSize, uint64(MaxPage-1) * MaxPageSize, MaxPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, size := CalculateOffsetLimit(tt.page, tt.limit)
			assert.Equal(t, tt.wantOffset, offset)
			assert.Equal(t, tt.wantSize, size)
			assert.LessOrEqual(t, offset, uint64(math.MaxInt64))
		})
	}
}

func TestNewPaginationInfo(t *testing.T) {
	assert.Equal(t, 0, NewPaginationInfo(0, 1, 10).Pages)
	assert.Equal(t, 3, NewPaginationInfo(21, 1, 10).Pages)

	info := NewPaginationInfo(5, math.MaxInt, 10)
	assert.Equal(t, MaxPage, info.Page)
	assert.Equal(t, 1, info.Pages)
}

func TestParsePaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		query     string
		wantPage  int
		wantLimit int
	}{
		{"", DefaultPage, DefaultPageSize},
		{"?page=2&limit=20", 2, 20},
		{"?page=abc&limit=x", DefaultPage, DefaultPageSize},
		{"?page=-4&limit=1000", DefaultPage, MaxPageSize},
		{"?page=1844674407370955161", MaxPage, DefaultPageSize},
		{"?page=99999999999999999999999", DefaultPage, DefaultPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/api/siswa"+tt.query, nil)
			page, limit := ParsePaginationParams(c)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}
