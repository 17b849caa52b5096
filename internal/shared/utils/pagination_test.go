package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/inkwell-press/inkwell/internal/shared/constants"
)

func paginationContext(t *testing.T, query string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/novels"+query, nil)
	return c
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		wantPage     int
		wantPageSize int
	}{
		{
			name:         "explicit values",
			query:        "?page=3&page_size=50",
			wantPage:     3,
			wantPageSize: 50,
		},
		{
			name:         "missing parameters use defaults",
			query:        "",
			wantPage:     constants.DefaultPage,
			wantPageSize: constants.DefaultPageSize,
		},
		{
			name:         "page size capped at maximum",
			query:        "?page_size=500",
			wantPage:     constants.DefaultPage,
			wantPageSize: constants.MaxPageSize,
		},
		{
			name:         "zero and negative values fall back",
			query:        "?page=0&page_size=-5",
			wantPage:     constants.DefaultPage,
			wantPageSize: constants.DefaultPageSize,
		},
		{
			name:         "non-numeric values fall back",
			query:        "?page=abc&page_size=xyz",
			wantPage:     constants.DefaultPage,
			wantPageSize: constants.DefaultPageSize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ParsePagination(paginationContext(t, tt.query))
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantPageSize, p.PageSize)
		})
	}
}

func TestPaginationOffset(t *testing.T) {
	assert.Equal(t, 0, Pagination{Page: 1, PageSize: 20}.Offset())
	assert.Equal(t, 40, Pagination{Page: 3, PageSize: 20}.Offset())
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		name     string
		total    int64
		pageSize int
		want     int
	}{
		{name: "exact multiple", total: 40, pageSize: 20, want: 2},
		{name: "partial last page", total: 41, pageSize: 20, want: 3},
		{name: "empty set still has one page", total: 0, pageSize: 20, want: 1},
		{name: "fewer items than one page", total: 5, pageSize: 20, want: 1},
		{name: "zero page size", total: 10, pageSize: 0, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TotalPages(tt.total, tt.pageSize))
		})
	}
}
