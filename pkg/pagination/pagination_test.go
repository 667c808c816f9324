package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestNormalize(t *testing.T) {
	tests := []struct {
		name         string
		page         int
		pageSize     int
		wantPage     int
		wantPageSize int
	}{
		{
			name:         "Valid request unchanged",
			page:         3,
			pageSize:     25,
			wantPage:     3,
			wantPageSize: 25,
		},
		{
			name:         "Zero page clamped to 1",
			page:         0,
			pageSize:     10,
			wantPage:     1,
			wantPageSize: 10,
		},
		{
			name:         "Negative page clamped to 1",
			page:         -5,
			pageSize:     10,
			wantPage:     1,
			wantPageSize: 10,
		},
		{
			name:         "Zero page size falls back to default",
			page:         1,
			pageSize:     0,
			wantPage:     1,
			wantPageSize: DefaultPageSize,
		},
		{
			name:         "Oversized page size clamped to max",
			page:         1,
			pageSize:     1000,
			wantPage:     1,
			wantPageSize: MaxPageSize,
		},
		{
			name:         "Barely oversized page size clamped to max",
			page:         1,
			pageSize:     MaxPageSize + 1,
			wantPage:     1,
			wantPageSize: MaxPageSize,
		},
		{
			name:         "Max page size allowed",
			page:         1,
			pageSize:     MaxPageSize,
			wantPage:     1,
			wantPageSize: MaxPageSize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := Request{Page: tt.page, PageSize: tt.pageSize}
			req.Normalize()
			assert.Equal(t, tt.wantPage, req.Page)
			assert.Equal(t, tt.wantPageSize, req.PageSize)
		})
	}
}

func TestRequestSkipTake(t *testing.T) {
	req := Request{Page: 3, PageSize: 20}
	assert.Equal(t, 40, req.Skip())
	assert.Equal(t, 20, req.Take())

	req = Request{Page: 1, PageSize: 10}
	assert.Equal(t, 0, req.Skip())
	assert.Equal(t, 10, req.Take())
}

func TestNewResult(t *testing.T) {
	items := []string{"a", "b", "c"}
	req := Request{Page: 2, PageSize: 3}

	result := New(items, 10, req)

	assert.Equal(t, items, result.Items)
	assert.Equal(t, int64(10), result.TotalCount)
	assert.Equal(t, 2, result.Page)
	assert.Equal(t, 3, result.PageSize)
	assert.Equal(t, 4, result.TotalPages) // ceil(10/3)
	assert.True(t, result.HasNextPage)
	assert.True(t, result.HasPreviousPage)
	assert.Equal(t, 3, result.StartIndex)
	assert.Equal(t, 5, result.EndIndex)
}

func TestNewResultFirstPage(t *testing.T) {
	result := New([]int{1, 2, 3, 4, 5}, 12, Request{Page: 1, PageSize: 5})

	assert.Equal(t, 3, result.TotalPages)
	assert.True(t, result.HasNextPage)
	assert.False(t, result.HasPreviousPage)
	assert.Equal(t, 0, result.StartIndex)
	assert.Equal(t, 4, result.EndIndex)
}

func TestNewResultLastPage(t *testing.T) {
	result := New([]int{11, 12}, 12, Request{Page: 3, PageSize: 5})

	assert.Equal(t, 3, result.TotalPages)
	assert.False(t, result.HasNextPage)
	assert.True(t, result.HasPreviousPage)
	assert.Equal(t, 10, result.StartIndex)
	assert.Equal(t, 11, result.EndIndex)
}

func TestNewResultEmpty(t *testing.T) {
	result := New[int](nil, 0, Request{Page: 1, PageSize: 10})

	assert.NotNil(t, result.Items)
	assert.Len(t, result.Items, 0)
	assert.Equal(t, int64(0), result.TotalCount)
	assert.Equal(t, 0, result.TotalPages)
	assert.False(t, result.HasNextPage)
	assert.False(t, result.HasPreviousPage)
	assert.Equal(t, 0, result.StartIndex)
	assert.Equal(t, -1, result.EndIndex)
}

func TestTotalPagesExactDivision(t *testing.T) {
	result := New(make([]int, 10), 100, Request{Page: 10, PageSize: 10})

	assert.Equal(t, 10, result.TotalPages)
	assert.False(t, result.HasNextPage)
}
