package pagination

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Request carries the page window requested by the client.
type Request struct {
	Page     int `form:"page" json:"page"`
	PageSize int `form:"pageSize" json:"pageSize"`
}

// Normalize clamps the request into valid bounds: page >= 1,
// pageSize within [1, MaxPageSize] with a default when unset.
func (r *Request) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PageSize < 1 {
		r.PageSize = DefaultPageSize
	}
	if r.PageSize > MaxPageSize {
		r.PageSize = MaxPageSize
	}
}

// Skip returns the number of rows to skip for the requested page.
func (r Request) Skip() int {
	return (r.Page - 1) * r.PageSize
}

// Take returns the number of rows on the requested page.
func (r Request) Take() int {
	return r.PageSize
}

// Result bundles one page of items with collection metadata.
type Result[T any] struct {
	Items           []T   `json:"items"`
	TotalCount      int64 `json:"totalCount"`
	Page            int   `json:"page"`
	PageSize        int   `json:"pageSize"`
	TotalPages      int   `json:"totalPages"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
	StartIndex      int   `json:"startIndex"`
	EndIndex        int   `json:"endIndex"`
}

// New builds a Result from a page of items and the total row count.
// The request must already be normalized.
func New[T any](items []T, totalCount int64, req Request) Result[T] {
	totalPages := int((totalCount + int64(req.PageSize) - 1) / int64(req.PageSize))
	startIndex := req.Skip()

	if items == nil {
		items = []T{}
	}

	return Result[T]{
		Items:           items,
		TotalCount:      totalCount,
		Page:            req.Page,
		PageSize:        req.PageSize,
		TotalPages:      totalPages,
		HasNextPage:     req.Page < totalPages,
		HasPreviousPage: req.Page > 1,
		StartIndex:      startIndex,
		EndIndex:        startIndex + len(items) - 1,
	}
}
