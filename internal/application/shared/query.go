// Package shared holds list helpers used by every page: search, sort and
// pagination over an in-memory collection.
package shared

import (
	"slices"
	"strings"

	domain "github.com/erp/pos/internal/domain/shared"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 200
)

// ListQuery is the search/sort/page request of a list page
type ListQuery struct {
	Search   string `form:"search"`
	SortBy   string `form:"sort_by"`
	SortDir  string `form:"sort_dir" binding:"omitempty,oneof=asc desc"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=200"`
}

// Normalize applies defaults: page 1, DefaultPageSize, descending order
func (q ListQuery) Normalize() ListQuery {
	q.Search = strings.ToLower(strings.TrimSpace(q.Search))
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	if q.SortDir != "asc" {
		q.SortDir = "desc"
	}
	return q
}

// Compare orders two records for one sortable field
type Compare[T any] func(a, b T) int

// Lister filters, sorts and pages a collection of T
type Lister[T any] struct {
	// Text returns the searchable fields of a record
	Text func(T) []string
	// Sorts maps a sort_by value to its comparison
	Sorts map[string]Compare[T]
	// DefaultSort is used when sort_by is empty or unknown
	DefaultSort string
}

// List applies q to items. items is not modified.
func (l Lister[T]) List(items []T, q ListQuery) domain.Paginated[T] {
	q = q.Normalize()

	filtered := make([]T, 0, len(items))
	for _, item := range items {
		if q.Search == "" || l.matches(item, q.Search) {
			filtered = append(filtered, item)
		}
	}

	cmp, ok := l.Sorts[q.SortBy]
	if !ok {
		cmp = l.Sorts[l.DefaultSort]
	}
	if cmp != nil {
		slices.SortStableFunc(filtered, func(a, b T) int {
			if q.SortDir == "asc" {
				return cmp(a, b)
			}
			return cmp(b, a)
		})
	}

	return Paginate(filtered, q.Page, q.PageSize)
}

func (l Lister[T]) matches(item T, search string) bool {
	if l.Text == nil {
		return true
	}
	for _, field := range l.Text(item) {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

// Paginate returns page (1-based) of items
func Paginate[T any](items []T, page, pageSize int) domain.Paginated[T] {
	total := len(items)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := min(start+pageSize, total)
	return domain.NewPaginated(slices.Clone(items[start:end]), int64(total), page, pageSize)
}
