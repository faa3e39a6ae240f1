package shared

import (
	"cmp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type item struct {
	ID   string
	Name string
	Qty  int
}

var lister = Lister[item]{
	Text: func(i item) []string { return []string{i.ID, i.Name} },
	Sorts: map[string]Compare[item]{
		"id":  func(a, b item) int { return strings.Compare(a.ID, b.ID) },
		"qty": func(a, b item) int { return cmp.Compare(a.Qty, b.Qty) },
	},
	DefaultSort: "id",
}

var items = []item{
	{"P-001", "Washing Machine", 4},
	{"P-002", "Refrigerator", 9},
	{"P-003", "Microwave", 1},
	{"P-004", "Washing Powder", 30},
}

func TestListQuery_Normalize(t *testing.T) {
	q := ListQuery{Search: "  Wash ", PageSize: 1000}.Normalize()
	assert.Equal(t, "wash", q.Search)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, MaxPageSize, q.PageSize)
	assert.Equal(t, "desc", q.SortDir)

	q = ListQuery{SortDir: "asc"}.Normalize()
	assert.Equal(t, DefaultPageSize, q.PageSize)
	assert.Equal(t, "asc", q.SortDir)
}

func TestLister_SearchAndDefaultSort(t *testing.T) {
	page := lister.List(items, ListQuery{Search: "wash"})
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, "P-004", page.Items[0].ID)
	assert.Equal(t, "P-001", page.Items[1].ID)
}

func TestLister_SortAscending(t *testing.T) {
	page := lister.List(items, ListQuery{SortBy: "qty", SortDir: "asc"})
	assert.Equal(t, []int{1, 4, 9, 30}, []int{page.Items[0].Qty, page.Items[1].Qty, page.Items[2].Qty, page.Items[3].Qty})
}

func TestLister_DoesNotReorderInput(t *testing.T) {
	lister.List(items, ListQuery{SortBy: "qty"})
	assert.Equal(t, "P-001", items[0].ID)
}

func TestPaginate(t *testing.T) {
	page := lister.List(items, ListQuery{SortDir: "asc", Page: 2, PageSize: 3})
	assert.Equal(t, int64(4), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, "P-004", page.Items[0].ID)

	beyond := Paginate(items, 5, 3)
	assert.Empty(t, beyond.Items)
	assert.NotNil(t, beyond.Items)
}
