package catalog

import (
	"math"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProducts() []Product {
	return DefaultSeed(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
}

func numbered(n int) []Product {
	products := make([]Product, n)
	for i := range products {
		products[i] = Product{ID: string(rune('a' + i)), Price: float64(i)}
	}
	return products
}

func TestParseQuerySpec_Defaults(t *testing.T) {
	qs := ParseQuerySpec(url.Values{})

	assert.Equal(t, 1, qs.Page)
	assert.Equal(t, 10, qs.Limit)
	assert.Empty(t, qs.Search)
	assert.Empty(t, qs.Category)
	assert.Nil(t, qs.InStock)
	assert.Nil(t, qs.MinPrice)
	assert.Nil(t, qs.MaxPrice)
	assert.Empty(t, qs.Predicates())
}

func TestParseQuerySpec_InvalidValuesFallBack(t *testing.T) {
	q := url.Values{}
	q.Set("page", "zero")
	q.Set("limit", "-4")
	q.Set("minPrice", "cheap")
	q.Set("maxPrice", "NaN")

	qs := ParseQuerySpec(q)
	assert.Equal(t, 1, qs.Page)
	assert.Equal(t, 10, qs.Limit)
	assert.Nil(t, qs.MinPrice)
	assert.Nil(t, qs.MaxPrice)
}

func TestParseQuerySpec_LeadingIntegerPrefix(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"3", 3},
		{" 4 ", 4},
		{"2.5", 2},
		{"2abc", 2},
		{"+7", 7},
		{"abc2", 10},
		{"-3", 10},
		{"0", 10},
		{".5", 10},
		{"99999999999999999999999", math.MaxInt},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			qs := ParseQuerySpec(url.Values{"limit": {tt.raw}, "page": {tt.raw}})
			assert.Equal(t, tt.want, qs.Limit)
			if tt.want == 10 {
				assert.Equal(t, 1, qs.Page)
			} else {
				assert.Equal(t, tt.want, qs.Page)
			}
		})
	}
}

func TestParseQuerySpec_InStock(t *testing.T) {
	cases := map[string]bool{"true": true, "false": false, "yes": false, "": false}
	for raw, want := range cases {
		t.Run(raw, func(t *testing.T) {
			qs := ParseQuerySpec(url.Values{"inStock": {raw}})
			require.NotNil(t, qs.InStock)
			assert.Equal(t, want, *qs.InStock)
		})
	}
}

func TestQuery_SearchPhone(t *testing.T) {
	page, pagination := Query(seedProducts(), ParseQuerySpec(url.Values{"search": {"phone"}}))

	require.Len(t, page, 1)
	assert.Equal(t, "Smartphone", page[0].Name)
	assert.Equal(t, Pagination{
		CurrentPage: 1, TotalPages: 1, TotalProducts: 1, HasNext: false, HasPrev: false, Limit: 10,
	}, pagination)
}

func TestQuery_TextMatchesDescriptionCaseInsensitively(t *testing.T) {
	page, _ := Query(seedProducts(), QuerySpec{Search: "TIMER", Page: 1, Limit: 10})
	require.Len(t, page, 1)
	assert.Equal(t, "3", page[0].ID)
}

func TestQuery_CategoryIsCaseInsensitive(t *testing.T) {
	page, pagination := Query(seedProducts(), QuerySpec{Category: "Electronics", Page: 1, Limit: 10})
	assert.Equal(t, []string{"1", "2"}, ids(page))
	assert.Equal(t, 2, pagination.TotalProducts)
}

func TestQuery_InStockFilter(t *testing.T) {
	out := false
	page, _ := Query(seedProducts(), QuerySpec{InStock: &out, Page: 1, Limit: 10})
	assert.Equal(t, []string{"3"}, ids(page))
}

func TestQuery_PriceBoundsAreInclusive(t *testing.T) {
	q := url.Values{}
	q.Set("minPrice", "50")
	q.Set("maxPrice", "800")

	page, _ := Query(seedProducts(), ParseQuerySpec(q))
	assert.Equal(t, []string{"2", "3"}, ids(page))
}

func TestQuery_EmptyRange(t *testing.T) {
	q := url.Values{}
	q.Set("minPrice", "900")
	q.Set("maxPrice", "100")

	page, pagination := Query(seedProducts(), ParseQuerySpec(q))
	assert.Empty(t, page)
	assert.NotNil(t, page)
	assert.Equal(t, 0, pagination.TotalPages)
	assert.Equal(t, 0, pagination.TotalProducts)
}

func TestFilter_PreservesOrder(t *testing.T) {
	products := numbered(6)
	got := Filter(products, func(p Product) bool { return int(p.Price)%2 == 0 })
	assert.Equal(t, []string{"a", "c", "e"}, ids(got))
}

func TestPaginate(t *testing.T) {
	products := numbered(25)

	tests := []struct {
		name       string
		page       int
		limit      int
		wantIDs    []string
		wantPages  int
		wantNext   bool
		wantPrev   bool
		wantLength int
	}{
		{name: "first page", page: 1, limit: 10, wantLength: 10, wantPages: 3, wantNext: true, wantPrev: false},
		{name: "middle page", page: 2, limit: 10, wantLength: 10, wantPages: 3, wantNext: true, wantPrev: true},
		{name: "last partial page", page: 3, limit: 10, wantLength: 5, wantPages: 3, wantNext: false, wantPrev: true},
		{name: "past the end", page: 9, limit: 10, wantLength: 0, wantPages: 3, wantNext: false, wantPrev: true},
		{name: "single page", page: 1, limit: 100, wantLength: 25, wantPages: 1, wantNext: false, wantPrev: false},
		{name: "exact fit", page: 5, limit: 5, wantLength: 5, wantPages: 5, wantNext: false, wantPrev: true},
		{name: "huge page", page: 1 << 62, limit: 1 << 40, wantLength: 0, wantPages: 1, wantNext: false, wantPrev: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, p := Paginate(products, tt.page, tt.limit)
			assert.Len(t, page, tt.wantLength)
			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.Equal(t, 25, p.TotalProducts)
			assert.Equal(t, tt.page, p.CurrentPage)
			assert.Equal(t, tt.limit, p.Limit)
			assert.Equal(t, tt.wantNext, p.HasNext)
			assert.Equal(t, tt.wantPrev, p.HasPrev)
		})
	}
}

func TestPaginate_PagesCoverEveryProductOnce(t *testing.T) {
	products := numbered(23)
	var seen []string
	for page := 1; ; page++ {
		items, p := Paginate(products, page, 4)
		seen = append(seen, ids(items)...)
		if !p.HasNext {
			break
		}
	}
	assert.Equal(t, ids(products), seen)
}

func TestPaginate_NormalizesBadInput(t *testing.T) {
	_, p := Paginate(numbered(3), 0, 0)
	assert.Equal(t, 1, p.CurrentPage)
	assert.Equal(t, 10, p.Limit)
}

func TestSearch(t *testing.T) {
	assert.Equal(t, []string{"1"}, ids(Search(seedProducts(), "16gb")))
	assert.Empty(t, Search(seedProducts(), "tablet"))
}
