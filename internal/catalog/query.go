package catalog

import (
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// QuerySpec is the resolved set of listing filters and pagination parameters.
// Nil pointer fields are not applied.
type QuerySpec struct {
	Search   string
	Category string
	InStock  *bool
	MinPrice *float64
	MaxPrice *float64
	Page     int
	Limit    int
}

// Pagination describes where a page sits in the filtered result.
type Pagination struct {
	CurrentPage   int  `json:"currentPage"`
	TotalPages    int  `json:"totalPages"`
	TotalProducts int  `json:"totalProducts"`
	HasNext       bool `json:"hasNext"`
	HasPrev       bool `json:"hasPrev"`
	Limit         int  `json:"limit"`
}

// Predicate reports whether a product stays in the working set.
type Predicate func(Product) bool

// ParseQuerySpec resolves listing parameters. Page and limit values that are
// missing, non-numeric or below 1 fall back to 1 and 10; price bounds that do
// not parse are ignored.
func ParseQuerySpec(q url.Values) QuerySpec {
	qs := QuerySpec{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Page:     positiveInt(q.Get("page"), defaultPage),
		Limit:    positiveInt(q.Get("limit"), defaultLimit),
	}
	if _, ok := q["inStock"]; ok {
		inStock := q.Get("inStock") == "true"
		qs.InStock = &inStock
	}
	qs.MinPrice = parsePrice(q.Get("minPrice"))
	qs.MaxPrice = parsePrice(q.Get("maxPrice"))
	return qs
}

// Predicates returns the active filters of qs in application order: text
// term, category, stock flag, lower price bound, upper price bound.
func (qs QuerySpec) Predicates() []Predicate {
	var preds []Predicate
	if qs.Search != "" {
		preds = append(preds, MatchText(qs.Search))
	}
	if qs.Category != "" {
		preds = append(preds, InCategory(qs.Category))
	}
	if qs.InStock != nil {
		preds = append(preds, StockIs(*qs.InStock))
	}
	if qs.MinPrice != nil {
		preds = append(preds, PriceAtLeast(*qs.MinPrice))
	}
	if qs.MaxPrice != nil {
		preds = append(preds, PriceAtMost(*qs.MaxPrice))
	}
	return preds
}

// MatchText matches term case-insensitively as a substring of the name or description.
func MatchText(term string) Predicate {
	term = strings.ToLower(term)
	return func(p Product) bool {
		return strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Description), term)
	}
}

// InCategory matches the category case-insensitively.
func InCategory(category string) Predicate {
	return func(p Product) bool { return strings.EqualFold(p.Category, category) }
}

func StockIs(inStock bool) Predicate {
	return func(p Product) bool { return p.InStock == inStock }
}

func PriceAtLeast(min float64) Predicate {
	return func(p Product) bool { return p.Price >= min }
}

func PriceAtMost(max float64) Predicate {
	return func(p Product) bool { return p.Price <= max }
}

// Filter keeps the products that satisfy every predicate, preserving order.
func Filter(products []Product, preds ...Predicate) []Product {
	out := make([]Product, 0, len(products))
next:
	for _, p := range products {
		for _, keep := range preds {
			if !keep(p) {
				continue next
			}
		}
		out = append(out, p)
	}
	return out
}

// Paginate slices one page out of products. A page past the end is empty.
func Paginate(products []Product, page, limit int) ([]Product, Pagination) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}

	total := len(products)
	start := (page - 1) * limit
	if page > 1 && start/(page-1) != limit {
		start = math.MaxInt
	}
	end := start + limit
	if end < start {
		end = math.MaxInt
	}

	lo, hi := start, end
	if lo > total {
		lo = total
	}
	if hi > total {
		hi = total
	}

	pages := 0
	if total > 0 {
		pages = (total-1)/limit + 1
	}

	return append([]Product{}, products[lo:hi]...), Pagination{
		CurrentPage:   page,
		TotalPages:    pages,
		TotalProducts: total,
		HasNext:       end < total,
		HasPrev:       start > 0,
		Limit:         limit,
	}
}

// Query filters products by qs and returns the requested page.
func Query(products []Product, qs QuerySpec) ([]Product, Pagination) {
	return Paginate(Filter(products, qs.Predicates()...), qs.Page, qs.Limit)
}

// Search returns every product whose name or description contains term.
func Search(products []Product, term string) []Product {
	return Filter(products, MatchText(term))
}

// positiveInt reads the leading integer of s, so "2.5" and "2abc" are 2.
// Values without one, or below 1, yield def.
func positiveInt(s string, def int) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return def
	}
	n, err := strconv.Atoi(s[:end])
	if errors.Is(err, strconv.ErrRange) && n > 0 {
		return n
	}
	if err != nil || n < 1 {
		return def
	}
	return n
}

func parsePrice(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return nil
	}
	return &f
}
