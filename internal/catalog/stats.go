package catalog

import (
	"errors"
	"math"
	"strings"
	"time"
)

// ErrCategoryNotFound is returned by SummarizeCategory when no product is in
// the requested category.
var ErrCategoryNotFound = errors.New("category not found")

// Summary is the catalog-wide statistics block.
type Summary struct {
	TotalProducts   int     `json:"totalProducts"`
	InStockCount    int     `json:"inStockCount"`
	OutOfStockCount int     `json:"outOfStockCount"`
	TotalValue      float64 `json:"totalValue"`
	AveragePrice    float64 `json:"averagePrice"`
	MinPrice        float64 `json:"minPrice"`
	MaxPrice        float64 `json:"maxPrice"`
}

// CategorySummary is the per-category block of a Snapshot.
type CategorySummary struct {
	Count           int     `json:"count"`
	InStockCount    int     `json:"inStockCount"`
	OutOfStockCount int     `json:"outOfStockCount"`
	TotalValue      float64 `json:"totalValue"`
	AveragePrice    float64 `json:"averagePrice"`
}

// Snapshot is the full statistics payload.
type Snapshot struct {
	Summary    Summary                    `json:"summary"`
	Categories map[string]CategorySummary `json:"categories"`
	Timestamp  time.Time                  `json:"timestamp"`
}

// CategoryStats is the single-category statistics block.
type CategoryStats struct {
	Category        string  `json:"category"`
	Count           int     `json:"count"`
	InStockCount    int     `json:"inStockCount"`
	OutOfStockCount int     `json:"outOfStockCount"`
	TotalValue      float64 `json:"totalValue"`
	AveragePrice    float64 `json:"averagePrice"`
	MinPrice        float64 `json:"minPrice"`
	MaxPrice        float64 `json:"maxPrice"`
}

// tally accumulates unrounded figures over a set of products.
type tally struct {
	count    int
	inStock  int
	total    float64
	min, max float64
}

func (t *tally) add(p Product) {
	if t.count == 0 || p.Price < t.min {
		t.min = p.Price
	}
	if t.count == 0 || p.Price > t.max {
		t.max = p.Price
	}
	t.count++
	t.total += p.Price
	if p.InStock {
		t.inStock++
	}
}

func (t *tally) average() float64 {
	if t.count == 0 {
		return 0
	}
	return t.total / float64(t.count)
}

// Summarize computes catalog-wide and per-category statistics. Categories are
// keyed exactly as spelled on the products.
func Summarize(products []Product, now time.Time) Snapshot {
	var all tally
	groups := make(map[string]*tally)
	for _, p := range products {
		all.add(p)
		g, ok := groups[p.Category]
		if !ok {
			g = &tally{}
			groups[p.Category] = g
		}
		g.add(p)
	}

	categories := make(map[string]CategorySummary, len(groups))
	for name, g := range groups {
		categories[name] = CategorySummary{
			Count:           g.count,
			InStockCount:    g.inStock,
			OutOfStockCount: g.count - g.inStock,
			TotalValue:      round2(g.total),
			AveragePrice:    round2(g.average()),
		}
	}

	return Snapshot{
		Summary: Summary{
			TotalProducts:   all.count,
			InStockCount:    all.inStock,
			OutOfStockCount: all.count - all.inStock,
			TotalValue:      round2(all.total),
			AveragePrice:    round2(all.average()),
			MinPrice:        round2(all.min),
			MaxPrice:        round2(all.max),
		},
		Categories: categories,
		Timestamp:  now,
	}
}

// SummarizeCategory computes statistics for the products whose category
// matches name case-insensitively, along with those products.
func SummarizeCategory(products []Product, name string) (CategoryStats, []Product, error) {
	matched := Filter(products, InCategory(name))
	if len(matched) == 0 {
		return CategoryStats{}, nil, ErrCategoryNotFound
	}

	var t tally
	for _, p := range matched {
		t.add(p)
	}
	return CategoryStats{
		Category:        strings.ToLower(name),
		Count:           t.count,
		InStockCount:    t.inStock,
		OutOfStockCount: t.count - t.inStock,
		TotalValue:      round2(t.total),
		AveragePrice:    round2(t.average()),
		MinPrice:        round2(t.min),
		MaxPrice:        round2(t.max),
	}, matched, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
