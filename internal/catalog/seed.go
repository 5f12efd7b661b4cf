package catalog

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultSeed returns the starter catalog, stamped with now.
func DefaultSeed(now time.Time) []Product {
	now = now.UTC()
	return []Product{
		{
			ID:          "1",
			Name:        "Laptop",
			Description: "High-performance laptop with 16GB RAM",
			Price:       1200,
			Category:    "electronics",
			InStock:     true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          "2",
			Name:        "Smartphone",
			Description: "Latest model with 128GB storage",
			Price:       800,
			Category:    "electronics",
			InStock:     true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          "3",
			Name:        "Coffee Maker",
			Description: "Programmable coffee maker with timer",
			Price:       50,
			Category:    "kitchen",
			InStock:     false,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
}

// seedEntry mirrors Product but lets a seed file leave inStock out.
type seedEntry struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Price       float64 `yaml:"price"`
	Category    string  `yaml:"category"`
	InStock     *bool   `yaml:"inStock"`
}

// LoadSeed reads a YAML list of products from path. Every entry needs a
// unique id; inStock defaults to true.
func LoadSeed(path string, now time.Time) ([]Product, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadSeed: %w", err)
	}

	var entries []seedEntry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("LoadSeed %s: %w", path, err)
	}

	now = now.UTC()
	seen := make(map[string]struct{}, len(entries))
	products := make([]Product, 0, len(entries))
	for i, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("LoadSeed %s: entry %d has no id", path, i)
		}
		if _, dup := seen[e.ID]; dup {
			return nil, fmt.Errorf("LoadSeed %s: duplicate id %q", path, e.ID)
		}
		seen[e.ID] = struct{}{}

		inStock := true
		if e.InStock != nil {
			inStock = *e.InStock
		}
		products = append(products, Product{
			ID:          e.ID,
			Name:        e.Name,
			Description: e.Description,
			Price:       e.Price,
			Category:    e.Category,
			InStock:     inStock,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	return products, nil
}
