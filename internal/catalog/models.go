package catalog

import "time"

// Product represents a product in the catalog
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	InStock     bool      `json:"inStock"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProductListResponse wraps a page of products with pagination info
type ProductListResponse struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

// ProductResponse is returned by single-product reads and every mutation
type ProductResponse struct {
	Product Product `json:"product"`
	Message string  `json:"message"`
}

// SearchResponse is returned by the dedicated search endpoint
type SearchResponse struct {
	Products   []Product `json:"products"`
	SearchTerm string    `json:"searchTerm"`
	Count      int       `json:"count"`
	Message    string    `json:"message"`
}

// StatsResponse wraps the catalog-wide statistics snapshot
type StatsResponse struct {
	Statistics Snapshot `json:"statistics"`
}

// CategoryStatsResponse wraps single-category statistics and the products behind them
type CategoryStatsResponse struct {
	Statistics CategoryStats    `json:"statistics"`
	Products   []ProductSummary `json:"products"`
}

// ProductSummary is the short product form listed with category statistics
type ProductSummary struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
	InStock bool    `json:"inStock"`
}

// CreateProductRequest represents the payload for creating a product
type CreateProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	InStock     bool    `json:"inStock"`
}

// UpdateProductRequest represents the payload for updating a product.
// Nil fields are left untouched.
type UpdateProductRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Category    *string  `json:"category,omitempty"`
	InStock     *bool    `json:"inStock,omitempty"`
}

// apply shallow-merges the provided fields into p.
func (req UpdateProductRequest) apply(p *Product) {
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.InStock != nil {
		p.InStock = *req.InStock
	}
}
