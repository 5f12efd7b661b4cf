package catalog

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"product-catalog/internal/apierr"
	"product-catalog/internal/auth"
	"product-catalog/internal/logger"
	"product-catalog/internal/validation"
)

// Handler builds the request pipelines for catalog operations
type Handler struct {
	store        Store
	authz        auth.Authorizer
	rules        validation.RuleSet
	maxBodyBytes int64
	now          func() time.Time
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithMaxBodyBytes caps request bodies of create and update.
func WithMaxBodyBytes(n int64) HandlerOption {
	return func(h *Handler) { h.maxBodyBytes = n }
}

// WithHandlerClock overrides the clock used for statistics timestamps.
func WithHandlerClock(now func() time.Time) HandlerOption {
	return func(h *Handler) { h.now = now }
}

// NewHandler creates a new catalog handler
func NewHandler(store Store, authz auth.Authorizer, opts ...HandlerOption) *Handler {
	h := &Handler{
		store: store,
		authz: authz,
		rules: ProductRules,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// pipeline prepends the authorization stage to stages.
func (h *Handler) pipeline(stages ...Stage) Pipeline {
	return append(Pipeline{Authorize(h.authz)}, stages...)
}

// ListProducts handles GET /api/products
func (h *Handler) ListProducts(req *Request) (*Response, error) {
	products, err := h.store.List(req.HTTP.Context())
	if err != nil {
		return nil, fmt.Errorf("ListProducts: %w", err)
	}

	page, pagination := Query(products, ParseQuerySpec(req.HTTP.URL.Query()))
	return OK(ProductListResponse{Products: page, Pagination: pagination}), nil
}

// GetProduct handles GET /api/products/{id}
func (h *Handler) GetProduct(req *Request) (*Response, error) {
	product, err := h.store.Get(req.HTTP.Context(), req.Vars["id"])
	if err != nil {
		return nil, storeError("GetProduct", err)
	}
	return OK(ProductResponse{Product: product, Message: "Product retrieved successfully"}), nil
}

// CreateProduct handles POST /api/products
func (h *Handler) CreateProduct(req *Request) (*Response, error) {
	product, err := h.store.Insert(req.HTTP.Context(), createRequestFrom(req.Input))
	if err != nil {
		return nil, fmt.Errorf("CreateProduct: %w", err)
	}
	logger.Infof("product %s created", product.ID)
	return &Response{
		Status: http.StatusCreated,
		Body:   ProductResponse{Product: product, Message: "Product created successfully"},
	}, nil
}

// UpdateProduct handles PUT /api/products/{id}
func (h *Handler) UpdateProduct(req *Request) (*Response, error) {
	product, err := h.store.Update(req.HTTP.Context(), req.Vars["id"], updateRequestFrom(req.Input))
	if err != nil {
		return nil, storeError("UpdateProduct", err)
	}
	logger.Infof("product %s updated", product.ID)
	return OK(ProductResponse{Product: product, Message: "Product updated successfully"}), nil
}

// DeleteProduct handles DELETE /api/products/{id}
func (h *Handler) DeleteProduct(req *Request) (*Response, error) {
	product, err := h.store.Delete(req.HTTP.Context(), req.Vars["id"])
	if err != nil {
		return nil, storeError("DeleteProduct", err)
	}
	logger.Infof("product %s deleted", product.ID)
	return OK(ProductResponse{Product: product, Message: "Product deleted successfully"}), nil
}

// SearchProducts handles GET /api/products/search/{term}
func (h *Handler) SearchProducts(req *Request) (*Response, error) {
	products, err := h.store.List(req.HTTP.Context())
	if err != nil {
		return nil, fmt.Errorf("SearchProducts: %w", err)
	}

	term := strings.ToLower(req.Vars["term"])
	matches := Search(products, term)
	return OK(SearchResponse{
		Products:   matches,
		SearchTerm: term,
		Count:      len(matches),
		Message:    fmt.Sprintf("Found %d products matching %q", len(matches), term),
	}), nil
}

// Stats handles GET /api/stats
func (h *Handler) Stats(req *Request) (*Response, error) {
	products, err := h.store.List(req.HTTP.Context())
	if err != nil {
		return nil, fmt.Errorf("Stats: %w", err)
	}
	return OK(StatsResponse{Statistics: Summarize(products, h.now().UTC())}), nil
}

// CategoryStats handles GET /api/stats/category/{category}
func (h *Handler) CategoryStats(req *Request) (*Response, error) {
	products, err := h.store.List(req.HTTP.Context())
	if err != nil {
		return nil, fmt.Errorf("CategoryStats: %w", err)
	}

	name := req.Vars["category"]
	stats, matched, err := SummarizeCategory(products, name)
	if errors.Is(err, ErrCategoryNotFound) {
		return nil, apierr.NotFoundf("No products found in category: %s", strings.ToLower(name))
	}
	if err != nil {
		return nil, fmt.Errorf("CategoryStats: %w", err)
	}

	summaries := make([]ProductSummary, 0, len(matched))
	for _, p := range matched {
		summaries = append(summaries, ProductSummary{ID: p.ID, Name: p.Name, Price: p.Price, InStock: p.InStock})
	}
	return OK(CategoryStatsResponse{Statistics: stats, Products: summaries}), nil
}

// storeError maps a missing record to ResourceNotFound and wraps anything else.
func storeError(op string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return apierr.NotFound("Product")
	}
	return fmt.Errorf("%s: %w", op, err)
}
