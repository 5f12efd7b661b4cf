package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Store methods when no product has the given ID.
var ErrNotFound = errors.New("product not found")

// Store is the record store behind the catalog handlers.
type Store interface {
	// List returns a snapshot of every product in insertion order.
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id string) (Product, error)
	Insert(ctx context.Context, req CreateProductRequest) (Product, error)
	Update(ctx context.Context, id string, req UpdateProductRequest) (Product, error)
	// Delete removes the product and returns it.
	Delete(ctx context.Context, id string) (Product, error)
}

// MemoryStore is an ordered in-memory Store. Writers are serialized; readers
// always see a consistent snapshot.
type MemoryStore struct {
	mu       sync.RWMutex
	products []Product
	now      func() time.Time
	newID    func() string
}

// StoreOption configures a MemoryStore.
type StoreOption func(*MemoryStore)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) StoreOption {
	return func(s *MemoryStore) { s.now = now }
}

// WithIDGenerator overrides how new product IDs are minted.
func WithIDGenerator(gen func() string) StoreOption {
	return func(s *MemoryStore) { s.newID = gen }
}

// NewMemoryStore creates a store holding a copy of seed.
func NewMemoryStore(seed []Product, opts ...StoreOption) *MemoryStore {
	s := &MemoryStore{
		products: append([]Product{}, seed...),
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List retrieves every product
func (s *MemoryStore) List(_ context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]Product{}, s.products...), nil
}

// Get retrieves a single product by ID
func (s *MemoryStore) Get(_ context.Context, id string) (Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return Product{}, fmt.Errorf("Get %q: %w", id, ErrNotFound)
	}
	return s.products[i], nil
}

// Insert creates a new product with a fresh ID; both timestamps are the same instant.
func (s *MemoryStore) Insert(_ context.Context, req CreateProductRequest) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	if s.indexOf(id) >= 0 {
		return Product{}, fmt.Errorf("Insert: duplicate id %q", id)
	}

	now := s.now().UTC()
	p := Product{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		InStock:     req.InStock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.products = append(s.products, p)
	return p, nil
}

// Update merges the provided fields into an existing product
func (s *MemoryStore) Update(_ context.Context, id string, req UpdateProductRequest) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Product{}, fmt.Errorf("Update %q: %w", id, ErrNotFound)
	}

	p := s.products[i]
	req.apply(&p)
	now := s.now().UTC()
	if now.Before(p.UpdatedAt) {
		now = p.UpdatedAt
	}
	p.UpdatedAt = now
	s.products[i] = p
	return p, nil
}

// Delete removes a product by ID
func (s *MemoryStore) Delete(_ context.Context, id string) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Product{}, fmt.Errorf("Delete %q: %w", id, ErrNotFound)
	}
	p := s.products[i]
	s.products = append(s.products[:i], s.products[i+1:]...)
	return p, nil
}

// indexOf is a linear scan; the caller holds the lock.
func (s *MemoryStore) indexOf(id string) int {
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}
