package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/medikart/order-service/internal/domain/product"
)

// ProductRepository is an in-memory product.Repository.
type ProductRepository struct {
	mu       sync.RWMutex
	products map[string]product.Product
}

var _ product.Repository = (*ProductRepository)(nil)

// NewProductRepository returns a catalog pre-filled with the given products.
func NewProductRepository(products ...product.Product) *ProductRepository {
	byID := make(map[string]product.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &ProductRepository{products: byID}
}

// List returns all products ordered by ID.
func (r *ProductRepository) List(_ context.Context) ([]product.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]product.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GetByID returns a single product by its identifier.
func (r *ProductRepository) GetByID(_ context.Context, id string) (*product.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return &p, nil
}

// GetByIDs returns the products matching any of the given IDs. Missing
// IDs are simply absent from the result.
func (r *ProductRepository) GetByIDs(_ context.Context, ids []string) ([]product.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]product.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}
