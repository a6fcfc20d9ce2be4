// Package memory provides mutex-guarded in-memory implementations of
// every repository interface. They back unit tests and local
// development; production wiring uses the postgres implementations.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/medikart/order-service/internal/domain/order"
)

// OrderRepository is an in-memory order.Repository.
type OrderRepository struct {
	mu     sync.RWMutex
	orders map[string]order.Order
}

var _ order.Repository = (*OrderRepository)(nil)

// NewOrderRepository returns an empty in-memory order store.
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{orders: make(map[string]order.Order)}
}

// Create stores a new order.
func (r *OrderRepository) Create(_ context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[o.ID] = cloneOrder(*o)
	return nil
}

// GetByID returns a copy of the stored order.
func (r *OrderRepository) GetByID(_ context.Context, id string) (*order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	cp := cloneOrder(o)
	return &cp, nil
}

// FindDraftByUser returns the user's draft order, if any.
func (r *OrderRepository) FindDraftByUser(_ context.Context, userID string) (*order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.orders {
		if o.UserID == userID && o.Status == order.StatusDraft {
			cp := cloneOrder(o)
			return &cp, nil
		}
	}
	return nil, order.ErrNotFound
}

// ListByUser returns the user's non-draft orders, newest first, plus
// the total count before pagination.
func (r *OrderRepository) ListByUser(_ context.Context, userID string, offset, limit int) ([]order.Order, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []order.Order
	for _, o := range r.orders {
		if o.UserID == userID && o.Status != order.StatusDraft {
			all = append(all, cloneOrder(o))
		}
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := len(all)
	if offset >= total {
		return []order.Order{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

// UpdateItems replaces the item list and updated-at of a stored order.
func (r *OrderRepository) UpdateItems(_ context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[o.ID]
	if !ok {
		return order.ErrNotFound
	}
	stored.Items = cloneItems(o.Items)
	stored.UpdatedAt = o.UpdatedAt
	r.orders[o.ID] = stored
	return nil
}

// UpdateStatus transitions an order's status, failing with
// ErrStatusConflict when the stored status no longer matches from.
func (r *OrderRepository) UpdateStatus(_ context.Context, id string, from, to order.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[id]
	if !ok {
		return order.ErrNotFound
	}
	if stored.Status != from {
		return order.ErrStatusConflict
	}
	stored.Status = to
	r.orders[id] = stored
	return nil
}

func cloneOrder(o order.Order) order.Order {
	o.Items = cloneItems(o.Items)
	return o
}

func cloneItems(items []order.Item) []order.Item {
	cp := make([]order.Item, len(items))
	copy(cp, items)
	return cp
}
