package memory

import (
	"context"
	"sync"
)

// LinkRepository is an in-memory order↔artifact association table. It
// satisfies both compliance.LinkRepository and prescription.Linker. The
// store deliberately does not enforce uniqueness of the artifact side.
type LinkRepository struct {
	mu      sync.RWMutex
	byOrder map[string][]string
}

// NewLinkRepository returns an empty in-memory link table.
func NewLinkRepository() *LinkRepository {
	return &LinkRepository{byOrder: make(map[string][]string)}
}

// Add records an artifact against an order.
func (r *LinkRepository) Add(_ context.Context, orderID, artifactID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byOrder[orderID] = append(r.byOrder[orderID], artifactID)
	return nil
}

// ListByOrder returns all artifact IDs linked to an order.
func (r *LinkRepository) ListByOrder(_ context.Context, orderID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.byOrder[orderID]
	out := make([]string, len(ids))
	copy(out, ids)
	return out, nil
}
