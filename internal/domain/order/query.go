package order

import (
	"context"

	"github.com/go-faster/errors"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// PageRequest holds raw pagination parameters as received from the
// caller. Out-of-range values are normalized rather than rejected.
type PageRequest struct {
	Page  int
	Limit int
}

func (p PageRequest) normalize() (page, limit int) {
	page = p.Page
	if page < 1 {
		page = 1
	}
	limit = p.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

// Page is one page of a user's order history.
type Page struct {
	Orders      []Order
	Page        int
	Limit       int
	Total       int
	HasNext     bool
	HasPrevious bool
}

// Detail is a single-order view. Compliance is nil for orders without
// prescription-required items.
type Detail struct {
	Order      *Order
	Compliance *ComplianceInfo
}

// QueryService provides read-only order projections. It never mutates
// order state, regardless of what it observes.
type QueryService struct {
	orders Repository
	gate   ComplianceGate
}

// NewQueryService creates a QueryService with the required dependencies.
func NewQueryService(orders Repository, gate ComplianceGate) *QueryService {
	return &QueryService{
		orders: orders,
		gate:   gate,
	}
}

// History returns the user's orders excluding drafts, most recent
// first. Page is clamped to >= 1 and limit to [1,100] with a default
// of 10.
func (s *QueryService) History(ctx context.Context, userID string, req PageRequest) (*Page, error) {
	page, limit := req.normalize()
	offset := (page - 1) * limit

	orders, total, err := s.orders.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}

	return &Page{
		Orders:      orders,
		Page:        page,
		Limit:       limit,
		Total:       total,
		HasNext:     page*limit < total,
		HasPrevious: page > 1,
	}, nil
}

// GetOrder returns an ownership-checked order detail. When the order
// contains prescription-required products the detail carries the
// gate's read-only compliance view.
func (s *QueryService) GetOrder(ctx context.Context, orderID, userID string) (*Detail, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, ErrUnauthorized
	}

	info, err := s.gate.Info(ctx, o.ID)
	if err != nil {
		return nil, errors.Wrap(err, "compliance info")
	}

	return &Detail{Order: o, Compliance: info}, nil
}
