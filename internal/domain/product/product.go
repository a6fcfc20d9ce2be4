package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product represents a catalog item available for purchase. It carries
// the regulatory flag consulted by the compliance gate: an order holding
// any product with RequiresPrescription set cannot ship until a linked
// prescription or consultation has been approved.
type Product struct {
	ID                   string
	Name                 string
	Price                decimal.Decimal
	Currency             string
	Category             string
	RequiresPrescription bool
	Active               bool
}

// Repository defines read operations for the product catalog.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]Product, error)
}
