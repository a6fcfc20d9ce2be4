package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Order is the purchase-order aggregate. An order in StatusDraft is the
// user's cart: at most one per user, items mutable. After checkout the
// item list is immutable and only the status advances through the
// lifecycle state machine.
type Order struct {
	ID        string
	UserID    string
	Status    Status
	Items     []Item
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Item is a single order line. ProductName, UnitPrice and Currency are
// snapshots taken when the line was added; later catalog changes do not
// affect existing orders.
type Item struct {
	ProductID   string
	ProductName string
	UnitPrice   decimal.Decimal
	Currency    string
	Quantity    int
}

// Subtotal returns UnitPrice multiplied by Quantity. It is always
// recomputed; the value is never stored.
func (i Item) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Total returns the sum of all line subtotals, rounded to 2 decimal places.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total.Round(2)
}

// ItemIndex returns the position of the line for productID, or -1.
func (o *Order) ItemIndex(productID string) int {
	for i, item := range o.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

// Repository defines persistence operations for orders.
//
// UpdateStatus carries the expected current status and must fail with
// ErrStatusConflict when the stored status no longer matches, so that
// two racing transitions on the same order cannot both succeed.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	FindDraftByUser(ctx context.Context, userID string) (*Order, error)
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]Order, int, error)
	UpdateItems(ctx context.Context, o *Order) error
	UpdateStatus(ctx context.Context, id string, from, to Status) error
}
