package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/medikart/order-service/internal/domain/product"
)

// CartService manages the user's single draft order. All mutations are
// only legal while the order is in StatusDraft; checkout hands the
// order over to the command service and freezes the item list.
type CartService struct {
	orders   Repository
	products product.Repository
	commands *CommandService
}

// NewCartService creates a CartService with the required dependencies.
func NewCartService(orders Repository, products product.Repository, commands *CommandService) *CartService {
	return &CartService{
		orders:   orders,
		products: products,
		commands: commands,
	}
}

// GetCart returns the user's current draft order, or nil when the user
// has no cart. It never creates one.
func (s *CartService) GetCart(ctx context.Context, userID string) (*Order, error) {
	o, err := s.orders.FindDraftByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "find draft order")
	}
	return o, nil
}

// CreateOrGetCart returns the user's draft order, creating an empty one
// when none exists. The operation is idempotent.
func (s *CartService) CreateOrGetCart(ctx context.Context, userID string) (*Order, error) {
	o, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if o != nil {
		return o, nil
	}

	now := time.Now().UTC()
	o = &Order{
		ID:        uuid.New().String(),
		UserID:    userID,
		Status:    StatusDraft,
		Items:     []Item{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create draft order")
	}
	return o, nil
}

// AddItem adds quantity units of a product to the cart, creating the
// cart if needed. When the product already has a line, its quantity is
// incremented instead of adding a duplicate line. Price and name are
// snapshotted from the catalog at add-time.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int) (*Order, error) {
	if quantity <= 0 {
		return nil, &InvalidQuantityError{ProductID: productID}
	}

	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !p.Active {
		return nil, &ProductUnavailableError{ProductID: productID}
	}

	o, err := s.CreateOrGetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if i := o.ItemIndex(productID); i >= 0 {
		o.Items[i].Quantity += quantity
	} else {
		o.Items = append(o.Items, Item{
			ProductID:   p.ID,
			ProductName: p.Name,
			UnitPrice:   p.Price,
			Currency:    p.Currency,
			Quantity:    quantity,
		})
	}

	return s.saveItems(ctx, o)
}

// UpdateItem sets the quantity of an existing cart line. Quantities
// below 1 are rejected; removal is a separate operation.
func (s *CartService) UpdateItem(ctx context.Context, userID, productID string, quantity int) (*Order, error) {
	if quantity <= 0 {
		return nil, &InvalidQuantityError{ProductID: productID}
	}

	o, err := s.orders.FindDraftByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	i := o.ItemIndex(productID)
	if i < 0 {
		return nil, product.ErrNotFound
	}
	o.Items[i].Quantity = quantity

	return s.saveItems(ctx, o)
}

// RemoveItem deletes a cart line. Removing a line that does not exist
// is a no-op success.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*Order, error) {
	o, err := s.orders.FindDraftByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	i := o.ItemIndex(productID)
	if i < 0 {
		return o, nil
	}
	o.Items = append(o.Items[:i], o.Items[i+1:]...)

	return s.saveItems(ctx, o)
}

// Confirm checks out the draft order via the command service, moving it
// DRAFT → CONFIRMED. The transition is irreversible.
func (s *CartService) Confirm(ctx context.Context, userID string) (*Order, error) {
	return s.commands.Checkout(ctx, userID)
}

func (s *CartService) saveItems(ctx context.Context, o *Order) (*Order, error) {
	o.UpdatedAt = time.Now().UTC()
	if err := s.orders.UpdateItems(ctx, o); err != nil {
		return nil, errors.Wrap(err, "update cart items")
	}
	return o, nil
}
