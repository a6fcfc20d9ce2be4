package order

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/medikart/order-service/internal/domain/product"
)

// --- Mock implementations ---

type mockOrderRepo struct {
	orders    map[string]*Order
	createErr error
	updateErr error
	statusErr error
}

func newOrderRepo(orders ...*Order) *mockOrderRepo {
	byID := make(map[string]*Order, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
	}
	return &mockOrderRepo{orders: byID}
}

func (m *mockOrderRepo) Create(_ context.Context, o *Order) error {
	if m.createErr != nil {
		return m.createErr
	}
	cp := *o
	m.orders[o.ID] = &cp
	return nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, id string) (*Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *mockOrderRepo) FindDraftByUser(_ context.Context, userID string) (*Order, error) {
	for _, o := range m.orders {
		if o.UserID == userID && o.Status == StatusDraft {
			cp := *o
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockOrderRepo) ListByUser(_ context.Context, userID string, offset, limit int) ([]Order, int, error) {
	var all []Order
	for _, o := range m.orders {
		if o.UserID == userID && o.Status != StatusDraft {
			all = append(all, *o)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (m *mockOrderRepo) UpdateItems(_ context.Context, o *Order) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	stored, ok := m.orders[o.ID]
	if !ok {
		return ErrNotFound
	}
	stored.Items = append([]Item(nil), o.Items...)
	stored.UpdatedAt = o.UpdatedAt
	return nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id string, from, to Status) error {
	if m.statusErr != nil {
		return m.statusErr
	}
	stored, ok := m.orders[id]
	if !ok {
		return ErrNotFound
	}
	if stored.Status != from {
		return ErrStatusConflict
	}
	stored.Status = to
	return nil
}

type mockProductRepo struct {
	byID   map[string]*product.Product
	getErr error
}

func newProductRepo(products ...product.Product) *mockProductRepo {
	byID := make(map[string]*product.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	return &mockProductRepo{byID: byID}
}

func (m *mockProductRepo) List(_ context.Context) ([]product.Product, error) {
	return nil, nil
}

func (m *mockProductRepo) GetByID(_ context.Context, id string) (*product.Product, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	p, ok := m.byID[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return p, nil
}

func (m *mockProductRepo) GetByIDs(_ context.Context, ids []string) ([]product.Product, error) {
	out := make([]product.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := m.byID[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

// stubGate returns a fixed compliance status and records whether it was
// consulted.
type stubGate struct {
	status ComplianceStatus
	info   *ComplianceInfo
	err    error
	calls  int
}

func (g *stubGate) Status(_ context.Context, _ string) (ComplianceStatus, error) {
	g.calls++
	return g.status, g.err
}

func (g *stubGate) CanFulfil(_ context.Context, _ string) (bool, error) {
	g.calls++
	return g.status == ComplianceApproved, g.err
}

func (g *stubGate) Info(_ context.Context, _ string) (*ComplianceInfo, error) {
	g.calls++
	return g.info, g.err
}

// --- Helpers ---

func newTestProduct(id, name string, price string) product.Product {
	return product.Product{
		ID:       id,
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Currency: "USD",
		Category: "test",
		Active:   true,
	}
}

func newTestOrder(id, userID string, status Status, items ...Item) *Order {
	now := time.Now().UTC()
	return &Order{
		ID:        id,
		UserID:    userID,
		Status:    status,
		Items:     items,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func testItem(productID string, price string, quantity int) Item {
	return Item{
		ProductID:   productID,
		ProductName: "Test " + productID,
		UnitPrice:   decimal.RequireFromString(price),
		Currency:    "USD",
		Quantity:    quantity,
	}
}
