package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/medikart/order-service/internal/domain/order"
)

const (
	createOrderSQL = `INSERT INTO orders (id, user_id, status, items, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	getOrderSQL = `SELECT id, user_id, status, items, created_at, updated_at
		FROM orders WHERE id = $1`

	findDraftSQL = `SELECT id, user_id, status, items, created_at, updated_at
		FROM orders WHERE user_id = $1 AND status = 'DRAFT'`

	listOrdersSQL = `SELECT id, user_id, status, items, created_at, updated_at
		FROM orders WHERE user_id = $1 AND status <> 'DRAFT'
		ORDER BY created_at DESC OFFSET $2 LIMIT $3`

	countOrdersSQL = `SELECT count(*) FROM orders
		WHERE user_id = $1 AND status <> 'DRAFT'`

	updateItemsSQL = `UPDATE orders SET items = $2, updated_at = $3 WHERE id = $1`

	// The status predicate makes the transition atomic: a concurrent
	// transition that already moved the order away leaves zero rows.
	updateStatusSQL = `UPDATE orders SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2`
)

// itemRow is the JSONB shape of a single order line.
type itemRow struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Currency    string          `json:"currency"`
	Quantity    int             `json:"quantity"`
}

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
// Items are stored as a JSONB document on the order row; they are only
// mutable while the order is a draft, so there is no separate items table.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists a new order.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	itemsJSON, err := marshalItems(o.Items)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, createOrderSQL,
		o.ID, o.UserID, string(o.Status), itemsJSON, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.ID, err)
	}
	return nil
}

// GetByID returns a single order by its identifier.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}
	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}
	return &o, nil
}

// FindDraftByUser returns the user's draft order.
func (r *OrderRepository) FindDraftByUser(ctx context.Context, userID string) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, findDraftSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("finding draft for user %q: %w", userID, err)
	}
	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("finding draft for user %q: %w", userID, err)
	}
	return &o, nil
}

// ListByUser returns a page of the user's non-draft orders, newest
// first, along with the total count.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]order.Order, int, error) {
	rows, err := r.pool.Query(ctx, listOrdersSQL, userID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("listing orders for user %q: %w", userID, err)
	}
	orders, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return nil, 0, fmt.Errorf("listing orders for user %q: %w", userID, err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countOrdersSQL, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting orders for user %q: %w", userID, err)
	}
	return orders, total, nil
}

// UpdateItems replaces the JSONB item document of a draft order.
func (r *OrderRepository) UpdateItems(ctx context.Context, o *order.Order) error {
	itemsJSON, err := marshalItems(o.Items)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, updateItemsSQL, o.ID, itemsJSON, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("updating items of order %q: %w", o.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

// UpdateStatus transitions the order status with an expected-current-
// status guard. Zero affected rows means either the order is gone or a
// concurrent transition won; the order is re-read to tell the two apart.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, from, to order.Status) error {
	tag, err := r.pool.Exec(ctx, updateStatusSQL, id, string(from), string(to))
	if err != nil {
		return fmt.Errorf("updating status of order %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); errors.Is(err, order.ErrNotFound) {
			return order.ErrNotFound
		}
		return order.ErrStatusConflict
	}
	return nil
}

func marshalItems(items []order.Item) ([]byte, error) {
	rows := make([]itemRow, len(items))
	for i, item := range items {
		rows[i] = itemRow{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Currency:    item.Currency,
			Quantity:    item.Quantity,
		}
	}
	b, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("marshaling order items: %w", err)
	}
	return b, nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o         order.Order
		status    string
		itemsJSON []byte
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&o.ID, &o.UserID, &status, &itemsJSON, &createdAt, &updatedAt); err != nil {
		return order.Order{}, err
	}

	var rows []itemRow
	if err := json.Unmarshal(itemsJSON, &rows); err != nil {
		return order.Order{}, fmt.Errorf("unmarshaling order items: %w", err)
	}
	o.Items = make([]order.Item, len(rows))
	for i, ir := range rows {
		o.Items[i] = order.Item{
			ProductID:   ir.ProductID,
			ProductName: ir.ProductName,
			UnitPrice:   ir.UnitPrice,
			Currency:    ir.Currency,
			Quantity:    ir.Quantity,
		}
	}

	o.Status = order.Status(status)
	o.CreatedAt = createdAt
	o.UpdatedAt = updatedAt
	return o, nil
}
