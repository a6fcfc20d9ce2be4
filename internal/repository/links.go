package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medikart/order-service/internal/domain/compliance"
	"github.com/medikart/order-service/internal/domain/prescription"
)

var (
	_ compliance.LinkRepository = (*LinkRepository)(nil)
	_ prescription.Linker       = (*LinkRepository)(nil)
)

// LinkRepository implements an order↔artifact association table backed
// by PostgreSQL. The same type serves both link tables; the table and
// column names are fixed at construction.
type LinkRepository struct {
	pool      *pgxpool.Pool
	insertSQL string
	listSQL   string
}

// NewPrescriptionLinkRepository returns the order↔prescription link table.
func NewPrescriptionLinkRepository(pool *pgxpool.Pool) *LinkRepository {
	return &LinkRepository{
		pool:      pool,
		insertSQL: `INSERT INTO order_prescriptions (order_id, prescription_id) VALUES ($1, $2)`,
		listSQL:   `SELECT prescription_id FROM order_prescriptions WHERE order_id = $1 ORDER BY created_at`,
	}
}

// NewConsultationLinkRepository returns the order↔consultation link table.
func NewConsultationLinkRepository(pool *pgxpool.Pool) *LinkRepository {
	return &LinkRepository{
		pool:      pool,
		insertSQL: `INSERT INTO order_consultations (order_id, consultation_id) VALUES ($1, $2)`,
		listSQL:   `SELECT consultation_id FROM order_consultations WHERE order_id = $1 ORDER BY created_at`,
	}
}

// Add records an artifact against an order.
func (r *LinkRepository) Add(ctx context.Context, orderID, artifactID string) error {
	_, err := r.pool.Exec(ctx, r.insertSQL, orderID, artifactID)
	if err != nil {
		return fmt.Errorf("linking %q to order %q: %w", artifactID, orderID, err)
	}
	return nil
}

// ListByOrder returns all artifact IDs linked to an order, oldest first.
func (r *LinkRepository) ListByOrder(ctx context.Context, orderID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, r.listSQL, orderID)
	if err != nil {
		return nil, fmt.Errorf("listing links for order %q: %w", orderID, err)
	}
	ids, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (string, error) {
		var id string
		err := row.Scan(&id)
		return id, err
	})
	if err != nil {
		return nil, fmt.Errorf("listing links for order %q: %w", orderID, err)
	}
	return ids, nil
}
