package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medikart/order-service/internal/domain/prescription"
)

const (
	createPrescriptionSQL = `INSERT INTO prescriptions
		(id, user_id, file_reference, status, reviewed_at, rejection_reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	getPrescriptionSQL = `SELECT id, user_id, file_reference, status, reviewed_at, rejection_reason, created_at
		FROM prescriptions WHERE id = $1`

	updatePrescriptionSQL = `UPDATE prescriptions
		SET status = $2, reviewed_at = $3, rejection_reason = $4
		WHERE id = $1`
)

var _ prescription.Repository = (*PrescriptionRepository)(nil)

// PrescriptionRepository implements prescription.Repository backed by
// PostgreSQL.
type PrescriptionRepository struct {
	pool *pgxpool.Pool
}

// NewPrescriptionRepository returns a PrescriptionRepository that uses
// the given pool.
func NewPrescriptionRepository(pool *pgxpool.Pool) *PrescriptionRepository {
	return &PrescriptionRepository{pool: pool}
}

// Create persists a new prescription.
func (r *PrescriptionRepository) Create(ctx context.Context, p *prescription.Prescription) error {
	_, err := r.pool.Exec(ctx, createPrescriptionSQL,
		p.ID, p.UserID, p.FileReference, string(p.Status), p.ReviewedAt, p.RejectionReason, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating prescription %q: %w", p.ID, err)
	}
	return nil
}

// GetByID returns a single prescription by its identifier.
func (r *PrescriptionRepository) GetByID(ctx context.Context, id string) (*prescription.Prescription, error) {
	rows, err := r.pool.Query(ctx, getPrescriptionSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting prescription %q: %w", id, err)
	}
	p, err := pgx.CollectExactlyOneRow(rows, scanPrescription)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, prescription.ErrNotFound
		}
		return nil, fmt.Errorf("getting prescription %q: %w", id, err)
	}
	return &p, nil
}

// Update persists the review outcome of a prescription.
func (r *PrescriptionRepository) Update(ctx context.Context, p *prescription.Prescription) error {
	tag, err := r.pool.Exec(ctx, updatePrescriptionSQL,
		p.ID, string(p.Status), p.ReviewedAt, p.RejectionReason,
	)
	if err != nil {
		return fmt.Errorf("updating prescription %q: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return prescription.ErrNotFound
	}
	return nil
}

func scanPrescription(row pgx.CollectableRow) (prescription.Prescription, error) {
	var (
		p      prescription.Prescription
		status string
	)
	err := row.Scan(&p.ID, &p.UserID, &p.FileReference, &status, &p.ReviewedAt, &p.RejectionReason, &p.CreatedAt)
	p.Status = prescription.Status(status)
	return p, err
}
