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
	createConsultationSQL = `INSERT INTO consultation_requests
		(id, user_id, status, reviewed_at, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	getConsultationSQL = `SELECT id, user_id, status, reviewed_at, created_at
		FROM consultation_requests WHERE id = $1`

	updateConsultationSQL = `UPDATE consultation_requests
		SET status = $2, reviewed_at = $3
		WHERE id = $1`
)

var _ prescription.ConsultationRepository = (*ConsultationRepository)(nil)

// ConsultationRepository implements prescription.ConsultationRepository
// backed by PostgreSQL.
type ConsultationRepository struct {
	pool *pgxpool.Pool
}

// NewConsultationRepository returns a ConsultationRepository that uses
// the given pool.
func NewConsultationRepository(pool *pgxpool.Pool) *ConsultationRepository {
	return &ConsultationRepository{pool: pool}
}

// Create persists a new consultation request.
func (r *ConsultationRepository) Create(ctx context.Context, c *prescription.ConsultationRequest) error {
	_, err := r.pool.Exec(ctx, createConsultationSQL,
		c.ID, c.UserID, string(c.Status), c.ReviewedAt, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating consultation request %q: %w", c.ID, err)
	}
	return nil
}

// GetByID returns a single consultation request by its identifier.
func (r *ConsultationRepository) GetByID(ctx context.Context, id string) (*prescription.ConsultationRequest, error) {
	rows, err := r.pool.Query(ctx, getConsultationSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting consultation request %q: %w", id, err)
	}
	c, err := pgx.CollectExactlyOneRow(rows, scanConsultation)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, prescription.ErrConsultationNotFound
		}
		return nil, fmt.Errorf("getting consultation request %q: %w", id, err)
	}
	return &c, nil
}

// Update persists the review outcome of a consultation request.
func (r *ConsultationRepository) Update(ctx context.Context, c *prescription.ConsultationRequest) error {
	tag, err := r.pool.Exec(ctx, updateConsultationSQL,
		c.ID, string(c.Status), c.ReviewedAt,
	)
	if err != nil {
		return fmt.Errorf("updating consultation request %q: %w", c.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return prescription.ErrConsultationNotFound
	}
	return nil
}

func scanConsultation(row pgx.CollectableRow) (prescription.ConsultationRequest, error) {
	var (
		c      prescription.ConsultationRequest
		status string
	)
	err := row.Scan(&c.ID, &c.UserID, &status, &c.ReviewedAt, &c.CreatedAt)
	c.Status = prescription.Status(status)
	return c, err
}
