// Package prescription holds the compliance artifacts a user can submit
// against an order: uploaded prescriptions and doctor consultation
// requests. Both share the same review lifecycle: created PENDING,
// reviewed exactly once to APPROVED or REJECTED.
package prescription

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// Status enumerates the review states of a compliance artifact.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

var (
	// ErrNotFound is returned when a requested prescription does not exist.
	ErrNotFound = errors.New("prescription not found")
	// ErrConsultationNotFound is returned when a requested consultation
	// request does not exist.
	ErrConsultationNotFound = errors.New("consultation request not found")
	// ErrAlreadyReviewed is returned when reviewing an artifact that has
	// already been approved or rejected. Reviews happen exactly once.
	ErrAlreadyReviewed = errors.New("already reviewed")
	// ErrReasonRequired is returned when a prescription rejection is
	// submitted without a reason.
	ErrReasonRequired = errors.New("rejection reason required")
)

// Prescription is an uploaded prescription document awaiting pharmacist
// review. FileReference is an opaque pointer into the upload store and
// is never interpreted here.
type Prescription struct {
	ID              string
	UserID          string
	FileReference   string
	Status          Status
	ReviewedAt      *time.Time
	RejectionReason string
	CreatedAt       time.Time
}

// ConsultationRequest is a request for a doctor consultation, reviewed
// the same way a prescription is, minus the file and rejection reason.
type ConsultationRequest struct {
	ID         string
	UserID     string
	Status     Status
	ReviewedAt *time.Time
	CreatedAt  time.Time
}

// review transitions a PENDING artifact to APPROVED or REJECTED.
func review(current Status, approve bool) (Status, error) {
	if current != StatusPending {
		return current, ErrAlreadyReviewed
	}
	if approve {
		return StatusApproved, nil
	}
	return StatusRejected, nil
}

// Repository defines persistence operations for prescriptions.
type Repository interface {
	Create(ctx context.Context, p *Prescription) error
	GetByID(ctx context.Context, id string) (*Prescription, error)
	Update(ctx context.Context, p *Prescription) error
}

// ConsultationRepository defines persistence operations for
// consultation requests.
type ConsultationRepository interface {
	Create(ctx context.Context, c *ConsultationRequest) error
	GetByID(ctx context.Context, id string) (*ConsultationRequest, error)
	Update(ctx context.Context, c *ConsultationRequest) error
}

// Linker records a submitted artifact against an order. The write side
// of the link tables lives here; the compliance gate owns the read side.
type Linker interface {
	Add(ctx context.Context, orderID, artifactID string) error
}
