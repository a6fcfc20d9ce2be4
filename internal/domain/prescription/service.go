package prescription

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/medikart/order-service/internal/domain/order"
)

// Service handles artifact submission and review. Submission is always
// against an existing order owned by the submitting user, and writes
// the order link in the same operation.
type Service struct {
	prescriptions     Repository
	consultations     ConsultationRepository
	orders            order.Repository
	prescriptionLinks Linker
	consultationLinks Linker
}

// NewService creates a prescription Service with the required dependencies.
func NewService(
	prescriptions Repository,
	consultations ConsultationRepository,
	orders order.Repository,
	prescriptionLinks Linker,
	consultationLinks Linker,
) *Service {
	return &Service{
		prescriptions:     prescriptions,
		consultations:     consultations,
		orders:            orders,
		prescriptionLinks: prescriptionLinks,
		consultationLinks: consultationLinks,
	}
}

// SubmitPrescription creates a PENDING prescription and links it to the
// given order.
func (s *Service) SubmitPrescription(ctx context.Context, userID, orderID, fileReference string) (*Prescription, error) {
	if err := s.checkOrder(ctx, userID, orderID); err != nil {
		return nil, err
	}

	p := &Prescription{
		ID:            uuid.New().String(),
		UserID:        userID,
		FileReference: fileReference,
		Status:        StatusPending,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.prescriptions.Create(ctx, p); err != nil {
		return nil, errors.Wrap(err, "create prescription")
	}
	if err := s.prescriptionLinks.Add(ctx, orderID, p.ID); err != nil {
		return nil, errors.Wrap(err, "link prescription to order")
	}
	return p, nil
}

// SubmitConsultation creates a PENDING consultation request and links
// it to the given order.
func (s *Service) SubmitConsultation(ctx context.Context, userID, orderID string) (*ConsultationRequest, error) {
	if err := s.checkOrder(ctx, userID, orderID); err != nil {
		return nil, err
	}

	c := &ConsultationRequest{
		ID:        uuid.New().String(),
		UserID:    userID,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.consultations.Create(ctx, c); err != nil {
		return nil, errors.Wrap(err, "create consultation request")
	}
	if err := s.consultationLinks.Add(ctx, orderID, c.ID); err != nil {
		return nil, errors.Wrap(err, "link consultation to order")
	}
	return c, nil
}

// ReviewPrescription approves or rejects a pending prescription.
// Rejection requires a reason; a second review fails with
// ErrAlreadyReviewed.
func (s *Service) ReviewPrescription(ctx context.Context, id string, approve bool, reason string) (*Prescription, error) {
	if !approve && reason == "" {
		return nil, ErrReasonRequired
	}

	p, err := s.prescriptions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := review(p.Status, approve)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p.Status = next
	p.ReviewedAt = &now
	if next == StatusRejected {
		p.RejectionReason = reason
	}

	if err := s.prescriptions.Update(ctx, p); err != nil {
		return nil, errors.Wrap(err, "update prescription")
	}
	return p, nil
}

// ReviewConsultation approves or rejects a pending consultation request.
func (s *Service) ReviewConsultation(ctx context.Context, id string, approve bool) (*ConsultationRequest, error) {
	c, err := s.consultations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := review(c.Status, approve)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c.Status = next
	c.ReviewedAt = &now

	if err := s.consultations.Update(ctx, c); err != nil {
		return nil, errors.Wrap(err, "update consultation request")
	}
	return c, nil
}

// checkOrder verifies the order exists and belongs to userID.
func (s *Service) checkOrder(ctx context.Context, userID, orderID string) error {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if o.UserID != userID {
		return order.ErrUnauthorized
	}
	return nil
}
