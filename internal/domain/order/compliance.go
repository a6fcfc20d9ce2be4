package order

import "context"

// ComplianceStatus is the derived regulatory status of an order. It is
// never persisted: it is recomputed on every read from the order's
// items and the statuses of linked prescriptions and consultations.
type ComplianceStatus string

const (
	ComplianceApproved ComplianceStatus = "APPROVED"
	CompliancePending  ComplianceStatus = "PENDING"
	ComplianceRejected ComplianceStatus = "REJECTED"
)

// PrescriptionView is the read-only slice of a linked prescription
// exposed on order detail responses.
type PrescriptionView struct {
	ID              string
	Status          string
	RejectionReason string
}

// ConsultationView is the read-only slice of a linked consultation
// request exposed on order detail responses.
type ConsultationView struct {
	ID     string
	Status string
}

// ComplianceInfo is the read-only compliance view attached to order
// details. It exists only for orders containing prescription-required
// products; for all other orders the gate returns nil.
type ComplianceInfo struct {
	RequiresPrescription bool
	Status               ComplianceStatus
	Prescriptions        []PrescriptionView
	Consultations        []ConsultationView
}

// ComplianceGate decides whether an order may proceed to fulfilment.
// Payment is never routed through the gate; only the ship transition
// consults it.
type ComplianceGate interface {
	Status(ctx context.Context, orderID string) (ComplianceStatus, error)
	CanFulfil(ctx context.Context, orderID string) (bool, error)
	Info(ctx context.Context, orderID string) (*ComplianceInfo, error)
}
