// Package compliance derives the regulatory status of an order. The
// status is a pure function of the order's items and the review states
// of linked prescriptions and consultations; it is recomputed on every
// read and never stored on the order.
package compliance

import (
	"context"

	"github.com/go-faster/errors"
	"golang.org/x/sync/errgroup"

	"github.com/medikart/order-service/internal/domain/order"
	"github.com/medikart/order-service/internal/domain/prescription"
	"github.com/medikart/order-service/internal/domain/product"
)

// LinkRepository is the read side of an order↔artifact association
// table. The write side is prescription.Linker.
type LinkRepository interface {
	Add(ctx context.Context, orderID, artifactID string) error
	ListByOrder(ctx context.Context, orderID string) ([]string, error)
}

// Gate implements order.ComplianceGate.
//
// Resolution precedence is deliberate business logic, not last write
// wins: an APPROVED prescription or consultation on either channel
// makes the order APPROVED even when another linked artifact was
// rejected. A user whose prescription was rejected can unblock the
// order with an approved consultation without resubmitting.
type Gate struct {
	orders            order.Repository
	products          product.Repository
	prescriptions     prescription.Repository
	consultations     prescription.ConsultationRepository
	prescriptionLinks LinkRepository
	consultationLinks LinkRepository
}

var _ order.ComplianceGate = (*Gate)(nil)

// NewGate creates a Gate with the required dependencies.
func NewGate(
	orders order.Repository,
	products product.Repository,
	prescriptions prescription.Repository,
	consultations prescription.ConsultationRepository,
	prescriptionLinks LinkRepository,
	consultationLinks LinkRepository,
) *Gate {
	return &Gate{
		orders:            orders,
		products:          products,
		prescriptions:     prescriptions,
		consultations:     consultations,
		prescriptionLinks: prescriptionLinks,
		consultationLinks: consultationLinks,
	}
}

// Status derives the compliance status for an order.
func (g *Gate) Status(ctx context.Context, orderID string) (order.ComplianceStatus, error) {
	ev, err := g.evaluate(ctx, orderID)
	if err != nil {
		return "", err
	}
	return ev.status, nil
}

// CanFulfil reports whether the order may proceed to shipping.
func (g *Gate) CanFulfil(ctx context.Context, orderID string) (bool, error) {
	status, err := g.Status(ctx, orderID)
	if err != nil {
		return false, err
	}
	return status == order.ComplianceApproved, nil
}

// Info returns the read-only compliance view for an order detail, or
// nil when the order has no prescription-required items.
func (g *Gate) Info(ctx context.Context, orderID string) (*order.ComplianceInfo, error) {
	ev, err := g.evaluate(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !ev.requiresPrescription {
		return nil, nil
	}
	return &order.ComplianceInfo{
		RequiresPrescription: true,
		Status:               ev.status,
		Prescriptions:        ev.prescriptions,
		Consultations:        ev.consultations,
	}, nil
}

// evaluation is the result of one derivation pass.
type evaluation struct {
	requiresPrescription bool
	status               order.ComplianceStatus
	prescriptions        []order.PrescriptionView
	consultations        []order.ConsultationView
}

func (g *Gate) evaluate(ctx context.Context, orderID string) (*evaluation, error) {
	// A missing order or an empty item list derives to PENDING, never
	// APPROVED and never an error: the safe default blocks fulfilment.
	o, err := g.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			return &evaluation{requiresPrescription: true, status: order.CompliancePending}, nil
		}
		return nil, errors.Wrap(err, "load order")
	}
	if len(o.Items) == 0 {
		return &evaluation{requiresPrescription: true, status: order.CompliancePending}, nil
	}

	required, err := g.requiresPrescription(ctx, o)
	if err != nil {
		return nil, err
	}
	if !required {
		// No regulated products: auto-approved, links are not consulted.
		return &evaluation{status: order.ComplianceApproved}, nil
	}

	// The two link tables are independent; fetch them concurrently.
	var prescriptionIDs, consultationIDs []string
	grp, grpCtx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		var err error
		prescriptionIDs, err = g.prescriptionLinks.ListByOrder(grpCtx, o.ID)
		if err != nil {
			return errors.Wrap(err, "list prescription links")
		}
		return nil
	})
	grp.Go(func() error {
		var err error
		consultationIDs, err = g.consultationLinks.ListByOrder(grpCtx, o.ID)
		if err != nil {
			return errors.Wrap(err, "list consultation links")
		}
		return nil
	})
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	ev := &evaluation{requiresPrescription: true}
	var hasApproved, hasRejected bool

	for _, id := range prescriptionIDs {
		p, err := g.prescriptions.GetByID(ctx, id)
		if err != nil {
			// A link whose target was deleted is skipped, not an error.
			if errors.Is(err, prescription.ErrNotFound) {
				continue
			}
			return nil, errors.Wrap(err, "load prescription")
		}
		ev.prescriptions = append(ev.prescriptions, order.PrescriptionView{
			ID:              p.ID,
			Status:          string(p.Status),
			RejectionReason: p.RejectionReason,
		})
		switch p.Status {
		case prescription.StatusApproved:
			hasApproved = true
		case prescription.StatusRejected:
			hasRejected = true
		}
	}

	for _, id := range consultationIDs {
		c, err := g.consultations.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, prescription.ErrConsultationNotFound) {
				continue
			}
			return nil, errors.Wrap(err, "load consultation request")
		}
		ev.consultations = append(ev.consultations, order.ConsultationView{
			ID:     c.ID,
			Status: string(c.Status),
		})
		switch c.Status {
		case prescription.StatusApproved:
			hasApproved = true
		case prescription.StatusRejected:
			hasRejected = true
		}
	}

	// Approval on either channel wins over any rejection. With no links,
	// or only pending ones, the order is still waiting on evidence.
	switch {
	case hasApproved:
		ev.status = order.ComplianceApproved
	case hasRejected:
		ev.status = order.ComplianceRejected
	default:
		ev.status = order.CompliancePending
	}
	return ev, nil
}

// requiresPrescription reports whether any distinct product in the
// order is prescription-only.
func (g *Gate) requiresPrescription(ctx context.Context, o *order.Order) (bool, error) {
	seen := make(map[string]struct{}, len(o.Items))
	ids := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}

	products, err := g.products.GetByIDs(ctx, ids)
	if err != nil {
		return false, errors.Wrap(err, "get products")
	}
	for _, p := range products {
		if p.RequiresPrescription {
			return true, nil
		}
	}
	return false, nil
}
