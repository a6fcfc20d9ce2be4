package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// CommandService executes order lifecycle transitions. Every command
// loads the order, verifies ownership, validates the transition against
// the state machine, and only then persists the new status. The status
// write carries the expected current status, so a concurrent transition
// on the same order surfaces as ErrStatusConflict instead of silently
// overwriting.
//
// Only Ship consults the compliance gate. Pay never does: payment and
// compliance are deliberately independent.
type CommandService struct {
	orders Repository
	gate   ComplianceGate
}

// NewCommandService creates a CommandService with the required dependencies.
func NewCommandService(orders Repository, gate ComplianceGate) *CommandService {
	return &CommandService{
		orders: orders,
		gate:   gate,
	}
}

// Checkout confirms the user's draft order, DRAFT → CONFIRMED. It fails
// with ErrNotFound when the user has no cart and with ErrEmptyCart when
// the cart has no items.
func (s *CommandService) Checkout(ctx context.Context, userID string) (*Order, error) {
	o, err := s.orders.FindDraftByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(o.Items) == 0 {
		return nil, ErrEmptyCart
	}
	return s.transition(ctx, o, StatusConfirmed, "checkout")
}

// Pay marks a confirmed order as paid, CONFIRMED → PAID. Compliance is
// not consulted here.
func (s *CommandService) Pay(ctx context.Context, orderID, userID string) (*Order, error) {
	o, err := s.load(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, o, StatusPaid, "pay")
}

// Ship moves a paid order to SHIPPED. In addition to the state-machine
// check, the compliance gate must report APPROVED; orders without
// prescription-required items are auto-approved by the gate.
func (s *CommandService) Ship(ctx context.Context, orderID, userID string) (*Order, error) {
	o, err := s.load(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}

	if chk := ValidateTransition(o.Status, StatusShipped); !chk.Valid {
		return nil, &InvalidTransitionError{From: o.Status, To: StatusShipped, Allowed: chk.Allowed}
	}

	status, err := s.gate.Status(ctx, o.ID)
	if err != nil {
		return nil, errors.Wrap(err, "compliance status")
	}
	if status != ComplianceApproved {
		return nil, &ComplianceNotApprovedError{OrderID: o.ID, Status: status}
	}

	return s.transition(ctx, o, StatusShipped, "ship")
}

// Deliver completes fulfilment, SHIPPED → DELIVERED.
func (s *CommandService) Deliver(ctx context.Context, orderID, userID string) (*Order, error) {
	o, err := s.load(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, o, StatusDelivered, "deliver")
}

// Cancel cancels an order from any non-terminal state. Terminal orders
// fail with TerminalStateError so clients get a more specific message
// than a generic invalid transition.
func (s *CommandService) Cancel(ctx context.Context, orderID, userID string) (*Order, error) {
	o, err := s.load(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if IsTerminal(o.Status) {
		return nil, &TerminalStateError{Status: o.Status}
	}
	if !CanCancel(o.Status) {
		return nil, &CannotCancelError{Status: o.Status}
	}
	return s.transition(ctx, o, StatusCancelled, "cancel")
}

// load fetches the order and enforces ownership. The unauthorized error
// is the same regardless of who owns the order.
func (s *CommandService) load(ctx context.Context, orderID, userID string) (*Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, ErrUnauthorized
	}
	return o, nil
}

func (s *CommandService) transition(ctx context.Context, o *Order, to Status, action string) (*Order, error) {
	chk := ValidateTransition(o.Status, to)
	if !chk.Valid {
		return nil, &InvalidTransitionError{From: o.Status, To: to, Allowed: chk.Allowed}
	}

	from := o.Status
	if err := s.orders.UpdateStatus(ctx, o.ID, from, to); err != nil {
		return nil, err
	}
	o.Status = to
	o.UpdatedAt = time.Now().UTC()

	zctx.From(ctx).Info("order status changed",
		zap.String("action", action),
		zap.String("order_id", o.ID),
		zap.String("user_id", o.UserID),
		zap.String("previous_state", string(from)),
		zap.String("next_state", string(to)),
	)

	return o, nil
}
