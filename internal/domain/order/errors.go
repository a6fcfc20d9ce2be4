package order

import (
	"fmt"

	"github.com/go-faster/errors"
)

// Sentinel errors for order commands and queries.
var (
	// ErrNotFound is returned when a requested order does not exist.
	ErrNotFound = errors.New("order not found")
	// ErrUnauthorized is returned when an order exists but belongs to a
	// different user. The message deliberately does not reveal the owner.
	ErrUnauthorized = errors.New("forbidden")
	// ErrEmptyCart is returned when checkout is attempted on a cart with
	// no items.
	ErrEmptyCart = errors.New("cannot checkout an empty cart")
	// ErrStatusConflict is returned when a status write loses a race:
	// the stored status no longer matches the one the transition was
	// validated against.
	ErrStatusConflict = errors.New("order was modified concurrently")
)

// InvalidTransitionError indicates a lifecycle transition that the state
// machine does not permit. Allowed lists every state reachable from From.
type InvalidTransitionError struct {
	From    Status
	To      Status
	Allowed []Status
}

func (e *InvalidTransitionError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("cannot transition order from %s to %s: %s is terminal", e.From, e.To, e.From)
	}
	return fmt.Sprintf("cannot transition order from %s to %s: allowed next states are %v", e.From, e.To, e.Allowed)
}

// TerminalStateError indicates a cancel attempt on an order that already
// reached a terminal state.
type TerminalStateError struct {
	Status Status
}

func (e *TerminalStateError) Error() string {
	return fmt.Sprintf("order is already %s and cannot be cancelled", e.Status)
}

// CannotCancelError indicates a cancel attempt on a non-terminal status
// outside the cancellable set.
type CannotCancelError struct {
	Status Status
}

func (e *CannotCancelError) Error() string {
	return fmt.Sprintf("order in status %s cannot be cancelled", e.Status)
}

// ComplianceNotApprovedError indicates a ship attempt on an order whose
// prescription requirement has not been approved yet. It is distinct
// from InvalidTransitionError so callers can route the user to the
// prescription or consultation flow.
type ComplianceNotApprovedError struct {
	OrderID string
	Status  ComplianceStatus
}

func (e *ComplianceNotApprovedError) Error() string {
	return fmt.Sprintf("order %s requires an approved prescription or consultation before shipping (compliance status: %s)", e.OrderID, e.Status)
}

// InvalidQuantityError indicates a cart operation with a non-positive
// quantity.
type InvalidQuantityError struct {
	ProductID string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for product %s", e.ProductID)
}

// ProductUnavailableError indicates an attempt to add a product that is
// not active in the catalog.
type ProductUnavailableError struct {
	ProductID string
}

func (e *ProductUnavailableError) Error() string {
	return fmt.Sprintf("product %s is not available for purchase", e.ProductID)
}
