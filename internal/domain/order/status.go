package order

import "fmt"

// Status enumerates the order lifecycle states.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusConfirmed Status = "CONFIRMED"
	StatusPaid      Status = "PAID"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

// transitions is the full lifecycle state machine. Terminal states map
// to an empty slice rather than being absent, so ValidateTransition can
// distinguish "terminal state" from "unknown state".
var transitions = map[Status][]Status{
	StatusDraft:     {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusPaid, StatusCancelled},
	StatusPaid:      {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered, StatusCancelled},
	StatusDelivered: {},
	StatusCancelled: {},
}

// TransitionCheck is the result of validating a status transition.
// Allowed always holds the complete set of states reachable from the
// source status, valid or not, so callers can build precise errors.
type TransitionCheck struct {
	Valid   bool
	Reason  string
	Allowed []Status
}

// ValidateTransition reports whether from → to is a legal lifecycle
// transition.
func ValidateTransition(from, to Status) TransitionCheck {
	allowed, ok := transitions[from]
	if !ok {
		return TransitionCheck{
			Reason: fmt.Sprintf("unknown order status %q", from),
		}
	}
	for _, s := range allowed {
		if s == to {
			return TransitionCheck{Valid: true, Allowed: allowed}
		}
	}
	return TransitionCheck{
		Reason:  fmt.Sprintf("cannot transition order from %s to %s", from, to),
		Allowed: allowed,
	}
}

// IsTerminal reports whether s has no outgoing transitions.
func IsTerminal(s Status) bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanCancel reports whether an order in status s may still be cancelled.
func CanCancel(s Status) bool {
	switch s {
	case StatusDraft, StatusConfirmed, StatusPaid, StatusShipped:
		return true
	default:
		return false
	}
}

// ValidStatus reports whether s is a member of the lifecycle state set.
func ValidStatus(s Status) bool {
	_, ok := transitions[s]
	return ok
}
