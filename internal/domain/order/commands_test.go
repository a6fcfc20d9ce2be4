package order

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandService_Checkout(t *testing.T) {
	repo := newOrderRepo(newTestOrder("o-1", "user-1", StatusDraft, testItem("prod-1", "6.49", 1)))
	svc := NewCommandService(repo, &stubGate{status: ComplianceApproved})

	o, err := svc.Checkout(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, o.Status)
}

func TestCommandService_Checkout_NoCart(t *testing.T) {
	svc := NewCommandService(newOrderRepo(), &stubGate{})

	_, err := svc.Checkout(context.Background(), "user-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCommandService_Checkout_EmptyCart(t *testing.T) {
	repo := newOrderRepo(newTestOrder("o-1", "user-1", StatusDraft))
	svc := NewCommandService(repo, &stubGate{})

	_, err := svc.Checkout(context.Background(), "user-1")
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCommandService_Pay(t *testing.T) {
	repo := newOrderRepo(newTestOrder("o-1", "user-1", StatusConfirmed, testItem("prod-1", "6.49", 1)))
	gate := &stubGate{status: CompliancePending}
	svc := NewCommandService(repo, gate)

	o, err := svc.Pay(context.Background(), "o-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, o.Status)

	// Payment never consults compliance.
	assert.Zero(t, gate.calls)
}

func TestCommandService_Pay_InvalidFromDraft(t *testing.T) {
	repo := newOrderRepo(newTestOrder("o-1", "user-1", StatusDraft, testItem("prod-1", "6.49", 1)))
	svc := NewCommandService(repo, &stubGate{})

	_, err := svc.Pay(context.Background(), "o-1", "user-1")
	var invalid *InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, StatusDraft, invalid.From)
	assert.Equal(t, StatusPaid, invalid.To)
	assert.ElementsMatch(t, []Status{StatusConfirmed, StatusCancelled}, invalid.Allowed)
}

func TestCommandService_Pay_Unauthorized(t *testing.T) {
	repo := newOrderRepo(newTestOrder("o-1", "user-1", StatusConfirmed, testItem("prod-1", "6.49", 1)))
	svc := NewCommandService(repo, &stubGate{})

	_, err := svc.Pay(context.Background(), "o-1", "user-2")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestCommandService_Pay_NotFound(t *testing.T) {
	svc := NewCommandService(newOrderRepo(), &stubGate{})

	_, err := svc.Pay(context.Background(), "missing", "user-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCommandService_Ship_Approved(t *testing.T) {
	repo := newOrderRepo(newTestOrder("o-1", "user-1", StatusPaid, testItem("prod-1", "6.49", 1)))
	gate := &stubGate{status: ComplianceApproved}
	svc := NewCommandService(repo, gate)

	o, err := svc.Ship(context.Background(), "o-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, o.Status)
	assert.Equal(t, 1, gate.calls)
}

func TestCommandService_Ship_ComplianceNotApproved(t *testing.T) {
	for _, status := range []ComplianceStatus{CompliancePending, ComplianceRejected} {
		repo := newOrderRepo(newTestOrder("o-1", "user-1", StatusPaid, testItem("prod-1", "6.49", 1)))
		svc := NewCommandService(repo, &stubGate{status: status})

		_, err := svc.Ship(context.Background(), "o-1", "user-1")
		var notApproved *ComplianceNotApprovedError
		require.ErrorAs(t, err, &notApproved)
		assert.Equal(t, "o-1", notApproved.OrderID)
		assert.Equal(t, status, notApproved.Status)

		// The order must stay PAID.
		stored, err := repo.GetByID(context.Background(), "o-1")
		require.NoError(t, err)
		assert.Equal(t, StatusPaid, stored.Status)
	}
}

func TestCommandService_Ship_InvalidStateSkipsGate(t *testing.T) {
	repo := newOrderRepo(newTestOrder("o-1", "user-1", StatusConfirmed, testItem("prod-1", "6.49", 1)))
	gate := &stubGate{status: ComplianceApproved}
	svc := NewCommandService(repo, gate)

	_, err := svc.Ship(context.Background(), "o-1", "user-1")
	var invalid *InvalidTransitionError
	require.ErrorAs(t, err, &invalid)

	// State machine check comes first; the gate is never consulted.
	assert.Zero(t, gate.calls)
}

func TestCommandService_Deliver(t *testing.T) {
	repo := newOrderRepo(newTestOrder("o-1", "user-1", StatusShipped, testItem("prod-1", "6.49", 1)))
	svc := NewCommandService(repo, &stubGate{})

	o, err := svc.Deliver(context.Background(), "o-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, o.Status)
}

func TestCommandService_Cancel_FromAnyNonTerminalState(t *testing.T) {
	for _, from := range []Status{StatusDraft, StatusConfirmed, StatusPaid, StatusShipped} {
		repo := newOrderRepo(newTestOrder("o-1", "user-1", from, testItem("prod-1", "6.49", 1)))
		svc := NewCommandService(repo, &stubGate{})

		o, err := svc.Cancel(context.Background(), "o-1", "user-1")
		require.NoError(t, err, "cancel from %s", from)
		assert.Equal(t, StatusCancelled, o.Status)
	}
}

func TestCommandService_Cancel_TerminalState(t *testing.T) {
	for _, from := range []Status{StatusDelivered, StatusCancelled} {
		repo := newOrderRepo(newTestOrder("o-1", "user-1", from, testItem("prod-1", "6.49", 1)))
		svc := NewCommandService(repo, &stubGate{})

		_, err := svc.Cancel(context.Background(), "o-1", "user-1")
		var terminal *TerminalStateError
		require.ErrorAs(t, err, &terminal, "cancel from %s", from)
		assert.Equal(t, from, terminal.Status)
	}
}

func TestCommandService_ConcurrentTransitionConflict(t *testing.T) {
	repo := newOrderRepo(newTestOrder("o-1", "user-1", StatusConfirmed, testItem("prod-1", "6.49", 1)))
	svc := NewCommandService(repo, &stubGate{status: ComplianceApproved})

	_, err := svc.Pay(context.Background(), "o-1", "user-1")
	require.NoError(t, err)

	// A second Pay validated against the stale CONFIRMED snapshot loses
	// the race inside the repository.
	repo.orders["o-1"].Status = StatusConfirmed
	repo.statusErr = ErrStatusConflict
	_, err = svc.Pay(context.Background(), "o-1", "user-1")
	assert.ErrorIs(t, err, ErrStatusConflict)
}
