package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTransition_FullMatrix(t *testing.T) {
	valid := map[Status][]Status{
		StatusDraft:     {StatusConfirmed, StatusCancelled},
		StatusConfirmed: {StatusPaid, StatusCancelled},
		StatusPaid:      {StatusShipped, StatusCancelled},
		StatusShipped:   {StatusDelivered, StatusCancelled},
		StatusDelivered: {},
		StatusCancelled: {},
	}
	all := []Status{
		StatusDraft, StatusConfirmed, StatusPaid,
		StatusShipped, StatusDelivered, StatusCancelled,
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, s := range valid[from] {
				if s == to {
					want = true
				}
			}

			chk := ValidateTransition(from, to)
			assert.Equal(t, want, chk.Valid, "%s -> %s", from, to)
			if !want {
				assert.NotEmpty(t, chk.Reason, "%s -> %s", from, to)
			}
			assert.ElementsMatch(t, valid[from], chk.Allowed, "allowed set for %s", from)
		}
	}
}

func TestValidateTransition_SelfTransitionRejected(t *testing.T) {
	chk := ValidateTransition(StatusPaid, StatusPaid)
	assert.False(t, chk.Valid)
}

func TestValidateTransition_UnknownStatus(t *testing.T) {
	chk := ValidateTransition(Status("SHIPPED_BACK"), StatusDelivered)
	require.False(t, chk.Valid)
	assert.Contains(t, chk.Reason, "unknown order status")
	assert.Nil(t, chk.Allowed)
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(StatusDelivered))
	assert.True(t, IsTerminal(StatusCancelled))
	assert.False(t, IsTerminal(StatusDraft))
	assert.False(t, IsTerminal(StatusShipped))
}

func TestCanCancel(t *testing.T) {
	assert.True(t, CanCancel(StatusDraft))
	assert.True(t, CanCancel(StatusConfirmed))
	assert.True(t, CanCancel(StatusPaid))
	assert.True(t, CanCancel(StatusShipped))
	assert.False(t, CanCancel(StatusDelivered))
	assert.False(t, CanCancel(StatusCancelled))
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusDraft))
	assert.True(t, ValidStatus(StatusCancelled))
	assert.False(t, ValidStatus(Status("REFUNDED")))
	assert.False(t, ValidStatus(Status("")))
}
