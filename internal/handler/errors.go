package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/medikart/order-service/internal/domain/order"
	"github.com/medikart/order-service/internal/domain/prescription"
	"github.com/medikart/order-service/internal/domain/product"
)

// writeError maps a domain error to an HTTP status and JSON body.
// Unknown errors become opaque 500s; the detail goes to the log only.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		zctx.From(r.Context()).Error("request failed", zap.Error(err))
		writeJSON(w, status, errorBody{Code: status, Message: "internal error"})
		return
	}
	writeJSON(w, status, errorBody{Code: status, Message: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, order.ErrNotFound),
		errors.Is(err, product.ErrNotFound),
		errors.Is(err, prescription.ErrNotFound),
		errors.Is(err, prescription.ErrConsultationNotFound):
		return http.StatusNotFound
	case errors.Is(err, order.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, order.ErrEmptyCart),
		errors.Is(err, prescription.ErrReasonRequired):
		return http.StatusBadRequest
	case errors.Is(err, order.ErrStatusConflict),
		errors.Is(err, prescription.ErrAlreadyReviewed):
		return http.StatusConflict
	}

	var (
		invalidTransition *order.InvalidTransitionError
		terminal          *order.TerminalStateError
		cannotCancel      *order.CannotCancelError
		notApproved       *order.ComplianceNotApprovedError
		badQuantity       *order.InvalidQuantityError
		unavailable       *order.ProductUnavailableError
	)
	switch {
	case errors.As(err, &notApproved):
		// Distinct from a generic transition failure so clients can send
		// the user to the prescription or consultation flow.
		return http.StatusUnprocessableEntity
	case errors.As(err, &invalidTransition),
		errors.As(err, &terminal),
		errors.As(err, &cannotCancel):
		return http.StatusConflict
	case errors.As(err, &badQuantity),
		errors.As(err, &unavailable):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
