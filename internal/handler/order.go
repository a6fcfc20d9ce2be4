package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/medikart/order-service/internal/domain/order"
)

// OrderHistory returns the user's paginated order history, excluding
// the draft order.
func (h *Handler) OrderHistory(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	p, err := h.queries.History(r.Context(), uid, order.PageRequest{Page: page, Limit: limit})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pageBody{p: p})
}

// GetOrder returns a single order with its compliance view when the
// order contains prescription-required products.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	d, err := h.queries.GetOrder(r.Context(), r.PathValue("id"), uid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detailBody{d: d})
}

// PayOrder marks a confirmed order as paid.
func (h *Handler) PayOrder(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, h.commands.Pay)
}

// ShipOrder ships a paid order, subject to the compliance gate.
func (h *Handler) ShipOrder(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, h.commands.Ship)
}

// DeliverOrder completes fulfilment of a shipped order.
func (h *Handler) DeliverOrder(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, h.commands.Deliver)
}

// CancelOrder cancels a non-terminal order.
func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, h.commands.Cancel)
}

// command runs one lifecycle transition endpoint: extract identity and
// order ID, invoke the command, map the result.
func (h *Handler) command(
	w http.ResponseWriter,
	r *http.Request,
	run func(ctx context.Context, orderID, userID string) (*order.Order, error),
) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	o, err := run(r.Context(), r.PathValue("id"), uid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orderBody{o: o})
}
