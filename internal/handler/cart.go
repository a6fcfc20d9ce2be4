package handler

import "net/http"

// userID extracts the caller identity injected by the upstream gateway.
// Requests without it are rejected before touching any service.
func userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.Header.Get("X-User-ID")
	if id == "" {
		writeJSON(w, http.StatusUnauthorized, errorBody{
			Code:    http.StatusUnauthorized,
			Message: "missing X-User-ID header",
		})
		return "", false
	}
	return id, true
}

// GetCart returns the user's draft order. 204 when no cart exists.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	o, err := h.cart.GetCart(r.Context(), uid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if o == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, orderBody{o: o})
}

// AddCartItem adds a product line to the cart, creating the cart when
// needed.
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	req, err := decodeCartItem(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: http.StatusBadRequest, Message: err.Error()})
		return
	}
	o, err := h.cart.AddItem(r.Context(), uid, req.ProductID, req.Quantity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orderBody{o: o})
}

// UpdateCartItem sets the quantity of an existing line.
func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	req, err := decodeCartItem(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: http.StatusBadRequest, Message: err.Error()})
		return
	}
	o, err := h.cart.UpdateItem(r.Context(), uid, r.PathValue("productId"), req.Quantity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orderBody{o: o})
}

// RemoveCartItem deletes a line; removing an absent line succeeds.
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	o, err := h.cart.RemoveItem(r.Context(), uid, r.PathValue("productId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orderBody{o: o})
}

// Checkout confirms the draft order.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	o, err := h.cart.Confirm(r.Context(), uid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orderBody{o: o})
}
