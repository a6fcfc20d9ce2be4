// Package handler exposes the order, cart and prescription services
// over JSON HTTP. Routes use the net/http method+pattern mux; request
// identity comes from the X-User-ID header set by the upstream gateway
// (authentication itself is not this service's concern).
package handler

import (
	"net/http"

	"github.com/medikart/order-service/internal/domain/order"
	"github.com/medikart/order-service/internal/domain/prescription"
	"github.com/medikart/order-service/internal/domain/product"
)

// Handler holds the services behind the HTTP surface.
type Handler struct {
	products      product.Repository
	cart          *order.CartService
	commands      *order.CommandService
	queries       *order.QueryService
	prescriptions *prescription.Service
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	products product.Repository,
	cart *order.CartService,
	commands *order.CommandService,
	queries *order.QueryService,
	prescriptions *prescription.Service,
) *Handler {
	return &Handler{
		products:      products,
		cart:          cart,
		commands:      commands,
		queries:       queries,
		prescriptions: prescriptions,
	}
}

// Routes registers every endpoint on a fresh mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/products", h.ListProducts)
	mux.HandleFunc("GET /api/products/{id}", h.GetProduct)

	mux.HandleFunc("GET /api/cart", h.GetCart)
	mux.HandleFunc("POST /api/cart/items", h.AddCartItem)
	mux.HandleFunc("PATCH /api/cart/items/{productId}", h.UpdateCartItem)
	mux.HandleFunc("DELETE /api/cart/items/{productId}", h.RemoveCartItem)
	mux.HandleFunc("POST /api/cart/checkout", h.Checkout)

	mux.HandleFunc("GET /api/orders", h.OrderHistory)
	mux.HandleFunc("GET /api/orders/{id}", h.GetOrder)
	mux.HandleFunc("POST /api/orders/{id}/pay", h.PayOrder)
	mux.HandleFunc("POST /api/orders/{id}/ship", h.ShipOrder)
	mux.HandleFunc("POST /api/orders/{id}/deliver", h.DeliverOrder)
	mux.HandleFunc("POST /api/orders/{id}/cancel", h.CancelOrder)

	mux.HandleFunc("POST /api/prescriptions", h.SubmitPrescription)
	mux.HandleFunc("POST /api/prescriptions/{id}/review", h.ReviewPrescription)
	mux.HandleFunc("POST /api/consultations", h.SubmitConsultation)
	mux.HandleFunc("POST /api/consultations/{id}/review", h.ReviewConsultation)

	return mux
}
