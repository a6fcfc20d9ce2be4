package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/jx"

	"github.com/medikart/order-service/internal/domain/order"
	"github.com/medikart/order-service/internal/domain/prescription"
	"github.com/medikart/order-service/internal/domain/product"
)

// encoder is implemented by every response body in this package.
type encoder interface {
	Encode(e *jx.Encoder)
}

// writeJSON encodes body with jx and writes it with the given status.
func writeJSON(w http.ResponseWriter, status int, body encoder) {
	e := &jx.Encoder{}
	body.Encode(e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

type errorBody struct {
	Code    int
	Message string
}

func (b errorBody) Encode(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("code", func(e *jx.Encoder) { e.Int(b.Code) })
		e.Field("message", func(e *jx.Encoder) { e.Str(b.Message) })
	})
}

type orderBody struct{ o *order.Order }

func (b orderBody) Encode(e *jx.Encoder) {
	encodeOrder(e, b.o)
}

func encodeOrder(e *jx.Encoder, o *order.Order) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(o.ID) })
		e.Field("userId", func(e *jx.Encoder) { e.Str(o.UserID) })
		e.Field("status", func(e *jx.Encoder) { e.Str(string(o.Status)) })
		e.Field("items", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, item := range o.Items {
					encodeItem(e, item)
				}
			})
		})
		e.Field("total", func(e *jx.Encoder) { e.Str(o.Total().StringFixed(2)) })
		e.Field("createdAt", func(e *jx.Encoder) { e.Str(o.CreatedAt.Format(time.RFC3339)) })
		e.Field("updatedAt", func(e *jx.Encoder) { e.Str(o.UpdatedAt.Format(time.RFC3339)) })
	})
}

func encodeItem(e *jx.Encoder, item order.Item) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("productId", func(e *jx.Encoder) { e.Str(item.ProductID) })
		e.Field("productName", func(e *jx.Encoder) { e.Str(item.ProductName) })
		e.Field("unitPrice", func(e *jx.Encoder) { e.Str(item.UnitPrice.StringFixed(2)) })
		e.Field("currency", func(e *jx.Encoder) { e.Str(item.Currency) })
		e.Field("quantity", func(e *jx.Encoder) { e.Int(item.Quantity) })
		e.Field("subtotal", func(e *jx.Encoder) { e.Str(item.Subtotal().StringFixed(2)) })
	})
}

type pageBody struct{ p *order.Page }

func (b pageBody) Encode(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("orders", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for i := range b.p.Orders {
					encodeOrder(e, &b.p.Orders[i])
				}
			})
		})
		e.Field("page", func(e *jx.Encoder) { e.Int(b.p.Page) })
		e.Field("limit", func(e *jx.Encoder) { e.Int(b.p.Limit) })
		e.Field("total", func(e *jx.Encoder) { e.Int(b.p.Total) })
		e.Field("hasNext", func(e *jx.Encoder) { e.Bool(b.p.HasNext) })
		e.Field("hasPrevious", func(e *jx.Encoder) { e.Bool(b.p.HasPrevious) })
	})
}

type detailBody struct{ d *order.Detail }

func (b detailBody) Encode(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("order", func(e *jx.Encoder) { encodeOrder(e, b.d.Order) })
		if b.d.Compliance != nil {
			e.Field("compliance", func(e *jx.Encoder) { encodeCompliance(e, b.d.Compliance) })
		}
	})
}

func encodeCompliance(e *jx.Encoder, info *order.ComplianceInfo) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("requiresPrescription", func(e *jx.Encoder) { e.Bool(info.RequiresPrescription) })
		e.Field("status", func(e *jx.Encoder) { e.Str(string(info.Status)) })
		if len(info.Prescriptions) > 0 {
			e.Field("prescriptions", func(e *jx.Encoder) {
				e.Arr(func(e *jx.Encoder) {
					for _, p := range info.Prescriptions {
						e.Obj(func(e *jx.Encoder) {
							e.Field("id", func(e *jx.Encoder) { e.Str(p.ID) })
							e.Field("status", func(e *jx.Encoder) { e.Str(p.Status) })
							if p.RejectionReason != "" {
								e.Field("rejectionReason", func(e *jx.Encoder) { e.Str(p.RejectionReason) })
							}
						})
					}
				})
			})
		}
		if len(info.Consultations) > 0 {
			e.Field("consultations", func(e *jx.Encoder) {
				e.Arr(func(e *jx.Encoder) {
					for _, c := range info.Consultations {
						e.Obj(func(e *jx.Encoder) {
							e.Field("id", func(e *jx.Encoder) { e.Str(c.ID) })
							e.Field("status", func(e *jx.Encoder) { e.Str(c.Status) })
						})
					}
				})
			})
		}
	})
}

type productBody struct{ p *product.Product }

func (b productBody) Encode(e *jx.Encoder) {
	encodeProduct(e, b.p)
}

func encodeProduct(e *jx.Encoder, p *product.Product) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(p.ID) })
		e.Field("name", func(e *jx.Encoder) { e.Str(p.Name) })
		e.Field("price", func(e *jx.Encoder) { e.Str(p.Price.StringFixed(2)) })
		e.Field("currency", func(e *jx.Encoder) { e.Str(p.Currency) })
		e.Field("category", func(e *jx.Encoder) { e.Str(p.Category) })
		e.Field("requiresPrescription", func(e *jx.Encoder) { e.Bool(p.RequiresPrescription) })
	})
}

type productListBody struct{ products []product.Product }

func (b productListBody) Encode(e *jx.Encoder) {
	e.Arr(func(e *jx.Encoder) {
		for i := range b.products {
			encodeProduct(e, &b.products[i])
		}
	})
}

type prescriptionBody struct{ p *prescription.Prescription }

func (b prescriptionBody) Encode(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(b.p.ID) })
		e.Field("userId", func(e *jx.Encoder) { e.Str(b.p.UserID) })
		e.Field("status", func(e *jx.Encoder) { e.Str(string(b.p.Status)) })
		if b.p.ReviewedAt != nil {
			e.Field("reviewedAt", func(e *jx.Encoder) { e.Str(b.p.ReviewedAt.Format(time.RFC3339)) })
		}
		if b.p.RejectionReason != "" {
			e.Field("rejectionReason", func(e *jx.Encoder) { e.Str(b.p.RejectionReason) })
		}
	})
}

type consultationBody struct{ c *prescription.ConsultationRequest }

func (b consultationBody) Encode(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(b.c.ID) })
		e.Field("userId", func(e *jx.Encoder) { e.Str(b.c.UserID) })
		e.Field("status", func(e *jx.Encoder) { e.Str(string(b.c.Status)) })
		if b.c.ReviewedAt != nil {
			e.Field("reviewedAt", func(e *jx.Encoder) { e.Str(b.c.ReviewedAt.Format(time.RFC3339)) })
		}
	})
}
