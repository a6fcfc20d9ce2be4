package handler

import (
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

const maxBodyBytes = 64 << 10

var errBadRequest = errors.New("malformed request body")

// decodeBody reads and decodes a small JSON request body. Unknown
// fields are skipped.
func decodeBody(r *http.Request, fields func(d *jx.Decoder, key string) error) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return errBadRequest
	}
	d := jx.DecodeBytes(body)
	if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		return fields(d, string(key))
	}); err != nil {
		return errBadRequest
	}
	return nil
}

type cartItemRequest struct {
	ProductID string
	Quantity  int
}

func decodeCartItem(r *http.Request) (cartItemRequest, error) {
	var req cartItemRequest
	err := decodeBody(r, func(d *jx.Decoder, key string) error {
		switch key {
		case "productId":
			v, err := d.Str()
			req.ProductID = v
			return err
		case "quantity":
			v, err := d.Int()
			req.Quantity = v
			return err
		default:
			return d.Skip()
		}
	})
	return req, err
}

type submitRequest struct {
	OrderID       string
	FileReference string
}

func decodeSubmit(r *http.Request) (submitRequest, error) {
	var req submitRequest
	err := decodeBody(r, func(d *jx.Decoder, key string) error {
		switch key {
		case "orderId":
			v, err := d.Str()
			req.OrderID = v
			return err
		case "fileReference":
			v, err := d.Str()
			req.FileReference = v
			return err
		default:
			return d.Skip()
		}
	})
	return req, err
}

type reviewRequest struct {
	Approve bool
	Reason  string
}

func decodeReview(r *http.Request) (reviewRequest, error) {
	var req reviewRequest
	err := decodeBody(r, func(d *jx.Decoder, key string) error {
		switch key {
		case "approve":
			v, err := d.Bool()
			req.Approve = v
			return err
		case "reason":
			v, err := d.Str()
			req.Reason = v
			return err
		default:
			return d.Skip()
		}
	})
	return req, err
}
