//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestListProducts(t *testing.T) {
	resp := doGet(t, "/api/products", "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	products := decodeJSON[[]productResponse](t, resp)
	if len(products) != 8 {
		t.Fatalf("expected 8 products, got %d", len(products))
	}

	var rxCount int
	for _, p := range products {
		if p.Name == "" {
			t.Errorf("product %s has empty name", p.ID)
		}
		if p.Price == "" || p.Price == "0.00" {
			t.Errorf("product %s has no price", p.ID)
		}
		if p.Currency != "USD" {
			t.Errorf("product %s currency: got %q, want USD", p.ID, p.Currency)
		}
		if p.RequiresPrescription {
			rxCount++
		}
	}
	if rxCount != 4 {
		t.Errorf("expected 4 prescription-only products, got %d", rxCount)
	}
}

func TestGetProduct(t *testing.T) {
	resp := doGet(t, "/api/products/prod-3", "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	p := decodeJSON[productResponse](t, resp)
	if p.ID != "prod-3" {
		t.Errorf("id: got %q, want prod-3", p.ID)
	}
	if !p.RequiresPrescription {
		t.Error("prod-3 should require a prescription")
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	resp := doGet(t, "/api/products/no-such-product", "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	body := decodeJSON[errorResponse](t, resp)
	if body.Code != http.StatusNotFound {
		t.Errorf("error code: got %d, want 404", body.Code)
	}
}
