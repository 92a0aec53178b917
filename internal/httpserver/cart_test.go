package httpserver

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"storefront/internal/domain"
	cartsvc "storefront/internal/service/cart"
)

func TestAddCartItem(t *testing.T) {
	router, d := newTestRouter(t, "")
	c := &domain.Cart{}
	c.Add(domain.Product{ID: "1", Name: "Jollof Rice", PriceCents: 1299})
	c.Add(domain.Product{ID: "1", Name: "Jollof Rice", PriceCents: 1299})
	d.cart.cart = c
	d.cart.notice = "Jollof Rice added to cart!"

	rec := do(router, http.MethodPost, "/cart/items", validToken, `{"productId":"1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	var body cartResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Notice != "Jollof Rice added to cart!" || body.ItemCount != 2 || body.Subtotal != "25.98" {
		t.Fatalf("unexpected cart response %+v", body)
	}
	if len(body.Items) != 1 || body.Items[0].LineTotal != "25.98" || body.Items[0].UnitPrice != "12.99" {
		t.Fatalf("unexpected items %+v", body.Items)
	}
	if d.cart.calls[0] != "add:1" {
		t.Fatalf("unexpected calls %v", d.cart.calls)
	}
}

func TestAddCartItem_Errors(t *testing.T) {
	router, d := newTestRouter(t, "")

	rec := do(router, http.MethodPost, "/cart/items", validToken, `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing product id, got %d", rec.Code)
	}

	d.cart.err = cartsvc.ErrOutOfStock
	rec = do(router, http.MethodPost, "/cart/items", validToken, `{"productId":"9"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}

	d.cart.err = cartsvc.ErrProductNotFound
	rec = do(router, http.MethodPost, "/cart/items", validToken, `{"productId":"404"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	d.cart.err = cartsvc.ErrNoSession
	rec = do(router, http.MethodPost, "/cart/items", validToken, `{"productId":"1"}`)
	if rec.Code != http.StatusUnauthorized || !strings.Contains(rec.Body.String(), "/signin") {
		t.Fatalf("expected sign-in redirect, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestSetQuantityAndRemove(t *testing.T) {
	router, d := newTestRouter(t, "")
	d.cart.notice = cartsvc.RemovedNotice

	rec := do(router, http.MethodPut, "/cart/items/3", validToken, `{"quantity":0}`)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Item removed from cart") {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}

	rec = do(router, http.MethodPut, "/cart/items/3", validToken, `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without quantity, got %d", rec.Code)
	}

	rec = do(router, http.MethodDelete, "/cart/items/3", validToken, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = do(router, http.MethodDelete, "/cart", validToken, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	want := []string{"set:3", "remove:3", "clear"}
	if strings.Join(d.cart.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected calls %v", d.cart.calls)
	}
}

func TestGetCart_Empty(t *testing.T) {
	router, _ := newTestRouter(t, "")

	rec := do(router, http.MethodGet, "/cart", validToken, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"items":[]`) || !strings.Contains(rec.Body.String(), `"subtotal":"0.00"`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}
