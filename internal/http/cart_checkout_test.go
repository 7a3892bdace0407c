package handlers_test

import (
	"net/http"
	"testing"

	"gymfit/internal/http/handlers"
)

func TestGuestCartMergesIntoCheckout(t *testing.T) {
	app := newApp(t, handlers.Options{})

	// guest cart lives under the sid cookie
	resp, body := do(t, app, newReq("POST", "/api/v1/cart/items", map[string]any{"productId": "p-whey", "quantity": 2}))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("guest add expected 200, got %d %v", resp.StatusCode, body)
	}
	if body["totalPrice"] != float64(100000) {
		t.Fatalf("expected total 100000, got %v", body["totalPrice"])
	}
	sid := cookie(resp, "sid")
	if sid == nil {
		t.Fatal("guest did not get a sid")
	}
	sidC := &http.Cookie{Name: "sid", Value: sid.Value}

	// guests cannot check out
	resp, _ = do(t, app, withCookie(newReq("POST", "/api/v1/checkout", nil), sidC))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("guest checkout expected 401, got %d", resp.StatusCode)
	}

	// login on the same session carries the guest lines over
	resp, body = do(t, app, withCookie(newReq("POST", "/api/v1/auth/login", map[string]string{
		"email": "test@test.com", "password": seedPassword,
	}), sidC))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login expected 200, got %d", resp.StatusCode)
	}
	cart, _ := body["cart"].(map[string]any)
	if cart["totalItems"] != float64(2) {
		t.Fatalf("expected merged cart with 2 items, got %v", body["cart"])
	}

	resp, receipt := do(t, app, withCookie(newReq("POST", "/api/v1/checkout", map[string]string{"method": "card"}), sidC))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("checkout expected 201, got %d %v", resp.StatusCode, receipt)
	}
	if receipt["total"] != float64(100000) || receipt["orderId"] == "" {
		t.Fatalf("unexpected receipt %v", receipt)
	}

	_, body = do(t, app, withCookie(newReq("GET", "/api/v1/cart", nil), sidC))
	if body["totalItems"] != float64(0) {
		t.Fatalf("cart not cleared after checkout: %v", body)
	}

	_, body = do(t, app, withCookie(newReq("GET", "/api/v1/products/p-whey", nil), sidC))
	if body["stock"] != float64(13) {
		t.Fatalf("expected stock 13 after checkout, got %v", body["stock"])
	}

	_, body = do(t, app, withCookie(newReq("GET", "/user-panel", nil), sidC))
	orders, _ := body["orders"].([]any)
	if len(orders) != 1 {
		t.Fatalf("expected one order on the user panel, got %v", body["orders"])
	}
	if o, _ := orders[0].(map[string]any); o["status"] != "completed" {
		t.Fatalf("expected completed order, got %v", o["status"])
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	app := newApp(t, handlers.Options{})
	_, tok := signIn(t, app, "test@test.com")
	resp, _ := do(t, app, withBearer(newReq("POST", "/api/v1/checkout", nil), tok))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty cart checkout expected 400, got %d", resp.StatusCode)
	}
}

func TestCartUpdateAndRemove(t *testing.T) {
	app := newApp(t, handlers.Options{})
	_, tok := signIn(t, app, "test@test.com")

	do(t, app, withBearer(newReq("POST", "/api/v1/cart/items", map[string]any{"productId": "p-rope", "quantity": 1}), tok))
	_, body := do(t, app, withBearer(newReq("PUT", "/api/v1/cart/items/p-rope", map[string]any{"quantity": 3}), tok))
	if body["totalItems"] != float64(3) {
		t.Fatalf("expected 3 items after update, got %v", body)
	}

	// zero removes the line
	_, body = do(t, app, withBearer(newReq("PUT", "/api/v1/cart/items/p-rope", map[string]any{"quantity": 0}), tok))
	if body["totalItems"] != float64(0) {
		t.Fatalf("expected empty cart after qty 0, got %v", body)
	}

	do(t, app, withBearer(newReq("POST", "/api/v1/cart/items", map[string]any{"productId": "p-gloves", "quantity": 2}), tok))
	_, body = do(t, app, withBearer(newReq("DELETE", "/api/v1/cart/items/p-gloves", nil), tok))
	if body["totalItems"] != float64(0) {
		t.Fatalf("expected empty cart after remove, got %v", body)
	}
}

func TestCartStockAndUnknownProduct(t *testing.T) {
	app := newApp(t, handlers.Options{})

	resp, _ := do(t, app, newReq("POST", "/api/v1/cart/items", map[string]any{"productId": "p-whey", "quantity": 16}))
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("over-stock add expected 409, got %d", resp.StatusCode)
	}
	resp, _ = do(t, app, newReq("POST", "/api/v1/cart/items", map[string]any{"productId": "p-missing", "quantity": 1}))
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown product expected 404, got %d", resp.StatusCode)
	}
}
