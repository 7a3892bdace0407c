package handlers_test

import (
	"net/http"
	"net/url"
	"testing"

	"gymfit/internal/http/handlers"
)

func TestSearchRejectsBadQuery(t *testing.T) {
	app := newApp(t, handlers.Options{})

	resp, body := do(t, app, newReq("GET", "/api/v1/products?q="+url.QueryEscape("<script>alert(1)</script>"), nil))
	if resp.StatusCode != http.StatusBadRequest || body["field"] != "q" {
		t.Fatalf("expected 400 on q, got %d %v", resp.StatusCode, body)
	}

	resp, body = do(t, app, newReq("GET", "/api/v1/products?q=prote", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ps, _ := body["products"].([]any); len(ps) != 1 {
		t.Fatalf("expected one match for prote, got %v", body["products"])
	}
}

func TestCategoryFilter(t *testing.T) {
	app := newApp(t, handlers.Options{})

	_, body := do(t, app, newReq("GET", "/api/v1/products?categoria=supplement", nil))
	if ps, _ := body["products"].([]any); len(ps) != 2 {
		t.Fatalf("expected two supplements, got %v", body["products"])
	}
	resp, body := do(t, app, newReq("GET", "/api/v1/products?categoria=weapons", nil))
	if resp.StatusCode != http.StatusBadRequest || body["field"] != "category" {
		t.Fatalf("expected 400 on category, got %d %v", resp.StatusCode, body)
	}
}

func TestRegisterFieldErrors(t *testing.T) {
	app := newApp(t, handlers.Options{})
	base := func() map[string]string {
		return map[string]string{
			"email":           "campos@gymfit.test",
			"password":        "secret1",
			"confirmPassword": "secret1",
			"name":            "Campo Prueba",
			"phone":           "+56922223333",
			"address":         "Calle 1",
		}
	}
	cases := []struct {
		field, value string
	}{
		{"email", "nope"},
		{"password", "123"},
		{"confirmPassword", "different"},
		{"name", "R2D2"},
		{"phone", "912345678"},
		{"address", "   "},
	}
	for _, tc := range cases {
		in := base()
		in[tc.field] = tc.value
		resp, body := do(t, app, newReq("POST", "/api/v1/auth/register", in))
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s=%q: expected 400, got %d", tc.field, tc.value, resp.StatusCode)
		}
		if body["field"] != tc.field {
			t.Fatalf("%s=%q: expected field %s, got %v", tc.field, tc.value, tc.field, body["field"])
		}
	}
}

func TestCartRejectsBadProductID(t *testing.T) {
	app := newApp(t, handlers.Options{})
	resp, body := do(t, app, newReq("POST", "/api/v1/cart/items", map[string]any{"productId": "../etc", "quantity": 1}))
	if resp.StatusCode != http.StatusBadRequest || body["field"] != "productId" {
		t.Fatalf("expected 400 on productId, got %d %v", resp.StatusCode, body)
	}
}

func TestAdminProductValidation(t *testing.T) {
	app := newApp(t, handlers.Options{})
	_, tok := signIn(t, app, "admin@gymfit.test")

	resp, body := do(t, app, withBearer(newReq("POST", "/api/v1/admin/products", map[string]any{
		"name": "Banda elástica", "description": "Banda de resistencia media", "price": 0, "stock": 5, "category": "accessory",
	}), tok))
	if resp.StatusCode != http.StatusBadRequest || body["field"] != "price" {
		t.Fatalf("expected 400 on price, got %d %v", resp.StatusCode, body)
	}

	resp, body = do(t, app, withBearer(newReq("POST", "/api/v1/admin/products", map[string]any{
		"name": "Banda elástica", "description": "Banda de resistencia media", "price": 7990, "stock": 5, "category": "accessory",
	}), tok))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d %v", resp.StatusCode, body)
	}

	resp, body = do(t, app, withBearer(newReq("PUT", "/api/v1/admin/products/p-rope/stock", map[string]any{"stock": -1}), tok))
	if resp.StatusCode != http.StatusBadRequest || body["field"] != "stock" {
		t.Fatalf("expected 400 on stock, got %d %v", resp.StatusCode, body)
	}
}
