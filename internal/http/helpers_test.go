package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"gymfit/internal/config"
	"gymfit/internal/events"
	"gymfit/internal/http/handlers"
	"gymfit/internal/kv"
	"gymfit/internal/repos"
)

const seedPassword = "password123"

// newApp serves the full route table over an in-memory database with
// BACKEND_MODE=local.
func newApp(t *testing.T, opt handlers.Options) *fiber.App {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	cfg := config.Config{
		Backend:      config.BackendLocal,
		JWTSecret:    "test-secret",
		JWTExpireMin: 60,
	}
	deps := handlers.NewDeps(db, cfg, kv.NewSQLStore(db), events.LogPublisher{})
	opt.Quiet = true
	return handlers.NewApp(deps, opt)
}

func newReq(method, path string, body any) *http.Request {
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// do runs req and decodes a JSON object body when there is one.
func do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	raw, _ := io.ReadAll(resp.Body)
	var body map[string]any
	_ = json.Unmarshal(raw, &body)
	return resp, body
}

func cookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// signIn logs email in on a fresh cookie session and returns the session
// cookie and the bearer token.
func signIn(t *testing.T, app *fiber.App, email string) (*http.Cookie, string) {
	t.Helper()
	resp, body := do(t, app, newReq("POST", "/api/v1/auth/login", map[string]string{
		"email": email, "password": seedPassword,
	}))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: status %d body=%v", email, resp.StatusCode, body)
	}
	sid := cookie(resp, "sid")
	if sid == nil {
		t.Fatal("login response did not set sid")
	}
	tok, _ := body["token"].(string)
	if tok == "" {
		t.Fatal("login response carried no token")
	}
	return &http.Cookie{Name: "sid", Value: sid.Value}, tok
}

func withCookie(req *http.Request, c *http.Cookie) *http.Request {
	req.AddCookie(c)
	return req
}

func withBearer(req *http.Request, tok string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+tok)
	return req
}
