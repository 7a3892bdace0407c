package handlers_test

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"

	"gymfit/internal/http/handlers"
)

type logEntry struct {
	Level  string                 `json:"level"`
	Action string                 `json:"action"`
	UserID string                 `json:"user_id"`
	ReqID  string                 `json:"req_id"`
	Fields map[string]interface{} `json:"fields"`
}

// capture logs by temporarily replacing the standard logger output
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf bytes.Buffer
	var mu sync.Mutex
	oldW := log.Writer()
	oldFlags := log.Flags()
	log.SetOutput(&lockedWriter{w: &buf, mu: &mu})
	log.SetFlags(0)
	defer func() {
		log.SetOutput(oldW)
		log.SetFlags(oldFlags)
	}()

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

type lockedWriter struct {
	w  *bytes.Buffer
	mu *sync.Mutex
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}

func find(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}

func TestAuthLogging(t *testing.T) {
	app := newApp(t, handlers.Options{})

	run := func(email, pass string) []logEntry {
		return captureLogs(t, func() {
			do(t, app, newReq("POST", "/api/v1/auth/login", map[string]string{"email": email, "password": pass}))
		})
	}

	e, ok := find(run("test@test.com", "badpass!"), "auth.login.fail")
	if !ok {
		t.Fatalf("auth.login.fail log not found")
	}
	if e.Level != "warn" {
		t.Fatalf("auth.login.fail should be a security entry, got level %s", e.Level)
	}
	if _, ok := e.Fields["email"]; !ok {
		t.Fatalf("auth.login.fail missing email field")
	}
	if e.ReqID == "" {
		t.Fatalf("auth.login.fail missing req_id")
	}

	e, ok = find(run("test@test.com", seedPassword), "auth.login.success")
	if !ok {
		t.Fatalf("auth.login.success log not found")
	}
	if e.Level != "audit" || e.UserID != "u-test" {
		t.Fatalf("unexpected success entry %+v", e)
	}
}

func TestAccessDeniedLogging(t *testing.T) {
	app := newApp(t, handlers.Options{})
	_, tok := signIn(t, app, "test@test.com")

	logs := captureLogs(t, func() {
		do(t, app, newReq("GET", "/api/v1/admin/orders", nil))
		do(t, app, withBearer(newReq("GET", "/api/v1/admin/orders", nil), tok))
	})
	if _, ok := find(logs, "access.denied.anonymous"); !ok {
		t.Fatalf("access.denied.anonymous log not found")
	}
	e, ok := find(logs, "access.denied.role")
	if !ok {
		t.Fatalf("access.denied.role log not found")
	}
	if e.Fields["role"] != "user" || e.UserID != "u-test" {
		t.Fatalf("unexpected denial entry %+v", e)
	}
}

func TestAdminActionsAreAudited(t *testing.T) {
	app := newApp(t, handlers.Options{})
	_, tok := signIn(t, app, "admin@gymfit.test")

	logs := captureLogs(t, func() {
		resp, _ := do(t, app, withBearer(newReq("PUT", "/api/v1/admin/products/p-rope/stock", map[string]any{"stock": 7}), tok))
		if resp.StatusCode != http.StatusOK {
			t.Errorf("set stock expected 200, got %d", resp.StatusCode)
		}
		resp, _ = do(t, app, withBearer(newReq("DELETE", "/api/v1/admin/products/p-gloves", nil), tok))
		if resp.StatusCode != fiber.StatusNoContent {
			t.Errorf("delete expected 204, got %d", resp.StatusCode)
		}
	})
	e, ok := find(logs, "admin.products.stock")
	if !ok || e.Level != "audit" {
		t.Fatalf("admin.products.stock audit entry missing: %+v", logs)
	}
	if e.Fields["stock"] != float64(7) {
		t.Fatalf("expected stock 7 in audit entry, got %v", e.Fields["stock"])
	}
	if _, ok := find(logs, "admin.products.delete"); !ok {
		t.Fatalf("admin.products.delete audit entry missing")
	}
}
