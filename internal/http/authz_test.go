package handlers_test

import (
	"net/http"
	"testing"

	"gymfit/internal/http/handlers"
)

func TestPanelGuardRedirects(t *testing.T) {
	app := newApp(t, handlers.Options{})

	// Anonymous -> login
	resp, _ := do(t, app, newReq("GET", "/admin", nil))
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/login" {
		t.Fatalf("expected redirect to /login, got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}

	// Wrong role -> own panel
	userSID, _ := signIn(t, app, "test@test.com")
	resp, _ = do(t, app, withCookie(newReq("GET", "/admin", nil), userSID))
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/user-panel" {
		t.Fatalf("expected redirect to /user-panel, got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}
	trainerSID, _ := signIn(t, app, "trainer@gymfit.test")
	resp, _ = do(t, app, withCookie(newReq("GET", "/user-panel", nil), trainerSID))
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/trainer-panel" {
		t.Fatalf("expected redirect to /trainer-panel, got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}

	// Right role -> panel document
	adminSID, _ := signIn(t, app, "admin@gymfit.test")
	resp, body := do(t, app, withCookie(newReq("GET", "/admin", nil), adminSID))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin expected 200, got %d", resp.StatusCode)
	}
	if users, _ := body["users"].([]any); len(users) < 3 {
		t.Fatalf("admin panel should list seeded users, got %v", body["users"])
	}
	resp, _ = do(t, app, withCookie(newReq("GET", "/user-panel", nil), userSID))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("user panel expected 200, got %d", resp.StatusCode)
	}
}

func TestAPIGuardAnswersWithStatus(t *testing.T) {
	app := newApp(t, handlers.Options{})

	resp, body := do(t, app, newReq("GET", "/api/v1/admin/users", nil))
	if resp.StatusCode != http.StatusUnauthorized || body["redirect"] != "/login" {
		t.Fatalf("expected 401 with login redirect, got %d %v", resp.StatusCode, body)
	}

	_, userTok := signIn(t, app, "test@test.com")
	resp, body = do(t, app, withBearer(newReq("GET", "/api/v1/admin/users", nil), userTok))
	if resp.StatusCode != http.StatusForbidden || body["redirect"] != "/user-panel" {
		t.Fatalf("expected 403 with panel redirect, got %d %v", resp.StatusCode, body)
	}

	// Accept: application/json on a panel route behaves the same way
	req := newReq("GET", "/admin", nil)
	req.Header.Set("Accept", "application/json")
	resp, _ = do(t, app, req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for JSON client, got %d", resp.StatusCode)
	}

	_, adminTok := signIn(t, app, "admin@gymfit.test")
	resp, _ = do(t, app, withBearer(newReq("GET", "/api/v1/admin/users", nil), adminTok))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin expected 200, got %d", resp.StatusCode)
	}
}

func TestAdminCannotDeleteSelf(t *testing.T) {
	app := newApp(t, handlers.Options{})
	_, tok := signIn(t, app, "admin@gymfit.test")

	resp, _ := do(t, app, withBearer(newReq("DELETE", "/api/v1/admin/users/u-admin", nil), tok))
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 on self delete, got %d", resp.StatusCode)
	}
	resp, _ = do(t, app, withBearer(newReq("DELETE", "/api/v1/admin/users/u-trainer", nil), tok))
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204 deleting another user, got %d", resp.StatusCode)
	}
}

func TestHireFlowAcrossRoles(t *testing.T) {
	app := newApp(t, handlers.Options{})
	_, userTok := signIn(t, app, "test@test.com")
	_, trainerTok := signIn(t, app, "trainer@gymfit.test")

	resp, hire := do(t, app, withBearer(newReq("POST", "/api/v1/trainers/t-carla/hire", nil), userTok))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 hiring, got %d %v", resp.StatusCode, hire)
	}
	hireID, _ := hire["id"].(string)

	resp, _ = do(t, app, withBearer(newReq("POST", "/api/v1/trainers/t-carla/hire", nil), userTok))
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate hire, got %d", resp.StatusCode)
	}
	resp, _ = do(t, app, withBearer(newReq("POST", "/api/v1/trainers/t-diego/hire", nil), userTok))
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for unavailable trainer, got %d", resp.StatusCode)
	}
	// trainers cannot hire
	resp, _ = do(t, app, withBearer(newReq("POST", "/api/v1/trainers/t-carla/hire", nil), trainerTok))
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for trainer hiring, got %d", resp.StatusCode)
	}

	path := "/api/v1/hires/" + hireID + "/messages"
	resp, _ = do(t, app, withBearer(newReq("POST", path, map[string]string{"content": "Hola Carla"}), userTok))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("user message expected 201, got %d", resp.StatusCode)
	}
	resp, _ = do(t, app, withBearer(newReq("POST", path, map[string]string{"content": "Hola!"}), trainerTok))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("trainer message expected 201, got %d", resp.StatusCode)
	}
	resp, body := do(t, app, withBearer(newReq("POST", path, map[string]string{"content": "   "}), userTok))
	if resp.StatusCode != http.StatusBadRequest || body["field"] != "content" {
		t.Fatalf("blank message expected 400, got %d %v", resp.StatusCode, body)
	}

	resp, body = do(t, app, withBearer(newReq("GET", "/trainer-panel", nil), trainerTok))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("trainer panel expected 200, got %d", resp.StatusCode)
	}
	if hires, _ := body["hires"].([]any); len(hires) != 1 {
		t.Fatalf("expected one hire on the trainer panel, got %v", body["hires"])
	}
}
