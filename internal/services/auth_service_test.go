package services_test

import (
	"context"
	"errors"
	"testing"

	"gymfit/internal/domain"
	"gymfit/internal/services"
)

func validRegistration(email, role string) services.RegisterInput {
	return services.RegisterInput{
		Email:           email,
		Password:        "secret1",
		ConfirmPassword: "secret1",
		Name:            "María José",
		Phone:           "+56912345678",
		Address:         "Av. Siempre Viva 742",
		Role:            role,
	}
}

func TestRegister_AlwaysCreatesRegularUser(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	for i, role := range []string{"", "user", "USER", "trainer", "Entrenador"} {
		email := []string{"a@gym.cl", "b@gym.cl", "c@gym.cl", "d@gym.cl", "e@gym.cl"}[i]
		u, err := e.auth.Register(ctx, validRegistration(email, role))
		if err != nil {
			t.Fatalf("register role %q: %v", role, err)
		}
		if u.Role != domain.RoleUser {
			t.Fatalf("role %q: got %s, want user", role, u.Role)
		}
		stored, err := e.users.ByEmail(ctx, email)
		if err != nil {
			t.Fatal(err)
		}
		if stored.Role != domain.RoleUser {
			t.Fatalf("stored role = %s", stored.Role)
		}
	}
}

func TestRegister_RejectsBeforeBackend(t *testing.T) {
	e := newEnv(t)
	counting := &countingUsers{UserDirectory: e.users}
	e.auth.Users = counting

	cases := map[string]func(*services.RegisterInput){
		"email":           func(in *services.RegisterInput) { in.Email = "notanemail" },
		"password":        func(in *services.RegisterInput) { in.Password, in.ConfirmPassword = "12345", "12345" },
		"confirmPassword": func(in *services.RegisterInput) { in.ConfirmPassword = "other1" },
		"name":            func(in *services.RegisterInput) { in.Name = "R2D2" },
		"phone":           func(in *services.RegisterInput) { in.Phone = "" },
		"address":         func(in *services.RegisterInput) { in.Address = "  " },
		"role":            func(in *services.RegisterInput) { in.Role = "admin" },
	}
	for field, mutate := range cases {
		in := validRegistration("new@gym.cl", "")
		mutate(&in)
		_, err := e.auth.Register(context.Background(), in)
		var ve *services.ValidationError
		if !errors.As(err, &ve) || ve.Field != field {
			t.Fatalf("%s: want validation error on %s, got %v", field, field, err)
		}
	}
	if counting.calls != 0 {
		t.Fatalf("backend called %d times for invalid input", counting.calls)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	e := newEnv(t)
	_, err := e.auth.Register(context.Background(), validRegistration("test@test.com", ""))
	var ve *services.ValidationError
	if !errors.As(err, &ve) || ve.Field != "email" {
		t.Fatalf("want duplicate email rejection, got %v", err)
	}
}

func TestLogin_SeededFixture(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	sess := guest("sid-1")

	u, err := e.auth.Login(ctx, sess, "test@test.com", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if u == nil || u.Role != domain.RoleUser {
		t.Fatalf("want user with role user, got %+v", u)
	}
	if sess.Token == "" {
		t.Fatal("no bearer token issued")
	}

	ad, err := e.auth.Current(ctx, "sid-1")
	if err != nil {
		t.Fatal(err)
	}
	if !ad.IsAuthenticated || ad.User.Email != "test@test.com" {
		t.Fatalf("session not restored: %+v", ad)
	}
}

func TestLogin_MalformedEmailIsLocal(t *testing.T) {
	e := newEnv(t)
	counting := &countingUsers{UserDirectory: e.users}
	e.auth.Users = counting

	_, err := e.auth.Login(context.Background(), guest("sid"), "notanemail", "password123")
	var ve *services.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("want validation error, got %v", err)
	}
	if counting.calls != 0 {
		t.Fatalf("users backend called %d times", counting.calls)
	}
}

func TestLogin_FailuresCollapse(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	if _, err := e.auth.Login(ctx, guest("a"), "test@test.com", "wrong-pass"); !errors.Is(err, services.ErrBadCreds) {
		t.Fatalf("bad password: %v", err)
	}
	if _, err := e.auth.Login(ctx, guest("b"), "ghost@test.com", "password123"); !errors.Is(err, services.ErrBadCreds) {
		t.Fatalf("unknown user: %v", err)
	}
	ad, _ := e.auth.Current(ctx, "a")
	if ad.IsAuthenticated {
		t.Fatal("failed login left an authenticated session")
	}
}

func TestLogout_KeepsBackendCart(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	sess := e.signIn(t, "sid-out", "test@test.com")

	if err := e.cart.Add(ctx, sess, "p-rope", 2); err != nil {
		t.Fatal(err)
	}
	if err := e.auth.Logout(ctx, "sid-out"); err != nil {
		t.Fatal(err)
	}
	ad, _ := e.auth.Current(ctx, "sid-out")
	if ad.IsAuthenticated {
		t.Fatal("still authenticated after logout")
	}

	again := e.signIn(t, "sid-again", "test@test.com")
	n, err := e.cart.TotalItems(ctx, again)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("backend cart lost on logout: %d items", n)
	}
}

func TestFromToken(t *testing.T) {
	e := newEnv(t)
	sess := e.signIn(t, "sid-tok", "admin@gymfit.test")

	got, err := e.auth.FromToken(sess.Token)
	if err != nil {
		t.Fatal(err)
	}
	if got.User.ID != sess.User.ID || got.User.Role != domain.RoleAdmin {
		t.Fatalf("claims mismatch: %+v", got.User)
	}

	other := services.Tokens{Secret: []byte("other"), TTL: 0}
	forged, _ := other.Issue(sess.User)
	if _, err := e.auth.FromToken(forged); err == nil {
		t.Fatal("token signed with another secret accepted")
	}
}
