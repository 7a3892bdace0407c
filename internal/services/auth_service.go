package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gymfit/internal/domain"
	"gymfit/internal/kv"
	applog "gymfit/internal/log"
	"gymfit/internal/metrics"
	"gymfit/internal/validate"
)

type AuthService struct {
	Users    UserDirectory
	Sessions *SessionStore
	Tokens   Tokens
}

// Login checks the credentials and binds the user to sess. A malformed
// email is a *ValidationError; every other failure is ErrBadCreds with the
// cause only logged.
func (s *AuthService) Login(ctx context.Context, sess *Session, email, password string) (*domain.User, error) {
	email, ok := validate.Email(email)
	if !ok {
		return nil, invalid("email", "invalid email format")
	}
	if password == "" {
		return nil, invalid("password", "password required")
	}

	u, err := s.login(ctx, email, password)
	if err != nil {
		metrics.RecordLogin(false)
		applog.Warn("auth.login_failed", err, map[string]any{"email": email})
		return nil, ErrBadCreds
	}

	token, err := s.Tokens.Issue(u)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	sess.User = u
	sess.Token = token
	if err := s.Sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	metrics.RecordLogin(true)
	return u, nil
}

func (s *AuthService) login(ctx context.Context, email, password string) (*domain.User, error) {
	if err := s.Users.Authenticate(ctx, email, password); err != nil {
		return nil, err
	}
	u, err := s.Users.ByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("fetch user after login: %w", err)
	}
	return u, nil
}

type RegisterInput struct {
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword"`
	Name            string `json:"name" form:"name"`
	Phone           string `json:"phone" form:"phone"`
	Address         string `json:"address" form:"address"`
	Role            string `json:"role" form:"role"`
}

func (in RegisterInput) check() (domain.User, error) {
	email, ok := validate.Email(in.Email)
	if !ok {
		return domain.User{}, invalid("email", "invalid email format")
	}
	if !validate.Password(in.Password) {
		return domain.User{}, invalid("password", "password must have at least 6 characters")
	}
	if !validate.PasswordsMatch(in.Password, in.ConfirmPassword) {
		return domain.User{}, invalid("confirmPassword", "passwords do not match")
	}
	name, ok := validate.Name(in.Name)
	if !ok {
		return domain.User{}, invalid("name", "name must be 2-50 letters")
	}
	phone, ok := validate.Phone(in.Phone)
	if !ok {
		return domain.User{}, invalid("phone", "phone must look like +56912345678")
	}
	if !validate.NotEmpty(in.Address) {
		return domain.User{}, invalid("address", "address required")
	}
	// any other requested role is overridden below
	switch strings.ToLower(strings.TrimSpace(in.Role)) {
	case string(domain.RoleAdmin), "administrador":
		return domain.User{}, invalid("role", "admin accounts cannot be self-registered")
	}
	return domain.User{
		Email:   email,
		Name:    name,
		Phone:   phone,
		Address: strings.TrimSpace(in.Address),
		Role:    domain.RoleUser,
	}, nil
}

// Register creates a regular user. The role is always domain.RoleUser.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	u, err := in.check()
	if err != nil {
		return nil, err
	}
	if existing, err := s.Users.ByEmail(ctx, u.Email); err == nil && existing != nil {
		return nil, invalid("email", "email already registered")
	}
	created, err := s.Users.Create(ctx, u, in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	created.Role = domain.RoleUser
	return created, nil
}

// Logout forgets the session and its guest cart. The backend cart is kept
// for the next sign-in.
func (s *AuthService) Logout(ctx context.Context, sid string) error {
	if err := s.Sessions.Delete(ctx, sid); err != nil {
		return err
	}
	return s.Sessions.KV.Delete(ctx, kv.CartKey(sid))
}

// Current restores the session for sid from the local store only.
func (s *AuthService) Current(ctx context.Context, sid string) (domain.AuthData, error) {
	sess, err := s.Sessions.Load(ctx, sid)
	if err != nil {
		return domain.AuthData{}, err
	}
	return sess.Auth(), nil
}

// FromToken builds a session from a bearer token's claims.
func (s *AuthService) FromToken(token string) (*Session, error) {
	c, err := s.Tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	role := domain.Role(c.Role)
	if !role.Valid() {
		return nil, errors.New("token carries unknown role")
	}
	return &Session{
		ID:    "token:" + c.Sub,
		User:  &domain.User{ID: c.Sub, Email: c.Email, Role: role},
		Token: token,
	}, nil
}
