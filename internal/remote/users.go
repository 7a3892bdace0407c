package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"gymfit/internal/domain"
)

// Users talks to the users service.
type Users struct{ c *Client }

func NewUsers(c *Client) *Users { return &Users{c: c} }

// Backend role names.
const (
	rolAdmin   = "Administrador"
	rolTrainer = "Entrenador"
	rolUser    = "Usuario"
)

// MapRole converts the users service role name to a domain role. Unknown
// names fall back to RoleUser.
func MapRole(nombre string) domain.Role {
	switch strings.TrimSpace(nombre) {
	case rolAdmin:
		return domain.RoleAdmin
	case rolTrainer:
		return domain.RoleTrainer
	default:
		return domain.RoleUser
	}
}

func roleName(r domain.Role) string {
	switch r {
	case domain.RoleAdmin:
		return rolAdmin
	case domain.RoleTrainer:
		return rolTrainer
	default:
		return rolUser
	}
}

func toUser(r gjson.Result) domain.User {
	return domain.User{
		ID:        r.Get("id").String(),
		Email:     r.Get("email").String(),
		Name:      firstString(r, "username", "nombre", "name"),
		Role:      MapRole(r.Get("rol.nombre").String()),
		Phone:     r.Get("phone").String(),
		Address:   r.Get("address").String(),
		CreatedAt: firstString(r, "fechaCreacion", "createdAt"),
	}
}

// Authenticate checks credentials with POST /login. Any 4xx answer means
// the pair was rejected.
func (u *Users) Authenticate(ctx context.Context, email, password string) error {
	_, err := u.c.do(ctx, http.MethodPost, "/login", map[string]string{"email": email, "password": password})
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrBadCredentials
	}
	var se *StatusError
	if errors.As(err, &se) && se.Code >= 400 && se.Code < 500 {
		return domain.ErrBadCredentials
	}
	return err
}

func (u *Users) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	r, err := u.c.do(ctx, http.MethodGet, "/users/email/"+url.PathEscape(email), nil)
	if err != nil {
		return nil, err
	}
	return u.one(r)
}

func (u *Users) ByID(ctx context.Context, id string) (*domain.User, error) {
	r, err := u.c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	return u.one(r)
}

func (u *Users) one(r gjson.Result) (*domain.User, error) {
	if !r.Get("id").Exists() {
		return nil, fmt.Errorf("users: malformed user: %s", r.Raw)
	}
	usr := toUser(r)
	return &usr, nil
}

// Create registers a user. The service assigns its default role; the
// requested role is not sent.
func (u *Users) Create(ctx context.Context, usr domain.User, password string) (*domain.User, error) {
	r, err := u.c.do(ctx, http.MethodPost, "/register", map[string]string{
		"username": usr.Name,
		"password": password,
		"email":    usr.Email,
		"phone":    usr.Phone,
		"address":  usr.Address,
	})
	if err != nil {
		return nil, err
	}
	if r.Get("id").Exists() {
		out := toUser(r)
		return &out, nil
	}
	// plain-text confirmation; read the record back
	return u.ByEmail(ctx, usr.Email)
}

func (u *Users) List(ctx context.Context) ([]domain.User, error) {
	r, err := u.c.do(ctx, http.MethodGet, "/users", nil)
	if err != nil {
		return nil, err
	}
	out := []domain.User{}
	for _, it := range list(r) {
		out = append(out, toUser(it))
	}
	return out, nil
}

func (u *Users) Update(ctx context.Context, usr domain.User) error {
	_, err := u.c.do(ctx, http.MethodPut, "/users/"+url.PathEscape(usr.ID), map[string]any{
		"username": usr.Name,
		"email":    usr.Email,
		"phone":    usr.Phone,
		"address":  usr.Address,
		"rol":      map[string]string{"nombre": roleName(usr.Role)},
	})
	return err
}

func (u *Users) Delete(ctx context.Context, id string) error {
	_, err := u.c.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), nil)
	return err
}
