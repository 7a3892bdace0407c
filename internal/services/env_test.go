package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gymfit/internal/domain"
	"gymfit/internal/kv"
	"gymfit/internal/repos"
	"gymfit/internal/services"
)

// env wires every service against an in-memory database, the way
// BACKEND_MODE=local does.
type env struct {
	kv       kv.Store
	users    *repos.UserRepo
	products *countingProducts
	orders   *repos.OrderRepo
	payments *repos.PaymentRepo
	hires    *repos.HireRepo
	runs     *repos.CheckoutRepo
	events   *recorder

	auth     *services.AuthService
	catalog  *services.CatalogService
	cart     *services.CartService
	checkout *services.CheckoutService
	hire     *services.HireService
	admin    *services.AdminService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	e := &env{
		kv:       kv.NewSQLStore(db),
		users:    repos.NewUserRepo(db),
		products: &countingProducts{ProductCatalog: repos.NewProductRepo(db), fail: map[string]error{}},
		orders:   repos.NewOrderRepo(db),
		payments: repos.NewPaymentRepo(db),
		hires:    repos.NewHireRepo(db),
		runs:     repos.NewCheckoutRepo(db),
		events:   &recorder{},
	}
	e.auth = &services.AuthService{
		Users:    e.users,
		Sessions: &services.SessionStore{KV: e.kv},
		Tokens:   services.Tokens{Secret: []byte("test-secret"), TTL: time.Hour},
	}
	e.catalog = services.NewCatalogService(e.products, e.kv)
	e.cart = services.NewCartService(services.CartStrategy{KV: e.kv, Backend: repos.NewCartRepo(db)}, e.catalog)
	e.checkout = &services.CheckoutService{
		Carts:    e.cart,
		Products: e.products,
		Orders:   e.orders,
		Payments: e.payments,
		Runs:     e.runs,
		Events:   e.events,
	}
	e.hire = &services.HireService{Hires: e.hires, Events: e.events}
	e.admin = &services.AdminService{
		Users:    e.users,
		Products: e.products,
		Catalog:  e.catalog,
		Orders:   e.orders,
		Payments: e.payments,
	}
	return e
}

func guest(sid string) *services.Session { return &services.Session{ID: sid} }

// signIn logs a seeded account in on a fresh session.
func (e *env) signIn(t *testing.T, sid, email string) *services.Session {
	t.Helper()
	sess := guest(sid)
	if _, err := e.auth.Login(context.Background(), sess, email, "password123"); err != nil {
		t.Fatalf("login %s: %v", email, err)
	}
	return sess
}

// countingProducts records stock adjustments and can fail them per product.
type countingProducts struct {
	services.ProductCatalog
	mu       sync.Mutex
	adjusts  []string
	fail     map[string]error
	failList error
}

func (c *countingProducts) AdjustStock(ctx context.Context, id string, delta int) (domain.Product, error) {
	c.mu.Lock()
	c.adjusts = append(c.adjusts, id)
	err := c.fail[id]
	c.mu.Unlock()
	if err != nil {
		return domain.Product{}, err
	}
	return c.ProductCatalog.AdjustStock(ctx, id, delta)
}

func (c *countingProducts) List(ctx context.Context) ([]domain.Product, error) {
	if c.failList != nil {
		return nil, c.failList
	}
	return c.ProductCatalog.List(ctx)
}

func (c *countingProducts) adjustCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.adjusts)
}

type failingOrders struct {
	services.OrderStore
	createErr error
}

func (f failingOrders) Create(ctx context.Context, o domain.Order) (domain.Order, error) {
	if f.createErr != nil {
		return domain.Order{}, f.createErr
	}
	return f.OrderStore.Create(ctx, o)
}

type failingPayments struct {
	services.PaymentStore
	createErr error
	statusErr error
}

func (f failingPayments) SetStatus(ctx context.Context, id, status string) error {
	if f.statusErr != nil {
		return f.statusErr
	}
	return f.PaymentStore.SetStatus(ctx, id, status)
}

func (f failingPayments) Create(ctx context.Context, p domain.Payment) (domain.Payment, error) {
	if f.createErr != nil {
		return domain.Payment{}, f.createErr
	}
	return f.PaymentStore.Create(ctx, p)
}

// countingUsers counts every call that would reach the users backend.
type countingUsers struct {
	services.UserDirectory
	calls int
}

func (c *countingUsers) Authenticate(ctx context.Context, email, password string) error {
	c.calls++
	return c.UserDirectory.Authenticate(ctx, email, password)
}

func (c *countingUsers) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	c.calls++
	return c.UserDirectory.ByEmail(ctx, email)
}

type recorder struct {
	mu   sync.Mutex
	keys []string
}

func (r *recorder) Publish(_ context.Context, key string, _ any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = append(r.keys, key)
	return nil
}

func (r *recorder) Close() error { return nil }

func (r *recorder) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.keys) == 0 {
		return ""
	}
	return r.keys[len(r.keys)-1]
}

var errDown = errors.New("service unavailable")
