package handlers

import (
	"gymfit/internal/config"
	"gymfit/internal/events"
	"gymfit/internal/kv"
	"gymfit/internal/remote"
	"gymfit/internal/repos"
	"gymfit/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	Auth *services.AuthService

	AuthHandler     *AuthHandler
	CatalogHandler  *CatalogHandler
	CartHandler     *CartHandler
	CheckoutHandler *CheckoutHandler
	HireHandler     *HireHandler
	AdminHandler    *AdminHandler
	PanelHandler    *PanelHandler
}

// ports groups the backends selected by BACKEND_MODE.
type ports struct {
	users    services.UserDirectory
	products services.ProductCatalog
	cart     services.CartBackend
	orders   services.OrderStore
	payments services.PaymentStore
}

func localPorts(db *sqlx.DB) ports {
	return ports{
		users:    repos.NewUserRepo(db),
		products: repos.NewProductRepo(db),
		cart:     repos.NewCartRepo(db),
		orders:   repos.NewOrderRepo(db),
		payments: repos.NewPaymentRepo(db),
	}
}

func remotePorts(cfg config.Config) ports {
	return ports{
		users:    remote.NewUsers(remote.New(cfg.UsersURL, cfg.HTTPTimeout)),
		products: remote.NewProducts(remote.New(cfg.ProductsURL, cfg.HTTPTimeout)),
		cart:     remote.NewCart(remote.New(cfg.CartURL, cfg.HTTPTimeout)),
		orders:   remote.NewOrders(remote.New(cfg.OrdersURL, cfg.HTTPTimeout)),
		payments: remote.NewPayments(remote.New(cfg.PaymentsURL, cfg.HTTPTimeout)),
	}
}

// NewDeps wires services and handlers. Hires, checkout runs and the
// key-value store always live in the local database.
func NewDeps(db *sqlx.DB, cfg config.Config, store kv.Store, pub events.Publisher) *Deps {
	p := localPorts(db)
	if cfg.Backend == config.BackendRemote {
		p = remotePorts(cfg)
	}
	hireRepo := repos.NewHireRepo(db)
	runRepo := repos.NewCheckoutRepo(db)

	authSvc := &services.AuthService{
		Users:    p.users,
		Sessions: &services.SessionStore{KV: store},
		Tokens:   services.Tokens{Secret: []byte(cfg.JWTSecret), TTL: cfg.TokenTTL()},
	}
	catalogSvc := services.NewCatalogService(p.products, store)
	cartSvc := services.NewCartService(services.CartStrategy{KV: store, Backend: p.cart}, catalogSvc)
	checkoutSvc := &services.CheckoutService{
		Carts:    cartSvc,
		Products: p.products,
		Orders:   p.orders,
		Payments: p.payments,
		Runs:     runRepo,
		Events:   pub,
	}
	hireSvc := &services.HireService{Hires: hireRepo, Events: pub}
	adminSvc := &services.AdminService{
		Users:    p.users,
		Products: p.products,
		Catalog:  catalogSvc,
		Orders:   p.orders,
		Payments: p.payments,
	}
	panelSvc := &services.PanelService{
		Admin:    adminSvc,
		Hires:    hireSvc,
		Checkout: checkoutSvc,
		Orders:   p.orders,
		Payments: p.payments,
	}

	return &Deps{
		Auth:            authSvc,
		AuthHandler:     &AuthHandler{Auth: authSvc, Cart: cartSvc},
		CatalogHandler:  &CatalogHandler{Catalog: catalogSvc},
		CartHandler:     &CartHandler{Cart: cartSvc},
		CheckoutHandler: &CheckoutHandler{Checkout: checkoutSvc},
		HireHandler:     &HireHandler{Hires: hireSvc},
		AdminHandler:    &AdminHandler{Admin: adminSvc, Checkout: checkoutSvc},
		PanelHandler:    &PanelHandler{Panels: panelSvc},
	}
}
