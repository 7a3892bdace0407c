package handlers

import (
	"time"

	"gymfit/internal/domain"
	applog "gymfit/internal/log"
	"gymfit/internal/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

type Options struct {
	CSRF bool
	// Requests per minute per IP across the app; 0 means 60.
	RateLimit int
	// Login attempts per 10 minutes per IP; 0 means 5.
	LoginLimit int
	// Disables the access log line per request.
	Quiet bool
}

// NewApp builds the Fiber app with the middleware stack and every route.
func NewApp(d *Deps, opt Options) *fiber.App {
	if opt.RateLimit <= 0 {
		opt.RateLimit = 60
	}
	if opt.LoginLimit <= 0 {
		opt.LoginLimit = 5
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler,
		BodyLimit:    1 << 20, // 1 MiB
	})

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	if !opt.Quiet {
		app.Use(logger.New())
	}
	app.Use(helmet.New())
	app.Use(metrics.Middleware())
	app.Use(limiter.New(limiter.Config{
		Max:        opt.RateLimit,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := c.Path()
			return p == "/healthz" || p == "/metrics"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.global.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	}))
	if opt.CSRF {
		app.Use(csrf.New(csrf.Config{
			KeyLookup:      "header:X-Csrf-Token",
			CookieName:     "csrf_",
			CookieSameSite: "Lax",
			CookieSecure:   false, // set true behind HTTPS
			ContextKey:     "csrf",
			// bearer clients carry no ambient credentials
			Next: func(c *fiber.Ctx) bool { return bearer(c) != "" },
			ErrorHandler: func(c *fiber.Ctx, err error) error {
				applog.Security(c, "csrf.fail", map[string]any{"err": err.Error()})
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Security check failed. Please refresh and try again."})
			},
		}))
	}
	app.Use(Sessions(d.Auth))

	// ---------- Ops ----------
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	// ---------- Panels ----------
	app.Get("/login", d.AuthHandler.LoginForm)
	app.Get("/admin", RequireAdmin(), d.PanelHandler.Admin)
	app.Get("/trainer-panel", RequireTrainer(), d.PanelHandler.Trainer)
	app.Get("/user-panel", RequireUser(), d.PanelHandler.User)

	// ---------- API ----------
	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/login", limiter.New(limiter.Config{
		Max:        opt.LoginLimit,
		Expiration: 10 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|login"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many attempts. Please try again later."})
		},
	}), d.AuthHandler.Login)
	auth.Post("/register", d.AuthHandler.Register)
	auth.Post("/logout", d.AuthHandler.Logout)
	auth.Get("/me", d.AuthHandler.Me)

	api.Get("/products", d.CatalogHandler.List)
	api.Get("/products/:id", d.CatalogHandler.Get)

	// Cart works for guests too
	api.Get("/cart", d.CartHandler.View)
	api.Post("/cart/items", d.CartHandler.Add)
	api.Put("/cart/items/:productId", d.CartHandler.Update)
	api.Delete("/cart/items/:productId", d.CartHandler.Remove)
	api.Delete("/cart", d.CartHandler.Clear)

	api.Post("/checkout", RequireUser(), d.CheckoutHandler.Place)

	api.Get("/trainers", d.HireHandler.Trainers)
	api.Get("/trainers/:id", d.HireHandler.Trainer)
	api.Post("/trainers/:id/hire", RequireUser(), d.HireHandler.Hire)
	api.Get("/hires", Guard(domain.RoleUser, domain.RoleTrainer), d.HireHandler.Mine)
	api.Post("/hires/:id/messages", Guard(domain.RoleUser, domain.RoleTrainer), d.HireHandler.Message)
	api.Put("/hires/:id/status", Guard(), d.HireHandler.SetStatus)

	admin := api.Group("/admin", RequireAdmin())
	admin.Get("/users", d.AdminHandler.Users)
	admin.Put("/users/:id", d.AdminHandler.UpdateUser)
	admin.Delete("/users/:id", d.AdminHandler.DeleteUser)
	admin.Post("/products", d.AdminHandler.CreateProduct)
	admin.Put("/products/:id/stock", d.AdminHandler.SetStock)
	admin.Delete("/products/:id", d.AdminHandler.DeleteProduct)
	admin.Get("/orders", d.AdminHandler.Orders)
	admin.Get("/payments", d.AdminHandler.Payments)
	admin.Get("/checkouts", d.AdminHandler.Checkouts)

	// 404
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Page not found"})
	})

	return app
}
