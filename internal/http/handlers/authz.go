package handlers

import (
	"context"
	"strings"

	"gymfit/internal/domain"
	applog "gymfit/internal/log"
	"gymfit/internal/remote"
	"gymfit/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Sessions attaches the caller's session. A bearer token takes precedence
// over the sid cookie; an invalid token leaves the request anonymous.
func Sessions(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var sess *services.Session
		if tok := bearer(c); tok != "" {
			s, err := auth.FromToken(tok)
			if err != nil {
				applog.Security(c, "auth.token.invalid", nil)
			} else {
				sess = s
			}
		}
		if sess == nil {
			s, err := auth.Sessions.Load(c.UserContext(), ensureSID(c))
			if err != nil {
				return err
			}
			sess = s
		}
		c.Locals("session", sess)
		if sess.User != nil {
			c.Locals("user", sess.User)
		}
		return c.Next()
	}
}

func bearer(c *fiber.Ctx) string {
	h := c.Get(fiber.HeaderAuthorization)
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func session(c *fiber.Ctx) *services.Session {
	if s, ok := c.Locals("session").(*services.Session); ok && s != nil {
		return s
	}
	return &services.Session{ID: c.Cookies("sid")}
}

// reqCtx carries the session token so remote calls forward it.
func reqCtx(c *fiber.Ctx) context.Context {
	return remote.WithToken(c.UserContext(), session(c).Token)
}

// wantsJSON reports whether the caller should get a status code instead of
// a redirect.
func wantsJSON(c *fiber.Ctx) bool {
	if strings.HasPrefix(c.Path(), "/api/") || bearer(c) != "" {
		return true
	}
	return strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMEApplicationJSON)
}

// Guard admits authenticated sessions whose role is one of roles. An empty
// roles list admits any signed-in user.
func Guard(roles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := session(c)
		if !sess.Authenticated() {
			applog.Security(c, "access.denied.anonymous", nil)
			if wantsJSON(c) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "login required", "redirect": "/login"})
			}
			return c.Redirect("/login")
		}
		if len(roles) == 0 {
			return c.Next()
		}
		for _, r := range roles {
			if sess.User.Role == r {
				return c.Next()
			}
		}
		panel := sess.User.Role.PanelPath()
		applog.Security(c, "access.denied.role", map[string]any{"role": string(sess.User.Role)})
		if wantsJSON(c) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "access denied", "redirect": panel})
		}
		return c.Redirect(panel)
	}
}

func RequireAdmin() fiber.Handler   { return Guard(domain.RoleAdmin) }
func RequireTrainer() fiber.Handler { return Guard(domain.RoleTrainer) }
func RequireUser() fiber.Handler    { return Guard(domain.RoleUser) }
