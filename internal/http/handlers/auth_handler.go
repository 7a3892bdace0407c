package handlers

import (
	"time"

	"gymfit/internal/log"
	"gymfit/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuthHandler struct {
	Auth *services.AuthService
	Cart *services.CartService
}

func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false,
		})
		// visible to handlers later in this request
		c.Request().Header.SetCookie("sid", sid)
	}
	return sid
}

// LoginForm is where guards send anonymous browsers. It hands out the CSRF
// token needed by the login call.
func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	tok, _ := c.Locals("csrf").(string)
	if tok == "" {
		tok = c.Cookies("csrf_")
	}
	return c.JSON(fiber.Map{"login": "/api/v1/auth/login", "csrf": tok})
}

type loginInput struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in loginInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	sess := session(c)
	u, err := h.Auth.Login(reqCtx(c), sess, in.Email, in.Password)
	if err != nil {
		log.Security(c, "auth.login.fail", map[string]any{"email": in.Email})
		return fail(c, err)
	}
	c.Locals("user", u)

	// token now set on the session
	cx := reqCtx(c)
	if err := h.Cart.MergeGuest(cx, sess); err != nil {
		log.Error(c, "cart.merge", err, nil)
	}
	cart, err := h.Cart.Reload(cx, sess)
	if err != nil {
		log.Error(c, "cart.reload", err, nil)
	}

	log.Audit(c, "auth.login.success", map[string]any{"email": u.Email})
	return c.JSON(fiber.Map{
		"user":     u,
		"token":    sess.Token,
		"redirect": u.Role.PanelPath(),
		"cart":     cart,
	})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in services.RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	u, err := h.Auth.Register(reqCtx(c), in)
	if err != nil {
		log.Security(c, "auth.register.fail", map[string]any{"email": in.Email})
		return fail(c, err)
	}
	log.Audit(c, "auth.register", map[string]any{"email": u.Email, "user_id": u.ID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": u, "redirect": "/login"})
}

// Logout ends the cookie session. Bearer tokens are stateless: the client
// discards its token, which stays valid until exp, and no cookie session
// is touched.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if bearer(c) != "" {
		log.Audit(c, "auth.logout", map[string]any{"mode": "token"})
		return c.JSON(fiber.Map{"redirect": "/login"})
	}
	sid := ensureSID(c)
	if err := h.Auth.Logout(c.UserContext(), sid); err != nil {
		log.Error(c, "auth.logout", err, nil)
	}
	// Expire cookie
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   false,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	log.Audit(c, "auth.logout", map[string]any{"sid": sid})
	return c.JSON(fiber.Map{"redirect": "/login"})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(session(c).Auth())
}
