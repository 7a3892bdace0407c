package handlers

import (
	applog "gymfit/internal/log"
	"gymfit/internal/services"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Admin    *services.AdminService
	Checkout *services.CheckoutService
}

const adminListLimit = 100

// GET /api/v1/admin/users
func (h *AdminHandler) Users(c *fiber.Ctx) error {
	us, err := h.Admin.ListUsers(reqCtx(c))
	if err != nil {
		applog.Error(c, "admin.users.list.fail", err, nil)
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"users": us})
}

// PUT /api/v1/admin/users/:id
func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	var in services.UserUpdate
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	in.ID = c.Params("id")
	u, err := h.Admin.UpdateUser(reqCtx(c), in)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "admin.users.update", map[string]any{"target": u.ID, "role": string(u.Role)})
	return c.JSON(u)
}

// DELETE /api/v1/admin/users/:id
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Admin.DeleteUser(reqCtx(c), session(c), id); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "admin.users.delete", map[string]any{"target": id})
	return c.SendStatus(fiber.StatusNoContent)
}

// POST /api/v1/admin/products
func (h *AdminHandler) CreateProduct(c *fiber.Ctx) error {
	var in services.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	p, err := h.Admin.CreateProduct(reqCtx(c), in)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "admin.products.create", map[string]any{"product": p.ID})
	return c.Status(fiber.StatusCreated).JSON(p)
}

type stockInput struct {
	Stock int `json:"stock" form:"stock"`
}

// PUT /api/v1/admin/products/:id/stock
func (h *AdminHandler) SetStock(c *fiber.Ctx) error {
	var in stockInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	p, err := h.Admin.SetStock(reqCtx(c), c.Params("id"), in.Stock)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "admin.products.stock", map[string]any{"product": p.ID, "stock": p.Stock})
	return c.JSON(p)
}

// DELETE /api/v1/admin/products/:id
func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Admin.DeleteProduct(reqCtx(c), id); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "admin.products.delete", map[string]any{"product": id})
	return c.SendStatus(fiber.StatusNoContent)
}

// GET /api/v1/admin/orders
func (h *AdminHandler) Orders(c *fiber.Ctx) error {
	ords, err := h.Admin.ListOrders(reqCtx(c), adminListLimit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"orders": ords})
}

// GET /api/v1/admin/payments
func (h *AdminHandler) Payments(c *fiber.Ctx) error {
	ps, err := h.Admin.ListPayments(reqCtx(c), adminListLimit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"payments": ps})
}

// GET /api/v1/admin/checkouts: runs left for manual reconciliation.
func (h *AdminHandler) Checkouts(c *fiber.Ctx) error {
	runs, err := h.Checkout.Unreconciled(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"runs": runs})
}
