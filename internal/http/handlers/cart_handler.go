package handlers

import (
	"gymfit/internal/log"
	"gymfit/internal/services"

	"github.com/gofiber/fiber/v2"
)

type CartHandler struct {
	Cart *services.CartService
}

type cartInput struct {
	ProductID string `json:"productId" form:"productId"`
	Quantity  int    `json:"quantity" form:"quantity"`
}

func (h *CartHandler) render(c *fiber.Ctx, status int) error {
	cv, err := h.Cart.View(reqCtx(c), session(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(status).JSON(cv)
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	return h.render(c, fiber.StatusOK)
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	var in cartInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if in.Quantity <= 0 {
		in.Quantity = 1
	}
	if err := h.Cart.Add(reqCtx(c), session(c), in.ProductID, in.Quantity); err != nil {
		return fail(c, err)
	}
	log.Info(c, "cart.add", map[string]any{"product_id": in.ProductID, "qty": in.Quantity})
	return h.render(c, fiber.StatusOK)
}

// Update sets the absolute quantity of a line; zero or less removes it.
func (h *CartHandler) Update(c *fiber.Ctx) error {
	var in cartInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	id := c.Params("productId")
	if err := h.Cart.UpdateQuantity(reqCtx(c), session(c), id, in.Quantity); err != nil {
		return fail(c, err)
	}
	log.Info(c, "cart.update", map[string]any{"product_id": id, "qty": in.Quantity})
	return h.render(c, fiber.StatusOK)
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	id := c.Params("productId")
	if err := h.Cart.Remove(reqCtx(c), session(c), id); err != nil {
		return fail(c, err)
	}
	log.Info(c, "cart.remove", map[string]any{"product_id": id})
	return h.render(c, fiber.StatusOK)
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	if err := h.Cart.Clear(reqCtx(c), session(c)); err != nil {
		return fail(c, err)
	}
	log.Info(c, "cart.clear", nil)
	return h.render(c, fiber.StatusOK)
}
