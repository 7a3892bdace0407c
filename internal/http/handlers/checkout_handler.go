package handlers

import (
	"gymfit/internal/log"
	"gymfit/internal/services"

	"github.com/gofiber/fiber/v2"
)

type CheckoutHandler struct {
	Checkout *services.CheckoutService
}

type checkoutInput struct {
	Method string `json:"method" form:"method"`
}

func (h *CheckoutHandler) Place(c *fiber.Ctx) error {
	var in checkoutInput
	// empty body means the default payment method
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
		}
	}
	rc, err := h.Checkout.Checkout(reqCtx(c), session(c), in.Method)
	if err != nil {
		return fail(c, err)
	}
	log.Audit(c, "checkout.completed", map[string]any{
		"order_id": rc.OrderID, "payment_id": rc.PaymentID, "total": rc.Total,
	})
	return c.Status(fiber.StatusCreated).JSON(rc)
}
