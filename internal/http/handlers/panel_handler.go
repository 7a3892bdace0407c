package handlers

import (
	"gymfit/internal/services"

	"github.com/gofiber/fiber/v2"
)

// PanelHandler serves the role landing pages as JSON documents.
type PanelHandler struct {
	Panels *services.PanelService
}

func (h *PanelHandler) Admin(c *fiber.Ctx) error {
	p, err := h.Panels.AdminPanel(reqCtx(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(p)
}

func (h *PanelHandler) Trainer(c *fiber.Ctx) error {
	p, err := h.Panels.TrainerPanel(reqCtx(c), session(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(p)
}

func (h *PanelHandler) User(c *fiber.Ctx) error {
	p, err := h.Panels.UserPanel(reqCtx(c), session(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(p)
}
