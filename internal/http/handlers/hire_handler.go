package handlers

import (
	"gymfit/internal/domain"
	"gymfit/internal/log"
	"gymfit/internal/services"

	"github.com/gofiber/fiber/v2"
)

type HireHandler struct {
	Hires *services.HireService
}

func (h *HireHandler) Trainers(c *fiber.Ctx) error {
	ts, err := h.Hires.Trainers(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"trainers": ts})
}

func (h *HireHandler) Trainer(c *fiber.Ctx) error {
	t, err := h.Hires.Trainer(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(t)
}

func (h *HireHandler) Hire(c *fiber.Ctx) error {
	hire, err := h.Hires.Hire(c.UserContext(), session(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	log.Audit(c, "hire.created", map[string]any{"hire_id": hire.ID, "trainer_id": hire.TrainerID})
	return c.Status(fiber.StatusCreated).JSON(hire)
}

// Mine lists the caller's hires: as the hiring user, or as the trainer.
func (h *HireHandler) Mine(c *fiber.Ctx) error {
	sess := session(c)
	if sess.Authenticated() && sess.User.Role == domain.RoleTrainer {
		t, hs, err := h.Hires.HiresForTrainer(c.UserContext(), sess)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"trainer": t, "hires": hs})
	}
	hs, err := h.Hires.HiresForUser(c.UserContext(), sess)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"hires": hs})
}

type messageInput struct {
	Content string `json:"content" form:"content"`
}

func (h *HireHandler) Message(c *fiber.Ctx) error {
	var in messageInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	m, err := h.Hires.SendMessage(c.UserContext(), session(c), c.Params("id"), in.Content)
	if err != nil {
		return fail(c, err)
	}
	log.Info(c, "hire.message", map[string]any{"hire_id": c.Params("id"), "message_id": m.ID})
	return c.Status(fiber.StatusCreated).JSON(m)
}

type statusInput struct {
	Status string `json:"status" form:"status"`
}

func (h *HireHandler) SetStatus(c *fiber.Ctx) error {
	var in statusInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if err := h.Hires.SetStatus(c.UserContext(), session(c), c.Params("id"), in.Status); err != nil {
		return fail(c, err)
	}
	log.Audit(c, "hire.status", map[string]any{"hire_id": c.Params("id"), "status": in.Status})
	return c.JSON(fiber.Map{"id": c.Params("id"), "status": in.Status})
}
