package handlers

import (
	"gymfit/internal/domain"
	"gymfit/internal/log"
	"gymfit/internal/services"
	"gymfit/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct {
	Catalog *services.CatalogService
}

// List serves the catalog, narrowed by ?categoria= or ?q= when present.
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	var (
		ps  []domain.Product
		err error
	)
	switch {
	case c.Query("q") != "":
		q, ok := validate.Q(c.Query("q"))
		if !ok {
			log.Security(c, "input.invalid.q", map[string]any{"q": c.Query("q")})
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid search", "field": "q"})
		}
		ps, err = h.Catalog.Search(reqCtx(c), q)
	case c.Query("categoria") != "":
		ps, err = h.Catalog.ByCategory(reqCtx(c), domain.Category(c.Query("categoria")))
	default:
		ps, err = h.Catalog.List(reqCtx(c))
	}
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"products": ps})
}

func (h *CatalogHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id", "field": "id"})
	}
	p, err := h.Catalog.Get(reqCtx(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(p)
}
