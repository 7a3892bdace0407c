package handlers

import (
	"errors"

	"gymfit/internal/domain"
	applog "gymfit/internal/log"
	"gymfit/internal/services"

	"github.com/gofiber/fiber/v2"
)

const genericMsg = "Something went wrong. Please try again."

// fail writes the JSON error for err. Validation errors carry their field;
// backend failures collapse to one message with the cause only logged.
func fail(c *fiber.Ctx, err error) error {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": verr.Msg, "field": verr.Field})
	}

	status, msg := classify(err)
	switch {
	case status >= fiber.StatusInternalServerError:
		applog.Error(c, "request.failed", err, nil)
	case status == fiber.StatusUnauthorized || status == fiber.StatusForbidden:
		applog.Security(c, "request.denied", map[string]any{"reason": msg})
	}
	body := fiber.Map{"error": msg}
	var cerr *services.CheckoutError
	if errors.As(err, &cerr) {
		body["runId"] = cerr.RunID
		body["state"] = cerr.State
	}
	return c.Status(status).JSON(body)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrBadCreds):
		return fiber.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, services.ErrNotAuthenticated):
		return fiber.StatusUnauthorized, "login required"
	case errors.Is(err, services.ErrForbiddenRole), errors.Is(err, services.ErrSelfDelete):
		return fiber.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "not found"
	case errors.Is(err, services.ErrEmptyCart):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrInsufficientStock),
		errors.Is(err, services.ErrAlreadyHired),
		errors.Is(err, services.ErrTrainerBusy):
		return fiber.StatusConflict, err.Error()
	case errors.Is(err, services.ErrCheckoutFailed):
		return fiber.StatusBadGateway, "checkout could not be completed"
	}
	return fiber.StatusBadGateway, genericMsg
}

// ErrorHandler is the app-wide fallback: it logs and answers without
// internal detail.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := genericMsg
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		if code < fiber.StatusInternalServerError {
			msg = fe.Message
		}
	}
	applog.Error(c, "server.error", err, map[string]any{"status": code})
	return c.Status(code).JSON(fiber.Map{"error": msg})
}
