package log

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"gymfit/internal/domain"
)

// stdWriter forwards to the standard logger's current writer so that
// log.SetOutput (file sinks, tests) also captures these entries.
type stdWriter struct{}

func (stdWriter) Write(p []byte) (int, error) { return log.Writer().Write(p) }

var logger = zerolog.New(stdWriter{})

func write(level string, c *fiber.Ctx, action string, err error, fields map[string]any) {
	ev := logger.Log().
		Str("ts", time.Now().UTC().Format(time.RFC3339)).
		Str("level", level)
	if c != nil {
		ev = ev.Str("ip", c.IP()).
			Str("method", c.Method()).
			Str("path", c.Path())
		if st := c.Response().StatusCode(); st != 0 {
			ev = ev.Int("status", st)
		}
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			ev = ev.Str("req_id", rid)
		}
		if u, ok := c.Locals("user").(*domain.User); ok && u != nil {
			ev = ev.Str("user_id", u.ID)
		}
	}
	if action != "" {
		ev = ev.Str("action", action)
	}
	if err != nil {
		ev = ev.Str("err", err.Error())
	}
	if len(fields) > 0 {
		ev = ev.Interface("fields", fields)
	}
	ev.Send()
}

func Info(c *fiber.Ctx, action string, fields map[string]any) { write("info", c, action, nil, fields) }
func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	write("audit", c, action, nil, fields)
}
func Security(c *fiber.Ctx, action string, fields map[string]any) {
	write("warn", c, action, nil, fields)
}
func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	write("error", c, action, err, fields)
}

// Warn is the request-less form used by services and background code.
func Warn(action string, err error, fields map[string]any) {
	write("warn", nil, action, err, fields)
}

// Event records a request-less info entry (domain events, startup).
func Event(action string, fields map[string]any) {
	write("info", nil, action, nil, fields)
}
