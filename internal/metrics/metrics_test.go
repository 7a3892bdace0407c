package metrics_test

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymfit/internal/metrics"
)

func TestMiddlewareAndExposition(t *testing.T) {
	app := fiber.New()
	app.Use(metrics.Middleware())
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	_, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	metrics.RecordLogin(false)
	metrics.RecordCheckout("completed")

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	out := string(body)

	assert.True(t, strings.Contains(out, `gymfit_http_requests_total{method="GET",route="/ping",status="200"} 1`), out)
	assert.Contains(t, out, `gymfit_auth_logins_total{result="failure"} 1`)
	assert.Contains(t, out, `gymfit_checkout_runs_total{state="completed"} 1`)
}
