package rayid_test

import (
	"net/http/httptest"
	"testing"

	"content-transfer/core/middleware/rayid"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRayIDGenerated tests that requests without a ray id get one assigned
// and exposed to handlers and the response.
func TestRayIDGenerated(t *testing.T) {
	app := fiber.New()
	app.Use(rayid.New())

	var seen string
	app.Get("/", func(c *fiber.Ctx) error {
		seen, _ = c.Locals(rayid.LocalsKey).(string)
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, resp.Header.Get(rayid.HeaderName))
}

// TestRayIDPropagated tests that a caller-supplied ray id is kept.
func TestRayIDPropagated(t *testing.T) {
	app := fiber.New()
	app.Use(rayid.New())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(rayid.HeaderName, "caller-ray-1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "caller-ray-1", resp.Header.Get(rayid.HeaderName))
}
