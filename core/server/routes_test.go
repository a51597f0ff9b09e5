package server_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"contest-sync/core/middleware/auth"
	"contest-sync/core/server"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(apiKey string) *fiber.App {
	app := fiber.New()
	ok := func(c *fiber.Ctx) error { return c.SendString("ok") }

	r := server.Guard(app, auth.New(auth.Config{ApiKey: apiKey}))
	r.Get("/contests", ok)
	r.Group("/status").Post("/:cycle/run", ok)
	r.Route("/integrity", func(router fiber.Router) {
		router.Get("/schema", ok)
	})

	app.Use(server.NotFound)
	return app
}

func TestNotFound(t *testing.T) {
	for _, key := range []string{"", "secret"} {
		app := newApp(key)

		resp, err := app.Test(httptest.NewRequest("GET", "/nope?page=2", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode, "api key %q", key)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "/nope?page=2 route not found", body["error"])
	}
}

func TestGuard(t *testing.T) {
	app := newApp("secret")

	tests := []struct {
		name   string
		method string
		path   string
		key    string
		want   int
	}{
		{"Get Without Key", "GET", "/contests", "", fiber.StatusUnauthorized},
		{"Get With Key", "GET", "/contests", "secret", fiber.StatusOK},
		{"Head Without Key", "HEAD", "/contests", "", fiber.StatusUnauthorized},
		{"Group Without Key", "POST", "/status/full/run", "", fiber.StatusUnauthorized},
		{"Group With Key", "POST", "/status/full/run", "secret", fiber.StatusOK},
		{"Route Without Key", "GET", "/integrity/schema", "", fiber.StatusUnauthorized},
		{"Route With Key", "GET", "/integrity/schema", "secret", fiber.StatusOK},
		{"Wrong Method", "DELETE", "/contests", "", fiber.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.key != "" {
				req.Header.Set(auth.HeaderName, tt.key)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
