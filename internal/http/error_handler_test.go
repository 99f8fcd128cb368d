package handlers_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderly/internal/http/handlers"
)

func TestErrorHandlerHidesInternals(t *testing.T) {
	app := fiber.New(fiber.Config{
		Views:        html.New("../../web/templates", ".html"),
		ErrorHandler: handlers.ErrorHandler,
	})
	app.Use(requestid.New())
	app.Get("/page", func(c *fiber.Ctx) error { return errors.New("db timeout: secret trace") })
	app.Get("/api/thing", func(c *fiber.Ctx) error { return errors.New("db timeout: secret trace") })

	for _, path := range []string{"/page", "/api/thing"} {
		var resp *http.Response
		entries := captureLogs(t, func() {
			var err error
			resp, err = app.Test(httptest.NewRequest("GET", path, nil))
			require.NoError(t, err)
		})
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode, path)
		body, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(body), "Something went wrong", path)
		assert.NotContains(t, string(body), "secret", path)

		e, ok := findLog(entries, "server.error")
		require.True(t, ok, path)
		assert.NotEmpty(t, e.ReqID, path)
	}
}
