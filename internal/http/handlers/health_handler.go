package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	applog "orderly/internal/log"
	"orderly/internal/store"
)

type HealthHandler struct {
	Store *store.Store
}

// GET /health
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()
	ok := true
	if err := h.Store.Ping(ctx); err != nil {
		applog.Warn(c, "health.ping.fail", err, map[string]any{"backend": string(h.Store.Kind())})
		ok = false
		c.Status(fiber.StatusServiceUnavailable)
	}
	return c.JSON(fiber.Map{
		"ok":      ok,
		"backend": h.Store.Kind(),
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}
