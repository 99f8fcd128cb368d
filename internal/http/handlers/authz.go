package handlers

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "orderly/internal/log"
	"orderly/internal/services"
)

// AttachAdmin puts the logged-in admin into Locals when the session is bound.
func AttachAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if a, err := auth.CurrentAdmin(c.UserContext(), sid); err == nil && a != nil {
				c.Locals("admin", a)
			}
		}
		return c.Next()
	}
}

// RequireAdmin lets only a bound admin session through. API callers get a
// JSON 401, page requests are sent to the login form.
func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		if sid != "" {
			if a, err := auth.CurrentAdmin(c.UserContext(), sid); err == nil && a != nil {
				c.Locals("admin", a)
				return c.Next()
			}
		}
		if strings.HasPrefix(c.Path(), "/api/") {
			applog.Security(c, "access.denied.api", map[string]any{"has_session": sid != ""})
			return jsonError(c, fiber.StatusUnauthorized, "login required")
		}
		return c.Redirect("/login")
	}
}

func jsonError(c *fiber.Ctx, code int, msg string) error {
	return c.Status(code).JSON(fiber.Map{"error": msg})
}

// BotSecretHeader carries the shared secret a chat transport must send.
const BotSecretHeader = "X-Bot-Secret"

// RequireBotSecret admits transport calls that present the configured secret.
// An empty secret admits nobody.
func RequireBotSecret(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		got := c.Get(BotSecretHeader)
		if secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			applog.Security(c, "bot.secret.reject", map[string]any{"has_secret": got != ""})
			return jsonError(c, fiber.StatusUnauthorized, "invalid bot secret")
		}
		return c.Next()
	}
}
