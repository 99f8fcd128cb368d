package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	applog "orderly/internal/log"
)

const (
	csrfCookie = "csrf_"
	csrfHeader = "X-CSRF-Token"
	csrfForm   = "csrf"
)

var errNoCSRFToken = errors.New("missing csrf token")

func isJSONPath(p string) bool {
	return strings.HasPrefix(p, "/api/") || strings.HasPrefix(p, "/bot/")
}

// ErrorHandler logs the failure and answers without leaking internals.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		applog.Error(c, "server.error", err, nil)
	}
	msg := "Something went wrong. Please try again."
	if code < fiber.StatusInternalServerError && fe != nil {
		msg = fe.Message
	}
	if isJSONPath(c.Path()) {
		return c.Status(code).JSON(fiber.Map{"error": msg})
	}
	if rerr := c.Status(code).Render("notfound", fiber.Map{"Message": msg}); rerr != nil {
		return c.Status(code).SendString(msg)
	}
	return nil
}

// csrfToken reads the token from the header (panel scripts) or the form
// field (HTML forms).
func csrfToken(c *fiber.Ctx) (string, error) {
	if tok := c.Get(csrfHeader); tok != "" {
		return tok, nil
	}
	if tok := c.FormValue(csrfForm); tok != "" {
		return tok, nil
	}
	return "", errNoCSRFToken
}

// NewApp builds the fiber app with the shared middleware chain and every
// route. extra runs after request ids are assigned and before routing.
func NewApp(views fiber.Views, d *Deps, extra ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		Views:        views,
		ErrorHandler: ErrorHandler,
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	app.Use(requestid.New())
	for _, h := range extra {
		app.Use(h)
	}
	app.Use(helmet.New())
	app.Use(AttachAdmin(d.AuthSvc))
	app.Use(csrf.New(csrf.Config{
		CookieName:     csrfCookie,
		CookieSameSite: "Lax",
		CookieSecure:   false, // set true behind HTTPS
		ContextKey:     "csrf",
		Extractor:      csrfToken,
		// the bot adapter is called by transports, not browsers
		Next: func(c *fiber.Ctx) bool { return strings.HasPrefix(c.Path(), "/bot/") },
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", map[string]any{"reason": err.Error()})
			if isJSONPath(c.Path()) {
				return jsonError(c, fiber.StatusForbidden, "security check failed")
			}
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	}))

	Register(app, d)

	app.Use(func(c *fiber.Ctx) error {
		if isJSONPath(c.Path()) {
			return jsonError(c, fiber.StatusNotFound, "not found")
		}
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Page not found"})
	})
	return app
}

// Register mounts every route on app.
func Register(app *fiber.App, d *Deps) {
	app.Get("/health", d.HealthHandler.Check)
	app.Get("/metrics", adaptor.HTTPHandler(d.Metrics.Handler()))

	app.Post("/bot/events", RequireBotSecret(d.BotSecret), limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|bot"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.bot.hit", nil)
			return jsonError(c, fiber.StatusTooManyRequests, "rate limit exceeded, retry soon")
		},
	}), d.BotHandler.Event)

	// Auth routes (login throttled)
	app.Get("/login", d.AuthHandler.LoginForm)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|login"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			c.Status(fiber.StatusTooManyRequests)
			return render(c, "login", fiber.Map{"Err": "Too many attempts. Please try again later."})
		},
	}), d.AuthHandler.Login)
	app.Post("/logout", d.AuthHandler.Logout)

	guard := RequireAdmin(d.AuthSvc)
	app.Get("/", guard, d.AdminHandler.Dashboard)

	api := app.Group("/api", guard)
	api.Get("/orders", d.OrderHandler.List)
	api.Get("/orders/new/count", d.OrderHandler.NewCount)
	api.Get("/orders/:id", d.OrderHandler.Detail)
	api.Post("/orders/:id/status", d.OrderHandler.UpdateStatus)
	api.Delete("/orders/:id", d.OrderHandler.Delete)
	api.Get("/stats", d.OrderHandler.Stats)
	api.Get("/stats/daily", d.OrderHandler.DailyStats)
}
