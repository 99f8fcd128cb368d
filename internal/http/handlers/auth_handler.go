package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"orderly/internal/log"
	"orderly/internal/services"
	"orderly/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

func setSID(c *fiber.Ctx, sid string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    sid,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   false, // enable true behind TLS
		Expires:  expires,
	})
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	if c.Locals("admin") != nil {
		return c.Redirect("/")
	}
	return render(c, "login", fiber.Map{"Err": ""})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	fail := func(reason string, username string) error {
		log.Security(c, "auth.login.fail", map[string]any{"username": username, "reason": reason})
		c.Status(fiber.StatusUnauthorized)
		return render(c, "login", fiber.Map{"Err": "Invalid username or password"})
	}

	username, ok := validate.Username(c.FormValue("username"))
	if !ok {
		return fail("bad_format", "")
	}
	pass := c.FormValue("password")
	if !validate.Password(pass) {
		return fail("bad_password_format", username)
	}

	// fresh session id on every login
	sid := uuid.NewString()
	admin, err := h.Auth.Login(c.UserContext(), sid, username, pass)
	if err != nil {
		return fail("bad_credentials", username)
	}
	setSID(c, sid, time.Time{})
	c.Locals("admin", admin)
	log.Audit(c, "auth.login.success", map[string]any{"username": username})
	return c.Redirect("/")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if sid := c.Cookies("sid"); sid != "" {
		if err := h.Auth.Logout(c.UserContext(), sid); err != nil {
			log.Warn(c, "auth.logout.fail", err, nil)
		}
	}
	setSID(c, "", time.Now().Add(-1*time.Hour))
	log.Audit(c, "auth.logout", nil)
	return c.Redirect("/login")
}
