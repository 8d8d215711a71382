package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"electrostore/internal/domain"
	applog "electrostore/internal/log"
	"electrostore/internal/services"
)

const sessionCookie = "sid"

// tokenFrom reads the bearer token, falling back to the session cookie the
// admin console uses.
func tokenFrom(c *fiber.Ctx) string {
	if h := c.Get(fiber.HeaderAuthorization); len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return c.Cookies(sessionCookie)
}

func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}

// AttachUser resolves the caller once per request and stores it in Locals.
func AttachUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tok := tokenFrom(c); tok != "" {
			if u, err := auth.CurrentUser(c.UserContext(), tok); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	}
}

// RequireUser rejects API calls without a valid token.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if currentUser(c) == nil {
			applog.Security(c, "access.denied.anonymous", nil)
			return c.Status(fiber.StatusUnauthorized).JSON(errorBody{Error: "Unauthorized", Message: "authentication required"})
		}
		return c.Next()
	}
}

// RequireAdmin guards the JSON admin endpoints.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := currentUser(c)
		if u == nil {
			applog.Security(c, "access.denied.anonymous", nil)
			return c.Status(fiber.StatusUnauthorized).JSON(errorBody{Error: "Unauthorized", Message: "authentication required"})
		}
		if !u.IsAdmin() {
			applog.Security(c, "access.denied.admin", map[string]any{"role": u.Role})
			return c.Status(fiber.StatusForbidden).JSON(errorBody{Error: "Forbidden", Message: "admin only"})
		}
		return c.Next()
	}
}

// RequireAdminPage guards the HTML console: anonymous visitors go to the
// login form, signed-in non-admins get a 403 page.
func RequireAdminPage() fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := currentUser(c)
		if u == nil {
			return c.Redirect("/admin/login")
		}
		if !u.IsAdmin() {
			applog.Security(c, "access.denied.admin", map[string]any{"role": u.Role})
			return renderMessage(c, fiber.StatusForbidden, "Access denied")
		}
		return c.Next()
	}
}
