package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"electrostore/internal/log"
	"electrostore/internal/services"
	"electrostore/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// login validates the credentials' shape before touching bcrypt, so junk
// input is cheap to reject.
func (h *AuthHandler) login(c *fiber.Ctx, req loginRequest) (string, error) {
	email, ok := validate.Email(req.Email)
	if !ok {
		log.Security(c, "auth.login.fail", map[string]any{"email": req.Email, "reason": "bad_format"})
		return "", services.ErrBadCreds
	}
	if !validate.Password(req.Password) {
		log.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": "bad_password_format"})
		return "", services.ErrBadCreds
	}
	token, u, err := h.Auth.Login(c.UserContext(), email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrBadCreds) {
			log.Security(c, "auth.login.fail", map[string]any{"email": email})
		} else {
			log.Error(c, "auth.login.error", err, map[string]any{"email": email})
		}
		return "", err
	}
	c.Locals("user", u)
	log.Audit(c, "auth.login.success", map[string]any{"email": email})
	return token, nil
}

// POST /api/v1/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	token, err := h.login(c, req)
	if err != nil {
		if errors.Is(err, services.ErrBadCreds) {
			return c.Status(fiber.StatusUnauthorized).JSON(errorBody{Error: "Unauthorized", Message: "invalid email or password"})
		}
		return writeError(c, "auth.login", err)
	}
	return c.JSON(fiber.Map{"token": token})
}

// POST /api/v1/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if tok := tokenFrom(c); tok != "" {
		if err := h.Auth.Logout(c.UserContext(), tok); err != nil {
			return writeError(c, "auth.logout", err)
		}
		log.Audit(c, "auth.logout", nil)
	}
	expireSession(c)
	return c.SendStatus(fiber.StatusNoContent)
}

// GET /admin/login
func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	return render(c, "login", fiber.Map{"Err": ""})
}

// POST /admin/login
func (h *AuthHandler) LoginSubmit(c *fiber.Ctx) error {
	req := loginRequest{Email: c.FormValue("email"), Password: c.FormValue("password")}
	token, err := h.login(c, req)
	if err != nil {
		c.Status(fiber.StatusUnauthorized)
		return render(c, "login", fiber.Map{"Err": "Invalid email or password"})
	}
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   false, // enable behind TLS
	})
	return c.Redirect("/admin/orders")
}

// POST /admin/logout
func (h *AuthHandler) LogoutSubmit(c *fiber.Ctx) error {
	if tok := c.Cookies(sessionCookie); tok != "" {
		_ = h.Auth.Logout(c.UserContext(), tok)
		log.Audit(c, "auth.logout", nil)
	}
	expireSession(c)
	return c.Redirect("/admin/login")
}

func expireSession(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
}
