package handlers

import "github.com/gofiber/fiber/v2"

// render injects the signed-in user and the CSRF token every console page
// needs for its forms.
func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if u := c.Locals("user"); u != nil {
		data["User"] = u
	}
	if tok, _ := c.Locals("csrf").(string); tok != "" {
		data["CSRFToken"] = tok
	} else if tok := c.Cookies(csrfCookie); tok != "" {
		data["CSRFToken"] = tok
	}
	return c.Render(tmpl, data)
}

func renderMessage(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).Render("notfound", fiber.Map{"Message": msg})
}
