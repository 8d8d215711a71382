package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	applog "electrostore/internal/log"
)

const csrfCookie = "csrf_"

func isAPI(c *fiber.Ctx) bool { return strings.HasPrefix(c.Path(), "/api/") }

// ErrorHandler logs the real error and answers with a generic message.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
	}
	if status >= fiber.StatusInternalServerError {
		applog.Error(c, "server.error", err, nil)
	}
	msg := "Something went wrong. Please try again."
	if status < fiber.StatusInternalServerError {
		msg = fe.Message
	}
	if isAPI(c) {
		return c.Status(status).JSON(errorBody{Error: "Internal", Message: msg})
	}
	if rerr := renderMessage(c, status, msg); rerr != nil {
		return c.Status(status).SendString(msg)
	}
	return nil
}

// NewApp builds the fiber app with middleware and every route.
func NewApp(d *Deps, views fiber.Views) *fiber.App {
	app := fiber.New(fiber.Config{
		Views:        views,
		ErrorHandler: ErrorHandler,
		BodyLimit:    1 << 20, // 1 MiB
	})

	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(recover.New())
	app.Use(AttachUser(d.Auth))
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/healthz"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.global.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(errorBody{Error: "RateLimited", Message: "rate limit exceeded, retry soon"})
		},
	}))

	Register(app, d)
	return app
}

func loginLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			if isAPI(c) {
				return c.Status(fiber.StatusTooManyRequests).JSON(errorBody{Error: "RateLimited", Message: "too many attempts, try again later"})
			}
			c.Status(fiber.StatusTooManyRequests)
			return render(c, "login", fiber.Map{"Err": "Too many attempts. Please try again later."})
		},
	})
}

// Register mounts the JSON API under /api/v1 and the HTML console under /admin.
func Register(app *fiber.App, d *Deps) {
	api := app.Group("/api/v1")
	api.Post("/login", loginLimiter(), d.AuthHandler.Login)
	api.Post("/logout", d.AuthHandler.Logout)

	api.Get("/categories", d.CatalogHandler.Categories)
	api.Get("/categories/:id/products", d.CatalogHandler.CategoryProducts)
	api.Get("/products/:id", d.CatalogHandler.Product)

	user := RequireUser()
	api.Get("/cart", user, d.CartHandler.View)
	api.Post("/cart", user, d.CartHandler.Add)
	api.Delete("/cart", user, d.CartHandler.Clear)
	api.Put("/cart/:productId", user, d.CartHandler.Update)
	api.Delete("/cart/:productId", user, d.CartHandler.Remove)

	api.Get("/addresses", user, d.AddressHandler.List)
	api.Post("/addresses", user, d.AddressHandler.Create)
	api.Get("/addresses/:id", user, d.AddressHandler.Get)

	api.Post("/checkout", user, d.OrderHandler.Place)
	api.Get("/orders", user, d.OrderHandler.List)
	api.Get("/orders/:id", user, d.OrderHandler.Get)

	adminAPI := api.Group("/admin", RequireAdmin())
	adminAPI.Patch("/orders/:id/status", d.OrderHandler.UpdateStatus)
	adminAPI.Post("/products", d.CatalogHandler.CreateProduct)
	adminAPI.Put("/products/:id", d.CatalogHandler.UpdateProduct)
	adminAPI.Get("/products/:id/suppliers", d.CatalogHandler.ProductSuppliers)
	adminAPI.Post("/products/:id/suppliers", d.CatalogHandler.LinkSupplier)
	adminAPI.Post("/suppliers", d.CatalogHandler.CreateSupplier)

	console := app.Group("/admin", csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     csrfCookie,
		CookieSameSite: "Lax",
		CookieSecure:   false, // set true behind HTTPS
		ContextKey:     "csrf",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", map[string]any{"form": c.FormValue("csrf")})
			return renderMessage(c, fiber.StatusForbidden, "Security check failed. Please refresh and try again.")
		},
	}))
	console.Get("/login", d.AuthHandler.LoginForm)
	console.Post("/login", loginLimiter(), d.AuthHandler.LoginSubmit)
	console.Post("/logout", d.AuthHandler.LogoutSubmit)
	page := RequireAdminPage()
	console.Get("/", page, d.AdminHandler.Dashboard)
	console.Get("/orders", page, d.AdminHandler.OrdersPage)
	console.Post("/orders/:id/status", page, d.AdminHandler.UpdateOrderStatus)

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		if isAPI(c) {
			return c.Status(fiber.StatusNotFound).JSON(errorBody{Error: "NotFound", Message: "no such route"})
		}
		return renderMessage(c, fiber.StatusNotFound, "Page not found")
	})
}
