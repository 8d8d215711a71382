package handlers_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"electrostore/internal/http/handlers"
	"electrostore/web"
)

func newErrorApp() *fiber.App {
	app := fiber.New(fiber.Config{Views: web.Engine(), ErrorHandler: handlers.ErrorHandler})
	app.Use(requestid.New())
	app.Use(recover.New())
	app.Get("/err", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusInternalServerError, "db timeout: secret trace")
	})
	app.Get("/api/v1/boom", func(c *fiber.Ctx) error {
		panic("secret state")
	})
	return app
}

func TestErrorHandlerFriendlyMessage(t *testing.T) {
	app := newErrorApp()
	resp, err := app.Test(httptest.NewRequest("GET", "/err", nil))
	if err != nil {
		t.Fatalf("test request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	s := string(body)
	if !strings.Contains(s, "Something went wrong") {
		t.Fatalf("friendly message missing; body=%s", s)
	}
	if strings.Contains(s, "db timeout") || strings.Contains(s, "secret") {
		t.Fatalf("internal details leaked to user; body=%s", s)
	}
}

func TestPanicsBecomeJSON500(t *testing.T) {
	app := newErrorApp()
	var resp *http.Response
	entries := captureLogs(t, func() {
		var err error
		resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/boom", nil))
		if err != nil {
			t.Fatalf("test request failed: %v", err)
		}
	})
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if strings.Contains(string(body), "secret") || decodeError(t, body).Error != "Internal" {
		t.Fatalf("unexpected body: %s", body)
	}
	if l := findLog(entries, "server.error"); l == nil || !strings.Contains(l.Err, "secret state") {
		t.Fatalf("panic not logged: %+v", entries)
	}
}

func TestUnknownRoutes(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.api(t, "GET", "/api/v1/nowhere", "", nil)
	if resp.StatusCode != fiber.StatusNotFound || decodeError(t, body).Error != "NotFound" {
		t.Fatalf("api 404: %d %s", resp.StatusCode, body)
	}
	resp, body = env.do(t, httptest.NewRequest("GET", "/nowhere", nil))
	if resp.StatusCode != fiber.StatusNotFound || !strings.Contains(string(body), "Page not found") {
		t.Fatalf("page 404: %d %s", resp.StatusCode, body)
	}
	resp, _ = env.do(t, httptest.NewRequest("GET", "/healthz", nil))
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("healthz: %d", resp.StatusCode)
	}
}
