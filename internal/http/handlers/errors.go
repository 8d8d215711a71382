package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"electrostore/internal/domain"
	applog "electrostore/internal/log"
)

type errorBody struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Retryable *bool  `json:"retryable,omitempty"`
}

// writeError maps service errors onto status codes. Storage details never
// reach the client; they go to the log instead.
func writeError(c *fiber.Ctx, action string, err error) error {
	var ce *domain.CheckoutError
	isCheckout := errors.As(err, &ce)

	body := errorBody{}
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		status, body.Error, body.Message = fiber.StatusBadRequest, "EmptyCart", "cart is empty"
	case errors.Is(err, domain.ErrInsufficientStock):
		status, body.Error, body.Message = fiber.StatusConflict, "InsufficientStock", "not enough stock for one or more items"
	case isCheckout:
		body.Error, body.Message = "CheckoutFailed", "checkout could not be completed"
	case errors.Is(err, domain.ErrInvalidArgument):
		status, body.Error, body.Message = fiber.StatusBadRequest, "InvalidArgument", err.Error()
	case errors.Is(err, domain.ErrNotFound):
		status, body.Error, body.Message = fiber.StatusNotFound, "NotFound", "not found"
	case errors.Is(err, domain.ErrUnauthorized):
		status, body.Error, body.Message = fiber.StatusUnauthorized, "Unauthorized", "authentication required"
	default:
		body.Error, body.Message = "Internal", "something went wrong, please try again"
	}
	if isCheckout {
		retry := ce.Transient
		body.Retryable = &retry
	}

	c.Status(status)
	if status >= fiber.StatusInternalServerError {
		applog.Error(c, action+".fail", err, nil)
	} else {
		applog.Info(c, action+".reject", map[string]any{"error": body.Error})
	}
	return c.JSON(body)
}

func badRequest(c *fiber.Ctx, msg string) error {
	applog.Security(c, "validation.fail", map[string]any{"reason": msg})
	return c.Status(fiber.StatusBadRequest).JSON(errorBody{Error: "InvalidArgument", Message: msg})
}
