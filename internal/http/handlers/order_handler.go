package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"electrostore/internal/domain"
	applog "electrostore/internal/log"
	"electrostore/internal/services"
	"electrostore/internal/validate"
)

type OrderHandler struct {
	Checkout *services.CheckoutService
	Orders   *services.OrderService
}

type checkoutRequest struct {
	AddressID      string           `json:"address_id"`
	PaymentMethod  *int             `json:"payment_method"`
	IsHomeDelivery bool             `json:"is_home_delivery"`
	DeliveryPrice  *decimal.Decimal `json:"delivery_price"`
}

// POST /api/v1/checkout
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	addrID, ok := validate.ID(req.AddressID)
	if !ok {
		return badRequest(c, "invalid address_id")
	}
	if req.PaymentMethod == nil {
		return badRequest(c, "payment_method is required")
	}
	pm, err := domain.PaymentMethodFromCode(*req.PaymentMethod)
	if err != nil {
		return writeError(c, "checkout", err)
	}

	o, err := h.Checkout.Checkout(c.UserContext(), currentUser(c).ID, services.CheckoutInput{
		AddressID:      addrID,
		PaymentMethod:  pm,
		IsHomeDelivery: req.IsHomeDelivery,
		DeliveryPrice:  req.DeliveryPrice,
	})
	if err != nil {
		return writeError(c, "checkout", err)
	}
	applog.Audit(c, "checkout.success", map[string]any{"order_id": o.ID, "total": o.TotalAmount.StringFixed(2)})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"order": o})
}

// GET /api/v1/orders?page=&page_size=
func (h *OrderHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	size := c.QueryInt("page_size", 0)
	if page < 1 || size < 0 {
		return badRequest(c, "page must be >= 1 and page_size >= 0")
	}
	ords, err := h.Orders.ListForUser(c.UserContext(), currentUser(c).ID, page, size)
	if err != nil {
		return writeError(c, "orders.list", err)
	}
	return c.JSON(ords)
}

// GET /api/v1/orders/:id
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid order id")
	}
	o, err := h.Orders.Get(c.UserContext(), currentUser(c), id)
	if err != nil {
		return writeError(c, "orders.get", err)
	}
	return c.JSON(o)
}

// PATCH /api/v1/admin/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid order id")
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	o, err := h.Orders.UpdateStatus(c.UserContext(), id, req.Status)
	if err != nil {
		return writeError(c, "admin.orders.update", err)
	}
	applog.Audit(c, "admin.orders.update", map[string]any{"order_id": id, "status": o.Status})
	return c.JSON(o)
}
