package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"electrostore/internal/domain"
	applog "electrostore/internal/log"
	"electrostore/internal/services"
	"electrostore/internal/validate"
)

// AdminHandler serves the HTML order console.
type AdminHandler struct {
	Orders *services.OrderService
}

var orderStatuses = []domain.OrderStatus{
	domain.StatusPending, domain.StatusPaid, domain.StatusShipped, domain.StatusCompleted, domain.StatusCancelled,
}

// GET /admin
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	return c.Redirect("/admin/orders")
}

// GET /admin/orders
func (h *AdminHandler) OrdersPage(c *fiber.Ctx) error {
	ords, err := h.Orders.ListLatest(c.UserContext(), 100)
	if err != nil {
		applog.Error(c, "admin.orders.list.fail", err, nil)
		return renderMessage(c, fiber.StatusInternalServerError, "Could not load orders")
	}
	return render(c, "admin_orders", fiber.Map{"Orders": ords, "Statuses": orderStatuses})
}

// POST /admin/orders/:id/status
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	status := c.FormValue("status")
	if !ok || status == "" {
		return c.Status(fiber.StatusBadRequest).SendString("missing id or status")
	}
	if _, err := h.Orders.UpdateStatus(c.UserContext(), id, status); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return renderMessage(c, fiber.StatusNotFound, "Order not found")
		case errors.Is(err, domain.ErrInvalidArgument):
			applog.Security(c, "admin.orders.update.reject", map[string]any{"order_id": id, "status": status})
			return c.Status(fiber.StatusBadRequest).SendString("status change not allowed")
		}
		applog.Error(c, "admin.orders.update.fail", err, map[string]any{"order_id": id})
		return renderMessage(c, fiber.StatusInternalServerError, "Could not update status")
	}
	applog.Audit(c, "admin.orders.update", map[string]any{"order_id": id, "status": status})
	return c.Redirect("/admin/orders")
}
