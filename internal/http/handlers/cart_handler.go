package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "electrostore/internal/log"
	"electrostore/internal/services"
	"electrostore/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

type cartAddRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// GET /api/v1/cart
func (h *CartHandler) View(c *fiber.Ctx) error {
	cv, err := h.Cart.View(c.UserContext(), currentUser(c).ID)
	if err != nil {
		return writeError(c, "cart.view", err)
	}
	return c.JSON(cv)
}

// POST /api/v1/cart
func (h *CartHandler) Add(c *fiber.Ctx) error {
	var req cartAddRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	pid, ok := validate.ID(req.ProductID)
	if !ok {
		return badRequest(c, "invalid product_id")
	}
	line, err := h.Cart.Add(c.UserContext(), currentUser(c).ID, pid, req.Quantity)
	if err != nil {
		return writeError(c, "cart.add", err)
	}
	applog.Info(c, "cart.add", map[string]any{"product_id": pid, "qty": req.Quantity})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"line": line})
}

// PUT /api/v1/cart/:productId
func (h *CartHandler) Update(c *fiber.Ctx) error {
	pid, ok := validate.ID(c.Params("productId"))
	if !ok {
		return badRequest(c, "invalid product id")
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	line, err := h.Cart.Update(c.UserContext(), currentUser(c).ID, pid, req.Quantity)
	if err != nil {
		return writeError(c, "cart.update", err)
	}
	return c.JSON(fiber.Map{"line": line})
}

// DELETE /api/v1/cart/:productId
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	pid, ok := validate.ID(c.Params("productId"))
	if !ok {
		return badRequest(c, "invalid product id")
	}
	if err := h.Cart.Remove(c.UserContext(), currentUser(c).ID, pid); err != nil {
		return writeError(c, "cart.remove", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DELETE /api/v1/cart
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	if err := h.Cart.Clear(c.UserContext(), currentUser(c).ID); err != nil {
		return writeError(c, "cart.clear", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
