package handlers

import (
	"github.com/gofiber/fiber/v2"

	"electrostore/internal/services"
	"electrostore/internal/validate"
)

type AddressHandler struct {
	Addrs *services.AddressService
}

// GET /api/v1/addresses
func (h *AddressHandler) List(c *fiber.Ctx) error {
	out, err := h.Addrs.List(c.UserContext(), currentUser(c).ID)
	if err != nil {
		return writeError(c, "addresses.list", err)
	}
	return c.JSON(out)
}

// POST /api/v1/addresses
func (h *AddressHandler) Create(c *fiber.Ctx) error {
	var in services.AddressInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	a, err := h.Addrs.Create(c.UserContext(), currentUser(c).ID, in)
	if err != nil {
		return writeError(c, "addresses.create", err)
	}
	return c.Status(fiber.StatusCreated).JSON(a)
}

// GET /api/v1/addresses/:id
func (h *AddressHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid address id")
	}
	a, err := h.Addrs.Get(c.UserContext(), currentUser(c).ID, id)
	if err != nil {
		return writeError(c, "addresses.get", err)
	}
	return c.JSON(a)
}
