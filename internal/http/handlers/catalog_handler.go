package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	applog "electrostore/internal/log"
	"electrostore/internal/services"
	"electrostore/internal/validate"
)

type CatalogHandler struct {
	Catalog *services.CatalogService
}

// GET /api/v1/categories
func (h *CatalogHandler) Categories(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories(c.UserContext())
	if err != nil {
		return writeError(c, "catalog.categories", err)
	}
	return c.JSON(cats)
}

// GET /api/v1/categories/:id/products?page=&page_size=
func (h *CatalogHandler) CategoryProducts(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid category id")
	}
	prods, err := h.Catalog.ListProductsByCategory(c.UserContext(), id, c.QueryInt("page", 1), c.QueryInt("page_size", 0))
	if err != nil {
		return writeError(c, "catalog.products", err)
	}
	return c.JSON(prods)
}

// GET /api/v1/products/:id
func (h *CatalogHandler) Product(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid product id")
	}
	p, err := h.Catalog.GetProduct(c.UserContext(), id)
	if err != nil {
		return writeError(c, "catalog.product", err)
	}
	return c.JSON(fiber.Map{"product": p, "unit_price": p.UnitPrice()})
}

// POST /api/v1/admin/products
func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var in services.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	p, err := h.Catalog.CreateProduct(c.UserContext(), in)
	if err != nil {
		return writeError(c, "admin.products.create", err)
	}
	applog.Audit(c, "admin.products.create", map[string]any{"product_id": p.ID})
	return c.Status(fiber.StatusCreated).JSON(p)
}

// PUT /api/v1/admin/products/:id
func (h *CatalogHandler) UpdateProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid product id")
	}
	var in services.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	p, err := h.Catalog.UpdateProduct(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, "admin.products.update", err)
	}
	applog.Audit(c, "admin.products.update", map[string]any{"product_id": id, "price": p.Price.StringFixed(2), "stock": p.StockQuantity})
	return c.JSON(p)
}

// POST /api/v1/admin/suppliers
func (h *CatalogHandler) CreateSupplier(c *fiber.Ctx) error {
	var in services.SupplierInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	s, err := h.Catalog.CreateSupplier(c.UserContext(), in)
	if err != nil {
		return writeError(c, "admin.suppliers.create", err)
	}
	applog.Audit(c, "admin.suppliers.create", map[string]any{"supplier_id": s.ID})
	return c.Status(fiber.StatusCreated).JSON(s)
}

// POST /api/v1/admin/products/:id/suppliers
func (h *CatalogHandler) LinkSupplier(c *fiber.Ctx) error {
	pid, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid product id")
	}
	var req struct {
		SupplierID  string          `json:"supplier_id"`
		SupplyPrice decimal.Decimal `json:"supply_price"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	sid, ok := validate.ID(req.SupplierID)
	if !ok {
		return badRequest(c, "invalid supplier_id")
	}
	if err := h.Catalog.LinkSupplier(c.UserContext(), pid, sid, req.SupplyPrice); err != nil {
		return writeError(c, "admin.suppliers.link", err)
	}
	applog.Audit(c, "admin.suppliers.link", map[string]any{"product_id": pid, "supplier_id": sid})
	return c.SendStatus(fiber.StatusNoContent)
}

// GET /api/v1/admin/products/:id/suppliers
func (h *CatalogHandler) ProductSuppliers(c *fiber.Ctx) error {
	pid, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid product id")
	}
	out, err := h.Catalog.ProductSuppliers(c.UserContext(), pid)
	if err != nil {
		return writeError(c, "admin.suppliers.list", err)
	}
	return c.JSON(out)
}
