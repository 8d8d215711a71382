package repos

import (
	"context"

	"electrostore/internal/domain"
)

type SupplierRepo struct{}

func NewSupplierRepo() *SupplierRepo { return &SupplierRepo{} }

func (r *SupplierRepo) Create(ctx context.Context, q Queryer, s *domain.Supplier) error {
	_, err := exec(ctx, q, `
	  INSERT INTO suppliers(id, name, email, phone, created_at) VALUES (?, ?, ?, ?, ?)
	`, s.ID, s.Name, s.Email, s.Phone, now())
	return err
}

func (r *SupplierRepo) Get(ctx context.Context, q Queryer, id string) (domain.Supplier, error) {
	var s domain.Supplier
	err := get(ctx, q, &s, `SELECT id, name, email, phone FROM suppliers WHERE id = ?`, id)
	return s, notFound(err, "supplier "+id)
}

// Link records (or re-prices) the supplier of a product.
func (r *SupplierRepo) Link(ctx context.Context, q Queryer, ps domain.ProductSupplier) error {
	_, err := exec(ctx, q, `
		INSERT INTO product_suppliers(product_id, supplier_id, supply_price)
		VALUES (?, ?, ?)
		ON CONFLICT(product_id, supplier_id) DO UPDATE SET supply_price = excluded.supply_price
	`, ps.ProductID, ps.SupplierID, ps.SupplyPrice.StringFixed(2))
	return err
}

func (r *SupplierRepo) ListForProduct(ctx context.Context, q Queryer, productID string) ([]domain.ProductSupplier, error) {
	out := []domain.ProductSupplier{}
	err := sel(ctx, q, &out, `
	  SELECT ps.product_id, ps.supplier_id, s.name AS supplier_name, ps.supply_price
	  FROM product_suppliers ps JOIN suppliers s ON s.id = ps.supplier_id
	  WHERE ps.product_id = ?
	  ORDER BY s.name
	`, productID)
	return out, err
}
