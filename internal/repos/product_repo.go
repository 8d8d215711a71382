package repos

import (
	"context"
	"fmt"

	"electrostore/internal/domain"
)

type ProductRepo struct{}

func NewProductRepo() *ProductRepo { return &ProductRepo{} }

const productCols = `
    id, category_id, name, description, brand, price, stock_quantity, discount,
    created_at, updated_at`

func (r *ProductRepo) Get(ctx context.Context, q Queryer, id string) (domain.Product, error) {
	var p domain.Product
	err := get(ctx, q, &p, `SELECT`+productCols+` FROM products WHERE id = ?`, id)
	return p, notFound(err, "product "+id)
}

func (r *ProductRepo) ListByCategory(ctx context.Context, q Queryer, catID string, limit, offset int) ([]domain.Product, error) {
	out := []domain.Product{}
	err := sel(ctx, q, &out, `
	  SELECT`+productCols+`
	  FROM products
	  WHERE category_id = ?
	  ORDER BY created_at DESC, id
	  LIMIT ? OFFSET ?
	`, catID, limit, offset)
	return out, err
}

func (r *ProductRepo) Create(ctx context.Context, q Queryer, p *domain.Product) error {
	ts := now()
	p.CreatedAt, p.UpdatedAt = ts, ts
	_, err := exec(ctx, q, `
	  INSERT INTO products(id, category_id, name, description, brand, price, stock_quantity, discount, created_at, updated_at)
	  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.CategoryID, p.Name, p.Description, p.Brand, p.Price.StringFixed(2), p.StockQuantity, p.Discount, ts, ts)
	return err
}

// Update rewrites the mutable catalog fields. Existing order details keep
// their own price snapshot and are not affected.
func (r *ProductRepo) Update(ctx context.Context, q Queryer, p *domain.Product) error {
	p.UpdatedAt = now()
	err := execOne(ctx, q, `
	  UPDATE products
	  SET name = ?, description = ?, brand = ?, price = ?, stock_quantity = ?, discount = ?, updated_at = ?
	  WHERE id = ?
	`, p.Name, p.Description, p.Brand, p.Price.StringFixed(2), p.StockQuantity, p.Discount, p.UpdatedAt, p.ID)
	if err != nil {
		return fmt.Errorf("product %s: %w", p.ID, err)
	}
	return nil
}

// ReserveStock subtracts qty units if enough stock exists.
func (r *ProductRepo) ReserveStock(ctx context.Context, q Queryer, productID string, qty int) error {
	res, err := exec(ctx, q, `
		UPDATE products
		SET stock_quantity = stock_quantity - ?, updated_at = ?
		WHERE id = ? AND stock_quantity >= ?
	`, qty, now(), productID, qty)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("product %s (need %d): %w", productID, qty, domain.ErrInsufficientStock)
	}
	return nil
}
