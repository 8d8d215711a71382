package repos

import (
	"context"
	"fmt"

	"electrostore/internal/domain"
)

type CartRepo struct{}

func NewCartRepo() *CartRepo { return &CartRepo{} }

const cartLineSelect = `
	  SELECT ci.user_id, ci.product_id, ci.quantity,
	         p.name, p.price, p.discount, p.stock_quantity
	  FROM cart_items ci JOIN products p ON p.id = ci.product_id`

// Lines returns the user's cart joined with current product data. With lock
// set, the rows stay locked until the surrounding transaction ends.
func (r *CartRepo) Lines(ctx context.Context, q Queryer, userID string, lock bool) ([]domain.CartLine, error) {
	query := cartLineSelect + `
	  WHERE ci.user_id = ?
	  ORDER BY ci.created_at, ci.product_id`
	if lock {
		query += forUpdate(q)
	}
	out := []domain.CartLine{}
	if err := sel(ctx, q, &out, query, userID); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CartRepo) Line(ctx context.Context, q Queryer, userID, productID string) (domain.CartLine, error) {
	var l domain.CartLine
	err := get(ctx, q, &l, cartLineSelect+`
	  WHERE ci.user_id = ? AND ci.product_id = ?`, userID, productID)
	return l, notFound(err, "cart line "+productID)
}

// Add inserts a line or adds qty to the existing (user, product) line.
func (r *CartRepo) Add(ctx context.Context, q Queryer, userID, productID string, qty int) error {
	ts := now()
	_, err := exec(ctx, q, `
		INSERT INTO cart_items(user_id, product_id, quantity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, product_id) DO UPDATE
		SET quantity = cart_items.quantity + excluded.quantity, updated_at = excluded.updated_at
	`, userID, productID, qty, ts, ts)
	return err
}

func (r *CartRepo) SetQuantity(ctx context.Context, q Queryer, userID, productID string, qty int) error {
	err := execOne(ctx, q, `
		UPDATE cart_items SET quantity = ?, updated_at = ?
		WHERE user_id = ? AND product_id = ?
	`, qty, now(), userID, productID)
	if err != nil {
		return fmt.Errorf("cart line %s: %w", productID, err)
	}
	return nil
}

func (r *CartRepo) Remove(ctx context.Context, q Queryer, userID, productID string) error {
	err := execOne(ctx, q, `DELETE FROM cart_items WHERE user_id = ? AND product_id = ?`, userID, productID)
	if err != nil {
		return fmt.Errorf("cart line %s: %w", productID, err)
	}
	return nil
}

// Clear deletes every line of the user's cart and reports how many went.
func (r *CartRepo) Clear(ctx context.Context, q Queryer, userID string) (int64, error) {
	res, err := exec(ctx, q, `DELETE FROM cart_items WHERE user_id = ?`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
