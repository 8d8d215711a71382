package repos

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"electrostore/internal/domain"
)

type OrderRepo struct{}

func NewOrderRepo() *OrderRepo { return &OrderRepo{} }

const orderCols = `
    o.id, o.user_id, o.address_id, o.total_amount, o.status, o.payment_method,
    o.is_home_delivery, o.delivery_price, o.created_at, o.updated_at`

// Create inserts the order header. Details go in through InsertDetail.
func (r *OrderRepo) Create(ctx context.Context, q Queryer, o *domain.Order) error {
	ts := now()
	o.CreatedAt, o.UpdatedAt = ts, ts
	_, err := exec(ctx, q, `
	  INSERT INTO orders
	    (id, user_id, address_id, total_amount, status, payment_method, is_home_delivery, delivery_price, created_at, updated_at)
	  VALUES
	    (?,  ?,       ?,          ?,            ?,      ?,              ?,                ?,              ?,          ?)
	`, o.ID, o.UserID, o.AddressID, o.TotalAmount.StringFixed(2), string(o.Status), string(o.PaymentMethod),
		o.IsHomeDelivery, o.DeliveryPrice.StringFixed(2), ts, ts)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *OrderRepo) InsertDetail(ctx context.Context, q Queryer, d *domain.OrderDetail) error {
	_, err := exec(ctx, q, `
	  INSERT INTO order_details(id, order_id, product_id, quantity, unit_price)
	  VALUES (?, ?, ?, ?, ?)
	`, d.ID, d.OrderID, d.ProductID, d.Quantity, d.UnitPrice.StringFixed(2))
	if err != nil {
		return fmt.Errorf("insert order detail %s: %w", d.ProductID, err)
	}
	return nil
}

// Get loads one order with its details.
func (r *OrderRepo) Get(ctx context.Context, q Queryer, id string) (*domain.Order, error) {
	var o domain.Order
	if err := get(ctx, q, &o, `SELECT`+orderCols+` FROM orders o WHERE o.id = ?`, id); err != nil {
		return nil, notFound(err, "order "+id)
	}
	if err := r.attachDetails(ctx, q, []*domain.Order{&o}); err != nil {
		return nil, err
	}
	return &o, nil
}

// GetForUpdate reads the header only, locking it where the dialect allows.
func (r *OrderRepo) GetForUpdate(ctx context.Context, q Queryer, id string) (*domain.Order, error) {
	var o domain.Order
	if err := get(ctx, q, &o, `SELECT`+orderCols+` FROM orders o WHERE o.id = ?`+forUpdate(q), id); err != nil {
		return nil, notFound(err, "order "+id)
	}
	return &o, nil
}

// ListByUser returns the user's orders newest first, details included.
func (r *OrderRepo) ListByUser(ctx context.Context, q Queryer, userID string, limit, offset int) ([]domain.Order, error) {
	out := []domain.Order{}
	if err := sel(ctx, q, &out, `
		SELECT`+orderCols+`
		FROM orders o
		WHERE o.user_id = ?
		ORDER BY o.created_at DESC, o.id DESC
		LIMIT ? OFFSET ?
	`, userID, limit, offset); err != nil {
		return nil, err
	}
	return out, r.attachDetailsTo(ctx, q, out)
}

// ListLatest feeds the admin console.
func (r *OrderRepo) ListLatest(ctx context.Context, q Queryer, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	out := []domain.Order{}
	if err := sel(ctx, q, &out, `
		SELECT`+orderCols+`
		FROM orders o
		ORDER BY o.created_at DESC, o.id DESC
		LIMIT ?
	`, limit); err != nil {
		return nil, err
	}
	return out, r.attachDetailsTo(ctx, q, out)
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, q Queryer, id string, status domain.OrderStatus) error {
	err := execOne(ctx, q, `UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`, string(status), now(), id)
	if err != nil {
		return fmt.Errorf("order %s: %w", id, err)
	}
	return nil
}

func (r *OrderRepo) attachDetailsTo(ctx context.Context, q Queryer, orders []domain.Order) error {
	ptrs := make([]*domain.Order, len(orders))
	for i := range orders {
		ptrs[i] = &orders[i]
	}
	return r.attachDetails(ctx, q, ptrs)
}

// attachDetails loads details for all orders in one query.
func (r *OrderRepo) attachDetails(ctx context.Context, q Queryer, orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, len(orders))
	byID := make(map[string]*domain.Order, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		o.Details = []domain.OrderDetail{}
		byID[o.ID] = o
	}
	query, args, err := sqlx.In(`
		SELECT d.id, d.order_id, d.product_id, p.name AS product_name, d.quantity, d.unit_price
		FROM order_details d
		JOIN products p ON p.id = d.product_id
		WHERE d.order_id IN (?)
		ORDER BY d.order_id, p.name, d.product_id
	`, ids)
	if err != nil {
		return err
	}
	var details []domain.OrderDetail
	if err := sel(ctx, q, &details, query, args...); err != nil {
		return fmt.Errorf("select order details: %w", err)
	}
	for _, d := range details {
		if o := byID[d.OrderID]; o != nil {
			o.Details = append(o.Details, d)
		}
	}
	return nil
}
