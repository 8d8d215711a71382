package services

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"electrostore/internal/domain"
	"electrostore/internal/repos"
)

const (
	defaultOrderPage = 20
	maxOrderPage     = 100
)

type OrderService struct {
	DB     *sqlx.DB
	Orders OrderStore
}

func NewOrderService(db *sqlx.DB, orders OrderStore) *OrderService {
	return &OrderService{DB: db, Orders: orders}
}

// ListForUser pages through the user's orders, newest first.
func (s *OrderService) ListForUser(ctx context.Context, userID string, page, pageSize int) ([]domain.Order, error) {
	limit, offset := pageBounds(page, pageSize, defaultOrderPage, maxOrderPage)
	return s.Orders.ListByUser(ctx, s.DB, userID, limit, offset)
}

// Get returns the order if u owns it or is an admin. Anyone else gets
// ErrNotFound so order ids cannot be probed.
func (s *OrderService) Get(ctx context.Context, u *domain.User, id string) (*domain.Order, error) {
	o, err := s.Orders.Get(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	if u == nil || (o.UserID != u.ID && !u.IsAdmin()) {
		return nil, fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}
	return o, nil
}

// UpdateStatus moves an order to status if the transition is allowed.
func (s *OrderService) UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error) {
	next, err := domain.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}
	var out *domain.Order
	err = repos.WithTx(ctx, s.DB, func(tx *sqlx.Tx) error {
		o, err := s.Orders.GetForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if !o.Status.CanTransition(next) {
			return fmt.Errorf("%w: cannot move order from %s to %s", domain.ErrInvalidArgument, o.Status, next)
		}
		if o.Status != next {
			if err := s.Orders.UpdateStatus(ctx, tx, id, next); err != nil {
				return err
			}
		}
		out, err = s.Orders.Get(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *OrderService) ListLatest(ctx context.Context, limit int) ([]domain.Order, error) {
	if limit <= 0 || limit > maxOrderPage {
		limit = maxOrderPage
	}
	return s.Orders.ListLatest(ctx, s.DB, limit)
}
