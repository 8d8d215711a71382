package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"electrostore/internal/domain"
	"electrostore/internal/events"
	applog "electrostore/internal/log"
	"electrostore/internal/repos"
	"electrostore/internal/validate"
)

type CheckoutInput struct {
	AddressID      string
	PaymentMethod  domain.PaymentMethod
	IsHomeDelivery bool
	DeliveryPrice  *decimal.Decimal
}

// CheckoutService turns a cart into an order. Reading the cart, reserving
// stock, writing the order and clearing the cart share one transaction.
type CheckoutService struct {
	DB     *sqlx.DB
	Carts  CartStore
	Prods  ProductStore
	Orders OrderStore
	Addrs  AddressStore
	Events events.Publisher
}

func NewCheckoutService(db *sqlx.DB, carts CartStore, prods ProductStore, orders OrderStore, addrs AddressStore, pub events.Publisher) *CheckoutService {
	if pub == nil {
		pub = events.Nop{}
	}
	return &CheckoutService{DB: db, Carts: carts, Prods: prods, Orders: orders, Addrs: addrs, Events: pub}
}

// Checkout places an order for everything in the user's cart.
//
// Errors: ErrInvalidArgument and ErrNotFound for bad input (nothing touched),
// ErrEmptyCart when there is nothing to buy, and *domain.CheckoutError
// (matching ErrCheckoutFailed) when the transaction was rolled back.
func (s *CheckoutService) Checkout(ctx context.Context, userID string, in CheckoutInput) (*domain.Order, error) {
	delivery, err := deliveryPrice(in)
	if err != nil {
		return nil, err
	}
	if in.PaymentMethod != domain.PaymentCash && in.PaymentMethod != domain.PaymentCard {
		return nil, fmt.Errorf("%w: unsupported payment method %q", domain.ErrInvalidArgument, in.PaymentMethod)
	}
	if _, err := s.Addrs.GetForUser(ctx, s.DB, userID, in.AddressID); err != nil {
		return nil, err
	}

	lines, err := s.Carts.Lines(ctx, s.DB, userID, false)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, domain.ErrEmptyCart
	}

	var order *domain.Order
	err = repos.WithTx(ctx, s.DB, func(tx *sqlx.Tx) error {
		// The locked read is what gets ordered; the one above only
		// short-circuits the common empty case.
		lines, err := s.Carts.Lines(ctx, tx, userID, true)
		if err != nil {
			return fmt.Errorf("read cart: %w", err)
		}
		if len(lines) == 0 {
			return domain.ErrEmptyCart
		}

		for _, l := range lines {
			if err := s.Prods.ReserveStock(ctx, tx, l.ProductID, l.Quantity); err != nil {
				return fmt.Errorf("reserve stock: %w", err)
			}
		}

		o := &domain.Order{
			ID:             uuid.NewString(),
			UserID:         userID,
			AddressID:      in.AddressID,
			Status:         domain.StatusPending,
			PaymentMethod:  in.PaymentMethod,
			IsHomeDelivery: in.IsHomeDelivery,
			DeliveryPrice:  delivery,
		}
		items := decimal.Zero
		for _, l := range lines {
			items = items.Add(l.Subtotal())
		}
		o.TotalAmount = items.Add(delivery).Round(2)
		if err := s.Orders.Create(ctx, tx, o); err != nil {
			return err
		}

		for _, l := range lines {
			d := &domain.OrderDetail{
				ID:          uuid.NewString(),
				OrderID:     o.ID,
				ProductID:   l.ProductID,
				ProductName: l.Name,
				Quantity:    l.Quantity,
				UnitPrice:   l.UnitPrice(),
			}
			if err := s.Orders.InsertDetail(ctx, tx, d); err != nil {
				return err
			}
		}

		n, err := s.Carts.Clear(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		if n != int64(len(lines)) {
			return fmt.Errorf("cart changed during checkout: read %d lines, deleted %d", len(lines), n)
		}

		order, err = s.Orders.Get(ctx, tx, o.ID)
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmptyCart) {
			return nil, err
		}
		return nil, domain.NewCheckoutError(err)
	}

	if perr := s.Events.PublishOrderCreated(ctx, order); perr != nil {
		applog.Error(nil, "order.event.publish_failed", perr, map[string]any{"order_id": order.ID, "user_id": userID})
	}
	applog.Audit(nil, "order.created", map[string]any{
		"order_id": order.ID, "user_id": userID, "lines": len(order.Details), "total": order.TotalAmount.StringFixed(2),
	})
	return order, nil
}

func deliveryPrice(in CheckoutInput) (decimal.Decimal, error) {
	if !in.IsHomeDelivery {
		return decimal.Zero, nil
	}
	if in.DeliveryPrice == nil {
		return decimal.Zero, fmt.Errorf("%w: delivery_price is required for home delivery", domain.ErrInvalidArgument)
	}
	if !validate.Money(*in.DeliveryPrice) {
		return decimal.Zero, fmt.Errorf("%w: delivery_price must be a non-negative amount", domain.ErrInvalidArgument)
	}
	return *in.DeliveryPrice, nil
}
