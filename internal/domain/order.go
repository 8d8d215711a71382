package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPaid      OrderStatus = "paid"
	StatusShipped   OrderStatus = "shipped"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

// transitions lists the statuses reachable from each status.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending: {StatusPaid, StatusCancelled},
	StatusPaid:    {StatusShipped, StatusCompleted, StatusCancelled},
	StatusShipped: {StatusCompleted},
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	st := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case StatusPending, StatusPaid, StatusShipped, StatusCompleted, StatusCancelled:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown order status %q", ErrInvalidArgument, s)
}

// CanTransition reports whether an order in status s may move to next.
// Setting the current status again is a no-op and always allowed.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if s == next {
		return true
	}
	for _, n := range transitions[s] {
		if n == next {
			return true
		}
	}
	return false
}

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

// PaymentMethodFromCode maps the wire enum (0 = cash, 1 = card).
func PaymentMethodFromCode(code int) (PaymentMethod, error) {
	switch code {
	case 0:
		return PaymentCash, nil
	case 1:
		return PaymentCard, nil
	}
	return "", fmt.Errorf("%w: payment_method must be 0 (cash) or 1 (card)", ErrInvalidArgument)
}

type Order struct {
	ID             string          `db:"id" json:"id"`
	UserID         string          `db:"user_id" json:"user_id"`
	AddressID      string          `db:"address_id" json:"address_id"`
	TotalAmount    decimal.Decimal `db:"total_amount" json:"total_amount"`
	Status         OrderStatus     `db:"status" json:"status"`
	PaymentMethod  PaymentMethod   `db:"payment_method" json:"payment_method"`
	IsHomeDelivery bool            `db:"is_home_delivery" json:"is_home_delivery"`
	DeliveryPrice  decimal.Decimal `db:"delivery_price" json:"delivery_price"`
	CreatedAt      string          `db:"created_at" json:"created_at"`
	UpdatedAt      string          `db:"updated_at" json:"updated_at"`
	Details        []OrderDetail   `db:"-" json:"details"`
}

// OrderDetail is a line item. UnitPrice is the price at purchase time and
// never follows later catalog changes.
type OrderDetail struct {
	ID          string          `db:"id" json:"id"`
	OrderID     string          `db:"order_id" json:"order_id"`
	ProductID   string          `db:"product_id" json:"product_id"`
	ProductName string          `db:"product_name" json:"product_name"`
	Quantity    int             `db:"quantity" json:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price" json:"unit_price"`
}

func (d OrderDetail) Subtotal() decimal.Decimal {
	return d.UnitPrice.Mul(decimal.NewFromInt(int64(d.Quantity)))
}

// ItemsTotal is the sum of detail subtotals, excluding delivery.
func (o *Order) ItemsTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, d := range o.Details {
		sum = sum.Add(d.Subtotal())
	}
	return sum
}
