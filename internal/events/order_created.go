package events

import (
	"time"

	"github.com/shopspring/decimal"

	"electrostore/internal/domain"
)

const OrderCreatedRoutingKey = "order.created.v1"

type OrderCreatedItem struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type OrderCreated struct {
	EventType      string             `json:"eventType"`
	OrderID        string             `json:"orderId"`
	UserID         string             `json:"userId"`
	TotalAmount    decimal.Decimal    `json:"totalAmount"`
	DeliveryPrice  decimal.Decimal    `json:"deliveryPrice"`
	PaymentMethod  string             `json:"paymentMethod"`
	IsHomeDelivery bool               `json:"isHomeDelivery"`
	Items          []OrderCreatedItem `json:"items"`
	Timestamp      time.Time          `json:"timestamp"`
}

func NewOrderCreated(o *domain.Order) OrderCreated {
	ev := OrderCreated{
		EventType:      "OrderCreated",
		OrderID:        o.ID,
		UserID:         o.UserID,
		TotalAmount:    o.TotalAmount,
		DeliveryPrice:  o.DeliveryPrice,
		PaymentMethod:  string(o.PaymentMethod),
		IsHomeDelivery: o.IsHomeDelivery,
		Items:          make([]OrderCreatedItem, 0, len(o.Details)),
		Timestamp:      time.Now().UTC(),
	}
	for _, d := range o.Details {
		ev.Items = append(ev.Items, OrderCreatedItem{ProductID: d.ProductID, Quantity: d.Quantity, UnitPrice: d.UnitPrice})
	}
	return ev
}
