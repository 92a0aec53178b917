package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const OrderStatusSubmitted = "submitted"

// Order is the payload produced by a successful checkout submission.
type Order struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	SessionID string          `json:"-"`
	Lines     []CartLine      `json:"lineItems"`
	Details   CheckoutDetails `json:"customer"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Shipping  decimal.Decimal `json:"shipping"`
	Tax       decimal.Decimal `json:"tax"`
	Tip       decimal.Decimal `json:"tip"`
	Total     decimal.Decimal `json:"total"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
}

const EventOrderSubmitted = "order.submitted"

// OrderEventItem is a line of an order as handed to fulfilment.
type OrderEventItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image"`
}

// OrderEvent is the payload published when an order is submitted.
type OrderEvent struct {
	OrderID     string           `json:"orderId"`
	UserID      string           `json:"userId"`
	Items       []OrderEventItem `json:"items"`
	Customer    CheckoutDetails  `json:"customer"`
	Tip         decimal.Decimal  `json:"tip"`
	Subtotal    decimal.Decimal  `json:"subtotal"`
	Shipping    decimal.Decimal  `json:"shipping"`
	Tax         decimal.Decimal  `json:"tax"`
	Total       decimal.Decimal  `json:"total"`
	SubmittedAt time.Time        `json:"submittedAt"`
}

// Event builds the hand-off payload for o.
func (o Order) Event() OrderEvent {
	items := make([]OrderEventItem, 0, len(o.Lines))
	for _, l := range o.Lines {
		items = append(items, OrderEventItem{
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: decimal.New(l.UnitPriceCents, -2),
			Quantity:  l.Quantity,
			Image:     l.Image,
		})
	}
	return OrderEvent{
		OrderID:     o.ID,
		UserID:      o.UserID,
		Items:       items,
		Customer:    o.Details,
		Tip:         o.Tip,
		Subtotal:    o.Subtotal,
		Shipping:    o.Shipping,
		Tax:         o.Tax,
		Total:       o.Total,
		SubmittedAt: o.CreatedAt,
	}
}
