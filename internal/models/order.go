package models

import (
	"fmt"
	"time"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/constants"
)

// OrderStatus is the closed set of order states.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// ParseOrderStatus converts a stored value into an OrderStatus.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	switch OrderStatus(raw) {
	case OrderStatusPending, OrderStatusPaid, OrderStatusCancelled:
		return OrderStatus(raw), nil
	default:
		return "", fmt.Errorf("unknown order status %q", raw)
	}
}

// CanTransitionTo reports whether an order may move from s to next.
// Only pending orders change state.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return next == OrderStatusPaid || next == OrderStatusCancelled
	case OrderStatusPaid, OrderStatusCancelled:
		return false
	default:
		return false
	}
}

// Order is an order header.
type Order struct {
	ID          int64       `json:"id" db:"id"`
	UserID      int64       `json:"user_id" db:"user_id"`
	TotalAmount float64     `json:"total_amount" db:"total_amount"`
	Status      OrderStatus `json:"status" db:"status"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
}

// TableName returns the database table name for the Order model.
func (o *Order) TableName() string {
	return constants.TableOrders
}

// OrderItem is one purchased line with the unit price at checkout time.
type OrderItem struct {
	ID              int64   `json:"id" db:"id"`
	OrderID         int64   `json:"-" db:"order_id"`
	ProductID       int64   `json:"product_id" db:"product_id"`
	Quantity        int     `json:"quantity" db:"quantity"`
	PriceAtPurchase float64 `json:"price_at_purchase" db:"price_at_purchase"`
}

// TableName returns the database table name for the OrderItem model.
func (i *OrderItem) TableName() string {
	return constants.TableOrderItems
}

// OrderDetail is an order together with its items.
type OrderDetail struct {
	*Order
	Items []*OrderItem `json:"items"`
}
