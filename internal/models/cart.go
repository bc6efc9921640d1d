package models

import (
	"math"
	"time"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/constants"
)

// CartItem is one product line in a user's cart.
type CartItem struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"-" db:"user_id"`
	ProductID int64     `json:"product_id" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TableName returns the database table name for the CartItem model.
func (c *CartItem) TableName() string {
	return constants.TableCartItems
}

// CartItemCreate is the payload of POST /cart/add.
type CartItemCreate struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gt=0"`
}

// CartItemUpdate is the payload of PUT /cart/{id}.
type CartItemUpdate struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// CartLine is a cart item joined with the product it refers to.
type CartLine struct {
	ID          int64   `json:"id"`
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	UnitPrice   float64 `json:"unit_price"`
	Stock       int     `json:"stock"`
	Quantity    int     `json:"quantity"`
	Subtotal    float64 `json:"subtotal"`
}

// Cart is the view returned by GET /cart.
type Cart struct {
	Items []*CartLine `json:"items"`
	Total float64     `json:"total"`
}

// NewCart computes line subtotals and the cart total.
func NewCart(lines []*CartLine) *Cart {
	cart := &Cart{Items: lines}
	if cart.Items == nil {
		cart.Items = []*CartLine{}
	}
	for _, line := range cart.Items {
		line.Subtotal = RoundMoney(line.UnitPrice * float64(line.Quantity))
		cart.Total += line.Subtotal
	}
	cart.Total = RoundMoney(cart.Total)
	return cart
}

// RoundMoney rounds an amount to cents.
func RoundMoney(amount float64) float64 {
	return math.Round(amount*100) / 100
}
