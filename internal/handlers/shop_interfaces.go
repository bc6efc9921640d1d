package handlers

import (
	"context"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/models"
)

// CatalogServiceInterface defines the product operations used by the admin and
// public product handlers.
type CatalogServiceInterface interface {
	// CreateProduct stores a new product.
	//
	// Parameters:
	//   - ctx: Context for the operation
	//   - req: Product data (name, price and stock are required)
	//
	// Returns:
	//   - The created product
	//   - An error if the store rejects it
	CreateProduct(ctx context.Context, req *models.ProductCreate) (*models.Product, error)

	// ListProducts returns products ordered by id using offset pagination.
	//
	// Parameters:
	//   - ctx: Context for the operation
	//   - skip: Number of products to skip
	//   - limit: Maximum number of products to return
	//
	// Returns:
	//   - The products in the window
	//   - A validation error for a negative skip or an out of range limit
	ListProducts(ctx context.Context, skip, limit int) ([]*models.Product, error)

	// GetProduct returns a product for the admin view.
	GetProduct(ctx context.Context, id int64) (*models.Product, error)

	// UpdateProduct applies a partial update.
	//
	// Parameters:
	//   - ctx: Context for the operation
	//   - id: The product to update
	//   - update: Fields to change; nil fields are left alone
	//
	// Returns:
	//   - The updated product
	//   - A not found error if the product does not exist
	UpdateProduct(ctx context.Context, id int64, update *models.ProductUpdate) (*models.Product, error)

	// DeleteProduct removes a product that no order references.
	DeleteProduct(ctx context.Context, id int64) error

	// BrowseProducts returns one page of the public listing.
	//
	// Parameters:
	//   - ctx: Context for the operation
	//   - filter: Category, price bounds, sort field and page window
	//
	// Returns:
	//   - The page together with the total number of matches
	//   - A validation error for an unknown sort field or an inverted price range
	BrowseProducts(ctx context.Context, filter models.ProductFilter) (*models.ProductPage, error)

	// SearchProducts matches the keyword against names and descriptions.
	SearchProducts(ctx context.Context, keyword string) ([]*models.Product, error)

	// ViewProduct returns a single product for the public catalog.
	ViewProduct(ctx context.Context, id int64) (*models.Product, error)
}

// CartServiceInterface defines the cart operations of the signed-in user.
type CartServiceInterface interface {
	// AddItem adds a product to the cart, merging with an existing line.
	//
	// Parameters:
	//   - ctx: Context for the operation
	//   - userID: The cart owner
	//   - req: Product and quantity to add
	//
	// Returns:
	//   - The created or merged cart item
	//   - A not found error for unknown products, a bad request when stock is short
	AddItem(ctx context.Context, userID int64, req *models.CartItemCreate) (*models.CartItem, error)

	// GetCart returns the cart lines with product summaries and the total.
	GetCart(ctx context.Context, userID int64) (*models.Cart, error)

	// UpdateItem sets the quantity of one of the user's cart items.
	UpdateItem(ctx context.Context, userID, itemID int64, req *models.CartItemUpdate) (*models.CartItem, error)

	// RemoveItem deletes one of the user's cart items.
	RemoveItem(ctx context.Context, userID, itemID int64) error
}

// OrderServiceInterface defines checkout and order history operations.
type OrderServiceInterface interface {
	// Checkout turns the user's cart into a pending order.
	//
	// Parameters:
	//   - ctx: Context for the operation
	//   - userID: The buyer
	//
	// Returns:
	//   - The new order with its items
	//   - A bad request for an empty cart or insufficient stock; nothing is written then
	Checkout(ctx context.Context, userID int64) (*models.OrderDetail, error)

	// ListOrders returns the user's orders, newest first.
	ListOrders(ctx context.Context, userID int64) ([]*models.Order, error)

	// GetOrder returns one of the user's orders with its items.
	GetOrder(ctx context.Context, userID, orderID int64) (*models.OrderDetail, error)

	// PayOrder moves a pending order to paid.
	PayOrder(ctx context.Context, userID, orderID int64) (*models.Order, error)

	// CancelOrder moves a pending order to cancelled and restores its stock.
	CancelOrder(ctx context.Context, userID, orderID int64) (*models.Order, error)
}
