package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/constants"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/database"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/models"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/utils"
)

// CartRepository defines methods for interacting with cart items.
// Every lookup is scoped to the owning user.
type CartRepository interface {
	FindByUserAndProduct(ctx context.Context, userID, productID int64) (*models.CartItem, error)
	GetByID(ctx context.Context, id, userID int64) (*models.CartItem, error)
	Create(ctx context.Context, item *models.CartItem) error
	UpdateQuantity(ctx context.Context, id, userID int64, quantity int) error
	Delete(ctx context.Context, id, userID int64) error
	ListLines(ctx context.Context, userID int64) ([]*models.CartLine, error)
	Clear(ctx context.Context, userID int64) error
}

// SQLCartRepository is the database/sql implementation of CartRepository
type SQLCartRepository struct {
	db database.DBTX
}

// NewCartRepository creates a new CartRepository
func NewCartRepository(db database.DBTX) CartRepository {
	return &SQLCartRepository{db: db}
}

const cartColumns = "id, user_id, product_id, quantity, created_at"

// FindByUserAndProduct returns the user's line for a product, or nil when there is none
func (r *SQLCartRepository) FindByUserAndProduct(ctx context.Context, userID, productID int64) (*models.CartItem, error) {
	query := "SELECT " + cartColumns + " FROM cart_items WHERE user_id = ? AND product_id = ?"

	item, err := scanCartItem(r.db.QueryRowContext(ctx, query, userID, productID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cart item: %w", err)
	}
	return item, nil
}

// GetByID returns one of the user's cart items
func (r *SQLCartRepository) GetByID(ctx context.Context, id, userID int64) (*models.CartItem, error) {
	query := "SELECT " + cartColumns + " FROM cart_items WHERE id = ? AND user_id = ?"

	item, err := scanCartItem(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundMessageError(constants.MsgCartItemNotFound)
		}
		return nil, fmt.Errorf("failed to get cart item: %w", err)
	}
	return item, nil
}

// Create adds a new cart line
func (r *SQLCartRepository) Create(ctx context.Context, item *models.CartItem) error {
	query := "INSERT INTO cart_items (user_id, product_id, quantity, created_at) VALUES (?, ?, ?, ?)"

	id, err := database.InsertReturningID(ctx, r.db, query, item.UserID, item.ProductID, item.Quantity, item.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create cart item: %w", err)
	}
	item.ID = id
	return nil
}

// UpdateQuantity sets the quantity of one of the user's cart items
func (r *SQLCartRepository) UpdateQuantity(ctx context.Context, id, userID int64, quantity int) error {
	result, err := r.db.ExecContext(ctx, "UPDATE cart_items SET quantity = ? WHERE id = ? AND user_id = ?", quantity, id, userID)
	if err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}
	return expectOneRow(result, constants.MsgCartItemNotFound)
}

// Delete removes one of the user's cart items
func (r *SQLCartRepository) Delete(ctx context.Context, id, userID int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM cart_items WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}
	return expectOneRow(result, constants.MsgCartItemNotFound)
}

// ListLines returns the user's cart joined with current product data, oldest line first
func (r *SQLCartRepository) ListLines(ctx context.Context, userID int64) ([]*models.CartLine, error) {
	query := `
		SELECT c.id, c.product_id, p.name, p.price, p.stock, c.quantity
		FROM cart_items c
		JOIN products p ON p.id = c.product_id
		WHERE c.user_id = ?
		ORDER BY c.id ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart: %w", err)
	}
	defer rows.Close()

	lines := []*models.CartLine{}
	for rows.Next() {
		line := &models.CartLine{}
		if err := rows.Scan(&line.ID, &line.ProductID, &line.ProductName, &line.UnitPrice, &line.Stock, &line.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart rows: %w", err)
	}
	return lines, nil
}

// Clear empties the user's cart
func (r *SQLCartRepository) Clear(ctx context.Context, userID int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM cart_items WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func scanCartItem(row rowScanner) (*models.CartItem, error) {
	item := &models.CartItem{}
	if err := row.Scan(&item.ID, &item.UserID, &item.ProductID, &item.Quantity, &item.CreatedAt); err != nil {
		return nil, err
	}
	return item, nil
}
