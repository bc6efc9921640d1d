package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/constants"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/database"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/models"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/utils"
)

// OrderRepository defines methods for interacting with orders and their items
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	AddItem(ctx context.Context, item *models.OrderItem) error
	ListByUser(ctx context.Context, userID int64) ([]*models.Order, error)
	GetByID(ctx context.Context, id, userID int64) (*models.Order, error)
	ListItems(ctx context.Context, orderID int64) ([]*models.OrderItem, error)
	TransitionStatus(ctx context.Context, id, userID int64, from, to models.OrderStatus) (bool, error)
}

// SQLOrderRepository is the database/sql implementation of OrderRepository
type SQLOrderRepository struct {
	db database.DBTX
}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository(db database.DBTX) OrderRepository {
	return &SQLOrderRepository{db: db}
}

const orderColumns = "id, user_id, total_amount, status, created_at, updated_at"

// Create inserts an order header
func (r *SQLOrderRepository) Create(ctx context.Context, order *models.Order) error {
	query := "INSERT INTO orders (user_id, total_amount, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)"

	id, err := database.InsertReturningID(ctx, r.db, query,
		order.UserID, order.TotalAmount, string(order.Status), order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	order.ID = id
	return nil
}

// AddItem inserts an order line
func (r *SQLOrderRepository) AddItem(ctx context.Context, item *models.OrderItem) error {
	query := "INSERT INTO order_items (order_id, product_id, quantity, price_at_purchase) VALUES (?, ?, ?, ?)"

	id, err := database.InsertReturningID(ctx, r.db, query, item.OrderID, item.ProductID, item.Quantity, item.PriceAtPurchase)
	if err != nil {
		return fmt.Errorf("failed to create order item: %w", err)
	}
	item.ID = id
	return nil
}

// ListByUser returns the user's orders, newest first
func (r *SQLOrderRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Order, error) {
	query := "SELECT " + orderColumns + " FROM orders WHERE user_id = ? ORDER BY created_at DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*models.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order rows: %w", err)
	}
	return orders, nil
}

// GetByID returns one of the user's orders
func (r *SQLOrderRepository) GetByID(ctx context.Context, id, userID int64) (*models.Order, error) {
	query := "SELECT " + orderColumns + " FROM orders WHERE id = ? AND user_id = ?"

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundMessageError(constants.MsgOrderNotFound)
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

// ListItems returns the lines of an order
func (r *SQLOrderRepository) ListItems(ctx context.Context, orderID int64) ([]*models.OrderItem, error) {
	query := "SELECT id, order_id, product_id, quantity, price_at_purchase FROM order_items WHERE order_id = ? ORDER BY id ASC"

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list order items: %w", err)
	}
	defer rows.Close()

	items := []*models.OrderItem{}
	for rows.Next() {
		item := &models.OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.PriceAtPurchase); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order item rows: %w", err)
	}
	return items, nil
}

// TransitionStatus moves an order from one status to another only if it is
// still in the expected status. It reports whether a row changed.
func (r *SQLOrderRepository) TransitionStatus(ctx context.Context, id, userID int64, from, to models.OrderStatus) (bool, error) {
	query := "UPDATE orders SET status = ?, updated_at = ? WHERE id = ? AND user_id = ? AND status = ?"

	result, err := r.db.ExecContext(ctx, query, string(to), time.Now().UTC(), id, userID, string(from))
	if err != nil {
		return false, fmt.Errorf("failed to update order status: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected == 1, nil
}

func scanOrder(row rowScanner) (*models.Order, error) {
	order := &models.Order{}
	var status string
	if err := row.Scan(&order.ID, &order.UserID, &order.TotalAmount, &status, &order.CreatedAt, &order.UpdatedAt); err != nil {
		return nil, err
	}
	parsed, err := models.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}
	order.Status = parsed
	return order, nil
}
