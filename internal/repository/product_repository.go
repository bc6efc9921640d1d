package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/constants"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/database"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/models"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/utils"
)

// ProductRepository defines methods for interacting with the catalog
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	List(ctx context.Context, skip, limit int) ([]*models.Product, error)
	ListFiltered(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int, error)
	Search(ctx context.Context, keyword string) ([]*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id int64) error
	IsReferencedByOrder(ctx context.Context, id int64) (bool, error)
	DecrementStock(ctx context.Context, id int64, quantity int) (bool, error)
	IncrementStock(ctx context.Context, id int64, quantity int) error
}

// SQLProductRepository is the database/sql implementation of ProductRepository
type SQLProductRepository struct {
	db database.DBTX
}

// NewProductRepository creates a new ProductRepository
func NewProductRepository(db database.DBTX) ProductRepository {
	return &SQLProductRepository{db: db}
}

const productColumns = "id, name, description, price, stock, category, image_url, created_at, updated_at"

// productSortColumns whitelists the ORDER BY clauses reachable from sort_by.
var productSortColumns = map[string]string{
	"":                    "id ASC",
	constants.SortByPrice: "price ASC, id ASC",
	constants.SortByName:  "name ASC, id ASC",
}

// Create adds a new product
func (r *SQLProductRepository) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (name, description, price, stock, category, image_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := database.InsertReturningID(ctx, r.db, query,
		product.Name,
		product.Description,
		product.Price,
		product.Stock,
		product.Category,
		product.ImageURL,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	product.ID = id
	return nil
}

// GetByID retrieves a product by ID
func (r *SQLProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE id = ?"

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundMessageError(constants.MsgProductNotFound)
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

// List returns products by id with offset pagination, for the admin listing
func (r *SQLProductRepository) List(ctx context.Context, skip, limit int) ([]*models.Product, error) {
	query := "SELECT " + productColumns + " FROM products ORDER BY id ASC LIMIT ? OFFSET ?"
	return r.queryProducts(ctx, query, limit, skip)
}

// ListFiltered returns one page of products matching the filter and the total match count
func (r *SQLProductRepository) ListFiltered(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int, error) {
	orderBy, ok := productSortColumns[filter.SortBy]
	if !ok {
		return nil, 0, utils.NewValidationError(constants.QueryParamSortBy, constants.MsgInvalidSortField)
	}

	var conditions []string
	var args []interface{}
	if filter.Category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.MinPrice != nil {
		conditions = append(conditions, "price >= ?")
		args = append(args, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		conditions = append(conditions, "price <= ?")
		args = append(args, *filter.MaxPrice)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query := "SELECT " + productColumns + " FROM products" + where + " ORDER BY " + orderBy + " LIMIT ? OFFSET ?"
	pageArgs := append(append([]interface{}{}, args...), filter.PageSize, filter.Offset())

	products, err := r.queryProducts(ctx, query, pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// Search matches the keyword case-insensitively against name and description
func (r *SQLProductRepository) Search(ctx context.Context, keyword string) ([]*models.Product, error) {
	pattern := "%" + keyword + "%"
	query := "SELECT " + productColumns + ` FROM products
		WHERE LOWER(name) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)
		ORDER BY id ASC`
	return r.queryProducts(ctx, query, pattern, pattern)
}

// Update stores every column of the product
func (r *SQLProductRepository) Update(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET name = ?, description = ?, price = ?, stock = ?, category = ?, image_url = ?, updated_at = ?
		WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		product.Name,
		product.Description,
		product.Price,
		product.Stock,
		product.Category,
		product.ImageURL,
		product.UpdatedAt,
		product.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return expectOneRow(result, constants.MsgProductNotFound)
}

// Delete removes a product. Products referenced by an order item cannot be deleted.
func (r *SQLProductRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		if utils.IsForeignKeyViolation(err) {
			return utils.NewBadRequestError(constants.MsgProductInOrder)
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return expectOneRow(result, constants.MsgProductNotFound)
}

// IsReferencedByOrder reports whether any order item points at the product
func (r *SQLProductRepository) IsReferencedByOrder(ctx context.Context, id int64) (bool, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM order_items WHERE product_id = ?", id).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check order references: %w", err)
	}
	return count > 0, nil
}

// DecrementStock takes quantity units out of stock only when enough remain.
// It reports false, without error, when the stock was insufficient.
func (r *SQLProductRepository) DecrementStock(ctx context.Context, id int64, quantity int) (bool, error) {
	query := "UPDATE products SET stock = stock - ?, updated_at = ? WHERE id = ? AND stock >= ?"

	result, err := r.db.ExecContext(ctx, query, quantity, time.Now().UTC(), id, quantity)
	if err != nil {
		return false, fmt.Errorf("failed to decrement stock: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected == 1, nil
}

// IncrementStock returns quantity units to stock
func (r *SQLProductRepository) IncrementStock(ctx context.Context, id int64, quantity int) error {
	query := "UPDATE products SET stock = stock + ?, updated_at = ? WHERE id = ?"

	result, err := r.db.ExecContext(ctx, query, quantity, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to increment stock: %w", err)
	}
	return expectOneRow(result, constants.MsgProductNotFound)
}

func (r *SQLProductRepository) queryProducts(ctx context.Context, query string, args ...interface{}) ([]*models.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []*models.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product rows: %w", err)
	}
	return products, nil
}

func scanProduct(row rowScanner) (*models.Product, error) {
	product := &models.Product{}
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Stock,
		&product.Category,
		&product.ImageURL,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return product, nil
}
