package service

import (
	"context"
	"fmt"
	"time"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/constants"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/models"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/repository"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/utils"
)

// CartService manages the authenticated user's cart
type CartService struct {
	store repository.Transactor
	carts repository.CartRepository
}

// NewCartService creates a new CartService
func NewCartService(store repository.Transactor, carts repository.CartRepository) *CartService {
	return &CartService{
		store: store,
		carts: carts,
	}
}

// AddItem puts quantity units of a product in the cart, merging with an
// existing line for the same product. The merged quantity may not exceed stock.
func (s *CartService) AddItem(ctx context.Context, userID int64, req *models.CartItemCreate) (*models.CartItem, error) {
	var item *models.CartItem

	err := s.store.WithTx(ctx, func(repos repository.Repositories) error {
		product, err := repos.Products.GetByID(ctx, req.ProductID)
		if err != nil {
			return err
		}
		if !product.InStock() {
			return utils.NewBadRequestError(fmt.Sprintf(constants.MsgOutOfStockFormat, product.Name))
		}

		existing, err := repos.Carts.FindByUserAndProduct(ctx, userID, product.ID)
		if err != nil {
			return err
		}

		inCart := 0
		if existing != nil {
			inCart = existing.Quantity
		}
		if inCart+req.Quantity > product.Stock {
			return utils.NewBadRequestError(fmt.Sprintf(constants.MsgCartLimitFormat,
				req.Quantity, product.Name, inCart, product.Stock))
		}

		if existing != nil {
			existing.Quantity = inCart + req.Quantity
			if err := repos.Carts.UpdateQuantity(ctx, existing.ID, userID, existing.Quantity); err != nil {
				return err
			}
			item = existing
			return nil
		}

		item = &models.CartItem{
			UserID:    userID,
			ProductID: product.ID,
			Quantity:  req.Quantity,
			CreatedAt: time.Now().UTC(),
		}
		return repos.Carts.Create(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// GetCart returns the cart lines with product details and the cart total
func (s *CartService) GetCart(ctx context.Context, userID int64) (*models.Cart, error) {
	lines, err := s.carts.ListLines(ctx, userID)
	if err != nil {
		return nil, err
	}
	return models.NewCart(lines), nil
}

// UpdateItem sets the quantity of one of the user's cart items
func (s *CartService) UpdateItem(ctx context.Context, userID, itemID int64, req *models.CartItemUpdate) (*models.CartItem, error) {
	if req.Quantity < 1 {
		return nil, utils.NewValidationError("quantity", "Quantity must be at least 1")
	}

	var item *models.CartItem
	err := s.store.WithTx(ctx, func(repos repository.Repositories) error {
		found, err := repos.Carts.GetByID(ctx, itemID, userID)
		if err != nil {
			return err
		}
		product, err := repos.Products.GetByID(ctx, found.ProductID)
		if err != nil {
			return err
		}
		if req.Quantity > product.Stock {
			return utils.NewBadRequestError(fmt.Sprintf(constants.MsgCartQuantityFormat, product.Stock, product.Name))
		}

		if err := repos.Carts.UpdateQuantity(ctx, found.ID, userID, req.Quantity); err != nil {
			return err
		}
		found.Quantity = req.Quantity
		item = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveItem deletes one of the user's cart items
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID int64) error {
	return s.carts.Delete(ctx, itemID, userID)
}
