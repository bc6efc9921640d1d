package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/constants"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/models"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/repository"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/utils"
)

// OrderService turns carts into orders and manages their status.
type OrderService struct {
	store  repository.Transactor
	orders repository.OrderRepository
	cache  CatalogCache
	now    func() time.Time
}

// NewOrderService creates a new OrderService. Stock changes invalidate cache,
// which may be nil.
func NewOrderService(store repository.Transactor, orders repository.OrderRepository, cache CatalogCache) *OrderService {
	return &OrderService{
		store:  store,
		orders: orders,
		cache:  cache,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Checkout converts the user's cart into a pending order in one transaction.
// Each line takes its units out of stock with a conditional update, so stock
// never drops below zero; any shortfall rolls the whole checkout back.
func (s *OrderService) Checkout(ctx context.Context, userID int64) (*models.OrderDetail, error) {
	var detail *models.OrderDetail

	err := s.store.WithTx(ctx, func(repos repository.Repositories) error {
		lines, err := repos.Carts.ListLines(ctx, userID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return utils.NewBadRequestError(constants.MsgCartEmpty)
		}

		cart := models.NewCart(lines)
		for _, line := range cart.Items {
			ok, err := repos.Products.DecrementStock(ctx, line.ProductID, line.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return utils.NewBadRequestError(fmt.Sprintf(constants.MsgInsufficientStockFormat, line.ProductName))
			}
		}

		now := s.now()
		order := &models.Order{
			UserID:      userID,
			TotalAmount: cart.Total,
			Status:      models.OrderStatusPending,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := repos.Orders.Create(ctx, order); err != nil {
			return err
		}

		items := make([]*models.OrderItem, 0, len(cart.Items))
		for _, line := range cart.Items {
			item := &models.OrderItem{
				OrderID:         order.ID,
				ProductID:       line.ProductID,
				Quantity:        line.Quantity,
				PriceAtPurchase: line.UnitPrice,
			}
			if err := repos.Orders.AddItem(ctx, item); err != nil {
				return err
			}
			items = append(items, item)
		}

		if err := repos.Carts.Clear(ctx, userID); err != nil {
			return err
		}

		detail = &models.OrderDetail{Order: order, Items: items}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	log.Info().
		Int64("order_id", detail.ID).
		Int64("user_id", userID).
		Float64("total_amount", detail.TotalAmount).
		Int("items", len(detail.Items)).
		Msg("Order placed")

	return detail, nil
}

// ListOrders returns the user's orders, newest first
func (s *OrderService) ListOrders(ctx context.Context, userID int64) ([]*models.Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	return orders, nil
}

// GetOrder returns one of the user's orders with its items
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID int64) (*models.OrderDetail, error) {
	order, err := s.orders.GetByID(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	items, err := s.orders.ListItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*models.OrderItem{}
	}
	return &models.OrderDetail{Order: order, Items: items}, nil
}

// PayOrder marks a pending order as paid
func (s *OrderService) PayOrder(ctx context.Context, userID, orderID int64) (*models.Order, error) {
	var order *models.Order

	err := s.store.WithTx(ctx, func(repos repository.Repositories) error {
		found, err := repos.Orders.GetByID(ctx, orderID, userID)
		if err != nil {
			return err
		}
		if !found.Status.CanTransitionTo(models.OrderStatusPaid) {
			return utils.NewConflictError(constants.MsgOrderCannotBePaid)
		}

		changed, err := repos.Orders.TransitionStatus(ctx, orderID, userID, models.OrderStatusPending, models.OrderStatusPaid)
		if err != nil {
			return err
		}
		if !changed {
			return utils.NewConflictError(constants.MsgOrderCannotBePaid)
		}

		found.Status = models.OrderStatusPaid
		found.UpdatedAt = s.now()
		order = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Int64("order_id", orderID).Int64("user_id", userID).Msg("Order paid")
	return order, nil
}

// CancelOrder cancels a pending order and returns its units to stock
func (s *OrderService) CancelOrder(ctx context.Context, userID, orderID int64) (*models.Order, error) {
	var order *models.Order

	err := s.store.WithTx(ctx, func(repos repository.Repositories) error {
		found, err := repos.Orders.GetByID(ctx, orderID, userID)
		if err != nil {
			return err
		}
		if !found.Status.CanTransitionTo(models.OrderStatusCancelled) {
			return utils.NewConflictError(constants.MsgOrderCannotBeCancelled)
		}

		changed, err := repos.Orders.TransitionStatus(ctx, orderID, userID, models.OrderStatusPending, models.OrderStatusCancelled)
		if err != nil {
			return err
		}
		if !changed {
			return utils.NewConflictError(constants.MsgOrderCannotBeCancelled)
		}

		items, err := repos.Orders.ListItems(ctx, orderID)
		if err != nil {
			return err
		}
		for _, item := range items {
			if err := repos.Products.IncrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		found.Status = models.OrderStatusCancelled
		found.UpdatedAt = s.now()
		order = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	log.Info().Int64("order_id", orderID).Int64("user_id", userID).Msg("Order cancelled")
	return order, nil
}

func (s *OrderService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}
