package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/auth"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/constants"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/models"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/utils"
)

// OrderHandler handles checkout and the user's order history
type OrderHandler struct {
	orderService OrderServiceInterface
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService OrderServiceInterface) *OrderHandler {
	if orderService == nil {
		panic("orderService cannot be nil")
	}
	return &OrderHandler{orderService: orderService}
}

// Checkout turns the cart into a pending order
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	order, err := h.orderService.Checkout(r.Context(), userID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusCreated, order)
}

// ListOrders returns the user's orders, newest first
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	orders, err := h.orderService.ListOrders(r.Context(), userID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, orders)
}

// GetOrder returns one order with its items
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	userID, orderID, ok := h.orderTarget(w, r)
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(r.Context(), userID, orderID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, order)
}

// PayOrder marks a pending order as paid
func (h *OrderHandler) PayOrder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.orderService.PayOrder)
}

// CancelOrder cancels a pending order
func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.orderService.CancelOrder)
}

func (h *OrderHandler) transition(w http.ResponseWriter, r *http.Request,
	apply func(ctx context.Context, userID, orderID int64) (*models.Order, error)) {
	userID, orderID, ok := h.orderTarget(w, r)
	if !ok {
		return
	}

	order, err := apply(r.Context(), userID, orderID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, order)
}

// orderTarget resolves the caller and the order id, writing the error response
// itself when either is missing.
func (h *OrderHandler) orderTarget(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return 0, 0, false
	}

	orderID, err := utils.PathInt64(chi.URLParam(r, constants.ParamID), "order")
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return 0, 0, false
	}
	return userID, orderID, true
}
