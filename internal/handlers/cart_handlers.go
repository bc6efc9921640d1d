package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/auth"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/constants"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/models"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/utils"
)

// CartHandler handles the signed-in user's shopping cart
type CartHandler struct {
	cartService CartServiceInterface
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService CartServiceInterface) *CartHandler {
	if cartService == nil {
		panic("cartService cannot be nil")
	}
	return &CartHandler{cartService: cartService}
}

// AddItem adds a product to the cart
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	var req models.CartItemCreate
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	item, err := h.cartService.AddItem(r.Context(), userID, &req)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusCreated, item)
}

// GetCart returns the cart with product summaries and its total
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	cart, err := h.cartService.GetCart(r.Context(), userID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, cart)
}

// UpdateItem changes the quantity of a cart item
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	itemID, err := utils.PathInt64(chi.URLParam(r, constants.ParamID), "cart item")
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	var req models.CartItemUpdate
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	item, err := h.cartService.UpdateItem(r.Context(), userID, itemID, &req)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, item)
}

// RemoveItem deletes a cart item
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	itemID, err := utils.PathInt64(chi.URLParam(r, constants.ParamID), "cart item")
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	if err := h.cartService.RemoveItem(r.Context(), userID, itemID); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.Message(w, http.StatusOK, constants.MsgCartItemRemoved)
}
