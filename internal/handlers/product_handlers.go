package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/constants"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/models"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/utils"
)

// ProductHandler serves both the admin product routes and the public catalog.
type ProductHandler struct {
	catalogService CatalogServiceInterface
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(catalogService CatalogServiceInterface) *ProductHandler {
	if catalogService == nil {
		panic("catalogService cannot be nil")
	}
	return &ProductHandler{catalogService: catalogService}
}

// CreateProduct handles product creation by an admin
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req models.ProductCreate
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	product, err := h.catalogService.CreateProduct(r.Context(), &req)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusCreated, product)
}

// ListProducts returns products for the admin view using skip/limit pagination
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	skip, err := utils.QueryInt(r, constants.QueryParamSkip, 0)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}
	limit, err := utils.QueryInt(r, constants.QueryParamLimit, constants.DefaultAdminListLimit)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	products, err := h.catalogService.ListProducts(r.Context(), skip, limit)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, products)
}

// GetProduct returns a single product for the admin view
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	product, err := h.catalogService.GetProduct(r.Context(), id)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, product)
}

// UpdateProduct applies a partial update to a product
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	var update models.ProductUpdate
	if err := utils.DecodeAndValidate(r, &update); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	product, err := h.catalogService.UpdateProduct(r.Context(), id, &update)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, product)
}

// DeleteProduct removes a product that is not part of any order
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	if err := h.catalogService.DeleteProduct(r.Context(), id); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.Message(w, http.StatusOK, constants.MsgProductDeleted)
}

// BrowseProducts returns one page of the public catalog
func (h *ProductHandler) BrowseProducts(w http.ResponseWriter, r *http.Request) {
	filter, err := productFilter(r)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	page, err := h.catalogService.BrowseProducts(r.Context(), filter)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.Paginated(w, http.StatusOK, page.Products, page.Page, page.PageSize, page.Total)
}

// SearchProducts matches a keyword against product names and descriptions
func (h *ProductHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get(constants.QueryParamKeyword)

	products, err := h.catalogService.SearchProducts(r.Context(), keyword)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, products)
}

// ViewProduct returns a single product from the public catalog
func (h *ProductHandler) ViewProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	product, err := h.catalogService.ViewProduct(r.Context(), id)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, product)
}

func productID(r *http.Request) (int64, error) {
	return utils.PathInt64(chi.URLParam(r, constants.ParamID), "product")
}

// productFilter reads the listing criteria from the query string. Page values that
// are out of range are clamped by the service, not rejected here.
func productFilter(r *http.Request) (models.ProductFilter, error) {
	filter := models.ProductFilter{
		Category: r.URL.Query().Get(constants.QueryParamCategory),
		SortBy:   r.URL.Query().Get(constants.QueryParamSortBy),
	}

	var err error
	if filter.MinPrice, err = utils.QueryFloat(r, constants.QueryParamMinPrice); err != nil {
		return filter, err
	}
	if filter.MaxPrice, err = utils.QueryFloat(r, constants.QueryParamMaxPrice); err != nil {
		return filter, err
	}
	if filter.Page, err = utils.QueryInt(r, constants.QueryParamPage, constants.DefaultPage); err != nil {
		return filter, err
	}
	if filter.PageSize, err = utils.QueryInt(r, constants.QueryParamPageSize, constants.DefaultPageSize); err != nil {
		return filter, err
	}
	return filter, nil
}
