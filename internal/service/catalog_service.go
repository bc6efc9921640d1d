package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/constants"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/models"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/repository"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/utils"
)

// CatalogService serves admin product management and public catalog reads.
// Public reads go through the cache; every admin write invalidates it.
type CatalogService struct {
	store    repository.Transactor
	products repository.ProductRepository
	cache    CatalogCache
}

// NewCatalogService creates a new CatalogService. cache may be nil.
func NewCatalogService(store repository.Transactor, products repository.ProductRepository, cache CatalogCache) *CatalogService {
	return &CatalogService{
		store:    store,
		products: products,
		cache:    cache,
	}
}

// CreateProduct adds a product to the catalog
func (s *CatalogService) CreateProduct(ctx context.Context, req *models.ProductCreate) (*models.Product, error) {
	product := req.ToProduct()
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	log.Info().Int64("product_id", product.ID).Str("name", product.Name).Msg("Product created")
	return product, nil
}

// ListProducts returns products for the admin listing
func (s *CatalogService) ListProducts(ctx context.Context, skip, limit int) ([]*models.Product, error) {
	if skip < 0 {
		return nil, utils.NewValidationError(constants.QueryParamSkip, "Must not be negative")
	}
	if limit < 1 || limit > constants.MaxAdminListLimit {
		return nil, utils.NewValidationError(constants.QueryParamLimit,
			fmt.Sprintf("Must be between 1 and %d", constants.MaxAdminListLimit))
	}
	return s.products.List(ctx, skip, limit)
}

// GetProduct returns a product by id, bypassing the cache
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	return s.products.GetByID(ctx, id)
}

// UpdateProduct applies a partial update
func (s *CatalogService) UpdateProduct(ctx context.Context, id int64, update *models.ProductUpdate) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if update.IsEmpty() {
		return product, nil
	}

	update.Apply(product)
	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	log.Info().Int64("product_id", product.ID).Msg("Product updated")
	return product, nil
}

// DeleteProduct removes a product that no order refers to
func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	err := s.store.WithTx(ctx, func(repos repository.Repositories) error {
		if _, err := repos.Products.GetByID(ctx, id); err != nil {
			return err
		}
		referenced, err := repos.Products.IsReferencedByOrder(ctx, id)
		if err != nil {
			return err
		}
		if referenced {
			return utils.NewBadRequestError(constants.MsgProductInOrder)
		}
		return repos.Products.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx)

	log.Info().Int64("product_id", id).Msg("Product deleted")
	return nil
}

// BrowseProducts returns one page of the public catalog
func (s *CatalogService) BrowseProducts(ctx context.Context, filter models.ProductFilter) (*models.ProductPage, error) {
	filter.Category = strings.TrimSpace(filter.Category)
	filter.SortBy = strings.ToLower(strings.TrimSpace(filter.SortBy))

	switch filter.SortBy {
	case "", constants.SortByPrice, constants.SortByName:
	default:
		return nil, utils.NewValidationError(constants.QueryParamSortBy, constants.MsgInvalidSortField)
	}
	if filter.MinPrice != nil && *filter.MinPrice < 0 {
		return nil, utils.NewValidationError(constants.QueryParamMinPrice, "Must not be negative")
	}
	if filter.MaxPrice != nil && *filter.MaxPrice < 0 {
		return nil, utils.NewValidationError(constants.QueryParamMaxPrice, "Must not be negative")
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return nil, utils.NewBadRequestError(constants.MsgInvalidPriceRange)
	}
	if filter.Page < 1 {
		filter.Page = constants.DefaultPage
	}
	if filter.PageSize < 1 {
		filter.PageSize = constants.DefaultPageSize
	}
	if filter.PageSize > constants.MaxPageSize {
		filter.PageSize = constants.MaxPageSize
	}
	// The row offset must fit in an int.
	if filter.Page-1 > math.MaxInt/filter.PageSize {
		return nil, utils.NewValidationError(constants.QueryParamPage, constants.MsgPageOutOfRange)
	}

	var page models.ProductPage
	err := s.fetch(ctx, &page, func(ctx context.Context) (interface{}, error) {
		products, total, err := s.products.ListFiltered(ctx, filter)
		if err != nil {
			return nil, err
		}
		if products == nil {
			products = []*models.Product{}
		}
		return &models.ProductPage{
			Products: products,
			Total:    total,
			Page:     filter.Page,
			PageSize: filter.PageSize,
		}, nil
	}, "list", filter.Category, formatPrice(filter.MinPrice), formatPrice(filter.MaxPrice),
		filter.SortBy, strconv.Itoa(filter.Page), strconv.Itoa(filter.PageSize))
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// SearchProducts matches keyword against product names and descriptions
func (s *CatalogService) SearchProducts(ctx context.Context, keyword string) ([]*models.Product, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, utils.NewValidationError(constants.QueryParamKeyword, constants.MsgSearchKeywordRequired)
	}

	products := []*models.Product{}
	err := s.fetch(ctx, &products, func(ctx context.Context) (interface{}, error) {
		found, err := s.products.Search(ctx, keyword)
		if err != nil {
			return nil, err
		}
		if found == nil {
			found = []*models.Product{}
		}
		return found, nil
	}, "search", strings.ToLower(keyword))
	if err != nil {
		return nil, err
	}
	return products, nil
}

// ViewProduct returns a product for the public catalog
func (s *CatalogService) ViewProduct(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := s.fetch(ctx, &product, func(ctx context.Context) (interface{}, error) {
		return s.products.GetByID(ctx, id)
	}, "product", strconv.FormatInt(id, 10))
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *CatalogService) fetch(ctx context.Context, dest interface{}, loader func(ctx context.Context) (interface{}, error), parts ...string) error {
	if s.cache == nil {
		value, err := loader(ctx)
		if err != nil {
			return err
		}
		return assign(dest, value)
	}
	return s.cache.Fetch(ctx, dest, loader, parts...)
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

// assign copies an uncached loader result into dest.
func assign(dest, value interface{}) error {
	switch d := dest.(type) {
	case *models.ProductPage:
		*d = *value.(*models.ProductPage)
	case *[]*models.Product:
		*d = value.([]*models.Product)
	case *models.Product:
		*d = *value.(*models.Product)
	default:
		return fmt.Errorf("unsupported catalog destination %T", dest)
	}
	return nil
}

func formatPrice(price *float64) string {
	if price == nil {
		return "-"
	}
	return strconv.FormatFloat(*price, 'f', -1, 64)
}
