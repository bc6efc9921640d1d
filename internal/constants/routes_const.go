package constants

// Base Routes
const (
	HealthPath  = "/health"
	VersionPath = "/version"
)

// Authentication Routes
const (
	AuthBasePath           = "/auth"
	AuthSignupPath         = "/signup"
	AuthSigninPath         = "/signin"
	AuthRefreshPath        = "/refresh"
	AuthMePath             = "/me"
	AuthForgotPasswordPath = "/forgot-password"
	AuthResetPasswordPath  = "/reset-password"
)

// Catalog Routes
const (
	AdminProductsBasePath = "/admin/products"
	AdminProductCreate    = "/create"
	AdminProductList      = "/list"
	ProductsBasePath      = "/products"
	ProductSearchPath     = "/search"
	ProductDetailPath     = "/{id}"
)

// Cart, Checkout and Order Routes
const (
	CartBasePath     = "/cart"
	CartAddPath      = "/add"
	CartItemPath     = "/{id}"
	CheckoutBasePath = "/checkout"
	OrdersBasePath   = "/orders"
	OrderDetailPath  = "/{id}"
	OrderPayPath     = "/{id}/pay"
	OrderCancelPath  = "/{id}/cancel"
)

// URL Parameters
const (
	ParamID = "id"
)

// Query Parameters
const (
	QueryParamPage     = "page"
	QueryParamPageSize = "page_size"
	QueryParamSkip     = "skip"
	QueryParamLimit    = "limit"
	QueryParamCategory = "category"
	QueryParamMinPrice = "min_price"
	QueryParamMaxPrice = "max_price"
	QueryParamSortBy   = "sort_by"
	QueryParamKeyword  = "keyword"
	QueryParamToken    = "token"
)
