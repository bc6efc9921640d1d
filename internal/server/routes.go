package server

import (
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/constants"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/middleware"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/utils"
)

// RoutesPath lists the registered routes.
const RoutesPath = "/routes"

// SetupRoutes configures the routes for the application.
// It creates a router hierarchy with middleware and grouped routes
// according to functionality:
// - Health check, version and route listing (unprotected)
// - Authentication and password reset (stricter rate limit)
// - Admin catalog management (admin role required)
// - Public catalog browsing
// - Cart, checkout and orders (authenticated)
func (s *Server) SetupRoutes() {
	r := chi.NewRouter()
	cfg := s.Config

	// Base middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery())
	if cfg.Logging.RequestLog {
		r.Use(middleware.RequestLogger)
	}
	r.Use(middleware.SecurityHeaders(&cfg.App))
	r.Use(middleware.CORS(&cfg.CORS))
	r.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	r.Use(middleware.MaxBodySize(constants.MaxRequestBodySize))
	r.Use(chimiddleware.Timeout(constants.DefaultRequestTimeout))

	requireAuth := s.authenticator.RequireAuth()

	// Health check and version routes (unprotected)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NoStore)
		r.Get(constants.HealthPath, s.Handlers.Generic.Health)
		r.Get(constants.VersionPath, s.Handlers.Generic.Version)
		r.Get(RoutesPath, s.listRoutes)
	})

	// Authentication routes
	r.Route(constants.AuthBasePath, func(r chi.Router) {
		r.Use(middleware.NoStore)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(cfg.RateLimit.AuthRequests, cfg.RateLimit.Window))
			r.Post(constants.AuthSignupPath, s.Handlers.Auth.Signup)
			r.Post(constants.AuthSigninPath, s.Handlers.Auth.Signin)
			r.Post(constants.AuthRefreshPath, s.Handlers.Auth.Refresh)
			r.Post(constants.AuthForgotPasswordPath, s.Handlers.PasswordReset.ForgotPassword)
			r.Post(constants.AuthResetPasswordPath, s.Handlers.PasswordReset.ResetPassword)
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get(constants.AuthMePath, s.Handlers.Auth.Me)
		})
	})

	// Admin catalog routes
	r.Route(constants.AdminProductsBasePath, func(r chi.Router) {
		r.Use(requireAuth)
		r.Use(middleware.RequireAdmin())

		r.Post("/", s.Handlers.Product.CreateProduct)
		r.Post(constants.AdminProductCreate, s.Handlers.Product.CreateProduct)
		r.Get(constants.AdminProductList, s.Handlers.Product.ListProducts)
		r.Get(constants.ProductDetailPath, s.Handlers.Product.GetProduct)
		r.Put(constants.ProductDetailPath, s.Handlers.Product.UpdateProduct)
		r.Delete(constants.ProductDetailPath, s.Handlers.Product.DeleteProduct)
	})

	// Public catalog routes
	r.Route(constants.ProductsBasePath, func(r chi.Router) {
		r.Get("/", s.Handlers.Product.BrowseProducts)
		r.Get(constants.ProductSearchPath, s.Handlers.Product.SearchProducts)
		r.Get(constants.ProductDetailPath, s.Handlers.Product.ViewProduct)
	})

	// Shopper routes (all protected)
	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Use(middleware.NoStore)

		r.Route(constants.CartBasePath, func(r chi.Router) {
			r.Get("/", s.Handlers.Cart.GetCart)
			r.Post(constants.CartAddPath, s.Handlers.Cart.AddItem)
			r.Put(constants.CartItemPath, s.Handlers.Cart.UpdateItem)
			r.Delete(constants.CartItemPath, s.Handlers.Cart.RemoveItem)
		})

		r.Post(constants.CheckoutBasePath, s.Handlers.Order.Checkout)

		r.Route(constants.OrdersBasePath, func(r chi.Router) {
			r.Get("/", s.Handlers.Order.ListOrders)
			r.Get(constants.OrderDetailPath, s.Handlers.Order.GetOrder)
			r.Post(constants.OrderPayPath, s.Handlers.Order.PayOrder)
			r.Post(constants.OrderCancelPath, s.Handlers.Order.CancelOrder)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.NotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.MethodNotAllowed(w)
	})

	s.router = r
}

// listRoutes returns every registered "METHOD /path" pair, sorted.
func (s *Server) listRoutes(w http.ResponseWriter, r *http.Request) {
	var routes []string
	err := chi.Walk(s.router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		route = strings.Replace(route, "/*/", "/", -1)
		if len(route) > 1 {
			route = strings.TrimSuffix(route, "/")
		}
		routes = append(routes, method+" "+route)
		return nil
	})
	if err != nil {
		utils.ErrorFromAppError(w, utils.NewInternalServerError(err))
		return
	}

	sort.Strings(routes)
	utils.JSON(w, http.StatusOK, routes)
}
