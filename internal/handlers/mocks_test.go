package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/auth"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/models"
)

// MockAuthService implements AuthServiceInterface
type MockAuthService struct {
	SignupFunc  func(ctx context.Context, req *models.SignupRequest) (*models.TokenResponse, error)
	SigninFunc  func(ctx context.Context, req *models.SigninRequest) (*models.TokenResponse, error)
	RefreshFunc func(ctx context.Context, refreshToken string) (*models.TokenResponse, error)
	MeFunc      func(ctx context.Context, userID int64) (*models.UserResponse, error)
}

func (m *MockAuthService) Signup(ctx context.Context, req *models.SignupRequest) (*models.TokenResponse, error) {
	if m.SignupFunc != nil {
		return m.SignupFunc(ctx, req)
	}
	return &models.TokenResponse{AccessToken: "access_token", TokenType: "bearer"}, nil
}

func (m *MockAuthService) Signin(ctx context.Context, req *models.SigninRequest) (*models.TokenResponse, error) {
	if m.SigninFunc != nil {
		return m.SigninFunc(ctx, req)
	}
	return &models.TokenResponse{AccessToken: "access_token", RefreshToken: "refresh_token", TokenType: "bearer", ExpiresIn: 1800}, nil
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*models.TokenResponse, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, refreshToken)
	}
	return &models.TokenResponse{AccessToken: "new_access_token", RefreshToken: "new_refresh_token", TokenType: "bearer"}, nil
}

func (m *MockAuthService) Me(ctx context.Context, userID int64) (*models.UserResponse, error) {
	if m.MeFunc != nil {
		return m.MeFunc(ctx, userID)
	}
	return &models.UserResponse{ID: userID, Name: "Test User", Email: "test@example.com", Role: models.RoleUser}, nil
}

// MockPasswordResetService implements PasswordResetServiceInterface
type MockPasswordResetService struct {
	RequestResetFunc  func(ctx context.Context, email string) error
	ResetPasswordFunc func(ctx context.Context, token, newPassword string) error
}

func (m *MockPasswordResetService) RequestReset(ctx context.Context, email string) error {
	if m.RequestResetFunc != nil {
		return m.RequestResetFunc(ctx, email)
	}
	return nil
}

func (m *MockPasswordResetService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, token, newPassword)
	}
	return nil
}

// MockCatalogService implements CatalogServiceInterface
type MockCatalogService struct {
	CreateProductFunc  func(ctx context.Context, req *models.ProductCreate) (*models.Product, error)
	ListProductsFunc   func(ctx context.Context, skip, limit int) ([]*models.Product, error)
	GetProductFunc     func(ctx context.Context, id int64) (*models.Product, error)
	UpdateProductFunc  func(ctx context.Context, id int64, update *models.ProductUpdate) (*models.Product, error)
	DeleteProductFunc  func(ctx context.Context, id int64) error
	BrowseProductsFunc func(ctx context.Context, filter models.ProductFilter) (*models.ProductPage, error)
	SearchProductsFunc func(ctx context.Context, keyword string) ([]*models.Product, error)
	ViewProductFunc    func(ctx context.Context, id int64) (*models.Product, error)
}

func (m *MockCatalogService) CreateProduct(ctx context.Context, req *models.ProductCreate) (*models.Product, error) {
	if m.CreateProductFunc != nil {
		return m.CreateProductFunc(ctx, req)
	}
	product := req.ToProduct()
	product.ID = 1
	return product, nil
}

func (m *MockCatalogService) ListProducts(ctx context.Context, skip, limit int) ([]*models.Product, error) {
	if m.ListProductsFunc != nil {
		return m.ListProductsFunc(ctx, skip, limit)
	}
	return []*models.Product{}, nil
}

func (m *MockCatalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	if m.GetProductFunc != nil {
		return m.GetProductFunc(ctx, id)
	}
	return &models.Product{ID: id, Name: "Lamp", Price: 19.99, Stock: 3}, nil
}

func (m *MockCatalogService) UpdateProduct(ctx context.Context, id int64, update *models.ProductUpdate) (*models.Product, error) {
	if m.UpdateProductFunc != nil {
		return m.UpdateProductFunc(ctx, id, update)
	}
	product := &models.Product{ID: id, Name: "Lamp", Price: 19.99, Stock: 3}
	update.Apply(product)
	return product, nil
}

func (m *MockCatalogService) DeleteProduct(ctx context.Context, id int64) error {
	if m.DeleteProductFunc != nil {
		return m.DeleteProductFunc(ctx, id)
	}
	return nil
}

func (m *MockCatalogService) BrowseProducts(ctx context.Context, filter models.ProductFilter) (*models.ProductPage, error) {
	if m.BrowseProductsFunc != nil {
		return m.BrowseProductsFunc(ctx, filter)
	}
	return &models.ProductPage{Products: []*models.Product{}, Page: filter.Page, PageSize: filter.PageSize}, nil
}

func (m *MockCatalogService) SearchProducts(ctx context.Context, keyword string) ([]*models.Product, error) {
	if m.SearchProductsFunc != nil {
		return m.SearchProductsFunc(ctx, keyword)
	}
	return []*models.Product{}, nil
}

func (m *MockCatalogService) ViewProduct(ctx context.Context, id int64) (*models.Product, error) {
	if m.ViewProductFunc != nil {
		return m.ViewProductFunc(ctx, id)
	}
	return &models.Product{ID: id, Name: "Lamp", Price: 19.99, Stock: 3}, nil
}

// MockCartService implements CartServiceInterface
type MockCartService struct {
	AddItemFunc    func(ctx context.Context, userID int64, req *models.CartItemCreate) (*models.CartItem, error)
	GetCartFunc    func(ctx context.Context, userID int64) (*models.Cart, error)
	UpdateItemFunc func(ctx context.Context, userID, itemID int64, req *models.CartItemUpdate) (*models.CartItem, error)
	RemoveItemFunc func(ctx context.Context, userID, itemID int64) error
}

func (m *MockCartService) AddItem(ctx context.Context, userID int64, req *models.CartItemCreate) (*models.CartItem, error) {
	if m.AddItemFunc != nil {
		return m.AddItemFunc(ctx, userID, req)
	}
	return &models.CartItem{ID: 1, UserID: userID, ProductID: req.ProductID, Quantity: req.Quantity}, nil
}

func (m *MockCartService) GetCart(ctx context.Context, userID int64) (*models.Cart, error) {
	if m.GetCartFunc != nil {
		return m.GetCartFunc(ctx, userID)
	}
	return models.NewCart(nil), nil
}

func (m *MockCartService) UpdateItem(ctx context.Context, userID, itemID int64, req *models.CartItemUpdate) (*models.CartItem, error) {
	if m.UpdateItemFunc != nil {
		return m.UpdateItemFunc(ctx, userID, itemID, req)
	}
	return &models.CartItem{ID: itemID, UserID: userID, ProductID: 1, Quantity: req.Quantity}, nil
}

func (m *MockCartService) RemoveItem(ctx context.Context, userID, itemID int64) error {
	if m.RemoveItemFunc != nil {
		return m.RemoveItemFunc(ctx, userID, itemID)
	}
	return nil
}

// MockOrderService implements OrderServiceInterface
type MockOrderService struct {
	CheckoutFunc    func(ctx context.Context, userID int64) (*models.OrderDetail, error)
	ListOrdersFunc  func(ctx context.Context, userID int64) ([]*models.Order, error)
	GetOrderFunc    func(ctx context.Context, userID, orderID int64) (*models.OrderDetail, error)
	PayOrderFunc    func(ctx context.Context, userID, orderID int64) (*models.Order, error)
	CancelOrderFunc func(ctx context.Context, userID, orderID int64) (*models.Order, error)
}

func (m *MockOrderService) Checkout(ctx context.Context, userID int64) (*models.OrderDetail, error) {
	if m.CheckoutFunc != nil {
		return m.CheckoutFunc(ctx, userID)
	}
	return &models.OrderDetail{
		Order: &models.Order{ID: 1, UserID: userID, Status: models.OrderStatusPending},
		Items: []*models.OrderItem{},
	}, nil
}

func (m *MockOrderService) ListOrders(ctx context.Context, userID int64) ([]*models.Order, error) {
	if m.ListOrdersFunc != nil {
		return m.ListOrdersFunc(ctx, userID)
	}
	return []*models.Order{}, nil
}

func (m *MockOrderService) GetOrder(ctx context.Context, userID, orderID int64) (*models.OrderDetail, error) {
	if m.GetOrderFunc != nil {
		return m.GetOrderFunc(ctx, userID, orderID)
	}
	return &models.OrderDetail{
		Order: &models.Order{ID: orderID, UserID: userID, Status: models.OrderStatusPending},
		Items: []*models.OrderItem{},
	}, nil
}

func (m *MockOrderService) PayOrder(ctx context.Context, userID, orderID int64) (*models.Order, error) {
	if m.PayOrderFunc != nil {
		return m.PayOrderFunc(ctx, userID, orderID)
	}
	return &models.Order{ID: orderID, UserID: userID, Status: models.OrderStatusPaid}, nil
}

func (m *MockOrderService) CancelOrder(ctx context.Context, userID, orderID int64) (*models.Order, error) {
	if m.CancelOrderFunc != nil {
		return m.CancelOrderFunc(ctx, userID, orderID)
	}
	return &models.Order{ID: orderID, UserID: userID, Status: models.OrderStatusCancelled}, nil
}

// newJSONRequest builds a request with an optional JSON body.
func newJSONRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			if err := json.NewEncoder(&buf).Encode(b); err != nil {
				t.Fatalf("Failed to encode request body: %v", err)
			}
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// withUser attaches an authenticated principal the way the auth middleware does.
func withUser(req *http.Request, userID int64) *http.Request {
	principal := &auth.Principal{ID: userID, Email: "test@example.com", Role: models.RoleUser}
	return req.WithContext(auth.WithPrincipal(req.Context(), principal))
}

// withURLParam routes a chi URL parameter into the request context.
func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// decodeResponse decodes the response envelope.
func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	return response
}

// responseData returns the data object of a successful envelope.
func responseData(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	data, ok := decodeResponse(t, rec)["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected data object in response, got %s", rec.Body.String())
	}
	return data
}

// responseError returns the error object of a failed envelope.
func responseError(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	response := decodeResponse(t, rec)
	if success, _ := response["success"].(bool); success {
		t.Errorf("Expected success to be false")
	}
	errObj, ok := response["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected error object in response, got %s", rec.Body.String())
	}
	return errObj
}
