package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/auth"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/cache"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/constants"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/mail"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/models"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/repository"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/utils"
)

// memStore is an in-memory database shared by the mock repositories.
// WithTx snapshots every table and restores the snapshot when fn fails.
type memStore struct {
	users      map[int64]*models.User
	tokens     map[int64]*models.PasswordResetToken
	products   map[int64]*models.Product
	cartItems  map[int64]*models.CartItem
	orders     map[int64]*models.Order
	orderItems map[int64]*models.OrderItem
	nextID     int64

	commits   int
	rollbacks int

	// beforeConsume runs inside Consume before the row check.
	beforeConsume func()
	// createUserErr is returned by the next Users.Create call.
	createUserErr error
}

func newMemStore() *memStore {
	return &memStore{
		users:      make(map[int64]*models.User),
		tokens:     make(map[int64]*models.PasswordResetToken),
		products:   make(map[int64]*models.Product),
		cartItems:  make(map[int64]*models.CartItem),
		orders:     make(map[int64]*models.Order),
		orderItems: make(map[int64]*models.OrderItem),
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) repos() repository.Repositories {
	return repository.Repositories{
		Users:       &MockUserRepository{s},
		ResetTokens: &MockResetTokenRepository{s},
		Products:    &MockProductRepository{s},
		Carts:       &MockCartRepository{s},
		Orders:      &MockOrderRepository{s},
	}
}

type memSnapshot struct {
	users      map[int64]models.User
	tokens     map[int64]models.PasswordResetToken
	products   map[int64]models.Product
	cartItems  map[int64]models.CartItem
	orders     map[int64]models.Order
	orderItems map[int64]models.OrderItem
}

func copyTable[T any](src map[int64]*T) map[int64]T {
	dst := make(map[int64]T, len(src))
	for k, v := range src {
		dst[k] = *v
	}
	return dst
}

func restoreTable[T any](src map[int64]T) map[int64]*T {
	dst := make(map[int64]*T, len(src))
	for k, v := range src {
		row := v
		dst[k] = &row
	}
	return dst
}

func (s *memStore) snapshot() memSnapshot {
	return memSnapshot{
		users:      copyTable(s.users),
		tokens:     copyTable(s.tokens),
		products:   copyTable(s.products),
		cartItems:  copyTable(s.cartItems),
		orders:     copyTable(s.orders),
		orderItems: copyTable(s.orderItems),
	}
}

func (s *memStore) restore(snap memSnapshot) {
	s.users = restoreTable(snap.users)
	s.tokens = restoreTable(snap.tokens)
	s.products = restoreTable(snap.products)
	s.cartItems = restoreTable(snap.cartItems)
	s.orders = restoreTable(snap.orders)
	s.orderItems = restoreTable(snap.orderItems)
}

func (s *memStore) WithTx(ctx context.Context, fn func(repos repository.Repositories) error) error {
	snap := s.snapshot()
	if err := fn(s.repos()); err != nil {
		s.restore(snap)
		s.rollbacks++
		return err
	}
	s.commits++
	return nil
}

func (s *memStore) addUser(name, email string, role models.Role, hash, salt string) *models.User {
	user := models.NewUser(name, email, role)
	user.ID = s.id()
	user.PasswordHash = hash
	user.Salt = salt
	s.users[user.ID] = user
	return user
}

func (s *memStore) addProduct(name string, price float64, stock int) *models.Product {
	now := time.Now().UTC()
	product := &models.Product{
		ID:        s.id(),
		Name:      name,
		Price:     price,
		Stock:     stock,
		Category:  "general",
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.products[product.ID] = product
	return product
}

func (s *memStore) addCartItem(userID, productID int64, quantity int) *models.CartItem {
	item := &models.CartItem{ID: s.id(), UserID: userID, ProductID: productID, Quantity: quantity, CreatedAt: time.Now().UTC()}
	s.cartItems[item.ID] = item
	return item
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct{ s *memStore }

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	if err := m.s.createUserErr; err != nil {
		m.s.createUserErr = nil
		return err
	}
	for _, existing := range m.s.users {
		if existing.Email == user.Email {
			return utils.NewDuplicateError("User", "email", user.Email)
		}
	}
	user.ID = m.s.id()
	stored := *user
	m.s.users[user.ID] = &stored
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, ok := m.s.users[id]
	if !ok {
		return nil, utils.NewNotFoundError("User", id)
	}
	copied := *user
	return &copied, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range m.s.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, utils.NewNotFoundError("User", email)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	return err == nil, nil
}

func (m *MockUserRepository) ChangePassword(ctx context.Context, id int64, passwordHash, salt string) error {
	user, ok := m.s.users[id]
	if !ok {
		return utils.NewNotFoundError("User", id)
	}
	user.PasswordHash = passwordHash
	user.Salt = salt
	return nil
}

// MockResetTokenRepository is a mock implementation of PasswordResetRepository
type MockResetTokenRepository struct{ s *memStore }

func (m *MockResetTokenRepository) Create(ctx context.Context, token *models.PasswordResetToken) error {
	token.ID = m.s.id()
	stored := *token
	m.s.tokens[token.ID] = &stored
	return nil
}

func (m *MockResetTokenRepository) FindValid(ctx context.Context, tokenHash string, now time.Time) (*models.PasswordResetToken, error) {
	for _, token := range m.s.tokens {
		if token.TokenHash == tokenHash && token.IsValidAt(now) {
			copied := *token
			return &copied, nil
		}
	}
	return nil, repository.ErrTokenNotFound
}

func (m *MockResetTokenRepository) Consume(ctx context.Context, tokenHash string) error {
	if m.s.beforeConsume != nil {
		m.s.beforeConsume()
	}
	for _, token := range m.s.tokens {
		if token.TokenHash == tokenHash && !token.Used {
			token.Used = true
			return nil
		}
	}
	return repository.ErrTokenNotFound
}

func (m *MockResetTokenRepository) InvalidateForUser(ctx context.Context, userID int64) (int64, error) {
	var n int64
	for _, token := range m.s.tokens {
		if token.UserID == userID && !token.Used {
			token.Used = true
			n++
		}
	}
	return n, nil
}

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct{ s *memStore }

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	product.ID = m.s.id()
	stored := *product
	m.s.products[product.ID] = &stored
	return nil
}

func (m *MockProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	product, ok := m.s.products[id]
	if !ok {
		return nil, utils.NewNotFoundMessageError(constants.MsgProductNotFound)
	}
	copied := *product
	return &copied, nil
}

func (m *MockProductRepository) sorted() []*models.Product {
	products := make([]*models.Product, 0, len(m.s.products))
	for _, p := range m.s.products {
		copied := *p
		products = append(products, &copied)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products
}

func (m *MockProductRepository) List(ctx context.Context, skip, limit int) ([]*models.Product, error) {
	products := m.sorted()
	if skip >= len(products) {
		return []*models.Product{}, nil
	}
	end := skip + limit
	if end > len(products) {
		end = len(products)
	}
	return products[skip:end], nil
}

func (m *MockProductRepository) ListFiltered(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int, error) {
	var matched []*models.Product
	for _, p := range m.sorted() {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.MinPrice != nil && p.Price < *filter.MinPrice {
			continue
		}
		if filter.MaxPrice != nil && p.Price > *filter.MaxPrice {
			continue
		}
		matched = append(matched, p)
	}
	switch filter.SortBy {
	case constants.SortByPrice:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Price < matched[j].Price })
	case constants.SortByName:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	}
	total := len(matched)
	start := filter.Offset()
	if start >= total {
		return []*models.Product{}, total, nil
	}
	end := start + filter.PageSize
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (m *MockProductRepository) Search(ctx context.Context, keyword string) ([]*models.Product, error) {
	needle := strings.ToLower(keyword)
	var found []*models.Product
	for _, p := range m.sorted() {
		if strings.Contains(strings.ToLower(p.Name), needle) || strings.Contains(strings.ToLower(p.Description), needle) {
			found = append(found, p)
		}
	}
	return found, nil
}

func (m *MockProductRepository) Update(ctx context.Context, product *models.Product) error {
	if _, ok := m.s.products[product.ID]; !ok {
		return utils.NewNotFoundMessageError(constants.MsgProductNotFound)
	}
	stored := *product
	m.s.products[product.ID] = &stored
	return nil
}

func (m *MockProductRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.s.products[id]; !ok {
		return utils.NewNotFoundMessageError(constants.MsgProductNotFound)
	}
	delete(m.s.products, id)
	return nil
}

func (m *MockProductRepository) IsReferencedByOrder(ctx context.Context, id int64) (bool, error) {
	for _, item := range m.s.orderItems {
		if item.ProductID == id {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockProductRepository) DecrementStock(ctx context.Context, id int64, quantity int) (bool, error) {
	product, ok := m.s.products[id]
	if !ok || product.Stock < quantity {
		return false, nil
	}
	product.Stock -= quantity
	return true, nil
}

func (m *MockProductRepository) IncrementStock(ctx context.Context, id int64, quantity int) error {
	product, ok := m.s.products[id]
	if !ok {
		return utils.NewNotFoundMessageError(constants.MsgProductNotFound)
	}
	product.Stock += quantity
	return nil
}

// MockCartRepository is a mock implementation of CartRepository
type MockCartRepository struct{ s *memStore }

func (m *MockCartRepository) FindByUserAndProduct(ctx context.Context, userID, productID int64) (*models.CartItem, error) {
	for _, item := range m.s.cartItems {
		if item.UserID == userID && item.ProductID == productID {
			copied := *item
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *MockCartRepository) GetByID(ctx context.Context, id, userID int64) (*models.CartItem, error) {
	item, ok := m.s.cartItems[id]
	if !ok || item.UserID != userID {
		return nil, utils.NewNotFoundMessageError(constants.MsgCartItemNotFound)
	}
	copied := *item
	return &copied, nil
}

func (m *MockCartRepository) Create(ctx context.Context, item *models.CartItem) error {
	item.ID = m.s.id()
	stored := *item
	m.s.cartItems[item.ID] = &stored
	return nil
}

func (m *MockCartRepository) UpdateQuantity(ctx context.Context, id, userID int64, quantity int) error {
	item, ok := m.s.cartItems[id]
	if !ok || item.UserID != userID {
		return utils.NewNotFoundMessageError(constants.MsgCartItemNotFound)
	}
	item.Quantity = quantity
	return nil
}

func (m *MockCartRepository) Delete(ctx context.Context, id, userID int64) error {
	item, ok := m.s.cartItems[id]
	if !ok || item.UserID != userID {
		return utils.NewNotFoundMessageError(constants.MsgCartItemNotFound)
	}
	delete(m.s.cartItems, id)
	return nil
}

func (m *MockCartRepository) ListLines(ctx context.Context, userID int64) ([]*models.CartLine, error) {
	var lines []*models.CartLine
	for _, item := range m.s.cartItems {
		if item.UserID != userID {
			continue
		}
		product := m.s.products[item.ProductID]
		lines = append(lines, &models.CartLine{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: product.Name,
			UnitPrice:   product.Price,
			Stock:       product.Stock,
			Quantity:    item.Quantity,
		})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ID < lines[j].ID })
	return lines, nil
}

func (m *MockCartRepository) Clear(ctx context.Context, userID int64) error {
	for id, item := range m.s.cartItems {
		if item.UserID == userID {
			delete(m.s.cartItems, id)
		}
	}
	return nil
}

// MockOrderRepository is a mock implementation of OrderRepository
type MockOrderRepository struct{ s *memStore }

func (m *MockOrderRepository) Create(ctx context.Context, order *models.Order) error {
	order.ID = m.s.id()
	stored := *order
	m.s.orders[order.ID] = &stored
	return nil
}

func (m *MockOrderRepository) AddItem(ctx context.Context, item *models.OrderItem) error {
	item.ID = m.s.id()
	stored := *item
	m.s.orderItems[item.ID] = &stored
	return nil
}

func (m *MockOrderRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Order, error) {
	var orders []*models.Order
	for _, order := range m.s.orders {
		if order.UserID == userID {
			copied := *order
			orders = append(orders, &copied)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID > orders[j].ID })
	return orders, nil
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id, userID int64) (*models.Order, error) {
	order, ok := m.s.orders[id]
	if !ok || order.UserID != userID {
		return nil, utils.NewNotFoundMessageError(constants.MsgOrderNotFound)
	}
	copied := *order
	return &copied, nil
}

func (m *MockOrderRepository) ListItems(ctx context.Context, orderID int64) ([]*models.OrderItem, error) {
	var items []*models.OrderItem
	for _, item := range m.s.orderItems {
		if item.OrderID == orderID {
			copied := *item
			items = append(items, &copied)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (m *MockOrderRepository) TransitionStatus(ctx context.Context, id, userID int64, from, to models.OrderStatus) (bool, error) {
	order, ok := m.s.orders[id]
	if !ok || order.UserID != userID || order.Status != from {
		return false, nil
	}
	order.Status = to
	return true, nil
}

// MockHasher is a reversible PasswordHashing used to keep tests fast
type MockHasher struct {
	dummyCalls int
}

func (h *MockHasher) Hash(password string) (string, string, error) {
	return "hashed:" + password, "salt", nil
}

func (h *MockHasher) Verify(password, encodedHash, encodedSalt string) (bool, error) {
	return encodedHash == "hashed:"+password && encodedSalt == "salt", nil
}

func (h *MockHasher) VerifyDummy(password string) {
	h.dummyCalls++
}

// MockTokenService issues predictable tokens
type MockTokenService struct {
	ValidateFunc func(tokenString, expectedType string) (*auth.Claims, error)
}

func (m *MockTokenService) GenerateAccessToken(user *models.User) (string, error) {
	return "access-" + user.Email, nil
}

func (m *MockTokenService) GenerateRefreshToken(user *models.User) (string, error) {
	return "refresh-" + user.Email, nil
}

func (m *MockTokenService) AccessTokenTTL() time.Duration {
	return 30 * time.Minute
}

func (m *MockTokenService) ValidateToken(tokenString, expectedType string) (*auth.Claims, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(tokenString, expectedType)
	}
	return nil, utils.NewInvalidTokenError()
}

// MockResetMailer records reset emails
type MockResetMailer struct {
	mu   sync.Mutex
	sent []sentReset
}

type sentReset struct {
	email string
	name  string
	token string
}

func (m *MockResetMailer) SendPasswordResetEmail(ctx context.Context, toEmail, toName, token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentReset{email: toEmail, name: toName, token: token})
}

// MockSender records delivered messages
type MockSender struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (m *MockSender) Send(ctx context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.err
}

func (m *MockSender) Messages() []mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mail.Message(nil), m.sent...)
}

// MockQueue records enqueued messages
type MockQueue struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (m *MockQueue) EnqueueEmail(ctx context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

// MockCatalogCache passes every read to the loader and counts invalidations
type MockCatalogCache struct {
	fetches       int
	invalidations int
}

func (m *MockCatalogCache) Fetch(ctx context.Context, dest interface{}, loader cache.Loader, parts ...string) error {
	m.fetches++
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	return assign(dest, value)
}

func (m *MockCatalogCache) Invalidate(ctx context.Context) {
	m.invalidations++
}
