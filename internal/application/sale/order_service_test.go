package sale

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/solarmd/backend/internal/domain/catalog"
	"github.com/solarmd/backend/internal/domain/sale"
	"github.com/solarmd/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockCartRepository is a mock implementation of sale.CartRepository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*sale.Cart, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sale.Cart), args.Error(1)
}

func (m *MockCartRepository) FindOpenByClient(ctx context.Context, clientID uuid.UUID) (*sale.Cart, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sale.Cart), args.Error(1)
}

func (m *MockCartRepository) Save(ctx context.Context, cart *sale.Cart) error {
	args := m.Called(ctx, cart)
	return args.Error(0)
}

func (m *MockCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockOrderRepository is a mock implementation of sale.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*sale.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sale.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByNumber(ctx context.Context, number string) (*sale.Order, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sale.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]sale.Order, error) {
	args := m.Called(ctx, clientID, filter)
	return args.Get(0).([]sale.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByStatus(ctx context.Context, status sale.OrderStatus, filter shared.Filter) ([]sale.Order, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).([]sale.Order), args.Error(1)
}

func (m *MockOrderRepository) NextSequence(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *sale.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

// MockOrderStatusHistoryRepository is a mock implementation of sale.OrderStatusHistoryRepository
type MockOrderStatusHistoryRepository struct {
	mock.Mock
}

func (m *MockOrderStatusHistoryRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]sale.OrderStatusHistory, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]sale.OrderStatusHistory), args.Error(1)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, categoryID, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	args := m.Called(ctx, sku)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockProductPriceRepository is a mock implementation of catalog.ProductPriceRepository
type MockProductPriceRepository struct {
	mock.Mock
}

func (m *MockProductPriceRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ProductPrice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProductPrice), args.Error(1)
}

func (m *MockProductPriceRepository) FindByProductAndType(ctx context.Context, productID uuid.UUID, priceType catalog.PriceType) (*catalog.ProductPrice, error) {
	args := m.Called(ctx, productID, priceType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProductPrice), args.Error(1)
}

func (m *MockProductPriceRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]catalog.ProductPrice, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]catalog.ProductPrice), args.Error(1)
}

func (m *MockProductPriceRepository) Save(ctx context.Context, price *catalog.ProductPrice) error {
	args := m.Called(ctx, price)
	return args.Error(0)
}

type stubPublisher struct {
	events []shared.DomainEvent
}

func (p *stubPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

type orderServiceMocks struct {
	carts    *MockCartRepository
	orders   *MockOrderRepository
	history  *MockOrderStatusHistoryRepository
	products *MockProductRepository
	prices   *MockProductPriceRepository
	events   *stubPublisher
}

func newOrderService(t *testing.T) (*OrderService, *orderServiceMocks) {
	t.Helper()
	m := &orderServiceMocks{
		carts:    new(MockCartRepository),
		orders:   new(MockOrderRepository),
		history:  new(MockOrderStatusHistoryRepository),
		products: new(MockProductRepository),
		prices:   new(MockProductPriceRepository),
		events:   &stubPublisher{},
	}
	service := NewOrderService(m.carts, m.orders, m.history, m.products, m.prices, m.events, zap.NewNop())
	return service, m
}

func testProduct(t *testing.T, name string) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct("SP-450W", name, "", uuid.New())
	require.NoError(t, err)
	return product
}

func testPrice(t *testing.T, productID uuid.UUID, mdl int64) *catalog.ProductPrice {
	t.Helper()
	price, err := catalog.NewProductPrice(
		productID, catalog.PriceTypeUser,
		decimal.NewFromInt(100), decimal.NewFromInt(mdl), decimal.NewFromFloat(17.65))
	require.NoError(t, err)
	return price
}

func TestOrderService_AddToCart(t *testing.T) {
	ctx := context.Background()
	clientID := uuid.New()

	t.Run("creates a cart on first use", func(t *testing.T) {
		service, m := newOrderService(t)
		product := testProduct(t, "Panou solar 450W")

		m.products.On("FindByID", ctx, product.ID).Return(product, nil)
		m.prices.On("FindByProductAndType", ctx, product.ID, catalog.PriceTypeUser).
			Return(testPrice(t, product.ID, 1765), nil)
		m.carts.On("FindOpenByClient", ctx, clientID).Return(nil, shared.ErrNotFound)
		m.carts.On("Save", ctx, mock.AnythingOfType("*sale.Cart")).Return(nil)

		resp, err := service.AddToCart(ctx, clientID, catalog.PriceTypeUser, AddToCartRequest{
			ProductID: product.ID,
			Quantity:  2,
		})

		require.NoError(t, err)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, 2, resp.Items[0].Quantity)
		assert.True(t, resp.TotalMDL.Equal(decimal.NewFromInt(3530)))
	})

	t.Run("product without a tier price fails", func(t *testing.T) {
		service, m := newOrderService(t)
		product := testProduct(t, "Panou solar 450W")

		m.products.On("FindByID", ctx, product.ID).Return(product, nil)
		m.prices.On("FindByProductAndType", ctx, product.ID, catalog.PriceTypePro).
			Return(nil, shared.ErrNotFound)

		_, err := service.AddToCart(ctx, clientID, catalog.PriceTypePro, AddToCartRequest{
			ProductID: product.ID,
			Quantity:  1,
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NO_PRICE", domainErr.Code)
		m.carts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestOrderService_Checkout(t *testing.T) {
	ctx := context.Background()
	clientID := uuid.New()

	t.Run("converts the open cart into a pending order", func(t *testing.T) {
		service, m := newOrderService(t)
		product := testProduct(t, "Panou solar 450W")

		cart, err := sale.NewCart(clientID)
		require.NoError(t, err)
		require.NoError(t, cart.AddItem(product.ID, 2, decimal.NewFromInt(1765)))

		m.carts.On("FindOpenByClient", ctx, clientID).Return(cart, nil)
		m.products.On("FindByID", ctx, product.ID).Return(product, nil)
		m.orders.On("NextSequence", ctx).Return(int64(42), nil)
		m.orders.On("Save", ctx, mock.AnythingOfType("*sale.Order")).Return(nil)
		m.carts.On("Save", ctx, cart).Return(nil)

		resp, err := service.Checkout(ctx, clientID, "livrare la Chisinau")

		require.NoError(t, err)
		assert.Equal(t, sale.OrderPending, resp.Status)
		assert.Contains(t, resp.Number, "-00042")
		assert.Equal(t, "livrare la Chisinau", resp.Comment)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, "Panou solar 450W", resp.Items[0].ProductName)
		assert.True(t, resp.TotalMDL.Equal(decimal.NewFromInt(3530)))
		assert.Equal(t, sale.CartCheckedOut, cart.Status)
		assert.NotEmpty(t, m.events.events)
	})

	t.Run("empty cart cannot be checked out", func(t *testing.T) {
		service, m := newOrderService(t)

		cart, err := sale.NewCart(clientID)
		require.NoError(t, err)

		m.carts.On("FindOpenByClient", ctx, clientID).Return(cart, nil)

		_, err = service.Checkout(ctx, clientID, "")
		assert.Error(t, err)
		m.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestOrderService_Transition(t *testing.T) {
	ctx := context.Background()

	newOrder := func(t *testing.T) *sale.Order {
		t.Helper()
		cart, err := sale.NewCart(uuid.New())
		require.NoError(t, err)
		productID := uuid.New()
		require.NoError(t, cart.AddItem(productID, 1, decimal.NewFromInt(1765)))
		require.NoError(t, cart.CheckOut())
		order, err := sale.NewOrderFromCart(cart, "ORD-20260829-00001",
			map[uuid.UUID]string{productID: "Panou solar 450W"})
		require.NoError(t, err)
		return order
	}

	t.Run("confirms a pending order", func(t *testing.T) {
		service, m := newOrderService(t)
		order := newOrder(t)

		m.orders.On("FindByID", ctx, order.ID).Return(order, nil)
		m.orders.On("Save", ctx, order).Return(nil)

		resp, err := service.Transition(ctx, order.ID, TransitionRequest{
			Status:  sale.OrderConfirmed,
			Comment: "confirmat telefonic",
		})

		require.NoError(t, err)
		assert.Equal(t, sale.OrderConfirmed, resp.Status)
		assert.Equal(t, "confirmat telefonic", resp.Comment)
	})

	t.Run("rejects a skipped status", func(t *testing.T) {
		service, m := newOrderService(t)
		order := newOrder(t)

		m.orders.On("FindByID", ctx, order.ID).Return(order, nil)

		_, err := service.Transition(ctx, order.ID, TransitionRequest{Status: sale.OrderDelivered})

		assert.Error(t, err)
		m.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("delivered is terminal", func(t *testing.T) {
		service, m := newOrderService(t)
		order := newOrder(t)
		require.NoError(t, order.TransitionTo(sale.OrderConfirmed))
		require.NoError(t, order.TransitionTo(sale.OrderShipped))
		require.NoError(t, order.TransitionTo(sale.OrderDelivered))

		m.orders.On("FindByID", ctx, order.ID).Return(order, nil)

		_, err := service.Transition(ctx, order.ID, TransitionRequest{Status: sale.OrderCancelled})
		assert.Error(t, err)
	})
}

func TestOrderService_StatusHistory(t *testing.T) {
	ctx := context.Background()
	orderID := uuid.New()

	service, m := newOrderService(t)

	row := sale.OrderStatusHistory{
		BaseEntity: shared.NewBaseEntity(),
		OrderID:    orderID,
		OldStatus:  sale.OrderPending,
		NewStatus:  sale.OrderConfirmed,
		ChangedBy:  uuid.New(),
		Comment:    "confirmat telefonic",
	}
	m.history.On("FindByOrder", ctx, orderID).Return([]sale.OrderStatusHistory{row}, nil)

	responses, err := service.StatusHistory(ctx, orderID)

	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Equal(t, sale.OrderPending, responses[0].OldStatus)
	assert.Equal(t, sale.OrderConfirmed, responses[0].NewStatus)
}
