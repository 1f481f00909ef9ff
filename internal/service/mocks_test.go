package service

import (
	"context"
	"sync"

	"github.com/iamcal77/e-shop-backened/internal/cache"
	"github.com/iamcal77/e-shop-backened/internal/domain"
	"github.com/iamcal77/e-shop-backened/internal/repository"
)

// fakeCheckoutUnit implements repository.CheckoutUnit in memory so the
// orchestration can be tested without a database.
type fakeCheckoutUnit struct {
	Cart    *domain.Cart
	CartErr error
	Prices  map[int64]float64
	Stock   map[int64]domain.InventoryRecord // keyed by variant id

	CreatedOrder *domain.Order
	OrderItems   []domain.OrderItem
	Total        float64
	TotalSet     bool
	Address      *domain.OrderAddress
	Payment      *domain.Payment
	CartDeleted  bool
	OutboxTypes  []string
}

func (f *fakeCheckoutUnit) CartWithLines(_ context.Context, _ int64) (*domain.Cart, error) {
	if f.CartErr != nil {
		return nil, f.CartErr
	}
	return f.Cart, nil
}

func (f *fakeCheckoutUnit) VariantPrice(_ context.Context, variantID int64) (float64, error) {
	price, ok := f.Prices[variantID]
	if !ok {
		return 0, repository.ErrVariantNotFound
	}
	return price, nil
}

func (f *fakeCheckoutUnit) CreateOrder(_ context.Context, order *domain.Order) (int64, error) {
	order.ID = 42
	f.CreatedOrder = order
	return order.ID, nil
}

func (f *fakeCheckoutUnit) AddOrderItem(_ context.Context, _ int64, item domain.OrderItem) error {
	f.OrderItems = append(f.OrderItems, item)
	return nil
}

func (f *fakeCheckoutUnit) DecrementStock(_ context.Context, variantID, warehouseID int64, quantity int) (domain.InventoryRecord, error) {
	rec, ok := f.Stock[variantID]
	if !ok || rec.Quantity < quantity {
		return domain.InventoryRecord{ProductVariantID: variantID, WarehouseID: warehouseID},
			&repository.InsufficientStockError{ProductVariantID: variantID}
	}
	rec.Quantity -= quantity
	f.Stock[variantID] = rec
	return rec, nil
}

func (f *fakeCheckoutUnit) SetOrderTotal(_ context.Context, _ int64, total float64) error {
	f.Total = total
	f.TotalSet = true
	return nil
}

func (f *fakeCheckoutUnit) AddOrderAddress(_ context.Context, _ int64, addr domain.OrderAddress) error {
	f.Address = &addr
	return nil
}

func (f *fakeCheckoutUnit) AddPayment(_ context.Context, payment *domain.Payment) error {
	f.Payment = payment
	return nil
}

func (f *fakeCheckoutUnit) DeleteCart(_ context.Context, _ int64) error {
	f.CartDeleted = true
	return nil
}

func (f *fakeCheckoutUnit) AddOutboxEvent(_ context.Context, _ string, eventType string, _ []byte) error {
	f.OutboxTypes = append(f.OutboxTypes, eventType)
	return nil
}

// fakeCheckoutStore hands the fake unit to the checkout callback. Errors
// queued in BeginErrs are returned one per call before fn runs, which
// simulates transactions failing at commit time.
type fakeCheckoutStore struct {
	Unit      *fakeCheckoutUnit
	BeginErrs []error
	Calls     int
	Commits   int
}

func (s *fakeCheckoutStore) RunCheckout(_ context.Context, fn func(u repository.CheckoutUnit) error) error {
	s.Calls++
	if len(s.BeginErrs) > 0 {
		err := s.BeginErrs[0]
		s.BeginErrs = s.BeginErrs[1:]
		if err != nil {
			return err
		}
	}
	if err := fn(s.Unit); err != nil {
		return err
	}
	s.Commits++
	return nil
}

// chanNotifier delivers alerts on a channel so tests can wait for the
// fire-and-forget goroutine.
type chanNotifier struct {
	Alerts chan domain.LowStockAlert
}

func newChanNotifier() *chanNotifier {
	return &chanNotifier{Alerts: make(chan domain.LowStockAlert, 10)}
}

func (n *chanNotifier) NotifyLowStock(_ context.Context, alert domain.LowStockAlert) {
	n.Alerts <- alert
}

// mockCache is an in-memory CartCache that records invalidations.
type mockCache struct {
	mu      sync.Mutex
	views   map[int64]*domain.CartView
	GetErr  error
	Deleted []int64
}

func newMockCache() *mockCache {
	return &mockCache{views: map[int64]*domain.CartView{}}
}

func (c *mockCache) Get(_ context.Context, cartID int64) (*domain.CartView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.GetErr != nil {
		return nil, c.GetErr
	}
	view, ok := c.views[cartID]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return view, nil
}

func (c *mockCache) Set(_ context.Context, cartID int64, view *domain.CartView) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.views[cartID] = view
	return nil
}

func (c *mockCache) Delete(_ context.Context, cartID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.views, cartID)
	c.Deleted = append(c.Deleted, cartID)
	return nil
}

func (c *mockCache) DeletedIDs() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]int64, len(c.Deleted))
	copy(out, c.Deleted)
	return out
}

// mockCartStore implements CartStore with canned views.
type mockCartStore struct {
	NextCartID  int64
	CreateErr   error
	UpsertErr   error
	View        *domain.CartView
	ViewErr     error
	ViewCalls   int
	UpsertCalls []struct {
		CartID    int64
		VariantID int64
		Quantity  int
	}
	UpdatedQuantity *int
	Removed         bool
	Cleared         bool
	Abandoned       bool
}

func (m *mockCartStore) CreateGuestCart(_ context.Context, _ *string) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	return m.NextCartID, nil
}

func (m *mockCartStore) UpsertCartItem(_ context.Context, cartID, variantID int64, quantity int) error {
	m.UpsertCalls = append(m.UpsertCalls, struct {
		CartID    int64
		VariantID int64
		Quantity  int
	}{cartID, variantID, quantity})
	return m.UpsertErr
}

func (m *mockCartStore) UpdateCartItemQuantity(_ context.Context, _, _ int64, quantity int) error {
	m.UpdatedQuantity = &quantity
	return nil
}

func (m *mockCartStore) RemoveCartItem(_ context.Context, _, _ int64) error {
	m.Removed = true
	return nil
}

func (m *mockCartStore) ClearCart(_ context.Context, _ int64) error {
	m.Cleared = true
	return nil
}

func (m *mockCartStore) MarkCartAbandoned(_ context.Context, _ int64) error {
	m.Abandoned = true
	return nil
}

func (m *mockCartStore) GetCartView(_ context.Context, _ int64) (*domain.CartView, error) {
	m.ViewCalls++
	if m.ViewErr != nil {
		return nil, m.ViewErr
	}
	return m.View, nil
}

// mockInventoryStore implements InventoryStore.
type mockInventoryStore struct {
	Rec    domain.InventoryRecord
	Err    error
	Report []domain.StockReportRow
}

func (m *mockInventoryStore) AdjustStock(_ context.Context, _, _ int64, _ int, _ *int) (domain.InventoryRecord, error) {
	return m.Rec, m.Err
}

func (m *mockInventoryStore) GetStock(_ context.Context, _, _ int64) (domain.InventoryRecord, error) {
	return m.Rec, m.Err
}

func (m *mockInventoryStore) StockReport(_ context.Context) ([]domain.StockReportRow, error) {
	return m.Report, m.Err
}

// mockPOSStore implements POSStore and captures the created order.
type mockPOSStore struct {
	Created *domain.Order
	Err     error
	Orders  []*domain.Order
}

func (m *mockPOSStore) CreatePOSOrder(_ context.Context, order *domain.Order) error {
	if m.Err != nil {
		return m.Err
	}
	order.ID = 7
	m.Created = order
	return nil
}

func (m *mockPOSStore) ListOrdersBySource(_ context.Context, _ domain.OrderSource) ([]*domain.Order, error) {
	return m.Orders, m.Err
}
