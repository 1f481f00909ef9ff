package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/iamcal77/e-shop-backened/internal/cache"
	"github.com/iamcal77/e-shop-backened/internal/domain"
	"github.com/iamcal77/e-shop-backened/internal/repository"
)

// checkoutMaxAttempts bounds retries against serialization/deadlock
// failures; callers see ErrConcurrencyConflict once exhausted.
const checkoutMaxAttempts = 3

// CheckoutStore runs a function as one atomic unit of work.
type CheckoutStore interface {
	RunCheckout(ctx context.Context, fn func(u repository.CheckoutUnit) error) error
}

// LowStockNotifier is the fire-and-forget monitoring sink. It must never
// block or fail a checkout.
type LowStockNotifier interface {
	NotifyLowStock(ctx context.Context, alert domain.LowStockAlert)
}

type CheckoutRequest struct {
	CartID          int64
	GuestEmail      *string
	Line1           string
	City            string
	Country         string
	PaymentProvider string
	Currency        string
	WarehouseID     int64
}

type CheckoutResponse struct {
	OrderID  int64              `json:"order_id"`
	Status   domain.OrderStatus `json:"status"`
	Total    float64            `json:"total"`
	Currency string             `json:"currency"`
}

type CheckoutService struct {
	store    CheckoutStore
	notifier LowStockNotifier
	cache    cache.CartCache
}

func NewCheckoutService(store CheckoutStore, notifier LowStockNotifier, cartCache cache.CartCache) *CheckoutService {
	return &CheckoutService{
		store:    store,
		notifier: notifier,
		cache:    cartCache,
	}
}

// orderCreatedEvent is the outbox payload written alongside the order.
type orderCreatedEvent struct {
	OrderID    int64              `json:"order_id"`
	UserID     *int64             `json:"user_id,omitempty"`
	GuestEmail *string            `json:"guest_email,omitempty"`
	Total      float64            `json:"total"`
	Currency   string             `json:"currency"`
	Items      []domain.OrderItem `json:"items"`
	CreatedAt  time.Time          `json:"created_at"`
}

// Checkout converts a cart into an order in one transaction: validate
// the cart, freeze line prices, decrement stock, snapshot the address,
// record a pending payment and consume the cart. Either every effect
// lands or none does. Checkout is intentionally not idempotent: a replay
// finds the cart already deleted and fails with ErrEmptyOrMissingCart,
// so inventory can never be charged twice for the same cart.
func (s *CheckoutService) Checkout(ctx context.Context, req *CheckoutRequest) (*CheckoutResponse, error) {
	var (
		resp   *CheckoutResponse
		alerts []domain.LowStockAlert
	)

	var err error
	for attempt := 1; ; attempt++ {
		resp = nil
		alerts = alerts[:0]
		err = s.store.RunCheckout(ctx, func(u repository.CheckoutUnit) error {
			r, a, errRun := s.runCheckout(ctx, u, req)
			if errRun != nil {
				return errRun
			}
			resp = r
			alerts = a
			return nil
		})
		if err == nil || !repository.IsRetryable(err) {
			break
		}
		if attempt >= checkoutMaxAttempts {
			log.Printf("checkout retries exhausted for cart %d: %v", req.CartID, err)
			return nil, ErrConcurrencyConflict
		}
	}
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return nil, ErrEmptyOrMissingCart
		}
		return nil, err
	}

	// Low-stock alerts are emitted only after the commit: a rolled-back
	// checkout must not signal, and a slow sink must not hold the
	// transaction open.
	for _, alert := range alerts {
		go s.notifier.NotifyLowStock(context.Background(), alert)
	}

	s.invalidateCache(req.CartID)
	return resp, nil
}

func (s *CheckoutService) runCheckout(ctx context.Context, u repository.CheckoutUnit, req *CheckoutRequest) (*CheckoutResponse, []domain.LowStockAlert, error) {
	cart, err := u.CartWithLines(ctx, req.CartID)
	if err != nil {
		return nil, nil, err
	}
	if len(cart.Items) == 0 {
		return nil, nil, ErrEmptyOrMissingCart
	}

	guestEmail := cart.GuestEmail
	if guestEmail == nil {
		guestEmail = req.GuestEmail
	}

	order := &domain.Order{
		UserID:     cart.UserID,
		GuestEmail: guestEmail,
		Source:     domain.OrderSourceOnline,
		Status:     domain.OrderStatusCreated,
		Currency:   req.Currency,
	}
	orderID, err := u.CreateOrder(ctx, order)
	if err != nil {
		return nil, nil, err
	}

	var (
		total  float64
		alerts []domain.LowStockAlert
		items  []domain.OrderItem
	)
	for _, line := range cart.Items {
		price, err := u.VariantPrice(ctx, line.ProductVariantID)
		if err != nil {
			return nil, nil, err
		}

		item := domain.OrderItem{
			ProductVariantID: line.ProductVariantID,
			Quantity:         line.Quantity,
			Price:            price,
		}
		if err := u.AddOrderItem(ctx, orderID, item); err != nil {
			return nil, nil, err
		}
		items = append(items, item)
		total += price * float64(line.Quantity)

		rec, err := u.DecrementStock(ctx, line.ProductVariantID, req.WarehouseID, line.Quantity)
		if err != nil {
			return nil, nil, err
		}
		if rec.LowStock() {
			alerts = append(alerts, domain.LowStockAlert{
				ProductVariantID: rec.ProductVariantID,
				WarehouseID:      rec.WarehouseID,
				Quantity:         rec.Quantity,
				ReorderLevel:     rec.ReorderLevel,
			})
		}
	}

	if err := u.SetOrderTotal(ctx, orderID, total); err != nil {
		return nil, nil, err
	}

	if req.Line1 != "" || req.City != "" || req.Country != "" {
		addr := domain.OrderAddress{Line1: req.Line1, City: req.City, Country: req.Country}
		if err := u.AddOrderAddress(ctx, orderID, addr); err != nil {
			return nil, nil, err
		}
	}

	payment := &domain.Payment{
		OrderID:   orderID,
		Provider:  req.PaymentProvider,
		Reference: uuid.New().String(),
		Status:    domain.PaymentStatusPending,
		Amount:    total,
	}
	if err := u.AddPayment(ctx, payment); err != nil {
		return nil, nil, err
	}

	if err := u.DeleteCart(ctx, req.CartID); err != nil {
		return nil, nil, err
	}

	event := orderCreatedEvent{
		OrderID:    orderID,
		UserID:     order.UserID,
		GuestEmail: order.GuestEmail,
		Total:      total,
		Currency:   req.Currency,
		Items:      items,
		CreatedAt:  time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal order event: %w", err)
	}
	if err := u.AddOutboxEvent(ctx, strconv.FormatInt(orderID, 10), "order.created", payload); err != nil {
		return nil, nil, err
	}

	return &CheckoutResponse{
		OrderID:  orderID,
		Status:   order.Status,
		Total:    total,
		Currency: req.Currency,
	}, alerts, nil
}

func (s *CheckoutService) invalidateCache(cartID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, cartID); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}
