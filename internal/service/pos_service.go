package service

import (
	"context"

	"github.com/iamcal77/e-shop-backened/internal/domain"
)

// POSStore is the persistence surface for point-of-sale orders.
type POSStore interface {
	CreatePOSOrder(ctx context.Context, order *domain.Order) error
	ListOrdersBySource(ctx context.Context, source domain.OrderSource) ([]*domain.Order, error)
}

// POSItem is a counter sale line. The price comes from the cashier's
// terminal, not the catalog.
type POSItem struct {
	ProductVariantID int64   `json:"product_variant_id"`
	Quantity         int     `json:"quantity"`
	Price            float64 `json:"price"`
}

type POSService struct {
	repo POSStore
}

func NewPOSService(repo POSStore) *POSService {
	return &POSService{repo: repo}
}

// Sell records a counter sale: an order born PAID with source POS, its
// total computed from the given lines, all in one transaction.
func (s *POSService) Sell(ctx context.Context, cashierID *int64, items []POSItem, currency string) (*domain.Order, error) {
	var total float64
	orderItems := make([]domain.OrderItem, 0, len(items))
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
		orderItems = append(orderItems, domain.OrderItem{
			ProductVariantID: it.ProductVariantID,
			Quantity:         it.Quantity,
			Price:            it.Price,
		})
	}

	order := &domain.Order{
		UserID:   cashierID,
		Source:   domain.OrderSourcePOS,
		Status:   domain.OrderStatusPaid,
		Total:    total,
		Currency: currency,
		Items:    orderItems,
	}
	if err := s.repo.CreatePOSOrder(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Sales lists recorded POS orders, newest first.
func (s *POSService) Sales(ctx context.Context) ([]*domain.Order, error) {
	return s.repo.ListOrdersBySource(ctx, domain.OrderSourcePOS)
}
