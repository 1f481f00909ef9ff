package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamcal77/e-shop-backened/internal/domain"
)

func TestSell_CreatesPaidPOSOrder(t *testing.T) {
	repo := &mockPOSStore{}
	svc := NewPOSService(repo)

	items := []POSItem{
		{ProductVariantID: 10, Quantity: 2, Price: 100.00},
		{ProductVariantID: 20, Quantity: 1, Price: 49.50},
	}
	order, err := svc.Sell(context.Background(), nil, items, "KES")

	require.NoError(t, err)
	assert.Equal(t, domain.OrderSourcePOS, order.Source)
	assert.Equal(t, domain.OrderStatusPaid, order.Status)
	assert.InDelta(t, 249.50, order.Total, 0.0001)
	assert.Equal(t, "KES", order.Currency)
	require.Len(t, order.Items, 2)

	require.NotNil(t, repo.Created)
	assert.Equal(t, int64(7), repo.Created.ID)
}

func TestSell_CashierAttached(t *testing.T) {
	repo := &mockPOSStore{}
	svc := NewPOSService(repo)

	cashierID := int64(3)
	order, err := svc.Sell(context.Background(), &cashierID, []POSItem{{ProductVariantID: 10, Quantity: 1, Price: 10}}, "KES")

	require.NoError(t, err)
	require.NotNil(t, order.UserID)
	assert.Equal(t, cashierID, *order.UserID)
}

func TestSell_RepositoryErrorPropagates(t *testing.T) {
	boom := errors.New("insert failed")
	repo := &mockPOSStore{Err: boom}
	svc := NewPOSService(repo)

	order, err := svc.Sell(context.Background(), nil, []POSItem{{ProductVariantID: 10, Quantity: 1, Price: 10}}, "KES")

	assert.ErrorIs(t, err, boom)
	assert.Nil(t, order)
}

func TestSales_ListsPOSOrders(t *testing.T) {
	repo := &mockPOSStore{
		Orders: []*domain.Order{
			{ID: 1, Source: domain.OrderSourcePOS, Status: domain.OrderStatusPaid, Total: 100},
		},
	}
	svc := NewPOSService(repo)

	orders, err := svc.Sales(context.Background())

	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, domain.OrderSourcePOS, orders[0].Source)
}
