package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iamcal77/e-shop-backened/internal/domain"
)

// GetOrder loads an order with its items, payment and address snapshot.
func (r *Repository) GetOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	order := &domain.Order{ID: orderID}

	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, guest_email, source, status, total, shipping_cost, currency, created_at
		 FROM orders WHERE id = $1`,
		orderID).Scan(&order.UserID, &order.GuestEmail, &order.Source, &order.Status,
		&order.Total, &order.ShippingCost, &order.Currency, &order.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, product_variant_id, quantity, price FROM order_items
		 WHERE order_id = $1 ORDER BY id`,
		orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.ProductVariantID, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	var payment domain.Payment
	err = r.db.QueryRowContext(ctx,
		`SELECT id, order_id, provider, reference, status, amount, created_at
		 FROM payments WHERE order_id = $1`,
		orderID).Scan(&payment.ID, &payment.OrderID, &payment.Provider,
		&payment.Reference, &payment.Status, &payment.Amount, &payment.CreatedAt)
	if err == nil {
		order.Payment = &payment
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("query payment: %w", err)
	}

	var addr domain.OrderAddress
	err = r.db.QueryRowContext(ctx,
		`SELECT line1, city, country FROM order_addresses WHERE order_id = $1`,
		orderID).Scan(&addr.Line1, &addr.City, &addr.Country)
	if err == nil {
		order.Address = &addr
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("query order address: %w", err)
	}

	return order, nil
}

// ListOrdersBySource returns order summaries filtered by source tag,
// newest first. Used by the POS sales listing.
func (r *Repository) ListOrdersBySource(ctx context.Context, source domain.OrderSource) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, guest_email, source, status, total, shipping_cost, currency, created_at
		 FROM orders WHERE source = $1 ORDER BY created_at DESC`,
		source)
	if err != nil {
		return nil, fmt.Errorf("query orders by source: %w", err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

// ListOrdersByUser returns a customer's order summaries, newest first.
func (r *Repository) ListOrdersByUser(ctx context.Context, userID int64) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, guest_email, source, status, total, shipping_cost, currency, created_at
		 FROM orders WHERE user_id = $1 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("query orders by user: %w", err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

// CreatePOSOrder writes a point-of-sale order and its items in one
// transaction. POS orders are settled at the counter, so they are born
// PAID and the line prices come from the cashier's terminal.
func (r *Repository) CreatePOSOrder(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO orders (user_id, source, status, total, currency)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`,
		order.UserID, order.Source, order.Status, order.Total, order.Currency).
		Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert pos order: %w", err)
	}

	for i := range order.Items {
		err = tx.QueryRowContext(ctx,
			`INSERT INTO order_items (order_id, product_variant_id, quantity, price)
			 VALUES ($1, $2, $3, $4) RETURNING id`,
			order.ID, order.Items[i].ProductVariantID, order.Items[i].Quantity,
			order.Items[i].Price).Scan(&order.Items[i].ID)
		if err != nil {
			return fmt.Errorf("insert pos order item: %w", err)
		}
	}

	return tx.Commit()
}

func scanOrders(rows *sql.Rows) ([]*domain.Order, error) {
	var orders []*domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(&order.ID, &order.UserID, &order.GuestEmail, &order.Source,
			&order.Status, &order.Total, &order.ShippingCost, &order.Currency,
			&order.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, &order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return orders, nil
}
