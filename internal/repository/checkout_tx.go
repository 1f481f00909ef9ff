package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/iamcal77/e-shop-backened/internal/domain"
)

// CheckoutUnit is the unit of work the checkout orchestrator runs against.
// Every method executes inside the single transaction opened by
// RunCheckout; any error aborts and rolls back the whole unit.
type CheckoutUnit interface {
	// CartWithLines loads the cart row plus its lines in insertion order,
	// locking the cart row so a concurrent checkout of the same cart
	// serializes behind this one.
	CartWithLines(ctx context.Context, cartID int64) (*domain.Cart, error)
	// VariantPrice resolves the variant's current catalog price.
	VariantPrice(ctx context.Context, variantID int64) (float64, error)
	// CreateOrder inserts the order shell and returns its id so item rows
	// can reference it before the transaction commits.
	CreateOrder(ctx context.Context, order *domain.Order) (int64, error)
	AddOrderItem(ctx context.Context, orderID int64, item domain.OrderItem) error
	// DecrementStock performs the atomic check-and-decrement. It returns
	// an InsufficientStockError when the record is absent or would go
	// negative, without touching the row.
	DecrementStock(ctx context.Context, variantID, warehouseID int64, quantity int) (domain.InventoryRecord, error)
	SetOrderTotal(ctx context.Context, orderID int64, total float64) error
	AddOrderAddress(ctx context.Context, orderID int64, addr domain.OrderAddress) error
	AddPayment(ctx context.Context, payment *domain.Payment) error
	// DeleteCart removes the cart; its lines go with it via FK cascade.
	DeleteCart(ctx context.Context, cartID int64) error
	AddOutboxEvent(ctx context.Context, aggregateID, eventType string, payload []byte) error
}

// CheckoutTx implements CheckoutUnit over one *sql.Tx.
type CheckoutTx struct {
	tx *sql.Tx
}

// RunCheckout opens a transaction, hands it to fn as a CheckoutUnit and
// commits only if fn succeeds. Any error from fn (or the commit) leaves
// the store exactly as it was before the call.
func (r *Repository) RunCheckout(ctx context.Context, fn func(u CheckoutUnit) error) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin checkout tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&CheckoutTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit checkout tx: %w", err)
	}
	return nil
}

func (t *CheckoutTx) CartWithLines(ctx context.Context, cartID int64) (*domain.Cart, error) {
	cart := &domain.Cart{ID: cartID, Items: []domain.CartItem{}}

	err := t.tx.QueryRowContext(ctx,
		`SELECT user_id, guest_email, is_abandoned, last_activity_at, created_at
		 FROM carts WHERE id = $1 FOR UPDATE`,
		cartID).Scan(&cart.UserID, &cart.GuestEmail, &cart.IsAbandoned,
		&cart.LastActivityAt, &cart.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query cart for checkout: %w", err)
	}

	rows, err := t.tx.QueryContext(ctx,
		`SELECT id, product_variant_id, quantity FROM cart_items
		 WHERE cart_id = $1 ORDER BY id`,
		cartID)
	if err != nil {
		return nil, fmt.Errorf("query cart lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(&item.ID, &item.ProductVariantID, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		cart.Items = append(cart.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return cart, nil
}

func (t *CheckoutTx) VariantPrice(ctx context.Context, variantID int64) (float64, error) {
	var price float64
	err := t.tx.QueryRowContext(ctx,
		`SELECT price FROM product_variants WHERE id = $1`, variantID).Scan(&price)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrVariantNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("query variant price: %w", err)
	}
	return price, nil
}

func (t *CheckoutTx) CreateOrder(ctx context.Context, order *domain.Order) (int64, error) {
	var id int64
	err := t.tx.QueryRowContext(ctx,
		`INSERT INTO orders (user_id, guest_email, source, status, currency)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		order.UserID, order.GuestEmail, order.Source, order.Status, order.Currency).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert order: %w", err)
	}
	order.ID = id
	return id, nil
}

func (t *CheckoutTx) AddOrderItem(ctx context.Context, orderID int64, item domain.OrderItem) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO order_items (order_id, product_variant_id, quantity, price)
		 VALUES ($1, $2, $3, $4)`,
		orderID, item.ProductVariantID, item.Quantity, item.Price)
	if err != nil {
		return fmt.Errorf("insert order item: %w", err)
	}
	return nil
}

func (t *CheckoutTx) DecrementStock(ctx context.Context, variantID, warehouseID int64, quantity int) (domain.InventoryRecord, error) {
	rec := domain.InventoryRecord{
		ProductVariantID: variantID,
		WarehouseID:      warehouseID,
	}
	// The quantity >= $3 predicate makes the check and the decrement one
	// row-locked statement; two concurrent checkouts cannot both pass the
	// check and drive the count negative.
	err := t.tx.QueryRowContext(ctx,
		`UPDATE inventory SET quantity = quantity - $3
		 WHERE product_variant_id = $1 AND warehouse_id = $2 AND quantity >= $3
		 RETURNING id, quantity, reorder_level`,
		variantID, warehouseID, quantity).Scan(&rec.ID, &rec.Quantity, &rec.ReorderLevel)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, &InsufficientStockError{ProductVariantID: variantID}
	}
	if err != nil {
		return rec, fmt.Errorf("decrement stock: %w", err)
	}
	return rec, nil
}

func (t *CheckoutTx) SetOrderTotal(ctx context.Context, orderID int64, total float64) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE orders SET total = $2 WHERE id = $1`, orderID, total)
	if err != nil {
		return fmt.Errorf("set order total: %w", err)
	}
	return nil
}

func (t *CheckoutTx) AddOrderAddress(ctx context.Context, orderID int64, addr domain.OrderAddress) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO order_addresses (order_id, line1, city, country)
		 VALUES ($1, $2, $3, $4)`,
		orderID, addr.Line1, addr.City, addr.Country)
	if err != nil {
		return fmt.Errorf("insert order address: %w", err)
	}
	return nil
}

func (t *CheckoutTx) AddPayment(ctx context.Context, payment *domain.Payment) error {
	err := t.tx.QueryRowContext(ctx,
		`INSERT INTO payments (order_id, provider, reference, status, amount)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`,
		payment.OrderID, payment.Provider, payment.Reference, payment.Status,
		payment.Amount).Scan(&payment.ID, &payment.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (t *CheckoutTx) DeleteCart(ctx context.Context, cartID int64) error {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM carts WHERE id = $1`, cartID)
	if err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCartNotFound
	}
	return nil
}

func (t *CheckoutTx) AddOutboxEvent(ctx context.Context, aggregateID, eventType string, payload []byte) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO outbox_events (id, aggregate_id, event_type, payload, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		uuid.New(), aggregateID, eventType, payload, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("insert outbox event: %w", err)
	}
	return nil
}
