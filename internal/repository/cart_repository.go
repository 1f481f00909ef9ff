package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iamcal77/e-shop-backened/internal/domain"
)

// CreateGuestCart inserts an unowned cart and returns its id.
func (r *Repository) CreateGuestCart(ctx context.Context, guestEmail *string) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO carts (guest_email) VALUES ($1) RETURNING id`,
		guestEmail).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert cart: %w", err)
	}
	return id, nil
}

// UpsertCartItem adds a line or increments an existing one in a single
// atomic statement, then bumps the cart's activity timestamp and clears
// the abandonment flag. A separate existence-check followed by an insert
// would race under concurrent adds against the same cart.
func (r *Repository) UpsertCartItem(ctx context.Context, cartID, variantID int64, quantity int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE carts SET last_activity_at = NOW(), is_abandoned = FALSE WHERE id = $1`,
		cartID)
	if err != nil {
		return fmt.Errorf("touch cart: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCartNotFound
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO cart_items (cart_id, product_variant_id, quantity)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (cart_id, product_variant_id)
		 DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`,
		cartID, variantID, quantity)
	if err != nil {
		return fmt.Errorf("upsert cart item: %w", err)
	}

	return tx.Commit()
}

// UpdateCartItemQuantity sets an existing line's quantity outright.
func (r *Repository) UpdateCartItemQuantity(ctx context.Context, cartID, variantID int64, quantity int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE cart_items SET quantity = $3 WHERE cart_id = $1 AND product_variant_id = $2`,
		cartID, variantID, quantity)
	if err != nil {
		return fmt.Errorf("update cart item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCartItemNotFound
	}

	if err := touchCart(ctx, tx, cartID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *Repository) RemoveCartItem(ctx context.Context, cartID, variantID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM cart_items WHERE cart_id = $1 AND product_variant_id = $2`,
		cartID, variantID)
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCartItemNotFound
	}

	if err := touchCart(ctx, tx, cartID); err != nil {
		return err
	}
	return tx.Commit()
}

// ClearCart deletes all lines but keeps the cart row.
func (r *Repository) ClearCart(ctx context.Context, cartID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := touchCart(ctx, tx, cartID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return tx.Commit()
}

func (r *Repository) MarkCartAbandoned(ctx context.Context, cartID int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE carts SET is_abandoned = TRUE WHERE id = $1`, cartID)
	if err != nil {
		return fmt.Errorf("mark cart abandoned: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCartNotFound
	}
	return nil
}

// GetCartView loads a cart and projects each line through
// variant -> product in one query. A broken variant reference yields a
// defined-empty projection for that line instead of failing the read.
func (r *Repository) GetCartView(ctx context.Context, cartID int64) (*domain.CartView, error) {
	view := &domain.CartView{ID: cartID, Items: []domain.CartItemView{}}

	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, guest_email, is_abandoned FROM carts WHERE id = $1`,
		cartID).Scan(&view.UserID, &view.GuestEmail, &view.IsAbandoned)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query cart: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT ci.product_variant_id, ci.quantity,
		        COALESCE(v.sku, ''), COALESCE(v.price, 0),
		        COALESCE(p.name, ''), COALESCE(p.description, ''), COALESCE(p.image_url, '')
		 FROM cart_items ci
		 LEFT JOIN product_variants v ON v.id = ci.product_variant_id
		 LEFT JOIN products p ON p.id = v.product_id
		 WHERE ci.cart_id = $1
		 ORDER BY ci.id`,
		cartID)
	if err != nil {
		return nil, fmt.Errorf("query cart items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it domain.CartItemView
		if err := rows.Scan(&it.ProductVariantID, &it.Quantity,
			&it.SKU, &it.Price, &it.Name, &it.Description, &it.ImageURL); err != nil {
			return nil, fmt.Errorf("scan cart item row: %w", err)
		}
		view.Items = append(view.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return view, nil
}

func touchCart(ctx context.Context, tx *sql.Tx, cartID int64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE carts SET last_activity_at = NOW(), is_abandoned = FALSE WHERE id = $1`,
		cartID)
	if err != nil {
		return fmt.Errorf("touch cart: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCartNotFound
	}
	return nil
}
