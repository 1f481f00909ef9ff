package cache

import (
	"context"
	"errors"

	"github.com/iamcal77/e-shop-backened/internal/domain"
)

var ErrCacheMiss = errors.New("cache miss")

// CartCache holds read-side cart projections. Failures here are never
// fatal; the service falls back to the repository.
type CartCache interface {
	Get(ctx context.Context, cartID int64) (*domain.CartView, error)
	Set(ctx context.Context, cartID int64, view *domain.CartView) error
	Delete(ctx context.Context, cartID int64) error
}
