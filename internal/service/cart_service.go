package service

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/iamcal77/e-shop-backened/internal/cache"
	"github.com/iamcal77/e-shop-backened/internal/domain"
	"golang.org/x/sync/singleflight"
)

// CartStore is the persistence surface the cart aggregate needs.
type CartStore interface {
	CreateGuestCart(ctx context.Context, guestEmail *string) (int64, error)
	UpsertCartItem(ctx context.Context, cartID, variantID int64, quantity int) error
	UpdateCartItemQuantity(ctx context.Context, cartID, variantID int64, quantity int) error
	RemoveCartItem(ctx context.Context, cartID, variantID int64) error
	ClearCart(ctx context.Context, cartID int64) error
	MarkCartAbandoned(ctx context.Context, cartID int64) error
	GetCartView(ctx context.Context, cartID int64) (*domain.CartView, error)
}

type CartService struct {
	repo  CartStore
	cache cache.CartCache
	sfg   singleflight.Group // Prevents cache stampede
}

func NewCartService(repo CartStore, cache cache.CartCache) *CartService {
	return &CartService{
		repo:  repo,
		cache: cache,
	}
}

// AddItem adds a line or increments an existing one. A nil cartID means
// no cart exists yet: a guest cart is created first. The full cart view
// is returned so the client can render the result without a second call.
func (s *CartService) AddItem(ctx context.Context, cartID *int64, variantID int64, quantity int) (*domain.CartView, error) {
	id, err := s.resolveCartID(ctx, cartID)
	if err != nil {
		return nil, err
	}

	if errAdd := s.repo.UpsertCartItem(ctx, id, variantID, quantity); errAdd != nil {
		return nil, errAdd
	}

	s.invalidateCache(id)
	return s.repo.GetCartView(ctx, id)
}

// GetCart returns the denormalized cart view, reading through the cache.
// Cache errors are logged and degrade to the repository.
func (s *CartService) GetCart(ctx context.Context, cartID int64) (*domain.CartView, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(strconv.FormatInt(cartID, 10), func() (interface{}, error) {
		view, err := s.cache.Get(ctx, cartID)
		if err == nil {
			return view, nil // cart is in cache
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v", err) // log cache error but continue
		}

		view, errGet := s.repo.GetCartView(ctx, cartID)
		if errGet != nil {
			return nil, errGet
		}

		go func() {
			if errSet := s.cache.Set(context.Background(), cartID, view); errSet != nil {
				log.Printf("cache set error: %v", errSet)
			}
		}()

		return view, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*domain.CartView), nil
}

// UpdateQuantity sets an existing line's quantity outright.
func (s *CartService) UpdateQuantity(ctx context.Context, cartID, variantID int64, quantity int) (*domain.CartView, error) {
	if err := s.repo.UpdateCartItemQuantity(ctx, cartID, variantID, quantity); err != nil {
		return nil, err
	}
	s.invalidateCache(cartID)
	return s.repo.GetCartView(ctx, cartID)
}

func (s *CartService) RemoveItem(ctx context.Context, cartID, variantID int64) (*domain.CartView, error) {
	if err := s.repo.RemoveCartItem(ctx, cartID, variantID); err != nil {
		return nil, err
	}
	s.invalidateCache(cartID)
	return s.repo.GetCartView(ctx, cartID)
}

// ClearCart deletes all lines, leaving an empty cart behind.
func (s *CartService) ClearCart(ctx context.Context, cartID int64) (*domain.CartView, error) {
	if err := s.repo.ClearCart(ctx, cartID); err != nil {
		return nil, err
	}
	s.invalidateCache(cartID)
	return s.repo.GetCartView(ctx, cartID)
}

// MarkAbandoned flags the cart for the idle-cart sweeper without
// touching its lines.
func (s *CartService) MarkAbandoned(ctx context.Context, cartID int64) error {
	if err := s.repo.MarkCartAbandoned(ctx, cartID); err != nil {
		return err
	}
	s.invalidateCache(cartID)
	return nil
}

func (s *CartService) resolveCartID(ctx context.Context, cartID *int64) (int64, error) {
	if cartID != nil {
		return *cartID, nil
	}
	return s.repo.CreateGuestCart(ctx, nil)
}

func (s *CartService) invalidateCache(cartID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, cartID); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}
