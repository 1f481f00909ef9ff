package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamcal77/e-shop-backened/internal/cache"
	"github.com/iamcal77/e-shop-backened/internal/domain"
	"github.com/iamcal77/e-shop-backened/internal/repository"
	"github.com/iamcal77/e-shop-backened/internal/service"
)

type stubCartStore struct {
	NextCartID int64
	View       *domain.CartView
	ViewErr    error
	UpsertErr  error
}

func (s *stubCartStore) CreateGuestCart(_ context.Context, _ *string) (int64, error) {
	return s.NextCartID, nil
}

func (s *stubCartStore) UpsertCartItem(_ context.Context, _, _ int64, _ int) error {
	return s.UpsertErr
}

func (s *stubCartStore) UpdateCartItemQuantity(_ context.Context, _, _ int64, _ int) error {
	return nil
}

func (s *stubCartStore) RemoveCartItem(_ context.Context, _, _ int64) error { return nil }
func (s *stubCartStore) ClearCart(_ context.Context, _ int64) error         { return nil }
func (s *stubCartStore) MarkCartAbandoned(_ context.Context, _ int64) error { return nil }

func (s *stubCartStore) GetCartView(_ context.Context, _ int64) (*domain.CartView, error) {
	if s.ViewErr != nil {
		return nil, s.ViewErr
	}
	return s.View, nil
}

type noopCache struct{}

func (noopCache) Get(_ context.Context, _ int64) (*domain.CartView, error) {
	return nil, cache.ErrCacheMiss
}
func (noopCache) Set(_ context.Context, _ int64, _ *domain.CartView) error { return nil }
func (noopCache) Delete(_ context.Context, _ int64) error                  { return nil }

func cartRouter(store *stubCartStore) http.Handler {
	h := NewCartHandler(service.NewCartService(store, noopCache{}))
	r := chi.NewRouter()
	r.Post("/cart/items", h.AddItem)
	r.Get("/cart/items", h.GetCart)
	r.Put("/cart/items/{variant_id}", h.UpdateQuantity)
	r.Delete("/cart/items/{variant_id}", h.RemoveItem)
	return r
}

func TestAddItem_CreatesGuestCart(t *testing.T) {
	store := &stubCartStore{
		NextCartID: 7,
		View:       &domain.CartView{ID: 7, Items: []domain.CartItemView{{ProductVariantID: 10, Quantity: 2}}},
	}
	router := cartRouter(store)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/cart/items",
		strings.NewReader(`{"variant_id":10,"quantity":2}`))
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var view domain.CartView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, int64(7), view.ID)
}

func TestAddItem_RejectsBadQuantity(t *testing.T) {
	router := cartRouter(&stubCartStore{})

	for _, body := range []string{
		`{"variant_id":10,"quantity":0}`,
		`{"variant_id":10,"quantity":100}`,
		`{"variant_id":0,"quantity":1}`,
	} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(body))
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
	}
}

func TestAddItem_MissingCart(t *testing.T) {
	store := &stubCartStore{UpsertErr: repository.ErrCartNotFound}
	router := cartRouter(store)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/cart/items?cart_id=99",
		strings.NewReader(`{"variant_id":10,"quantity":1}`))
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetCart_RequiresCartID(t *testing.T) {
	router := cartRouter(&stubCartStore{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/cart/items", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetCart_Success(t *testing.T) {
	store := &stubCartStore{View: &domain.CartView{ID: 5}}
	router := cartRouter(store)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/cart/items?cart_id=5", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateQuantity_BadVariantParam(t *testing.T) {
	router := cartRouter(&stubCartStore{View: &domain.CartView{ID: 5}})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/cart/items/abc?cart_id=5",
		strings.NewReader(`{"quantity":3}`))
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateQuantity_Success(t *testing.T) {
	store := &stubCartStore{View: &domain.CartView{ID: 5, Items: []domain.CartItemView{{ProductVariantID: 10, Quantity: 3}}}}
	router := cartRouter(store)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/cart/items/10?cart_id=5",
		strings.NewReader(`{"quantity":3}`))
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}
