package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/iamcal77/e-shop-backened/internal/auth"
	"github.com/iamcal77/e-shop-backened/internal/domain"
	"github.com/iamcal77/e-shop-backened/pkg/metrics"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Cart      *CartHandler
	Checkout  *CheckoutHandler
	Inventory *InventoryHandler
	POS       *POSHandler
	Orders    *OrdersHandler
	Catalog   *CatalogHandler
	Pricing   *PricingHandler
	Auth      *AuthHandler
}

// NewRouter assembles the HTTP surface of the service.
func NewRouter(h Handlers, authenticator *auth.Authenticator, m *metrics.ServerMetrics) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Logger)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.Compress(5))
	r.Use(MetricsMiddleware(m))
	r.Use(AuthMiddleware(authenticator))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Auth.Register)
		r.Post("/login", h.Auth.Login)
	})

	r.Route("/cart", func(r chi.Router) {
		r.Post("/items", h.Cart.AddItem)
		r.Get("/items", h.Cart.GetCart)
		r.Put("/items/{variant_id}", h.Cart.UpdateQuantity)
		r.Delete("/items/{variant_id}", h.Cart.RemoveItem)
		r.Delete("/items", h.Cart.ClearCart)
		r.Post("/abandon", h.Cart.MarkAbandoned)
		r.Post("/checkout", h.Checkout.Checkout)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Get("/", h.Orders.ListByUser)
		r.Get("/{order_id}", h.Orders.GetOrder)
	})

	r.Route("/inventory", func(r chi.Router) {
		r.With(RequireRole(domain.RoleAdmin)).Post("/adjust", h.Inventory.Adjust)
		r.Get("/", h.Inventory.Report)
		r.Get("/stock", h.Inventory.GetStock)
	})

	r.Route("/pos", func(r chi.Router) {
		r.With(RequireRole(domain.RoleCashier, domain.RoleAdmin)).Post("/sell", h.POS.Sell)
		r.Get("/", h.POS.Sales)
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.Catalog.ListProducts)
		r.With(RequireRole(domain.RoleAdmin)).Post("/", h.Catalog.CreateProduct)
		r.With(RequireRole(domain.RoleAdmin)).Post("/{product_id}/variants", h.Catalog.CreateVariant)
	})

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.Catalog.ListCategories)
		r.With(RequireRole(domain.RoleAdmin)).Post("/", h.Catalog.CreateCategory)
	})

	r.Route("/warehouses", func(r chi.Router) {
		r.Get("/", h.Catalog.ListWarehouses)
		r.With(RequireRole(domain.RoleAdmin)).Post("/", h.Catalog.CreateWarehouse)
	})

	r.Route("/pricing", func(r chi.Router) {
		r.Get("/discounts", h.Pricing.ListDiscounts)
		r.Get("/coupons", h.Pricing.ListCoupons)
		r.Get("/price-rules", h.Pricing.ListPriceRules)
		r.Get("/tax-rules", h.Pricing.ListTaxRules)

		r.Group(func(r chi.Router) {
			r.Use(RequireRole(domain.RoleAdmin))
			r.Post("/discounts", h.Pricing.CreateDiscount)
			r.Post("/coupons", h.Pricing.CreateCoupon)
			r.Post("/price-rules", h.Pricing.CreatePriceRule)
			r.Post("/tax-rules", h.Pricing.CreateTaxRule)
		})
	})

	return r
}
