package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	carthttp "github.com/Abobakr505/Skandr-Shop/internal/cart/handler/http"
	cataloghttp "github.com/Abobakr505/Skandr-Shop/internal/catalog/handler/http"
	contacthttp "github.com/Abobakr505/Skandr-Shop/internal/contact/handler/http"
	orderhttp "github.com/Abobakr505/Skandr-Shop/internal/order/handler/http"
	"github.com/Abobakr505/Skandr-Shop/pkg/health"
	"github.com/Abobakr505/Skandr-Shop/pkg/middleware"
)

const serviceName = "skandr-shop"

// routerDeps collects everything the router needs.
type routerDeps struct {
	catalog        *cataloghttp.CatalogHandler
	cart           *carthttp.CartHandler
	order          *orderhttp.OrderHandler
	contact        *contacthttp.ContactHandler
	health         *health.Handler
	logger         *slog.Logger
	cors           middleware.CORSConfig
	adminJWTSecret []byte
}

// newRouter creates a chi router with all storefront routes registered.
func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(d.logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.CORS(d.cors))
	r.Use(middleware.RequestLogging(d.logger))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.RequestLogger(d.logger))

	// Health check endpoints
	r.Get("/health/live", d.health.LivenessHandler())
	r.Get("/health/ready", d.health.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Public storefront endpoints
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", d.catalog.ListProducts)
		r.Get("/products/{id}", d.catalog.GetProduct)
		r.Get("/products/{id}/related", d.catalog.RelatedProducts)
		r.Get("/categories", d.catalog.ListCategories)

		r.Route("/cart", func(r chi.Router) {
			r.Use(carthttp.ContentTypeJSON)
			r.Use(carthttp.RequireSession)

			r.Get("/", d.cart.GetCart)
			r.Delete("/", d.cart.ClearCart)
			r.Post("/items", d.cart.AddItem)
			r.Put("/items/{productId}", d.cart.SetQuantity)
			r.Delete("/items/{productId}", d.cart.RemoveItem)
		})

		r.With(carthttp.ContentTypeJSON, carthttp.RequireSession).
			Post("/checkout", d.order.Checkout)

		r.With(carthttp.ContentTypeJSON).
			Post("/contact", d.contact.SubmitMessage)

		// Admin endpoints for order and inbox management
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(middleware.HS256Validator(d.adminJWTSecret)))
			r.Use(middleware.RequireRole("admin"))

			r.Get("/orders", d.order.ListOrders)
			r.Get("/orders/{id}", d.order.GetOrder)
			r.Patch("/orders/{id}/status", d.order.UpdateStatus)
			r.Post("/orders/{id}/cancel", d.order.Cancel)

			r.Get("/contact-messages", d.contact.ListMessages)
		})
	})

	return r
}
