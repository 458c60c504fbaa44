package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rohanmalik/boutique-backend/api/controllers"
	"github.com/rohanmalik/boutique-backend/api/middleware"
	authsvc "github.com/rohanmalik/boutique-backend/internal/auth"
	cartsvc "github.com/rohanmalik/boutique-backend/internal/cart"
	checkoutsvc "github.com/rohanmalik/boutique-backend/internal/checkout"
	mediasvc "github.com/rohanmalik/boutique-backend/internal/media"
	ordersvc "github.com/rohanmalik/boutique-backend/internal/orders"
	productsvc "github.com/rohanmalik/boutique-backend/internal/products"
	usersvc "github.com/rohanmalik/boutique-backend/internal/users"
	"github.com/rohanmalik/boutique-backend/pkg/auth/session"
	"github.com/rohanmalik/boutique-backend/pkg/config"
	"github.com/rohanmalik/boutique-backend/pkg/db"
	"github.com/rohanmalik/boutique-backend/pkg/logger"
	"github.com/rohanmalik/boutique-backend/pkg/metrics"
	"github.com/rohanmalik/boutique-backend/pkg/redis"
	"github.com/rohanmalik/boutique-backend/pkg/storage/gcs"
)

// NewRouter wires the HTTP surface: storefront routes under /api/v1 and the
// back-office under /api/admin/v1.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	gcsP gcs.Pinger,
	sessions session.AccessSessionChecker,
	httpMetrics *metrics.HTTPMetrics,
	authService authsvc.Service,
	productService productsvc.Service,
	cartService cartsvc.Service,
	checkoutService checkoutsvc.Service,
	ordersService ordersvc.Service,
	usersService usersvc.Service,
	mediaService mediasvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if httpMetrics != nil {
		r.Use(httpMetrics.Middleware)
		r.Method(http.MethodGet, "/metrics", httpMetrics.Handler())
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP, gcsP))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(authService, logg))
		r.Post("/login", controllers.AuthLogin(authService, logg))
		r.Post("/refresh", controllers.AuthRefresh(authService, logg))
		r.Post("/logout", controllers.AuthLogout(authService, logg))
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(productService, logg))
		r.Get("/{productId}", controllers.ProductDetail(productService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(cartService, logg))
			r.Post("/items", controllers.CartAddItem(cartService, logg))
			r.Patch("/items", controllers.CartUpdateItem(cartService, logg))
			r.Delete("/items", controllers.CartRemoveItem(cartService, logg))
			r.Delete("/", controllers.CartClear(cartService, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", controllers.CheckoutOpen(checkoutService, logg))
			r.Post("/", controllers.CheckoutSubmit(checkoutService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(ordersService, logg))
			r.Get("/{orderId}", controllers.OrderDetail(ordersService, logg))
		})

		r.Get("/users/me", controllers.Me(usersService, logg))
		r.Route("/profile", func(r chi.Router) {
			r.Get("/", controllers.ProfileFetch(usersService, logg))
			r.Put("/", controllers.ProfileUpdate(usersService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.RequireRole("admin", logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminProductList(productService, logg))
			r.Post("/", controllers.AdminProductCreate(productService, logg))
			r.Get("/{productId}", controllers.AdminProductDetail(productService, logg))
			r.Patch("/{productId}", controllers.AdminProductUpdate(productService, logg))
			r.Delete("/{productId}", controllers.AdminProductDelete(productService, logg))
			r.Post("/{productId}/images", controllers.AdminProductImages(mediaService, productService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrderList(ordersService, logg))
			r.Get("/counts", controllers.AdminOrderCounts(ordersService, logg))
			r.Patch("/{orderId}/status", controllers.AdminOrderStatus(ordersService, logg))
			r.Patch("/{orderId}/payment", controllers.AdminOrderPayment(ordersService, logg))
		})

		r.Get("/users", controllers.AdminUserList(usersService, logg))
	})

	return r
}
