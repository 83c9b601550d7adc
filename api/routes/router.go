package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/petitmarche/backend/api/controllers"
	"github.com/petitmarche/backend/api/middleware"
	cartsvc "github.com/petitmarche/backend/internal/cart"
	checkoutsvc "github.com/petitmarche/backend/internal/checkout"
	orderssvc "github.com/petitmarche/backend/internal/orders"
	"github.com/petitmarche/backend/pkg/config"
	"github.com/petitmarche/backend/pkg/db"
	"github.com/petitmarche/backend/pkg/logger"
	"github.com/petitmarche/backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient db.Pinger,
	redisClient *redis.Client,
	cartService cartsvc.Service,
	checkoutService checkoutsvc.Service,
	ordersService orderssvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, controllers.ReadyDeps(dbClient, redisClient)))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(cartService, logg))
			r.Post("/items", controllers.CartAddItem(cartService, logg))
			r.Patch("/items/{itemId}", controllers.CartUpdateItem(cartService, logg))
			r.Delete("/items/{itemId}", controllers.CartRemoveItem(cartService, logg))
		})

		r.Post("/orders", controllers.PlaceOrder(checkoutService, logg))
		r.Get("/orders", controllers.ListOrders(ordersService, logg))
		r.Get("/orders/{orderId}", controllers.OrderDetail(ordersService, logg))
		r.Post("/orders/{orderId}/cancel", controllers.CancelOrder(ordersService, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole("admin", logg))

		r.Put("/orders/{orderId}/status", controllers.AdminSetOrderStatus(ordersService, logg))
	})

	return r
}
