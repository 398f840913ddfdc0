package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/CAHEKA/servisRest/api/controllers"
	"github.com/CAHEKA/servisRest/api/middleware"
	"github.com/CAHEKA/servisRest/internal/auth"
	"github.com/CAHEKA/servisRest/internal/cart"
	checkoutsvc "github.com/CAHEKA/servisRest/internal/checkout"
	"github.com/CAHEKA/servisRest/internal/orders"
	"github.com/CAHEKA/servisRest/internal/products"
	"github.com/CAHEKA/servisRest/pkg/auth/session"
	"github.com/CAHEKA/servisRest/pkg/config"
	"github.com/CAHEKA/servisRest/pkg/db"
	"github.com/CAHEKA/servisRest/pkg/logger"
	"github.com/CAHEKA/servisRest/pkg/metrics"
	"github.com/CAHEKA/servisRest/pkg/redis"
)

// NewRouter wires every HTTP surface: health probes, metrics, the public
// auth endpoints with their rate-limit policies, and the authenticated
// catalog/cart/checkout/orders routes.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessionVerifier session.AccessSessionChecker,
	httpMetrics *metrics.HTTPMetrics,
	gatherer prometheus.Gatherer,
	authService auth.Service,
	productsService products.Service,
	cartService cart.Service,
	checkoutService checkoutsvc.Service,
	ordersService orders.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUsernameLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterUsernameLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(authService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionVerifier, logg))

		r.Post("/auth/refresh", controllers.AuthRefresh(authService, logg))
		r.Post("/auth/logout", controllers.AuthLogout(authService, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductsList(productsService, logg))
			r.Get("/{productID}", controllers.ProductsGet(productsService, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(cartService, logg))
			r.Post("/", controllers.CartAdd(cartService, logg))
			r.Delete("/{productID}", controllers.CartRemove(cartService, logg))
		})

		r.Post("/checkout", controllers.CheckoutCreate(checkoutService, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(ordersService, logg))
			r.Get("/{orderID}", controllers.OrdersGet(ordersService, logg))
		})
	})

	return r
}
