package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Mo7Ati/dawlystore-storefront/api/controllers"
	"github.com/Mo7Ati/dawlystore-storefront/api/middleware"
	"github.com/Mo7Ati/dawlystore-storefront/internal/address"
	"github.com/Mo7Ati/dawlystore-storefront/internal/auth"
	"github.com/Mo7Ati/dawlystore-storefront/internal/cart"
	checkoutsvc "github.com/Mo7Ati/dawlystore-storefront/internal/checkout"
	"github.com/Mo7Ati/dawlystore-storefront/internal/orders"
	"github.com/Mo7Ati/dawlystore-storefront/internal/products"
	"github.com/Mo7Ati/dawlystore-storefront/internal/stores"
	"github.com/Mo7Ati/dawlystore-storefront/pkg/config"
	"github.com/Mo7Ati/dawlystore-storefront/pkg/logger"
	"github.com/Mo7Ati/dawlystore-storefront/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Redis    *redis.Client
	Registry *prometheus.Registry

	// Health probes; nil entries are skipped.
	Pingers map[string]controllers.Pinger

	AuthService     auth.Service
	StoreService    stores.Service
	ProductService  products.Service
	AddressService  address.Service
	OrderService    orders.Service
	CartManager     *cart.Manager
	CheckoutManager *checkoutsvc.Manager
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
		middleware.Session(deps.AuthService, cfg.Session, logg),
		middleware.CartKey(cfg.Session, logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(logg, deps.Pingers))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(cfg.AuthRateLimit, deps.Redis, logg)).
				Post("/login", controllers.Login(deps.AuthService, cfg.Session, logg))
			r.Post("/logout", controllers.Logout(deps.AuthService, cfg.Session, logg))
			r.With(middleware.RequireAuth(logg)).Get("/me", controllers.Me(deps.AuthService, logg))
		})

		r.Route("/stores", func(r chi.Router) {
			r.Get("/", controllers.ListStores(deps.StoreService, logg))
			r.Get("/{id}", controllers.GetStore(deps.StoreService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(deps.ProductService, logg))
			r.Get("/{id}", controllers.GetProduct(deps.ProductService, logg))
		})

		// The cart is session-scoped, not login-scoped: anonymous
		// shoppers carry one on a cookie.
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.GetCart(deps.CartManager, logg))
			r.Delete("/", controllers.ClearCart(deps.CartManager, logg))
			r.Post("/items", controllers.AddCartItem(deps.CartManager, logg))
			r.Route("/items/{itemId}", func(r chi.Router) {
				r.Patch("/", controllers.UpdateCartItemQuantity(deps.CartManager, logg))
				r.Post("/increment", controllers.IncrementCartItem(deps.CartManager, logg))
				r.Post("/decrement", controllers.DecrementCartItem(deps.CartManager, logg))
				r.Delete("/", controllers.RemoveCartItem(deps.CartManager, logg))
			})
			r.Delete("/stores/{storeId}", controllers.RemoveCartStore(deps.CartManager, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", controllers.BeginCheckout(deps.CheckoutManager, logg))
			r.Get("/", controllers.CheckoutState(deps.CheckoutManager, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth(logg))
				r.Post("/validate", controllers.ValidateCheckout(deps.CheckoutManager, logg))
				r.Post("/items/resolve", controllers.ResolveCheckoutItem(deps.CheckoutManager, logg))
				r.Post("/complete", controllers.CompleteCheckout(deps.CheckoutManager, logg))
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(logg))

			r.Route("/addresses", func(r chi.Router) {
				r.Get("/", controllers.ListAddresses(deps.AddressService, logg))
				r.Post("/", controllers.CreateAddress(deps.AddressService, logg))
				r.Delete("/{id}", controllers.DeleteAddress(deps.AddressService, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.ListOrders(deps.OrderService, logg))
				r.Get("/{id}", controllers.GetOrder(deps.OrderService, logg))
			})
		})
	})

	return r
}
