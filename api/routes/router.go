package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MuzPas1/fleety-mobile/api/controllers"
	"github.com/MuzPas1/fleety-mobile/api/middleware"
	addresssvc "github.com/MuzPas1/fleety-mobile/internal/address"
	authsvc "github.com/MuzPas1/fleety-mobile/internal/auth"
	cartstore "github.com/MuzPas1/fleety-mobile/internal/cart"
	favoritesvc "github.com/MuzPas1/fleety-mobile/internal/favorites"
	ordersvc "github.com/MuzPas1/fleety-mobile/internal/orders"
	restaurantsvc "github.com/MuzPas1/fleety-mobile/internal/restaurants"
	"github.com/MuzPas1/fleety-mobile/pkg/auth/session"
	"github.com/MuzPas1/fleety-mobile/pkg/config"
	"github.com/MuzPas1/fleety-mobile/pkg/logger"
	"github.com/MuzPas1/fleety-mobile/pkg/redis"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          pinger
	Redis       *redis.Client
	Sessions    session.AccessSessionChecker
	Auth        authsvc.Service
	Cart        *cartstore.Store
	Restaurants restaurantsvc.Service
	Addresses   addresssvc.Service
	Favorites   *favoritesvc.Service
	Orders      ordersvc.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS,
	)

	// A typed-nil *redis.Client must become an untyped-nil interface so the
	// downstream nil checks fire.
	var (
		cachePinger pinger
		idemStore   redis.IdempotencyStore
		limitStore  redis.RateLimitStore
	)
	if deps.Redis != nil {
		cachePinger = deps.Redis
		idemStore = deps.Redis
		limitStore = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, cachePinger))
	})

	loginPolicy := middleware.NewThrottlePolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewThrottlePolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(
			middleware.AuthThrottle(registerPolicy, limitStore, logg),
			middleware.Idempotency(idemStore, logg),
		).Post("/register", controllers.AuthRegister(deps.Auth, logg))
		r.With(middleware.AuthThrottle(loginPolicy, limitStore, logg)).
			Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(deps.Auth, logg))
	})

	r.Route("/api/v1/restaurants", func(r chi.Router) {
		r.Get("/", controllers.RestaurantsList(deps.Restaurants, logg))
		r.Get("/{restaurantID}", controllers.RestaurantsGet(deps.Restaurants, logg))
		r.Get("/{restaurantID}/menu", controllers.RestaurantsMenu(deps.Restaurants, logg))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

		r.Get("/api/v1/me", controllers.AuthProfile(deps.Auth, logg))

		r.Route("/api/v1/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(deps.Cart, logg))
			r.Post("/items", controllers.CartAddItem(deps.Cart, deps.Restaurants, logg))
			r.Patch("/items/{itemID}", controllers.CartUpdateQuantity(deps.Cart, logg))
			r.Delete("/items/{itemID}", controllers.CartRemoveItem(deps.Cart, logg))
			r.Delete("/", controllers.CartClear(deps.Cart, logg))
		})

		r.Get("/api/v1/checkout/preview", controllers.CheckoutPreview(deps.Orders, logg))

		r.Route("/api/v1/orders", func(r chi.Router) {
			r.With(middleware.Idempotency(idemStore, logg)).
				Post("/", controllers.OrdersPlace(deps.Orders, logg))
			r.Get("/", controllers.OrdersList(deps.Orders, logg))
			r.Get("/{orderID}", controllers.OrdersGet(deps.Orders, logg))
			r.Get("/{orderID}/progress", controllers.OrdersProgress(deps.Orders, logg))
			r.Patch("/{orderID}/status", controllers.OrdersUpdateStatus(deps.Orders, logg))
		})

		r.Route("/api/v1/addresses", func(r chi.Router) {
			r.Post("/", controllers.AddressesCreate(deps.Addresses, logg))
			r.Get("/", controllers.AddressesList(deps.Addresses, logg))
			r.Post("/{addressID}/default", controllers.AddressesSetDefault(deps.Addresses, logg))
			r.Delete("/{addressID}", controllers.AddressesDelete(deps.Addresses, logg))
		})

		r.Route("/api/v1/favorites", func(r chi.Router) {
			r.Get("/", controllers.FavoritesList(deps.Favorites, logg))
			r.Post("/{restaurantID}/toggle", controllers.FavoritesToggle(deps.Favorites, logg))
		})
	})

	return r
}
