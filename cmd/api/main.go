package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/MuzPas1/fleety-mobile/api/routes"
	"github.com/MuzPas1/fleety-mobile/internal/address"
	"github.com/MuzPas1/fleety-mobile/internal/auth"
	"github.com/MuzPas1/fleety-mobile/internal/cart"
	"github.com/MuzPas1/fleety-mobile/internal/favorites"
	"github.com/MuzPas1/fleety-mobile/internal/orders"
	"github.com/MuzPas1/fleety-mobile/internal/pricing"
	"github.com/MuzPas1/fleety-mobile/internal/quotes"
	"github.com/MuzPas1/fleety-mobile/internal/restaurants"
	"github.com/MuzPas1/fleety-mobile/pkg/auth/session"
	"github.com/MuzPas1/fleety-mobile/pkg/config"
	"github.com/MuzPas1/fleety-mobile/pkg/db"
	"github.com/MuzPas1/fleety-mobile/pkg/logger"
	"github.com/MuzPas1/fleety-mobile/pkg/migrate"
	"github.com/MuzPas1/fleety-mobile/pkg/quoting"
	"github.com/MuzPas1/fleety-mobile/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.NewRepository(dbClient.DB()), sessionManager, cfg.JWT, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	restaurantService, err := restaurants.NewService(restaurants.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create restaurants service", err)
		os.Exit(1)
	}

	addressService, err := address.NewService(address.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create address service", err)
		os.Exit(1)
	}

	favoriteService, err := favorites.NewService(redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create favorites service", err)
		os.Exit(1)
	}

	cartStore := cart.NewStore()

	quoteClient, err := quoting.NewClient(cfg.Quoting.BaseURL, quoting.WithTimeout(cfg.Quoting.Timeout))
	if err != nil {
		logg.Error(context.Background(), "failed to create quoting client", err)
		os.Exit(1)
	}

	quoteResolver, err := quotes.NewResolver(quoteClient, redisClient, cartStore, logg, cfg.Quoting)
	if err != nil {
		logg.Error(context.Background(), "failed to create quote resolver", err)
		os.Exit(1)
	}

	billEngine, err := pricing.NewEngine(cfg.Pricing)
	if err != nil {
		logg.Error(context.Background(), "failed to create pricing engine", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orders.NewRepository(dbClient.DB()), dbClient, cartStore, quoteResolver, billEngine, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:      cfg,
			Logger:      logg,
			DB:          dbClient,
			Redis:       redisClient,
			Sessions:    sessionManager,
			Auth:        authService,
			Cart:        cartStore,
			Restaurants: restaurantService,
			Addresses:   addressService,
			Favorites:   favoriteService,
			Orders:      orderService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
