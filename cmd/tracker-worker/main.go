package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/MuzPas1/fleety-mobile/internal/orders"
	"github.com/MuzPas1/fleety-mobile/internal/tracking"
	"github.com/MuzPas1/fleety-mobile/pkg/config"
	"github.com/MuzPas1/fleety-mobile/pkg/db"
	"github.com/MuzPas1/fleety-mobile/pkg/instance"
	"github.com/MuzPas1/fleety-mobile/pkg/logger"
	"github.com/MuzPas1/fleety-mobile/pkg/metrics"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "tracker-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "tracker-worker",
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

	repo := orders.NewRepository(dbClient.DB())
	pollerMetrics := metrics.NewPollerMetrics(prometheus.DefaultRegisterer)

	poller, err := tracking.NewPollerFromConfig(statusFetcher{repo: repo}, logg, pollerMetrics, cfg.Tracking)
	if err != nil {
		logg.Error(context.Background(), "failed to create status poller", err)
		os.Exit(1)
	}

	go serveMetrics(logg, cfg.Tracking.MetricsPort)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"instance": instance.GetID(),
	})
	logg.Info(ctx, "starting tracker worker")

	run(ctx, logg, repo, poller, cfg.Tracking.PollInterval)
	logg.Info(ctx, "tracker worker shutting down")
}

// run keeps one status watch per active order, scanning for new orders on
// the same cadence the poller uses.
func run(ctx context.Context, logg *logger.Logger, repo orders.Repository, poller *tracking.Poller, scanInterval time.Duration) {
	watches := make(map[string]*tracking.Watch)
	defer func() {
		for _, watch := range watches {
			watch.Stop()
		}
	}()

	ticker := time.NewTicker(scanInterval)
	defer ticker.Stop()

	for {
		if err := reconcile(ctx, poller, repo, watches); err != nil {
			logg.Error(ctx, "watch reconciliation incomplete", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func reconcile(ctx context.Context, poller *tracking.Poller, repo orders.Repository, watches map[string]*tracking.Watch) error {
	for id, watch := range watches {
		select {
		case <-watch.Done():
			delete(watches, id)
		default:
		}
	}

	ids, err := repo.ListActiveIDs(ctx)
	if err != nil {
		return fmt.Errorf("list active orders: %w", err)
	}

	var errs []error
	for _, id := range ids {
		orderID := id.String()
		if _, ok := watches[orderID]; ok {
			continue
		}
		watch, err := poller.Track(ctx, orderID)
		if err != nil {
			errs = append(errs, fmt.Errorf("track order %s: %w", orderID, err))
			continue
		}
		watches[orderID] = watch
	}
	return multierr.Combine(errs...)
}

func serveMetrics(logg *logger.Logger, port string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(":"+port, mux); err != nil && err != http.ErrServerClosed {
		logg.Error(context.Background(), "metrics server stopped unexpectedly", err)
	}
}

// statusFetcher adapts the orders repository to the poller's fetch surface.
type statusFetcher struct {
	repo orders.Repository
}

func (s statusFetcher) FetchStatus(ctx context.Context, orderID string) (string, error) {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return "", err
	}
	return s.repo.GetStatus(ctx, id)
}
