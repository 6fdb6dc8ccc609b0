package tracking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MuzPas1/fleety-mobile/pkg/config"
	"github.com/MuzPas1/fleety-mobile/pkg/logger"
	"github.com/MuzPas1/fleety-mobile/pkg/metrics"
)

const defaultPollInterval = 5 * time.Second

// StatusFetcher returns the current raw status string for an order.
type StatusFetcher interface {
	FetchStatus(ctx context.Context, orderID string) (string, error)
}

// PollerParams configure the poller.
type PollerParams struct {
	Fetcher  StatusFetcher
	Logger   *logger.Logger
	Metrics  *metrics.PollerMetrics
	Interval time.Duration
}

// Poller repeatedly fetches an order's status and classifies it against
// the fixed progression. Each order gets its own Watch handle; the watch
// stops on Stop, on context cancellation, or once the order reaches the
// terminal stage.
type Poller struct {
	fetcher  StatusFetcher
	log      *logger.Logger
	metrics  *metrics.PollerMetrics
	interval time.Duration
}

// NewPoller builds a poller.
func NewPoller(params PollerParams) (*Poller, error) {
	if params.Fetcher == nil {
		return nil, fmt.Errorf("status fetcher required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	interval := params.Interval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Poller{
		fetcher:  params.Fetcher,
		log:      params.Logger,
		metrics:  params.Metrics,
		interval: interval,
	}, nil
}

// NewPollerFromConfig builds a poller with the configured interval.
func NewPollerFromConfig(fetcher StatusFetcher, log *logger.Logger, m *metrics.PollerMetrics, cfg config.TrackingConfig) (*Poller, error) {
	return NewPoller(PollerParams{
		Fetcher:  fetcher,
		Logger:   log,
		Metrics:  m,
		Interval: cfg.PollInterval,
	})
}

// Watch is the handle for one tracked order. Stop is idempotent and
// releases the polling goroutine deterministically.
type Watch struct {
	orderID string

	mu      sync.Mutex
	current Classification

	cancel context.CancelFunc
	done   chan struct{}
	stop   sync.Once
}

// Current returns the latest classification.
func (w *Watch) Current() Classification {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// Stop cancels the polling loop. Safe to call more than once.
func (w *Watch) Stop() {
	w.stop.Do(w.cancel)
}

// Done is closed when the polling loop has exited.
func (w *Watch) Done() <-chan struct{} {
	return w.done
}

func (w *Watch) set(c Classification) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.current = c
}

// Track starts polling the order and returns its watch handle. The first
// fetch happens immediately; subsequent fetches run on the configured
// interval. A fetch failure is logged and the previous classification is
// retained, never reset.
func (p *Poller) Track(ctx context.Context, orderID string) (*Watch, error) {
	if orderID == "" {
		return nil, fmt.Errorf("order id required")
	}

	watchCtx, cancel := context.WithCancel(ctx)
	watch := &Watch{
		orderID: orderID,
		current: Classification{StageIndex: UnrecognizedStageIndex},
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	go p.run(watchCtx, watch)
	return watch, nil
}

func (p *Poller) run(ctx context.Context, watch *Watch) {
	defer close(watch.done)
	defer watch.cancel()

	logCtx := p.log.WithOrderID(ctx, watch.orderID)

	if terminal := p.poll(logCtx, watch); terminal {
		return
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Debug(logCtx, "order watch stopped")
			return
		case <-ticker.C:
			if terminal := p.poll(logCtx, watch); terminal {
				p.log.Info(logCtx, "order reached terminal stage, watch complete")
				return
			}
		}
	}
}

// poll runs one fetch-classify cycle and reports whether the order is done.
func (p *Poller) poll(ctx context.Context, watch *Watch) bool {
	start := time.Now()
	raw, err := p.fetcher.FetchStatus(ctx, watch.orderID)
	if err != nil {
		p.metrics.ObservePoll("error", time.Since(start))
		p.metrics.IncFailure("fetch")
		p.log.Error(ctx, "order status fetch failed, retaining previous stage", err)
		return false
	}
	p.metrics.ObservePoll("ok", time.Since(start))

	next := Classify(raw)
	previous := watch.Current()
	if next.StageIndex != previous.StageIndex {
		watch.set(next)
		if next.StageIndex != UnrecognizedStageIndex {
			p.metrics.IncTransition(next.Stage.String())
		}
	}
	return next.IsTerminal
}
