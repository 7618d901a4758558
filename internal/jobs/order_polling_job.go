package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"farmacia/internal/core/domain/model/order"
	"farmacia/internal/core/ports"

	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/singleflight"
)

const (
	refreshKey = "staff_list"

	// DefaultFetchTimeout bounds one shared fetch, whoever triggered it.
	DefaultFetchTimeout = 10 * time.Second
)

var ErrIntervalIsInvalid = errors.New("polling interval must be greater than 0")

var (
	tracer = otel.Tracer("farmacia/jobs")
	meter  = otel.Meter("farmacia/jobs")

	refreshRuns, _ = meter.Int64Counter("order_refresh_runs_total",
		metric.WithDescription("Staff list fetches started"))
	refreshFailures, _ = meter.Int64Counter("order_refresh_failures_total",
		metric.WithDescription("Staff list fetches that failed"))
	refreshCoalesced, _ = meter.Int64Counter("order_refresh_coalesced_total",
		metric.WithDescription("Refresh triggers that joined a fetch already in flight"))
)

// OrderFetcher reads the order collection.
type OrderFetcher interface {
	List(ctx context.Context, spec ports.ListSpec) ([]*order.Order, error)
}

// StaffListSink receives freshly fetched collections.
type StaffListSink interface {
	ReplaceStaffList(orders []*order.Order)
}

// RefreshResult describes a completed refresh.
type RefreshResult struct {
	Orders int

	// Shared is true when more than one trigger was served by the same fetch.
	Shared bool
}

// OrderPollingJob refreshes the staff list at a fixed interval. It only reads; it never
// requests transitions.
type OrderPollingJob struct {
	fetcher      OrderFetcher
	sink         StaffListSink
	spec         ports.ListSpec
	fetchTimeout time.Duration
	logger       *slog.Logger

	group    singleflight.Group
	flightMu sync.Mutex
	inFlight bool

	mu       sync.Mutex
	cron     *cron.Cron
	cancel   context.CancelFunc
	interval time.Duration
}

// NewOrderPollingJob creates a stopped job.
func NewOrderPollingJob(
	fetcher OrderFetcher,
	sink StaffListSink,
	spec ports.ListSpec,
	logger *slog.Logger,
) *OrderPollingJob {
	return &OrderPollingJob{
		fetcher:      fetcher,
		sink:         sink,
		spec:         spec,
		fetchTimeout: DefaultFetchTimeout,
		logger:       logger.With("component", "order_polling_job"),
	}
}

// Start begins polling every interval. Starting a running job restarts it with the new
// interval.
func (j *OrderPollingJob) Start(interval time.Duration) error {
	if interval <= 0 {
		return ErrIntervalIsInvalid
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	j.stopLocked()

	runCtx, cancel := context.WithCancel(context.Background())
	logger := cronLogger{logger: j.logger}
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger)),
	)
	c.Schedule(every(interval), cron.FuncJob(func() {
		_, _ = j.refresh(runCtx)
	}))
	c.Start()

	j.cron = c
	j.cancel = cancel
	j.interval = interval

	j.logger.InfoContext(runCtx, "Order polling job started", "interval", interval.String())
	return nil
}

// Stop halts polling and waits for a running tick to return. No tick fires after Stop
// returns. A fetch other callers joined keeps running for them.
func (j *OrderPollingJob) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.stopLocked() {
		j.logger.InfoContext(context.Background(), "Order polling job stopped")
	}
}

// Running reports whether ticks are scheduled, and at which interval.
func (j *OrderPollingJob) Running() (time.Duration, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.interval, j.cron != nil
}

// RefreshNow triggers a refresh and waits for it. If a refresh is already in flight the
// call joins it.
func (j *OrderPollingJob) RefreshNow(ctx context.Context) (RefreshResult, error) {
	return j.refresh(ctx)
}

func (j *OrderPollingJob) refresh(ctx context.Context) (RefreshResult, error) {
	select {
	case res := <-j.trigger(ctx):
		if res.Err != nil {
			return RefreshResult{Shared: res.Shared}, res.Err
		}
		return RefreshResult{Orders: res.Val.(int), Shared: res.Shared}, nil
	case <-ctx.Done():
		return RefreshResult{}, ctx.Err()
	}
}

// trigger starts a fetch, or joins the one in flight, without waiting for it.
// The key is forgotten as soon as the fetch returns, so later triggers start a new one.
func (j *OrderPollingJob) trigger(ctx context.Context) <-chan singleflight.Result {
	fetchCtx := context.WithoutCancel(ctx)

	j.flightMu.Lock()
	defer j.flightMu.Unlock()

	if j.inFlight {
		refreshCoalesced.Add(ctx, 1)
	}
	j.inFlight = true

	return j.group.DoChan(refreshKey, func() (any, error) {
		defer func() {
			j.flightMu.Lock()
			j.group.Forget(refreshKey)
			j.inFlight = false
			j.flightMu.Unlock()
		}()
		return j.fetch(fetchCtx)
	})
}

func (j *OrderPollingJob) fetch(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, j.fetchTimeout)
	defer cancel()

	ctx, span := tracer.Start(ctx, "RefreshStaffList")
	defer span.End()

	refreshRuns.Add(ctx, 1)

	orders, err := j.fetcher.List(ctx, j.spec)
	if err != nil {
		refreshFailures.Add(ctx, 1)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		j.logger.WarnContext(ctx, "Order refresh failed, will retry on next tick", "error", err)
		return 0, fmt.Errorf("refresh staff list: %w", err)
	}

	j.sink.ReplaceStaffList(orders)
	span.SetAttributes(attribute.Int("orders.count", len(orders)))
	return len(orders), nil
}

func (j *OrderPollingJob) stopLocked() bool {
	if j.cron == nil {
		return false
	}

	j.cancel()
	<-j.cron.Stop().Done()

	j.cron = nil
	j.cancel = nil
	j.interval = 0
	return true
}
