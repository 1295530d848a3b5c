package refresh

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/sustainai/hazard-risk/internal/impact"
	"github.com/sustainai/hazard-risk/internal/ingestion"
	"github.com/sustainai/hazard-risk/internal/models"
	"github.com/sustainai/hazard-risk/internal/observability"
)

const (
	DefaultInterval     = 15 * time.Minute
	DefaultFetchTimeout = 15 * time.Second

	refreshKey = "refresh"
)

var (
	ErrStopped   = errors.New("orchestrator stopped")
	ErrCancelled = errors.New("refresh cycle cancelled")
	ErrStale     = errors.New("refresh cycle superseded by a newer commit")
	ErrRunning   = errors.New("orchestrator already running")
)

// Hook is invoked with each committed snapshot, in registration order.
type Hook func(ctx context.Context, snap models.Snapshot)

type Option func(*Orchestrator)

func WithClock(c clockwork.Clock) Option {
	return func(o *Orchestrator) { o.clock = c }
}

func WithInterval(d time.Duration) Option {
	return func(o *Orchestrator) { o.interval = d }
}

func WithFetchTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.fetchTimeout = d }
}

func WithMetrics(m *observability.Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// Orchestrator runs refresh cycles: fan out to every fetcher, merge, annotate,
// pick the active alert and commit the result to the store. At most one cycle
// is in flight; concurrent triggers join it.
type Orchestrator struct {
	fetchers     []ingestion.Fetcher
	store        *Store
	clock        clockwork.Clock
	interval     time.Duration
	fetchTimeout time.Duration
	metrics      *observability.Metrics

	hooksMu sync.RWMutex
	hooks   []Hook

	group   singleflight.Group
	gen     atomic.Uint64
	loading atomic.Bool

	// base is cancelled by Stop and parents every cycle context.
	base       context.Context
	cancelBase context.CancelFunc

	// cycles tracks running cycle goroutines; cycleMu orders Add against
	// the Wait in waitCycles.
	cycleMu sync.Mutex
	cycles  sync.WaitGroup

	mu      sync.Mutex
	running bool
	done    chan struct{}
}

func New(fetchers []ingestion.Fetcher, store *Store, opts ...Option) *Orchestrator {
	base, cancel := context.WithCancel(context.Background())
	o := &Orchestrator{
		fetchers:     fetchers,
		store:        store,
		clock:        clockwork.NewRealClock(),
		interval:     DefaultInterval,
		fetchTimeout: DefaultFetchTimeout,
		base:         base,
		cancelBase:   cancel,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// OnCommit registers a hook for committed snapshots. Hooks run on the refresh
// path and must not block for long.
func (o *Orchestrator) OnCommit(h Hook) {
	o.hooksMu.Lock()
	o.hooks = append(o.hooks, h)
	o.hooksMu.Unlock()
}

// Run refreshes once immediately and then on every interval tick until ctx is
// cancelled or Stop is called. The orchestrator is stopped when Run returns.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.mu.Lock()
	if o.running {
		o.mu.Unlock()
		return ErrRunning
	}
	o.running = true
	o.done = make(chan struct{})
	done := o.done
	o.mu.Unlock()

	defer close(done)
	defer o.waitCycles()
	defer o.cancelBase()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-o.base.Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	slog.Info("refresh loop started", "interval", o.interval, "fetchers", len(o.fetchers))

	ticker := o.clock.NewTicker(o.interval)
	defer ticker.Stop()

	var wg sync.WaitGroup
	defer wg.Wait()

	trigger := func(reason string) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := o.Refresh(ctx); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, ErrStopped) {
				slog.Warn("refresh failed", "trigger", reason, "error", err)
			}
		}()
	}

	trigger("startup")
	for {
		select {
		case <-ctx.Done():
			slog.Info("refresh loop stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			trigger("tick")
		}
	}
}

// Refresh runs a cycle, or joins the one already in flight, and returns the
// committed snapshot. Cancelling ctx abandons the wait without cancelling the
// shared cycle.
func (o *Orchestrator) Refresh(ctx context.Context) (models.Snapshot, error) {
	if o.base.Err() != nil {
		return models.Snapshot{}, ErrStopped
	}

	if o.loading.Load() && o.metrics != nil {
		o.metrics.RefreshCoalesced.Inc()
	}

	ch := o.group.DoChan(refreshKey, func() (any, error) {
		o.cycleMu.Lock()
		if o.base.Err() != nil {
			o.cycleMu.Unlock()
			return nil, ErrStopped
		}
		o.cycles.Add(1)
		o.cycleMu.Unlock()
		defer o.cycles.Done()

		return o.cycle()
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return models.Snapshot{}, res.Err
		}
		return res.Val.(models.Snapshot).Clone(), nil
	case <-ctx.Done():
		return models.Snapshot{}, ctx.Err()
	}
}

// Stop cancels any in-flight cycle and waits for it, including its commit
// hooks, and for Run to return. Refresh fails with ErrStopped afterwards.
func (o *Orchestrator) Stop() {
	o.cancelBase()
	o.waitCycles()

	o.mu.Lock()
	done := o.done
	o.mu.Unlock()

	if done != nil {
		<-done
	}
}

// waitCycles blocks until every started cycle has returned. It only waits
// once base is cancelled, when no new cycle can start.
func (o *Orchestrator) waitCycles() {
	o.cycleMu.Lock()
	stopped := o.base.Err() != nil
	o.cycleMu.Unlock()

	if stopped {
		o.cycles.Wait()
	}
}

// CheckReadiness returns nil once a snapshot has been committed.
func (o *Orchestrator) CheckReadiness(_ context.Context) error {
	if !o.store.Ready() {
		return errors.New("no hazard snapshot committed yet")
	}
	return nil
}

func (o *Orchestrator) cycle() (models.Snapshot, error) {
	ctx, cancel := context.WithCancel(o.base)
	defer cancel()

	gen := o.gen.Add(1)
	cycleID := uuid.NewString()
	start := o.clock.Now()
	log := slog.With("cycle_id", cycleID, "generation", gen)

	o.loading.Store(true)
	o.store.beginLoading()
	o.setLoadingGauge(1)
	defer func() {
		o.loading.Store(false)
		o.setLoadingGauge(0)
	}()

	log.Info("refresh started")

	results := make([][]models.RiskRecord, len(o.fetchers))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range o.fetchers {
		g.Go(func() error {
			fctx, fcancel := context.WithTimeout(gctx, o.fetchTimeout)
			defer fcancel()

			records, err := f.Fetch(fctx)
			if err != nil {
				// fetchers are fail-soft; an error here is treated the same way
				log.Error("fetcher returned error", "source", f.Name(), "error", err)
				return nil
			}
			results[i] = records
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		o.store.endLoading()
		o.observe("cancelled", start)
		log.Warn("refresh cancelled")
		return models.Snapshot{}, fmt.Errorf("cycle %s: %w", cycleID, ErrCancelled)
	}

	counts := make(map[string]int, len(o.fetchers))
	for i, f := range o.fetchers {
		counts[f.Name()] = len(results[i])
	}

	records := impact.Annotate(ingestion.Merge(results...))
	snap := models.Snapshot{
		Generation:   gen,
		CycleID:      cycleID,
		State:        models.StateIdle,
		Records:      records,
		Active:       SelectActive(records),
		RefreshedAt:  o.clock.Now().UTC(),
		SourceCounts: counts,
	}

	if !o.store.commit(snap) {
		o.observe("stale", start)
		log.Warn("refresh result discarded")
		return models.Snapshot{}, fmt.Errorf("cycle %s: %w", cycleID, ErrStale)
	}
	o.observe("committed", start)

	if o.metrics != nil {
		o.metrics.SnapshotRecords.Set(float64(len(records)))
		if snap.Active != nil {
			o.metrics.ActiveRisk.Set(float64(snap.Active.Risk))
		} else {
			o.metrics.ActiveRisk.Set(0)
		}
	}

	if snap.Active != nil {
		log.Info("refresh committed", "records", len(records), "active_id", snap.Active.ID, "active_risk", snap.Active.Risk)
	} else {
		log.Info("refresh committed", "records", len(records), "active_id", "")
	}

	o.runHooks(ctx, snap)
	return snap, nil
}

func (o *Orchestrator) runHooks(ctx context.Context, snap models.Snapshot) {
	o.hooksMu.RLock()
	hooks := make([]Hook, len(o.hooks))
	copy(hooks, o.hooks)
	o.hooksMu.RUnlock()

	for _, h := range hooks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					slog.Error("commit hook panicked", "cycle_id", snap.CycleID, "panic", fmt.Sprint(r))
				}
			}()
			h(ctx, snap.Clone())
		}()
	}
}

func (o *Orchestrator) observe(outcome string, start time.Time) {
	if o.metrics == nil {
		return
	}
	o.metrics.RefreshCycles.WithLabelValues(outcome).Inc()
	o.metrics.RefreshDuration.Observe(o.clock.Since(start).Seconds())
}

func (o *Orchestrator) setLoadingGauge(v float64) {
	if o.metrics != nil {
		o.metrics.RefreshLoading.Set(v)
	}
}
