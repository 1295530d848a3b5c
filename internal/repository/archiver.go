package repository

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sustainai/hazard-risk/internal/models"
	"github.com/sustainai/hazard-risk/internal/observability"
	"github.com/sustainai/hazard-risk/internal/worker"
)

// Archiver stores first-seen records from committed snapshots using a worker
// pool so that the refresh path never waits on disk.
type Archiver struct {
	repo    HazardRepository
	pool    *worker.Pool[models.RiskRecord]
	metrics *observability.Metrics
}

func NewArchiver(repo HazardRepository, workers, buffer int, metrics *observability.Metrics) *Archiver {
	a := &Archiver{
		repo:    repo,
		metrics: metrics,
	}
	a.pool = worker.NewPool(workers, buffer, a.store)
	a.pool.OnError(func(r models.RiskRecord, err error) {
		slog.Warn("archive write failed", "id", r.ID, "error", err)
		if a.metrics != nil {
			a.metrics.ArchiveErrors.Inc()
		}
	})
	return a
}

func (a *Archiver) Start(ctx context.Context) {
	a.pool.Start(ctx)
}

func (a *Archiver) Stop() {
	a.pool.Stop()
}

// Archive queues every record of the snapshot. Records that do not fit in the
// queue are dropped; they will be offered again by the next cycle.
func (a *Archiver) Archive(snap models.Snapshot) {
	dropped := 0
	for _, r := range snap.Records {
		if !a.pool.TrySubmit(r) {
			dropped++
		}
	}
	if dropped > 0 {
		slog.Warn("archive queue full", "cycle_id", snap.CycleID, "dropped", dropped)
	}
}

func (a *Archiver) store(ctx context.Context, r models.RiskRecord) error {
	exists, err := a.repo.Exists(ctx, r.ID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if err := a.repo.Add(ctx, &r); err != nil {
		// another worker got there first
		if errors.Is(err, ErrDuplicate) {
			return nil
		}
		return err
	}

	slog.Debug("hazard archived", "id", r.ID, "type", r.Type, "risk", r.Risk)
	if a.metrics != nil {
		a.metrics.ArchiveInserts.Inc()
	}
	return nil
}
