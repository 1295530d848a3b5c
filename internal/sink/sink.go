package sink

import (
	"context"
	"log/slog"
	"time"

	"github.com/sustainai/hazard-risk/internal/models"
)

// Publish adapts a snapshot writer into a commit hook. Each call is bounded
// by timeout; failures are logged and swallowed.
func Publish(name string, timeout time.Duration, fn func(ctx context.Context, snap models.Snapshot) error) func(context.Context, models.Snapshot) {
	return func(ctx context.Context, snap models.Snapshot) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		start := time.Now()
		if err := fn(ctx, snap); err != nil {
			slog.Warn("sink publish failed", "sink", name, "cycle_id", snap.CycleID, "error", err)
			return
		}
		slog.Debug("sink published", "sink", name, "cycle_id", snap.CycleID, "records", len(snap.Records), "took", time.Since(start))
	}
}
