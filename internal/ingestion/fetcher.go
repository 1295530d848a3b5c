package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sustainai/hazard-risk/internal/models"
	"github.com/sustainai/hazard-risk/internal/observability"
)

// Fetcher pulls one hazard feed and maps it to risk records.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context) ([]models.RiskRecord, error)
}

type failSoft struct {
	inner   Fetcher
	metrics *observability.Metrics
}

// FailSoft wraps f so that Fetch never returns an error: transport failures,
// bad statuses, malformed bodies and panics during mapping are logged and
// reported as an empty result. metrics may be nil.
func FailSoft(f Fetcher, metrics *observability.Metrics) Fetcher {
	return &failSoft{inner: f, metrics: metrics}
}

func (f *failSoft) Name() string {
	return f.inner.Name()
}

func (f *failSoft) Fetch(ctx context.Context) (records []models.RiskRecord, _ error) {
	source := f.inner.Name()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("fetch panicked", "source", source, "panic", fmt.Sprint(r))
			f.failed(source)
			records = []models.RiskRecord{}
		}
		if f.metrics != nil {
			f.metrics.FetchDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
			f.metrics.FetchRecords.WithLabelValues(source).Add(float64(len(records)))
		}
	}()

	slog.Debug("fetching", "source", source)

	records, err := f.inner.Fetch(ctx)
	if err != nil {
		slog.Error("fetch failed", "source", source, "error", err)
		f.failed(source)
		return []models.RiskRecord{}, nil
	}
	if records == nil {
		records = []models.RiskRecord{}
	}

	slog.Debug("fetch complete", "source", source, "count", len(records))
	return records, nil
}

func (f *failSoft) failed(source string) {
	if f.metrics != nil {
		f.metrics.FetchFailures.WithLabelValues(source).Inc()
	}
}
