package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sustainai/hazard-risk/internal/config"
	"github.com/sustainai/hazard-risk/internal/impact"
	"github.com/sustainai/hazard-risk/internal/ingestion"
	"github.com/sustainai/hazard-risk/internal/logging"
	"github.com/sustainai/hazard-risk/internal/models"
	"github.com/sustainai/hazard-risk/internal/refresh"
	"github.com/sustainai/hazard-risk/internal/sink"
)

// loadFunc produces the snapshot to print, either by running one refresh
// cycle or by reading the cached one.
type loadFunc func(ctx context.Context, cfg *config.Config, fromCache bool) (models.Snapshot, error)

type options struct {
	lat       float64
	lng       float64
	format    string
	fromCache bool
}

type report struct {
	Snapshot models.Snapshot `json:"snapshot"`
	Location *locationReport `json:"location,omitempty"`
}

type locationReport struct {
	Lat             float64  `json:"lat"`
	Lng             float64  `json:"lng"`
	Nearby          int      `json:"nearby"`
	Recommendations []string `json:"recommendations"`
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(loadSnapshot).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(load loadFunc) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "hazard-snapshot",
		Short: "Print the current hazard snapshot",
		Long: `Runs one refresh cycle against every enabled hazard feed (or reads the
snapshot cached in Redis with --from-cache) and prints it. With --lat and --lng
the resilience recommendations for hazards near that point are included.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			latSet, lngSet := cmd.Flags().Changed("lat"), cmd.Flags().Changed("lng")
			if latSet != lngSet {
				return errors.New("--lat and --lng must be given together")
			}
			return run(cmd.Context(), cmd.OutOrStdout(), opts, latSet, load)
		},
	}

	cmd.Flags().Float64Var(&opts.lat, "lat", 0, "latitude for nearby recommendations")
	cmd.Flags().Float64Var(&opts.lng, "lng", 0, "longitude for nearby recommendations")
	cmd.Flags().StringVar(&opts.format, "format", "json", "output format: json or yaml")
	cmd.Flags().BoolVar(&opts.fromCache, "from-cache", false, "read the snapshot cached in Redis instead of fetching")

	return cmd
}

func run(ctx context.Context, out io.Writer, opts options, withLocation bool, load loadFunc) error {
	if opts.format != "json" && opts.format != "yaml" {
		return fmt.Errorf("invalid format %q: want json or yaml", opts.format)
	}
	if withLocation && (opts.lat < -90 || opts.lat > 90 || opts.lng < -180 || opts.lng > 180) {
		return fmt.Errorf("coordinates out of range: %v,%v", opts.lat, opts.lng)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	// stdout carries the report
	slog.SetDefault(logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format))

	snap, err := load(ctx, cfg, opts.fromCache)
	if err != nil {
		return err
	}

	rep := report{Snapshot: snap}
	if withLocation {
		rep.Location = &locationReport{
			Lat:             opts.lat,
			Lng:             opts.lng,
			Nearby:          len(impact.Nearby(snap.Records, opts.lat, opts.lng, impact.NearbyRadiusDeg)),
			Recommendations: impact.RecommendationsNear(snap.Records, opts.lat, opts.lng),
		}
	}

	return write(out, opts.format, rep)
}

func write(out io.Writer, format string, rep report) error {
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}

	// round-trip through JSON so YAML keys follow the json tags
	b, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	var generic any
	if err := json.Unmarshal(b, &generic); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func loadSnapshot(ctx context.Context, cfg *config.Config, fromCache bool) (models.Snapshot, error) {
	if fromCache {
		cache := sink.NewRedisSnapshotCache(sink.NewRedisClient(cfg.Redis), cfg.Redis.Key, 0)
		defer cache.Close()

		snap, err := cache.Latest(ctx)
		if err != nil {
			return models.Snapshot{}, fmt.Errorf("read cached snapshot from %s: %w", cfg.Redis.Addr, err)
		}
		return snap, nil
	}

	client := ingestion.NewHTTPClient(cfg.Refresh.FetchTimeout)
	fetchers := ingestion.NewFetchers(cfg.Sources, client, nil)

	o := refresh.New(fetchers, refresh.NewStore(), refresh.WithFetchTimeout(cfg.Refresh.FetchTimeout))
	defer o.Stop()

	snap, err := o.Refresh(ctx)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("refresh: %w", err)
	}
	return snap, nil
}
