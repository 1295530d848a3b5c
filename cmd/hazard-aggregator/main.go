package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/sustainai/hazard-risk/internal/api"
	"github.com/sustainai/hazard-risk/internal/config"
	"github.com/sustainai/hazard-risk/internal/geocode"
	"github.com/sustainai/hazard-risk/internal/infrastructure"
	"github.com/sustainai/hazard-risk/internal/ingestion"
	"github.com/sustainai/hazard-risk/internal/logging"
	"github.com/sustainai/hazard-risk/internal/models"
	"github.com/sustainai/hazard-risk/internal/observability"
	"github.com/sustainai/hazard-risk/internal/refresh"
	"github.com/sustainai/hazard-risk/internal/repository"
	"github.com/sustainai/hazard-risk/internal/sink"
	"github.com/sustainai/hazard-risk/internal/stream"
)

const sinkTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port, "refresh_interval", cfg.Refresh.Interval)

	metrics := observability.NewMetrics()

	if dir := filepath.Dir(cfg.DB.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logging.Fatalf("Failed to create database directory: %v", err)
		}
	}
	db, err := repository.NewSQLiteDB(cfg.DB.Path)
	if err != nil {
		logging.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	archiver := repository.NewArchiver(db, cfg.Worker.Count, cfg.Worker.BufferSize, metrics)
	archiver.Start(ctx)

	broadcaster := stream.NewBroadcaster()
	broadcaster.OnSubscriberChange(func(n int) {
		metrics.StreamSubscribers.Set(float64(n))
	})

	client := ingestion.NewHTTPClient(cfg.Refresh.FetchTimeout)
	fetchers := ingestion.NewFetchers(cfg.Sources, client, metrics)

	store := refresh.NewStore()
	orchestrator := refresh.New(fetchers, store,
		refresh.WithInterval(cfg.Refresh.Interval),
		refresh.WithFetchTimeout(cfg.Refresh.FetchTimeout),
		refresh.WithMetrics(metrics),
	)
	orchestrator.OnCommit(func(_ context.Context, snap models.Snapshot) {
		archiver.Archive(snap)
	})
	orchestrator.OnCommit(func(_ context.Context, snap models.Snapshot) {
		broadcaster.Broadcast(snap)
	})

	var closers []func() error

	if cfg.Redis.Enabled {
		cache := sink.NewRedisSnapshotCache(sink.NewRedisClient(cfg.Redis), cfg.Redis.Key, 2*cfg.Refresh.Interval)
		pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
		if err := cache.Ping(pingCtx); err != nil {
			slog.Warn("redis unreachable, snapshots will be retried each cycle", "addr", cfg.Redis.Addr, "error", err)
		}
		pingCancel()
		orchestrator.OnCommit(sink.Publish("redis", sinkTimeout, cache.Store))
		closers = append(closers, cache.Close)
		slog.Info("redis snapshot cache enabled", "addr", cfg.Redis.Addr, "key", cfg.Redis.Key)
	}

	if cfg.Kafka.Enabled {
		publisher := sink.NewKafkaPublisher(cfg.Kafka)
		orchestrator.OnCommit(sink.Publish("kafka", sinkTimeout, publisher.Publish))
		closers = append(closers, publisher.Close)
		slog.Info("kafka publisher enabled", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	}

	var geocoder geocode.Geocoder = geocode.Disabled{}
	if cfg.Geocode.Enabled {
		cached, err := geocode.NewCachedGeocoder(geocode.NewClient(cfg.Geocode.URL, cfg.Geocode.Timeout), cfg.Geocode.CacheSize, metrics)
		if err != nil {
			logging.Fatalf("Failed to initialize geocoder: %v", err)
		}
		geocoder = cached
	}

	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		if err := orchestrator.Run(ctx); err != nil {
			slog.Error("refresh loop exited", "error", err)
		}
	}()

	gin.SetMode(gin.ReleaseMode)
	handler := api.NewHandler(api.Deps{
		Store:          store,
		Refresher:      orchestrator,
		Repo:           db,
		Infrastructure: infrastructure.SyntheticProvider{},
		Geocoder:       geocoder,
		Broadcaster:    broadcaster,
		RefreshTimeout: cfg.Refresh.FetchTimeout + 15*time.Second,
	})
	router := api.NewRouter(handler, cfg.Server.RateLimit)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	orchestrator.Stop()
	<-runDone
	broadcaster.Close() // ends open SSE streams

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	archiver.Stop()
	cancel()

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			slog.Warn("close error", "error", err)
		}
	}

	slog.Info("shutdown complete")
}
