package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sustainai/hazard-risk/internal/geocode"
	"github.com/sustainai/hazard-risk/internal/impact"
	"github.com/sustainai/hazard-risk/internal/infrastructure"
	"github.com/sustainai/hazard-risk/internal/models"
	"github.com/sustainai/hazard-risk/internal/repository"
	"github.com/sustainai/hazard-risk/internal/stream"
)

// SnapshotSource exposes the committed hazard snapshot read-only.
type SnapshotSource interface {
	Snapshot() models.Snapshot
}

// Refresher triggers refresh cycles and reports readiness.
type Refresher interface {
	Refresh(ctx context.Context) (models.Snapshot, error)
	CheckReadiness(ctx context.Context) error
}

type Deps struct {
	Store          SnapshotSource
	Refresher      Refresher
	Repo           repository.HazardRepository
	Infrastructure infrastructure.Provider
	Geocoder       geocode.Geocoder
	Broadcaster    *stream.Broadcaster
	// RefreshTimeout bounds how long POST /api/refresh waits for a cycle.
	RefreshTimeout time.Duration
}

type Handler struct {
	store          SnapshotSource
	refresher      Refresher
	repo           repository.HazardRepository
	infra          infrastructure.Provider
	geocoder       geocode.Geocoder
	broadcaster    *stream.Broadcaster
	refreshTimeout time.Duration
}

func NewHandler(d Deps) *Handler {
	h := &Handler{
		store:          d.Store,
		refresher:      d.Refresher,
		repo:           d.Repo,
		infra:          d.Infrastructure,
		geocoder:       d.Geocoder,
		broadcaster:    d.Broadcaster,
		refreshTimeout: d.RefreshTimeout,
	}
	if h.infra == nil {
		h.infra = infrastructure.SyntheticProvider{}
	}
	if h.geocoder == nil {
		h.geocoder = geocode.Disabled{}
	}
	if h.refreshTimeout <= 0 {
		h.refreshTimeout = time.Minute
	}
	return h
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	registerValidators()

	r.GET("/health", h.health)
	r.GET("/readyz", h.readyz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.GET("/hazards", h.getHazards)
	api.GET("/hazards/active", h.getActive)
	api.GET("/status", h.getStatus)
	api.GET("/recommendations", h.getRecommendations)
	api.GET("/infrastructure", h.getInfrastructure)
	api.GET("/location", h.getLocation)
	api.GET("/history", h.getHistory)
	api.POST("/refresh", h.postRefresh)
	api.GET("/stream", h.stream)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) readyz(c *gin.Context) {
	if err := h.refresher.CheckReadiness(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (h *Handler) getHazards(c *gin.Context) {
	snap := h.store.Snapshot()
	records := snap.Records

	if t := c.Query("type"); t != "" {
		if ht, ok := models.ParseHazardType(t); ok {
			records = filter(records, func(r models.RiskRecord) bool { return r.Type == ht })
		}
	}
	if m := c.Query("min_risk"); m != "" {
		if minRisk, err := strconv.Atoi(m); err == nil {
			records = filter(records, func(r models.RiskRecord) bool { return r.Risk >= minRisk })
		}
	}
	if s := c.Query("source"); s != "" {
		records = filter(records, func(r models.RiskRecord) bool { return r.Source == s })
	}

	fc := toGeoJSON(records)
	c.Header("X-Refresh-State", string(snap.State))
	c.Header("X-Generation", strconv.FormatUint(snap.Generation, 10))
	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, fc)
}

func (h *Handler) getActive(c *gin.Context) {
	snap := h.store.Snapshot()

	resp := gin.H{
		"state":      snap.State,
		"generation": snap.Generation,
		"active":     snap.Active,
	}
	if snap.Active == nil {
		resp["message"] = "No active hazard alerts"
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getStatus(c *gin.Context) {
	snap := h.store.Snapshot()

	var refreshedAt any
	if !snap.RefreshedAt.IsZero() {
		refreshedAt = snap.RefreshedAt
	}
	c.JSON(http.StatusOK, gin.H{
		"state":        snap.State,
		"generation":   snap.Generation,
		"cycle_id":     snap.CycleID,
		"refreshed_at": refreshedAt,
		"records":      len(snap.Records),
		"sources":      snap.SourceCounts,
	})
}

func (h *Handler) getRecommendations(c *gin.Context) {
	lat, lng, ok := bindCoords(c)
	if !ok {
		return
	}

	snap := h.store.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"lat":             lat,
		"lng":             lng,
		"nearby":          len(impact.Nearby(snap.Records, lat, lng, impact.NearbyRadiusDeg)),
		"recommendations": impact.RecommendationsNear(snap.Records, lat, lng),
	})
}

func (h *Handler) getInfrastructure(c *gin.Context) {
	lat, lng, ok := bindCoords(c)
	if !ok {
		return
	}

	assets, err := h.infra.Nearby(c.Request.Context(), lat, lng)
	if err != nil {
		slog.Error("infrastructure lookup failed", "lat", lat, "lng", lng, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load infrastructure"})
		return
	}

	snap := h.store.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"lat":    lat,
		"lng":    lng,
		"assets": infrastructure.Assess(assets, snap.Records),
	})
}

func (h *Handler) getLocation(c *gin.Context) {
	lat, lng, ok := bindCoords(c)
	if !ok {
		return
	}

	place, err := h.geocoder.Reverse(c.Request.Context(), lat, lng)
	if errors.Is(err, geocode.ErrDisabled) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "reverse geocoding is disabled"})
		return
	}
	if err != nil {
		slog.Warn("reverse geocoding failed", "lat", lat, "lng", lng, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to resolve location"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"lat":   lat,
		"lng":   lng,
		"place": place,
	})
}

func (h *Handler) getHistory(c *gin.Context) {
	if h.repo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "archive unavailable"})
		return
	}

	filter := repository.Filter{
		Limit: 50, // default when no limit param is supplied
	}

	if t := c.Query("type"); t != "" {
		if ht, ok := models.ParseHazardType(t); ok {
			filter.Type = &ht
		}
	}
	if m := c.Query("min_risk"); m != "" {
		if minRisk, err := strconv.Atoi(m); err == nil {
			filter.MinRisk = &minRisk
		}
	}
	if s := c.Query("source"); s != "" {
		filter.Source = s
	}
	if s := c.Query("since"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			filter.Since = &t
		}
	}
	if l := c.Query("limit"); l != "" {
		if lim, err := strconv.Atoi(l); err == nil && lim > 0 && lim <= 500 {
			filter.Limit = lim
		}
	}
	if o := c.Query("offset"); o != "" {
		if off, err := strconv.Atoi(o); err == nil && off >= 0 {
			filter.Offset = off
		}
	}

	records, err := h.repo.List(c.Request.Context(), filter)
	if err != nil {
		slog.Error("history query failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to fetch history",
		})
		return
	}
	if records == nil {
		records = []models.RiskRecord{}
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   len(records),
		"records": records,
	})
}

func (h *Handler) postRefresh(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.refreshTimeout)
	defer cancel()

	snap, err := h.refresher.Refresh(ctx)
	if err != nil {
		slog.Warn("manual refresh failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	activeID := ""
	if snap.Active != nil {
		activeID = snap.Active.ID
	}
	c.JSON(http.StatusOK, gin.H{
		"state":      snap.State,
		"generation": snap.Generation,
		"cycle_id":   snap.CycleID,
		"records":    len(snap.Records),
		"active_id":  activeID,
	})
}

func bindCoords(c *gin.Context) (float64, float64, bool) {
	var q coordQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "lat and lng query parameters are required (lat in [-90,90], lng in [-180,180])",
		})
		return 0, 0, false
	}
	return *q.Lat, *q.Lng, true
}

func filter(records []models.RiskRecord, keep func(models.RiskRecord) bool) []models.RiskRecord {
	out := make([]models.RiskRecord, 0, len(records))
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
