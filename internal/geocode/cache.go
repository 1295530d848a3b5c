package geocode

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/sustainai/hazard-risk/internal/observability"
)

// CachedGeocoder wraps a Geocoder with an in-memory LRU cache keyed by the
// coordinate rounded to four decimals (about 11 m).
type CachedGeocoder struct {
	inner   Geocoder
	cache   *lru.Cache[string, Place]
	metrics *observability.Metrics
}

func NewCachedGeocoder(inner Geocoder, size int, metrics *observability.Metrics) (*CachedGeocoder, error) {
	cache, err := lru.New[string, Place](size)
	if err != nil {
		return nil, fmt.Errorf("create geocode cache: %w", err)
	}
	return &CachedGeocoder{
		inner:   inner,
		cache:   cache,
		metrics: metrics,
	}, nil
}

func (c *CachedGeocoder) Reverse(ctx context.Context, lat, lng float64) (Place, error) {
	key := fmt.Sprintf("%.4f,%.4f", lat, lng)
	if place, ok := c.cache.Get(key); ok {
		c.observe("hit")
		return place, nil
	}
	c.observe("miss")

	place, err := c.inner.Reverse(ctx, lat, lng)
	if err != nil {
		return place, err
	}
	// empty answers are not cached so they get retried
	if !place.Empty() {
		c.cache.Add(key, place)
	}
	return place, nil
}

func (c *CachedGeocoder) Len() int {
	return c.cache.Len()
}

func (c *CachedGeocoder) observe(result string) {
	if c.metrics != nil {
		c.metrics.GeocodeCache.WithLabelValues(result).Inc()
	}
}

// Disabled is the Geocoder used when reverse geocoding is turned off.
type Disabled struct{}

func (Disabled) Reverse(context.Context, float64, float64) (Place, error) {
	return Place{}, ErrDisabled
}
