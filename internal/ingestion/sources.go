package ingestion

import (
	"net/http"

	"github.com/sustainai/hazard-risk/internal/config"
	"github.com/sustainai/hazard-risk/internal/observability"
)

// NewFetchers builds the enabled hazard fetchers, each wrapped with FailSoft,
// in a fixed order: seismic, weather, flood, wildfire, cyclone.
func NewFetchers(cfg config.SourcesConfig, client *http.Client, metrics *observability.Metrics) []Fetcher {
	var fetchers []Fetcher

	if cfg.Seismic.Enabled {
		f := NewUSGS(cfg.Seismic.URL, client)
		f.SetMaxBodyBytes(cfg.Seismic.MaxBodyBytes)
		fetchers = append(fetchers, f)
	}
	if cfg.Weather.Enabled {
		f := NewNWS(cfg.Weather.URL, client)
		f.SetMaxBodyBytes(cfg.Weather.MaxBodyBytes)
		fetchers = append(fetchers, f)
	}
	if cfg.Flood.Enabled {
		f := NewFloodWarnings(cfg.Flood.URL, client)
		f.SetMaxBodyBytes(cfg.Flood.MaxBodyBytes)
		fetchers = append(fetchers, f)
	}
	if cfg.Wildfire.Enabled {
		f := NewWildfires(cfg.Wildfire.URL, client)
		f.SetMaxBodyBytes(cfg.Wildfire.MaxBodyBytes)
		fetchers = append(fetchers, f)
	}
	if cfg.Cyclone.Enabled {
		f := NewCyclones(cfg.Cyclone.URL, client)
		f.SetMaxBodyBytes(cfg.Cyclone.MaxBodyBytes)
		fetchers = append(fetchers, f)
	}

	for i, f := range fetchers {
		fetchers[i] = FailSoft(f, metrics)
	}
	return fetchers
}
