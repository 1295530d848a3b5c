package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sustainai/hazard-risk/internal/models"
	"github.com/sustainai/hazard-risk/internal/risk"
)

type usgsResponse struct {
	Features []usgsFeature `json:"features"`
}

type usgsFeature struct {
	ID         string         `json:"id"`
	Properties usgsProperties `json:"properties"`
	Geometry   usgsGeometry   `json:"geometry"`
}
type usgsProperties struct {
	Mag     float64 `json:"mag"`
	Place   string  `json:"place"`
	Time    int64   `json:"time"` // unix millis
	Title   string  `json:"title"`
	Alert   string  `json:"alert"`   // PAGER level: green, yellow, orange, red
	Tsunami int     `json:"tsunami"` // 0 or 1
}
type usgsGeometry struct {
	Coordinates []float64 `json:"coordinates"` // [lon, lat, depth]
}

// USGS reads the USGS earthquake GeoJSON summary feed.
type USGS struct {
	feed
}

func NewUSGS(url string, client *http.Client) *USGS {
	return &USGS{feed: newFeed(url, client)}
}

func (u *USGS) Name() string { return "usgs" }

func (u *USGS) Fetch(ctx context.Context) ([]models.RiskRecord, error) {
	body, err := u.get(ctx, "application/geo+json")
	if err != nil {
		return nil, err
	}

	var data usgsResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("error decoding usgs body: %w", err)
	}

	records := make([]models.RiskRecord, 0, len(data.Features))
	for _, f := range data.Features {
		if f.ID == "" {
			continue
		}

		var lat, lng float64
		if len(f.Geometry.Coordinates) >= 2 {
			lng = f.Geometry.Coordinates[0]
			lat = f.Geometry.Coordinates[1]
		}

		var observed time.Time
		if f.Properties.Time > 0 {
			observed = time.UnixMilli(f.Properties.Time).UTC()
		}

		details := f.Properties.Title
		if f.Properties.Tsunami == 1 {
			details += " (tsunami possible)"
		}

		records = append(records, models.RiskRecord{
			ID:         "quake-" + f.ID,
			Source:     u.Name(),
			Location:   f.Properties.Place,
			Type:       models.HazardEarthquake,
			Risk:       risk.Seismic(f.Properties.Mag),
			Lat:        lat,
			Lng:        lng,
			Details:    details,
			Severity:   f.Properties.Alert,
			Time:       models.FormatTime(observed),
			ObservedAt: observed,
			Country:    risk.CountryFromLocation(f.Properties.Place),
		})
	}

	return records, nil
}
