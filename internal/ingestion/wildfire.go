package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/sustainai/hazard-risk/internal/models"
	"github.com/sustainai/hazard-risk/internal/risk"
)

type wildfireResponse struct {
	Incidents []wildfireIncident `json:"incidents"`
}

type wildfireIncident struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Location  string  `json:"location"`
	Size      float64 `json:"size"` // acres
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	UpdatedAt string  `json:"updatedAt"`
}

// Wildfires reads an incident feed shaped as {"incidents": [...]}.
type Wildfires struct {
	feed
}

func NewWildfires(url string, client *http.Client) *Wildfires {
	return &Wildfires{feed: newFeed(url, client)}
}

func (w *Wildfires) Name() string { return "wildfire" }

func (w *Wildfires) Fetch(ctx context.Context) ([]models.RiskRecord, error) {
	body, err := w.get(ctx, "application/json")
	if err != nil {
		return nil, err
	}

	var data wildfireResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("error decoding wildfire body: %w", err)
	}

	records := make([]models.RiskRecord, 0, len(data.Incidents))
	for i, inc := range data.Incidents {
		id := inc.ID
		if id == "" {
			id = slug(inc.Name)
		}
		if id == "" {
			id = strconv.Itoa(i)
		}

		location := inc.Location
		if location == "" {
			location = inc.Name
		}

		score, radius := risk.Wildfire(inc.Size)
		observed := parseTime(inc.UpdatedAt)

		records = append(records, models.RiskRecord{
			ID:         "fire-" + id,
			Source:     w.Name(),
			Location:   location,
			Type:       models.HazardWildfire,
			Risk:       score,
			Lat:        inc.Latitude,
			Lng:        inc.Longitude,
			Details:    fmt.Sprintf("%s: %.0f acres burned", inc.Name, inc.Size),
			Time:       models.FormatTime(observed),
			ObservedAt: observed,
			RadiusKm:   &radius,
			Country:    risk.CountryFromLocation(location),
		})
	}

	return records, nil
}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
