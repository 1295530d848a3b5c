package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/sustainai/hazard-risk/internal/models"
	"github.com/sustainai/hazard-risk/internal/risk"
)

type nwsResponse struct {
	Features []nwsFeature `json:"features"`
}

type nwsFeature struct {
	ID         string        `json:"id"`
	Properties nwsProperties `json:"properties"`
	Geometry   *nwsGeometry  `json:"geometry"`
}

type nwsProperties struct {
	ID          string `json:"id"`
	Event       string `json:"event"`
	Severity    string `json:"severity"`
	Urgency     string `json:"urgency"`
	AreaDesc    string `json:"areaDesc"`
	Effective   string `json:"effective"`
	Headline    string `json:"headline"`
	Description string `json:"description"`
}

type nwsGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// NWS reads active alerts from a GeoJSON weather-alert feed.
type NWS struct {
	feed
}

func NewNWS(url string, client *http.Client) *NWS {
	return &NWS{feed: newFeed(url, client)}
}

func (n *NWS) Name() string { return "nws" }

func (n *NWS) Fetch(ctx context.Context) ([]models.RiskRecord, error) {
	body, err := n.get(ctx, "application/geo+json")
	if err != nil {
		return nil, err
	}

	var data nwsResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("error decoding nws body: %w", err)
	}

	records := make([]models.RiskRecord, 0, len(data.Features))
	for i, f := range data.Features {
		p := f.Properties

		id := p.ID
		if id == "" {
			id = f.ID
		}
		if id == "" {
			id = fmt.Sprintf("%d", i)
		}

		hazard := risk.ClassifyAlert(p.Event)
		lat, lng := centroid(f.Geometry)
		observed := parseTime(p.Effective)

		details := p.Headline
		if details == "" {
			details = p.Event
		}

		records = append(records, models.RiskRecord{
			ID:         "alert-" + id,
			Source:     n.Name(),
			Location:   p.AreaDesc,
			Type:       hazard,
			Risk:       risk.Weather(p.Severity, hazard, p.Urgency),
			Lat:        lat,
			Lng:        lng,
			Details:    details,
			Severity:   p.Severity,
			Urgency:    p.Urgency,
			Time:       models.FormatTime(observed),
			ObservedAt: observed,
			Country:    alertCountry(p.AreaDesc),
		})
	}

	return records, nil
}

// alertCountry handles area lists like "Dallas, TX; Tarrant, TX".
func alertCountry(areaDesc string) string {
	first, _, _ := strings.Cut(areaDesc, ";")
	return risk.CountryFromLocation(first)
}

// centroid averages the outer ring vertices of a Point, Polygon or
// MultiPolygon geometry. Missing or unsupported geometry gives 0,0.
func centroid(g *nwsGeometry) (float64, float64) {
	if g == nil || len(g.Coordinates) == 0 {
		return 0, 0
	}

	var ring [][]float64
	switch g.Type {
	case "Point":
		var pt []float64
		if err := json.Unmarshal(g.Coordinates, &pt); err != nil || len(pt) < 2 {
			return 0, 0
		}
		return pt[1], pt[0]
	case "Polygon":
		var poly [][][]float64
		if err := json.Unmarshal(g.Coordinates, &poly); err != nil || len(poly) == 0 {
			return 0, 0
		}
		ring = poly[0]
	case "MultiPolygon":
		var multi [][][][]float64
		if err := json.Unmarshal(g.Coordinates, &multi); err != nil {
			return 0, 0
		}
		for _, poly := range multi {
			if len(poly) > 0 {
				ring = append(ring, poly[0]...)
			}
		}
	default:
		return 0, 0
	}

	var sumLat, sumLng float64
	n := 0
	for _, pt := range ring {
		if len(pt) < 2 {
			continue
		}
		sumLng += pt[0]
		sumLat += pt[1]
		n++
	}
	if n == 0 {
		return 0, 0
	}
	return sumLat / float64(n), sumLng / float64(n)
}
