package api

import (
	"github.com/sustainai/hazard-risk/internal/models"
	"github.com/sustainai/hazard-risk/internal/risk"
)

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}
type Feature struct {
	Type       string         `json:"type"`
	ID         string         `json:"id"`
	Geometry   *Geometry      `json:"geometry"`
	Properties map[string]any `json:"properties"`
}
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// toGeoJSON maps records to features. Records at the unknown-position
// sentinel get a null geometry.
func toGeoJSON(records []models.RiskRecord) FeatureCollection {
	features := make([]Feature, 0, len(records))

	for _, r := range records {
		f := Feature{
			Type: "Feature",
			ID:   r.ID,
			Properties: map[string]any{
				"id":                         r.ID,
				"type":                       r.Type,
				"risk":                       r.Risk,
				"level":                      risk.Level(r.Risk),
				"location":                   r.Location,
				"country":                    r.Country,
				"details":                    r.Details,
				"time":                       r.Time,
				"source":                     r.Source,
				"infrastructure_impact":      r.InfrastructureImpact,
				"resilience_recommendations": r.ResilienceRecommendations,
			},
		}
		if r.HasPosition() {
			f.Geometry = &Geometry{
				Type:        "Point",
				Coordinates: []float64{r.Lng, r.Lat},
			}
		}
		if r.Severity != "" {
			f.Properties["severity"] = r.Severity
		}
		if r.Urgency != "" {
			f.Properties["urgency"] = r.Urgency
		}
		if r.RadiusKm != nil {
			f.Properties["radius_km"] = *r.RadiusKm
		}
		features = append(features, f)
	}

	return FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}
