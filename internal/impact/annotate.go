package impact

import (
	"math"

	"github.com/sustainai/hazard-risk/internal/models"
)

// NearbyRadiusDeg is the raw-degree radius used to decide whether a hazard is
// near a point. Degrees are not uniform in distance; the lookup is coarse.
const NearbyRadiusDeg = 5.0

// ImpactsFor returns a fresh copy of the infrastructure impacts for t.
func ImpactsFor(t models.HazardType) []string {
	if impacts, ok := infrastructureImpacts[t]; ok {
		return clone(impacts)
	}
	return clone(fallbackImpact)
}

// RecommendationsFor returns a fresh copy of the resilience recommendations for t.
func RecommendationsFor(t models.HazardType) []string {
	if recs, ok := resilienceRecommendations[t]; ok {
		return clone(recs)
	}
	return clone(fallbackRecommendation)
}

// Annotate returns copies of records with their impact and recommendation
// lists replaced by the table entries for each record's type. The input is
// not modified, and annotating twice yields the same result as once.
func Annotate(records []models.RiskRecord) []models.RiskRecord {
	out := make([]models.RiskRecord, len(records))
	for i, r := range records {
		c := r.Clone()
		c.InfrastructureImpact = ImpactsFor(r.Type)
		c.ResilienceRecommendations = RecommendationsFor(r.Type)
		out[i] = c
	}
	return out
}

// DegreeDistance is the Euclidean distance between two points in raw degrees.
func DegreeDistance(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := lat1 - lat2
	dLng := lng1 - lng2
	return math.Sqrt(dLat*dLat + dLng*dLng)
}

// Nearby returns the records strictly closer than radiusDeg to lat,lng.
func Nearby(records []models.RiskRecord, lat, lng, radiusDeg float64) []models.RiskRecord {
	var near []models.RiskRecord
	for _, r := range records {
		if DegreeDistance(r.Lat, r.Lng, lat, lng) < radiusDeg {
			near = append(near, r)
		}
	}
	return near
}

// RecommendationsNear collects the recommendations for every hazard within
// NearbyRadiusDeg of lat,lng. The result holds each recommendation once, in
// first-seen order; order carries no meaning. It is empty, never nil, when no
// hazard is near.
func RecommendationsNear(records []models.RiskRecord, lat, lng float64) []string {
	seen := make(map[string]struct{})
	recs := make([]string, 0)

	for _, r := range Nearby(records, lat, lng, NearbyRadiusDeg) {
		for _, rec := range RecommendationsFor(r.Type) {
			if _, ok := seen[rec]; ok {
				continue
			}
			seen[rec] = struct{}{}
			recs = append(recs, rec)
		}
	}
	return recs
}

func clone(s []string) []string {
	return append([]string(nil), s...)
}
