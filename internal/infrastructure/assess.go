package infrastructure

import (
	"slices"

	"github.com/sustainai/hazard-risk/internal/impact"
	"github.com/sustainai/hazard-risk/internal/models"
	"github.com/sustainai/hazard-risk/internal/risk"
)

// Assess returns copies of assets with resilience scores lowered by every
// hazard within impact.NearbyRadiusDeg of the asset. Each nearby hazard type
// adds one vulnerability entry.
func Assess(assets []models.InfrastructureAsset, records []models.RiskRecord) []models.InfrastructureAsset {
	out := make([]models.InfrastructureAsset, len(assets))
	for i, a := range assets {
		a.Vulnerabilities = slices.Clone(a.Vulnerabilities)

		penalty := 0
		for _, r := range impact.Nearby(records, a.Lat, a.Lng, impact.NearbyRadiusDeg) {
			penalty += r.Risk / 5
			v := exposure(r.Type)
			if !slices.Contains(a.Vulnerabilities, v) {
				a.Vulnerabilities = append(a.Vulnerabilities, v)
			}
		}
		a.ResilienceScore = risk.Clamp(a.ResilienceScore - penalty)
		out[i] = a
	}
	return out
}

func exposure(t models.HazardType) string {
	return "Exposed to active " + t.String() + " hazard"
}
