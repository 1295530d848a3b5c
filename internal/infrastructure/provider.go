package infrastructure

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/sustainai/hazard-risk/internal/models"
	"github.com/sustainai/hazard-risk/internal/risk"
)

// Provider lists infrastructure assets around a coordinate.
type Provider interface {
	Nearby(ctx context.Context, lat, lng float64) ([]models.InfrastructureAsset, error)
}

// spread is the maximum offset in degrees of a synthetic asset from the
// requested point.
const spread = 0.05

type assetKind struct {
	typ             string
	label           string
	baseScore       int
	vulnerabilities []string
}

var assetKinds = []assetKind{
	{"power_substation", "Substation", 70, []string{"Flood-prone switchgear", "Single transformer feed"}},
	{"water_treatment", "Water Treatment Plant", 65, []string{"Low-lying intake", "Grid-dependent pumps"}},
	{"hospital", "General Hospital", 75, []string{"Limited backup generator runtime"}},
	{"bridge", "River Bridge", 60, []string{"Aging expansion joints", "Scour-exposed piers"}},
	{"telecom_tower", "Telecom Tower", 68, []string{"Wind-exposed antenna mounts"}},
	{"shelter", "Community Shelter", 72, []string{"No independent water supply"}},
}

// SyntheticProvider fabricates a stable set of assets for any coordinate. The
// same point (to two decimals) always yields the same assets.
type SyntheticProvider struct{}

func (SyntheticProvider) Nearby(ctx context.Context, lat, lng float64) ([]models.InfrastructureAsset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewPCG(seed(lat, lng), 0x5eed))

	assets := make([]models.InfrastructureAsset, 0, len(assetKinds))
	for i, k := range assetKinds {
		vulns := make([]string, len(k.vulnerabilities))
		copy(vulns, k.vulnerabilities)

		assets = append(assets, models.InfrastructureAsset{
			Type:            k.typ,
			Name:            fmt.Sprintf("%s #%d", k.label, i+1+rng.IntN(90)),
			Lat:             lat + (rng.Float64()*2-1)*spread,
			Lng:             lng + (rng.Float64()*2-1)*spread,
			ResilienceScore: risk.Clamp(k.baseScore + rng.IntN(21) - 10),
			Vulnerabilities: vulns,
		})
	}
	return assets, nil
}

func seed(lat, lng float64) uint64 {
	la := int64(math.Round(lat * 100))
	lo := int64(math.Round(lng * 100))
	return uint64(la)<<32 ^ uint64(lo)&0xffffffff
}
