package risk

import (
	"math"
	"strings"

	"github.com/sustainai/hazard-risk/internal/models"
)

const (
	minRisk = 0
	maxRisk = 100

	cycloneRisk = 75
)

// severityBase maps provider alert severity to a base risk.
var severityBase = map[string]int{
	"Extreme":  90,
	"Severe":   75,
	"Moderate": 60,
	"Minor":    40,
	"Unknown":  30,
}

// Clamp bounds v to [0,100].
func Clamp(v int) int {
	if v < minRisk {
		return minRisk
	}
	if v > maxRisk {
		return maxRisk
	}
	return v
}

// Seismic scales an earthquake magnitude to risk: round(m*20), capped at 100.
func Seismic(magnitude float64) int {
	if math.IsNaN(magnitude) || magnitude <= 0 {
		return minRisk
	}
	scaled := math.Floor(magnitude*20 + 0.5)
	if scaled > maxRisk {
		return maxRisk
	}
	return Clamp(int(scaled))
}

// SeverityBase returns the base risk for an alert severity; unrecognised
// severities score as Unknown.
func SeverityBase(severity string) int {
	if base, ok := severityBase[severity]; ok {
		return base
	}
	return severityBase["Unknown"]
}

// Weather scores a weather alert from its severity, then applies the
// hazard-type adjustment and cap.
func Weather(severity string, t models.HazardType, urgency string) int {
	base := SeverityBase(severity)

	switch t {
	case models.HazardCyclone:
		base = min(base+15, 95)
	case models.HazardFlood:
		base = min(base+10, 90)
	case models.HazardWildfire:
		if urgency == "Immediate" {
			base = min(base+20, 95)
		} else {
			base = min(base+10, 95)
		}
	case models.HazardHeatwave:
		base = min(base+5, 85)
	}

	return Clamp(base)
}

// ClassifyAlert maps an alert event name to a hazard type. Keywords are
// checked in priority order; anything unmatched is a severe storm.
func ClassifyAlert(event string) models.HazardType {
	e := strings.ToLower(event)
	switch {
	case strings.Contains(e, "flood"):
		return models.HazardFlood
	case strings.Contains(e, "hurricane"), strings.Contains(e, "tornado"):
		return models.HazardCyclone
	case strings.Contains(e, "heat"):
		return models.HazardHeatwave
	case strings.Contains(e, "fire"):
		return models.HazardWildfire
	default:
		return models.HazardSevereStorm
	}
}

func Flood(severity string) int {
	switch severity {
	case "Severe":
		return 80
	case "Moderate":
		return 60
	default:
		return 40
	}
}

// Wildfire scores a fire by its size in acres and returns the approximate
// affected radius in kilometres.
func Wildfire(acres float64) (int, float64) {
	if math.IsNaN(acres) || acres < 0 {
		acres = 0
	}

	radius := math.Sqrt(acres) * 0.2

	switch {
	case acres > 1000:
		return 85, radius
	case acres > 500:
		return 70, radius
	default:
		return 55, radius
	}
}

// Cyclone is a flat score; the scraped source carries no intensity.
func Cyclone() int {
	return cycloneRisk
}

// Level buckets a risk score for display.
func Level(risk int) string {
	switch {
	case risk < 40:
		return "low"
	case risk < 60:
		return "moderate"
	case risk < 80:
		return "high"
	default:
		return "critical"
	}
}
