package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sustainai/hazard-risk/internal/models"
)

func TestSeismic(t *testing.T) {
	tests := []struct {
		mag  float64
		want int
	}{
		{0, 0},
		{-1.2, 0},
		{1.0, 20},
		{2.47, 49},
		{4.5, 90},
		{5.0, 100},
		{7.8, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Seismic(tt.mag), "magnitude %v", tt.mag)
	}
}

func TestSeismic_MonotonicAndBounded(t *testing.T) {
	prev := Seismic(0)
	for m := 0.0; m <= 10.0; m += 0.01 {
		got := Seismic(m)
		assert.GreaterOrEqual(t, got, prev, "not monotonic at %v", m)
		assert.GreaterOrEqual(t, got, 0)
		assert.LessOrEqual(t, got, 100)
		prev = got
	}
}

func TestWeather_Adjustments(t *testing.T) {
	tests := []struct {
		name     string
		severity string
		typ      models.HazardType
		urgency  string
		want     int
	}{
		{"tornado warning severe", "Severe", models.HazardCyclone, "", 90},
		{"cyclone capped", "Extreme", models.HazardCyclone, "", 95},
		{"flood capped", "Extreme", models.HazardFlood, "", 90},
		{"flood moderate", "Moderate", models.HazardFlood, "", 70},
		{"wildfire expected", "Severe", models.HazardWildfire, "Expected", 85},
		{"wildfire immediate", "Severe", models.HazardWildfire, "Immediate", 95},
		{"wildfire immediate minor", "Minor", models.HazardWildfire, "Immediate", 60},
		{"heat capped", "Extreme", models.HazardHeatwave, "", 85},
		{"heat minor", "Minor", models.HazardHeatwave, "", 45},
		{"storm unchanged", "Moderate", models.HazardSevereStorm, "", 60},
		{"unrecognised severity", "Catastrophic", models.HazardSevereStorm, "", 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Weather(tt.severity, tt.typ, tt.urgency))
		})
	}
}

func TestWeather_RangeAndOrdering(t *testing.T) {
	order := []string{"Unknown", "Minor", "Moderate", "Severe", "Extreme"}
	for _, typ := range models.HazardTypes {
		for _, urgency := range []string{"", "Immediate", "Future"} {
			prev := 0
			for _, sev := range order {
				got := Weather(sev, typ, urgency)
				assert.GreaterOrEqual(t, got, 30, "%s/%s/%s", sev, typ, urgency)
				assert.LessOrEqual(t, got, 95, "%s/%s/%s", sev, typ, urgency)
				assert.GreaterOrEqual(t, got, prev, "%s/%s/%s", sev, typ, urgency)
				prev = got
			}
		}
	}
}

func TestClassifyAlert(t *testing.T) {
	tests := map[string]models.HazardType{
		"Flash Flood Warning":         models.HazardFlood,
		"Coastal Flood Advisory":      models.HazardFlood,
		"Tornado Warning":             models.HazardCyclone,
		"Hurricane Watch":             models.HazardCyclone,
		"Excessive Heat Warning":      models.HazardHeatwave,
		"Red Flag Warning":            models.HazardSevereStorm,
		"Fire Weather Watch":          models.HazardWildfire,
		"Severe Thunderstorm Warning": models.HazardSevereStorm,
		"":                            models.HazardSevereStorm,
		"Hurricane Flood Statement":   models.HazardFlood,
	}
	for event, want := range tests {
		assert.Equal(t, want, ClassifyAlert(event), "event %q", event)
	}
}

func TestFlood(t *testing.T) {
	assert.Equal(t, 80, Flood("Severe"))
	assert.Equal(t, 60, Flood("Moderate"))
	assert.Equal(t, 40, Flood("Minor"))
	assert.Equal(t, 40, Flood(""))
	assert.Equal(t, 40, Flood("severe"))
}

func TestWildfire(t *testing.T) {
	score, radius := Wildfire(2500)
	assert.Equal(t, 85, score)
	assert.InDelta(t, 10.0, radius, 1e-9)

	score, _ = Wildfire(1000)
	assert.Equal(t, 70, score)

	score, radius = Wildfire(400)
	assert.Equal(t, 55, score)
	assert.InDelta(t, 4.0, radius, 1e-9)

	score, radius = Wildfire(-5)
	assert.Equal(t, 55, score)
	assert.Zero(t, radius)
}

func TestCycloneAndClamp(t *testing.T) {
	assert.Equal(t, 75, Cyclone())
	assert.Equal(t, 0, Clamp(-3))
	assert.Equal(t, 100, Clamp(250))
	assert.Equal(t, 42, Clamp(42))
}

func TestLevel(t *testing.T) {
	assert.Equal(t, "low", Level(30))
	assert.Equal(t, "moderate", Level(55))
	assert.Equal(t, "high", Level(75))
	assert.Equal(t, "critical", Level(90))
}

func TestCountryFromLocation(t *testing.T) {
	tests := map[string]string{
		"10 km SSW of Ridgecrest, CA":   "United States",
		"Kermadec Islands, New Zealand": "New Zealand",
		"Anchorage, Alaska":             "United States",
		"south of the Fiji Islands":     "the Fiji Islands",
		"Tonga region":                  "Tonga",
		"":                              "",
		"Mid-Atlantic Ridge":            "Mid-Atlantic Ridge",
	}
	for in, want := range tests {
		assert.Equal(t, want, CountryFromLocation(in), "location %q", in)
	}
}
