package models

import "time"

// TimeLayout is the display format used for RiskRecord.Time.
const TimeLayout = "Jan 2, 2006 3:04 PM MST"

type RiskRecord struct {
	ID         string     `json:"id"`       // "<prefix>-<provider id>", e.g. "quake-us7000abcd"
	Source     string     `json:"source"`   // fetcher name, e.g. "usgs"
	Location   string     `json:"location"` // provider text, not normalized
	Type       HazardType `json:"type"`
	Risk       int        `json:"risk"` // 0-100
	Lat        float64    `json:"lat"`  // 0,0 means unknown position
	Lng        float64    `json:"lng"`
	Details    string     `json:"details"`
	Severity   string     `json:"severity,omitempty"`
	Urgency    string     `json:"urgency,omitempty"`
	Time       string     `json:"time"`
	ObservedAt time.Time  `json:"observed_at"`
	RadiusKm   *float64   `json:"radius,omitempty"`
	Country    string     `json:"country,omitempty"`

	InfrastructureImpact      []string `json:"infrastructure_impact"`
	ResilienceRecommendations []string `json:"resilience_recommendations"`
}

// HasPosition reports whether the record carries real coordinates
// rather than the 0,0 sentinel.
func (r *RiskRecord) HasPosition() bool {
	return r.Lat != 0 || r.Lng != 0
}

// Clone returns a deep copy so callers can hand records out without
// sharing the backing slices.
func (r RiskRecord) Clone() RiskRecord {
	c := r
	if r.RadiusKm != nil {
		radius := *r.RadiusKm
		c.RadiusKm = &radius
	}
	if r.InfrastructureImpact != nil {
		c.InfrastructureImpact = append([]string(nil), r.InfrastructureImpact...)
	}
	if r.ResilienceRecommendations != nil {
		c.ResilienceRecommendations = append([]string(nil), r.ResilienceRecommendations...)
	}
	return c
}

// FormatTime renders t in the display layout, or "" for the zero time.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimeLayout)
}

type InfrastructureAsset struct {
	Type            string   `json:"type"`
	Name            string   `json:"name"`
	Lat             float64  `json:"lat"`
	Lng             float64  `json:"lng"`
	ResilienceScore int      `json:"resilience_score"` // 0-100
	Vulnerabilities []string `json:"vulnerabilities"`
}
