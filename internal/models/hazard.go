package models

import "strings"

type HazardType string

const (
	HazardEarthquake  HazardType = "Earthquake"
	HazardFlood       HazardType = "Flood"
	HazardCyclone     HazardType = "Cyclone"
	HazardWildfire    HazardType = "Wildfire"
	HazardHeatwave    HazardType = "Heatwave"
	HazardSevereStorm HazardType = "SevereStorm"
)

// HazardTypes lists every known hazard type in display order.
var HazardTypes = []HazardType{
	HazardEarthquake,
	HazardFlood,
	HazardCyclone,
	HazardWildfire,
	HazardHeatwave,
	HazardSevereStorm,
}

func (t HazardType) String() string {
	return string(t)
}

// Valid reports whether t is one of the six known hazard types.
func (t HazardType) Valid() bool {
	for _, known := range HazardTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseHazardType matches s case-insensitively against the known types.
// "severe_storm" and "severe-storm" are accepted for SevereStorm.
func ParseHazardType(s string) (HazardType, bool) {
	norm := strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(s))
	for _, t := range HazardTypes {
		if strings.ToLower(string(t)) == norm {
			return t, true
		}
	}
	return "", false
}
