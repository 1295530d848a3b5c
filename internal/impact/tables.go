package impact

import "github.com/sustainai/hazard-risk/internal/models"

var infrastructureImpacts = map[models.HazardType][]string{
	models.HazardEarthquake: {
		"Structural damage to buildings and bridges",
		"Ruptured water and gas mains",
		"Power grid outages from damaged substations",
		"Road and rail closures from surface rupture or landslides",
	},
	models.HazardFlood: {
		"Inundated roads and underpasses",
		"Contaminated drinking water supply",
		"Flooded electrical substations",
		"Overwhelmed stormwater and sewage systems",
	},
	models.HazardCyclone: {
		"Downed power lines and transmission towers",
		"Wind damage to roofs and facades",
		"Storm surge flooding of coastal infrastructure",
		"Port and airport closures",
	},
	models.HazardWildfire: {
		"Destroyed power distribution lines",
		"Smoke damage to HVAC and air intake systems",
		"Road closures and evacuation route congestion",
		"Water supply strain from firefighting demand",
	},
	models.HazardHeatwave: {
		"Peak electricity demand and rolling blackouts",
		"Rail track buckling and road surface damage",
		"Reduced cooling efficiency at power plants",
		"Increased load on healthcare facilities",
	},
	models.HazardSevereStorm: {
		"Localized power outages",
		"Fallen trees blocking roads",
		"Hail damage to vehicles and solar installations",
		"Flash flooding of low-lying streets",
	},
}

var resilienceRecommendations = map[models.HazardType][]string{
	models.HazardEarthquake: {
		"Retrofit critical buildings to current seismic codes",
		"Install automatic gas shut-off valves",
		"Secure heavy equipment and shelving",
		"Maintain backup water and power for 72 hours",
	},
	models.HazardFlood: {
		"Elevate electrical equipment above flood level",
		"Install backflow preventers on drains",
		"Deploy temporary flood barriers",
		"Keep emergency pumps on standby",
	},
	models.HazardCyclone: {
		"Install storm shutters and reinforce roofs",
		"Trim trees near power lines",
		"Pre-position generators and fuel",
		"Prepare coastal evacuation plans",
	},
	models.HazardWildfire: {
		"Create defensible space around facilities",
		"Use fire-resistant building materials",
		"Install high-efficiency air filtration",
		"Underground vulnerable power lines",
	},
	models.HazardHeatwave: {
		"Install cool roofs and shading",
		"Shift non-critical loads off peak hours",
		"Open cooling centers for vulnerable residents",
		"Monitor equipment temperatures continuously",
	},
	models.HazardSevereStorm: {
		"Secure loose outdoor equipment",
		"Inspect drainage systems before storm season",
		"Install surge protection on critical circuits",
		"Maintain emergency communication plans",
	},
}

var (
	fallbackImpact         = []string{"General infrastructure disruption possible"}
	fallbackRecommendation = []string{"Follow local emergency management guidance"}
)
