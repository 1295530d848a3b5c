package risk

import "strings"

const unitedStates = "United States"

var usStates = map[string]bool{
	"alabama": true, "alaska": true, "arizona": true, "arkansas": true, "california": true,
	"colorado": true, "connecticut": true, "delaware": true, "florida": true, "georgia": true,
	"hawaii": true, "idaho": true, "illinois": true, "indiana": true, "iowa": true,
	"kansas": true, "kentucky": true, "louisiana": true, "maine": true, "maryland": true,
	"massachusetts": true, "michigan": true, "minnesota": true, "mississippi": true,
	"missouri": true, "montana": true, "nebraska": true, "nevada": true, "new hampshire": true,
	"new jersey": true, "new mexico": true, "new york": true, "north carolina": true,
	"north dakota": true, "ohio": true, "oklahoma": true, "oregon": true, "pennsylvania": true,
	"rhode island": true, "south carolina": true, "south dakota": true, "tennessee": true,
	"texas": true, "utah": true, "vermont": true, "virginia": true, "washington": true,
	"west virginia": true, "wisconsin": true, "wyoming": true, "puerto rico": true,
}

var usPostalCodes = map[string]bool{
	"AL": true, "AK": true, "AZ": true, "AR": true, "CA": true, "CO": true, "CT": true,
	"DE": true, "FL": true, "GA": true, "HI": true, "ID": true, "IL": true, "IN": true,
	"IA": true, "KS": true, "KY": true, "LA": true, "ME": true, "MD": true, "MA": true,
	"MI": true, "MN": true, "MS": true, "MO": true, "MT": true, "NE": true, "NV": true,
	"NH": true, "NJ": true, "NM": true, "NY": true, "NC": true, "ND": true, "OH": true,
	"OK": true, "OR": true, "PA": true, "RI": true, "SC": true, "SD": true, "TN": true,
	"TX": true, "UT": true, "VT": true, "VA": true, "WA": true, "WV": true, "WI": true,
	"WY": true, "PR": true,
}

// CountryFromLocation guesses a country from free-text place names such as
// "10 km SSW of Ridgecrest, CA" or "Kermadec Islands, New Zealand".
// It returns "" when nothing usable is found.
func CountryFromLocation(location string) string {
	loc := strings.TrimSpace(location)
	if loc == "" {
		return ""
	}

	if strings.HasSuffix(strings.ToLower(loc), "region") {
		loc = strings.TrimSpace(loc[:len(loc)-len("region")])
	}

	last := loc
	if i := strings.LastIndex(loc, ","); i >= 0 {
		last = strings.TrimSpace(loc[i+1:])
	} else if i := strings.Index(strings.ToLower(loc), " of "); i >= 0 {
		last = strings.TrimSpace(loc[i+len(" of "):])
	}

	if last == "" {
		return ""
	}
	if usPostalCodes[last] || usStates[strings.ToLower(last)] {
		return unitedStates
	}
	return last
}
