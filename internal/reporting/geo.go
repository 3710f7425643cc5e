package reporting

import "strings"

// geoTargets maps country names to Google Ads geo target constants.
// "World Wide" intentionally maps to the empty constant (no geo filter).
var geoTargets = map[string]string{
	"world wide":     "",
	"united states":  "2840",
	"us":             "2840",
	"usa":            "2840",
	"united kingdom": "2826",
	"uk":             "2826",
	"canada":         "2124",
	"australia":      "2036",
	"germany":        "2276",
	"france":         "2250",
	"india":          "2356",
	"japan":          "2392",
	"singapore":      "2702",
	"brazil":         "2076",
	"mexico":         "2484",
	"netherlands":    "2528",
	"spain":          "2724",
	"italy":          "2380",
	"sri lanka":      "2144",
	"indonesia":      "2360",
	"philippines":    "2608",
	"thailand":       "2764",
	"vietnam":        "2704",
	"malaysia":       "2458",
	"pakistan":       "2586",
	"bangladesh":     "2050",
	"new zealand":    "2554",
	"south africa":   "2710",
	"nigeria":        "2566",
	"egypt":          "2818",
	"uae":            "2784",
	"saudi arabia":   "2682",
	"turkey":         "2792",
	"poland":         "2616",
	"sweden":         "2752",
	"norway":         "2578",
	"denmark":        "2208",
	"finland":        "2246",
	"switzerland":    "2756",
	"austria":        "2040",
	"belgium":        "2056",
	"ireland":        "2372",
	"portugal":       "2620",
	"argentina":      "2032",
	"chile":          "2152",
	"colombia":       "2170",
	"south korea":    "2410",
	"china":          "2156",
	"hong kong":      "2344",
	"taiwan":         "2158",
	"israel":         "2376",
	"russia":         "2643",
	"ukraine":        "2804",
}

// DefaultGeoTarget applies to countries missing from the table. An
// empty constant would mean worldwide, so unknown countries must not
// fall through to it.
const DefaultGeoTarget = "2144"

// GeoTarget resolves a country name to its geo constant. The second
// return reports whether the country is known.
func GeoTarget(country string) (string, bool) {
	c, ok := geoTargets[strings.ToLower(strings.TrimSpace(country))]
	return c, ok
}

// Keyword-insight timeframe presets.
const (
	TimeframeLastMonth    = "1_month"
	TimeframeLast3Months  = "3_months"
	TimeframeLast12Months = "12_months"
	TimeframeCustom       = "custom"
)

// TimeframeFor maps a resolved period onto the keyword-insight
// timeframe presets.
func TimeframeFor(p Period) string {
	switch p.Preset {
	case "7d", "30d":
		return TimeframeLastMonth
	case "90d":
		return TimeframeLast3Months
	case "365d":
		return TimeframeLast12Months
	}
	if p.Start != "" || p.End != "" {
		return TimeframeCustom
	}
	return TimeframeLastMonth
}
