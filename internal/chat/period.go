package chat

import (
	"strings"
	"time"

	"adpilot/internal/reporting"
)

const dateLayout = "2006-01-02"

// periodPresets maps period keywords onto reporting presets.
var periodPresets = map[string]string{
	"last 7 days":    "7d",
	"past 7 days":    "7d",
	"last week":      "7d",
	"past week":      "7d",
	"7d":             "7d",
	"last 30 days":   "30d",
	"past 30 days":   "30d",
	"last month":     "30d",
	"past month":     "30d",
	"30d":            "30d",
	"last 90 days":   "90d",
	"last 3 months":  "90d",
	"last quarter":   "90d",
	"90d":            "90d",
	"last 365 days":  "365d",
	"last 12 months": "365d",
	"last year":      "365d",
	"past year":      "365d",
	"365d":           "365d",
}

// ParsePeriod turns a period keyword or explicit date pair into a
// reporting window. The second return reports success.
func ParsePeriod(keyword, start, end string, now time.Time) (reporting.Period, bool) {
	if start != "" || end != "" {
		if _, err := time.Parse(dateLayout, start); err != nil {
			return reporting.Period{}, false
		}
		if end == "" {
			end = now.Format(dateLayout)
		} else if _, err := time.Parse(dateLayout, end); err != nil {
			return reporting.Period{}, false
		}
		return reporting.Period{Start: start, End: end}, true
	}

	kw := strings.ToLower(strings.TrimSpace(keyword))
	if kw == "" {
		return reporting.Period{}, false
	}
	if preset, ok := periodPresets[kw]; ok {
		return reporting.Period{Preset: preset}, true
	}
	switch kw {
	case "yesterday":
		d := now.AddDate(0, 0, -1).Format(dateLayout)
		return reporting.Period{Start: d, End: d}, true
	case "today":
		d := now.Format(dateLayout)
		return reporting.Period{Start: d, End: d}, true
	case "this month":
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return reporting.Period{Start: first.Format(dateLayout), End: now.Format(dateLayout)}, true
	}
	return reporting.Period{}, false
}
