package chat

import (
	"fmt"
	"strings"
)

// MissingParam names one required parameter the turn still lacks.
type MissingParam struct {
	Field   string
	Example string
}

// ValidateKeywordParams checks the three parameters the keyword-insight
// call requires. The result is stable: supplying one missing parameter
// never makes another appear.
func ValidateKeywordParams(p ResolvedParams) []MissingParam {
	var missing []MissingParam
	if len(p.SeedKeywords) == 0 {
		missing = append(missing, MissingParam{Field: "seed keywords", Example: `"running shoes"`})
	}
	if strings.TrimSpace(p.Country) == "" {
		missing = append(missing, MissingParam{Field: "country", Example: `"US"`})
	}
	if !p.HasPeriod {
		missing = append(missing, MissingParam{Field: "time period", Example: `"last 30 days"`})
	}
	return missing
}

// ClarificationFor phrases a request for only the missing parameters,
// with one example each.
func ClarificationFor(missing []MissingParam) string {
	if len(missing) == 0 {
		return ""
	}
	parts := make([]string, 0, len(missing))
	for _, m := range missing {
		parts = append(parts, fmt.Sprintf("the %s (for example %s)", m.Field, m.Example))
	}
	var list string
	switch len(parts) {
	case 1:
		list = parts[0]
	case 2:
		list = parts[0] + " and " + parts[1]
	default:
		list = strings.Join(parts[:len(parts)-1], ", ") + ", and " + parts[len(parts)-1]
	}
	return "To look up keyword insights I still need " + list + "."
}
