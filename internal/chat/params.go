package chat

import (
	"strings"
	"time"

	"adpilot/internal/reporting"
)

// ParameterSet is the raw extraction result for one utterance. Field
// names mirror the extraction schema; a zero value means the model
// found nothing.
type ParameterSet struct {
	Entities      []string `json:"entities_mentioned"`
	Country       string   `json:"country"`
	PeriodKeyword string   `json:"period_keyword"`
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date"`
	HasTimePeriod bool     `json:"has_time_period"`
	SeedKeywords  []string `json:"seed_keywords"`
	Metrics       []string `json:"metrics_requested"`
}

// ModuleContext carries defaults handed over by the hosting module.
type ModuleContext struct {
	AccountID    string   `json:"account_id"`
	SeedKeywords []string `json:"seed_keywords,omitempty"`
	Country      string   `json:"country,omitempty"`
	Period       string   `json:"period,omitempty"`
}

// ResolvedParams is the merged view a single turn operates on. It is
// serialized into the session record while a selection is pending.
type ResolvedParams struct {
	Entities     []string         `json:"entities,omitempty"`
	Country      string           `json:"country,omitempty"`
	Period       reporting.Period `json:"period,omitempty"`
	HasPeriod    bool             `json:"has_period,omitempty"`
	SeedKeywords []string         `json:"seed_keywords,omitempty"`
	Metrics      []string         `json:"metrics,omitempty"`
}

// DefaultCountry applies when neither the utterance nor the module
// context names one.
const DefaultCountry = "US"

// Resolve merges an extracted set with the module context. Utterance
// values win over module context, which wins over defaults.
func Resolve(extracted ParameterSet, mc ModuleContext, now time.Time) ResolvedParams {
	out := ResolvedParams{
		Entities: extracted.Entities,
		Metrics:  extracted.Metrics,
	}

	out.Country = normalizeCountry(extracted.Country)
	if out.Country == "" {
		out.Country = normalizeCountry(mc.Country)
	}
	if out.Country == "" {
		out.Country = DefaultCountry
	}

	out.SeedKeywords = cleanKeywords(extracted.SeedKeywords)
	if len(out.SeedKeywords) == 0 {
		out.SeedKeywords = cleanKeywords(mc.SeedKeywords)
	}

	if p, ok := ParsePeriod(extracted.PeriodKeyword, extracted.StartDate, extracted.EndDate, now); ok {
		out.Period, out.HasPeriod = p, true
	} else if p, ok := ParsePeriod(mc.Period, "", "", now); ok {
		out.Period, out.HasPeriod = p, true
	}
	return out
}

// mergeParameterSets overlays a clarification reply on the extraction
// that triggered it. Reply fields win wherever the model found
// something; earlier values fill the rest.
func mergeParameterSets(base, over ParameterSet) ParameterSet {
	out := base
	if len(over.Entities) > 0 {
		out.Entities = over.Entities
	}
	if over.Country != "" {
		out.Country = over.Country
	}
	if over.PeriodKeyword != "" {
		out.PeriodKeyword = over.PeriodKeyword
	}
	if over.StartDate != "" {
		out.StartDate = over.StartDate
	}
	if over.EndDate != "" {
		out.EndDate = over.EndDate
	}
	if over.HasTimePeriod {
		out.HasTimePeriod = true
	}
	if len(over.SeedKeywords) > 0 {
		out.SeedKeywords = over.SeedKeywords
	}
	if len(over.Metrics) > 0 {
		out.Metrics = over.Metrics
	}
	return out
}

// normalizeCountry folds UI sentinel spellings onto canonical names.
// The module context sends "World Wide earth" for the worldwide choice.
func normalizeCountry(c string) string {
	c = strings.TrimSpace(c)
	switch strings.ToLower(c) {
	case "world wide earth", "worldwide", "world wide":
		return "World Wide"
	}
	return c
}

func cleanKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	for _, k := range in {
		k = strings.TrimSpace(k)
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}
