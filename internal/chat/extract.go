package chat

import (
	"context"
	"encoding/json"

	"adpilot/internal/llm"
	"adpilot/internal/llm/prompt"
	"adpilot/internal/logging"
)

// Extractor pulls a ParameterSet out of a free-text question with one
// generation-service call per turn. Extraction failures degrade to an
// empty set; downstream validation asks the user instead.
type Extractor struct {
	llm    llm.Client
	prompt string
	log    *logging.Logger
}

func NewExtractor(client llm.Client, log *logging.Logger) (*Extractor, error) {
	if log == nil {
		log = logging.Nop()
	}
	p, err := prompt.Build(prompt.Spec{
		Purpose: "Extract advertising parameters from one user question about an ad account.",
		Background: "The question may reference campaigns, ad sets or ads by name or ID, " +
			"a reporting window, a country, seed keywords for search-intent analysis, " +
			"and specific metrics.",
		OutputFields: []prompt.Field{
			{Name: "entities_mentioned", Type: "string[]", Required: false, Description: "campaign/adset/ad names or IDs quoted or named in the question"},
			{Name: "country", Type: "string", Required: false, Description: "country name if one is mentioned, else empty"},
			{Name: "period_keyword", Type: "string", Required: false, Description: "verbatim period phrase, e.g. \"last 7 days\", \"this month\""},
			{Name: "start_date", Type: "string", Required: false, Description: "YYYY-MM-DD when an explicit start date is given"},
			{Name: "end_date", Type: "string", Required: false, Description: "YYYY-MM-DD when an explicit end date is given"},
			{Name: "has_time_period", Type: "boolean", Required: true, Description: "true when any time reference appears"},
			{Name: "seed_keywords", Type: "string[]", Required: false, Description: "seed keywords for keyword/search-intent questions"},
			{Name: "metrics_requested", Type: "string[]", Required: false, Description: "metric or breakdown names the user asked about"},
		},
		Constraints: []string{
			"Return a single JSON object with exactly these fields.",
			"Never invent entity names that are not in the question.",
			"Leave fields empty rather than guessing.",
		},
		OutputFormat: "Single JSON object, no prose.",
	})
	if err != nil {
		return nil, err
	}
	return &Extractor{llm: client, prompt: p, log: log.Sub("chat.extract")}, nil
}

// Extract runs the extraction call. It never fails the turn: malformed
// or missing output yields an empty ParameterSet.
func (e *Extractor) Extract(ctx context.Context, question string) ParameterSet {
	raw, err := e.llm.GenerateJSON(ctx, e.prompt, map[string]string{"question": question})
	if err != nil {
		e.log.Warn().Err(err).Msg("extraction call failed, using empty parameter set")
		return ParameterSet{}
	}
	var out ParameterSet
	if err := json.Unmarshal(raw, &out); err != nil {
		e.log.Warn().Err(err).Msg("extraction returned malformed JSON, using empty parameter set")
		return ParameterSet{}
	}
	return out
}
