package reporting

import "encoding/json"

// Entity is one row of a campaign/adset/ad listing.
type Entity struct {
	ID     string            `json:"id"`
	Name   string            `json:"name"`
	Status string            `json:"status,omitempty"`
	Extra  map[string]string `json:"extra,omitempty"`
}

// Period is a resolved reporting window. Either Preset is one of
// "7d","30d","90d","365d" or Start/End carry explicit ISO dates.
type Period struct {
	Preset string `json:"preset,omitempty"`
	Start  string `json:"start,omitempty"`
	End    string `json:"end,omitempty"`
}

// IsZero reports whether no window was set at all.
func (p Period) IsZero() bool { return p.Preset == "" && p.Start == "" && p.End == "" }

// InsightsRequest is the body of a timeseries/demographics/placements call.
type InsightsRequest struct {
	CampaignIDs []string `json:"campaign_ids,omitempty"`
	AdsetIDs    []string `json:"adset_ids,omitempty"`
	AdIDs       []string `json:"ad_ids,omitempty"`
	Period      Period   `json:"period"`
}

// KeywordInsightsRequest is the body of the keyword-insight call.
type KeywordInsightsRequest struct {
	SeedKeywords []string `json:"seed_keywords"`
	GeoTarget    string   `json:"geo_target,omitempty"`
	Country      string   `json:"country"`
	Timeframe    string   `json:"timeframe"`
	StartDate    string   `json:"start_date,omitempty"`
	EndDate      string   `json:"end_date,omitempty"`
}

// Payload is one retrieved data block, kept opaque for the compositor.
type Payload struct {
	Kind  string          `json:"kind"`
	Level string          `json:"level,omitempty"`
	Data  json.RawMessage `json:"data"`
}
