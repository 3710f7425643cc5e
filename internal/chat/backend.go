package chat

import (
	"context"
	"encoding/json"

	"adpilot/internal/reporting"
)

// Backend is the reporting surface the orchestrator consumes.
// *reporting.Client satisfies it.
type Backend interface {
	AccountSummary(ctx context.Context, accountID string, p reporting.Period) (json.RawMessage, error)
	ListCampaigns(ctx context.Context, accountID string) ([]reporting.Entity, error)
	ListAdsets(ctx context.Context, campaignIDs []string) ([]reporting.Entity, error)
	ListAds(ctx context.Context, adsetIDs []string) ([]reporting.Entity, error)
	Insights(ctx context.Context, level, category string, req reporting.InsightsRequest) (json.RawMessage, error)
	KeywordInsights(ctx context.Context, req reporting.KeywordInsightsRequest) (json.RawMessage, error)
}
