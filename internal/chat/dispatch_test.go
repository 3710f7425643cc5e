package chat

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"adpilot/internal/reporting"
)

// fakeBackend records calls and serves canned listings and payloads.
type fakeBackend struct {
	mu        sync.Mutex
	campaigns []reporting.Entity
	adsets    []reporting.Entity
	ads       []reporting.Entity

	failSummary  bool
	failCats     map[string]bool
	failKeywords bool

	calls          []string
	lastKeywordReq reporting.KeywordInsightsRequest
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		campaigns: []reporting.Entity{
			{ID: "c1", Name: "Summer Sale", Status: "ACTIVE"},
			{ID: "c2", Name: "Brand Awareness", Status: "ACTIVE"},
			{ID: "c3", Name: "Retargeting", Status: "PAUSED"},
		},
		adsets: []reporting.Entity{
			{ID: "as1", Name: "Lookalikes"},
			{ID: "as2", Name: "Broad"},
		},
		ads: []reporting.Entity{
			{ID: "a1", Name: "Video A"},
			{ID: "a2", Name: "Carousel B"},
		},
		failCats: map[string]bool{},
	}
}

func (b *fakeBackend) record(s string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, s)
}

func (b *fakeBackend) recorded() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

func (b *fakeBackend) AccountSummary(_ context.Context, accountID string, _ reporting.Period) (json.RawMessage, error) {
	b.record("summary:" + accountID)
	if b.failSummary {
		return nil, errors.New("summary down")
	}
	return json.RawMessage(`{"impressions": 1000, "spend": 42.5}`), nil
}

func (b *fakeBackend) ListCampaigns(_ context.Context, _ string) ([]reporting.Entity, error) {
	b.record("list:campaigns")
	return b.campaigns, nil
}

func (b *fakeBackend) ListAdsets(_ context.Context, ids []string) ([]reporting.Entity, error) {
	b.record("list:adsets:" + strings.Join(ids, ","))
	return b.adsets, nil
}

func (b *fakeBackend) ListAds(_ context.Context, ids []string) ([]reporting.Entity, error) {
	b.record("list:ads:" + strings.Join(ids, ","))
	return b.ads, nil
}

func (b *fakeBackend) Insights(_ context.Context, level, category string, _ reporting.InsightsRequest) (json.RawMessage, error) {
	b.record("insights:" + level + ":" + category)
	if b.failCats[category] {
		return nil, errors.New(category + " down")
	}
	return json.RawMessage(`{"category": "` + category + `"}`), nil
}

func (b *fakeBackend) KeywordInsights(_ context.Context, req reporting.KeywordInsightsRequest) (json.RawMessage, error) {
	b.record("keywords")
	b.mu.Lock()
	b.lastKeywordReq = req
	b.mu.Unlock()
	if b.failKeywords {
		return nil, errors.New("keywords down")
	}
	return json.RawMessage(`{"keywords": []}`), nil
}

func TestImpliedCategories(t *testing.T) {
	require.Equal(t, []string{"timeseries", "demographics", "placements"}, impliedCategories(nil))
	require.Equal(t, []string{"demographics"}, impliedCategories([]string{"age and gender split"}))
	require.Equal(t, []string{"timeseries"}, impliedCategories([]string{"spend trend"}))
	require.Equal(t, []string{"placements"}, impliedCategories([]string{"instagram vs facebook"}))
	require.Equal(t, []string{"timeseries", "placements"}, impliedCategories([]string{"daily", "by device"}))
	// Unknown metric names imply nothing, so everything is fetched.
	require.Equal(t, []string{"timeseries", "demographics", "placements"}, impliedCategories([]string{"cpa"}))
}

func TestDispatchAccountSummary(t *testing.T) {
	b := newFakeBackend()
	d := NewDispatcher(b, 0, nil)

	payloads, failed, err := d.Dispatch(context.Background(), "act_1", LevelAccount, nil, ResolvedParams{})
	require.NoError(t, err)
	require.Empty(t, failed)
	require.Len(t, payloads, 1)
	require.Equal(t, "summary", payloads[0].Kind)
	require.Equal(t, []string{"summary:act_1"}, b.recorded())
}

func TestDispatchFansOutAllCategories(t *testing.T) {
	b := newFakeBackend()
	d := NewDispatcher(b, 0, nil)

	payloads, failed, err := d.Dispatch(context.Background(), "act_1", LevelCampaign, []string{"c1"}, ResolvedParams{})
	require.NoError(t, err)
	require.Empty(t, failed)
	require.Len(t, payloads, 3)

	calls := b.recorded()
	require.ElementsMatch(t, []string{
		"insights:campaigns:timeseries",
		"insights:campaigns:demographics",
		"insights:campaigns:placements",
	}, calls)
}

func TestDispatchToleratesPartialFailure(t *testing.T) {
	b := newFakeBackend()
	b.failCats["demographics"] = true
	d := NewDispatcher(b, 0, nil)

	payloads, failed, err := d.Dispatch(context.Background(), "act_1", LevelAdset, []string{"as1"}, ResolvedParams{})
	require.NoError(t, err)
	require.Equal(t, []string{"demographics"}, failed)
	require.Len(t, payloads, 2)
}

func TestDispatchAllFailed(t *testing.T) {
	b := newFakeBackend()
	b.failCats["timeseries"] = true
	b.failCats["demographics"] = true
	b.failCats["placements"] = true
	d := NewDispatcher(b, 0, nil)

	_, failed, err := d.Dispatch(context.Background(), "act_1", LevelAd, []string{"a1"}, ResolvedParams{})
	require.ErrorIs(t, err, ErrAllCallsFailed)
	require.Len(t, failed, 3)
}

func TestKeywordInsightsRequestShape(t *testing.T) {
	b := newFakeBackend()
	d := NewDispatcher(b, 0, nil)

	_, err := d.KeywordInsights(context.Background(), ResolvedParams{
		SeedKeywords: []string{"running shoes"},
		Country:      "Germany",
		Period:       reporting.Period{Preset: "30d"},
		HasPeriod:    true,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"running shoes"}, b.lastKeywordReq.SeedKeywords)
	require.Equal(t, "Germany", b.lastKeywordReq.Country)
	require.Equal(t, "2276", b.lastKeywordReq.GeoTarget)
	require.Equal(t, reporting.TimeframeLastMonth, b.lastKeywordReq.Timeframe)
}

func TestKeywordInsightsUnknownCountryUsesDefaultGeo(t *testing.T) {
	b := newFakeBackend()
	d := NewDispatcher(b, 0, nil)

	_, err := d.KeywordInsights(context.Background(), ResolvedParams{
		SeedKeywords: []string{"running shoes"},
		Country:      "Atlantis",
		Period:       reporting.Period{Preset: "30d"},
		HasPeriod:    true,
	})
	require.NoError(t, err)
	require.Equal(t, reporting.DefaultGeoTarget, b.lastKeywordReq.GeoTarget)

	// "World Wide" is known and keeps the empty no-filter constant.
	_, err = d.KeywordInsights(context.Background(), ResolvedParams{
		SeedKeywords: []string{"running shoes"},
		Country:      "World Wide",
		Period:       reporting.Period{Preset: "30d"},
		HasPeriod:    true,
	})
	require.NoError(t, err)
	require.Empty(t, b.lastKeywordReq.GeoTarget)
}

func TestKeywordInsightsCustomRangeCarriesDates(t *testing.T) {
	b := newFakeBackend()
	d := NewDispatcher(b, 0, nil)

	_, err := d.KeywordInsights(context.Background(), ResolvedParams{
		SeedKeywords: []string{"hiking boots"},
		Country:      "US",
		Period:       reporting.Period{Start: "2026-01-01", End: "2026-02-01"},
		HasPeriod:    true,
	})
	require.NoError(t, err)
	require.Equal(t, reporting.TimeframeCustom, b.lastKeywordReq.Timeframe)
	require.Equal(t, "2026-01-01", b.lastKeywordReq.StartDate)
	require.Equal(t, "2026-02-01", b.lastKeywordReq.EndDate)
}
