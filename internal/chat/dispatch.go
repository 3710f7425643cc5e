package chat

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"adpilot/internal/logging"
	"adpilot/internal/reporting"
)

// ErrAllCallsFailed reports that every backend call of a turn failed.
var ErrAllCallsFailed = errors.New("chat: all reporting calls failed")

// Dispatcher fans a resolved turn out to the reporting backend.
type Dispatcher struct {
	backend Backend
	timeout time.Duration
	log     *logging.Logger
}

func NewDispatcher(backend Backend, callTimeout time.Duration, log *logging.Logger) *Dispatcher {
	if callTimeout <= 0 {
		callTimeout = 10 * time.Second
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Dispatcher{backend: backend, timeout: callTimeout, log: log.Sub("chat.dispatch")}
}

// Dispatch runs the calls for a resolved performance question. The
// account level is one summary call; deeper levels fan out to the
// implied analytics categories concurrently. Individual failures are
// tolerated; the failed category names come back in the second return.
func (d *Dispatcher) Dispatch(ctx context.Context, accountID string, level Level, ids []string, params ResolvedParams) ([]reporting.Payload, []string, error) {
	if level == LevelAccount {
		cctx, cancel := context.WithTimeout(ctx, d.timeout)
		defer cancel()
		raw, err := d.backend.AccountSummary(cctx, accountID, params.Period)
		if err != nil {
			d.log.Warn().Err(err).Msg("account summary call failed")
			return nil, []string{"summary"}, ErrAllCallsFailed
		}
		return []reporting.Payload{{Kind: "summary", Level: "account", Data: raw}}, nil, nil
	}

	categories := impliedCategories(params.Metrics)
	req := insightsRequest(level, ids, params.Period)

	payloads := make([]reporting.Payload, len(categories))
	failed := make([]bool, len(categories))

	g, gctx := errgroup.WithContext(ctx)
	for i, cat := range categories {
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(gctx, d.timeout)
			defer cancel()
			raw, err := d.backend.Insights(cctx, level.Plural(), cat, req)
			if err != nil {
				d.log.Warn().Str("category", cat).Err(err).Msg("insights call failed")
				failed[i] = true
				return nil
			}
			payloads[i] = reporting.Payload{Kind: cat, Level: level.String(), Data: raw}
			return nil
		})
	}
	// Workers never return errors; failures are recorded per slot.
	_ = g.Wait()

	var ok []reporting.Payload
	var failedNames []string
	for i, cat := range categories {
		if failed[i] {
			failedNames = append(failedNames, cat)
			continue
		}
		ok = append(ok, payloads[i])
	}
	if len(ok) == 0 {
		return nil, failedNames, ErrAllCallsFailed
	}
	return ok, failedNames, nil
}

// KeywordInsights runs the single keyword-insight call.
func (d *Dispatcher) KeywordInsights(ctx context.Context, params ResolvedParams) (reporting.Payload, error) {
	geo, known := reporting.GeoTarget(params.Country)
	if !known {
		geo = reporting.DefaultGeoTarget
	}
	req := reporting.KeywordInsightsRequest{
		SeedKeywords: params.SeedKeywords,
		Country:      params.Country,
		GeoTarget:    geo,
		Timeframe:    reporting.TimeframeFor(params.Period),
	}
	if req.Timeframe == reporting.TimeframeCustom {
		req.StartDate = params.Period.Start
		req.EndDate = params.Period.End
	}
	cctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	raw, err := d.backend.KeywordInsights(cctx, req)
	if err != nil {
		d.log.Warn().Err(err).Msg("keyword insights call failed")
		return reporting.Payload{}, ErrAllCallsFailed
	}
	return reporting.Payload{Kind: "keyword_insights", Data: raw}, nil
}

func insightsRequest(level Level, ids []string, period reporting.Period) reporting.InsightsRequest {
	req := reporting.InsightsRequest{Period: period}
	switch level {
	case LevelCampaign:
		req.CampaignIDs = ids
	case LevelAdset:
		req.AdsetIDs = ids
	case LevelAd:
		req.AdIDs = ids
	}
	return req
}

// categoryVocab maps metric vocabulary onto analytics categories.
var categoryVocab = map[string][]string{
	"timeseries": {
		"trend", "over time", "daily", "weekly", "monthly", "timeline",
		"time series", "growth", "history", "progression",
	},
	"demographics": {
		"age", "gender", "demographic", "audience breakdown", "location",
		"region", "who", "people",
	},
	"placements": {
		"placement", "platform", "device", "feed", "stories", "reels",
		"instagram", "facebook", "messenger", "position",
	},
}

// categoryOrder keeps dispatch and payload ordering stable.
var categoryOrder = []string{"timeseries", "demographics", "placements"}

// impliedCategories picks the analytics subset the requested metrics
// imply. No implication means every category.
func impliedCategories(metrics []string) []string {
	matched := map[string]bool{}
	for _, m := range metrics {
		m = strings.ToLower(m)
		for cat, words := range categoryVocab {
			for _, w := range words {
				if strings.Contains(m, w) {
					matched[cat] = true
				}
			}
		}
	}
	if len(matched) == 0 {
		return append([]string(nil), categoryOrder...)
	}
	var out []string
	for _, cat := range categoryOrder {
		if matched[cat] {
			out = append(out, cat)
		}
	}
	return out
}
