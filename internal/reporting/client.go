// Package reporting is the HTTP client for the ads reporting backend.
package reporting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Client calls the reporting backend. All methods are context-aware
// and return the backend's JSON as-is where the shape is opaque to us.
type Client struct {
	baseURL string
	http    *http.Client
	apiKey  string
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("reporting: base url is required")
	}
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// AccountSummary fetches the account-level insight summary.
func (c *Client) AccountSummary(ctx context.Context, accountID string, p Period) (json.RawMessage, error) {
	q := url.Values{}
	if p.Preset != "" {
		q.Set("period", p.Preset)
	}
	if p.Start != "" {
		q.Set("start_date", p.Start)
	}
	if p.End != "" {
		q.Set("end_date", p.End)
	}
	path := fmt.Sprintf("/accounts/%s/insights/summary", url.PathEscape(accountID))
	return c.get(ctx, path, q)
}

// ListCampaigns lists campaigns for an account.
func (c *Client) ListCampaigns(ctx context.Context, accountID string) ([]Entity, error) {
	raw, err := c.get(ctx, fmt.Sprintf("/accounts/%s/campaigns", url.PathEscape(accountID)), nil)
	if err != nil {
		return nil, err
	}
	return decodeEntities(raw)
}

// ListAdsets lists ad sets under the given campaigns.
func (c *Client) ListAdsets(ctx context.Context, campaignIDs []string) ([]Entity, error) {
	raw, err := c.post(ctx, "/campaigns/adsets", map[string]any{"campaign_ids": campaignIDs})
	if err != nil {
		return nil, err
	}
	return decodeEntities(raw)
}

// ListAds lists ads under the given ad sets.
func (c *Client) ListAds(ctx context.Context, adsetIDs []string) ([]Entity, error) {
	raw, err := c.post(ctx, "/adsets/ads", map[string]any{"adset_ids": adsetIDs})
	if err != nil {
		return nil, err
	}
	return decodeEntities(raw)
}

// Insights fetches one analytics category (timeseries, demographics or
// placements) for a level. level must be "campaigns", "adsets" or "ads".
func (c *Client) Insights(ctx context.Context, level, category string, req InsightsRequest) (json.RawMessage, error) {
	switch level {
	case "campaigns", "adsets", "ads":
	default:
		return nil, errors.Errorf("reporting: unknown level %q", level)
	}
	switch category {
	case "timeseries", "demographics", "placements":
	default:
		return nil, errors.Errorf("reporting: unknown category %q", category)
	}
	return c.post(ctx, "/"+level+"/"+category, req)
}

// KeywordInsights fetches keyword/search-intent insights.
func (c *Client) KeywordInsights(ctx context.Context, req KeywordInsightsRequest) (json.RawMessage, error) {
	return c.post(ctx, "/keyword-insights", req)
}

func (c *Client) get(ctx context.Context, path string, q url.Values) (json.RawMessage, error) {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(err, "reporting: build request")
	}
	return c.do(req)
}

func (c *Client) post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "reporting: encode body")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return nil, errors.Wrap(err, "reporting: build request")
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (json.RawMessage, error) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "reporting: request failed")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, errors.Wrap(err, "reporting: read response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(data))
		if len(msg) > 200 {
			msg = msg[:200]
		}
		return nil, errors.Errorf("reporting: %s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, msg)
	}
	return json.RawMessage(data), nil
}

func decodeEntities(raw json.RawMessage) ([]Entity, error) {
	// Backend wraps listings either as a bare array or {"data": [...]}.
	var list []Entity
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var wrapped struct {
		Data []Entity `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, errors.Wrap(err, "reporting: decode listing")
	}
	return wrapped.Data, nil
}
