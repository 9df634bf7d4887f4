// Package directory queries the IBEW locals API: per-state directory
// listings plus the per-local classification and county lookups.
package directory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/laborstats/uniondir/internal/config"
	"github.com/laborstats/uniondir/internal/model"
)

// Client queries the IBEW locals directory API.
type Client struct {
	http        *http.Client
	baseURL     string
	userAgent   string
	maxInFlight int
}

// NewClient creates a Client from configuration.
func NewClient(ibew config.IBEWConfig, httpCfg config.HTTPConfig, enrich config.EnrichConfig) *Client {
	maxInFlight := enrich.MaxConcurrent
	if maxInFlight <= 0 {
		maxInFlight = 10
	}
	return &Client{
		http:        &http.Client{Timeout: httpCfg.Timeout()},
		baseURL:     ibew.BaseURL,
		userAgent:   httpCfg.UserAgent,
		maxInFlight: maxInFlight,
	}
}

// LocalsByState returns the local unions chartered in one state. Any
// transport or decode failure is logged and yields an empty slice.
func (c *Client) LocalsByState(ctx context.Context, state string) []model.LocalUnion {
	q := url.Values{}
	q.Set("action", "list-locals-by-state")
	q.Set("state", state)
	q.Set("filter", "all")

	var locals []model.LocalUnion
	if err := c.getJSON(ctx, q, &locals); err != nil {
		zap.L().Error("directory: state query failed",
			zap.String("state", state),
			zap.Error(err),
		)
		return nil
	}

	zap.L().Info("directory: queried state",
		zap.String("state", state),
		zap.Int("locals", len(locals)),
	)
	return locals
}

// LocalsByStates queries each state in order, concatenates the results,
// and enriches every record before returning. States are queried
// sequentially; only per-record enrichment fans out.
func (c *Client) LocalsByStates(ctx context.Context, states []string) []model.LocalUnion {
	var locals []model.LocalUnion
	for _, state := range states {
		locals = append(locals, c.LocalsByState(ctx, state)...)
	}
	return c.Enrich(ctx, locals)
}

// TradeClasses returns the comma-joined classification tags for a local
// union ID, or "" on failure.
func (c *Client) TradeClasses(ctx context.Context, localUnionID string) string {
	q := url.Values{}
	q.Set("action", "list-local-trade-classes")
	q.Set("LocalUnionID", localUnionID)

	var classes []model.TradeClass
	if err := c.getJSON(ctx, q, &classes); err != nil {
		zap.L().Error("directory: trade class lookup failed",
			zap.String("local_union_id", localUnionID),
			zap.Error(err),
		)
		return ""
	}

	tags := make([]string, len(classes))
	for i, tc := range classes {
		tags[i] = tc.TradeClass
	}
	return strings.Join(tags, ",")
}

// Counties returns the county jurisdictions for a local union ID, or nil
// on failure.
func (c *Client) Counties(ctx context.Context, localUnionID string) []model.County {
	q := url.Values{}
	q.Set("action", "list-local-counties")
	q.Set("lu", localUnionID)

	var counties []model.County
	if err := c.getJSON(ctx, q, &counties); err != nil {
		zap.L().Error("directory: county lookup failed",
			zap.String("local_union_id", localUnionID),
			zap.Error(err),
		)
		return nil
	}
	return counties
}

// getJSON performs a GET against the API base URL with the given query
// and decodes the JSON response into out.
func (c *Client) getJSON(ctx context.Context, query url.Values, out any) error {
	reqURL := c.baseURL + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return eris.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "get")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("unexpected status %d from %s", resp.StatusCode, reqURL)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return eris.Wrap(err, "decode json")
	}
	return nil
}
