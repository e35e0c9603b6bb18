// Package brapi provides client functionality for the brapi.dev market data
// API, the secondary source used to complete missing fund fields.
package brapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/fiiwatch/internal/domain"
)

// DefaultBaseURL is the public brapi.dev endpoint.
const DefaultBaseURL = "https://brapi.dev/api"

// Client for the brapi.dev quote API
type Client struct {
	baseURL string
	token   string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new brapi.dev client. The token is optional; without
// one the public rate limits apply.
func NewClient(baseURL, token string, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log.With().Str("client", "brapi").Logger(),
	}
}

// Quote fetches the per-ticker data bundle: market quote, dividend history
// and headline yield. The dividend history is returned raw; normalization is
// the dividends module's job.
func (c *Client) Quote(ctx context.Context, ticker string) (*domain.QuoteBundle, error) {
	endpoint := fmt.Sprintf("%s/quote/%s?range=5y&interval=1d&fundamental=true&dividends=true",
		c.baseURL, url.PathEscape(ticker))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.log.Debug().Str("ticker", ticker).Msg("Fetching quote bundle")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var payload map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	bundle, err := transformQuoteBundle(ticker, payload)
	if err != nil {
		return nil, err
	}

	c.log.Debug().
		Str("ticker", ticker).
		Bool("has_price", bundle.Price != nil).
		Int("dividend_records", len(bundle.Dividends)).
		Msg("Fetched quote bundle")

	return bundle, nil
}
