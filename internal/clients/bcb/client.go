// Package bcb provides client functionality for the Banco Central do Brasil
// SGS time-series API, used to fetch the SELIC target rate (the risk-free
// leg of the discount rate).
package bcb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the public SGS endpoint.
const DefaultBaseURL = "https://api.bcb.gov.br/dados/serie"

// selicSeriesID is SGS series 432: SELIC target rate, percent per year.
const selicSeriesID = 432

// Client for the Banco Central SGS API
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new SGS client
func NewClient(baseURL string, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log.With().Str("client", "bcb").Logger(),
	}
}

// sgsObservation is one entry of an SGS series. Values arrive as strings
// ("15.00"), dates as dd/MM/yyyy.
type sgsObservation struct {
	Date  string `json:"data"`
	Value string `json:"valor"`
}

// SelicRate fetches the latest SELIC target observation and returns it as a
// fraction (0.15 for 15% p.a.).
func (c *Client) SelicRate(ctx context.Context) (float64, error) {
	endpoint := fmt.Sprintf("%s/bcdata.sgs.%d/dados/ultimos/1?formato=json", c.baseURL, selicSeriesID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}

	c.log.Debug().Str("url", endpoint).Msg("Fetching SELIC rate")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var observations []sgsObservation
	if err := json.NewDecoder(resp.Body).Decode(&observations); err != nil {
		return 0, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(observations) == 0 {
		return 0, fmt.Errorf("series %d returned no observations", selicSeriesID)
	}

	latest := observations[len(observations)-1]
	pct, err := strconv.ParseFloat(latest.Value, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable observation value %q: %w", latest.Value, err)
	}

	rate := pct / 100
	if rate < 0 || rate >= 1 {
		return 0, fmt.Errorf("SELIC rate %f out of range [0, 1)", rate)
	}

	c.log.Info().
		Float64("rate", rate).
		Str("reference_date", latest.Date).
		Msg("Fetched SELIC rate")

	return rate, nil
}
