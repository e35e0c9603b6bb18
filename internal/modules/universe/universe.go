// Package universe owns the fixed set of watched funds and assembles the
// primary feed: the initial record set plus the shared risk-free rate.
package universe

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aristath/fiiwatch/internal/domain"
)

// Entry is one watched fund.
type Entry struct {
	Ticker string
	Name   string
}

// Segment tagged on every record. The watch list is logistics-only.
const Segment = "Logística"

// defaultEntries is the built-in watch list of logistics-segment FIIs.
var defaultEntries = []Entry{
	{Ticker: "HGLG11", Name: "CSHG Logística"},
	{Ticker: "XPLG11", Name: "XP Log"},
	{Ticker: "BTLG11", Name: "BTG Pactual Logística"},
	{Ticker: "VILG11", Name: "Vinci Logística"},
	{Ticker: "LVBI11", Name: "VBI Logístico"},
	{Ticker: "BRCO11", Name: "Bresco Logística"},
	{Ticker: "GGRC11", Name: "GGR Covepi Renda"},
}

// DefaultEntries returns a copy of the built-in watch list.
func DefaultEntries() []Entry {
	entries := make([]Entry, len(defaultEntries))
	copy(entries, defaultEntries)
	return entries
}

// ParseTickers builds entries from a comma-separated ticker list (the
// config override). Unknown tickers get no display name.
func ParseTickers(csv string) []Entry {
	names := make(map[string]string, len(defaultEntries))
	for _, entry := range defaultEntries {
		names[entry.Ticker] = entry.Name
	}

	var entries []Entry
	for _, raw := range strings.Split(csv, ",") {
		ticker := strings.ToUpper(strings.TrimSpace(raw))
		if ticker == "" {
			continue
		}
		entries = append(entries, Entry{Ticker: ticker, Name: names[ticker]})
	}
	return entries
}

// RateSource provides the shared risk-free rate.
type RateSource interface {
	SelicRate(ctx context.Context) (float64, error)
}

// Snapshot is one consistent primary-feed capture: the risk-free rate and
// the initial (partially populated) record set, in watch-list order.
type Snapshot struct {
	RiskFreeRate float64
	Funds        []domain.Fund
}

// Feed assembles primary-feed snapshots.
type Feed struct {
	entries []Entry
	rates   RateSource
	log     zerolog.Logger
}

// NewFeed creates a new primary feed over the given watch list
func NewFeed(entries []Entry, rates RateSource, log zerolog.Logger) *Feed {
	if len(entries) == 0 {
		entries = DefaultEntries()
	}
	return &Feed{
		entries: entries,
		rates:   rates,
		log:     log.With().Str("component", "universe_feed").Logger(),
	}
}

// Snapshot captures the current risk-free rate and builds the initial record
// set. This is the one failure that escapes the pipeline: without a rate and
// a record set there is nothing to value.
func (f *Feed) Snapshot(ctx context.Context) (*Snapshot, error) {
	rate, err := f.rates.SelicRate(ctx)
	if err != nil {
		return nil, fmt.Errorf("primary feed unavailable: %w", err)
	}

	funds := make([]domain.Fund, len(f.entries))
	for i, entry := range f.entries {
		funds[i] = domain.Fund{
			Ticker:       entry.Ticker,
			Name:         entry.Name,
			Segment:      Segment,
			RiskFreeRate: rate,
			Status:       domain.StatusUndefined,
		}
	}

	f.log.Debug().
		Float64("risk_free_rate", rate).
		Int("funds", len(funds)).
		Msg("Primary feed snapshot assembled")

	return &Snapshot{RiskFreeRate: rate, Funds: funds}, nil
}
