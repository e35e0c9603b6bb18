// Package enrichment fills missing fund fields from the secondary market
// data source.
//
// The cascade is strictly additive: a field that is already known on input
// is never overwritten and never cleared. Secondary-source failures degrade
// silently; the caller always gets a usable record back.
package enrichment

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/fiiwatch/internal/domain"
	"github.com/aristath/fiiwatch/internal/events"
	"github.com/aristath/fiiwatch/internal/modules/dividends"
	"github.com/aristath/fiiwatch/internal/modules/valuation"
)

// QuoteSource provides per-ticker quote bundles. Defined here so the cascade
// can be tested without a live client.
type QuoteSource interface {
	Quote(ctx context.Context, ticker string) (*domain.QuoteBundle, error)
}

// Cascade completes fund records field by field.
type Cascade struct {
	source QuoteSource
	bus    *events.Bus
	now    func() time.Time
	log    zerolog.Logger
}

// New creates a new completion cascade
func New(source QuoteSource, bus *events.Bus, log zerolog.Logger) *Cascade {
	return &Cascade{
		source: source,
		bus:    bus,
		now:    time.Now,
		log:    log.With().Str("component", "enrichment").Logger(),
	}
}

// Complete returns a copy of the fund with missing inputs filled from the
// secondary source and derived fields recomputed.
//
// The secondary lookup only happens when price or trailing dividends is
// missing; a fully populated record skips the network round trip entirely.
// On any fetch or parse failure the input fields pass through unmodified --
// the error never propagates past this boundary. Derived fields are always
// recomputed from whichever inputs ended up present.
func (c *Cascade) Complete(ctx context.Context, fund domain.Fund) domain.Fund {
	if fund.NeedsCompletion() {
		c.fillFromSecondary(ctx, &fund)
	}

	valuation.Apply(&fund, fund.RiskFreeRate, fund.RiskPremium)
	fund.UpdatedAt = c.now()

	return fund
}

// fillFromSecondary fetches the quote bundle and merges missing fields in.
// Merging is coalesce-per-field, never a blind overwrite.
func (c *Cascade) fillFromSecondary(ctx context.Context, fund *domain.Fund) {
	bundle, err := c.source.Quote(ctx, fund.Ticker)
	if err != nil {
		c.log.Warn().
			Err(err).
			Str("ticker", fund.Ticker).
			Msg("Secondary lookup failed, passing record through unmodified")
		c.bus.Emit(&events.FundDegradedData{
			Ticker: fund.Ticker,
			Error:  err.Error(),
		})
		return
	}

	if fund.Price == nil && bundle.Price != nil {
		fund.Price = bundle.Price
	}
	if fund.Currency == "" && bundle.Currency != "" {
		fund.Currency = bundle.Currency
	}

	if fund.TrailingDividends == nil {
		trailing := dividends.SumTrailing(bundle.Dividends, c.now(), dividends.DefaultWindowDays)
		if trailing == nil {
			trailing = headlineYieldEstimate(fund, bundle)
		}
		if trailing != nil {
			fund.TrailingDividends = trailing
		}
	}
}

// headlineYieldEstimate derives trailing income from the bundle's headline
// yield percentage when the dividend history produced nothing. Requires a
// known price: trailing = yieldPct/100 * price.
func headlineYieldEstimate(fund *domain.Fund, bundle *domain.QuoteBundle) *float64 {
	if bundle.DividendYieldPct == nil || fund.Price == nil {
		return nil
	}
	return domain.Float(*bundle.DividendYieldPct / 100 * *fund.Price)
}
