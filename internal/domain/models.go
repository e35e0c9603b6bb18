// Package domain contains the core data model for the ceiling-price monitor.
// The domain layer is pure: no infrastructure dependencies, no I/O.
package domain

import "time"

// ValuationStatus classifies a fund's market price against its ceiling price.
type ValuationStatus string

const (
	// StatusBelowCeiling means the fund trades at or below its ceiling price.
	StatusBelowCeiling ValuationStatus = "BELOW_CEILING"
	// StatusAboveCeiling means the fund trades above its ceiling price.
	StatusAboveCeiling ValuationStatus = "ABOVE_CEILING"
	// StatusUndefined means price or ceiling is unknown, so no verdict exists.
	StatusUndefined ValuationStatus = "UNDEFINED"
)

// Fund is one valuation record, keyed by ticker. Nullable numeric fields use
// pointers: nil means "not known", which is distinct from zero everywhere in
// the pipeline (a fund with zero trailing dividends has a real ceiling of 0,
// a fund with unknown dividends has none).
type Fund struct {
	Ticker   string   `json:"ticker"`
	Name     string   `json:"name,omitempty"`
	Segment  string   `json:"segment,omitempty"`
	Price    *float64 `json:"price"`
	Currency string   `json:"currency,omitempty"`

	// TrailingDividends is the income attributed to the trailing 12 months.
	TrailingDividends *float64 `json:"trailing_dividends"`
	// TrailingYield is TrailingDividends / Price.
	TrailingYield *float64 `json:"trailing_yield"`

	// RiskFreeRate and RiskPremium are shared across all records of one
	// pipeline run, captured at run start.
	RiskFreeRate float64 `json:"risk_free_rate"`
	RiskPremium  float64 `json:"risk_premium"`
	// DiscountRate is always RiskFreeRate + RiskPremium.
	DiscountRate float64 `json:"discount_rate"`

	CeilingPrice    *float64        `json:"ceiling_price"`
	UpsideToCeiling *float64        `json:"upside_to_ceiling"`
	Status          ValuationStatus `json:"status"`

	UpdatedAt time.Time `json:"updated_at"`
}

// HasPrice reports whether the market price is known.
func (f *Fund) HasPrice() bool {
	return f.Price != nil
}

// HasTrailingDividends reports whether trailing income is known.
func (f *Fund) HasTrailingDividends() bool {
	return f.TrailingDividends != nil
}

// NeedsCompletion reports whether the fund is missing inputs that the
// completion cascade could fill from the secondary source.
func (f *Fund) NeedsCompletion() bool {
	return f.Price == nil || f.TrailingDividends == nil
}

// Float returns a pointer to v. Convenience for building nullable fields.
func Float(v float64) *float64 {
	return &v
}
