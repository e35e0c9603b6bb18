// Package valuation derives the ceiling price of a fund from its trailing
// dividend income and a risk-adjusted discount rate.
//
// The model capitalizes trailing 12-month income at the required annual
// return: ceiling = trailing / (riskFree + riskPremium). A fund trading at or
// below its ceiling is considered fairly valued.
package valuation

import (
	"github.com/aristath/fiiwatch/internal/domain"
)

// Result holds the derived fields of one valuation.
type Result struct {
	DiscountRate    float64
	CeilingPrice    *float64
	TrailingYield   *float64
	UpsideToCeiling *float64
	Status          domain.ValuationStatus
}

// Valuate maps (price, trailing income, risk-free rate, risk premium) to the
// derived valuation fields. Pure function: safe to call concurrently.
//
// Nil inputs propagate, never cascade into zeros:
//   - ceiling is defined only when trailing income is known and the discount
//     rate is positive
//   - upside and trailing yield additionally require a known positive price
//   - status is Undefined unless both price and ceiling are known
func Valuate(price, trailing *float64, riskFree, riskPremium float64) Result {
	result := Result{
		DiscountRate: riskFree + riskPremium,
		Status:       domain.StatusUndefined,
	}

	if trailing != nil && result.DiscountRate > 0 {
		result.CeilingPrice = domain.Float(*trailing / result.DiscountRate)
	}

	if trailing != nil && price != nil && *price > 0 {
		result.TrailingYield = domain.Float(*trailing / *price)
	}

	if result.CeilingPrice != nil && price != nil && *price > 0 {
		result.UpsideToCeiling = domain.Float(*result.CeilingPrice / *price - 1)
	}

	if result.CeilingPrice != nil && price != nil {
		if *price <= *result.CeilingPrice {
			result.Status = domain.StatusBelowCeiling
		} else {
			result.Status = domain.StatusAboveCeiling
		}
	}

	return result
}

// Apply recomputes the derived fields of a fund in place from whatever
// inputs are currently present. Derived fields are always overwritten; they
// are pure functions of the inputs, so stale values must never survive a
// recomputation.
func Apply(fund *domain.Fund, riskFree, riskPremium float64) {
	result := Valuate(fund.Price, fund.TrailingDividends, riskFree, riskPremium)

	fund.RiskFreeRate = riskFree
	fund.RiskPremium = riskPremium
	fund.DiscountRate = result.DiscountRate
	fund.CeilingPrice = result.CeilingPrice
	fund.TrailingYield = result.TrailingYield
	fund.UpsideToCeiling = result.UpsideToCeiling
	fund.Status = result.Status
}
