// Package dividends normalizes raw dividend payment records and aggregates
// them into a trailing-window income figure.
//
// The secondary source has shipped several payload generations, so a payment
// record may carry its date under "date", "paymentDate", "approvedOn" or
// "exDate" and its amount under "value", "cashDividend" or "amount". Each
// logical field is resolved through an ordered cascade of candidate keys;
// records where either field cannot be resolved are discarded.
package dividends

import (
	"math"
	"strconv"
	"time"

	"github.com/aristath/fiiwatch/internal/domain"
)

// DefaultWindowDays is the trailing window used for 12-month income.
const DefaultWindowDays = 365

// dateKeys are the candidate payload keys for the payment date, in priority
// order. Both camelCase and snake_case generations are covered.
var dateKeys = []string{
	"date",
	"paymentDate", "payment_date",
	"approvedOn", "approved_on",
	"exDate", "ex_date",
}

// amountKeys are the candidate payload keys for the payment amount.
var amountKeys = []string{
	"value",
	"cashDividend", "cash_dividend",
	"amount",
}

// dateLayouts are the accepted date formats, in priority order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// Event is a normalized dividend payment.
type Event struct {
	PaidOn time.Time
	Amount float64
}

// Normalize resolves one raw payment record into an Event. The second return
// value is false when no candidate key yields a parseable date, or no
// candidate key yields a finite non-negative amount.
func Normalize(raw domain.RawDividend) (Event, bool) {
	paidOn, ok := resolveDate(raw)
	if !ok {
		return Event{}, false
	}

	amount, ok := resolveAmount(raw)
	if !ok {
		return Event{}, false
	}

	return Event{PaidOn: paidOn, Amount: amount}, true
}

// SumTrailing normalizes raw payment records and sums the amounts of events
// whose date falls within [asOf - windowDays, asOf].
//
// Returns nil when no event qualifies. "No data" and "zero dividends" mean
// different things downstream: nil leaves the ceiling undefined, 0 would
// produce a false ceiling of 0. Summation is commutative, so the result does
// not depend on record order.
func SumTrailing(raws []domain.RawDividend, asOf time.Time, windowDays int) *float64 {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	windowStart := asOf.AddDate(0, 0, -windowDays)

	var total float64
	qualified := false

	for _, raw := range raws {
		event, ok := Normalize(raw)
		if !ok {
			continue
		}
		if event.PaidOn.Before(windowStart) || event.PaidOn.After(asOf) {
			continue
		}
		total += event.Amount
		qualified = true
	}

	if !qualified {
		return nil
	}
	return &total
}

// resolveDate tries each candidate date key in priority order until one
// parses successfully.
func resolveDate(raw domain.RawDividend) (time.Time, bool) {
	for _, key := range dateKeys {
		value, exists := raw[key]
		if !exists {
			continue
		}
		str, ok := value.(string)
		if !ok || str == "" {
			continue
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, str); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// resolveAmount tries each candidate amount key in priority order. Amounts
// must be finite and non-negative; the source encodes them either as JSON
// numbers or as numeric strings.
func resolveAmount(raw domain.RawDividend) (float64, bool) {
	for _, key := range amountKeys {
		value, exists := raw[key]
		if !exists {
			continue
		}
		amount, ok := toFloat(value)
		if !ok {
			continue
		}
		if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
			continue
		}
		return amount, true
	}
	return 0, false
}

func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
