package dividends

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/fiiwatch/internal/domain"
)

func TestNormalize_FieldCascades(t *testing.T) {
	tests := []struct {
		name       string
		raw        domain.RawDividend
		wantOK     bool
		wantAmount float64
		wantDate   string
	}{
		{
			name:       "canonical fields",
			raw:        domain.RawDividend{"date": "2024-03-15", "value": 0.95},
			wantOK:     true,
			wantAmount: 0.95,
			wantDate:   "2024-03-15",
		},
		{
			name:       "payment date fallback",
			raw:        domain.RawDividend{"paymentDate": "2024-03-15", "cashDividend": 1.1},
			wantOK:     true,
			wantAmount: 1.1,
			wantDate:   "2024-03-15",
		},
		{
			name:       "ex date and amount fallback",
			raw:        domain.RawDividend{"exDate": "2024-01-02", "amount": 0.8},
			wantOK:     true,
			wantAmount: 0.8,
			wantDate:   "2024-01-02",
		},
		{
			name:       "snake case generation",
			raw:        domain.RawDividend{"payment_date": "2024-06-01", "cash_dividend": 1.05},
			wantOK:     true,
			wantAmount: 1.05,
			wantDate:   "2024-06-01",
		},
		{
			name:       "date takes priority over exDate",
			raw:        domain.RawDividend{"exDate": "2024-01-01", "date": "2024-02-01", "value": 1.0},
			wantOK:     true,
			wantAmount: 1.0,
			wantDate:   "2024-02-01",
		},
		{
			name:       "amount as numeric string",
			raw:        domain.RawDividend{"date": "2024-03-15", "value": "0.92"},
			wantOK:     true,
			wantAmount: 0.92,
			wantDate:   "2024-03-15",
		},
		{
			name:       "rfc3339 timestamp",
			raw:        domain.RawDividend{"date": "2024-03-15T00:00:00Z", "value": 0.5},
			wantOK:     true,
			wantAmount: 0.5,
			wantDate:   "2024-03-15",
		},
		{
			name:       "brazilian date layout",
			raw:        domain.RawDividend{"date": "15/03/2024", "value": 0.5},
			wantOK:     true,
			wantAmount: 0.5,
			wantDate:   "2024-03-15",
		},
		{
			name:   "missing date",
			raw:    domain.RawDividend{"value": 1.0},
			wantOK: false,
		},
		{
			name:   "missing amount",
			raw:    domain.RawDividend{"date": "2024-03-15"},
			wantOK: false,
		},
		{
			name:   "unparseable date",
			raw:    domain.RawDividend{"date": "not-a-date", "value": 1.0},
			wantOK: false,
		},
		{
			name:   "negative amount",
			raw:    domain.RawDividend{"date": "2024-03-15", "value": -0.5},
			wantOK: false,
		},
		{
			name:   "non numeric amount",
			raw:    domain.RawDividend{"date": "2024-03-15", "value": "n/a"},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, ok := Normalize(tt.raw)
			if !tt.wantOK {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.InDelta(t, tt.wantAmount, event.Amount, 1e-9)
			assert.Equal(t, tt.wantDate, event.PaidOn.Format("2006-01-02"))
		})
	}
}

func TestSumTrailing_WindowFiltering(t *testing.T) {
	asOf := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	raws := []domain.RawDividend{
		{"date": asOf.AddDate(0, 0, -400).Format("2006-01-02"), "value": 10.0}, // outside window
		{"date": asOf.AddDate(0, 0, -30).Format("2006-01-02"), "value": 5.0},   // inside
	}

	total := SumTrailing(raws, asOf, DefaultWindowDays)
	require.NotNil(t, total)
	assert.InDelta(t, 5.0, *total, 1e-9)
}

func TestSumTrailing_ExcludesFutureEvents(t *testing.T) {
	asOf := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	raws := []domain.RawDividend{
		{"date": "2024-07-01", "value": 3.0}, // announced, not yet in the window
		{"date": "2024-05-01", "value": 1.2},
	}

	total := SumTrailing(raws, asOf, DefaultWindowDays)
	require.NotNil(t, total)
	assert.InDelta(t, 1.2, *total, 1e-9)
}

func TestSumTrailing_NilWhenNothingQualifies(t *testing.T) {
	asOf := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		raws []domain.RawDividend
	}{
		{"empty input", nil},
		{"all outside window", []domain.RawDividend{{"date": "2020-01-01", "value": 9.0}}},
		{"all unresolvable", []domain.RawDividend{{"note": "bonus"}, {"date": "??", "value": 1.0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, SumTrailing(tt.raws, asOf, DefaultWindowDays))
		})
	}
}

func TestSumTrailing_OrderIndependent(t *testing.T) {
	asOf := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	forward := []domain.RawDividend{
		{"date": "2024-01-10", "value": 0.9},
		{"date": "2024-02-10", "value": 0.85},
		{"date": "2024-03-10", "value": 1.05},
	}
	reversed := []domain.RawDividend{forward[2], forward[1], forward[0]}

	a := SumTrailing(forward, asOf, DefaultWindowDays)
	b := SumTrailing(reversed, asOf, DefaultWindowDays)
	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.InDelta(t, *a, *b, 1e-9)
	assert.InDelta(t, 2.8, *a, 1e-9)
}

func TestSumTrailing_SkipsMalformedKeepsRest(t *testing.T) {
	asOf := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	raws := []domain.RawDividend{
		{"date": "2024-05-01", "value": 1.0},
		{"date": "garbage", "value": 99.0},
		{"paymentDate": "2024-04-01", "cashDividend": 0.5},
	}

	total := SumTrailing(raws, asOf, DefaultWindowDays)
	require.NotNil(t, total)
	assert.InDelta(t, 1.5, *total, 1e-9)
}
