package domain

// RawDividend is one dividend payment record as delivered by the secondary
// source. Field naming varies between payload generations (date vs
// paymentDate, value vs cashDividend), so the record stays loosely typed
// until the dividends module normalizes it.
type RawDividend map[string]interface{}

// QuoteBundle is the per-ticker data bundle returned by the secondary
// source: a market quote plus dividend history and, when available, a
// headline trailing yield percentage.
type QuoteBundle struct {
	Ticker    string
	Price     *float64
	Currency  string
	Dividends []RawDividend
	// DividendYieldPct is the headline dividend yield in percent (e.g. 8.5
	// means 8.5%). Used only as a last-resort estimate of trailing income.
	DividendYieldPct *float64
}
