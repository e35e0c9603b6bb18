package brapi

import (
	"fmt"
	"math"

	"github.com/aristath/fiiwatch/internal/domain"
)

// transformQuoteBundle extracts the first result of a quote response into a
// QuoteBundle. The payload is handled loosely: the API has shipped dividends
// both as a top-level "dividends" array and nested under
// "dividendsData.cashDividends", and numeric fields are absent for thinly
// traded tickers.
func transformQuoteBundle(ticker string, payload map[string]interface{}) (*domain.QuoteBundle, error) {
	results, ok := payload["results"].([]interface{})
	if !ok || len(results) == 0 {
		return nil, fmt.Errorf("invalid payload: missing 'results' array")
	}

	result, ok := results[0].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid payload: malformed result entry")
	}

	bundle := &domain.QuoteBundle{
		Ticker:   ticker,
		Currency: getString(result, "currency"),
	}

	if price, ok := getFloat(result, "regularMarketPrice"); ok && price >= 0 {
		bundle.Price = domain.Float(price)
	}

	if yieldPct, ok := getFloat(result, "dividendYield"); ok {
		bundle.DividendYieldPct = domain.Float(yieldPct)
	}

	bundle.Dividends = extractDividends(result)

	return bundle, nil
}

// extractDividends collects raw dividend records from either payload shape.
func extractDividends(result map[string]interface{}) []domain.RawDividend {
	entries, ok := result["dividends"].([]interface{})
	if !ok {
		if data, dataOK := result["dividendsData"].(map[string]interface{}); dataOK {
			entries, _ = data["cashDividends"].([]interface{})
		}
	}

	dividends := make([]domain.RawDividend, 0, len(entries))
	for _, entry := range entries {
		record, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		dividends = append(dividends, domain.RawDividend(record))
	}

	return dividends
}

// getString safely extracts a string value from a map
func getString(m map[string]interface{}, key string) string {
	if value, ok := m[key].(string); ok {
		return value
	}
	return ""
}

// getFloat safely extracts a finite float value from a map
func getFloat(m map[string]interface{}, key string) (float64, bool) {
	value, exists := m[key]
	if !exists {
		return 0, false
	}
	f, ok := value.(float64)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
