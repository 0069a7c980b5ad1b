package services

import (
	"strings"

	"github.com/shopspring/decimal"

	"bud/internal/models"
)

// matchesForecast reports whether a transaction counts toward a
// forecast. Every criterion the forecast carries must hold: the
// forecast's description must appear in the transaction's description
// (case-insensitive), the category must be the same, and every forecast
// tag must be present on the transaction. A forecast with no criteria
// matches nothing.
func matchesForecast(txn *models.Transaction, forecast *models.Forecast) bool {
	hasDescription := forecast.Description != nil && *forecast.Description != ""
	if !hasDescription && forecast.CategoryID == nil && len(forecast.Tags) == 0 {
		return false
	}

	if hasDescription {
		if !strings.Contains(strings.ToLower(txn.Description), strings.ToLower(*forecast.Description)) {
			return false
		}
	}

	if forecast.CategoryID != nil {
		if txn.CategoryID == nil || *txn.CategoryID != *forecast.CategoryID {
			return false
		}
	}

	for _, tag := range forecast.Tags {
		if !hasTag(txn.Tags, tag) {
			return false
		}
	}
	return true
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// actualValue sums the values of the transactions matching the
// forecast.
func actualValue(transactions []models.Transaction, forecast *models.Forecast) decimal.Decimal {
	total := decimal.Zero
	for i := range transactions {
		if matchesForecast(&transactions[i], forecast) {
			total = total.Add(transactions[i].Value)
		}
	}
	return total
}
