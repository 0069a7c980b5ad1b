package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"bud/internal/models"
)

func TestMatchesForecast(t *testing.T) {
	category := "cat-1"
	otherCategory := "cat-2"

	tests := []struct {
		name     string
		forecast models.Forecast
		txn      models.Transaction
		want     bool
	}{
		{
			name:     "no criteria matches nothing",
			forecast: models.Forecast{},
			txn:      models.Transaction{Description: "anything at all"},
			want:     false,
		},
		{
			name:     "empty description is not a criterion",
			forecast: models.Forecast{Description: strPtr("")},
			txn:      models.Transaction{Description: "anything"},
			want:     false,
		},
		{
			name:     "description substring case-insensitive",
			forecast: models.Forecast{Description: strPtr("netflix")},
			txn:      models.Transaction{Description: "NETFLIX.COM monthly"},
			want:     true,
		},
		{
			name:     "description not contained",
			forecast: models.Forecast{Description: strPtr("netflix")},
			txn:      models.Transaction{Description: "spotify"},
			want:     false,
		},
		{
			name:     "category equality",
			forecast: models.Forecast{CategoryID: &category},
			txn:      models.Transaction{Description: "x", CategoryID: &category},
			want:     true,
		},
		{
			name:     "category mismatch",
			forecast: models.Forecast{CategoryID: &category},
			txn:      models.Transaction{Description: "x", CategoryID: &otherCategory},
			want:     false,
		},
		{
			name:     "category required but transaction has none",
			forecast: models.Forecast{CategoryID: &category},
			txn:      models.Transaction{Description: "x"},
			want:     false,
		},
		{
			name:     "tag subset matches extra tags",
			forecast: models.Forecast{Tags: []string{"a", "b"}},
			txn:      models.Transaction{Description: "x", Tags: []string{"a", "b", "c"}},
			want:     true,
		},
		{
			name:     "missing tag fails",
			forecast: models.Forecast{Tags: []string{"a", "b"}},
			txn:      models.Transaction{Description: "x", Tags: []string{"a"}},
			want:     false,
		},
		{
			name: "all criteria must hold",
			forecast: models.Forecast{
				Description: strPtr("rent"),
				CategoryID:  &category,
				Tags:        []string{"home"},
			},
			txn: models.Transaction{
				Description: "Rent for March",
				CategoryID:  &category,
				Tags:        []string{"home", "fixed"},
			},
			want: true,
		},
		{
			name: "one failing criterion fails the match",
			forecast: models.Forecast{
				Description: strPtr("rent"),
				CategoryID:  &category,
				Tags:        []string{"home"},
			},
			txn: models.Transaction{
				Description: "Rent for March",
				CategoryID:  &otherCategory,
				Tags:        []string{"home"},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchesForecast(&tt.txn, &tt.forecast); got != tt.want {
				t.Errorf("matchesForecast() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestActualValue(t *testing.T) {
	forecast := models.Forecast{Description: strPtr("coffee")}
	transactions := []models.Transaction{
		{Description: "Coffee shop", Value: decimal.NewFromInt(-4)},
		{Description: "COFFEE beans", Value: decimal.NewFromInt(-12)},
		{Description: "groceries", Value: decimal.NewFromInt(-80)},
	}

	got := actualValue(transactions, &forecast)
	if !got.Equal(decimal.NewFromInt(-16)) {
		t.Errorf("expected actual -16, got %s", got)
	}

	none := models.Forecast{}
	if got := actualValue(transactions, &none); !got.IsZero() {
		t.Errorf("expected zero actual for criterion-less forecast, got %s", got)
	}
}
