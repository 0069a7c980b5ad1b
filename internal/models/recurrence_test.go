package models

import (
	"testing"

	"github.com/shopspring/decimal"

	"bud/internal/month"
)

func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }

func TestRecurrenceApplies(t *testing.T) {
	t.Run("installments_window", func(t *testing.T) {
		rec := &Recurrence{Start: "2025-01", Installments: intPtr(3), Value: decimal.NewFromInt(-100)}

		for _, token := range []string{"2025-01", "2025-02", "2025-03"} {
			if !rec.Applies(token) {
				t.Errorf("expected recurrence to apply in %s", token)
			}
		}
		for _, token := range []string{"2024-12", "2025-04", "2026-01"} {
			if rec.Applies(token) {
				t.Errorf("expected recurrence not to apply in %s", token)
			}
		}
	})

	t.Run("installments_ignore_end", func(t *testing.T) {
		// End is meaningless when installments are set.
		rec := &Recurrence{Start: "2025-01", Installments: intPtr(2), End: strPtr("2025-12")}
		if rec.Applies("2025-03") {
			t.Error("expected installment window to win over end")
		}
	})

	t.Run("bounded_open", func(t *testing.T) {
		rec := &Recurrence{Start: "2025-01", End: strPtr("2025-06")}

		for _, token := range []string{"2025-01", "2025-03", "2025-06"} {
			if !rec.Applies(token) {
				t.Errorf("expected recurrence to apply in %s", token)
			}
		}
		for _, token := range []string{"2024-12", "2025-07"} {
			if rec.Applies(token) {
				t.Errorf("expected recurrence not to apply in %s", token)
			}
		}
	})

	t.Run("unbounded_open", func(t *testing.T) {
		rec := &Recurrence{Start: "2025-01"}

		for _, token := range []string{"2025-01", "2026-07", "2099-12"} {
			if !rec.Applies(token) {
				t.Errorf("expected open recurrence to apply in %s", token)
			}
		}
		if rec.Applies("2024-12") {
			t.Error("expected open recurrence not to apply before start")
		}
	})
}

func TestRecurrenceInstallmentNumber(t *testing.T) {
	rec := &Recurrence{Start: "2025-01", Installments: intPtr(12)}

	for i := 0; i < 12; i++ {
		token, err := month.Offset(rec.Start, i)
		if err != nil {
			t.Fatalf("offset: %v", err)
		}
		n, err := rec.InstallmentNumber(token)
		if err != nil {
			t.Fatalf("installment number: %v", err)
		}
		if n != i+1 {
			t.Errorf("expected installment %d for %s, got %d", i+1, token, n)
		}
	}
}
