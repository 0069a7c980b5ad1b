package models

import (
	"github.com/shopspring/decimal"

	"bud/internal/month"
)

// Recurrence is a template for repeating forecasts. Either Installments
// bounds the series to a fixed length, or End bounds it to a last month;
// when Installments is set, End is ignored. With neither set the
// recurrence is open-ended.
type Recurrence struct {
	Base
	Start           string          `gorm:"size:7;not null" json:"start"`
	End             *string         `gorm:"size:7" json:"end,omitempty"`
	Installments    *int            `json:"installments,omitempty"`
	BaseDescription *string         `gorm:"size:500" json:"base_description,omitempty"`
	Value           decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"value"`
	CategoryID      *string         `gorm:"type:uuid" json:"category_id,omitempty"`
	Tags            []string        `gorm:"serializer:json" json:"tags"`
	ProjectID       string          `gorm:"type:uuid;not null;index" json:"project_id"`

	// Relationships
	Project   Project    `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Category  *Category  `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Forecasts []Forecast `gorm:"foreignKey:RecurrenceID" json:"forecasts,omitempty"`
}

// Applies reports whether the recurrence should have a forecast in the
// given month:
//   - the month must not precede Start
//   - with Installments set, the month must fall within the
//     Start..Start+Installments-1 window
//   - otherwise the month must not exceed End, when End is set
func (r *Recurrence) Applies(token string) bool {
	if month.Compare(token, r.Start) < 0 {
		return false
	}
	if r.Installments != nil && *r.Installments > 0 {
		last, err := month.Offset(r.Start, *r.Installments-1)
		if err != nil {
			return false
		}
		return month.Compare(token, last) <= 0
	}
	if r.End == nil {
		return true
	}
	return month.Compare(token, *r.End) <= 0
}

// InstallmentNumber calculates the 1-based installment index for a
// given month. Only meaningful for installment-bounded recurrences on
// months where Applies is true.
func (r *Recurrence) InstallmentNumber(token string) (int, error) {
	n, err := month.Between(r.Start, token)
	if err != nil {
		return 0, err
	}
	return n + 1, nil
}
