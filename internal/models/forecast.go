package models

import "github.com/shopspring/decimal"

// Forecast is a single planned entry inside exactly one budget. When
// generated from a recurrence it carries the template's fields and a
// link back to it; at most one forecast may exist per
// (recurrence, budget) pair.
type Forecast struct {
	Base
	Description *string         `gorm:"size:500" json:"description,omitempty"`
	Value       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"value"`
	Tags        []string        `gorm:"serializer:json" json:"tags"`

	BudgetID     string  `gorm:"type:uuid;not null;index" json:"budget_id"`
	CategoryID   *string `gorm:"type:uuid" json:"category_id,omitempty"`
	RecurrenceID *string `gorm:"type:uuid;index" json:"recurrence_id,omitempty"`

	// 1-based index within an installment-bounded recurrence series.
	Installment *int `json:"installment,omitempty"`

	// Relationships
	Budget     Budget      `gorm:"foreignKey:BudgetID" json:"budget,omitempty"`
	Category   *Category   `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Recurrence *Recurrence `gorm:"foreignKey:RecurrenceID" json:"recurrence,omitempty"`
}
