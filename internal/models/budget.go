package models

import "time"

// Budget is a month-scoped container for forecasts. Name is the
// "YYYY-MM" token; StartDate and EndDate are always derived from it and
// cover the first instant through the last instant of that month.
type Budget struct {
	Base
	Name      string    `gorm:"size:7;not null;uniqueIndex:idx_budgets_project_name" json:"name"`
	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null" json:"end_date"`
	ProjectID string    `gorm:"type:uuid;not null;uniqueIndex:idx_budgets_project_name" json:"project_id"`

	// Relationships
	Project   Project    `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Forecasts []Forecast `gorm:"foreignKey:BudgetID" json:"forecasts,omitempty"`
}
