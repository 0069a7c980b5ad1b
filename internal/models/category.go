package models

// Category is a flat label used by transactions, forecasts and
// recurrences for matching.
type Category struct {
	Base
	Name string `gorm:"not null;uniqueIndex" json:"name"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:CategoryID" json:"transactions,omitempty"`
	Forecasts    []Forecast    `gorm:"foreignKey:CategoryID" json:"forecasts,omitempty"`
}
