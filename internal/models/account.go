package models

import "github.com/shopspring/decimal"

// Account represents a ledger account. CurrentBalance is maintained
// incrementally as transactions are posted, edited and deleted; reports
// compare it against the balance derived from the ledger to surface
// drift.
type Account struct {
	Base
	Name           string          `gorm:"not null" json:"name"`
	InitialBalance decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"initial_balance"`
	CurrentBalance decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"current_balance"`

	// Relationships
	Projects     []Project     `gorm:"many2many:project_accounts" json:"projects,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:AccountID" json:"transactions,omitempty"`
}
