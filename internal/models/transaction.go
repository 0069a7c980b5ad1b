package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a ledger entry with a signed value: positive for
// inflows, negative for outflows. Posting, editing and deleting a
// transaction adjusts its account's current balance in the same
// database transaction.
type Transaction struct {
	Base
	Value       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"value"`
	Description string          `gorm:"size:500;not null" json:"description"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
	Tags        []string        `gorm:"serializer:json" json:"tags"`

	AccountID  string  `gorm:"type:uuid;not null" json:"account_id"`
	CategoryID *string `gorm:"type:uuid" json:"category_id,omitempty"`
	ProjectID  string  `gorm:"type:uuid;not null;index" json:"project_id"`

	// Relationships
	Account  Account   `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
