package models

// Project is the top-level container: budgets, recurrences and
// transactions belong to exactly one project, accounts are shared
// between projects via the project_accounts join table.
type Project struct {
	Base
	Name string `gorm:"not null;uniqueIndex" json:"name"`

	// Relationships
	Accounts     []Account     `gorm:"many2many:project_accounts" json:"accounts,omitempty"`
	Budgets      []Budget      `gorm:"foreignKey:ProjectID" json:"budgets,omitempty"`
	Recurrences  []Recurrence  `gorm:"foreignKey:ProjectID" json:"recurrences,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:ProjectID" json:"transactions,omitempty"`
}
