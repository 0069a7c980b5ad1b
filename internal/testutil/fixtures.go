package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"bud/internal/models"
	"bud/internal/month"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestProject creates a project with a unique name.
func CreateTestProject(t *testing.T, db *gorm.DB) *models.Project {
	t.Helper()

	project := &models.Project{
		Name: fmt.Sprintf("Test Project %d", nextID()),
	}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("failed to create test project: %v", err)
	}
	return project
}

// CreateTestAccount creates an account associated with the project, with
// the given initial balance.
func CreateTestAccount(t *testing.T, db *gorm.DB, projectID string, initialBalance decimal.Decimal) *models.Account {
	t.Helper()

	account := &models.Account{
		Name:           fmt.Sprintf("Test Account %d", nextID()),
		InitialBalance: initialBalance,
		CurrentBalance: initialBalance,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	if err := db.Exec("INSERT INTO project_accounts (project_id, account_id) VALUES (?, ?)",
		projectID, account.ID).Error; err != nil {
		t.Fatalf("failed to associate test account with project: %v", err)
	}
	return account
}

// CreateTestCategory creates a category with a unique name.
func CreateTestCategory(t *testing.T, db *gorm.DB) *models.Category {
	t.Helper()

	category := &models.Category{
		Name: fmt.Sprintf("Test Category %d", nextID()),
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestBudget creates a bare budget for the given month token
// without materializing any forecasts.
func CreateTestBudget(t *testing.T, db *gorm.DB, projectID, name string) *models.Budget {
	t.Helper()

	start, end, err := month.Range(name)
	if err != nil {
		t.Fatalf("invalid month token %q: %v", name, err)
	}

	budget := &models.Budget{
		Name:      name,
		StartDate: start,
		EndDate:   end,
		ProjectID: projectID,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestTransaction creates a transaction with the given description
// and value, dated at the given time. The account balance is not
// adjusted.
func CreateTestTransaction(t *testing.T, db *gorm.DB, projectID, accountID, description string, value decimal.Decimal, date time.Time) *models.Transaction {
	t.Helper()

	txn := &models.Transaction{
		Value:       value,
		Description: description,
		Date:        date,
		AccountID:   accountID,
		ProjectID:   projectID,
	}
	if err := db.Create(txn).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return txn
}

// CreateTestRecurrence creates an open-ended recurrence starting at the
// given month.
func CreateTestRecurrence(t *testing.T, db *gorm.DB, projectID, start string, value decimal.Decimal) *models.Recurrence {
	t.Helper()

	description := fmt.Sprintf("Test Recurrence %d", nextID())
	rec := &models.Recurrence{
		Start:           start,
		BaseDescription: &description,
		Value:           value,
		ProjectID:       projectID,
	}
	if err := db.Create(rec).Error; err != nil {
		t.Fatalf("failed to create test recurrence: %v", err)
	}
	return rec
}

// CreateTestForecast creates a plain forecast in the given budget.
func CreateTestForecast(t *testing.T, db *gorm.DB, budgetID, description string, value decimal.Decimal) *models.Forecast {
	t.Helper()

	forecast := &models.Forecast{
		Description: &description,
		Value:       value,
		BudgetID:    budgetID,
	}
	if err := db.Create(forecast).Error; err != nil {
		t.Fatalf("failed to create test forecast: %v", err)
	}
	return forecast
}
