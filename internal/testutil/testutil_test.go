package testutil_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"bud/internal/errors"
	"bud/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{"projects", "accounts", "categories", "transactions", "budgets", "recurrences", "forecasts", "project_accounts"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	project := testutil.CreateTestProject(t, db)
	if project.ID == "" {
		t.Fatal("project should have an ID")
	}

	account := testutil.CreateTestAccount(t, db, project.ID, decimal.NewFromInt(500))
	if !account.CurrentBalance.Equal(decimal.NewFromInt(500)) {
		t.Errorf("expected current balance 500, got %s", account.CurrentBalance)
	}

	budget := testutil.CreateTestBudget(t, db, project.ID, "2025-03")
	if budget.StartDate.Month() != time.March {
		t.Errorf("expected start date in March, got %s", budget.StartDate)
	}

	txn := testutil.CreateTestTransaction(t, db, project.ID, account.ID, "groceries", decimal.NewFromInt(-42), time.Now())
	if txn.ID == "" {
		t.Fatal("transaction should have an ID")
	}

	rec := testutil.CreateTestRecurrence(t, db, project.ID, "2025-01", decimal.NewFromInt(-100))
	if rec.End != nil || rec.Installments != nil {
		t.Error("expected an open-ended recurrence")
	}

	forecast := testutil.CreateTestForecast(t, db, budget.ID, "rent", decimal.NewFromInt(-1200))
	if forecast.BudgetID != budget.ID {
		t.Errorf("expected forecast in budget %s, got %s", budget.ID, forecast.BudgetID)
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrAccountNotFound, "custom message")
	testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
