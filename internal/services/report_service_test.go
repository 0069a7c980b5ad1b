package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"bud/internal/month"
	"bud/internal/testutil"
)

func TestGenerateReport(t *testing.T) {
	t.Run("budget_not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)

		_, err := svc.GenerateReport("00000000-0000-0000-0000-000000000000")
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})

	t.Run("past_month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		project := testutil.CreateTestProject(t, db)
		account := testutil.CreateTestAccount(t, db, project.ID, decimal.NewFromInt(1000))

		past, err := month.Offset(month.Current(), -2)
		testutil.AssertNoError(t, err)
		budget := testutil.CreateTestBudget(t, db, project.ID, past)
		start, _, err := month.Range(past)
		testutil.AssertNoError(t, err)

		testutil.CreateTestForecast(t, db, budget.ID, "rent", decimal.NewFromInt(-1200))
		testutil.CreateTestTransaction(t, db, project.ID, account.ID, "Rent payment", decimal.NewFromInt(-1150), start.AddDate(0, 0, 3))
		testutil.CreateTestTransaction(t, db, project.ID, account.ID, "Salary", decimal.NewFromInt(2000), start.AddDate(0, 0, 1))

		report, err := svc.GenerateReport(budget.ID)
		testutil.AssertNoError(t, err)

		if report.IsProjected {
			t.Error("a past month should not be projected")
		}
		if report.AccumulatedRemaining != nil || report.ProjectedNetBalance != nil {
			t.Error("projection fields should be absent for past months")
		}

		if len(report.AccountBalances) != 1 {
			t.Fatalf("expected 1 account row, got %d", len(report.AccountBalances))
		}
		row := report.AccountBalances[0]
		if !row.Balance.Equal(decimal.NewFromInt(850)) {
			t.Errorf("expected month net 850, got %s", row.Balance)
		}
		// initial 1000 + all transactions through the month's end.
		if !row.CalculatedBalance.Equal(decimal.NewFromInt(1850)) {
			t.Errorf("expected calculated balance 1850, got %s", row.CalculatedBalance)
		}
		// The fixture does not maintain the stored balance, so the full
		// movement shows up as drift.
		if !row.Difference.Equal(decimal.NewFromInt(850)) {
			t.Errorf("expected difference 850, got %s", row.Difference)
		}

		if !report.TotalBalance.Equal(decimal.NewFromInt(850)) {
			t.Errorf("expected total balance 850, got %s", report.TotalBalance)
		}
		if !report.TotalEarnings.Equal(decimal.NewFromInt(2000)) {
			t.Errorf("expected earnings 2000, got %s", report.TotalEarnings)
		}
		if !report.TotalExpenses.Equal(decimal.NewFromInt(1150)) {
			t.Errorf("expected expenses 1150, got %s", report.TotalExpenses)
		}

		if len(report.Forecasts) != 1 {
			t.Fatalf("expected 1 forecast row, got %d", len(report.Forecasts))
		}
		f := report.Forecasts[0]
		if !f.ActualValue.Equal(decimal.NewFromInt(-1150)) {
			t.Errorf("expected actual -1150, got %s", f.ActualValue)
		}
		if !f.Difference.Equal(decimal.NewFromInt(-50)) {
			t.Errorf("expected remaining -50, got %s", f.Difference)
		}
		if !report.TotalRemaining.Equal(decimal.NewFromInt(-50)) {
			t.Errorf("expected total remaining -50, got %s", report.TotalRemaining)
		}
	})

	t.Run("future_month_projects", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		project := testutil.CreateTestProject(t, db)

		future, err := month.Offset(month.Current(), 2)
		testutil.AssertNoError(t, err)
		budget := testutil.CreateTestBudget(t, db, project.ID, future)
		testutil.CreateTestForecast(t, db, budget.ID, "insurance", decimal.NewFromInt(-50))

		report, err := svc.GenerateReport(budget.ID)
		testutil.AssertNoError(t, err)

		if !report.IsProjected {
			t.Fatal("a future month should be projected")
		}
		if report.AccumulatedRemaining == nil || report.ProjectedNetBalance == nil {
			t.Fatal("expected projection fields for a future month")
		}
		// No transactions anywhere, so the full forecast remains.
		if !report.AccumulatedRemaining.Equal(decimal.NewFromInt(-50)) {
			t.Errorf("expected accumulated remaining -50, got %s", report.AccumulatedRemaining)
		}
		if !report.ProjectedNetBalance.Equal(decimal.NewFromInt(-50)) {
			t.Errorf("expected projected net balance -50, got %s", report.ProjectedNetBalance)
		}
	})

	t.Run("projection_accumulates_intermediate_months", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		project := testutil.CreateTestProject(t, db)

		next, err := month.Offset(month.Current(), 1)
		testutil.AssertNoError(t, err)
		after, err := month.Offset(month.Current(), 2)
		testutil.AssertNoError(t, err)

		nextBudget := testutil.CreateTestBudget(t, db, project.ID, next)
		targetBudget := testutil.CreateTestBudget(t, db, project.ID, after)
		testutil.CreateTestForecast(t, db, nextBudget.ID, "gym", decimal.NewFromInt(-10))
		testutil.CreateTestForecast(t, db, targetBudget.ID, "insurance", decimal.NewFromInt(-50))

		report, err := svc.GenerateReport(targetBudget.ID)
		testutil.AssertNoError(t, err)

		if report.AccumulatedRemaining == nil {
			t.Fatal("expected accumulated remaining")
		}
		if !report.AccumulatedRemaining.Equal(decimal.NewFromInt(-60)) {
			t.Errorf("expected accumulated remaining -60, got %s", report.AccumulatedRemaining)
		}
		if !report.ProjectedNetBalance.Equal(decimal.NewFromInt(-60)) {
			t.Errorf("expected projected net balance -60, got %s", report.ProjectedNetBalance)
		}

		// The intermediate month's own report only accumulates itself.
		intermediate, err := svc.GenerateReport(nextBudget.ID)
		testutil.AssertNoError(t, err)
		if !intermediate.AccumulatedRemaining.Equal(decimal.NewFromInt(-10)) {
			t.Errorf("expected accumulated remaining -10, got %s", intermediate.AccumulatedRemaining)
		}
	})
}
