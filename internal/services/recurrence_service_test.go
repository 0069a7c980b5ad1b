package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"bud/internal/models"
	"bud/internal/testutil"
)

func TestRecurrencesForMonth(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewRecurrenceService(db)
	project := testutil.CreateTestProject(t, db)

	open := testutil.CreateTestRecurrence(t, db, project.ID, "2025-01", decimal.NewFromInt(-10))
	future := testutil.CreateTestRecurrence(t, db, project.ID, "2025-06", decimal.NewFromInt(-20))

	bounded := testutil.CreateTestRecurrence(t, db, project.ID, "2025-01", decimal.NewFromInt(-30))
	testutil.AssertNoError(t, db.Model(bounded).Update("end", "2025-02").Error)

	recs, err := svc.RecurrencesForMonth(project.ID, "2025-03")
	testutil.AssertNoError(t, err)

	if len(recs) != 1 {
		t.Fatalf("expected 1 applicable recurrence, got %d", len(recs))
	}
	if recs[0].ID != open.ID {
		t.Errorf("expected the open recurrence, got %s", recs[0].ID)
	}

	recs, err = svc.RecurrencesForMonth(project.ID, "2025-06")
	testutil.AssertNoError(t, err)
	if len(recs) != 2 {
		t.Fatalf("expected open and future recurrences in June, got %d", len(recs))
	}
	_ = future

	_, err = svc.RecurrencesForMonth(project.ID, "junk")
	testutil.AssertAppError(t, err, "INVALID_MONTH")
}

func TestUpdateRecurrence(t *testing.T) {
	t.Run("does_not_touch_existing_forecasts", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurrenceService(db)
		budgets := NewBudgetService(db)
		project := testutil.CreateTestProject(t, db)
		rec := testutil.CreateTestRecurrence(t, db, project.ID, "2025-01", decimal.NewFromInt(-100))

		budget, err := budgets.CreateBudget(project.ID, "2025-02")
		testutil.AssertNoError(t, err)

		newValue := decimal.NewFromInt(-120)
		_, err = svc.UpdateRecurrence(rec.ID, UpdateRecurrenceInput{Value: &newValue})
		testutil.AssertNoError(t, err)

		var forecast models.Forecast
		testutil.AssertNoError(t, db.Where("budget_id = ?", budget.ID).First(&forecast).Error)
		if !forecast.Value.Equal(decimal.NewFromInt(-100)) {
			t.Errorf("expected forecast untouched at -100, got %s", forecast.Value)
		}
	})

	t.Run("invalid_end", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurrenceService(db)
		project := testutil.CreateTestProject(t, db)
		rec := testutil.CreateTestRecurrence(t, db, project.ID, "2025-01", decimal.NewFromInt(-100))

		bad := "2025/06"
		_, err := svc.UpdateRecurrence(rec.ID, UpdateRecurrenceInput{End: &bad})
		testutil.AssertAppError(t, err, "INVALID_MONTH")
	})
}

func TestPropagate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewRecurrenceService(db)
	budgets := NewBudgetService(db)
	project := testutil.CreateTestProject(t, db)
	rec := testutil.CreateTestRecurrence(t, db, project.ID, "2025-01", decimal.NewFromInt(-100))

	b1, err := budgets.CreateBudget(project.ID, "2025-01")
	testutil.AssertNoError(t, err)
	b2, err := budgets.CreateBudget(project.ID, "2025-02")
	testutil.AssertNoError(t, err)

	newValue := decimal.NewFromInt(-120)
	_, err = svc.UpdateRecurrence(rec.ID, UpdateRecurrenceInput{Value: &newValue})
	testutil.AssertNoError(t, err)

	count, err := svc.Propagate(rec.ID)
	testutil.AssertNoError(t, err)
	if count != 2 {
		t.Fatalf("expected 2 forecasts updated, got %d", count)
	}

	for _, budgetID := range []string{b1.ID, b2.ID} {
		var forecast models.Forecast
		testutil.AssertNoError(t, db.Where("budget_id = ?", budgetID).First(&forecast).Error)
		if !forecast.Value.Equal(newValue) {
			t.Errorf("expected propagated value -120, got %s", forecast.Value)
		}
	}
}

func TestDeleteRecurrence(t *testing.T) {
	t.Run("cascade_deletes_forecasts", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurrenceService(db)
		budgets := NewBudgetService(db)
		project := testutil.CreateTestProject(t, db)
		rec := testutil.CreateTestRecurrence(t, db, project.ID, "2025-01", decimal.NewFromInt(-100))

		_, err := budgets.CreateBudget(project.ID, "2025-01")
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, svc.DeleteRecurrence(rec.ID, true))

		var count int64
		testutil.AssertNoError(t, db.Model(&models.Forecast{}).Count(&count).Error)
		if count != 0 {
			t.Errorf("expected all linked forecasts deleted, got %d", count)
		}
	})

	t.Run("detach_keeps_forecasts", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurrenceService(db)
		budgets := NewBudgetService(db)
		project := testutil.CreateTestProject(t, db)
		rec := testutil.CreateTestRecurrence(t, db, project.ID, "2025-01", decimal.NewFromInt(-100))

		budget, err := budgets.CreateBudget(project.ID, "2025-01")
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, svc.DeleteRecurrence(rec.ID, false))

		var forecast models.Forecast
		testutil.AssertNoError(t, db.Where("budget_id = ?", budget.ID).First(&forecast).Error)
		if forecast.RecurrenceID != nil {
			t.Error("expected forecast detached from the deleted recurrence")
		}
	})
}
