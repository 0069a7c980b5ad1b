package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "bud/internal/errors"
	"bud/internal/models"
	"bud/internal/month"
)

// budgetService owns the budget lifecycle. Creating a budget derives its
// date range from the month token and materializes forecasts for every
// applicable recurrence; deleting one removes its forecasts in the same
// transaction, so the month can be recreated later and materialize an
// identical set.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// CreateBudget creates the budget container for a month and fills it
// with forecasts from the project's applicable recurrences.
func (s *budgetService) CreateBudget(projectID, name string) (*models.Budget, error) {
	if !month.Valid(name) {
		return nil, apperrors.ErrInvalidMonth
	}

	var project models.Project
	if err := s.db.Where("id = ?", projectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var count int64
	if err := s.db.Model(&models.Budget{}).
		Where("project_id = ? AND name = ?", projectID, name).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateBudget
	}

	var budget *models.Budget
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		budget, txErr = createBudget(tx, projectID, name)
		return txErr
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budget, nil
}

// GetOrCreateBudget returns the project's budget for the month, creating
// and materializing it if absent.
func (s *budgetService) GetOrCreateBudget(projectID, name string) (*models.Budget, error) {
	budget, err := s.GetBudgetByName(projectID, name)
	if err == nil {
		return budget, nil
	}
	if !errors.Is(err, apperrors.ErrBudgetNotFound) {
		return nil, err
	}
	return s.CreateBudget(projectID, name)
}

// GetBudgetByID returns a budget by ID.
func (s *budgetService) GetBudgetByID(budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Where("id = ?", budgetID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// GetBudgetByName returns the project's budget for the given month
// token.
func (s *budgetService) GetBudgetByName(projectID, name string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Where("project_id = ? AND name = ?", projectID, name).
		First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// ListBudgets returns a project's budgets in month order.
func (s *budgetService) ListBudgets(projectID string) ([]models.Budget, error) {
	var budgets []models.Budget
	if err := s.db.Where("project_id = ?", projectID).Order("name").
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budgets, nil
}

// RenameBudget moves a budget to a different month, re-deriving its date
// range from the new token.
func (s *budgetService) RenameBudget(budgetID, name string) (*models.Budget, error) {
	start, end, err := month.Range(name)
	if err != nil {
		return nil, apperrors.ErrInvalidMonth
	}

	budget, err := s.GetBudgetByID(budgetID)
	if err != nil {
		return nil, err
	}

	budget.Name = name
	budget.StartDate = start
	budget.EndDate = end
	if err := s.db.Save(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budget, nil
}

// DeleteBudget removes a budget together with its forecasts.
func (s *budgetService) DeleteBudget(budgetID string) error {
	budget, err := s.GetBudgetByID(budgetID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("budget_id = ?", budgetID).Delete(&models.Forecast{}).Error; err != nil {
			return err
		}
		return tx.Delete(budget).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Materialize creates any forecasts implied by the project's recurrences
// that are missing from the budget. Calling it again is a no-op.
func (s *budgetService) Materialize(budgetID string) error {
	budget, err := s.GetBudgetByID(budgetID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return materializeBudget(tx, budget)
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// createBudget persists the budget row and materializes it within the
// caller's transaction. Shared with the forecast authoring flows, which
// create budgets for future installment months.
func createBudget(tx *gorm.DB, projectID, name string) (*models.Budget, error) {
	start, end, err := month.Range(name)
	if err != nil {
		return nil, err
	}

	budget := &models.Budget{
		Name:      name,
		StartDate: start,
		EndDate:   end,
		ProjectID: projectID,
	}
	if err := tx.Create(budget).Error; err != nil {
		return nil, err
	}
	if err := materializeBudget(tx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

// materializeBudget creates one forecast per applicable recurrence that
// does not already have one in this budget. The existence check and the
// insert run in the caller's transaction; the check is a pure function
// of the (recurrence, budget) pair, so budgets deleted and recreated
// out of order still converge on the same forecast set.
func materializeBudget(tx *gorm.DB, budget *models.Budget) error {
	recurrences, err := recurrencesForMonth(tx, budget.ProjectID, budget.Name)
	if err != nil {
		return err
	}

	for i := range recurrences {
		rec := &recurrences[i]

		exists, err := forecastExistsForRecurrence(tx, rec.ID, budget.ID)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		forecast := &models.Forecast{
			Description:  rec.BaseDescription,
			Value:        rec.Value,
			Tags:         rec.Tags,
			BudgetID:     budget.ID,
			CategoryID:   rec.CategoryID,
			RecurrenceID: &rec.ID,
		}
		if rec.Installments != nil && *rec.Installments > 0 {
			n, err := rec.InstallmentNumber(budget.Name)
			if err != nil {
				return err
			}
			forecast.Installment = &n
		}

		if err := tx.Create(forecast).Error; err != nil {
			return err
		}
	}
	return nil
}

// forecastExistsForRecurrence reports whether the (recurrence, budget)
// pair already has a forecast.
func forecastExistsForRecurrence(tx *gorm.DB, recurrenceID, budgetID string) (bool, error) {
	var count int64
	err := tx.Model(&models.Forecast{}).
		Where("recurrence_id = ? AND budget_id = ?", recurrenceID, budgetID).
		Count(&count).Error
	return count > 0, err
}
