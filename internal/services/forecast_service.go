package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "bud/internal/errors"
	"bud/internal/models"
	"bud/internal/month"
)

// forecastService handles forecast authoring: plain forecasts,
// installment series, open-ended and bounded recurrences, and turning
// existing forecasts recurrent after the fact. Each authoring call runs
// inside one database transaction.
type forecastService struct {
	db *gorm.DB
}

// NewForecastService creates a new ForecastServicer.
func NewForecastService(db *gorm.DB) ForecastServicer {
	return &forecastService{db: db}
}

// CreateForecast creates a forecast in the named budget, creating the
// budget first when it does not exist yet. The recurrence flags turn the
// forecast into the first visible entry of a series:
//
//   - Installments=N creates a finite series. CurrentInstallment=k
//     declares that this month is installment k of N; the recurrence's
//     nominal start is back-computed so the numbering stays consistent,
//     and budgets for the remaining months k+1..N are created and filled.
//   - Recurrent/RecurrenceEnd create an open (or end-bounded) recurrence
//     starting at this budget's month and backfill existing later budgets.
func (s *forecastService) CreateForecast(in CreateForecastInput) (*models.Forecast, error) {
	hasDescription := in.Description != nil && *in.Description != ""
	if !hasDescription && in.CategoryID == nil && len(in.Tags) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput,
			"at least one of description, category, or tags is required")
	}

	if !month.Valid(in.BudgetName) {
		return nil, apperrors.ErrInvalidMonth
	}
	if in.RecurrenceEnd != nil && !month.Valid(*in.RecurrenceEnd) {
		return nil, apperrors.ErrInvalidMonth
	}

	if in.CurrentInstallment != nil {
		if in.Installments == nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInstallmentRange,
				"current installment requires a number of installments")
		}
		if *in.CurrentInstallment < 1 || *in.CurrentInstallment > *in.Installments {
			return nil, apperrors.ErrInvalidInstallmentRange
		}
	}
	if in.Installments != nil && *in.Installments < 1 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "installments must be at least 1")
	}

	isRecurrent := in.Recurrent || in.RecurrenceEnd != nil || in.Installments != nil

	var forecast *models.Forecast
	err := s.db.Transaction(func(tx *gorm.DB) error {
		budget, err := getOrCreateBudget(tx, in.ProjectID, in.BudgetName)
		if err != nil {
			return err
		}

		switch {
		case isRecurrent && in.Installments != nil:
			forecast, err = s.createInstallmentSeries(tx, in, budget)
		case isRecurrent:
			forecast, err = s.createOpenRecurrence(tx, in, budget)
		default:
			forecast = &models.Forecast{
				Description: in.Description,
				Value:       in.Value,
				Tags:        in.Tags,
				BudgetID:    budget.ID,
				CategoryID:  in.CategoryID,
			}
			err = tx.Create(forecast).Error
		}
		return err
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return forecast, nil
}

// createInstallmentSeries creates the forecast for the current month as
// installment k (1 unless declared otherwise), the backing recurrence
// with its start back-dated to where installment 1 would have been, and
// the forecasts for installments k+1..N in their months' budgets,
// creating those budgets as needed.
func (s *forecastService) createInstallmentSeries(tx *gorm.DB, in CreateForecastInput, budget *models.Budget) (*models.Forecast, error) {
	installments := *in.Installments
	first := 1
	if in.CurrentInstallment != nil {
		first = *in.CurrentInstallment
	}

	forecast := &models.Forecast{
		Description: in.Description,
		Value:       in.Value,
		Tags:        in.Tags,
		BudgetID:    budget.ID,
		CategoryID:  in.CategoryID,
		Installment: &first,
	}
	if err := tx.Create(forecast).Error; err != nil {
		return nil, err
	}

	// Month where installment 1 would have been.
	nominalStart, err := month.Offset(budget.Name, -(first - 1))
	if err != nil {
		return nil, err
	}

	rec := &models.Recurrence{
		Start:           nominalStart,
		Installments:    &installments,
		BaseDescription: in.Description,
		Value:           in.Value,
		CategoryID:      in.CategoryID,
		Tags:            in.Tags,
		ProjectID:       budget.ProjectID,
	}
	if err := tx.Create(rec).Error; err != nil {
		return nil, err
	}

	forecast.RecurrenceID = &rec.ID
	if err := tx.Save(forecast).Error; err != nil {
		return nil, err
	}

	for i := first + 1; i <= installments; i++ {
		token, err := month.Offset(budget.Name, i-first)
		if err != nil {
			return nil, err
		}

		var target models.Budget
		err = tx.Where("project_id = ? AND name = ?", budget.ProjectID, token).First(&target).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Budget creation materializes the recurrence, so this
			// installment's forecast already exists afterwards.
			created, err := createBudget(tx, budget.ProjectID, token)
			if err != nil {
				return nil, err
			}
			target = *created
			exists, err := forecastExistsForRecurrence(tx, rec.ID, target.ID)
			if err != nil {
				return nil, err
			}
			if exists {
				continue
			}
		} else if err != nil {
			return nil, err
		} else {
			exists, err := forecastExistsForRecurrence(tx, rec.ID, target.ID)
			if err != nil {
				return nil, err
			}
			if exists {
				continue
			}
		}

		n := i
		sibling := &models.Forecast{
			Description:  in.Description,
			Value:        in.Value,
			Tags:         in.Tags,
			BudgetID:     target.ID,
			CategoryID:   in.CategoryID,
			RecurrenceID: &rec.ID,
			Installment:  &n,
		}
		if err := tx.Create(sibling).Error; err != nil {
			return nil, err
		}
	}

	return forecast, nil
}

// createOpenRecurrence creates the forecast, an open or end-bounded
// recurrence starting at this budget's month, and backfills every
// already-existing later budget within range.
func (s *forecastService) createOpenRecurrence(tx *gorm.DB, in CreateForecastInput, budget *models.Budget) (*models.Forecast, error) {
	forecast := &models.Forecast{
		Description: in.Description,
		Value:       in.Value,
		Tags:        in.Tags,
		BudgetID:    budget.ID,
		CategoryID:  in.CategoryID,
	}
	if err := tx.Create(forecast).Error; err != nil {
		return nil, err
	}

	rec := &models.Recurrence{
		Start:           budget.Name,
		End:             in.RecurrenceEnd,
		BaseDescription: in.Description,
		Value:           in.Value,
		CategoryID:      in.CategoryID,
		Tags:            in.Tags,
		ProjectID:       budget.ProjectID,
	}
	if err := tx.Create(rec).Error; err != nil {
		return nil, err
	}

	forecast.RecurrenceID = &rec.ID
	if err := tx.Save(forecast).Error; err != nil {
		return nil, err
	}

	if _, err := backfillRecurrence(tx, rec, budget.Name); err != nil {
		return nil, err
	}
	return forecast, nil
}

// backfillRecurrence creates forecasts for the recurrence in every
// existing budget after fromMonth that falls within the recurrence's
// range and does not have one yet. Returns the number created.
func backfillRecurrence(tx *gorm.DB, rec *models.Recurrence, fromMonth string) (int, error) {
	var budgets []models.Budget
	if err := tx.Where("project_id = ? AND name > ?", rec.ProjectID, fromMonth).
		Order("name").Find(&budgets).Error; err != nil {
		return 0, err
	}

	created := 0
	for i := range budgets {
		b := &budgets[i]
		if !rec.Applies(b.Name) {
			continue
		}
		exists, err := forecastExistsForRecurrence(tx, rec.ID, b.ID)
		if err != nil {
			return 0, err
		}
		if exists {
			continue
		}

		forecast := &models.Forecast{
			Description:  rec.BaseDescription,
			Value:        rec.Value,
			Tags:         rec.Tags,
			BudgetID:     b.ID,
			CategoryID:   rec.CategoryID,
			RecurrenceID: &rec.ID,
		}
		if err := tx.Create(forecast).Error; err != nil {
			return 0, err
		}
		created++
	}
	return created, nil
}

// GetForecastByID returns a forecast by ID.
func (s *forecastService) GetForecastByID(forecastID string) (*models.Forecast, error) {
	var forecast models.Forecast
	if err := s.db.Preload("Category").Preload("Recurrence").
		Where("id = ?", forecastID).First(&forecast).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrForecastNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &forecast, nil
}

// ListForecasts returns a budget's forecasts in creation order.
func (s *forecastService) ListForecasts(budgetID string) ([]models.Forecast, error) {
	var forecasts []models.Forecast
	if err := s.db.Preload("Category").Preload("Recurrence").
		Where("budget_id = ?", budgetID).
		Order("created_at").
		Find(&forecasts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return forecasts, nil
}

// UpdateForecast edits a forecast's own fields. Changing the description
// of a recurrence-backed forecast also renames the recurrence's base
// description so future materializations pick it up.
func (s *forecastService) UpdateForecast(forecastID string, in UpdateForecastInput) (*models.Forecast, error) {
	forecast, err := s.GetForecastByID(forecastID)
	if err != nil {
		return nil, err
	}

	if in.Description != nil {
		forecast.Description = in.Description
	}
	if in.Value != nil {
		forecast.Value = *in.Value
	}
	if in.CategoryID != nil {
		forecast.CategoryID = in.CategoryID
	}
	if in.Tags != nil {
		forecast.Tags = in.Tags
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(forecast).Error; err != nil {
			return err
		}
		if in.Description != nil && forecast.RecurrenceID != nil {
			return tx.Model(&models.Recurrence{}).
				Where("id = ?", *forecast.RecurrenceID).
				Update("base_description", *in.Description).Error
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return forecast, nil
}

// MakeRecurrent retroactively turns a plain forecast into a recurring
// one: a recurrence is created from the forecast's fields, starting at
// its budget's month, and forecasts are backfilled into every existing
// later budget within range. Returns the forecast and how many siblings
// were created.
func (s *forecastService) MakeRecurrent(forecastID string, end *string) (*models.Forecast, int, error) {
	forecast, err := s.GetForecastByID(forecastID)
	if err != nil {
		return nil, 0, err
	}
	if forecast.RecurrenceID != nil {
		return nil, 0, apperrors.ErrAlreadyRecurrent
	}
	if end != nil && !month.Valid(*end) {
		return nil, 0, apperrors.ErrInvalidMonth
	}

	var budget models.Budget
	if err := s.db.Where("id = ?", forecast.BudgetID).First(&budget).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	created := 0
	err = s.db.Transaction(func(tx *gorm.DB) error {
		rec := &models.Recurrence{
			Start:           budget.Name,
			End:             end,
			BaseDescription: forecast.Description,
			Value:           forecast.Value,
			CategoryID:      forecast.CategoryID,
			Tags:            forecast.Tags,
			ProjectID:       budget.ProjectID,
		}
		if err := tx.Create(rec).Error; err != nil {
			return err
		}

		forecast.RecurrenceID = &rec.ID
		if err := tx.Save(forecast).Error; err != nil {
			return err
		}

		var err error
		created, err = backfillRecurrence(tx, rec, budget.Name)
		return err
	})
	if err != nil {
		return nil, 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return forecast, created, nil
}

// DeleteForecast removes a single forecast.
func (s *forecastService) DeleteForecast(forecastID string) error {
	forecast, err := s.GetForecastByID(forecastID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(&models.Forecast{}, "id = ?", forecast.ID).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// getOrCreateBudget resolves the project's budget for the month inside
// the caller's transaction, creating (and materializing) it when absent.
func getOrCreateBudget(tx *gorm.DB, projectID, name string) (*models.Budget, error) {
	var project models.Project
	if err := tx.Where("id = ?", projectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, err
	}

	var budget models.Budget
	err := tx.Where("project_id = ? AND name = ?", projectID, name).First(&budget).Error
	if err == nil {
		return &budget, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return createBudget(tx, projectID, name)
}
