package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "bud/internal/errors"
	"bud/internal/models"
	"bud/internal/month"
)

// recurrenceService handles recurrence templates and their expansion.
// Recurrences are created through the forecast authoring flows; this
// service covers lookup, editing, propagation and deletion.
type recurrenceService struct {
	db *gorm.DB
}

// NewRecurrenceService creates a new RecurrenceServicer.
func NewRecurrenceService(db *gorm.DB) RecurrenceServicer {
	return &recurrenceService{db: db}
}

// GetRecurrenceByID returns a recurrence by ID.
func (s *recurrenceService) GetRecurrenceByID(recurrenceID string) (*models.Recurrence, error) {
	var rec models.Recurrence
	if err := s.db.Preload("Category").Where("id = ?", recurrenceID).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRecurrenceNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &rec, nil
}

// ListRecurrences returns all of a project's recurrences ordered by
// start month.
func (s *recurrenceService) ListRecurrences(projectID string) ([]models.Recurrence, error) {
	var recurrences []models.Recurrence
	if err := s.db.Preload("Category").
		Where("project_id = ?", projectID).
		Order("start").
		Find(&recurrences).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return recurrences, nil
}

// RecurrencesForMonth returns the recurrences that should have a
// forecast in the given month.
func (s *recurrenceService) RecurrencesForMonth(projectID, monthToken string) ([]models.Recurrence, error) {
	if !month.Valid(monthToken) {
		return nil, apperrors.ErrInvalidMonth
	}
	recurrences, err := recurrencesForMonth(s.db, projectID, monthToken)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return recurrences, nil
}

// recurrencesForMonth performs the two-phase applicability filter: a
// cheap range query on the start token, then the precise per-recurrence
// rule. Runs on the caller's connection so materialization can use it
// mid-transaction.
func recurrencesForMonth(tx *gorm.DB, projectID, monthToken string) ([]models.Recurrence, error) {
	var candidates []models.Recurrence
	if err := tx.Where("project_id = ? AND start <= ?", projectID, monthToken).
		Find(&candidates).Error; err != nil {
		return nil, err
	}

	applicable := make([]models.Recurrence, 0, len(candidates))
	for _, rec := range candidates {
		if rec.Applies(monthToken) {
			applicable = append(applicable, rec)
		}
	}
	return applicable, nil
}

// UpdateRecurrence edits the template fields. Existing forecasts are
// untouched; call Propagate to push the new values onto them.
func (s *recurrenceService) UpdateRecurrence(recurrenceID string, in UpdateRecurrenceInput) (*models.Recurrence, error) {
	rec, err := s.GetRecurrenceByID(recurrenceID)
	if err != nil {
		return nil, err
	}

	if in.End != nil && !month.Valid(*in.End) {
		return nil, apperrors.ErrInvalidMonth
	}

	updates := make(map[string]interface{})
	if in.End != nil {
		updates["end"] = *in.End
	}
	if in.Installments != nil {
		updates["installments"] = *in.Installments
	}
	if in.BaseDescription != nil {
		updates["base_description"] = *in.BaseDescription
	}
	if in.Value != nil {
		updates["value"] = *in.Value
	}
	if in.CategoryID != nil {
		updates["category_id"] = *in.CategoryID
	}
	if in.Tags != nil {
		updates["tags"] = in.Tags
	}

	if len(updates) > 0 {
		if err := s.db.Model(rec).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return rec, nil
}

// Propagate pushes the recurrence's current template values onto every
// linked forecast and returns the number of forecasts updated.
func (s *recurrenceService) Propagate(recurrenceID string) (int, error) {
	rec, err := s.GetRecurrenceByID(recurrenceID)
	if err != nil {
		return 0, err
	}

	var forecasts []models.Forecast
	if err := s.db.Where("recurrence_id = ?", recurrenceID).Find(&forecasts).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for i := range forecasts {
			f := &forecasts[i]
			if rec.BaseDescription != nil {
				f.Description = rec.BaseDescription
			}
			f.Value = rec.Value
			f.CategoryID = rec.CategoryID
			f.Tags = rec.Tags
			if err := tx.Save(f).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return len(forecasts), nil
}

// DeleteRecurrence removes a recurrence. With cascade, every linked
// forecast is deleted with it; otherwise the forecasts are detached and
// live on as plain entries.
func (s *recurrenceService) DeleteRecurrence(recurrenceID string, cascade bool) error {
	rec, err := s.GetRecurrenceByID(recurrenceID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if cascade {
			if err := tx.Where("recurrence_id = ?", recurrenceID).Delete(&models.Forecast{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Model(&models.Forecast{}).Where("recurrence_id = ?", recurrenceID).
				Update("recurrence_id", nil).Error; err != nil {
				return err
			}
		}
		return tx.Delete(rec).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
