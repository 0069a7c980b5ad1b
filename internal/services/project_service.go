package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "bud/internal/errors"
	"bud/internal/models"
)

// projectService handles project-related business logic.
type projectService struct {
	db *gorm.DB
}

// NewProjectService creates a new ProjectServicer.
func NewProjectService(db *gorm.DB) ProjectServicer {
	return &projectService{db: db}
}

// CreateProject creates a new project with a unique name.
func (s *projectService) CreateProject(name string) (*models.Project, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "project name is required")
	}

	var count int64
	if err := s.db.Model(&models.Project{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateProject
	}

	project := &models.Project{Name: name}
	if err := s.db.Create(project).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return project, nil
}

// GetProjectByID returns a project by ID.
func (s *projectService) GetProjectByID(projectID string) (*models.Project, error) {
	var project models.Project
	if err := s.db.Where("id = ?", projectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &project, nil
}

// GetProjectByName returns a project by its unique name.
func (s *projectService) GetProjectByName(name string) (*models.Project, error) {
	var project models.Project
	if err := s.db.Where("name = ?", name).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &project, nil
}

// ListProjects returns all projects ordered by name.
func (s *projectService) ListProjects() ([]models.Project, error) {
	var projects []models.Project
	if err := s.db.Order("name").Find(&projects).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return projects, nil
}

// RenameProject changes a project's name.
func (s *projectService) RenameProject(projectID, name string) (*models.Project, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "project name is required")
	}

	project, err := s.GetProjectByID(projectID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(project).Update("name", name).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return project, nil
}

// DeleteProject removes a project together with its budgets, forecasts,
// recurrences and transactions.
func (s *projectService) DeleteProject(projectID string) error {
	project, err := s.GetProjectByID(projectID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var budgetIDs []string
		if err := tx.Model(&models.Budget{}).Where("project_id = ?", projectID).Pluck("id", &budgetIDs).Error; err != nil {
			return err
		}
		if len(budgetIDs) > 0 {
			if err := tx.Where("budget_id IN ?", budgetIDs).Delete(&models.Forecast{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("project_id = ?", projectID).Delete(&models.Budget{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", projectID).Delete(&models.Recurrence{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", projectID).Delete(&models.Transaction{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM project_accounts WHERE project_id = ?", projectID).Error; err != nil {
			return err
		}
		return tx.Delete(project).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
