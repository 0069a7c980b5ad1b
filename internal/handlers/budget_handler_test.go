package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "bud/internal/errors"
	"bud/internal/models"
	"bud/internal/services"
)

// --- mock budget service ---

type mockBudgetService struct {
	createBudgetFn      func(projectID, name string) (*models.Budget, error)
	getOrCreateBudgetFn func(projectID, name string) (*models.Budget, error)
	getBudgetByIDFn     func(budgetID string) (*models.Budget, error)
	getBudgetByNameFn   func(projectID, name string) (*models.Budget, error)
	listBudgetsFn       func(projectID string) ([]models.Budget, error)
	renameBudgetFn      func(budgetID, name string) (*models.Budget, error)
	deleteBudgetFn      func(budgetID string) error
	materializeFn       func(budgetID string) error
}

func (m *mockBudgetService) CreateBudget(projectID, name string) (*models.Budget, error) {
	if m.createBudgetFn != nil {
		return m.createBudgetFn(projectID, name)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) GetOrCreateBudget(projectID, name string) (*models.Budget, error) {
	if m.getOrCreateBudgetFn != nil {
		return m.getOrCreateBudgetFn(projectID, name)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) GetBudgetByID(budgetID string) (*models.Budget, error) {
	if m.getBudgetByIDFn != nil {
		return m.getBudgetByIDFn(budgetID)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) GetBudgetByName(projectID, name string) (*models.Budget, error) {
	if m.getBudgetByNameFn != nil {
		return m.getBudgetByNameFn(projectID, name)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) ListBudgets(projectID string) ([]models.Budget, error) {
	if m.listBudgetsFn != nil {
		return m.listBudgetsFn(projectID)
	}
	return []models.Budget{}, nil
}

func (m *mockBudgetService) RenameBudget(budgetID, name string) (*models.Budget, error) {
	if m.renameBudgetFn != nil {
		return m.renameBudgetFn(budgetID, name)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) DeleteBudget(budgetID string) error {
	if m.deleteBudgetFn != nil {
		return m.deleteBudgetFn(budgetID)
	}
	return nil
}

func (m *mockBudgetService) Materialize(budgetID string) error {
	if m.materializeFn != nil {
		return m.materializeFn(budgetID)
	}
	return nil
}

var _ services.BudgetServicer = (*mockBudgetService)(nil)

func setupBudgetRouter(handler *BudgetHandler) *gin.Engine {
	r := gin.New()
	r.POST("/budgets", handler.CreateBudget)
	r.GET("/budgets", handler.GetBudgets)
	r.GET("/budgets/:id", handler.GetBudget)
	r.PUT("/budgets/:id", handler.UpdateBudget)
	r.DELETE("/budgets/:id", handler.DeleteBudget)
	r.POST("/budgets/:id/materialize", handler.MaterializeBudget)
	return r
}

const testUUID = "01936b2a-1f2e-7c3d-8a4b-5c6d7e8f9a0b"

func TestBudgetHandler_CreateBudget(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockBudgetService{
			createBudgetFn: func(projectID, name string) (*models.Budget, error) {
				return &models.Budget{Name: name, ProjectID: projectID}, nil
			},
		}
		handler := NewBudgetHandler(svc)
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "POST", "/budgets",
			`{"project_id":"`+testUUID+`","name":"2025-03"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		budget := result["budget"].(map[string]interface{})
		if budget["name"] != "2025-03" {
			t.Errorf("expected 2025-03, got %v", budget["name"])
		}
	})

	t.Run("returns 400 on malformed month", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "POST", "/budgets",
			`{"project_id":"`+testUUID+`","name":"2025-13"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 409 on duplicate", func(t *testing.T) {
		svc := &mockBudgetService{
			createBudgetFn: func(projectID, name string) (*models.Budget, error) {
				return nil, apperrors.ErrDuplicateBudget
			},
		}
		handler := NewBudgetHandler(svc)
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "POST", "/budgets",
			`{"project_id":"`+testUUID+`","name":"2025-03"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_BUDGET")
	})
}

func TestBudgetHandler_GetBudgets(t *testing.T) {
	t.Run("returns 400 without project_id", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budgets", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 200 with budgets", func(t *testing.T) {
		svc := &mockBudgetService{
			listBudgetsFn: func(projectID string) ([]models.Budget, error) {
				return []models.Budget{{Name: "2025-01"}, {Name: "2025-02"}}, nil
			},
		}
		handler := NewBudgetHandler(svc)
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budgets?project_id="+testUUID, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		budgets := result["budgets"].([]interface{})
		if len(budgets) != 2 {
			t.Errorf("expected 2 budgets, got %d", len(budgets))
		}
	})
}

func TestBudgetHandler_GetBudget(t *testing.T) {
	t.Run("returns 404 when absent", func(t *testing.T) {
		svc := &mockBudgetService{
			getBudgetByIDFn: func(budgetID string) (*models.Budget, error) {
				return nil, apperrors.ErrBudgetNotFound
			},
		}
		handler := NewBudgetHandler(svc)
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budgets/"+testUUID, "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "BUDGET_NOT_FOUND")
	})

	t.Run("returns 400 on malformed id", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budgets/not-a-uuid", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestBudgetHandler_MaterializeBudget(t *testing.T) {
	called := false
	svc := &mockBudgetService{
		materializeFn: func(budgetID string) error {
			called = true
			return nil
		},
	}
	handler := NewBudgetHandler(svc)
	r := setupBudgetRouter(handler)

	rec := doRequest(r, "POST", "/budgets/"+testUUID+"/materialize", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !called {
		t.Error("expected the materialize service call")
	}
}
