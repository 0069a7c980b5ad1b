package services

import (
	"time"

	"github.com/shopspring/decimal"

	"bud/internal/models"
	"bud/internal/pagination"
)

// ProjectServicer defines the contract for project-related business logic.
type ProjectServicer interface {
	CreateProject(name string) (*models.Project, error)
	GetProjectByID(projectID string) (*models.Project, error)
	GetProjectByName(name string) (*models.Project, error)
	ListProjects() ([]models.Project, error)
	RenameProject(projectID, name string) (*models.Project, error)
	DeleteProject(projectID string) error
}

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	CreateAccount(projectID, name string, initialBalance decimal.Decimal) (*models.Account, error)
	GetAccountByID(accountID string) (*models.Account, error)
	GetAccountByName(projectID, name string) (*models.Account, error)
	ListAccounts(projectID string) ([]models.Account, error)
	RenameAccount(accountID, name string) (*models.Account, error)
	DeleteAccount(accountID string) error
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(name string) (*models.Category, error)
	GetCategoryByID(categoryID string) (*models.Category, error)
	GetCategoryByName(name string) (*models.Category, error)
	ListCategories() ([]models.Category, error)
	RenameCategory(categoryID, name string) (*models.Category, error)
	DeleteCategory(categoryID string) error
}

// CreateTransactionInput holds the fields for posting a ledger entry.
type CreateTransactionInput struct {
	ProjectID   string
	AccountID   string
	CategoryID  *string
	Value       decimal.Decimal
	Description string
	Date        time.Time
	Tags        []string
}

// UpdateTransactionInput holds optional fields for editing a ledger
// entry. Nil fields are left unchanged.
type UpdateTransactionInput struct {
	Value       *decimal.Decimal
	Description *string
	Date        *time.Time
	AccountID   *string
	CategoryID  *string
	Tags        []string
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(in CreateTransactionInput) (*models.Transaction, error)
	GetTransactionByID(transactionID string) (*models.Transaction, error)
	ListTransactions(projectID string, monthToken *string, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
	UpdateTransaction(transactionID string, in UpdateTransactionInput) (*models.Transaction, error)
	DeleteTransaction(transactionID string) error
}

// BudgetServicer defines the contract for the budget lifecycle. Creating
// a budget materializes forecasts for every recurrence applicable to its
// month; deleting one removes its forecasts with it.
type BudgetServicer interface {
	CreateBudget(projectID, name string) (*models.Budget, error)
	GetOrCreateBudget(projectID, name string) (*models.Budget, error)
	GetBudgetByID(budgetID string) (*models.Budget, error)
	GetBudgetByName(projectID, name string) (*models.Budget, error)
	ListBudgets(projectID string) ([]models.Budget, error)
	RenameBudget(budgetID, name string) (*models.Budget, error)
	DeleteBudget(budgetID string) error
	Materialize(budgetID string) error
}

// UpdateRecurrenceInput holds optional fields for editing a recurrence
// template. Nil fields are left unchanged; edits do not touch already
// materialized forecasts unless Propagate is called.
type UpdateRecurrenceInput struct {
	End             *string
	Installments    *int
	BaseDescription *string
	Value           *decimal.Decimal
	CategoryID      *string
	Tags            []string
}

// RecurrenceServicer defines the contract for recurrence templates.
type RecurrenceServicer interface {
	GetRecurrenceByID(recurrenceID string) (*models.Recurrence, error)
	ListRecurrences(projectID string) ([]models.Recurrence, error)
	RecurrencesForMonth(projectID, monthToken string) ([]models.Recurrence, error)
	UpdateRecurrence(recurrenceID string, in UpdateRecurrenceInput) (*models.Recurrence, error)
	Propagate(recurrenceID string) (int, error)
	DeleteRecurrence(recurrenceID string, cascade bool) error
}

// CreateForecastInput holds the authoring fields for a forecast. The
// recurrence flags mirror the authoring surface: Recurrent or
// RecurrenceEnd open a (bounded) recurrence, Installments a finite
// series, and CurrentInstallment declares which index of the series the
// month at hand represents.
type CreateForecastInput struct {
	ProjectID          string
	BudgetName         string
	Description        *string
	Value              decimal.Decimal
	CategoryID         *string
	Tags               []string
	Recurrent          bool
	RecurrenceEnd      *string
	Installments       *int
	CurrentInstallment *int
}

// UpdateForecastInput holds optional fields for editing a forecast.
type UpdateForecastInput struct {
	Description *string
	Value       *decimal.Decimal
	CategoryID  *string
	Tags        []string
}

// ForecastServicer defines the contract for forecast authoring and
// retrieval.
type ForecastServicer interface {
	CreateForecast(in CreateForecastInput) (*models.Forecast, error)
	GetForecastByID(forecastID string) (*models.Forecast, error)
	ListForecasts(budgetID string) ([]models.Forecast, error)
	UpdateForecast(forecastID string, in UpdateForecastInput) (*models.Forecast, error)
	MakeRecurrent(forecastID string, end *string) (*models.Forecast, int, error)
	DeleteForecast(forecastID string) error
}

// AccountBalance is one row of a report's account table.
type AccountBalance struct {
	AccountID         string          `json:"account_id"`
	AccountName       string          `json:"account_name"`
	Balance           decimal.Decimal `json:"balance"`
	CalculatedBalance decimal.Decimal `json:"calculated_balance"`
	CurrentBalance    decimal.Decimal `json:"current_balance"`
	Difference        decimal.Decimal `json:"difference"`
}

// ForecastActual is one row of a report's forecast table.
type ForecastActual struct {
	ForecastID        string          `json:"forecast_id"`
	Description       string          `json:"description"`
	ForecastValue     decimal.Decimal `json:"forecast_value"`
	ActualValue       decimal.Decimal `json:"actual_value"`
	Difference        decimal.Decimal `json:"difference"`
	CategoryID        *string         `json:"category_id,omitempty"`
	CategoryName      string          `json:"category_name,omitempty"`
	Tags              []string        `json:"tags"`
	Installment       *int            `json:"installment,omitempty"`
	TotalInstallments *int            `json:"total_installments,omitempty"`
}

// Report aggregates ledger balances and forecast-vs-actual figures for
// one budget. AccumulatedRemaining and ProjectedNetBalance are only set
// when the budget's month has not ended yet.
type Report struct {
	BudgetID             string           `json:"budget_id"`
	BudgetName           string           `json:"budget_name"`
	StartDate            time.Time        `json:"start_date"`
	EndDate              time.Time        `json:"end_date"`
	AccountBalances      []AccountBalance `json:"account_balances"`
	Forecasts            []ForecastActual `json:"forecasts"`
	TotalBalance         decimal.Decimal  `json:"total_balance"`
	TotalEarnings        decimal.Decimal  `json:"total_earnings"`
	TotalExpenses        decimal.Decimal  `json:"total_expenses"`
	TotalForecast        decimal.Decimal  `json:"total_forecast"`
	TotalActual          decimal.Decimal  `json:"total_actual"`
	TotalRemaining       decimal.Decimal  `json:"total_remaining"`
	IsProjected          bool             `json:"is_projected"`
	AccumulatedRemaining *decimal.Decimal `json:"accumulated_remaining,omitempty"`
	ProjectedNetBalance  *decimal.Decimal `json:"projected_net_balance,omitempty"`
}

// ReportServicer defines the contract for report generation.
type ReportServicer interface {
	GenerateReport(budgetID string) (*Report, error)
}
