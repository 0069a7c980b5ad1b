package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "bud/internal/errors"
	"bud/internal/models"
)

// reportService composes a budget's report: per-account movement and
// balance drift, forecast-vs-actual rows, and the forward projection for
// budgets whose month has not ended yet.
type reportService struct {
	db *gorm.DB
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB) ReportServicer {
	return &reportService{db: db}
}

// GenerateReport builds the report for one budget. Account rows compare
// the balance derived from the ledger (initial balance plus every
// transaction through the budget's end) against the stored current
// balance. Forecast rows pair each forecast with the matching
// transactions of the month. For a budget whose month has not ended,
// the report also folds forward over every current-or-future budget up
// to this one, accumulating the remaining amounts and the raw forecast
// values.
func (s *reportService) GenerateReport(budgetID string) (*Report, error) {
	var budget models.Budget
	if err := s.db.Where("id = ?", budgetID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	transactions, err := s.monthTransactions(&budget)
	if err != nil {
		return nil, err
	}

	report := &Report{
		BudgetID:   budget.ID,
		BudgetName: budget.Name,
		StartDate:  budget.StartDate,
		EndDate:    budget.EndDate,
	}

	if err := s.fillAccountBalances(report, &budget, transactions); err != nil {
		return nil, err
	}

	for _, txn := range transactions {
		if txn.Value.IsPositive() {
			report.TotalEarnings = report.TotalEarnings.Add(txn.Value)
		} else {
			report.TotalExpenses = report.TotalExpenses.Add(txn.Value.Neg())
		}
	}

	forecasts, err := s.budgetForecasts(budget.ID)
	if err != nil {
		return nil, err
	}
	report.Forecasts = make([]ForecastActual, 0, len(forecasts))
	for i := range forecasts {
		row := forecastActualRow(&forecasts[i], transactions)
		report.Forecasts = append(report.Forecasts, row)
		report.TotalForecast = report.TotalForecast.Add(row.ForecastValue)
		report.TotalActual = report.TotalActual.Add(row.ActualValue)
		report.TotalRemaining = report.TotalRemaining.Add(row.Difference)
	}

	now := time.Now().UTC()
	report.IsProjected = budget.EndDate.After(now)
	if report.IsProjected {
		accumulated, projected, err := s.projectForward(&budget, now)
		if err != nil {
			return nil, err
		}
		report.AccumulatedRemaining = &accumulated
		report.ProjectedNetBalance = &projected
	}

	return report, nil
}

// monthTransactions loads the project's transactions dated within the
// budget's range.
func (s *reportService) monthTransactions(budget *models.Budget) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := s.db.Where("project_id = ? AND date >= ? AND date <= ?",
		budget.ProjectID, budget.StartDate, budget.EndDate).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

// fillAccountBalances computes, for every account associated with the
// budget's project, the month's net movement, the balance derived from
// the full ledger through the budget's end, and its drift from the
// stored current balance.
func (s *reportService) fillAccountBalances(report *Report, budget *models.Budget, monthTransactions []models.Transaction) error {
	var accounts []models.Account
	if err := s.db.
		Joins("JOIN project_accounts ON project_accounts.account_id = accounts.id").
		Where("project_accounts.project_id = ?", budget.ProjectID).
		Order("accounts.name").
		Find(&accounts).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	report.AccountBalances = make([]AccountBalance, 0, len(accounts))
	for i := range accounts {
		account := &accounts[i]

		net := decimal.Zero
		for _, txn := range monthTransactions {
			if txn.AccountID == account.ID {
				net = net.Add(txn.Value)
			}
		}

		// Cumulative from account inception through this budget's end,
		// so drift in any earlier month still shows up here.
		var cumulative decimal.Decimal
		if err := s.db.Model(&models.Transaction{}).
			Where("account_id = ? AND date <= ?", account.ID, budget.EndDate).
			Select("COALESCE(SUM(value), 0)").
			Scan(&cumulative).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		calculated := account.InitialBalance.Add(cumulative)
		report.AccountBalances = append(report.AccountBalances, AccountBalance{
			AccountID:         account.ID,
			AccountName:       account.Name,
			Balance:           net,
			CalculatedBalance: calculated,
			CurrentBalance:    account.CurrentBalance,
			Difference:        calculated.Sub(account.CurrentBalance),
		})
		report.TotalBalance = report.TotalBalance.Add(net)
	}
	return nil
}

// budgetForecasts loads a budget's forecasts with their category and
// recurrence.
func (s *reportService) budgetForecasts(budgetID string) ([]models.Forecast, error) {
	var forecasts []models.Forecast
	if err := s.db.Preload("Category").Preload("Recurrence").
		Where("budget_id = ?", budgetID).
		Order("created_at").
		Find(&forecasts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return forecasts, nil
}

// forecastActualRow pairs one forecast with the month's matching
// transactions.
func forecastActualRow(forecast *models.Forecast, transactions []models.Transaction) ForecastActual {
	actual := actualValue(transactions, forecast)

	row := ForecastActual{
		ForecastID:    forecast.ID,
		ForecastValue: forecast.Value,
		ActualValue:   actual,
		Difference:    forecast.Value.Sub(actual),
		CategoryID:    forecast.CategoryID,
		Tags:          forecast.Tags,
		Installment:   forecast.Installment,
	}
	if forecast.Description != nil {
		row.Description = *forecast.Description
	}
	if forecast.Category != nil {
		row.CategoryName = forecast.Category.Name
	}
	if forecast.Recurrence != nil && forecast.Recurrence.Installments != nil {
		row.TotalInstallments = forecast.Recurrence.Installments
	}
	return row
}

// projectForward folds over the project's budgets whose month is
// current or future, in month order, up to and including the target.
// Each visited budget contributes its forecast-vs-actual differences to
// the accumulated remaining and its raw forecast values to the
// projected net balance; actuals are recomputed against each visited
// budget's own month of transactions.
func (s *reportService) projectForward(target *models.Budget, now time.Time) (decimal.Decimal, decimal.Decimal, error) {
	var budgets []models.Budget
	if err := s.db.Where("project_id = ? AND name <= ?", target.ProjectID, target.Name).
		Order("name").
		Find(&budgets).Error; err != nil {
		return decimal.Zero, decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	accumulated := decimal.Zero
	projected := decimal.Zero
	for i := range budgets {
		b := &budgets[i]
		if b.EndDate.Before(now) {
			continue
		}

		transactions, err := s.monthTransactions(b)
		if err != nil {
			return decimal.Zero, decimal.Zero, err
		}
		forecasts, err := s.budgetForecasts(b.ID)
		if err != nil {
			return decimal.Zero, decimal.Zero, err
		}

		for j := range forecasts {
			f := &forecasts[j]
			actual := actualValue(transactions, f)
			accumulated = accumulated.Add(f.Value.Sub(actual))
			projected = projected.Add(f.Value)
		}
	}
	return accumulated, projected, nil
}
