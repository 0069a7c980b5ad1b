package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "bud/internal/errors"
	"bud/internal/models"
	"bud/internal/month"
	"bud/internal/pagination"
)

// transactionService handles ledger entries and their balance side
// effects. Every balance adjustment happens in the same database
// transaction as the row change.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// CreateTransaction posts a ledger entry and adds its signed value to
// the owning account's current balance.
func (s *transactionService) CreateTransaction(in CreateTransactionInput) (*models.Transaction, error) {
	if in.Description == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	}
	if in.Date.IsZero() {
		in.Date = time.Now().UTC()
	}

	var account models.Account
	if err := s.db.Where("id = ?", in.AccountID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	txn := &models.Transaction{
		Value:       in.Value,
		Description: in.Description,
		Date:        in.Date,
		Tags:        in.Tags,
		AccountID:   in.AccountID,
		CategoryID:  in.CategoryID,
		ProjectID:   in.ProjectID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(txn).Error; err != nil {
			return err
		}
		return adjustAccountBalance(tx, in.AccountID, in.Value)
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return txn, nil
}

// GetTransactionByID returns a transaction by ID.
func (s *transactionService) GetTransactionByID(transactionID string) (*models.Transaction, error) {
	var txn models.Transaction
	if err := s.db.Preload("Account").Preload("Category").
		Where("id = ?", transactionID).First(&txn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &txn, nil
}

// ListTransactions returns a paginated list of a project's transactions,
// optionally restricted to a single month, newest first.
func (s *transactionService) ListTransactions(projectID string, monthToken *string, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("project_id = ?", projectID)
	if monthToken != nil {
		start, end, err := month.Range(*monthToken)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInvalidMonth, err)
		}
		base = base.Where("date >= ? AND date <= ?", start, end)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Preload("Account").Preload("Category").
		Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// UpdateTransaction edits a ledger entry. Value and account changes
// reverse the old posting: the value delta is applied when the account
// stays the same, otherwise the full old value is removed from the old
// account and the new value added to the new one.
func (s *transactionService) UpdateTransaction(transactionID string, in UpdateTransactionInput) (*models.Transaction, error) {
	var txn models.Transaction
	if err := s.db.Where("id = ?", transactionID).First(&txn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	oldValue := txn.Value
	oldAccountID := txn.AccountID

	if in.Value != nil {
		txn.Value = *in.Value
	}
	if in.Description != nil {
		txn.Description = *in.Description
	}
	if in.Date != nil {
		txn.Date = *in.Date
	}
	if in.AccountID != nil {
		var account models.Account
		if err := s.db.Where("id = ?", *in.AccountID).First(&account).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrAccountNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		txn.AccountID = *in.AccountID
	}
	if in.CategoryID != nil {
		txn.CategoryID = in.CategoryID
	}
	if in.Tags != nil {
		txn.Tags = in.Tags
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&txn).Error; err != nil {
			return err
		}

		if txn.AccountID == oldAccountID {
			diff := txn.Value.Sub(oldValue)
			if diff.IsZero() {
				return nil
			}
			return adjustAccountBalance(tx, oldAccountID, diff)
		}

		if err := adjustAccountBalance(tx, oldAccountID, oldValue.Neg()); err != nil {
			return err
		}
		return adjustAccountBalance(tx, txn.AccountID, txn.Value)
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &txn, nil
}

// DeleteTransaction removes a ledger entry and reverses its effect on
// the account balance.
func (s *transactionService) DeleteTransaction(transactionID string) error {
	var txn models.Transaction
	if err := s.db.Where("id = ?", transactionID).First(&txn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrTransactionNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&txn).Error; err != nil {
			return err
		}
		return adjustAccountBalance(tx, txn.AccountID, txn.Value.Neg())
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// adjustAccountBalance adds delta to the account's current balance
// within the caller's transaction.
func adjustAccountBalance(tx *gorm.DB, accountID string, delta decimal.Decimal) error {
	var account models.Account
	if err := tx.Where("id = ?", accountID).First(&account).Error; err != nil {
		return err
	}
	account.CurrentBalance = account.CurrentBalance.Add(delta)
	return tx.Model(&account).Update("current_balance", account.CurrentBalance).Error
}
