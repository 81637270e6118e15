package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// TransactionService handles transaction-related business logic
type TransactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new transaction service instance
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &TransactionService{db: db}
}

// truncateToDay drops the time-of-day component. The clock time lives in the
// separate Time field so the date column stays comparable by day.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// CreateTransaction records an income or expense. The category must exist and
// its type must match the transaction type.
func (s *TransactionService) CreateTransaction(transactionType models.TransactionType, amount int64, description, accountID, categoryID string, date time.Time, timeOfDay string) (*models.Transaction, error) {
	if transactionType != models.TransactionTypeIncome && transactionType != models.TransactionTypeExpense {
		return nil, apperrors.ErrInvalidTransactionType
	}

	var account models.Account
	if err := s.db.First(&account, "id = ?", accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var category models.Category
	if err := s.db.First(&category, "id = ?", categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if string(category.Type) != string(transactionType) {
		return nil, apperrors.ErrCategoryTypeMismatch
	}

	transaction := models.Transaction{
		Description: description,
		Amount:      amount,
		Type:        transactionType,
		Date:        truncateToDay(date),
		Time:        timeOfDay,
		AccountID:   accountID,
		CategoryID:  &categoryID,
	}

	if err := s.db.Create(&transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &transaction, nil
}

// CreateTransfer records a movement between two accounts. Transfers carry no
// category and never change the combined total across accounts.
func (s *TransactionService) CreateTransfer(amount int64, description, accountID, destinationAccountID string, date time.Time, timeOfDay string) (*models.Transaction, error) {
	if accountID == destinationAccountID {
		return nil, apperrors.ErrSameAccountTransfer
	}

	for _, id := range []string{accountID, destinationAccountID} {
		var account models.Account
		if err := s.db.First(&account, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrAccountNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	transaction := models.Transaction{
		Description:          description,
		Amount:               amount,
		Type:                 models.TransactionTypeTransfer,
		Date:                 truncateToDay(date),
		Time:                 timeOfDay,
		AccountID:            accountID,
		DestinationAccountID: &destinationAccountID,
	}

	if err := s.db.Create(&transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &transaction, nil
}

// GetTransactions retrieves transactions with pagination and optional filters,
// newest first.
func (s *TransactionService) GetTransactions(page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	var transactions []models.Transaction
	var total int64

	query := s.db.Model(&models.Transaction{})

	if filter.FromDate != nil {
		query = query.Where("date >= ?", truncateToDay(*filter.FromDate))
	}
	if filter.ToDate != nil {
		query = query.Where("date <= ?", truncateToDay(*filter.ToDate))
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.AccountID != nil {
		query = query.Where("account_id = ? OR destination_account_id = ?", *filter.AccountID, *filter.AccountID)
	}
	if filter.MinAmount != nil {
		query = query.Where("amount >= ?", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		query = query.Where("amount <= ?", *filter.MaxAmount)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := query.Scopes(pagination.Paginate(page)).
		Preload("Account").
		Preload("Category").
		Preload("DestinationAccount").
		Order("date DESC, time DESC, created_at DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	response := pagination.NewPageResponse(transactions, page.Page, page.PageSize, total)
	return &response, nil
}

// GetTransactionByID retrieves a single transaction by its ID
func (s *TransactionService) GetTransactionByID(transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.
		Preload("Account").
		Preload("Category").
		Preload("DestinationAccount").
		First(&transaction, "id = ?", transactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction applies a partial update. The transaction type is fixed at
// creation; moving between income, expense, and transfer means recreating the
// entry. A category change is checked against the existing type.
func (s *TransactionService) UpdateTransaction(transactionID string, fields TransactionUpdateFields) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(transactionID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if fields.Description != nil {
		updates["description"] = *fields.Description
	}
	if fields.Amount != nil {
		updates["amount"] = *fields.Amount
	}
	if fields.Date != nil {
		updates["date"] = truncateToDay(*fields.Date)
	}
	if fields.Time != nil {
		updates["time"] = *fields.Time
	}
	if fields.AccountID != nil {
		var account models.Account
		if err := s.db.First(&account, "id = ?", *fields.AccountID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrAccountNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		updates["account_id"] = *fields.AccountID
	}
	if fields.CategoryID != nil {
		if transaction.Type == models.TransactionTypeTransfer {
			return nil, apperrors.ErrInvalidTransactionType
		}
		var category models.Category
		if err := s.db.First(&category, "id = ?", *fields.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrCategoryNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if string(category.Type) != string(transaction.Type) {
			return nil, apperrors.ErrCategoryTypeMismatch
		}
		updates["category_id"] = *fields.CategoryID
	}

	if len(updates) == 0 {
		return transaction, nil
	}

	if err := s.db.Model(transaction).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetTransactionByID(transactionID)
}

// DeleteTransaction removes a transaction permanently
func (s *TransactionService) DeleteTransaction(transactionID string) error {
	transaction, err := s.GetTransactionByID(transactionID)
	if err != nil {
		return err
	}

	if err := s.db.Unscoped().Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return nil
}

// CountTransactions returns the total number of stored transactions
func (s *TransactionService) CountTransactions() (int64, error) {
	var count int64
	if err := s.db.Model(&models.Transaction{}).Count(&count).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count, nil
}
