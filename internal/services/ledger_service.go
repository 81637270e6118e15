package services

import (
	"time"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/ledger"
	"fintrack/internal/models"
)

// LedgerService derives balances and history from the stored ledger
type LedgerService struct {
	db *gorm.DB
}

// NewLedgerService creates a new ledger service instance
func NewLedgerService(db *gorm.DB) LedgerServicer {
	return &LedgerService{db: db}
}

// Compute loads every account and transaction and folds them into per-account
// balances, the settled running-balance history, and the pending queue.
// Inactive accounts are included so historic totals stay correct.
func (s *LedgerService) Compute(now time.Time) (*ledger.Result, error) {
	var accounts []models.Account
	if err := s.db.Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := s.db.
		Preload("Category").
		Preload("Account").
		Preload("DestinationAccount").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := ledger.Compute(accounts, transactions, now)
	return &result, nil
}
