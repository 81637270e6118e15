package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"fintrack/internal/models"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestAccount creates an active account with a zero initial balance.
func CreateTestAccount(t *testing.T, db *gorm.DB) *models.Account {
	t.Helper()
	return CreateTestAccountWithBalance(t, db, 0)
}

// CreateTestAccountWithBalance creates an active account with the given initial balance (in cents).
func CreateTestAccountWithBalance(t *testing.T, db *gorm.DB, initialBalance int64) *models.Account {
	t.Helper()

	account := &models.Account{
		Name:           fmt.Sprintf("Test Account %d", nextID()),
		Icon:           "wallet",
		InitialBalance: initialBalance,
		IsActive:       true,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestCategory creates a category of the given type.
func CreateTestCategory(t *testing.T, db *gorm.DB, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		Name:  fmt.Sprintf("Test Category %d", nextID()),
		Type:  categoryType,
		Icon:  "tag",
		Color: "#4287f5",
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a transaction of the given type and amount (in
// cents) dated on the given day at midnight.
func CreateTestTransaction(t *testing.T, db *gorm.DB, accountID, categoryID string, txType models.TransactionType, amount int64, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		Description: fmt.Sprintf("Test Transaction %d", nextID()),
		Amount:      amount,
		Type:        txType,
		Date:        time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location()),
		Time:        "12:00",
		AccountID:   accountID,
		CategoryID:  &categoryID,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestTransfer creates a transfer between two accounts.
func CreateTestTransfer(t *testing.T, db *gorm.DB, fromID, toID string, amount int64, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		Description:          fmt.Sprintf("Test Transfer %d", nextID()),
		Amount:               amount,
		Type:                 models.TransactionTypeTransfer,
		Date:                 time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location()),
		Time:                 "12:00",
		AccountID:            fromID,
		DestinationAccountID: &toID,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transfer: %v", err)
	}
	return tx
}

// CreateTestRule creates an active recurring rule starting on the given day.
func CreateTestRule(t *testing.T, db *gorm.DB, accountID, categoryID string, frequency models.RuleFrequency, startDate time.Time) *models.RecurringRule {
	t.Helper()

	rule := &models.RecurringRule{
		Description: fmt.Sprintf("Test Rule %d", nextID()),
		Amount:      1000,
		Type:        models.TransactionTypeExpense,
		AccountID:   accountID,
		CategoryID:  categoryID,
		Frequency:   frequency,
		StartDate:   time.Date(startDate.Year(), startDate.Month(), startDate.Day(), 0, 0, 0, 0, startDate.Location()),
		IsActive:    true,
	}
	if err := db.Create(rule).Error; err != nil {
		t.Fatalf("failed to create test rule: %v", err)
	}
	return rule
}

// CreateTestBudget creates a budget for the given category and cycle key.
func CreateTestBudget(t *testing.T, db *gorm.DB, categoryID, cycleKey string, amount int64) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		CategoryID: categoryID,
		Amount:     amount,
		Cycle:      cycleKey,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}
