package services

import (
	"testing"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/testutil"
)

func TestSummaryService_GetDashboard(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	settings := NewSettingsService(db)
	ledgerService := NewLedgerService(db)
	service := NewSummaryService(db, settings, ledgerService)

	account := testutil.CreateTestAccountWithBalance(t, db, 100000)
	salary := testutil.CreateTestCategory(t, db, models.CategoryTypeIncome)
	groceries := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)

	// Default policy: monthly cycles anchored on day 1. March transactions
	// are inside the cycle of a mid-March reference; February ones are not.
	inCycle := time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)
	previous := time.Date(2025, time.February, 20, 0, 0, 0, 0, time.UTC)
	testutil.CreateTestTransaction(t, db, account.ID, salary.ID, models.TransactionTypeIncome, 300000, inCycle)
	testutil.CreateTestTransaction(t, db, account.ID, groceries.ID, models.TransactionTypeExpense, 45000, inCycle)
	testutil.CreateTestTransaction(t, db, account.ID, groceries.ID, models.TransactionTypeExpense, 30000, previous)

	now := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)
	dashboard, err := service.GetDashboard(now)
	testutil.AssertNoError(t, err)

	if dashboard.CycleKey != "2025-03-01" {
		t.Errorf("cycle key = %q, want 2025-03-01", dashboard.CycleKey)
	}
	if dashboard.Income != 300000 {
		t.Errorf("income = %d, want 300000", dashboard.Income)
	}
	if dashboard.Expense != 45000 {
		t.Errorf("expense = %d, want 45000", dashboard.Expense)
	}
	if len(dashboard.CycleTransactions) != 2 {
		t.Errorf("cycle transactions = %d, want 2", len(dashboard.CycleTransactions))
	}

	if len(dashboard.Accounts) != 1 {
		t.Fatalf("accounts = %d, want 1", len(dashboard.Accounts))
	}
	// 100000 + 300000 - 45000 - 30000, all transactions regardless of cycle.
	if got := dashboard.Accounts[0].Balance.Balance; got != 325000 {
		t.Errorf("account balance = %d, want 325000", got)
	}

	// Groceries has spending in February and March; the average divides by
	// those two months, not the full lookback window.
	if got := dashboard.CategoryAverages[groceries.ID]; got != 37500 {
		t.Errorf("groceries average = %d, want 37500", got)
	}
}

func TestSummaryService_CategoryAverages(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	settings := NewSettingsService(db)
	ledgerService := NewLedgerService(db)
	service := NewSummaryService(db, settings, ledgerService)

	account := testutil.CreateTestAccount(t, db)
	groceries := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)
	unused := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)

	// Spending in two of the lookback months, one of them the current month.
	earlier := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)
	current := time.Date(2025, time.March, 12, 0, 0, 0, 0, time.UTC)
	testutil.CreateTestTransaction(t, db, account.ID, groceries.ID, models.TransactionTypeExpense, 600, earlier)
	testutil.CreateTestTransaction(t, db, account.ID, groceries.ID, models.TransactionTypeExpense, 500, current)

	now := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)
	dashboard, err := service.GetDashboard(now)
	testutil.AssertNoError(t, err)

	// 1100 over the two months with data, not over the six-month window.
	if got := dashboard.CategoryAverages[groceries.ID]; got != 550 {
		t.Errorf("groceries average = %d, want 550", got)
	}
	if _, ok := dashboard.CategoryAverages[unused.ID]; ok {
		t.Errorf("unexpected average for a category with no spending")
	}

	t.Run("spending older than the lookback window is ignored", func(t *testing.T) {
		stale := time.Date(2024, time.August, 20, 0, 0, 0, 0, time.UTC)
		testutil.CreateTestTransaction(t, db, account.ID, groceries.ID, models.TransactionTypeExpense, 90000, stale)

		dashboard, err := service.GetDashboard(now)
		testutil.AssertNoError(t, err)
		if got := dashboard.CategoryAverages[groceries.ID]; got != 550 {
			t.Errorf("groceries average = %d, want 550", got)
		}
	})
}
