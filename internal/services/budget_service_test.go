package services

import (
	"testing"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/testutil"
)

func TestBudgetService_CreateBudget(t *testing.T) {
	t.Run("creates a budget for an expense category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		service := NewBudgetService(db, NewSettingsService(db))

		category := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)

		budget, err := service.CreateBudget(category.ID, 50000, "2025-03-01")
		testutil.AssertNoError(t, err)

		if budget.Cycle != "2025-03-01" {
			t.Errorf("cycle = %q, want 2025-03-01", budget.Cycle)
		}
		if budget.Amount != 50000 {
			t.Errorf("amount = %d, want 50000", budget.Amount)
		}
	})

	t.Run("a second create for the same category and cycle replaces the amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		service := NewBudgetService(db, NewSettingsService(db))

		category := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)

		first, err := service.CreateBudget(category.ID, 50000, "2025-03-01")
		testutil.AssertNoError(t, err)

		second, err := service.CreateBudget(category.ID, 70000, "2025-03-01")
		testutil.AssertNoError(t, err)

		if second.ID != first.ID {
			t.Errorf("expected the same budget row, got %s and %s", first.ID, second.ID)
		}
		if second.Amount != 70000 {
			t.Errorf("amount = %d, want 70000", second.Amount)
		}

		page, err := service.GetBudgets(pagination.PageRequest{}, nil)
		testutil.AssertNoError(t, err)
		if page.TotalItems != 1 {
			t.Errorf("budget rows = %d, want 1", page.TotalItems)
		}
	})

	t.Run("rejects an income category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		service := NewBudgetService(db, NewSettingsService(db))

		category := testutil.CreateTestCategory(t, db, models.CategoryTypeIncome)

		_, err := service.CreateBudget(category.ID, 50000, "2025-03-01")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("rejects a malformed cycle key", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		service := NewBudgetService(db, NewSettingsService(db))

		category := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)

		_, err := service.CreateBudget(category.ID, 50000, "March 2025")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestBudgetService_GetBudgets(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewBudgetService(db, NewSettingsService(db))

	groceries := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)
	transport := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)
	testutil.CreateTestBudget(t, db, groceries.ID, "2025-03-01", 50000)
	testutil.CreateTestBudget(t, db, transport.ID, "2025-03-01", 20000)
	testutil.CreateTestBudget(t, db, groceries.ID, "2025-04-01", 55000)

	t.Run("scoped to one cycle", func(t *testing.T) {
		cycleKey := "2025-03-01"
		page, err := service.GetBudgets(pagination.PageRequest{}, &cycleKey)
		testutil.AssertNoError(t, err)
		if page.TotalItems != 2 {
			t.Errorf("total = %d, want 2", page.TotalItems)
		}
	})

	t.Run("unscoped returns all cycles", func(t *testing.T) {
		page, err := service.GetBudgets(pagination.PageRequest{}, nil)
		testutil.AssertNoError(t, err)
		if page.TotalItems != 3 {
			t.Errorf("total = %d, want 3", page.TotalItems)
		}
	})
}

func TestBudgetService_GetBudgetProgress(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	settings := NewSettingsService(db)
	service := NewBudgetService(db, settings)

	// Default policy: monthly cycles anchored on day 1.
	category := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)
	other := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)
	account := testutil.CreateTestAccount(t, db)

	inCycle := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	outOfCycle := time.Date(2025, time.April, 2, 0, 0, 0, 0, time.UTC)
	testutil.CreateTestTransaction(t, db, account.ID, category.ID, models.TransactionTypeExpense, 12000, inCycle)
	testutil.CreateTestTransaction(t, db, account.ID, category.ID, models.TransactionTypeExpense, 8000, inCycle)
	testutil.CreateTestTransaction(t, db, account.ID, category.ID, models.TransactionTypeExpense, 9999, outOfCycle)
	testutil.CreateTestTransaction(t, db, account.ID, other.ID, models.TransactionTypeExpense, 7000, inCycle)

	budget := testutil.CreateTestBudget(t, db, category.ID, "2025-03-01", 50000)

	progress, err := service.GetBudgetProgress(budget.ID)
	testutil.AssertNoError(t, err)

	if progress.Spent != 20000 {
		t.Errorf("spent = %d, want 20000", progress.Spent)
	}
	if progress.Remaining != 30000 {
		t.Errorf("remaining = %d, want 30000", progress.Remaining)
	}
	if progress.Percentage != 40 {
		t.Errorf("percentage = %v, want 40", progress.Percentage)
	}
}

func TestBudgetService_OverallBudget(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewBudgetService(db, NewSettingsService(db))

	t.Run("save then get", func(t *testing.T) {
		saved, err := service.SaveOverallBudget("2025-03-01", 200000)
		testutil.AssertNoError(t, err)
		if saved.Amount != 200000 {
			t.Errorf("amount = %d, want 200000", saved.Amount)
		}

		got, err := service.GetOverallBudget("2025-03-01")
		testutil.AssertNoError(t, err)
		if got.ID != saved.ID {
			t.Errorf("got %s, want %s", got.ID, saved.ID)
		}
	})

	t.Run("save again replaces the amount", func(t *testing.T) {
		replaced, err := service.SaveOverallBudget("2025-03-01", 250000)
		testutil.AssertNoError(t, err)
		if replaced.Amount != 250000 {
			t.Errorf("amount = %d, want 250000", replaced.Amount)
		}
	})

	t.Run("delete removes the cap", func(t *testing.T) {
		err := service.DeleteOverallBudget("2025-03-01")
		testutil.AssertNoError(t, err)

		_, err = service.GetOverallBudget("2025-03-01")
		testutil.AssertAppError(t, err, "OVERALL_BUDGET_NOT_FOUND")
	})

	t.Run("missing cycle is not found", func(t *testing.T) {
		_, err := service.GetOverallBudget("2030-01-01")
		testutil.AssertAppError(t, err, "OVERALL_BUDGET_NOT_FOUND")
	})
}
