package services

import (
	"testing"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/testutil"
)

func TestAccountService_CreateAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewAccountService(db)

	account, err := service.CreateAccount("Checking", "wallet", 10000)
	testutil.AssertNoError(t, err)

	if account.ID == "" {
		t.Error("expected generated ID")
	}
	if account.Name != "Checking" {
		t.Errorf("name = %q, want Checking", account.Name)
	}
	if account.InitialBalance != 10000 {
		t.Errorf("initial balance = %d, want 10000", account.InitialBalance)
	}
	if !account.IsActive {
		t.Error("new account should be active")
	}
}

func TestAccountService_GetAccounts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewAccountService(db)

	active := testutil.CreateTestAccount(t, db)
	inactive := testutil.CreateTestAccount(t, db)
	if err := db.Model(inactive).Update("is_active", false).Error; err != nil {
		t.Fatalf("failed to deactivate account: %v", err)
	}

	t.Run("excludes inactive accounts by default", func(t *testing.T) {
		page, err := service.GetAccounts(pagination.PageRequest{Page: 1, PageSize: 10}, false)
		testutil.AssertNoError(t, err)

		if page.TotalItems != 1 {
			t.Fatalf("total = %d, want 1", page.TotalItems)
		}
		if page.Data[0].ID != active.ID {
			t.Errorf("got account %s, want %s", page.Data[0].ID, active.ID)
		}
	})

	t.Run("includes inactive accounts when requested", func(t *testing.T) {
		page, err := service.GetAccounts(pagination.PageRequest{Page: 1, PageSize: 10}, true)
		testutil.AssertNoError(t, err)

		if page.TotalItems != 2 {
			t.Errorf("total = %d, want 2", page.TotalItems)
		}
	})
}

func TestAccountService_GetAccountByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewAccountService(db)

	account := testutil.CreateTestAccount(t, db)

	t.Run("found", func(t *testing.T) {
		got, err := service.GetAccountByID(account.ID)
		testutil.AssertNoError(t, err)
		if got.ID != account.ID {
			t.Errorf("got %s, want %s", got.ID, account.ID)
		}
	})

	t.Run("not found", func(t *testing.T) {
		_, err := service.GetAccountByID("00000000-0000-0000-0000-000000000000")
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})
}

func TestAccountService_UpdateAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewAccountService(db)

	account := testutil.CreateTestAccount(t, db)

	name := "Renamed"
	updated, err := service.UpdateAccount(account.ID, AccountUpdateFields{Name: &name})
	testutil.AssertNoError(t, err)

	if updated.Name != "Renamed" {
		t.Errorf("name = %q, want Renamed", updated.Name)
	}
}

func TestAccountService_DeleteAccount(t *testing.T) {
	day := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	t.Run("account without history is hard-deleted", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		service := NewAccountService(db)

		account := testutil.CreateTestAccount(t, db)

		outcome, err := service.DeleteAccount(account.ID)
		testutil.AssertNoError(t, err)
		if outcome != AccountDeleted {
			t.Errorf("outcome = %q, want %q", outcome, AccountDeleted)
		}

		_, err = service.GetAccountByID(account.ID)
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})

	t.Run("account with history and non-zero balance is rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		service := NewAccountService(db)

		account := testutil.CreateTestAccountWithBalance(t, db, 10000)
		category := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)
		testutil.CreateTestTransaction(t, db, account.ID, category.ID, models.TransactionTypeExpense, 3000, day)

		_, err := service.DeleteAccount(account.ID)
		testutil.AssertAppError(t, err, "ACCOUNT_HAS_BALANCE")
	})

	t.Run("account with history at zero balance toggles active state", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		service := NewAccountService(db)

		account := testutil.CreateTestAccountWithBalance(t, db, 3000)
		category := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)
		testutil.CreateTestTransaction(t, db, account.ID, category.ID, models.TransactionTypeExpense, 3000, day)

		outcome, err := service.DeleteAccount(account.ID)
		testutil.AssertNoError(t, err)
		if outcome != AccountDeactivated {
			t.Errorf("outcome = %q, want %q", outcome, AccountDeactivated)
		}

		outcome, err = service.DeleteAccount(account.ID)
		testutil.AssertNoError(t, err)
		if outcome != AccountReactivated {
			t.Errorf("outcome = %q, want %q", outcome, AccountReactivated)
		}
	})

	t.Run("incoming transfers count towards the derived balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		service := NewAccountService(db)

		source := testutil.CreateTestAccountWithBalance(t, db, 5000)
		destination := testutil.CreateTestAccount(t, db)
		testutil.CreateTestTransfer(t, db, source.ID, destination.ID, 5000, day)

		_, err := service.DeleteAccount(destination.ID)
		testutil.AssertAppError(t, err, "ACCOUNT_HAS_BALANCE")

		outcome, err := service.DeleteAccount(source.ID)
		testutil.AssertNoError(t, err)
		if outcome != AccountDeactivated {
			t.Errorf("outcome = %q, want %q", outcome, AccountDeactivated)
		}
	})
}
