package services

import (
	"testing"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/testutil"
)

func TestRecurringService_CreateRule(t *testing.T) {
	start := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	t.Run("creates an active rule", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		service := NewRecurringService(db)

		account := testutil.CreateTestAccount(t, db)
		category := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)

		rule, err := service.CreateRule(RuleParams{
			Description: "Rent",
			Amount:      120000,
			Type:        models.TransactionTypeExpense,
			AccountID:   account.ID,
			CategoryID:  category.ID,
			Frequency:   models.RuleFrequencyMonthly,
			StartDate:   start,
		})
		testutil.AssertNoError(t, err)

		if !rule.IsActive {
			t.Error("new rule should be active")
		}
		if rule.LastGeneratedDate != nil {
			t.Error("new rule should have no cursor")
		}
	})

	t.Run("rejects the transfer type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		service := NewRecurringService(db)

		account := testutil.CreateTestAccount(t, db)
		category := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)

		_, err := service.CreateRule(RuleParams{
			Description: "Move",
			Amount:      1000,
			Type:        models.TransactionTypeTransfer,
			AccountID:   account.ID,
			CategoryID:  category.ID,
			Frequency:   models.RuleFrequencyMonthly,
			StartDate:   start,
		})
		testutil.AssertAppError(t, err, "INVALID_TRANSACTION_TYPE")
	})

	t.Run("rejects an end date before the start date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		service := NewRecurringService(db)

		account := testutil.CreateTestAccount(t, db)
		category := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)

		end := start.AddDate(0, 0, -1)
		_, err := service.CreateRule(RuleParams{
			Description: "Backwards",
			Amount:      1000,
			Type:        models.TransactionTypeExpense,
			AccountID:   account.ID,
			CategoryID:  category.ID,
			Frequency:   models.RuleFrequencyDaily,
			StartDate:   start,
			EndDate:     &end,
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("rejects a category whose type does not match", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		service := NewRecurringService(db)

		account := testutil.CreateTestAccount(t, db)
		category := testutil.CreateTestCategory(t, db, models.CategoryTypeIncome)

		_, err := service.CreateRule(RuleParams{
			Description: "Rent",
			Amount:      120000,
			Type:        models.TransactionTypeExpense,
			AccountID:   account.ID,
			CategoryID:  category.ID,
			Frequency:   models.RuleFrequencyMonthly,
			StartDate:   start,
		})
		testutil.AssertAppError(t, err, "CATEGORY_TYPE_MISMATCH")
	})
}

func TestRecurringService_CatchUp(t *testing.T) {
	t.Run("materializes the backlog and advances the cursor", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		service := NewRecurringService(db)

		account := testutil.CreateTestAccount(t, db)
		category := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)
		start := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
		rule := testutil.CreateTestRule(t, db, account.ID, category.ID, models.RuleFrequencyDaily, start)

		created, err := service.CatchUp(time.Date(2025, time.March, 5, 12, 0, 0, 0, time.UTC))
		testutil.AssertNoError(t, err)
		if created != 5 {
			t.Fatalf("created = %d, want 5", created)
		}

		var count int64
		if err := db.Model(&models.Transaction{}).Where("recurring_rule_id = ?", rule.ID).Count(&count).Error; err != nil {
			t.Fatalf("failed to count transactions: %v", err)
		}
		if count != 5 {
			t.Errorf("stored transactions = %d, want 5", count)
		}

		stored, err := service.GetRuleByID(rule.ID)
		testutil.AssertNoError(t, err)
		if stored.LastGeneratedDate == nil || !stored.LastGeneratedDate.Equal(time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("cursor = %v, want 2025-03-05", stored.LastGeneratedDate)
		}
	})

	t.Run("second run creates nothing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		service := NewRecurringService(db)

		account := testutil.CreateTestAccount(t, db)
		category := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)
		start := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
		testutil.CreateTestRule(t, db, account.ID, category.ID, models.RuleFrequencyDaily, start)

		now := time.Date(2025, time.March, 5, 12, 0, 0, 0, time.UTC)
		_, err := service.CatchUp(now)
		testutil.AssertNoError(t, err)

		created, err := service.CatchUp(now)
		testutil.AssertNoError(t, err)
		if created != 0 {
			t.Errorf("created = %d, want 0", created)
		}
	})
}

func TestRecurringService_DeleteRule(t *testing.T) {
	start := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	t.Run("rule without generated transactions is deleted outright", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		service := NewRecurringService(db)

		account := testutil.CreateTestAccount(t, db)
		category := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)
		rule := testutil.CreateTestRule(t, db, account.ID, category.ID, models.RuleFrequencyMonthly, start)

		err := service.DeleteRule(rule.ID, false)
		testutil.AssertNoError(t, err)

		_, err = service.GetRuleByID(rule.ID)
		testutil.AssertAppError(t, err, "RULE_NOT_FOUND")
	})

	t.Run("rule with generated transactions requires confirmation", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		service := NewRecurringService(db)

		account := testutil.CreateTestAccount(t, db)
		category := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)
		rule := testutil.CreateTestRule(t, db, account.ID, category.ID, models.RuleFrequencyDaily, start)

		_, err := service.CatchUp(time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC))
		testutil.AssertNoError(t, err)

		err = service.DeleteRule(rule.ID, false)
		testutil.AssertAppError(t, err, "RULE_HAS_TRANSACTIONS")

		err = service.DeleteRule(rule.ID, true)
		testutil.AssertNoError(t, err)

		// Generated transactions survive with the rule reference cleared.
		var count int64
		if err := db.Model(&models.Transaction{}).Count(&count).Error; err != nil {
			t.Fatalf("failed to count transactions: %v", err)
		}
		if count != 3 {
			t.Errorf("transactions = %d, want 3", count)
		}
		var dangling int64
		if err := db.Model(&models.Transaction{}).Where("recurring_rule_id IS NOT NULL").Count(&dangling).Error; err != nil {
			t.Fatalf("failed to count rule references: %v", err)
		}
		if dangling != 0 {
			t.Errorf("rule references = %d, want 0", dangling)
		}
	})
}

func TestRecurringService_UpdateRule(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewRecurringService(db)

	account := testutil.CreateTestAccount(t, db)
	category := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)
	start := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	rule := testutil.CreateTestRule(t, db, account.ID, category.ID, models.RuleFrequencyMonthly, start)

	t.Run("updates amount and active flag", func(t *testing.T) {
		amount := int64(99000)
		inactive := false
		updated, err := service.UpdateRule(rule.ID, RuleUpdateFields{Amount: &amount, IsActive: &inactive})
		testutil.AssertNoError(t, err)

		if updated.Amount != 99000 {
			t.Errorf("amount = %d, want 99000", updated.Amount)
		}
		if updated.IsActive {
			t.Error("rule should be inactive")
		}
	})

	t.Run("rejects an end date before the start date", func(t *testing.T) {
		end := start.AddDate(0, 0, -1)
		_, err := service.UpdateRule(rule.ID, RuleUpdateFields{EndDate: &end})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}
