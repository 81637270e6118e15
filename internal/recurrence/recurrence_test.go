package recurrence

import (
	"testing"
	"time"

	"fintrack/internal/models"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func makeRule(frequency models.RuleFrequency, startDate time.Time) models.RecurringRule {
	rule := models.RecurringRule{
		Description: "Gym membership",
		Amount:      3000,
		Type:        models.TransactionTypeExpense,
		AccountID:   "acc-1",
		CategoryID:  "cat-1",
		Frequency:   frequency,
		StartDate:   startDate,
		IsActive:    true,
	}
	rule.ID = "rule-1"
	return rule
}

func TestMaterializeCatchUp(t *testing.T) {
	t.Run("daily rule five days behind emits five transactions", func(t *testing.T) {
		rule := makeRule(models.RuleFrequencyDaily, date(2025, time.March, 1))
		cursor := date(2025, time.March, 5)
		rule.LastGeneratedDate = &cursor

		result := Materialize([]models.RecurringRule{rule}, date(2025, time.March, 10))

		if len(result.NewTransactions) != 5 {
			t.Fatalf("expected 5 transactions, got %d", len(result.NewTransactions))
		}
		for i, tx := range result.NewTransactions {
			want := date(2025, time.March, 6+i)
			if !tx.Date.Equal(want) {
				t.Errorf("transaction %d date = %v, want %v", i, tx.Date, want)
			}
		}
		if len(result.UpdatedRules) != 1 {
			t.Fatalf("expected 1 updated rule, got %d", len(result.UpdatedRules))
		}
		if got := result.UpdatedRules[0].LastGeneratedDate; got == nil || !got.Equal(date(2025, time.March, 10)) {
			t.Errorf("cursor = %v, want 2025-03-10", got)
		}
	})

	t.Run("fresh rule emits its start date first", func(t *testing.T) {
		rule := makeRule(models.RuleFrequencyWeekly, date(2025, time.March, 3))

		result := Materialize([]models.RecurringRule{rule}, date(2025, time.March, 17))

		if len(result.NewTransactions) != 3 {
			t.Fatalf("expected 3 transactions, got %d", len(result.NewTransactions))
		}
		if !result.NewTransactions[0].Date.Equal(date(2025, time.March, 3)) {
			t.Errorf("first occurrence = %v, want start date", result.NewTransactions[0].Date)
		}
	})

	t.Run("rule starting in the future emits nothing", func(t *testing.T) {
		rule := makeRule(models.RuleFrequencyDaily, date(2025, time.April, 1))

		result := Materialize([]models.RecurringRule{rule}, date(2025, time.March, 10))

		if len(result.NewTransactions) != 0 {
			t.Errorf("expected no transactions, got %d", len(result.NewTransactions))
		}
		if len(result.UpdatedRules) != 0 {
			t.Errorf("expected no updated rules, got %d", len(result.UpdatedRules))
		}
	})
}

func TestMaterializeIdempotence(t *testing.T) {
	rule := makeRule(models.RuleFrequencyDaily, date(2025, time.March, 1))
	today := date(2025, time.March, 10)

	first := Materialize([]models.RecurringRule{rule}, today)
	if len(first.NewTransactions) != 10 {
		t.Fatalf("expected 10 transactions on first pass, got %d", len(first.NewTransactions))
	}

	// Re-run with the advanced cursor, as the persistence layer would.
	second := Materialize(first.UpdatedRules, today)
	if len(second.NewTransactions) != 0 {
		t.Errorf("expected no transactions on second pass, got %d", len(second.NewTransactions))
	}
	if len(second.UpdatedRules) != 0 {
		t.Errorf("expected no updated rules on second pass, got %d", len(second.UpdatedRules))
	}
}

func TestMaterializeEndDate(t *testing.T) {
	t.Run("occurrences past the end date are not emitted", func(t *testing.T) {
		rule := makeRule(models.RuleFrequencyDaily, date(2025, time.March, 1))
		end := date(2025, time.March, 3)
		rule.EndDate = &end

		result := Materialize([]models.RecurringRule{rule}, date(2025, time.March, 10))

		if len(result.NewTransactions) != 3 {
			t.Fatalf("expected 3 transactions, got %d", len(result.NewTransactions))
		}
		last := result.NewTransactions[2].Date
		if !last.Equal(end) {
			t.Errorf("last occurrence = %v, want %v", last, end)
		}
	})

	t.Run("expired rule is skipped without touching its cursor", func(t *testing.T) {
		rule := makeRule(models.RuleFrequencyDaily, date(2025, time.March, 1))
		end := date(2025, time.March, 3)
		cursor := date(2025, time.March, 3)
		rule.EndDate = &end
		rule.LastGeneratedDate = &cursor

		result := Materialize([]models.RecurringRule{rule}, date(2025, time.March, 10))

		if len(result.NewTransactions) != 0 {
			t.Errorf("expected no transactions, got %d", len(result.NewTransactions))
		}
		if len(result.UpdatedRules) != 0 {
			t.Errorf("expected no updated rules, got %d", len(result.UpdatedRules))
		}
	})

	t.Run("end date on the evaluation day still emits that day", func(t *testing.T) {
		rule := makeRule(models.RuleFrequencyDaily, date(2025, time.March, 9))
		end := date(2025, time.March, 10)
		rule.EndDate = &end

		result := Materialize([]models.RecurringRule{rule}, date(2025, time.March, 10))

		if len(result.NewTransactions) != 2 {
			t.Fatalf("expected 2 transactions, got %d", len(result.NewTransactions))
		}
	})
}

func TestMaterializeInactiveRule(t *testing.T) {
	rule := makeRule(models.RuleFrequencyDaily, date(2025, time.March, 1))
	rule.IsActive = false

	result := Materialize([]models.RecurringRule{rule}, date(2025, time.March, 10))

	if len(result.NewTransactions) != 0 {
		t.Errorf("expected no transactions for inactive rule, got %d", len(result.NewTransactions))
	}
}

func TestMaterializeMonthlyOverflow(t *testing.T) {
	// A monthly rule anchored on January 31st lands on March 3rd after
	// stepping through February, because AddDate normalizes the overflow.
	rule := makeRule(models.RuleFrequencyMonthly, date(2025, time.January, 31))

	result := Materialize([]models.RecurringRule{rule}, date(2025, time.March, 31))

	if len(result.NewTransactions) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(result.NewTransactions))
	}
	if !result.NewTransactions[0].Date.Equal(date(2025, time.January, 31)) {
		t.Errorf("first occurrence = %v, want 2025-01-31", result.NewTransactions[0].Date)
	}
	if !result.NewTransactions[1].Date.Equal(date(2025, time.March, 3)) {
		t.Errorf("second occurrence = %v, want 2025-03-03", result.NewTransactions[1].Date)
	}
}

func TestMaterializeTransactionFields(t *testing.T) {
	rule := makeRule(models.RuleFrequencyDaily, date(2025, time.March, 10))

	result := Materialize([]models.RecurringRule{rule}, date(2025, time.March, 10))

	if len(result.NewTransactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(result.NewTransactions))
	}
	tx := result.NewTransactions[0]
	if tx.Description != rule.Description {
		t.Errorf("description = %q, want %q", tx.Description, rule.Description)
	}
	if tx.Amount != rule.Amount {
		t.Errorf("amount = %d, want %d", tx.Amount, rule.Amount)
	}
	if tx.Type != rule.Type {
		t.Errorf("type = %q, want %q", tx.Type, rule.Type)
	}
	if tx.Time != "00:00" {
		t.Errorf("time = %q, want 00:00", tx.Time)
	}
	if tx.AccountID != rule.AccountID {
		t.Errorf("account = %q, want %q", tx.AccountID, rule.AccountID)
	}
	if tx.CategoryID == nil || *tx.CategoryID != rule.CategoryID {
		t.Errorf("category = %v, want %q", tx.CategoryID, rule.CategoryID)
	}
	if tx.RecurringRuleID == nil || *tx.RecurringRuleID != rule.ID {
		t.Errorf("rule reference = %v, want %q", tx.RecurringRuleID, rule.ID)
	}
}
