package services

import (
	"testing"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/testutil"
)

func TestSettingsService_GetCycleSettings(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewSettingsService(db)

	settings, err := service.GetCycleSettings()
	testutil.AssertNoError(t, err)

	if settings.Frequency != models.CycleFrequencyMonthly {
		t.Errorf("default frequency = %q, want monthly", settings.Frequency)
	}
	if settings.StartDay != 1 {
		t.Errorf("default start day = %d, want 1", settings.StartDay)
	}
	if settings.MonthlyStartType != models.MonthlyStartFixed {
		t.Errorf("default start type = %q, want fixed", settings.MonthlyStartType)
	}

	// Repeated reads return the same persisted row.
	again, err := service.GetCycleSettings()
	testutil.AssertNoError(t, err)
	if again.ID != settings.ID {
		t.Errorf("got %s, want %s", again.ID, settings.ID)
	}
}

func TestSettingsService_UpdateCycleSettings(t *testing.T) {
	t.Run("switches to weekly", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		service := NewSettingsService(db)

		updated, err := service.UpdateCycleSettings(models.CycleFrequencyWeekly, 1, models.MonthlyStartFixed)
		testutil.AssertNoError(t, err)

		if updated.Frequency != models.CycleFrequencyWeekly {
			t.Errorf("frequency = %q, want weekly", updated.Frequency)
		}
		if updated.StartDay != 1 {
			t.Errorf("start day = %d, want 1", updated.StartDay)
		}
	})

	t.Run("rejects a fixed monthly day above 28", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		service := NewSettingsService(db)

		_, err := service.UpdateCycleSettings(models.CycleFrequencyMonthly, 31, models.MonthlyStartFixed)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("rejects a weekday outside 0-6", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		service := NewSettingsService(db)

		_, err := service.UpdateCycleSettings(models.CycleFrequencyWeekly, 7, models.MonthlyStartFixed)
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = service.UpdateCycleSettings(models.CycleFrequencyMonthly, -1, models.MonthlyStartFirstWeekday)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("rejects an unknown monthly start type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		service := NewSettingsService(db)

		_, err := service.UpdateCycleSettings(models.CycleFrequencyMonthly, 1, "quarterly")
		testutil.AssertAppError(t, err, "INVALID_CYCLE_POLICY")
	})
}

func TestSettingsService_CurrentCycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewSettingsService(db)

	_, err := service.UpdateCycleSettings(models.CycleFrequencyMonthly, 15, models.MonthlyStartFixed)
	testutil.AssertNoError(t, err)

	window, err := service.CurrentCycle(time.Date(2025, time.March, 20, 12, 0, 0, 0, time.UTC))
	testutil.AssertNoError(t, err)

	if window.Key() != "2025-03-15" {
		t.Errorf("cycle key = %q, want 2025-03-15", window.Key())
	}
	wantEnd := time.Date(2025, time.April, 14, 23, 59, 59, 999000000, time.UTC)
	if !window.End.Equal(wantEnd) {
		t.Errorf("end = %v, want %v", window.End, wantEnd)
	}
}
