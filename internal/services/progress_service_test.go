package services

import (
	"testing"

	"fintrack/internal/testutil"
)

func TestProgressService_GetProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewProgressService(db)

	profile, err := service.GetProfile()
	testutil.AssertNoError(t, err)

	if profile.Level != 1 {
		t.Errorf("level = %d, want 1", profile.Level)
	}
	if profile.XP != 0 {
		t.Errorf("xp = %d, want 0", profile.XP)
	}
	if profile.XPForNextLevel != 100 {
		t.Errorf("xp for next level = %d, want 100", profile.XPForNextLevel)
	}
	if len(profile.UnlockedAchievements) != 0 {
		t.Errorf("unlocked = %v, want empty", profile.UnlockedAchievements)
	}
	if len(profile.Achievements) == 0 {
		t.Error("expected the achievement catalog")
	}
}

func TestProgressService_OnTransactionCreated(t *testing.T) {
	t.Run("first transaction unlocks the achievement and grants XP", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		service := NewProgressService(db)

		service.OnTransactionCreated(0)

		profile, err := service.GetProfile()
		testutil.AssertNoError(t, err)

		// 5 XP for the transaction plus 50 for the achievement.
		if profile.XP != 55 {
			t.Errorf("xp = %d, want 55", profile.XP)
		}
		if len(profile.UnlockedAchievements) != 1 || profile.UnlockedAchievements[0] != "first_transaction" {
			t.Errorf("unlocked = %v, want [first_transaction]", profile.UnlockedAchievements)
		}
	})

	t.Run("surplus XP carries over into the next level", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		service := NewProgressService(db)

		// 5 XP each; the 20th transaction crosses the 100 XP threshold.
		// Counts start above the achievement triggers to isolate plain XP.
		for i := int64(0); i < 21; i++ {
			service.OnTransactionCreated(1000 + i)
		}

		profile, err := service.GetProfile()
		testutil.AssertNoError(t, err)

		if profile.Level != 2 {
			t.Errorf("level = %d, want 2", profile.Level)
		}
		if profile.XP != 5 {
			t.Errorf("xp = %d, want 5", profile.XP)
		}
		if profile.XPForNextLevel != 200 {
			t.Errorf("xp for next level = %d, want 200", profile.XPForNextLevel)
		}
	})

	t.Run("achievements unlock once", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		service := NewProgressService(db)

		service.OnTransactionCreated(0)
		service.OnTransactionCreated(0)

		profile, err := service.GetProfile()
		testutil.AssertNoError(t, err)

		if len(profile.UnlockedAchievements) != 1 {
			t.Errorf("unlocked = %v, want a single entry", profile.UnlockedAchievements)
		}
		// 50 achievement XP granted once, 5 XP per transaction twice.
		if profile.XP != 60 {
			t.Errorf("xp = %d, want 60", profile.XP)
		}
	})
}

func TestProgressService_OtherHooks(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewProgressService(db)

	service.OnRecurringRuleCreated(0)
	service.OnBudgetCreated(0)
	service.OnOverallBudgetCreated(true)
	service.OnOverallBudgetCreated(false)

	profile, err := service.GetProfile()
	testutil.AssertNoError(t, err)

	want := map[string]bool{
		"first_recurring": true,
		"first_budget":    true,
		"first_plan":      true,
	}
	if len(profile.UnlockedAchievements) != len(want) {
		t.Fatalf("unlocked = %v, want %d entries", profile.UnlockedAchievements, len(want))
	}
	for _, id := range profile.UnlockedAchievements {
		if !want[id] {
			t.Errorf("unexpected achievement %q", id)
		}
	}

	// 75 + 75 + 100 XP, carried across the level-up at 100.
	if profile.Level != 2 {
		t.Errorf("level = %d, want 2", profile.Level)
	}
	if profile.XP != 150 {
		t.Errorf("xp = %d, want 150", profile.XP)
	}
}
