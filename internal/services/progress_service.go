package services

import (
	"encoding/json"
	"errors"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/models"
)

// Achievement is a catalog entry for the gamification layer
type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	XP          int64  `json:"xp"`
}

// achievementCatalog is the fixed set of unlockable achievements
var achievementCatalog = []Achievement{
	{ID: "first_transaction", Title: "First Steps", Description: "Record your first transaction", XP: 50},
	{ID: "ten_transactions", Title: "Getting the Hang of It", Description: "Record ten transactions", XP: 100},
	{ID: "centurion", Title: "Centurion", Description: "Record one hundred transactions", XP: 300},
	{ID: "first_recurring", Title: "On Autopilot", Description: "Create your first recurring rule", XP: 75},
	{ID: "first_budget", Title: "Planner", Description: "Create your first category budget", XP: 75},
	{ID: "budget_master", Title: "Budget Master", Description: "Budget ten cycles", XP: 250},
	{ID: "first_plan", Title: "Big Picture", Description: "Set an overall cycle budget", XP: 100},
}

// transactionXP is granted for each recorded transaction
const transactionXP = 5

// ProgressService tracks XP, levels, and achievements for the single profile
type ProgressService struct {
	db *gorm.DB
}

// NewProgressService creates a new progress service instance
func NewProgressService(db *gorm.DB) ProgressServicer {
	return &ProgressService{db: db}
}

// loadProfile returns the persisted profile, creating it at level 1 on first use
func (s *ProgressService) loadProfile() (*models.PlayerProfile, error) {
	var profile models.PlayerProfile
	err := s.db.First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = models.PlayerProfile{Level: 1, XP: 0, UnlockedAchievements: "[]"}
		if err := s.db.Create(&profile).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return &profile, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &profile, nil
}

// GetProfile returns the profile alongside the achievement catalog
func (s *ProgressService) GetProfile() (*ProfileView, error) {
	profile, err := s.loadProfile()
	if err != nil {
		return nil, err
	}

	unlocked := []string{}
	if err := json.Unmarshal([]byte(profile.UnlockedAchievements), &unlocked); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &ProfileView{
		Level:                profile.Level,
		XP:                   profile.XP,
		XPForNextLevel:       int64(profile.Level) * 100,
		UnlockedAchievements: unlocked,
		Achievements:         achievementCatalog,
	}, nil
}

// grantXP adds XP to the profile and applies level-ups. The threshold for the
// next level is level * 100 and surplus XP carries over.
func (s *ProgressService) grantXP(profile *models.PlayerProfile, amount int64) {
	profile.XP += amount
	for profile.XP >= int64(profile.Level)*100 {
		profile.XP -= int64(profile.Level) * 100
		profile.Level++
	}
}

// unlock grants an achievement and its XP once. Repeat unlocks are no-ops.
func (s *ProgressService) unlock(profile *models.PlayerProfile, achievementID string) {
	unlocked := []string{}
	if err := json.Unmarshal([]byte(profile.UnlockedAchievements), &unlocked); err != nil {
		unlocked = []string{}
	}
	for _, id := range unlocked {
		if id == achievementID {
			return
		}
	}

	for _, achievement := range achievementCatalog {
		if achievement.ID == achievementID {
			unlocked = append(unlocked, achievementID)
			raw, err := json.Marshal(unlocked)
			if err != nil {
				return
			}
			profile.UnlockedAchievements = string(raw)
			s.grantXP(profile, achievement.XP)
			return
		}
	}
}

// save persists the profile, logging instead of failing the caller. Progress
// tracking never blocks the operation that triggered it.
func (s *ProgressService) save(profile *models.PlayerProfile) {
	updates := map[string]interface{}{
		"level":                 profile.Level,
		"xp":                    profile.XP,
		"unlocked_achievements": profile.UnlockedAchievements,
	}
	if err := s.db.Model(profile).Updates(updates).Error; err != nil {
		logger.Get().Warnw("failed to save progress", "error", err.Error())
	}
}

// OnTransactionCreated grants per-transaction XP and count-based achievements.
// existingCount is the number of transactions before the new one.
func (s *ProgressService) OnTransactionCreated(existingCount int64) {
	profile, err := s.loadProfile()
	if err != nil {
		logger.Get().Warnw("failed to load progress", "error", err.Error())
		return
	}

	s.grantXP(profile, transactionXP)
	switch existingCount {
	case 0:
		s.unlock(profile, "first_transaction")
	case 9:
		s.unlock(profile, "ten_transactions")
	case 99:
		s.unlock(profile, "centurion")
	}
	s.save(profile)
}

// OnRecurringRuleCreated unlocks the first-rule achievement
func (s *ProgressService) OnRecurringRuleCreated(existingCount int64) {
	profile, err := s.loadProfile()
	if err != nil {
		logger.Get().Warnw("failed to load progress", "error", err.Error())
		return
	}

	if existingCount == 0 {
		s.unlock(profile, "first_recurring")
	}
	s.save(profile)
}

// OnBudgetCreated unlocks budget-count achievements
func (s *ProgressService) OnBudgetCreated(existingCount int64) {
	profile, err := s.loadProfile()
	if err != nil {
		logger.Get().Warnw("failed to load progress", "error", err.Error())
		return
	}

	switch existingCount {
	case 0:
		s.unlock(profile, "first_budget")
	case 9:
		s.unlock(profile, "budget_master")
	}
	s.save(profile)
}

// OnOverallBudgetCreated unlocks the overall-budget achievement
func (s *ProgressService) OnOverallBudgetCreated(firstForCycle bool) {
	if !firstForCycle {
		return
	}

	profile, err := s.loadProfile()
	if err != nil {
		logger.Get().Warnw("failed to load progress", "error", err.Error())
		return
	}

	s.unlock(profile, "first_plan")
	s.save(profile)
}
