package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"fintrack/internal/cycle"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// SettingsService manages the single persisted cycle policy
type SettingsService struct {
	db *gorm.DB
}

// NewSettingsService creates a new settings service instance
func NewSettingsService(db *gorm.DB) SettingsServicer {
	return &SettingsService{db: db}
}

// GetCycleSettings returns the stored cycle policy, creating the default
// policy (monthly, fixed on day 1) on first use.
func (s *SettingsService) GetCycleSettings() (*models.CycleSettings, error) {
	var settings models.CycleSettings
	err := s.db.First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = models.CycleSettings{
			Frequency:        models.CycleFrequencyMonthly,
			StartDay:         1,
			MonthlyStartType: models.MonthlyStartFixed,
		}
		if err := s.db.Create(&settings).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return &settings, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &settings, nil
}

// UpdateCycleSettings replaces the cycle policy. StartDay is capped at 28 for
// fixed monthly anchors so every month has the anchor day; weekday-relative
// anchors and weekly cycles use 0 (Sunday) through 6 (Saturday).
func (s *SettingsService) UpdateCycleSettings(frequency models.CycleFrequency, startDay int, monthlyStartType models.MonthlyStartType) (*models.CycleSettings, error) {
	switch frequency {
	case models.CycleFrequencyMonthly:
		switch monthlyStartType {
		case models.MonthlyStartFixed:
			if startDay < 1 || startDay > 28 {
				return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Start day must be between 1 and 28 for fixed monthly cycles")
			}
		case models.MonthlyStartFirstWeekday, models.MonthlyStartLastWeekday:
			if startDay < 0 || startDay > 6 {
				return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Start day must be a weekday between 0 and 6")
			}
		default:
			return nil, apperrors.ErrInvalidCyclePolicy
		}
	case models.CycleFrequencyWeekly:
		if startDay < 0 || startDay > 6 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Start day must be a weekday between 0 and 6")
		}
	default:
		return nil, apperrors.ErrInvalidCyclePolicy
	}

	settings, err := s.GetCycleSettings()
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"frequency":          frequency,
		"start_day":          startDay,
		"monthly_start_type": monthlyStartType,
	}
	if err := s.db.Model(settings).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return settings, nil
}

// CurrentCycle resolves the cycle window containing now under the stored policy
func (s *SettingsService) CurrentCycle(now time.Time) (cycle.Cycle, error) {
	settings, err := s.GetCycleSettings()
	if err != nil {
		return cycle.Cycle{}, err
	}
	return cycle.Resolve(now, *settings)
}
