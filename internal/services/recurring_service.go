package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/recurrence"
)

// RecurringService handles recurring rules and their materialization
type RecurringService struct {
	db *gorm.DB
}

// NewRecurringService creates a new recurring service instance
func NewRecurringService(db *gorm.DB) RecurringServicer {
	return &RecurringService{db: db}
}

// CreateRule creates a new recurring rule. Rules describe income or expenses
// only; transfers cannot recur.
func (s *RecurringService) CreateRule(params RuleParams) (*models.RecurringRule, error) {
	if params.Type != models.TransactionTypeIncome && params.Type != models.TransactionTypeExpense {
		return nil, apperrors.ErrInvalidTransactionType
	}

	if params.EndDate != nil && params.EndDate.Before(params.StartDate) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "End date must not be before start date")
	}

	var account models.Account
	if err := s.db.First(&account, "id = ?", params.AccountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var category models.Category
	if err := s.db.First(&category, "id = ?", params.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if string(category.Type) != string(params.Type) {
		return nil, apperrors.ErrCategoryTypeMismatch
	}

	rule := models.RecurringRule{
		Description: params.Description,
		Amount:      params.Amount,
		Type:        params.Type,
		AccountID:   params.AccountID,
		CategoryID:  params.CategoryID,
		Frequency:   params.Frequency,
		StartDate:   truncateToDay(params.StartDate),
		IsVariable:  params.IsVariable,
		IsActive:    true,
	}
	if params.EndDate != nil {
		end := truncateToDay(*params.EndDate)
		rule.EndDate = &end
	}

	if err := s.db.Create(&rule).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &rule, nil
}

// GetRules retrieves recurring rules with pagination
func (s *RecurringService) GetRules(page pagination.PageRequest) (*pagination.PageResponse[models.RecurringRule], error) {
	page.Defaults()

	var rules []models.RecurringRule
	var total int64

	query := s.db.Model(&models.RecurringRule{})

	if err := query.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := query.Scopes(pagination.Paginate(page)).
		Preload("Account").
		Preload("Category").
		Order("created_at ASC").
		Find(&rules).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	response := pagination.NewPageResponse(rules, page.Page, page.PageSize, total)
	return &response, nil
}

// GetRuleByID retrieves a single recurring rule by its ID
func (s *RecurringService) GetRuleByID(ruleID string) (*models.RecurringRule, error) {
	var rule models.RecurringRule
	if err := s.db.
		Preload("Account").
		Preload("Category").
		First(&rule, "id = ?", ruleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRuleNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &rule, nil
}

// UpdateRule applies a partial update to a rule. Frequency and start date are
// immutable so the materialization history stays explainable; changing the
// schedule means retiring the rule and creating a new one.
func (s *RecurringService) UpdateRule(ruleID string, fields RuleUpdateFields) (*models.RecurringRule, error) {
	rule, err := s.GetRuleByID(ruleID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if fields.Description != nil {
		updates["description"] = *fields.Description
	}
	if fields.Amount != nil {
		updates["amount"] = *fields.Amount
	}
	if fields.AccountID != nil {
		var account models.Account
		if err := s.db.First(&account, "id = ?", *fields.AccountID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrAccountNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		updates["account_id"] = *fields.AccountID
	}
	if fields.CategoryID != nil {
		var category models.Category
		if err := s.db.First(&category, "id = ?", *fields.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrCategoryNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if string(category.Type) != string(rule.Type) {
			return nil, apperrors.ErrCategoryTypeMismatch
		}
		updates["category_id"] = *fields.CategoryID
	}
	if fields.EndDate != nil {
		end := truncateToDay(*fields.EndDate)
		if end.Before(rule.StartDate) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "End date must not be before start date")
		}
		updates["end_date"] = end
	}
	if fields.IsVariable != nil {
		updates["is_variable"] = *fields.IsVariable
	}
	if fields.IsActive != nil {
		updates["is_active"] = *fields.IsActive
	}

	if len(updates) == 0 {
		return rule, nil
	}

	if err := s.db.Model(rule).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetRuleByID(ruleID)
}

// DeleteRule removes a recurring rule. A rule that already generated
// transactions is only deleted when the caller confirms; its generated
// transactions stay in the ledger with a dangling rule reference cleared.
func (s *RecurringService) DeleteRule(ruleID string, confirmed bool) error {
	rule, err := s.GetRuleByID(ruleID)
	if err != nil {
		return err
	}

	var count int64
	if err := s.db.Model(&models.Transaction{}).Where("recurring_rule_id = ?", ruleID).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if count > 0 && !confirmed {
		return apperrors.ErrRuleHasTransactions
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if count > 0 {
			if err := tx.Model(&models.Transaction{}).
				Where("recurring_rule_id = ?", ruleID).
				Update("recurring_rule_id", nil).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		if err := tx.Unscoped().Delete(rule).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// CatchUp materializes every due occurrence of every rule up to now and
// returns the number of transactions created. New transactions and cursor
// advances commit together or not at all, so a crash mid-run can never
// double-post on the next call.
func (s *RecurringService) CatchUp(now time.Time) (int, error) {
	var rules []models.RecurringRule
	if err := s.db.Find(&rules).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := recurrence.Materialize(rules, now)
	if len(result.NewTransactions) == 0 && len(result.UpdatedRules) == 0 {
		return 0, nil
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for i := range result.NewTransactions {
			if err := tx.Create(&result.NewTransactions[i]).Error; err != nil {
				return err
			}
		}
		for i := range result.UpdatedRules {
			rule := &result.UpdatedRules[i]
			if err := tx.Model(&models.RecurringRule{}).
				Where("id = ?", rule.ID).
				Update("last_generated_date", rule.LastGeneratedDate).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if len(result.NewTransactions) > 0 {
		logger.Get().Infow("recurring catch-up",
			"created", len(result.NewTransactions),
			"rules_advanced", len(result.UpdatedRules),
		)
	}

	return len(result.NewTransactions), nil
}
