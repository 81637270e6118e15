package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"fintrack/internal/cycle"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// cycleKeyLayout is the date layout used as the budget cycle key
const cycleKeyLayout = "2006-01-02"

// BudgetService handles per-cycle budget business logic
type BudgetService struct {
	db       *gorm.DB
	settings SettingsServicer
}

// NewBudgetService creates a new budget service instance
func NewBudgetService(db *gorm.DB, settings SettingsServicer) BudgetServicer {
	return &BudgetService{db: db, settings: settings}
}

// CreateBudget creates a budget for a category within one cycle. A category
// holds at most one budget per cycle; a second create replaces the amount.
func (s *BudgetService) CreateBudget(categoryID string, amount int64, cycleKey string) (*models.Budget, error) {
	if _, err := time.Parse(cycleKeyLayout, cycleKey); err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Cycle must be a date in YYYY-MM-DD format")
	}

	var category models.Category
	if err := s.db.First(&category, "id = ?", categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if category.Type != models.CategoryTypeExpense {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Budgets can only target expense categories")
	}

	var existing models.Budget
	err := s.db.Where("category_id = ? AND cycle = ?", categoryID, cycleKey).First(&existing).Error
	if err == nil {
		if err := s.db.Model(&existing).Update("amount", amount).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	budget := models.Budget{
		CategoryID: categoryID,
		Amount:     amount,
		Cycle:      cycleKey,
	}
	if err := s.db.Create(&budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &budget, nil
}

// GetBudgets retrieves budgets with pagination, optionally scoped to one cycle
func (s *BudgetService) GetBudgets(page pagination.PageRequest, cycleKey *string) (*pagination.PageResponse[models.Budget], error) {
	page.Defaults()

	var budgets []models.Budget
	var total int64

	query := s.db.Model(&models.Budget{})
	if cycleKey != nil {
		query = query.Where("cycle = ?", *cycleKey)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := query.Scopes(pagination.Paginate(page)).
		Preload("Category").
		Order("cycle DESC, created_at ASC").
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	response := pagination.NewPageResponse(budgets, page.Page, page.PageSize, total)
	return &response, nil
}

// GetBudgetByID retrieves a single budget by its ID
func (s *BudgetService) GetBudgetByID(budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Preload("Category").First(&budget, "id = ?", budgetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// UpdateBudget changes a budget's amount
func (s *BudgetService) UpdateBudget(budgetID string, amount int64) (*models.Budget, error) {
	budget, err := s.GetBudgetByID(budgetID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(budget).Update("amount", amount).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return budget, nil
}

// DeleteBudget removes a budget permanently
func (s *BudgetService) DeleteBudget(budgetID string) error {
	budget, err := s.GetBudgetByID(budgetID)
	if err != nil {
		return err
	}

	if err := s.db.Unscoped().Delete(budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return nil
}

// GetBudgetProgress sums settled expense spending for the budget's category
// inside the budget's cycle window. The window is resolved live from the
// current cycle policy, so a policy change reshapes past progress views too.
func (s *BudgetService) GetBudgetProgress(budgetID string) (*BudgetProgress, error) {
	budget, err := s.GetBudgetByID(budgetID)
	if err != nil {
		return nil, err
	}

	anchor, err := time.Parse(cycleKeyLayout, budget.Cycle)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	settings, err := s.settings.GetCycleSettings()
	if err != nil {
		return nil, err
	}

	window, err := cycle.Resolve(anchor, *settings)
	if err != nil {
		return nil, err
	}

	var spent int64
	if err := s.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("category_id = ? AND type = ? AND date >= ? AND date <= ?",
			budget.CategoryID, models.TransactionTypeExpense, window.Start, window.End).
		Scan(&spent).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	progress := &BudgetProgress{
		BudgetID:  budget.ID,
		Cycle:     budget.Cycle,
		Budgeted:  budget.Amount,
		Spent:     spent,
		Remaining: budget.Amount - spent,
	}
	if budget.Amount > 0 {
		progress.Percentage = float64(spent) / float64(budget.Amount) * 100
	}

	return progress, nil
}

// SaveOverallBudget creates or replaces the cycle-wide spending cap
func (s *BudgetService) SaveOverallBudget(cycleKey string, amount int64) (*models.OverallBudget, error) {
	if _, err := time.Parse(cycleKeyLayout, cycleKey); err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Cycle must be a date in YYYY-MM-DD format")
	}

	var existing models.OverallBudget
	err := s.db.Where("cycle = ?", cycleKey).First(&existing).Error
	if err == nil {
		if err := s.db.Model(&existing).Update("amount", amount).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	overall := models.OverallBudget{Cycle: cycleKey, Amount: amount}
	if err := s.db.Create(&overall).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &overall, nil
}

// GetOverallBudget retrieves the cycle-wide cap for one cycle
func (s *BudgetService) GetOverallBudget(cycleKey string) (*models.OverallBudget, error) {
	var overall models.OverallBudget
	if err := s.db.Where("cycle = ?", cycleKey).First(&overall).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOverallBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &overall, nil
}

// DeleteOverallBudget removes the cycle-wide cap for one cycle
func (s *BudgetService) DeleteOverallBudget(cycleKey string) error {
	overall, err := s.GetOverallBudget(cycleKey)
	if err != nil {
		return err
	}

	if err := s.db.Unscoped().Delete(overall).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return nil
}
