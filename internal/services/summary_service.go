package services

import (
	"time"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// categoryAverageMonths is the lookback window for spending averages
const categoryAverageMonths = 6

// SummaryService assembles the dashboard read model
type SummaryService struct {
	db       *gorm.DB
	settings SettingsServicer
	ledger   LedgerServicer
}

// NewSummaryService creates a new summary service instance
func NewSummaryService(db *gorm.DB, settings SettingsServicer, ledger LedgerServicer) SummaryServicer {
	return &SummaryService{db: db, settings: settings, ledger: ledger}
}

// GetDashboard resolves the current cycle and returns its transactions,
// income and expense totals, per-account balances, and six-month category
// spending averages in one payload.
func (s *SummaryService) GetDashboard(now time.Time) (*DashboardSummary, error) {
	window, err := s.settings.CurrentCycle(now)
	if err != nil {
		return nil, err
	}

	var cycleTransactions []models.Transaction
	if err := s.db.
		Preload("Account").
		Preload("Category").
		Preload("DestinationAccount").
		Where("date >= ? AND date <= ?", window.Start, window.End).
		Order("date DESC, time DESC, created_at DESC").
		Find(&cycleTransactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var income, expense int64
	for _, tx := range cycleTransactions {
		switch tx.Type {
		case models.TransactionTypeIncome:
			income += tx.Amount
		case models.TransactionTypeExpense:
			expense += tx.Amount
		}
	}

	ledgerResult, err := s.ledger.Compute(now)
	if err != nil {
		return nil, err
	}

	var accounts []models.Account
	if err := s.db.Where("is_active = ?", true).Order("created_at ASC").Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	details := make([]AccountDetail, 0, len(accounts))
	for _, account := range accounts {
		details = append(details, AccountDetail{
			Account: account,
			Balance: ledgerResult.PerAccount[account.ID],
		})
	}

	averages, err := s.categoryAverages(now)
	if err != nil {
		return nil, err
	}

	return &DashboardSummary{
		Cycle:             window,
		CycleKey:          window.Key(),
		Income:            income,
		Expense:           expense,
		CycleTransactions: cycleTransactions,
		Accounts:          details,
		CategoryAverages:  averages,
	}, nil
}

// categoryAverages computes the mean monthly expense per category since the
// start of the six-months-ago calendar month, current month included. The
// divisor is the number of months the category actually had spending, so a
// category used only twice is not diluted across empty months.
func (s *SummaryService) categoryAverages(now time.Time) (map[string]int64, error) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lookbackStart := monthStart.AddDate(0, -categoryAverageMonths, 0)

	var transactions []models.Transaction
	if err := s.db.
		Where("type = ? AND date >= ?", models.TransactionTypeExpense, lookbackStart).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	monthlySpends := make(map[string]map[string]int64)
	for _, tx := range transactions {
		if tx.CategoryID == nil {
			continue
		}
		monthKey := tx.Date.Format("2006-01")
		if monthlySpends[*tx.CategoryID] == nil {
			monthlySpends[*tx.CategoryID] = make(map[string]int64)
		}
		monthlySpends[*tx.CategoryID][monthKey] += tx.Amount
	}

	averages := make(map[string]int64, len(monthlySpends))
	for categoryID, months := range monthlySpends {
		var total int64
		for _, amount := range months {
			total += amount
		}
		averages[categoryID] = total / int64(len(months))
	}
	return averages, nil
}
