package services

import (
	"time"

	"fintrack/internal/cycle"
	"fintrack/internal/ledger"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// AccountDeleteOutcome describes what deleting an account actually did.
// Accounts with history are never hard-deleted; at zero balance they are
// toggled between active and inactive instead.
type AccountDeleteOutcome string

const (
	AccountDeleted     AccountDeleteOutcome = "deleted"
	AccountDeactivated AccountDeleteOutcome = "deactivated"
	AccountReactivated AccountDeleteOutcome = "reactivated"
)

// AccountUpdateFields holds optional account fields for partial updates.
type AccountUpdateFields struct {
	Name           *string
	Icon           *string
	InitialBalance *int64
	IsActive       *bool
}

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	CreateAccount(name, icon string, initialBalance int64) (*models.Account, error)
	GetAccounts(page pagination.PageRequest, includeInactive bool) (*pagination.PageResponse[models.Account], error)
	GetAccountByID(accountID string) (*models.Account, error)
	UpdateAccount(accountID string, fields AccountUpdateFields) (*models.Account, error)
	DeleteAccount(accountID string) (AccountDeleteOutcome, error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(name string, categoryType models.CategoryType, icon, color string) (*models.Category, error)
	GetCategories(page pagination.PageRequest, categoryType *models.CategoryType) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(categoryID string) (*models.Category, error)
	UpdateCategory(categoryID string, name, icon, color string) (*models.Category, error)
	DeleteCategory(categoryID string) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	Type       *models.TransactionType
	CategoryID *string
	AccountID  *string
	MinAmount  *int64
	MaxAmount  *int64
}

// TransactionUpdateFields holds optional transaction fields for partial updates.
type TransactionUpdateFields struct {
	Description *string
	Amount      *int64
	Date        *time.Time
	Time        *string
	CategoryID  *string
	AccountID   *string
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(transactionType models.TransactionType, amount int64, description, accountID, categoryID string, date time.Time, timeOfDay string) (*models.Transaction, error)
	CreateTransfer(amount int64, description, accountID, destinationAccountID string, date time.Time, timeOfDay string) (*models.Transaction, error)
	GetTransactions(page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(transactionID string) (*models.Transaction, error)
	UpdateTransaction(transactionID string, fields TransactionUpdateFields) (*models.Transaction, error)
	DeleteTransaction(transactionID string) error
	CountTransactions() (int64, error)
}

// RuleParams holds the fields for creating a recurring rule.
type RuleParams struct {
	Description string
	Amount      int64
	Type        models.TransactionType
	AccountID   string
	CategoryID  string
	Frequency   models.RuleFrequency
	StartDate   time.Time
	EndDate     *time.Time
	IsVariable  bool
}

// RuleUpdateFields holds optional rule fields for partial updates. The
// materialization cursor is deliberately absent: only CatchUp moves it.
type RuleUpdateFields struct {
	Description *string
	Amount      *int64
	AccountID   *string
	CategoryID  *string
	EndDate     *time.Time
	IsVariable  *bool
	IsActive    *bool
}

// RecurringServicer defines the contract for recurring rules and their
// materialization into concrete transactions.
type RecurringServicer interface {
	CreateRule(params RuleParams) (*models.RecurringRule, error)
	GetRules(page pagination.PageRequest) (*pagination.PageResponse[models.RecurringRule], error)
	GetRuleByID(ruleID string) (*models.RecurringRule, error)
	UpdateRule(ruleID string, fields RuleUpdateFields) (*models.RecurringRule, error)
	DeleteRule(ruleID string, confirmed bool) error
	CatchUp(now time.Time) (int, error)
}

// SettingsServicer defines the contract for the cycle policy.
type SettingsServicer interface {
	GetCycleSettings() (*models.CycleSettings, error)
	UpdateCycleSettings(frequency models.CycleFrequency, startDay int, monthlyStartType models.MonthlyStartType) (*models.CycleSettings, error)
	CurrentCycle(now time.Time) (cycle.Cycle, error)
}

// LedgerServicer derives balances from the stored ledger.
type LedgerServicer interface {
	Compute(now time.Time) (*ledger.Result, error)
}

// BudgetProgress contains spending vs budget data for a budget's cycle.
type BudgetProgress struct {
	BudgetID   string  `json:"budget_id"`
	Cycle      string  `json:"cycle"`
	Budgeted   int64   `json:"budgeted"`
	Spent      int64   `json:"spent"`
	Remaining  int64   `json:"remaining"`
	Percentage float64 `json:"percentage"`
}

// BudgetServicer defines the contract for per-cycle budgets.
type BudgetServicer interface {
	CreateBudget(categoryID string, amount int64, cycleKey string) (*models.Budget, error)
	GetBudgets(page pagination.PageRequest, cycleKey *string) (*pagination.PageResponse[models.Budget], error)
	GetBudgetByID(budgetID string) (*models.Budget, error)
	UpdateBudget(budgetID string, amount int64) (*models.Budget, error)
	DeleteBudget(budgetID string) error
	GetBudgetProgress(budgetID string) (*BudgetProgress, error)
	SaveOverallBudget(cycleKey string, amount int64) (*models.OverallBudget, error)
	GetOverallBudget(cycleKey string) (*models.OverallBudget, error)
	DeleteOverallBudget(cycleKey string) error
}

// AccountDetail pairs an account with its derived balance.
type AccountDetail struct {
	Account models.Account        `json:"account"`
	Balance ledger.AccountBalance `json:"balance"`
}

// DashboardSummary is the read model backing the dashboard view.
type DashboardSummary struct {
	Cycle             cycle.Cycle          `json:"cycle"`
	CycleKey          string               `json:"cycle_key"`
	Income            int64                `json:"income"`
	Expense           int64                `json:"expense"`
	CycleTransactions []models.Transaction `json:"cycle_transactions"`
	Accounts          []AccountDetail      `json:"accounts"`
	CategoryAverages  map[string]int64     `json:"category_averages"`
}

// SummaryServicer assembles the dashboard read model.
type SummaryServicer interface {
	GetDashboard(now time.Time) (*DashboardSummary, error)
}

// ProfileView is the gamified progress read model.
type ProfileView struct {
	Level                int           `json:"level"`
	XP                   int64         `json:"xp"`
	XPForNextLevel       int64         `json:"xp_for_next_level"`
	UnlockedAchievements []string      `json:"unlocked_achievements"`
	Achievements         []Achievement `json:"achievements"`
}

// ProgressServicer exposes the event hooks the gamification layer consumes
// and the derived profile view.
type ProgressServicer interface {
	GetProfile() (*ProfileView, error)
	OnTransactionCreated(existingCount int64)
	OnRecurringRuleCreated(existingCount int64)
	OnBudgetCreated(existingCount int64)
	OnOverallBudgetCreated(firstForCycle bool)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
