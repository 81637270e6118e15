package models

import "time"

// RuleFrequency represents how often a recurring rule produces a transaction
type RuleFrequency string

const (
	RuleFrequencyDaily   RuleFrequency = "daily"
	RuleFrequencyWeekly  RuleFrequency = "weekly"
	RuleFrequencyMonthly RuleFrequency = "monthly"
	RuleFrequencyYearly  RuleFrequency = "yearly"
)

// RecurringRule is a template that periodically produces concrete
// transactions. LastGeneratedDate is the materialization cursor: nil means
// the rule has never produced a transaction. Only the materializer writes
// it, and always in the same database transaction as the transactions it
// produced.
//
// A rule whose EndDate has passed is skipped by the materializer but kept
// in place (soft retirement); it is never archived or deleted automatically.
type RecurringRule struct {
	Base
	Description string          `gorm:"not null" json:"description"`
	Amount      int64           `gorm:"type:bigint;not null" json:"amount"`
	Type        TransactionType `gorm:"not null" json:"type"` // income or expense only
	AccountID   string          `gorm:"type:uuid;not null" json:"account_id"`
	CategoryID  string          `gorm:"type:uuid;not null" json:"category_id"`
	Frequency   RuleFrequency   `gorm:"not null" json:"frequency"`
	StartDate   time.Time       `gorm:"not null" json:"start_date"`
	EndDate     *time.Time      `json:"end_date,omitempty"`

	// IsVariable marks rules whose amount differs per occurrence. Advisory
	// only: materialization always uses Amount, the flag is for display.
	IsVariable bool `gorm:"default:false" json:"is_variable"`

	IsActive          bool       `gorm:"default:true" json:"is_active"`
	LastGeneratedDate *time.Time `json:"last_generated_date,omitempty"`

	// Relationships
	Account  Account  `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
