package models

import "time"

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeTransfer TransactionType = "transfer"
)

// Transaction represents a financial event in the ledger. Amounts are
// stored in cents and are always positive; the sign is carried by Type.
//
// Exactly one of CategoryID or DestinationAccountID is set, keyed by Type:
// income and expense carry a category, transfers carry a destination
// account. The transaction service enforces this at creation time, so
// downstream consumers (ledger, budgets) can trust the shape.
type Transaction struct {
	Base
	Description string          `json:"description"`
	Amount      int64           `gorm:"type:bigint;not null" json:"amount"`
	Type        TransactionType `gorm:"not null;index" json:"type"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
	Time        string          `gorm:"size:5" json:"time"` // "HH:MM", may be empty
	AccountID   string          `gorm:"type:uuid;not null;index" json:"account_id"`

	// For income/expense
	CategoryID *string `gorm:"type:uuid" json:"category_id,omitempty"`

	// For transfers
	DestinationAccountID *string `gorm:"type:uuid" json:"destination_account_id,omitempty"`

	// Set when the transaction was materialized from a recurring rule
	RecurringRuleID *string `gorm:"type:uuid;index" json:"recurring_rule_id,omitempty"`

	// Relationships
	Account            Account   `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	DestinationAccount *Account  `gorm:"foreignKey:DestinationAccountID" json:"destination_account,omitempty"`
	Category           *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// EffectiveTime combines Date and Time into a single instant, defaulting
// the time-of-day to midnight when Time is empty or malformed. Used for
// chronological ordering and the pending/settled partition.
func (t *Transaction) EffectiveTime() time.Time {
	base := time.Date(t.Date.Year(), t.Date.Month(), t.Date.Day(), 0, 0, 0, 0, t.Date.Location())
	if len(t.Time) == 5 {
		if parsed, err := time.Parse("15:04", t.Time); err == nil {
			return base.Add(time.Duration(parsed.Hour())*time.Hour + time.Duration(parsed.Minute())*time.Minute)
		}
	}
	return base
}
