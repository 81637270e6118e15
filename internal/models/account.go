package models

// Account represents a financial account in the system.
// The current balance is never stored; it is derived from the initial
// balance plus the transaction history by the ledger calculator, so the
// stored record can never drift from the ledger.
type Account struct {
	Base
	Name           string `gorm:"not null" json:"name"`
	Icon           string `json:"icon"`
	InitialBalance int64  `gorm:"type:bigint;not null;default:0" json:"initial_balance"`
	IsActive       bool   `gorm:"default:true" json:"is_active"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:AccountID" json:"transactions,omitempty"`
}
