package models

// Budget represents a spending limit for one category within one cycle.
// Cycle is the cycle key (the cycle's start date formatted 2006-01-02),
// so budgets from past cycles remain addressable after settings change.
type Budget struct {
	Base
	CategoryID string `gorm:"type:uuid;not null;index" json:"category_id"`
	Amount     int64  `gorm:"type:bigint;not null" json:"amount"`
	Cycle      string `gorm:"size:10;not null;index" json:"cycle"`

	// Relationships
	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// OverallBudget represents the planned total spending for one cycle,
// independent of any category. At most one per cycle.
type OverallBudget struct {
	Base
	Cycle  string `gorm:"size:10;not null;uniqueIndex" json:"cycle"`
	Amount int64  `gorm:"type:bigint;not null" json:"amount"`
}
