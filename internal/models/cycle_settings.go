package models

// CycleFrequency represents how often a new accounting cycle starts
type CycleFrequency string

const (
	CycleFrequencyMonthly CycleFrequency = "monthly"
	CycleFrequencyWeekly  CycleFrequency = "weekly"
)

// MonthlyStartType selects how the monthly cycle anchor is computed
type MonthlyStartType string

const (
	MonthlyStartFixed        MonthlyStartType = "fixed"
	MonthlyStartFirstWeekday MonthlyStartType = "first_weekday"
	MonthlyStartLastWeekday  MonthlyStartType = "last_weekday"
)

// CycleSettings is the user's accounting cycle policy. A single row is
// persisted; cycles themselves are always derived live from this policy
// and are never stored. StartDay means day-of-month (1-28) for fixed
// monthly cycles and weekday (0-6, Sunday first) otherwise; the settings
// service rejects invalid combinations on write.
type CycleSettings struct {
	Base
	Frequency        CycleFrequency   `gorm:"not null" json:"frequency"`
	StartDay         int              `gorm:"not null" json:"start_day"`
	MonthlyStartType MonthlyStartType `json:"monthly_start_type,omitempty"`
}
