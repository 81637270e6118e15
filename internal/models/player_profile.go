package models

// PlayerProfile holds the gamified progress state. A single row is
// persisted; UnlockedAchievements is a JSON array of achievement IDs.
type PlayerProfile struct {
	Base
	Level                int    `gorm:"not null;default:1" json:"level"`
	XP                   int64  `gorm:"not null;default:0" json:"xp"`
	UnlockedAchievements string `gorm:"not null;default:'[]'" json:"unlocked_achievements"`
}
