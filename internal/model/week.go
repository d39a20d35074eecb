package model

import "time"

// Week holds per-user context for one week and the version used to detect
// concurrent rewrites of its task list.
type Week struct {
	ID            uint    `gorm:"primaryKey"`
	UserID        uint    `gorm:"index:idx_user_week_key,unique"`
	Key           WeekKey `gorm:"column:week_key;index:idx_user_week_key,unique;size:8"`
	Goal          string
	CurrentStatus string
	Constraints   string
	Version       int `gorm:"default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
