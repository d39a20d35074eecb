package model

import "time"

// WeekKey identifies an ISO year and week, e.g. "2024-W07".
type WeekKey string

// Day is one of the seven weekday labels. The zero value means unscheduled.
type Day string

const (
	Monday    Day = "Mon"
	Tuesday   Day = "Tue"
	Wednesday Day = "Wed"
	Thursday  Day = "Thu"
	Friday    Day = "Fri"
	Saturday  Day = "Sat"
	Sunday    Day = "Sun"

	Unscheduled Day = ""
)

// Days lists the labels in calendar order, Monday first.
var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Status is the lifecycle state of a task.
type Status string

const (
	InProgress Status = "in_progress"
	Postponed  Status = "postponed"
	Checked    Status = "checked"
)

// Statuses lists every valid status.
var Statuses = []Status{InProgress, Postponed, Checked}

// Task is a single coaching action item placed on a week and day.
type Task struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id" yaml:"id"`
	UserID    uint      `gorm:"index:idx_user_week" json:"-" yaml:"-"`
	Week      WeekKey   `gorm:"index:idx_user_week;size:8" json:"week" yaml:"week"`
	Day       Day       `gorm:"size:3" json:"day" yaml:"day"`
	Text      string    `json:"task" yaml:"task"`
	Status    Status    `gorm:"size:16;default:in_progress" json:"status" yaml:"status"`
	Hidden    bool      `gorm:"default:false" json:"hidden" yaml:"hidden"`
	Position  int       `json:"-" yaml:"-"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"-" yaml:"-"`
}
