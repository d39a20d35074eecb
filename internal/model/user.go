package model

import "time"

// User stores Telegram user metadata and coaching preferences.
type User struct {
	ID         uint  `gorm:"primaryKey"`
	TelegramID int64 `gorm:"uniqueIndex"`
	FirstName  string
	LastName   string
	Username   string
	Nickname   string
	Tone       string `gorm:"default:warm"`
	Level      string `gorm:"default:beginner"`
	Domain     string `gorm:"default:study"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DisplayName picks the friendliest available name.
func (u User) DisplayName() string {
	switch {
	case u.Nickname != "":
		return u.Nickname
	case u.FirstName != "":
		return u.FirstName
	case u.Username != "":
		return u.Username
	default:
		return "friend"
	}
}
