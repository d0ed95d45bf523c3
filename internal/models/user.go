package models

import "time"

// User is an account identified by email. TelegramChatID is the optional
// notification target; reminders are skipped while it is empty.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Email          string    `gorm:"uniqueIndex;not null" json:"email"`
	Username       string    `gorm:"not null" json:"username"`
	PasswordHash   string    `gorm:"not null" json:"-"`
	TelegramChatID string    `json:"telegram_chat_id"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
}
