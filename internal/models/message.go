package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	SenderUser   = "user"
	SenderSystem = "system"
)

// Message is append-only. SenderID is nil for system messages injected by
// the state machine to narrate transitions.
type Message struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	ChatID     uint           `gorm:"not null;index" json:"chat_id"`
	SenderID   *uint          `gorm:"index" json:"sender_id"`
	SenderType string         `gorm:"size:10;not null;default:'user'" json:"sender_type"`
	Body       string         `gorm:"type:text;not null" json:"body"`
	CreatedAt  time.Time      `json:"created_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	Sender *User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}

func (Message) TableName() string {
	return "messages"
}
