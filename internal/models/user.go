package models

import (
	"time"

	"tiro/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	Username           string         `gorm:"uniqueIndex;size:64;not null" json:"username"`
	FullName           string         `gorm:"size:128" json:"full_name"`
	PasswordHash       string         `gorm:"size:255" json:"-"`
	Role               string         `gorm:"size:20;not null;index" json:"role"` // USER | ADMIN
	BalanceCents       int64          `gorm:"not null;default:0" json:"balance_cents"`
	TotalEarningsCents int64          `gorm:"not null;default:0" json:"total_earnings_cents"`
	IsVerified         bool           `gorm:"default:false" json:"is_verified"`
	IsBanned           bool           `gorm:"default:false" json:"is_banned"`
	Rating             float64        `gorm:"default:0" json:"rating"`
	TotalReviews       int            `gorm:"default:0" json:"total_reviews"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool { return u.Role == domain.RoleAdmin }
