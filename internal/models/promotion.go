package models

import (
	"time"

	"gorm.io/gorm"
)

type Promotion struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	ProductID  uint           `gorm:"not null;index" json:"product_id"`
	Tier       string         `gorm:"size:10;not null" json:"tier"` // top_3 | top_5 | top_10
	PriceCents int64          `gorm:"not null" json:"price_cents"`
	StartDate  time.Time      `json:"start_date"`
	EndDate    time.Time      `gorm:"not null;index" json:"end_date"`
	IsActive   bool           `gorm:"default:true;index" json:"is_active"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Promotion) TableName() string {
	return "promotions"
}
