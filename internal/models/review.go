package models

import (
	"time"

	"gorm.io/gorm"
)

type Review struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	ProductID uint           `gorm:"not null;index" json:"product_id"`
	BuyerID   uint           `gorm:"not null;index" json:"buyer_id"`
	SellerID  uint           `gorm:"not null;index" json:"seller_id"`
	Rating    int            `gorm:"not null" json:"rating"` // 1..5
	Comment   string         `gorm:"type:text" json:"comment"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Buyer *User `gorm:"foreignKey:BuyerID" json:"buyer,omitempty"`
}

func (Review) TableName() string {
	return "reviews"
}
