package models

import (
	"time"

	"gorm.io/gorm"
)

// Product is a digital account listed for sale. The account credential
// columns hold ciphertext (pkg/creds); plaintext only ever appears in the
// purchase response handed to the buyer.
type Product struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	SellerID    uint   `gorm:"not null;index" json:"seller_id"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	PriceCents  int64  `gorm:"not null" json:"price_cents"`
	Category    string `gorm:"size:64;index" json:"category"`
	ImageURL    string `gorm:"size:512" json:"image_url"`
	IsActive    bool   `gorm:"default:true;index" json:"is_active"`
	Views       int    `gorm:"default:0" json:"views"`
	Sales       int    `gorm:"default:0" json:"sales"`

	AccountUsername      string `gorm:"size:512" json:"-"`
	AccountPassword      string `gorm:"size:512" json:"-"`
	AccountEmail         string `gorm:"size:512" json:"-"`
	AccountEmailPassword string `gorm:"size:512" json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Seller *User `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

// Credentials is the decrypted credential set returned once on purchase.
type Credentials struct {
	AccountUsername      string `json:"account_username"`
	AccountPassword      string `json:"account_password"`
	AccountEmail         string `json:"account_email"`
	AccountEmailPassword string `json:"account_email_password"`
}
