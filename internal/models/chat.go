package models

import (
	"time"

	"gorm.io/gorm"
)

// ChatStatus names each state by its effect on funds rather than by who
// pressed the button, so "settled_seller" always means the seller gets paid.
type ChatStatus string

const (
	ChatActive         ChatStatus = "active"
	ChatUnderReview    ChatStatus = "under_review"
	ChatSettledSeller  ChatStatus = "settled_seller"  // buyer closed, seller payout scheduled
	ChatRefundedBuyer  ChatStatus = "refunded_buyer"  // seller closed, buyer refunded
	ChatResolvedSeller ChatStatus = "resolved_seller" // admin ruled for the seller
	ChatResolvedBuyer  ChatStatus = "resolved_buyer"  // admin ruled for the buyer
)

// Terminal reports whether the status absorbs all further transitions.
func (s ChatStatus) Terminal() bool {
	switch s {
	case ChatSettledSeller, ChatRefundedBuyer, ChatResolvedSeller, ChatResolvedBuyer:
		return true
	case ChatActive, ChatUnderReview:
		return false
	}
	return false
}

// FavorsSeller reports whether the outcome pays the seller (and therefore
// carries a scheduled payment).
func (s ChatStatus) FavorsSeller() bool {
	return s == ChatSettledSeller || s == ChatResolvedSeller
}

// Chat is the escrow session tied to one purchase. It is never deleted;
// closed chats remain as the audit record of the outcome.
type Chat struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	ProductID          uint           `gorm:"not null;index" json:"product_id"`
	BuyerID            uint           `gorm:"not null;index" json:"buyer_id"`
	SellerID           uint           `gorm:"not null;index" json:"seller_id"`
	TransactionID      *uint          `gorm:"index" json:"transaction_id"` // buyer-side purchase entry
	Status             ChatStatus     `gorm:"size:20;not null;index;default:'active'" json:"status"`
	CreatedAt          time.Time      `json:"created_at"`
	ExpiresAt          time.Time      `gorm:"not null;index" json:"expires_at"`
	ClosedAt           *time.Time     `json:"closed_at"`
	ClosedBy           string         `gorm:"size:16" json:"closed_by,omitempty"` // buyer | seller | admin
	PaymentScheduledAt *time.Time     `gorm:"index" json:"payment_scheduled_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`

	Product  *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Buyer    *User     `gorm:"foreignKey:BuyerID" json:"buyer,omitempty"`
	Seller   *User     `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
	Messages []Message `gorm:"foreignKey:ChatID" json:"messages,omitempty"`
}

func (Chat) TableName() string {
	return "chats"
}

// Participant reports whether userID is the buyer or seller of this chat.
func (c *Chat) Participant(userID uint) bool {
	return userID == c.BuyerID || userID == c.SellerID
}
