package models

import (
	"time"

	"gorm.io/gorm"
)

type TransactionType string

const (
	TransactionDeposit   TransactionType = "deposit"
	TransactionWithdraw  TransactionType = "withdraw"
	TransactionSale      TransactionType = "sale"
	TransactionPurchase  TransactionType = "purchase"
	TransactionPromotion TransactionType = "promotion"
)

type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
)

// Transaction is an append-only ledger entry. Amount and type are immutable
// after creation; status moves pending -> completed or pending -> failed
// exactly once.
type Transaction struct {
	ID             uint              `gorm:"primaryKey" json:"id"`
	UserID         uint              `gorm:"not null;index" json:"user_id"`
	Type           TransactionType   `gorm:"size:20;not null;index" json:"type"`
	AmountCents    int64             `gorm:"not null" json:"amount_cents"`
	Status         TransactionStatus `gorm:"size:20;not null;index;default:'pending'" json:"status"`
	Description    string            `gorm:"size:512" json:"description"`
	Reference      string            `gorm:"size:64;uniqueIndex" json:"reference"`
	AccountNumber  string            `gorm:"size:64" json:"account_number,omitempty"`  // masked destination
	PayerReference string            `gorm:"size:128" json:"payer_reference,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	DeletedAt      gorm.DeletedAt    `gorm:"index" json:"-"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// Settleable reports whether an admin settlement may touch this entry:
// only pending deposit/withdraw requests go through the approval pipeline,
// purchase/sale entries settle via the escrow chat.
func (t *Transaction) Settleable() bool {
	return t.Status == StatusPending &&
		(t.Type == TransactionDeposit || t.Type == TransactionWithdraw)
}
