package domain

import "time"

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

const (
	// ChatWindow is how long the buyer and seller have to settle an escrow
	// chat on their own before it is flagged for admin review.
	ChatWindow = 72 * time.Hour

	// SettleDelay is the gap between a seller-favoring close and the moment
	// the seller's balance is actually credited.
	SettleDelay = 10 * time.Hour
)

const (
	ClosedByBuyer  = "buyer"
	ClosedBySeller = "seller"
	ClosedByAdmin  = "admin"
)

const (
	ResolutionSeller = "seller"
	ResolutionBuyer  = "buyer"
)

// DepositFeePercent is the platform cut on approved deposits. The pending
// ledger entry records the gross amount; the fee is applied on approval.
const DepositFeePercent = 10

// Withdrawal destinations. Zain Cash and bank accounts are digit-only
// wallet/account numbers; usdt_trc20 is a TRON address.
const (
	MethodZainCash  = "zain_cash"
	MethodBank      = "bank_account"
	MethodUSDTTRC20 = "usdt_trc20"
)

// MinCryptoWithdrawCents is the $10 floor for TRC-20 withdrawals.
const MinCryptoWithdrawCents int64 = 10_00

const (
	PromotionTierTop3  = "top_3"
	PromotionTierTop5  = "top_5"
	PromotionTierTop10 = "top_10"
)

// PromotionTierPriceCents maps a promotion tier to its price.
var PromotionTierPriceCents = map[string]int64{
	PromotionTierTop3:  25_00,
	PromotionTierTop5:  15_00,
	PromotionTierTop10: 10_00,
}
