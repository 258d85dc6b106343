// models/wallet.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet holds a user's UselessBucks balance. One row per user.
// The balance is only ever adjusted together with a WalletTransaction
// row inside the same DB transaction.
type Wallet struct {
	ID          string          `gorm:"primaryKey;type:uuid;not null" json:"id"`
	UserID      string          `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"` // External user ID
	Balance     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"balance"`
	LastClaimAt *time.Time      `json:"last_claim_at,omitempty"` // set only by successful daily claims
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// Transaction type tags. Only SignupBonus and DailyClaim are written by
// this service; the rest are emitted by the storefront collaborators and
// kept here so the ledger enum stays in one place.
const (
	TxTypeSignupBonus = "signup_bonus"
	TxTypePurchase    = "purchase"
	TxTypeRefund      = "refund"
	TxTypeDailyClaim  = "daily_claim"
	TxTypeReviewBonus = "review_bonus"
	TxTypeAchievement = "achievement"
)

// WalletTransaction is an immutable, append-only ledger entry.
// The daily_claim rows (ordered by created_at DESC) are the sole source
// of truth for streak derivation — there is no stored streak counter.
type WalletTransaction struct {
	ID          string          `gorm:"primaryKey;type:uuid;not null" json:"id"`
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount      decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"amount"`
	Type        string          `gorm:"type:varchar(32);not null;index" json:"type"`
	Description string          `gorm:"type:text" json:"description"`
	CreatedAt   time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
}

func (WalletTransaction) TableName() string {
	return "wallet_transactions"
}
