package model

import (
	"time"

	"github.com/google/uuid"
)

// Ledger reason codes. Debits are ANALYSIS/WORKOUT/DIET, credits TOPUP/REFUND.
const (
	ReasonAnalysis = "ANALYSIS"
	ReasonWorkout  = "WORKOUT"
	ReasonDiet     = "DIET"
	ReasonTopup    = "TOPUP"
	ReasonRefund   = "REFUND"
)

// CreditBalance holds the two per-actor pools. Debits drain the subscription
// pool first; top-ups always land in the purchased pool. Both pools stay >= 0.
type CreditBalance struct {
	ActorID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"actor_id"`
	Actor               User      `gorm:"foreignKey:ActorID;constraint:OnDelete:CASCADE" json:"-"`
	SubscriptionCredits int       `gorm:"not null;default:0" json:"subscription_credits"`
	PurchasedCredits    int       `gorm:"not null;default:0" json:"purchased_credits"`
	Exhausted           bool      `gorm:"not null;default:false" json:"exhausted"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (b *CreditBalance) Total() int {
	return b.SubscriptionCredits + b.PurchasedCredits
}

// LedgerEntry is append-only: never updated, never deleted.
type LedgerEntry struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ActorID     uuid.UUID `gorm:"type:uuid;index:idx_ledger_actor_date,priority:1;not null" json:"actor_id"`
	Actor       User      `gorm:"foreignKey:ActorID" json:"-"`
	Amount      int       `gorm:"not null" json:"amount"`
	Reason      string    `gorm:"size:50;not null" json:"reason"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"index:idx_ledger_actor_date,priority:2" json:"created_at"`
}
