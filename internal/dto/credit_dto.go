package dto

import (
	"time"

	"github.com/google/uuid"
)

type DebitRequest struct {
	Amount       int    `json:"amount" binding:"required,gt=0"`
	Reason       string `json:"reason" binding:"required,oneof=ANALYSIS WORKOUT DIET"`
	AnalysisType string `json:"analysis_type"`
	Description  string `json:"description"`
}

type CreditRequest struct {
	ActorID uuid.UUID `json:"actor_id" binding:"required"`
	Amount  int       `json:"amount" binding:"required,gt=0"`
	Reason  string    `json:"reason" binding:"required"`
}

type BalanceResponse struct {
	ActorID             uuid.UUID `json:"actor_id"`
	SubscriptionCredits int       `json:"subscription_credits"`
	PurchasedCredits    int       `json:"purchased_credits"`
	Total               int       `json:"total"`
	Exhausted           bool      `json:"exhausted"`
}

type LedgerEntryResponse struct {
	ID          uint      `json:"id"`
	Amount      int       `json:"amount"`
	Reason      string    `json:"reason"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
