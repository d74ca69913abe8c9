package service

import (
	"context"
	"fmt"
	"log"

	"anoa.com/fitmentor/internal/dto"
	"anoa.com/fitmentor/internal/model"
	"anoa.com/fitmentor/internal/repository"
	"anoa.com/fitmentor/pkg/apperror"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// debitRetryAttempts bounds the optimistic retry loop on balance contention.
const debitRetryAttempts = 3

type CreditService interface {
	Debit(ctx context.Context, actor *model.User, amount int, reason, description string) (*dto.BalanceResponse, error)
	Credit(ctx context.Context, actorID uuid.UUID, amount int, reason string) (*dto.BalanceResponse, error)
	Balance(ctx context.Context, actorID uuid.UUID) (*dto.BalanceResponse, error)
	History(ctx context.Context, actorID uuid.UUID) ([]dto.LedgerEntryResponse, error)
	// MarkExhausted flags the account after a sunk-cost debit failure. The
	// flag is cleared by the next Credit.
	MarkExhausted(ctx context.Context, actorID uuid.UUID) error
	IsExhausted(ctx context.Context, actorID uuid.UUID) (bool, error)
}

type creditService struct {
	repo repository.CreditRepository
	rdb  *redis.Client
}

func NewCreditService(repo repository.CreditRepository, rdb *redis.Client) CreditService {
	return &creditService{repo: repo, rdb: rdb}
}

// splitDebit drains the subscription pool first, then the purchased pool.
// Pools never go negative; an admin debit beyond the total clamps both at zero.
func splitDebit(sub, pur, amount int) (newSub, newPur int) {
	take := amount
	if take > sub {
		take = sub
	}
	newSub = sub - take

	rest := amount - take
	if rest > pur {
		rest = pur
	}
	newPur = pur - rest
	return newSub, newPur
}

func (s *creditService) Debit(ctx context.Context, actor *model.User, amount int, reason, description string) (*dto.BalanceResponse, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: debit amount must be positive", apperror.ErrInvalidInput)
	}

	// The conditional update below needs a row to match; an admin debit may
	// arrive before any credit ever created one
	if err := s.repo.EnsureBalance(ctx, actor.ID); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < debitRetryAttempts; attempt++ {
		balance, err := s.repo.GetBalance(ctx, actor.ID)
		if err != nil {
			return nil, err
		}

		if !actor.IsAdmin() && balance.Total() < amount {
			return nil, apperror.ErrInsufficientCredits
		}

		newSub, newPur := splitDebit(balance.SubscriptionCredits, balance.PurchasedCredits, amount)

		entry := &model.LedgerEntry{
			ActorID:     actor.ID,
			Amount:      -amount,
			Reason:      reason,
			Description: description,
		}

		ok, err := s.repo.CompareAndDebit(ctx, actor.ID, balance.SubscriptionCredits, balance.PurchasedCredits, newSub, newPur, entry)
		if err != nil {
			return nil, err
		}
		if ok {
			return &dto.BalanceResponse{
				ActorID:             actor.ID,
				SubscriptionCredits: newSub,
				PurchasedCredits:    newPur,
				Total:               newSub + newPur,
				Exhausted:           balance.Exhausted,
			}, nil
		}
		// Another debit won the race; re-read and try again
	}

	return nil, fmt.Errorf("%w: balance changed %d times during debit", apperror.ErrConflict, debitRetryAttempts)
}

func (s *creditService) Credit(ctx context.Context, actorID uuid.UUID, amount int, reason string) (*dto.BalanceResponse, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: credit amount must be positive", apperror.ErrInvalidInput)
	}

	entry := &model.LedgerEntry{
		ActorID:     actorID,
		Amount:      amount,
		Reason:      reason,
		Description: fmt.Sprintf("credit of %d to purchased pool", amount),
	}

	if err := s.repo.AddPurchased(ctx, actorID, amount, entry); err != nil {
		return nil, err
	}

	if err := ClearExhaustedFlag(ctx, s.rdb, actorID); err != nil {
		log.Printf("failed to clear exhausted flag for %s: %v", actorID, err)
	}

	return s.Balance(ctx, actorID)
}

func (s *creditService) Balance(ctx context.Context, actorID uuid.UUID) (*dto.BalanceResponse, error) {
	balance, err := s.repo.GetBalance(ctx, actorID)
	if err != nil {
		return nil, err
	}

	return &dto.BalanceResponse{
		ActorID:             actorID,
		SubscriptionCredits: balance.SubscriptionCredits,
		PurchasedCredits:    balance.PurchasedCredits,
		Total:               balance.Total(),
		Exhausted:           balance.Exhausted,
	}, nil
}

func (s *creditService) History(ctx context.Context, actorID uuid.UUID) ([]dto.LedgerEntryResponse, error) {
	entries, err := s.repo.History(ctx, actorID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.LedgerEntryResponse{
			ID:          e.ID,
			Amount:      e.Amount,
			Reason:      e.Reason,
			Description: e.Description,
			CreatedAt:   e.CreatedAt,
		})
	}
	return out, nil
}

func (s *creditService) MarkExhausted(ctx context.Context, actorID uuid.UUID) error {
	if err := s.repo.SetExhausted(ctx, actorID, true); err != nil {
		return err
	}
	if err := SetExhaustedFlag(ctx, s.rdb, actorID); err != nil {
		log.Printf("failed to set exhausted flag for %s: %v", actorID, err)
	}
	return nil
}

func (s *creditService) IsExhausted(ctx context.Context, actorID uuid.UUID) (bool, error) {
	if exhausted, known := GetExhaustedFlag(ctx, s.rdb, actorID); known {
		return exhausted, nil
	}

	balance, err := s.repo.GetBalance(ctx, actorID)
	if err != nil {
		return false, err
	}
	return balance.Exhausted, nil
}
