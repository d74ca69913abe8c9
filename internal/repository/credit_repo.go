package repository

import (
	"context"

	"anoa.com/fitmentor/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreditRepository interface {
	EnsureBalance(ctx context.Context, actorID uuid.UUID) error
	GetBalance(ctx context.Context, actorID uuid.UUID) (*model.CreditBalance, error)
	// CompareAndDebit applies the new pool values only if the row still holds
	// the observed ones, appending the ledger entry in the same transaction.
	// Returns false without error when another writer got there first.
	CompareAndDebit(ctx context.Context, actorID uuid.UUID, oldSub, oldPur, newSub, newPur int, entry *model.LedgerEntry) (bool, error)
	AddPurchased(ctx context.Context, actorID uuid.UUID, amount int, entry *model.LedgerEntry) error
	History(ctx context.Context, actorID uuid.UUID) ([]model.LedgerEntry, error)
	SetExhausted(ctx context.Context, actorID uuid.UUID, exhausted bool) error
}

type creditRepository struct {
	db *gorm.DB
}

func NewCreditRepository(db *gorm.DB) CreditRepository {
	return &creditRepository{db: db}
}

func (r *creditRepository) EnsureBalance(ctx context.Context, actorID uuid.UUID) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "actor_id"}},
		DoNothing: true,
	}).Create(&model.CreditBalance{ActorID: actorID}).Error
}

func (r *creditRepository) GetBalance(ctx context.Context, actorID uuid.UUID) (*model.CreditBalance, error) {
	var balance model.CreditBalance
	err := r.db.WithContext(ctx).Where("actor_id = ?", actorID).First(&balance).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			// Zero pools until the first credit lands
			return &model.CreditBalance{ActorID: actorID}, nil
		}
		return nil, err
	}
	return &balance, nil
}

func (r *creditRepository) CompareAndDebit(ctx context.Context, actorID uuid.UUID, oldSub, oldPur, newSub, newPur int, entry *model.LedgerEntry) (bool, error) {
	matched := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.CreditBalance{}).
			Where("actor_id = ? AND subscription_credits = ? AND purchased_credits = ?", actorID, oldSub, oldPur).
			Updates(map[string]interface{}{
				"subscription_credits": newSub,
				"purchased_credits":    newPur,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		matched = true
		return tx.Create(entry).Error
	})
	return matched, err
}

func (r *creditRepository) AddPurchased(ctx context.Context, actorID uuid.UUID, amount int, entry *model.LedgerEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Upsert so the first top-up also creates the balance row
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "actor_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"purchased_credits": gorm.Expr("credit_balances.purchased_credits + ?", amount),
				"exhausted":         false,
			}),
		}).Create(&model.CreditBalance{
			ActorID:          actorID,
			PurchasedCredits: amount,
		}).Error; err != nil {
			return err
		}

		return tx.Create(entry).Error
	})
}

func (r *creditRepository) History(ctx context.Context, actorID uuid.UUID) ([]model.LedgerEntry, error) {
	var entries []model.LedgerEntry
	if err := r.db.WithContext(ctx).
		Where("actor_id = ?", actorID).
		Order("created_at DESC, id DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *creditRepository) SetExhausted(ctx context.Context, actorID uuid.UUID, exhausted bool) error {
	return r.db.WithContext(ctx).Model(&model.CreditBalance{}).
		Where("actor_id = ?", actorID).
		Update("exhausted", exhausted).Error
}
