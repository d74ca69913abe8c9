package repository

import (
	"context"
	"time"

	"anoa.com/fitmentor/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AchievementRepository interface {
	IncrementCounter(ctx context.Context, actorID uuid.UUID, actionType string) error
	GetCounters(ctx context.Context, actorID uuid.UUID) ([]model.ActionCounter, error)
	GetDefinitions(ctx context.Context) ([]model.AchievementDefinition, error)
	// RecordUnlock is set-once: a second call for the same pair is a no-op and
	// never overwrites the original timestamp.
	RecordUnlock(ctx context.Context, actorID uuid.UUID, achievementID uint, unlockedAt time.Time) error
	GetUnlocks(ctx context.Context, actorID uuid.UUID) ([]model.AchievementUnlock, error)
}

type achievementRepository struct {
	db *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) AchievementRepository {
	return &achievementRepository{db: db}
}

func (r *achievementRepository) IncrementCounter(ctx context.Context, actorID uuid.UUID, actionType string) error {
	// Upsert, same shape as a stats accumulator: insert at 1, or bump in place
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "actor_id"}, {Name: "action_type"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"count": gorm.Expr("action_counters.count + 1"),
		}),
	}).Create(&model.ActionCounter{
		ActorID:    actorID,
		ActionType: actionType,
		Count:      1,
	}).Error
}

func (r *achievementRepository) GetCounters(ctx context.Context, actorID uuid.UUID) ([]model.ActionCounter, error) {
	var counters []model.ActionCounter
	if err := r.db.WithContext(ctx).
		Where("actor_id = ?", actorID).
		Find(&counters).Error; err != nil {
		return nil, err
	}
	return counters, nil
}

func (r *achievementRepository) GetDefinitions(ctx context.Context) ([]model.AchievementDefinition, error) {
	var defs []model.AchievementDefinition
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&defs).Error; err != nil {
		return nil, err
	}
	return defs, nil
}

func (r *achievementRepository) RecordUnlock(ctx context.Context, actorID uuid.UUID, achievementID uint, unlockedAt time.Time) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "actor_id"}, {Name: "achievement_id"}},
		DoNothing: true,
	}).Create(&model.AchievementUnlock{
		ActorID:       actorID,
		AchievementID: achievementID,
		UnlockedAt:    unlockedAt,
	}).Error
}

func (r *achievementRepository) GetUnlocks(ctx context.Context, actorID uuid.UUID) ([]model.AchievementUnlock, error) {
	var unlocks []model.AchievementUnlock
	if err := r.db.WithContext(ctx).
		Where("actor_id = ?", actorID).
		Find(&unlocks).Error; err != nil {
		return nil, err
	}
	return unlocks, nil
}
