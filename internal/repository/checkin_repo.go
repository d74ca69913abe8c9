package repository

import (
	"context"
	"time"

	"anoa.com/fitmentor/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CheckinRepository interface {
	Create(ctx context.Context, event *model.CheckinEvent) error
	// FindBetween returns events with from <= date < to, oldest first.
	FindBetween(ctx context.Context, actorID uuid.UUID, from, to time.Time) ([]model.CheckinEvent, error)
	// DistinctDatesDesc returns the distinct calendar dates an actor checked
	// in on, newest first.
	DistinctDatesDesc(ctx context.Context, actorID uuid.UUID) ([]time.Time, error)
}

type checkinRepository struct {
	db *gorm.DB
}

func NewCheckinRepository(db *gorm.DB) CheckinRepository {
	return &checkinRepository{db: db}
}

func (r *checkinRepository) Create(ctx context.Context, event *model.CheckinEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *checkinRepository) FindBetween(ctx context.Context, actorID uuid.UUID, from, to time.Time) ([]model.CheckinEvent, error) {
	var events []model.CheckinEvent
	if err := r.db.WithContext(ctx).
		Where("actor_id = ? AND date >= ? AND date < ?", actorID, from, to).
		Order("date ASC, created_at ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *checkinRepository) DistinctDatesDesc(ctx context.Context, actorID uuid.UUID) ([]time.Time, error) {
	var dates []time.Time
	if err := r.db.WithContext(ctx).Model(&model.CheckinEvent{}).
		Distinct("date").
		Where("actor_id = ?", actorID).
		Order("date DESC").
		Pluck("date", &dates).Error; err != nil {
		return nil, err
	}
	return dates, nil
}
