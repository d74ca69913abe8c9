package repository

import (
	"context"

	"anoa.com/fitmentor/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PlanRepository interface {
	Create(ctx context.Context, plan *model.Plan) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Plan, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Plan, error)
	// ReviseIfBelowCap swaps in the new content and bumps redo_count, but only
	// if the row still carries the redo_count the caller generated against and
	// the cap is not reached. Returns false without error otherwise.
	ReviseIfBelowCap(ctx context.Context, id uuid.UUID, fromRedoCount int, content string) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type planRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepository{db: db}
}

func (r *planRepository) Create(ctx context.Context, plan *model.Plan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *planRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Plan, error) {
	var plan model.Plan
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&plan).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Plan, error) {
	var plans []*model.Plan
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *planRepository) ReviseIfBelowCap(ctx context.Context, id uuid.UUID, fromRedoCount int, content string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Plan{}).
		Where("id = ? AND redo_count = ? AND redo_count < ?", id, fromRedoCount, model.MaxRedoCount).
		Updates(map[string]interface{}{
			"content":    content,
			"redo_count": fromRedoCount + 1,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *planRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&model.Plan{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
