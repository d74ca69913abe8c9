package service

import (
	"context"
	"fmt"
	"time"

	"anoa.com/fitmentor/internal/dto"
	"anoa.com/fitmentor/internal/model"
	"anoa.com/fitmentor/internal/repository"
	"anoa.com/fitmentor/pkg/apperror"
	"github.com/google/uuid"
)

var knownActionTypes = map[string]bool{
	model.ActionWorkoutGenerated:  true,
	model.ActionDietGenerated:     true,
	model.ActionStudentCreated:    true,
	model.ActionAnalysisPerformed: true,
	model.ActionCheckinRecorded:   true,
}

type AchievementService interface {
	RecordAction(ctx context.Context, actorID uuid.UUID, actionType string) error
	Progress(ctx context.Context, actorID uuid.UUID) ([]dto.AchievementProgress, error)
}

type achievementService struct {
	repo repository.AchievementRepository
}

func NewAchievementService(repo repository.AchievementRepository) AchievementService {
	return &achievementService{repo: repo}
}

func (s *achievementService) RecordAction(ctx context.Context, actorID uuid.UUID, actionType string) error {
	if !knownActionTypes[actionType] {
		return fmt.Errorf("%w: unknown action type %q", apperror.ErrInvalidInput, actionType)
	}

	if err := s.repo.IncrementCounter(ctx, actorID, actionType); err != nil {
		return err
	}

	return s.refreshUnlocks(ctx, actorID)
}

// refreshUnlocks persists an unlock row for every definition whose threshold
// the actor has crossed. Set-once semantics in the repository make this safe
// to run concurrently and redundantly.
func (s *achievementService) refreshUnlocks(ctx context.Context, actorID uuid.UUID) error {
	defs, err := s.repo.GetDefinitions(ctx)
	if err != nil {
		return err
	}

	counters, err := s.repo.GetCounters(ctx, actorID)
	if err != nil {
		return err
	}
	counterByType := make(map[string]int, len(counters))
	for _, c := range counters {
		counterByType[c.ActionType] = c.Count
	}

	unlocks, err := s.repo.GetUnlocks(ctx, actorID)
	if err != nil {
		return err
	}
	unlocked := make(map[uint]bool, len(unlocks))
	for _, u := range unlocks {
		unlocked[u.AchievementID] = true
	}

	now := time.Now()
	for _, def := range defs {
		if unlocked[def.ID] {
			continue
		}
		if counterByType[def.CriteriaType] >= def.Threshold {
			if err := s.repo.RecordUnlock(ctx, actorID, def.ID, now); err != nil {
				return err
			}
		}
	}

	return nil
}

func (s *achievementService) Progress(ctx context.Context, actorID uuid.UUID) ([]dto.AchievementProgress, error) {
	// Latch anything newly crossed first, so the response is built purely
	// from persisted unlock rows and cannot flicker between calls.
	if err := s.refreshUnlocks(ctx, actorID); err != nil {
		return nil, err
	}

	defs, err := s.repo.GetDefinitions(ctx)
	if err != nil {
		return nil, err
	}

	counters, err := s.repo.GetCounters(ctx, actorID)
	if err != nil {
		return nil, err
	}
	counterByType := make(map[string]int, len(counters))
	for _, c := range counters {
		counterByType[c.ActionType] = c.Count
	}

	unlocks, err := s.repo.GetUnlocks(ctx, actorID)
	if err != nil {
		return nil, err
	}
	unlockByID := make(map[uint]model.AchievementUnlock, len(unlocks))
	for _, u := range unlocks {
		unlockByID[u.AchievementID] = u
	}

	progress := make([]dto.AchievementProgress, 0, len(defs))
	for _, def := range defs {
		p := dto.AchievementProgress{
			AchievementID:   def.ID,
			Code:            def.Code,
			Title:           def.Title,
			CriteriaType:    def.CriteriaType,
			Threshold:       def.Threshold,
			IconKey:         def.IconKey,
			CurrentProgress: counterByType[def.CriteriaType],
		}
		if u, ok := unlockByID[def.ID]; ok {
			unlockedAt := u.UnlockedAt
			p.Unlocked = true
			p.UnlockedAt = &unlockedAt
		}
		progress = append(progress, p)
	}

	return progress, nil
}
