package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"anoa.com/fitmentor/internal/dto"
	"anoa.com/fitmentor/internal/model"
	"anoa.com/fitmentor/internal/repository"
	"anoa.com/fitmentor/pkg/apperror"
	"github.com/google/uuid"
)

type CheckinService interface {
	CreateCheckin(ctx context.Context, actor *model.User, req dto.CreateCheckinRequest) (*dto.CheckinResponse, error)
	WeekOf(ctx context.Context, actorID uuid.UUID, reference time.Time) (*dto.WeeklyAggregate, error)
	Streak(ctx context.Context, actorID uuid.UUID) (*dto.StreakState, error)
}

type checkinService struct {
	repo         repository.CheckinRepository
	achievements AchievementService
	weeklyGoal   int
	now          func() time.Time
}

func NewCheckinService(repo repository.CheckinRepository, achievements AchievementService, weeklyGoal int) CheckinService {
	if weeklyGoal < 1 || weeklyGoal > 7 {
		weeklyGoal = 5
	}
	return &checkinService{
		repo:         repo,
		achievements: achievements,
		weeklyGoal:   weeklyGoal,
		now:          time.Now,
	}
}

func (s *checkinService) CreateCheckin(ctx context.Context, actor *model.User, req dto.CreateCheckinRequest) (*dto.CheckinResponse, error) {
	date, err := time.ParseInLocation(dateLayout, req.Date, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", apperror.ErrInvalidInput)
	}

	today := truncateToDay(s.now())
	if date.After(today) {
		return nil, fmt.Errorf("%w: cannot check in on a future date", apperror.ErrInvalidInput)
	}

	event := &model.CheckinEvent{
		ActorID:  actor.ID,
		PlanID:   req.PlanID,
		Date:     date,
		Comment:  req.Comment,
		Feedback: req.Feedback,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}

	if s.achievements != nil {
		if err := s.achievements.RecordAction(ctx, actor.ID, model.ActionCheckinRecorded); err != nil {
			// The check-in itself is committed; the counter can catch up later
			log.Printf("failed to record check-in action for %s: %v", actor.ID, err)
		}
	}

	return toCheckinResponse(event), nil
}

func (s *checkinService) WeekOf(ctx context.Context, actorID uuid.UUID, reference time.Time) (*dto.WeeklyAggregate, error) {
	monday := mondayOf(reference)

	events, err := s.repo.FindBetween(ctx, actorID, monday, monday.AddDate(0, 0, 7))
	if err != nil {
		return nil, err
	}

	return buildWeek(monday, events, s.weeklyGoal), nil
}

func (s *checkinService) Streak(ctx context.Context, actorID uuid.UUID) (*dto.StreakState, error) {
	dates, err := s.repo.DistinctDatesDesc(ctx, actorID)
	if err != nil {
		return nil, err
	}

	today := truncateToDay(s.now())
	current, longest := computeStreaks(dates, today)

	state := &dto.StreakState{
		ActorID:       actorID,
		CurrentStreak: current,
		LongestStreak: longest,
	}
	for _, d := range dates {
		day := truncateToDay(d)
		if !day.After(today) {
			formatted := day.Format(dateLayout)
			state.LastCheckInDate = &formatted
			break
		}
	}

	return state, nil
}
