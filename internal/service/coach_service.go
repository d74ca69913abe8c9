package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"anoa.com/fitmentor/internal/dto"
	"anoa.com/fitmentor/internal/model"
	"anoa.com/fitmentor/internal/repository"
	"anoa.com/fitmentor/pkg/apperror"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Credit costs per orchestrated action.
const (
	CostAnalysis = 5
	CostWorkout  = 3
	CostDiet     = 3
)

// AssessmentGenerator produces an AI assessment for an actor's input.
type AssessmentGenerator interface {
	GenerateAssessment(ctx context.Context, analysisType, input string) (string, error)
}

// CoachService is the facade external callers use. Each business action is
// generate → debit → record: the ledger entry and the counter increment
// commit in one transaction, or not at all. The single exception is the
// sunk-cost rule: once the generator has produced a user-visible result, an
// InsufficientCredits on the following debit no longer discards it — the
// account is flagged exhausted instead and the result is returned.
type CoachService interface {
	PerformAssessment(ctx context.Context, actor *model.User, req dto.AssessmentRequest) (*dto.AssessmentResponse, error)
	GeneratePlan(ctx context.Context, actor *model.User, req dto.GeneratePlanRequest) (*model.Plan, error)
}

type coachService struct {
	db          *gorm.DB
	assessments AssessmentGenerator
	planGen     PlanGenerator
	plans       PlanService
	credits     CreditService
	rdb         *redis.Client
	rateLimit   time.Duration
}

func NewCoachService(
	db *gorm.DB,
	assessments AssessmentGenerator,
	planGen PlanGenerator,
	plans PlanService,
	credits CreditService,
	rdb *redis.Client,
	rateLimit time.Duration,
) CoachService {
	return &coachService{
		db:          db,
		assessments: assessments,
		planGen:     planGen,
		plans:       plans,
		credits:     credits,
		rdb:         rdb,
		rateLimit:   rateLimit,
	}
}

// chargeAndRecord debits the ledger and bumps the achievement counter in a
// single transaction.
func (s *coachService) chargeAndRecord(ctx context.Context, actor *model.User, amount int, reason, description, actionType string) (*dto.BalanceResponse, error) {
	var balance *dto.BalanceResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		credits := NewCreditService(repository.NewCreditRepository(tx), nil)
		achievements := NewAchievementService(repository.NewAchievementRepository(tx))

		b, err := credits.Debit(ctx, actor, amount, reason, description)
		if err != nil {
			return err
		}

		if err := achievements.RecordAction(ctx, actor.ID, actionType); err != nil {
			return err
		}

		balance = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return balance, nil
}

func (s *coachService) ensureNotExhausted(ctx context.Context, actor *model.User) error {
	if actor.IsAdmin() {
		return nil
	}
	exhausted, err := s.credits.IsExhausted(ctx, actor.ID)
	if err != nil {
		return err
	}
	if exhausted {
		return fmt.Errorf("%w: account exhausted, replenish credits first", apperror.ErrInsufficientCredits)
	}
	return nil
}

func (s *coachService) PerformAssessment(ctx context.Context, actor *model.User, req dto.AssessmentRequest) (*dto.AssessmentResponse, error) {
	if err := s.ensureNotExhausted(ctx, actor); err != nil {
		return nil, err
	}

	allowed, err := CheckAndSetRateLimit(ctx, s.rdb, actor.ID, "assessment", s.rateLimit)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperror.ErrRateLimitExceeded
	}

	result, err := s.assessments.GenerateAssessment(ctx, req.AnalysisType, req.Input)
	if err != nil {
		// Nothing was produced, so nothing is charged
		if clearErr := ClearRateLimit(ctx, s.rdb, actor.ID, "assessment"); clearErr != nil {
			log.Printf("failed to clear assessment rate limit for %s: %v", actor.ID, clearErr)
		}
		return nil, fmt.Errorf("%w: %v", apperror.ErrUpstreamGenerator, err)
	}

	description := fmt.Sprintf("AI assessment (%s)", req.AnalysisType)
	balance, err := s.chargeAndRecord(ctx, actor, CostAnalysis, model.ReasonAnalysis, description, model.ActionAnalysisPerformed)
	if err != nil {
		if errors.Is(err, apperror.ErrInsufficientCredits) {
			// Sunk cost: the assessment already exists, so hand it over, but
			// flag the account until a credit lands
			log.Printf("[sunk-cost] assessment delivered without debit for %s: %v", actor.ID, err)
			if markErr := s.credits.MarkExhausted(ctx, actor.ID); markErr != nil {
				log.Printf("failed to mark account %s exhausted: %v", actor.ID, markErr)
			}
			return &dto.AssessmentResponse{
				AnalysisType: req.AnalysisType,
				Result:       result,
			}, nil
		}
		return nil, err
	}

	return &dto.AssessmentResponse{
		AnalysisType: req.AnalysisType,
		Result:       result,
		Balance:      balance,
	}, nil
}

func (s *coachService) GeneratePlan(ctx context.Context, actor *model.User, req dto.GeneratePlanRequest) (*model.Plan, error) {
	if !actor.CanCreatePlans() {
		return nil, fmt.Errorf("%w: role %s cannot generate plans", apperror.ErrForbidden, actor.Role.Name)
	}

	if err := s.ensureNotExhausted(ctx, actor); err != nil {
		return nil, err
	}

	allowed, err := CheckAndSetRateLimit(ctx, s.rdb, actor.ID, "generate_plan", s.rateLimit)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperror.ErrRateLimitExceeded
	}

	generated, err := s.planGen.GeneratePlan(ctx, req.Kind, req.Representation, "", req.Goals)
	if err != nil {
		if clearErr := ClearRateLimit(ctx, s.rdb, actor.ID, "generate_plan"); clearErr != nil {
			log.Printf("failed to clear plan rate limit for %s: %v", actor.ID, clearErr)
		}
		return nil, fmt.Errorf("%w: %v", apperror.ErrUpstreamGenerator, err)
	}

	plan, err := s.plans.Create(ctx, actor, dto.CreatePlanRequest{
		StudentID:      req.StudentID,
		Kind:           req.Kind,
		Representation: req.Representation,
		Content:        generated,
	})
	if err != nil {
		if errors.Is(err, apperror.ErrInvalidInput) {
			return nil, fmt.Errorf("%w: generator returned malformed content", apperror.ErrUpstreamGenerator)
		}
		return nil, err
	}

	cost, reason, actionType := CostWorkout, model.ReasonWorkout, model.ActionWorkoutGenerated
	if req.Kind == model.PlanKindDiet {
		cost, reason, actionType = CostDiet, model.ReasonDiet, model.ActionDietGenerated
	}

	description := fmt.Sprintf("AI %s plan generation (%s)", req.Kind, plan.ID)
	if _, err := s.chargeAndRecord(ctx, actor, cost, reason, description, actionType); err != nil {
		if errors.Is(err, apperror.ErrInsufficientCredits) {
			log.Printf("[sunk-cost] plan %s delivered without debit for %s: %v", plan.ID, actor.ID, err)
			if markErr := s.credits.MarkExhausted(ctx, actor.ID); markErr != nil {
				log.Printf("failed to mark account %s exhausted: %v", actor.ID, markErr)
			}
			return plan, nil
		}
		return nil, err
	}

	return plan, nil
}
