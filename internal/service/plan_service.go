package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"anoa.com/fitmentor/internal/dto"
	"anoa.com/fitmentor/internal/model"
	"anoa.com/fitmentor/internal/repository"
	"anoa.com/fitmentor/pkg/apperror"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

// reviseRetryAttempts bounds the retry loop when concurrent revisions race on
// the same plan.
const reviseRetryAttempts = 3

// PlanGenerator is the external content-generation collaborator.
type PlanGenerator interface {
	GeneratePlan(ctx context.Context, kind, representation, currentContent, instructions string) (string, error)
}

type PlanService interface {
	Create(ctx context.Context, owner *model.User, req dto.CreatePlanRequest) (*model.Plan, error)
	Get(ctx context.Context, actor *model.User, id uuid.UUID) (*model.Plan, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Plan, error)
	Revise(ctx context.Context, actor *model.User, id uuid.UUID, feedbackText string) (*model.Plan, error)
	Delete(ctx context.Context, actor *model.User, id uuid.UUID) error
}

type planService struct {
	repo      repository.PlanRepository
	generator PlanGenerator
	search    PlanSearchService
	sanitizer *bluemonday.Policy
}

func NewPlanService(repo repository.PlanRepository, generator PlanGenerator, search PlanSearchService) PlanService {
	return &planService{
		repo:      repo,
		generator: generator,
		search:    search,
		sanitizer: bluemonday.UGCPolicy(),
	}
}

// normalizeContent enforces the representation contract: legacy markup is
// sanitized, structured content must be a valid JSON document.
func (s *planService) normalizeContent(representation, content string) (string, error) {
	switch representation {
	case model.RepresentationLegacy:
		return s.sanitizer.Sanitize(content), nil
	case model.RepresentationStructured:
		if !json.Valid([]byte(content)) {
			return "", fmt.Errorf("%w: structured plan content must be valid JSON", apperror.ErrInvalidInput)
		}
		return content, nil
	default:
		return "", fmt.Errorf("%w: unknown representation %q", apperror.ErrInvalidInput, representation)
	}
}

func (s *planService) Create(ctx context.Context, owner *model.User, req dto.CreatePlanRequest) (*model.Plan, error) {
	if !owner.CanCreatePlans() {
		return nil, fmt.Errorf("%w: role %s cannot create plans", apperror.ErrForbidden, owner.Role.Name)
	}

	content, err := s.normalizeContent(req.Representation, req.Content)
	if err != nil {
		return nil, err
	}

	plan := &model.Plan{
		OwnerID:        owner.ID,
		StudentID:      req.StudentID,
		Kind:           req.Kind,
		Representation: req.Representation,
		Content:        content,
	}

	if err := s.repo.Create(ctx, plan); err != nil {
		return nil, err
	}

	if s.search != nil {
		if err := s.search.IndexPlan(plan); err != nil {
			log.Printf("failed to index plan %s: %v", plan.ID, err)
		}
	}

	return plan, nil
}

func (s *planService) Get(ctx context.Context, actor *model.User, id uuid.UUID) (*model.Plan, error) {
	plan, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if !s.canAccess(actor, plan) {
		return nil, apperror.ErrForbidden
	}

	return plan, nil
}

func (s *planService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Plan, error) {
	return s.repo.FindByOwner(ctx, ownerID)
}

func (s *planService) Revise(ctx context.Context, actor *model.User, id uuid.UUID, feedbackText string) (*model.Plan, error) {
	plan, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if plan.OwnerID != actor.ID && !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: only the owner may revise a plan", apperror.ErrForbidden)
	}

	for attempt := 0; attempt < reviseRetryAttempts; attempt++ {
		if plan.RevisionExhausted() {
			return nil, apperror.ErrRedoBudgetExhausted
		}

		// The revision keeps the plan's representation: a structured plan is
		// regenerated as structured, a legacy plan stays legacy.
		generated, err := s.generator.GeneratePlan(ctx, plan.Kind, plan.Representation, plan.Content, feedbackText)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperror.ErrUpstreamGenerator, err)
		}

		content, err := s.normalizeContent(plan.Representation, generated)
		if err != nil {
			return nil, fmt.Errorf("%w: generator returned malformed content", apperror.ErrUpstreamGenerator)
		}

		ok, err := s.repo.ReviseIfBelowCap(ctx, plan.ID, plan.RedoCount, content)
		if err != nil {
			return nil, err
		}
		if ok {
			plan.Content = content
			plan.RedoCount++

			if s.search != nil {
				if err := s.search.IndexPlan(plan); err != nil {
					log.Printf("failed to reindex plan %s: %v", plan.ID, err)
				}
			}
			return plan, nil
		}

		// A concurrent revision landed first; reload and re-generate against
		// the fresh content
		plan, err = s.repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperror.ErrNotFound
			}
			return nil, err
		}
	}

	return nil, fmt.Errorf("%w: plan %s changed repeatedly during revision", apperror.ErrConflict, id)
}

func (s *planService) Delete(ctx context.Context, actor *model.User, id uuid.UUID) error {
	plan, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	if plan.OwnerID != actor.ID && !actor.IsAdmin() {
		return fmt.Errorf("%w: only the owner may delete a plan", apperror.ErrForbidden)
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperror.ErrNotFound
	}

	if s.search != nil {
		if err := s.search.DeletePlan(id.String()); err != nil {
			log.Printf("failed to deindex plan %s: %v", id, err)
		}
	}

	return nil
}

func (s *planService) canAccess(actor *model.User, plan *model.Plan) bool {
	if plan.OwnerID == actor.ID || actor.IsAdmin() {
		return true
	}
	// Students may read plans assigned to them
	return plan.StudentID != nil && *plan.StudentID == actor.ID
}
