package service

import (
	"context"
	"testing"

	"anoa.com/fitmentor/internal/dto"
	"anoa.com/fitmentor/internal/model"
	"anoa.com/fitmentor/internal/repository"
	"anoa.com/fitmentor/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newPlanFixture(t *testing.T, gen PlanGenerator) (*gorm.DB, PlanService) {
	t.Helper()
	db := openTestDB(t)
	return db, NewPlanService(repository.NewPlanRepository(db), gen, nil)
}

func TestCreateSanitizesLegacyContent(t *testing.T) {
	db, svc := newPlanFixture(t, &stubGenerator{})
	owner := newActor(t, db, model.RoleProfessor)

	plan, err := svc.Create(context.Background(), owner, dto.CreatePlanRequest{
		Kind:           model.PlanKindWorkout,
		Representation: model.RepresentationLegacy,
		Content:        `<p>Day 1: squats</p><script>alert("x")</script>`,
	})
	require.NoError(t, err)

	assert.Contains(t, plan.Content, "<p>Day 1: squats</p>")
	assert.NotContains(t, plan.Content, "<script>")
	assert.Equal(t, model.RepresentationLegacy, plan.Representation)
	assert.Equal(t, 0, plan.RedoCount)
}

func TestCreateRejectsMalformedStructuredContent(t *testing.T) {
	db, svc := newPlanFixture(t, &stubGenerator{})
	owner := newActor(t, db, model.RoleProfessor)

	_, err := svc.Create(context.Background(), owner, dto.CreatePlanRequest{
		Kind:           model.PlanKindDiet,
		Representation: model.RepresentationStructured,
		Content:        `{"days": [`,
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestCreateForbiddenForStudents(t *testing.T) {
	db, svc := newPlanFixture(t, &stubGenerator{})
	student := newActor(t, db, model.RoleStudent)

	_, err := svc.Create(context.Background(), student, dto.CreatePlanRequest{
		Kind:           model.PlanKindWorkout,
		Representation: model.RepresentationLegacy,
		Content:        "<p>plan</p>",
	})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestReviseStopsAtRedoCap(t *testing.T) {
	gen := &stubGenerator{planOutput: "<p>revised</p>"}
	db, svc := newPlanFixture(t, gen)
	owner := newActor(t, db, model.RoleProfessor)

	plan, err := svc.Create(context.Background(), owner, dto.CreatePlanRequest{
		Kind:           model.PlanKindWorkout,
		Representation: model.RepresentationLegacy,
		Content:        "<p>original</p>",
	})
	require.NoError(t, err)

	for i := 1; i <= model.MaxRedoCount; i++ {
		revised, err := svc.Revise(context.Background(), owner, plan.ID, "make it harder")
		require.NoError(t, err)
		assert.Equal(t, i, revised.RedoCount)
		assert.Contains(t, revised.Content, "revised")
	}

	_, err = svc.Revise(context.Background(), owner, plan.ID, "once more")
	assert.ErrorIs(t, err, apperror.ErrRedoBudgetExhausted)

	// The exhausted attempt must not have reached the generator
	assert.Equal(t, model.MaxRedoCount, gen.planCalls)
}

func TestReviseKeepsRepresentation(t *testing.T) {
	gen := &stubGenerator{planOutput: `{"days":[{"name":"push"}]}`}
	db, svc := newPlanFixture(t, gen)
	owner := newActor(t, db, model.RoleProfessor)

	plan, err := svc.Create(context.Background(), owner, dto.CreatePlanRequest{
		Kind:           model.PlanKindWorkout,
		Representation: model.RepresentationStructured,
		Content:        `{"days":[]}`,
	})
	require.NoError(t, err)

	revised, err := svc.Revise(context.Background(), owner, plan.ID, "add a push day")
	require.NoError(t, err)

	assert.Equal(t, model.RepresentationStructured, revised.Representation)
	assert.Equal(t, model.RepresentationStructured, gen.lastRep)
	assert.Equal(t, model.PlanKindWorkout, gen.lastKind)
}

func TestReviseGeneratorFailureLeavesPlanUntouched(t *testing.T) {
	gen := &stubGenerator{planOutput: "<p>v1</p>"}
	db, svc := newPlanFixture(t, gen)
	owner := newActor(t, db, model.RoleProfessor)

	plan, err := svc.Create(context.Background(), owner, dto.CreatePlanRequest{
		Kind:           model.PlanKindDiet,
		Representation: model.RepresentationLegacy,
		Content:        "<p>original</p>",
	})
	require.NoError(t, err)

	gen.err = errGeneratorDown
	_, err = svc.Revise(context.Background(), owner, plan.ID, "feedback")
	assert.ErrorIs(t, err, apperror.ErrUpstreamGenerator)

	reloaded, err := svc.Get(context.Background(), owner, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.RedoCount)
	assert.Contains(t, reloaded.Content, "original")
}

func TestReviseMalformedStructuredOutput(t *testing.T) {
	gen := &stubGenerator{planOutput: "not json at all"}
	db, svc := newPlanFixture(t, gen)
	owner := newActor(t, db, model.RoleProfessor)

	plan, err := svc.Create(context.Background(), owner, dto.CreatePlanRequest{
		Kind:           model.PlanKindWorkout,
		Representation: model.RepresentationStructured,
		Content:        `{"days":[]}`,
	})
	require.NoError(t, err)

	_, err = svc.Revise(context.Background(), owner, plan.ID, "feedback")
	assert.ErrorIs(t, err, apperror.ErrUpstreamGenerator)
}

func TestReviseOnlyOwnerOrAdmin(t *testing.T) {
	gen := &stubGenerator{planOutput: "<p>revised</p>"}
	db, svc := newPlanFixture(t, gen)
	owner := newActor(t, db, model.RoleProfessor)
	other := newActor(t, db, model.RoleProfessor)
	admin := newActor(t, db, model.RoleAdmin)

	plan, err := svc.Create(context.Background(), owner, dto.CreatePlanRequest{
		Kind:           model.PlanKindWorkout,
		Representation: model.RepresentationLegacy,
		Content:        "<p>original</p>",
	})
	require.NoError(t, err)

	_, err = svc.Revise(context.Background(), other, plan.ID, "not my plan")
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = svc.Revise(context.Background(), admin, plan.ID, "admin override")
	assert.NoError(t, err)
}

func TestGetNotFound(t *testing.T) {
	db, svc := newPlanFixture(t, &stubGenerator{})
	actor := newActor(t, db, model.RoleProfessor)

	_, err := svc.Get(context.Background(), actor, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestGetAccessControl(t *testing.T) {
	db, svc := newPlanFixture(t, &stubGenerator{})
	owner := newActor(t, db, model.RoleProfessor)
	student := newActor(t, db, model.RoleStudent)
	stranger := newActor(t, db, model.RoleStudent)

	studentID := student.ID
	plan, err := svc.Create(context.Background(), owner, dto.CreatePlanRequest{
		StudentID:      &studentID,
		Kind:           model.PlanKindWorkout,
		Representation: model.RepresentationLegacy,
		Content:        "<p>assigned plan</p>",
	})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), owner, plan.ID)
	assert.NoError(t, err)

	_, err = svc.Get(context.Background(), student, plan.ID)
	assert.NoError(t, err)

	_, err = svc.Get(context.Background(), stranger, plan.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestDeletePlan(t *testing.T) {
	db, svc := newPlanFixture(t, &stubGenerator{})
	owner := newActor(t, db, model.RoleProfessor)
	other := newActor(t, db, model.RoleProfessor)

	plan, err := svc.Create(context.Background(), owner, dto.CreatePlanRequest{
		Kind:           model.PlanKindDiet,
		Representation: model.RepresentationLegacy,
		Content:        "<p>meals</p>",
	})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), other, plan.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	require.NoError(t, svc.Delete(context.Background(), owner, plan.ID))

	err = svc.Delete(context.Background(), owner, plan.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

// lockedPlanRepo reports every conditional revise as lost.
type lockedPlanRepo struct {
	repository.PlanRepository
}

func (r *lockedPlanRepo) ReviseIfBelowCap(ctx context.Context, id uuid.UUID, fromRedoCount int, content string) (bool, error) {
	return false, nil
}

func TestReviseSurfacesConflictUnderContention(t *testing.T) {
	db := openTestDB(t)
	owner := newActor(t, db, model.RoleProfessor)

	base := repository.NewPlanRepository(db)
	svc := NewPlanService(&lockedPlanRepo{PlanRepository: base}, &stubGenerator{planOutput: "<p>v2</p>"}, nil)

	plan := &model.Plan{
		OwnerID:        owner.ID,
		Kind:           model.PlanKindWorkout,
		Representation: model.RepresentationLegacy,
		Content:        "<p>v1</p>",
	}
	require.NoError(t, db.Create(plan).Error)

	_, err := svc.Revise(context.Background(), owner, plan.ID, "feedback")
	assert.ErrorIs(t, err, apperror.ErrConflict)
}
