package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"anoa.com/fitmentor/internal/bootstrap"
	"anoa.com/fitmentor/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, bootstrap.Migrate(db))

	return db
}

func newActor(t *testing.T, db *gorm.DB, roleName string) *model.User {
	t.Helper()

	var role model.Role
	require.NoError(t, db.Where(model.Role{Name: roleName}).FirstOrCreate(&role).Error)

	roleID := role.ID
	user := &model.User{
		Name:         "Test " + roleName,
		Email:        uuid.NewString() + "@fitmentor.test",
		PasswordHash: "x",
		RoleID:       &roleID,
	}
	require.NoError(t, db.Create(user).Error)
	user.Role = role
	return user
}

func seedBalance(t *testing.T, db *gorm.DB, actorID uuid.UUID, sub, pur int) {
	t.Helper()
	require.NoError(t, db.Create(&model.CreditBalance{
		ActorID:             actorID,
		SubscriptionCredits: sub,
		PurchasedCredits:    pur,
	}).Error)
}

func loadBalance(t *testing.T, db *gorm.DB, actorID uuid.UUID) model.CreditBalance {
	t.Helper()
	var balance model.CreditBalance
	require.NoError(t, db.Where("actor_id = ?", actorID).First(&balance).Error)
	return balance
}

// stubGenerator serves both plan and assessment generation with canned output.
type stubGenerator struct {
	planOutput       string
	assessmentOutput string
	err              error
	planCalls        int
	assessmentCalls  int
	lastKind         string
	lastRep          string
}

func (g *stubGenerator) GeneratePlan(ctx context.Context, kind, representation, currentContent, instructions string) (string, error) {
	g.planCalls++
	g.lastKind = kind
	g.lastRep = representation
	if g.err != nil {
		return "", g.err
	}
	return g.planOutput, nil
}

func (g *stubGenerator) GenerateAssessment(ctx context.Context, analysisType, input string) (string, error) {
	g.assessmentCalls++
	if g.err != nil {
		return "", g.err
	}
	return g.assessmentOutput, nil
}

var errGeneratorDown = errors.New("generator unavailable")
