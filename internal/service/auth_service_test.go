package service

import (
	"context"
	"testing"

	"anoa.com/fitmentor/internal/dto"
	"anoa.com/fitmentor/internal/model"
	"anoa.com/fitmentor/internal/repository"
	"anoa.com/fitmentor/pkg/apperror"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret"

func newAuthFixture(t *testing.T, db *gorm.DB) AuthService {
	t.Helper()
	return NewAuthService(
		repository.NewUserRepository(db),
		repository.NewCreditRepository(db),
		NewAchievementService(repository.NewAchievementRepository(db)),
		testJWTSecret,
	)
}

func TestLogin(t *testing.T) {
	db := openTestDB(t)
	svc := newAuthFixture(t, db)

	hashed, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := newActor(t, db, model.RoleProfessor)
	require.NoError(t, db.Model(user).Update("password_hash", string(hashed)).Error)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Email: user.Email, Password: "s3cret"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Empty(t, resp.User.PasswordHash)

	// The token is signed with the secret the service was constructed with
	token, err := jwt.ParseWithClaims(resp.Token, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	require.True(t, ok)
	assert.Equal(t, user.ID.String(), claims.Subject)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: user.Email, Password: "wrong"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "nobody@fitmentor.test", Password: "s3cret"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestCreateUserPermissions(t *testing.T) {
	db := openTestDB(t)
	svc := newAuthFixture(t, db)

	// Make sure every target role exists
	for _, name := range []string{model.RoleStudent, model.RoleProfessor, model.RoleManager, model.RoleAdmin} {
		var role model.Role
		require.NoError(t, db.Where(model.Role{Name: name}).FirstOrCreate(&role).Error)
	}

	admin := newActor(t, db, model.RoleAdmin)
	professor := newActor(t, db, model.RoleProfessor)
	student := newActor(t, db, model.RoleStudent)

	created, err := svc.CreateUser(context.Background(), admin, dto.CreateUserRequest{
		Name:     "New Manager",
		Email:    "manager@fitmentor.test",
		Password: "password123",
		Role:     model.RoleManager,
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleManager, created.Role.Name)

	// Professors may only create students
	_, err = svc.CreateUser(context.Background(), professor, dto.CreateUserRequest{
		Name:     "Sneaky Admin",
		Email:    "sneaky@fitmentor.test",
		Password: "password123",
		Role:     model.RoleAdmin,
	})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	pupil, err := svc.CreateUser(context.Background(), professor, dto.CreateUserRequest{
		Name:     "New Student",
		Email:    "student@fitmentor.test",
		Password: "password123",
		Role:     model.RoleStudent,
	})
	require.NoError(t, err)

	// A fresh account starts with empty pools
	balance := loadBalance(t, db, pupil.ID)
	assert.Equal(t, 0, balance.SubscriptionCredits)
	assert.Equal(t, 0, balance.PurchasedCredits)

	// Students cannot create anyone
	_, err = svc.CreateUser(context.Background(), student, dto.CreateUserRequest{
		Name:     "Friend",
		Email:    "friend@fitmentor.test",
		Password: "password123",
		Role:     model.RoleStudent,
	})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	// Duplicate email is rejected
	_, err = svc.CreateUser(context.Background(), admin, dto.CreateUserRequest{
		Name:     "Dup",
		Email:    "student@fitmentor.test",
		Password: "password123",
		Role:     model.RoleStudent,
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestListUsers(t *testing.T) {
	db := openTestDB(t)
	svc := newAuthFixture(t, db)

	newActor(t, db, model.RoleAdmin)
	newActor(t, db, model.RoleProfessor)
	newActor(t, db, model.RoleStudent)

	list, err := svc.ListUsers(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(3), list.Total)
	require.Len(t, list.Users, 3)
	for _, u := range list.Users {
		assert.Empty(t, u.PasswordHash)
		assert.NotEmpty(t, u.Role.Name)
	}
}

func TestCreateStudentBumpsCreatorCounter(t *testing.T) {
	db := openTestDB(t)
	svc := newAuthFixture(t, db)

	var role model.Role
	require.NoError(t, db.Where(model.Role{Name: model.RoleStudent}).FirstOrCreate(&role).Error)

	professor := newActor(t, db, model.RoleProfessor)

	_, err := svc.CreateUser(context.Background(), professor, dto.CreateUserRequest{
		Name:     "Rookie",
		Email:    "rookie@fitmentor.test",
		Password: "password123",
		Role:     model.RoleStudent,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, counterFor(t, db, professor.ID, model.ActionStudentCreated))
}
