package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"anoa.com/fitmentor/internal/dto"
	"anoa.com/fitmentor/internal/model"
	"anoa.com/fitmentor/internal/repository"
	"anoa.com/fitmentor/pkg/apperror"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Login(ctx context.Context, input dto.LoginRequest) (*dto.LoginResponse, error)
	CreateUser(ctx context.Context, creator *model.User, input dto.CreateUserRequest) (*model.User, error)
	ListUsers(ctx context.Context) (*dto.UserListResponse, error)
}

type authService struct {
	repo         repository.UserRepository
	creditRepo   repository.CreditRepository
	achievements AchievementService
	secret       string
	tokenTTL     time.Duration
}

func NewAuthService(repo repository.UserRepository, creditRepo repository.CreditRepository, achievements AchievementService, secret string) AuthService {
	ttl := time.Hour
	if ttlStr := os.Getenv("JWT_TTL_MINUTES"); ttlStr != "" {
		if minutes, err := strconv.Atoi(ttlStr); err == nil {
			ttl = time.Duration(minutes) * time.Minute
		}
	}

	return &authService{
		repo:         repo,
		creditRepo:   creditRepo,
		achievements: achievements,
		secret:       secret,
		tokenTTL:     ttl,
	}
}

func (s *authService) Login(ctx context.Context, input dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", apperror.ErrUnauthorized)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", apperror.ErrUnauthorized)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""

	return &dto.LoginResponse{
		Token: token,
		User:  user,
	}, nil
}

// CreateUser: admins and managers may create any role, professors only
// students. A new account starts with zero pools in both credit columns.
func (s *authService) CreateUser(ctx context.Context, creator *model.User, input dto.CreateUserRequest) (*model.User, error) {
	switch creator.Role.Name {
	case model.RoleAdmin, model.RoleManager:
	case model.RoleProfessor:
		if input.Role != model.RoleStudent {
			return nil, fmt.Errorf("%w: professors may only create students", apperror.ErrForbidden)
		}
	default:
		return nil, fmt.Errorf("%w: role %s cannot create users", apperror.ErrForbidden, creator.Role.Name)
	}

	if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", apperror.ErrInvalidInput)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	role, err := s.repo.FindRoleByName(ctx, input.Role)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: role %s not found", apperror.ErrInvalidInput, input.Role)
		}
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	roleID := role.ID
	user := &model.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		RoleID:       &roleID,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.creditRepo.EnsureBalance(ctx, user.ID); err != nil {
		return nil, err
	}

	if input.Role == model.RoleStudent && s.achievements != nil {
		if err := s.achievements.RecordAction(ctx, creator.ID, model.ActionStudentCreated); err != nil {
			log.Printf("failed to record student creation for %s: %v", creator.ID, err)
		}
	}

	created, err := s.repo.FindByID(ctx, user.ID.String())
	if err != nil {
		return nil, err
	}
	created.PasswordHash = ""

	return created, nil
}

func (s *authService) ListUsers(ctx context.Context) (*dto.UserListResponse, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		u.PasswordHash = ""
	}

	return &dto.UserListResponse{Users: users, Total: total}, nil
}

func (s *authService) generateToken(user *model.User) (string, error) {
	now := time.Now()

	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}
