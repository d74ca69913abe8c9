package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleStudent   = "student"
	RoleProfessor = "professor"
	RoleManager   = "manager"
	RoleAdmin     = "admin"
)

type Role struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	RoleID       *uint     `json:"role_id"`
	Role         Role      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"role"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// IsAdmin reports whether the user bypasses credit checks.
func (u *User) IsAdmin() bool {
	return u.Role.Name == RoleAdmin
}

// CanManageCredits reports whether the user may grant credits to others.
func (u *User) CanManageCredits() bool {
	return u.Role.Name == RoleManager || u.Role.Name == RoleAdmin
}

// CanCreatePlans reports whether the user may create or generate plan artifacts.
func (u *User) CanCreatePlans() bool {
	switch u.Role.Name {
	case RoleProfessor, RoleManager, RoleAdmin:
		return true
	}
	return false
}
