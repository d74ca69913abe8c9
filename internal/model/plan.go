package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PlanKindWorkout = "workout"
	PlanKindDiet    = "diet"

	// Legacy plans carry HTML-ish markup; structured plans carry a JSON document.
	// The representation is fixed at creation and never migrates.
	RepresentationLegacy     = "legacy"
	RepresentationStructured = "structured"

	// MaxRedoCount caps AI-assisted revisions per artifact for its lifetime.
	MaxRedoCount = 2
)

type Plan struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID        uuid.UUID  `gorm:"type:uuid;index;not null" json:"owner_id"`
	Owner          User       `gorm:"foreignKey:OwnerID" json:"-"`
	StudentID      *uuid.UUID `gorm:"type:uuid;index" json:"student_id,omitempty"`
	Kind           string     `gorm:"size:20;not null" json:"kind"`
	Representation string     `gorm:"size:20;not null" json:"representation"`
	Content        string     `gorm:"type:text;not null" json:"content"`
	RedoCount      int        `gorm:"not null;default:0" json:"redo_count"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Plan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (p *Plan) RevisionExhausted() bool {
	return p.RedoCount >= MaxRedoCount
}
