package model

import (
	"time"

	"github.com/google/uuid"
)

// Counter action types. Counters only ever increase.
const (
	ActionWorkoutGenerated  = "workout_generated"
	ActionDietGenerated     = "diet_generated"
	ActionStudentCreated    = "student_created"
	ActionAnalysisPerformed = "analysis_performed"
	ActionCheckinRecorded   = "checkin_recorded"
)

// AchievementDefinition is the static catalog, seeded at startup.
type AchievementDefinition struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Code         string    `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Title        string    `gorm:"size:100;not null" json:"title"`
	CriteriaType string    `gorm:"size:50;index;not null" json:"criteria_type"`
	Threshold    int       `gorm:"not null" json:"threshold"`
	IconKey      string    `gorm:"size:50;not null" json:"icon_key"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type ActionCounter struct {
	ActorID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"actor_id"`
	ActionType string    `gorm:"size:50;primaryKey" json:"action_type"`
	Count      int       `gorm:"not null;default:0" json:"count"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// AchievementUnlock is the one-way latch: created at most once per
// (actor, achievement), never deleted, UnlockedAt set exactly once.
type AchievementUnlock struct {
	ActorID       uuid.UUID             `gorm:"type:uuid;primaryKey" json:"actor_id"`
	AchievementID uint                  `gorm:"primaryKey" json:"achievement_id"`
	Achievement   AchievementDefinition `gorm:"foreignKey:AchievementID" json:"-"`
	UnlockedAt    time.Time             `gorm:"not null" json:"unlocked_at"`
}
