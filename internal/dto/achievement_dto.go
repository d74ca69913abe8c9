package dto

import (
	"time"

	"github.com/google/uuid"
)

type RecordActionRequest struct {
	ActorID    *uuid.UUID `json:"actor_id"`
	ActionType string     `json:"action_type" binding:"required"`
}

type AchievementProgress struct {
	AchievementID   uint       `json:"achievement_id"`
	Code            string     `json:"code"`
	Title           string     `json:"title"`
	CriteriaType    string     `json:"criteria_type"`
	Threshold       int        `json:"threshold"`
	IconKey         string     `json:"icon_key"`
	CurrentProgress int        `json:"current_progress"`
	Unlocked        bool       `json:"unlocked"`
	UnlockedAt      *time.Time `json:"unlocked_at,omitempty"`
}
