package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateCheckinRequest struct {
	PlanID   *uuid.UUID `json:"plan_id"`
	Date     string     `json:"date" binding:"required"`
	Comment  *string    `json:"comment"`
	Feedback *string    `json:"feedback" binding:"omitempty,oneof=like dislike"`
}

type CheckinResponse struct {
	ID        uuid.UUID  `json:"id"`
	ActorID   uuid.UUID  `json:"actor_id"`
	PlanID    *uuid.UUID `json:"plan_id,omitempty"`
	Date      string     `json:"date"`
	Comment   *string    `json:"comment,omitempty"`
	Feedback  *string    `json:"feedback,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type WeekDay struct {
	Date       string           `json:"date"`
	HasCheckIn bool             `json:"has_check_in"`
	CheckIn    *CheckinResponse `json:"check_in,omitempty"`
}

type WeeklyAggregate struct {
	WeekStart     string    `json:"week_start"`
	WeekEnd       string    `json:"week_end"`
	Days          []WeekDay `json:"days"`
	TotalCheckIns int       `json:"total_check_ins"`
	Goal          int       `json:"goal"`
}

type StreakState struct {
	ActorID         uuid.UUID `json:"actor_id"`
	CurrentStreak   int       `json:"current_streak"`
	LongestStreak   int       `json:"longest_streak"`
	LastCheckInDate *string   `json:"last_check_in_date,omitempty"`
}
