package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	FeedbackLike    = "like"
	FeedbackDislike = "dislike"
)

// CheckinEvent is immutable once created. Date holds the calendar day
// (midnight UTC); CreatedAt holds the actual timestamp.
type CheckinEvent struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ActorID   uuid.UUID  `gorm:"type:uuid;index:idx_checkin_actor_date,priority:1;not null" json:"actor_id"`
	Actor     User       `gorm:"foreignKey:ActorID" json:"-"`
	PlanID    *uuid.UUID `gorm:"type:uuid;index" json:"plan_id,omitempty"`
	Date      time.Time  `gorm:"index:idx_checkin_actor_date,priority:2;not null" json:"date"`
	Comment   *string    `gorm:"type:text" json:"comment,omitempty"`
	Feedback  *string    `gorm:"size:10" json:"feedback,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (e *CheckinEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
