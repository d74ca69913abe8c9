package dto

import "github.com/google/uuid"

type CreatePlanRequest struct {
	StudentID      *uuid.UUID `json:"student_id"`
	Kind           string     `json:"kind" binding:"required,oneof=workout diet"`
	Representation string     `json:"representation" binding:"required,oneof=legacy structured"`
	Content        string     `json:"content" binding:"required"`
}

type RevisePlanRequest struct {
	FeedbackText string `json:"feedback_text" binding:"required,min=3"`
}

type GeneratePlanRequest struct {
	StudentID      *uuid.UUID `json:"student_id"`
	Kind           string     `json:"kind" binding:"required,oneof=workout diet"`
	Representation string     `json:"representation" binding:"required,oneof=legacy structured"`
	Goals          string     `json:"goals" binding:"required,min=3"`
}

type AssessmentRequest struct {
	AnalysisType string `json:"analysis_type" binding:"required"`
	Input        string `json:"input" binding:"required,min=3"`
}

type AssessmentResponse struct {
	AnalysisType string           `json:"analysis_type"`
	Result       string           `json:"result"`
	Balance      *BalanceResponse `json:"balance,omitempty"`
}
