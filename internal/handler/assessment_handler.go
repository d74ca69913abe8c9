package handler

import (
	"net/http"

	"anoa.com/fitmentor/internal/dto"
	"anoa.com/fitmentor/internal/middleware"
	"anoa.com/fitmentor/internal/service"
	"anoa.com/fitmentor/pkg/response"
	"anoa.com/fitmentor/pkg/validator"
	"github.com/gin-gonic/gin"
)

type AssessmentHandler struct {
	coach service.CoachService
}

func NewAssessmentHandler(coach service.CoachService) *AssessmentHandler {
	return &AssessmentHandler{coach: coach}
}

func (h *AssessmentHandler) PerformAssessment(c *gin.Context) {
	var req dto.AssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	actor, ok := middleware.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.coach.PerformAssessment(c.Request.Context(), actor, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
