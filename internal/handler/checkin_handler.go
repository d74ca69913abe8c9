package handler

import (
	"net/http"
	"time"

	"anoa.com/fitmentor/internal/dto"
	"anoa.com/fitmentor/internal/middleware"
	"anoa.com/fitmentor/internal/model"
	"anoa.com/fitmentor/internal/service"
	"anoa.com/fitmentor/pkg/response"
	"anoa.com/fitmentor/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CheckinHandler struct {
	service service.CheckinService
}

func NewCheckinHandler(service service.CheckinService) *CheckinHandler {
	return &CheckinHandler{service: service}
}

func (h *CheckinHandler) CreateCheckin(c *gin.Context) {
	var req dto.CreateCheckinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	actor, ok := middleware.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	event, err := h.service.CreateCheckin(c.Request.Context(), actor, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

func (h *CheckinHandler) GetWeek(c *gin.Context) {
	actorID, actor, ok := targetActor(c)
	if !ok {
		return
	}

	if !canViewEngagement(actor, actorID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	reference := time.Now().UTC()
	if weekStart := c.Query("week_start"); weekStart != "" {
		parsed, err := time.ParseInLocation("2006-01-02", weekStart, time.UTC)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "week_start must be YYYY-MM-DD"})
			return
		}
		reference = parsed
	}

	week, err := h.service.WeekOf(c.Request.Context(), actorID, reference)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, week)
}

func (h *CheckinHandler) GetStreak(c *gin.Context) {
	actorID, actor, ok := targetActor(c)
	if !ok {
		return
	}

	if !canViewEngagement(actor, actorID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	streak, err := h.service.Streak(c.Request.Context(), actorID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, streak)
}

// Professionals can inspect any student's engagement; students only their own.
func canViewEngagement(actor *model.User, targetID uuid.UUID) bool {
	if actor.ID == targetID {
		return true
	}
	return actor.Role.Name != model.RoleStudent
}
