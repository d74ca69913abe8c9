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

type AchievementHandler struct {
	service service.AchievementService
}

func NewAchievementHandler(service service.AchievementService) *AchievementHandler {
	return &AchievementHandler{service: service}
}

func (h *AchievementHandler) GetProgress(c *gin.Context) {
	actorID, actor, ok := targetActor(c)
	if !ok {
		return
	}

	if actorID != actor.ID && !actor.CanManageCredits() {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	progress, err := h.service.Progress(c.Request.Context(), actorID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

func (h *AchievementHandler) RecordAction(c *gin.Context) {
	var req dto.RecordActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	actor, ok := middleware.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	// Only admins may record actions on behalf of another actor
	actorID := actor.ID
	if req.ActorID != nil && *req.ActorID != actor.ID {
		if !actor.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		actorID = *req.ActorID
	}

	if err := h.service.RecordAction(c.Request.Context(), actorID, req.ActionType); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
