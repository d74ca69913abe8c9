package handler

import (
	"net/http"

	"anoa.com/fitmentor/internal/dto"
	"anoa.com/fitmentor/internal/middleware"
	"anoa.com/fitmentor/internal/model"
	"anoa.com/fitmentor/internal/service"
	"anoa.com/fitmentor/pkg/response"
	"anoa.com/fitmentor/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CreditHandler struct {
	service service.CreditService
}

func NewCreditHandler(service service.CreditService) *CreditHandler {
	return &CreditHandler{service: service}
}

func (h *CreditHandler) Debit(c *gin.Context) {
	var req dto.DebitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	actor, ok := middleware.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	description := req.Description
	if description == "" && req.AnalysisType != "" {
		description = "analysis: " + req.AnalysisType
	}

	balance, err := h.service.Debit(c.Request.Context(), actor, req.Amount, req.Reason, description)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, balance)
}

func (h *CreditHandler) Credit(c *gin.Context) {
	var req dto.CreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	balance, err := h.service.Credit(c.Request.Context(), req.ActorID, req.Amount, req.Reason)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, balance)
}

func (h *CreditHandler) History(c *gin.Context) {
	actorID, actor, ok := targetActor(c)
	if !ok {
		return
	}

	if actorID != actor.ID && !actor.CanManageCredits() {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	entries, err := h.service.History(c.Request.Context(), actorID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

func (h *CreditHandler) Balance(c *gin.Context) {
	actorID, actor, ok := targetActor(c)
	if !ok {
		return
	}

	if actorID != actor.ID && !actor.CanManageCredits() {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	balance, err := h.service.Balance(c.Request.Context(), actorID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, balance)
}

// targetActor parses the :actorId path param ("me" targets the caller) and
// loads the authenticated actor, writing the error response itself when
// either fails.
func targetActor(c *gin.Context) (uuid.UUID, *model.User, bool) {
	var actorID uuid.UUID

	if param := c.Param("actorId"); param == "me" {
		id, err := response.GetUserID(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return uuid.Nil, nil, false
		}
		actorID = id
	} else {
		id, err := uuid.Parse(param)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid actor id"})
			return uuid.Nil, nil, false
		}
		actorID = id
	}

	actor, ok := middleware.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return uuid.Nil, nil, false
	}

	return actorID, actor, true
}
