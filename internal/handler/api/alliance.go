package api

import (
	"context"
	"errors"
	"net/http"

	reqdto "loot-ledger/internal/handler/dto/request"
	"loot-ledger/internal/handler/middleware"
	"loot-ledger/internal/usecase/commands"
	"loot-ledger/internal/usecase/queries"
	"loot-ledger/internal/usecase/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AllianceHandler struct {
	allianceCommands commands.AllianceCommands
	allianceQueries  queries.AllianceQueries
}

func NewAllianceHandler(allianceCommands commands.AllianceCommands, allianceQueries queries.AllianceQueries) *AllianceHandler {
	return &AllianceHandler{
		allianceCommands: allianceCommands,
		allianceQueries:  allianceQueries,
	}
}

// @Summary Request alliance
// @Description Open a pending alliance request towards another tenant
// @Tags alliances
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.AllianceRequest true "Target tenant"
// @Success 201 {object} queries.AllianceRequestView
// @Failure 409 {object} map[string]string
// @Router /alliances/requests [post]
func (h *AllianceHandler) Request(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.AllianceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	view, err := h.allianceCommands.Request(c.Request.Context(), actor, req.TargetTenant)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrUnauthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		case errors.Is(err, commands.ErrSelfAlliance):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot ally with own tenant"})
		case errors.Is(err, commands.ErrAlreadyAllied):
			c.JSON(http.StatusConflict, gin.H{"error": "Tenants are already allied"})
		case errors.Is(err, commands.ErrAlreadyPending):
			c.JSON(http.StatusConflict, gin.H{"error": "A pending request already exists between these tenants"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, view)
}

// @Summary Approve alliance request
// @Description Materializes the symmetric relation in one transaction
// @Tags alliances
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} queries.AllianceRequestView
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /alliances/requests/{id}/approve [post]
func (h *AllianceHandler) Approve(c *gin.Context) {
	h.decide(c, h.allianceCommands.Approve)
}

// @Summary Reject alliance request
// @Tags alliances
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} queries.AllianceRequestView
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /alliances/requests/{id}/reject [post]
func (h *AllianceHandler) Reject(c *gin.Context) {
	h.decide(c, h.allianceCommands.Reject)
}

// @Summary List allies
// @Tags alliances
// @Produce json
// @Security BearerAuth
// @Success 200 {array} queries.AllianceView
// @Router /alliances [get]
func (h *AllianceHandler) ListAllies(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	views, err := h.allianceQueries.ListAllies(c.Request.Context(), actor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, views)
}

// @Summary List alliance requests
// @Description Requests the tenant sent or received, optionally by status
// @Tags alliances
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Success 200 {array} queries.AllianceRequestView
// @Failure 403 {object} map[string]string
// @Router /alliances/requests [get]
func (h *AllianceHandler) ListRequests(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	views, err := h.allianceQueries.ListRequests(c.Request.Context(), actor, c.Query("status"))
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, views)
}

// @Summary Break alliance
// @Description Removes both directional rows; history is untouched
// @Tags alliances
// @Security BearerAuth
// @Param tenant_id path string true "Ally tenant ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string
// @Router /alliances/{tenant_id} [delete]
func (h *AllianceHandler) Break(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	allyTenant, err := uuid.Parse(c.Param("tenant_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tenant ID format"})
		return
	}

	if err := h.allianceCommands.Break(c.Request.Context(), actor, allyTenant); err != nil {
		switch {
		case errors.Is(err, commands.ErrUnauthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		case errors.Is(err, commands.ErrAllianceNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Alliance not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

type decisionFn func(ctx context.Context, actor shared.Actor, requestID uuid.UUID) (*queries.AllianceRequestView, error)

func (h *AllianceHandler) decide(c *gin.Context, fn decisionFn) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID format"})
		return
	}

	view, err := fn(c.Request.Context(), actor, requestID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrUnauthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		case errors.Is(err, commands.ErrAllianceRequestNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Alliance request not found"})
		case errors.Is(err, commands.ErrAlreadyDecided):
			c.JSON(http.StatusConflict, gin.H{"error": "Request already decided"})
		case errors.Is(err, commands.ErrAlreadyAllied):
			c.JSON(http.StatusConflict, gin.H{"error": "Tenants are already allied"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, view)
}
