package api

import (
	"errors"
	"net/http"

	reqdto "loot-ledger/internal/handler/dto/request"
	"loot-ledger/internal/handler/middleware"
	"loot-ledger/internal/usecase/commands"
	"loot-ledger/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LootRequestHandler struct {
	requestCommands commands.RequestCommands
	requestQueries  queries.RequestQueries
}

func NewLootRequestHandler(requestCommands commands.RequestCommands, requestQueries queries.RequestQueries) *LootRequestHandler {
	return &LootRequestHandler{
		requestCommands: requestCommands,
		requestQueries:  requestQueries,
	}
}

// @Summary Submit loot request
// @Description Record a member's wish; no stock is held until approval
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.SubmitLootRequest true "Request"
// @Success 201 {object} queries.RequestView
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /requests [post]
func (h *LootRequestHandler) Submit(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.SubmitLootRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	tenantID := actor.TenantID
	if req.TenantID != nil {
		tenantID = *req.TenantID
	}

	view, err := h.requestCommands.Submit(c.Request.Context(), actor, commands.SubmitRequestInput{
		TenantID: tenantID,
		ItemID:   req.ItemID,
		Quantity: req.Quantity,
	})
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrUnauthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": "Tenant not visible"})
		case errors.Is(err, commands.ErrItemNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		case errors.Is(err, commands.ErrDomainValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Domain validation failed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, view)
}

// @Summary Approve loot request
// @Description Re-validates stock at decision time; insufficient stock leaves the request pending
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} queries.RequestView
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /requests/{id}/approve [post]
func (h *LootRequestHandler) Approve(c *gin.Context) {
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

	view, err := h.requestCommands.Approve(c.Request.Context(), actor, requestID)
	if err != nil {
		h.abortDecisionErr(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary Reject loot request
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Param request body reqdto.RejectLootRequest true "Denial reason"
// @Success 200 {object} queries.RequestView
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /requests/{id}/reject [post]
func (h *LootRequestHandler) Reject(c *gin.Context) {
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

	var req reqdto.RejectLootRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	view, err := h.requestCommands.Reject(c.Request.Context(), actor, requestID, req.Reason)
	if err != nil {
		h.abortDecisionErr(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary Get loot request
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} queries.RequestView
// @Failure 404 {object} map[string]string
// @Router /requests/{id} [get]
func (h *LootRequestHandler) Get(c *gin.Context) {
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

	view, err := h.requestQueries.Get(c.Request.Context(), actor, requestID)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		case errors.Is(err, queries.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary List tenant requests
// @Description Admin review queue, optionally filtered by status
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Success 200 {array} queries.RequestView
// @Failure 403 {object} map[string]string
// @Router /requests [get]
func (h *LootRequestHandler) ListForTenant(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	views, err := h.requestQueries.ListForTenant(c.Request.Context(), actor, c.Query("status"))
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

// @Summary List own requests
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Success 200 {array} queries.RequestView
// @Router /requests/mine [get]
func (h *LootRequestHandler) ListMine(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	views, err := h.requestQueries.ListMine(c.Request.Context(), actor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, views)
}

func (h *LootRequestHandler) abortDecisionErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	case errors.Is(err, commands.ErrRequestNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
	case errors.Is(err, commands.ErrAlreadyProcessed):
		c.JSON(http.StatusConflict, gin.H{"error": "Request already processed"})
	case errors.Is(err, commands.ErrInsufficientStock):
		c.JSON(http.StatusConflict, gin.H{"error": "Insufficient stock; request remains pending"})
	case errors.Is(err, commands.ErrDomainValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Domain validation failed"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
