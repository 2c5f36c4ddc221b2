package api

import (
	"errors"
	"net/http"
	"strconv"

	reqdto "loot-ledger/internal/handler/dto/request"
	"loot-ledger/internal/handler/middleware"
	"loot-ledger/internal/usecase/commands"
	"loot-ledger/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DistributionHandler struct {
	distribution commands.DistributionCommands
	ledger       queries.LedgerQueries
}

func NewDistributionHandler(distribution commands.DistributionCommands, ledger queries.LedgerQueries) *DistributionHandler {
	return &DistributionHandler{
		distribution: distribution,
		ledger:       ledger,
	}
}

// @Summary Assign items directly
// @Description Decrement stock and record an assignment in one transaction
// @Tags distributions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.AssignRequest true "Assignment"
// @Success 201 {object} queries.LedgerEntryView
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /distributions/assign [post]
func (h *DistributionHandler) Assign(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	view, err := h.distribution.AssignDirect(c.Request.Context(), actor, commands.AssignDirectInput{
		ItemID:      req.ItemID,
		RecipientID: req.RecipientID,
		Quantity:    req.Quantity,
	})
	if err != nil {
		h.abortDistributionErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

// @Summary Withdraw items
// @Description Remove stock without a recipient; still audited
// @Tags distributions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.WithdrawRequest true "Withdrawal"
// @Success 201 {object} queries.LedgerEntryView
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /distributions/withdraw [post]
func (h *DistributionHandler) Withdraw(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	view, err := h.distribution.Withdraw(c.Request.Context(), actor, commands.WithdrawInput{
		ItemID:   req.ItemID,
		Quantity: req.Quantity,
	})
	if err != nil {
		h.abortDistributionErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

// @Summary Run a giveaway draw
// @Description Server-side uniform draw; the winner is never chosen by the client
// @Tags distributions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.DrawGiveawayRequest true "Draw"
// @Success 201 {object} queries.LedgerEntryView
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /distributions/giveaway [post]
func (h *DistributionHandler) DrawGiveaway(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.DrawGiveawayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	view, err := h.distribution.DrawGiveaway(c.Request.Context(), actor, commands.DrawGiveawayInput{
		Mode:         commands.GiveawayMode(req.Mode),
		ItemIDs:      req.ItemIDs,
		CandidateIDs: req.CandidateIDs,
	})
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrEmptyPool):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Draw pool is empty"})
		case errors.Is(err, commands.ErrPoolExhausted):
			c.JSON(http.StatusConflict, gin.H{"error": "No drawable items remain"})
		default:
			h.abortDistributionErr(c, err)
		}
		return
	}

	c.JSON(http.StatusCreated, view)
}

// @Summary List distribution log
// @Description Tenant's append-only feed, newest first; allied tenants may read
// @Tags distributions
// @Produce json
// @Security BearerAuth
// @Param tenant_id path string true "Tenant ID"
// @Param kind query string false "Entry kind filter"
// @Param method query string false "Method filter"
// @Param recipient_id query string false "Recipient filter"
// @Param limit query int false "Page size"
// @Success 200 {array} queries.LedgerEntryView
// @Failure 403 {object} map[string]string
// @Router /tenants/{tenant_id}/ledger [get]
func (h *DistributionHandler) ListLedger(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	tenantID, err := uuid.Parse(c.Param("tenant_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tenant ID format"})
		return
	}

	filter, err := parseLedgerFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	views, err := h.ledger.List(c.Request.Context(), actor, tenantID, filter)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Tenant not visible"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, views)
}

func (h *DistributionHandler) abortDistributionErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	case errors.Is(err, commands.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
	case errors.Is(err, commands.ErrInsufficientStock):
		c.JSON(http.StatusConflict, gin.H{"error": "Insufficient stock"})
	case errors.Is(err, commands.ErrDomainValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Domain validation failed"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func parseLedgerFilter(c *gin.Context) (queries.LedgerFilter, error) {
	filter := queries.LedgerFilter{
		Kind:   c.Query("kind"),
		Method: c.Query("method"),
	}

	if raw := c.Query("recipient_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return queries.LedgerFilter{}, errors.New("invalid recipient_id format")
		}
		filter.RecipientID = &id
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return queries.LedgerFilter{}, errors.New("invalid limit")
		}
		filter.Limit = limit
	}

	return filter, nil
}
