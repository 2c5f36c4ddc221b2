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

type InventoryHandler struct {
	inventoryCommands commands.InventoryCommands
	inventoryQueries  queries.InventoryQueries
}

func NewInventoryHandler(inventoryCommands commands.InventoryCommands, inventoryQueries queries.InventoryQueries) *InventoryHandler {
	return &InventoryHandler{
		inventoryCommands: inventoryCommands,
		inventoryQueries:  inventoryQueries,
	}
}

// @Summary Create inventory item
// @Description Add a pooled item to the caller's tenant
// @Tags inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateItemRequest true "Item"
// @Success 201 {object} queries.ItemView
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /inventory [post]
func (h *InventoryHandler) CreateItem(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	view, err := h.inventoryCommands.CreateItem(c.Request.Context(), actor, commands.CreateItemInput{
		Name:     req.Name,
		Category: req.Category,
		Quantity: req.Quantity,
		Notes:    req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrUnauthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		case errors.Is(err, commands.ErrDomainValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Domain validation failed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, view)
}

// @Summary List tenant inventory
// @Description List a tenant's items; allied tenants may read each other
// @Tags inventory
// @Produce json
// @Security BearerAuth
// @Param tenant_id path string true "Tenant ID"
// @Success 200 {array} queries.ItemView
// @Failure 403 {object} map[string]string
// @Router /tenants/{tenant_id}/inventory [get]
func (h *InventoryHandler) ListItems(c *gin.Context) {
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

	views, err := h.inventoryQueries.ListItems(c.Request.Context(), actor, tenantID)
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

// @Summary Get inventory item
// @Tags inventory
// @Produce json
// @Security BearerAuth
// @Param tenant_id path string true "Tenant ID"
// @Param item_id path string true "Item ID"
// @Success 200 {object} queries.ItemView
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /tenants/{tenant_id}/inventory/{item_id} [get]
func (h *InventoryHandler) GetItem(c *gin.Context) {
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
	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID format"})
		return
	}

	view, err := h.inventoryQueries.GetItem(c.Request.Context(), actor, tenantID, itemID)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Tenant not visible"})
		case errors.Is(err, queries.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, view)
}
