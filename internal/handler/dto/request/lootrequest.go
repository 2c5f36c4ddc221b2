package request

import "github.com/google/uuid"

type SubmitLootRequest struct {
	// TenantID is the tenant whose inventory is requested against. Defaults
	// to the caller's own tenant when omitted.
	TenantID *uuid.UUID `json:"tenant_id,omitempty"`
	ItemID   uuid.UUID  `json:"item_id" binding:"required"`
	Quantity int        `json:"quantity" binding:"required,min=1"`
}

type RejectLootRequest struct {
	Reason string `json:"reason" binding:"required"`
}
