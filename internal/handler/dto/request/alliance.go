package request

import "github.com/google/uuid"

type AllianceRequest struct {
	TargetTenant uuid.UUID `json:"target_tenant" binding:"required"`
}
