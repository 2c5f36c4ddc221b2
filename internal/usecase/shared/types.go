package shared

import (
	"github.com/google/uuid"

	"loot-ledger/internal/domain/member"
)

// Actor is the resolved caller every operation receives: identity, tenant
// scope and role, as established by the authentication collaborator.
type Actor struct {
	MemberID uuid.UUID
	TenantID uuid.UUID
	Role     member.Role
}

func (a Actor) CanManageLoot() bool {
	return a.Role == member.RoleAdmin || a.Role == member.RoleOperator
}

func (a Actor) IsAdmin() bool {
	return a.Role == member.RoleAdmin
}
