package readstore

import (
	"context"

	"github.com/google/uuid"

	"loot-ledger/internal/infra"
	"loot-ledger/internal/infra/db"
	"loot-ledger/internal/pkg/pgconv"
	"loot-ledger/internal/usecase/queries"
)

type MemberReadStore struct {
	dbtx db.DBTX
}

func NewMemberReadStore(dbtx db.DBTX) *MemberReadStore {
	return &MemberReadStore{dbtx: dbtx}
}

func (r *MemberReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.MemberView, error) {
	const q = `
		SELECT id, tenant_id, email, role, is_active, last_login_at
		FROM members
		WHERE id = $1 AND is_active = true`

	view := &queries.MemberView{}
	err := r.dbtx.QueryRow(ctx, q, id).Scan(
		&view.ID, &view.TenantID, &view.Email, &view.Role, &view.IsActive, &view.LastLoginAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("member not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find member", err)
	}

	return view, nil
}

// FindCredentialByEmail returns the password hash; only the login command
// reads this view.
func (r *MemberReadStore) FindCredentialByEmail(ctx context.Context, email string) (*queries.MemberCredentialView, error) {
	const q = `
		SELECT id, tenant_id, email, password_hash, role, is_active
		FROM members
		WHERE email = $1 AND is_active = true`

	view := &queries.MemberCredentialView{}
	err := r.dbtx.QueryRow(ctx, q, email).Scan(
		&view.ID, &view.TenantID, &view.Email, &view.PasswordHash, &view.Role, &view.IsActive,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("member not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find member credential", err)
	}

	return view, nil
}
