package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"loot-ledger/internal/infra"
	"loot-ledger/internal/infra/db"
)

type MemberRepository struct {
	dbtx db.DBTX
}

func NewMemberRepository(dbtx db.DBTX) *MemberRepository {
	return &MemberRepository{dbtx: dbtx}
}

func (r *MemberRepository) UpdateLastLogin(ctx context.Context, memberID uuid.UUID, at time.Time) error {
	const q = `UPDATE members SET last_login_at = $2 WHERE id = $1`

	if _, err := r.dbtx.Exec(ctx, q, memberID, at); err != nil {
		return infra.WrapRepoErr("failed to update last login", err)
	}

	return nil
}
