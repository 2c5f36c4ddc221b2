package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"loot-ledger/internal/domain/alliance"
	"loot-ledger/internal/infra"
	"loot-ledger/internal/infra/db"
	"loot-ledger/internal/pkg/pgconv"
)

type AllianceRepository struct {
	dbtx db.DBTX
}

func NewAllianceRepository(dbtx db.DBTX) *AllianceRepository {
	return &AllianceRepository{dbtx: dbtx}
}

// CreateRequest relies on the partial unique index over the normalized pair
// (LEAST/GREATEST of the two tenant ids, status = PENDING), so a second
// pending request between the same tenants fails with KindDuplicateKey
// regardless of direction.
func (r *AllianceRepository) CreateRequest(ctx context.Context, req *alliance.Request) (uuid.UUID, error) {
	const q = `
		INSERT INTO alliance_requests (id, sender_tenant, target_tenant, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	var id uuid.UUID
	err := r.dbtx.QueryRow(ctx, q,
		req.ID(), req.SenderTenant(), req.TargetTenant(), string(req.Status()), req.CreatedAt(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create alliance request", err)
	}

	return id, nil
}

func (r *AllianceRepository) FindRequestForUpdate(ctx context.Context, id uuid.UUID) (*alliance.Request, error) {
	const q = `
		SELECT id, sender_tenant, target_tenant, status, created_at, decided_at
		FROM alliance_requests
		WHERE id = $1
		FOR UPDATE`

	var (
		reqID, sender, target uuid.UUID
		status                string
		createdAt             time.Time
		decidedAt             *time.Time
	)
	err := r.dbtx.QueryRow(ctx, q, id).Scan(&reqID, &sender, &target, &status, &createdAt, &decidedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("alliance request not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find alliance request", err)
	}

	return alliance.Reconstruct(reqID, sender, target, alliance.RequestStatus(status), createdAt, decidedAt), nil
}

func (r *AllianceRepository) SaveDecision(ctx context.Context, req *alliance.Request) error {
	const q = `
		UPDATE alliance_requests
		SET status = $2, decided_at = $3
		WHERE id = $1 AND status = 'PENDING'`

	tag, err := r.dbtx.Exec(ctx, q, req.ID(), string(req.Status()), req.DecidedAt())
	if err != nil {
		return infra.WrapRepoErr("failed to save alliance decision", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr("alliance request already decided", infra.KindConflict)
	}

	return nil
}

func (r *AllianceRepository) CreatePairs(ctx context.Context, pairs [2]alliance.Pair) error {
	const q = `
		INSERT INTO alliances (tenant_id, ally_id, created_at)
		VALUES ($1, $2, now()), ($3, $4, now())`

	_, err := r.dbtx.Exec(ctx, q,
		pairs[0].TenantID, pairs[0].AllyID,
		pairs[1].TenantID, pairs[1].AllyID,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create alliance pair", err)
	}

	return nil
}

// DeletePairs removes both directions in one statement so the relation can
// never be left asymmetric.
func (r *AllianceRepository) DeletePairs(ctx context.Context, tenantA, tenantB uuid.UUID) (int64, error) {
	const q = `
		DELETE FROM alliances
		WHERE (tenant_id = $1 AND ally_id = $2) OR (tenant_id = $2 AND ally_id = $1)`

	tag, err := r.dbtx.Exec(ctx, q, tenantA, tenantB)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete alliance pair", err)
	}

	return tag.RowsAffected(), nil
}

func (r *AllianceRepository) PairExists(ctx context.Context, tenantID, allyID uuid.UUID) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM alliances WHERE tenant_id = $1 AND ally_id = $2)`

	var exists bool
	if err := r.dbtx.QueryRow(ctx, q, tenantID, allyID).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check alliance pair", err)
	}

	return exists, nil
}
