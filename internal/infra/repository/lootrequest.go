package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"loot-ledger/internal/domain/lootrequest"
	"loot-ledger/internal/infra"
	"loot-ledger/internal/infra/db"
	"loot-ledger/internal/pkg/pgconv"
)

type RequestRepository struct {
	dbtx db.DBTX
}

func NewRequestRepository(dbtx db.DBTX) *RequestRepository {
	return &RequestRepository{dbtx: dbtx}
}

func (r *RequestRepository) Create(ctx context.Context, req *lootrequest.Request) (uuid.UUID, error) {
	const q = `
		INSERT INTO loot_requests
			(id, tenant_id, user_id, item_id, item_name, category, quantity, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	var id uuid.UUID
	err := r.dbtx.QueryRow(ctx, q,
		req.ID(), req.TenantID(), req.UserID(), req.ItemID(),
		req.ItemName(), req.Category(), req.Quantity(), string(req.Status()), req.CreatedAt(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create loot request", err)
	}

	return id, nil
}

func (r *RequestRepository) FindForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*lootrequest.Request, error) {
	const q = `
		SELECT id, tenant_id, user_id, item_id, item_name, category, quantity,
		       status, denial_reason, created_at, decided_at, decided_by
		FROM loot_requests
		WHERE id = $1 AND tenant_id = $2
		FOR UPDATE`

	var (
		reqID, reqTenant, userID, itemID uuid.UUID
		itemName, category, status       string
		quantity                         int
		denialReason                     *string
		createdAt                        time.Time
		decidedAt                        *time.Time
		decidedBy                        *uuid.UUID
	)
	err := r.dbtx.QueryRow(ctx, q, id, tenantID).Scan(
		&reqID, &reqTenant, &userID, &itemID, &itemName, &category, &quantity,
		&status, &denialReason, &createdAt, &decidedAt, &decidedBy,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("loot request not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find loot request", err)
	}

	return lootrequest.Reconstruct(
		reqID, reqTenant, userID, itemID, itemName, category, quantity,
		lootrequest.Status(status), denialReason, createdAt, decidedAt, decidedBy,
	), nil
}

// SaveDecision persists a terminal status flip. The status = 'PENDING' guard
// makes a concurrent double decision lose with KindConflict even without the
// row lock.
func (r *RequestRepository) SaveDecision(ctx context.Context, req *lootrequest.Request) error {
	const q = `
		UPDATE loot_requests
		SET status = $3, denial_reason = $4, decided_at = $5, decided_by = $6
		WHERE id = $1 AND tenant_id = $2 AND status = 'PENDING'`

	tag, err := r.dbtx.Exec(ctx, q,
		req.ID(), req.TenantID(), string(req.Status()),
		req.DenialReason(), req.DecidedAt(), req.DecidedBy(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to save request decision", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr("request already processed", infra.KindConflict)
	}

	return nil
}
