package readstore

import (
	"context"

	"github.com/google/uuid"

	"loot-ledger/internal/infra"
	"loot-ledger/internal/infra/db"
	"loot-ledger/internal/usecase/queries"
)

type AllianceReadStore struct {
	dbtx db.DBTX
}

func NewAllianceReadStore(dbtx db.DBTX) *AllianceReadStore {
	return &AllianceReadStore{dbtx: dbtx}
}

// CanView is the visibility rule: own tenant, or a one-hop alliance row.
func (r *AllianceReadStore) CanView(ctx context.Context, actorTenant, targetTenant uuid.UUID) (bool, error) {
	if actorTenant == targetTenant {
		return true, nil
	}

	const q = `SELECT EXISTS (SELECT 1 FROM alliances WHERE tenant_id = $1 AND ally_id = $2)`
	var allied bool
	if err := r.dbtx.QueryRow(ctx, q, actorTenant, targetTenant).Scan(&allied); err != nil {
		return false, infra.WrapRepoErr("failed to check alliance visibility", err)
	}

	return allied, nil
}

func (r *AllianceReadStore) ListAllies(ctx context.Context, tenantID uuid.UUID) ([]*queries.AllianceView, error) {
	const q = `
		SELECT tenant_id, ally_id, created_at
		FROM alliances
		WHERE tenant_id = $1
		ORDER BY created_at DESC`

	rows, err := r.dbtx.Query(ctx, q, tenantID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list allies", err)
	}
	defer rows.Close()

	var result []*queries.AllianceView
	for rows.Next() {
		view := &queries.AllianceView{}
		if err := rows.Scan(&view.TenantID, &view.AllyID, &view.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan alliance", err)
		}
		result = append(result, view)
	}
	if rows.Err() != nil {
		return nil, infra.WrapRepoErr("failed to read alliance rows", rows.Err())
	}

	return result, nil
}

// ListRequests returns requests where the tenant is sender or target.
func (r *AllianceReadStore) ListRequests(ctx context.Context, tenantID uuid.UUID, status string) ([]*queries.AllianceRequestView, error) {
	q := `
		SELECT id, sender_tenant, target_tenant, status, created_at, decided_at
		FROM alliance_requests
		WHERE (sender_tenant = $1 OR target_tenant = $1)`
	args := []any{tenantID}

	if status != "" {
		q += ` AND status = $2`
		args = append(args, status)
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.dbtx.Query(ctx, q, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list alliance requests", err)
	}
	defer rows.Close()

	var result []*queries.AllianceRequestView
	for rows.Next() {
		view := &queries.AllianceRequestView{}
		if err := rows.Scan(
			&view.ID, &view.SenderTenant, &view.TargetTenant,
			&view.Status, &view.CreatedAt, &view.DecidedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan alliance request", err)
		}
		result = append(result, view)
	}
	if rows.Err() != nil {
		return nil, infra.WrapRepoErr("failed to read alliance request rows", rows.Err())
	}

	return result, nil
}

// HasPendingBetween checks both directions; a pending request blocks a new
// one regardless of who sent first.
func (r *AllianceReadStore) HasPendingBetween(ctx context.Context, tenantA, tenantB uuid.UUID) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM alliance_requests
			WHERE status = 'PENDING'
			  AND ((sender_tenant = $1 AND target_tenant = $2)
			    OR (sender_tenant = $2 AND target_tenant = $1))
		)`

	var pending bool
	if err := r.dbtx.QueryRow(ctx, q, tenantA, tenantB).Scan(&pending); err != nil {
		return false, infra.WrapRepoErr("failed to check pending alliance request", err)
	}

	return pending, nil
}
