package readstore

import (
	"context"

	"github.com/google/uuid"

	"loot-ledger/internal/infra"
	"loot-ledger/internal/infra/db"
	"loot-ledger/internal/pkg/pgconv"
	"loot-ledger/internal/usecase/queries"
)

type RequestReadStore struct {
	dbtx db.DBTX
}

func NewRequestReadStore(dbtx db.DBTX) *RequestReadStore {
	return &RequestReadStore{dbtx: dbtx}
}

const requestColumns = `
	id, tenant_id, user_id, item_id, item_name, category, quantity,
	status, denial_reason, created_at, decided_at, decided_by`

func (r *RequestReadStore) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*queries.RequestView, error) {
	q := `SELECT` + requestColumns + `
		FROM loot_requests
		WHERE id = $1 AND tenant_id = $2`

	view := &queries.RequestView{}
	err := r.dbtx.QueryRow(ctx, q, id, tenantID).Scan(
		&view.ID, &view.TenantID, &view.UserID, &view.ItemID, &view.ItemName,
		&view.Category, &view.Quantity, &view.Status, &view.DenialReason,
		&view.CreatedAt, &view.DecidedAt, &view.DecidedBy,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("loot request not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find loot request", err)
	}

	return view, nil
}

func (r *RequestReadStore) ListByTenant(ctx context.Context, tenantID uuid.UUID, status string) ([]*queries.RequestView, error) {
	q := `SELECT` + requestColumns + `
		FROM loot_requests
		WHERE tenant_id = $1`
	args := []any{tenantID}

	if status != "" {
		q += ` AND status = $2`
		args = append(args, status)
	}
	q += ` ORDER BY created_at DESC`

	return r.list(ctx, q, args...)
}

// ListByUser intentionally skips the tenant filter: a member's requests
// against allied tenants belong in their own history too.
func (r *RequestReadStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*queries.RequestView, error) {
	q := `SELECT` + requestColumns + `
		FROM loot_requests
		WHERE user_id = $1
		ORDER BY created_at DESC`

	return r.list(ctx, q, userID)
}

func (r *RequestReadStore) list(ctx context.Context, q string, args ...any) ([]*queries.RequestView, error) {
	rows, err := r.dbtx.Query(ctx, q, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list loot requests", err)
	}
	defer rows.Close()

	var result []*queries.RequestView
	for rows.Next() {
		view := &queries.RequestView{}
		if err := rows.Scan(
			&view.ID, &view.TenantID, &view.UserID, &view.ItemID, &view.ItemName,
			&view.Category, &view.Quantity, &view.Status, &view.DenialReason,
			&view.CreatedAt, &view.DecidedAt, &view.DecidedBy,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan loot request", err)
		}
		result = append(result, view)
	}
	if rows.Err() != nil {
		return nil, infra.WrapRepoErr("failed to read loot request rows", rows.Err())
	}

	return result, nil
}
