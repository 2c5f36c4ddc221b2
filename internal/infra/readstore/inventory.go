package readstore

import (
	"context"

	"github.com/google/uuid"

	"loot-ledger/internal/infra"
	"loot-ledger/internal/infra/db"
	"loot-ledger/internal/pkg/pgconv"
	"loot-ledger/internal/usecase/queries"
)

type InventoryReadStore struct {
	dbtx db.DBTX
}

func NewInventoryReadStore(dbtx db.DBTX) *InventoryReadStore {
	return &InventoryReadStore{dbtx: dbtx}
}

func (r *InventoryReadStore) FindByID(ctx context.Context, tenantID, itemID uuid.UUID) (*queries.ItemView, error) {
	const q = `
		SELECT id, tenant_id, name, category, quantity, notes, created_at
		FROM inventory_items
		WHERE id = $1 AND tenant_id = $2`

	view := &queries.ItemView{}
	err := r.dbtx.QueryRow(ctx, q, itemID, tenantID).Scan(
		&view.ID, &view.TenantID, &view.Name, &view.Category,
		&view.Quantity, &view.Notes, &view.CreatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("inventory item not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find inventory item", err)
	}

	return view, nil
}

func (r *InventoryReadStore) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*queries.ItemView, error) {
	const q = `
		SELECT id, tenant_id, name, category, quantity, notes, created_at
		FROM inventory_items
		WHERE tenant_id = $1
		ORDER BY category, name`

	rows, err := r.dbtx.Query(ctx, q, tenantID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list inventory", err)
	}
	defer rows.Close()

	var result []*queries.ItemView
	for rows.Next() {
		view := &queries.ItemView{}
		if err := rows.Scan(
			&view.ID, &view.TenantID, &view.Name, &view.Category,
			&view.Quantity, &view.Notes, &view.CreatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan inventory item", err)
		}
		result = append(result, view)
	}
	if rows.Err() != nil {
		return nil, infra.WrapRepoErr("failed to read inventory rows", rows.Err())
	}

	return result, nil
}
