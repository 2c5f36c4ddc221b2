package repository

import (
	"context"

	"github.com/google/uuid"

	"loot-ledger/internal/domain/inventory"
	"loot-ledger/internal/infra"
	"loot-ledger/internal/infra/db"
	"loot-ledger/internal/usecase/shared"
)

type InventoryRepository struct {
	dbtx   db.DBTX
	policy inventory.ExhaustionPolicy
}

func NewInventoryRepository(dbtx db.DBTX, policy inventory.ExhaustionPolicy) *InventoryRepository {
	return &InventoryRepository{dbtx: dbtx, policy: policy}
}

func (r *InventoryRepository) Create(ctx context.Context, item *inventory.Item) (uuid.UUID, error) {
	const q = `
		INSERT INTO inventory_items (id, tenant_id, name, category, quantity, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	var id uuid.UUID
	err := r.dbtx.QueryRow(ctx, q,
		item.ID(), item.TenantID(), item.Name(), item.Category(),
		item.Quantity(), item.Notes(), item.CreatedAt(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create inventory item", err)
	}

	return id, nil
}

// Reserve decrements quantity with the availability check inside the UPDATE
// itself, so the count is re-validated at decrement time regardless of what
// the caller read earlier. The conditional WHERE is the oversell defense:
// two racing callers serialize on the row and the loser matches nothing.
func (r *InventoryRepository) Reserve(ctx context.Context, tenantID, itemID uuid.UUID, qty int) (*shared.ReservedStock, error) {
	const decrement = `
		UPDATE inventory_items
		SET quantity = quantity - $3
		WHERE id = $1 AND tenant_id = $2 AND quantity >= $3
		RETURNING name, category, quantity`

	res := &shared.ReservedStock{ItemID: itemID}
	err := r.dbtx.QueryRow(ctx, decrement, itemID, tenantID, qty).
		Scan(&res.Name, &res.Category, &res.Remaining)
	if err == nil {
		if res.Remaining == 0 && r.policy == inventory.DeleteAtZero {
			if delErr := r.deleteExhausted(ctx, tenantID, itemID); delErr != nil {
				return nil, delErr
			}
		}
		return res, nil
	}

	// Distinguish "absent" from "present but short on stock".
	const probe = `SELECT quantity FROM inventory_items WHERE id = $1 AND tenant_id = $2`
	var current int
	probeErr := r.dbtx.QueryRow(ctx, probe, itemID, tenantID).Scan(&current)
	if probeErr != nil {
		return nil, infra.WrapRepoErr("inventory item not found", probeErr, infra.KindNotFound)
	}

	return nil, infra.NewRepoErr("insufficient stock", infra.KindConflict)
}

func (r *InventoryRepository) deleteExhausted(ctx context.Context, tenantID, itemID uuid.UUID) error {
	const q = `DELETE FROM inventory_items WHERE id = $1 AND tenant_id = $2 AND quantity = 0`
	if _, err := r.dbtx.Exec(ctx, q, itemID, tenantID); err != nil {
		return infra.WrapRepoErr("failed to delete exhausted item", err)
	}
	return nil
}
