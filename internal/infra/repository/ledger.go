package repository

import (
	"context"

	"loot-ledger/internal/domain/ledger"
	"loot-ledger/internal/infra"
	"loot-ledger/internal/infra/db"
)

type LedgerRepository struct {
	dbtx db.DBTX
}

func NewLedgerRepository(dbtx db.DBTX) *LedgerRepository {
	return &LedgerRepository{dbtx: dbtx}
}

// Append inserts one immutable log row. There is no update or delete path
// anywhere in this repository; the table only ever grows.
func (r *LedgerRepository) Append(ctx context.Context, entry *ledger.Entry) error {
	const q = `
		INSERT INTO distribution_log
			(id, tenant_id, recipient_id, item_name, category, quantity, kind, method, performed_by, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.dbtx.Exec(ctx, q,
		entry.ID(), entry.TenantID(), entry.RecipientID(), entry.ItemName(),
		entry.Category(), entry.Quantity(), string(entry.Kind()), string(entry.Method()),
		entry.PerformedBy(), entry.OccurredAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to append distribution log entry", err)
	}

	return nil
}
