package readstore

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"loot-ledger/internal/infra"
	"loot-ledger/internal/infra/db"
	"loot-ledger/internal/usecase/queries"
)

type LedgerReadStore struct {
	dbtx db.DBTX
}

func NewLedgerReadStore(dbtx db.DBTX) *LedgerReadStore {
	return &LedgerReadStore{dbtx: dbtx}
}

// List returns entries newest first. Filters are optional; the WHERE clause
// is assembled from whichever are set.
func (r *LedgerReadStore) List(ctx context.Context, tenantID uuid.UUID, filter queries.LedgerFilter) ([]*queries.LedgerEntryView, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = queries.DefaultListLimit
	}
	if limit > queries.MaxListLimit {
		limit = queries.MaxListLimit
	}

	q := `
		SELECT id, tenant_id, recipient_id, item_name, category, quantity,
		       kind, method, performed_by, occurred_at
		FROM distribution_log
		WHERE tenant_id = $1`
	args := []any{tenantID}

	if filter.Kind != "" {
		args = append(args, filter.Kind)
		q += " AND kind = $" + strconv.Itoa(len(args))
	}
	if filter.Method != "" {
		args = append(args, filter.Method)
		q += " AND method = $" + strconv.Itoa(len(args))
	}
	if filter.RecipientID != nil {
		args = append(args, *filter.RecipientID)
		q += " AND recipient_id = $" + strconv.Itoa(len(args))
	}

	q += fmt.Sprintf(" ORDER BY occurred_at DESC, id DESC LIMIT %d", limit)

	rows, err := r.dbtx.Query(ctx, q, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list distribution log", err)
	}
	defer rows.Close()

	var result []*queries.LedgerEntryView
	for rows.Next() {
		view := &queries.LedgerEntryView{}
		if err := rows.Scan(
			&view.ID, &view.TenantID, &view.RecipientID, &view.ItemName, &view.Category,
			&view.Quantity, &view.Kind, &view.Method, &view.PerformedBy, &view.OccurredAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan log entry", err)
		}
		result = append(result, view)
	}
	if rows.Err() != nil {
		return nil, infra.WrapRepoErr("failed to read log rows", rows.Err())
	}

	return result, nil
}
