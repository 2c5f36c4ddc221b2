package queries

import (
	"context"

	"github.com/google/uuid"

	"loot-ledger/internal/pkg/errs"
	"loot-ledger/internal/usecase/shared"
)

type LedgerReadStore interface {
	List(ctx context.Context, tenantID uuid.UUID, filter LedgerFilter) ([]*LedgerEntryView, error)
}

type LedgerQueries interface {
	// List returns the distribution feed for a tenant, newest first. Allied
	// tenants may read each other's feeds; anyone else is refused.
	List(ctx context.Context, actor shared.Actor, tenantID uuid.UUID, filter LedgerFilter) ([]*LedgerEntryView, error)
}

type ledgerQueriesImpl struct {
	store LedgerReadStore
	gate  VisibilityGate
}

func NewLedgerQueries(store LedgerReadStore, gate VisibilityGate) LedgerQueries {
	return &ledgerQueriesImpl{store: store, gate: gate}
}

func (q *ledgerQueriesImpl) List(ctx context.Context, actor shared.Actor, tenantID uuid.UUID, filter LedgerFilter) ([]*LedgerEntryView, error) {
	visible, err := q.gate.CanView(ctx, actor.TenantID, tenantID)
	if err != nil {
		return nil, errs.Mark(err, ErrQueryFailed)
	}
	if !visible {
		return nil, ErrForbidden
	}

	views, err := q.store.List(ctx, tenantID, filter)
	if err != nil {
		return nil, errs.Mark(err, ErrQueryFailed)
	}

	return views, nil
}
