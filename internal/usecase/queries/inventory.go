package queries

import (
	"context"

	"github.com/google/uuid"

	"loot-ledger/internal/infra"
	"loot-ledger/internal/pkg/errs"
	"loot-ledger/internal/usecase/shared"
)

// InventoryReadStore is the persistence-side read model for inventory.
type InventoryReadStore interface {
	FindByID(ctx context.Context, tenantID, itemID uuid.UUID) (*ItemView, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*ItemView, error)
}

// VisibilityGate decides whether an actor's tenant may read another tenant's
// data. Own tenant always passes; otherwise an alliance row must exist.
type VisibilityGate interface {
	CanView(ctx context.Context, actorTenant, targetTenant uuid.UUID) (bool, error)
}

type InventoryQueries interface {
	GetItem(ctx context.Context, actor shared.Actor, tenantID, itemID uuid.UUID) (*ItemView, error)
	ListItems(ctx context.Context, actor shared.Actor, tenantID uuid.UUID) ([]*ItemView, error)
}

type inventoryQueriesImpl struct {
	store InventoryReadStore
	gate  VisibilityGate
}

func NewInventoryQueries(store InventoryReadStore, gate VisibilityGate) InventoryQueries {
	return &inventoryQueriesImpl{store: store, gate: gate}
}

func (q *inventoryQueriesImpl) GetItem(ctx context.Context, actor shared.Actor, tenantID, itemID uuid.UUID) (*ItemView, error) {
	if err := q.checkVisibility(ctx, actor, tenantID); err != nil {
		return nil, err
	}

	view, err := q.store.FindByID(ctx, tenantID, itemID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrNotFound
		}
		return nil, errs.Mark(err, ErrQueryFailed)
	}

	return view, nil
}

func (q *inventoryQueriesImpl) ListItems(ctx context.Context, actor shared.Actor, tenantID uuid.UUID) ([]*ItemView, error) {
	if err := q.checkVisibility(ctx, actor, tenantID); err != nil {
		return nil, err
	}

	views, err := q.store.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, errs.Mark(err, ErrQueryFailed)
	}

	return views, nil
}

func (q *inventoryQueriesImpl) checkVisibility(ctx context.Context, actor shared.Actor, tenantID uuid.UUID) error {
	visible, err := q.gate.CanView(ctx, actor.TenantID, tenantID)
	if err != nil {
		return errs.Mark(err, ErrQueryFailed)
	}
	if !visible {
		return ErrForbidden
	}
	return nil
}
