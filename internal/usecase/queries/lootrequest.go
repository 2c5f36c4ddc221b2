package queries

import (
	"context"

	"github.com/google/uuid"

	"loot-ledger/internal/infra"
	"loot-ledger/internal/pkg/errs"
	"loot-ledger/internal/usecase/shared"
)

type RequestReadStore interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*RequestView, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID, status string) ([]*RequestView, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*RequestView, error)
}

type RequestQueries interface {
	Get(ctx context.Context, actor shared.Actor, requestID uuid.UUID) (*RequestView, error)
	// ListForTenant is the admin review queue, optionally filtered by status.
	ListForTenant(ctx context.Context, actor shared.Actor, status string) ([]*RequestView, error)
	// ListMine returns the actor's own submissions.
	ListMine(ctx context.Context, actor shared.Actor) ([]*RequestView, error)
}

type requestQueriesImpl struct {
	store RequestReadStore
}

func NewRequestQueries(store RequestReadStore) RequestQueries {
	return &requestQueriesImpl{store: store}
}

// Get is visible to managers of the tenant and to the requester themselves.
func (q *requestQueriesImpl) Get(ctx context.Context, actor shared.Actor, requestID uuid.UUID) (*RequestView, error) {
	view, err := q.store.FindByID(ctx, actor.TenantID, requestID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrNotFound
		}
		return nil, errs.Mark(err, ErrQueryFailed)
	}

	if !actor.CanManageLoot() && view.UserID != actor.MemberID {
		return nil, ErrForbidden
	}

	return view, nil
}

func (q *requestQueriesImpl) ListForTenant(ctx context.Context, actor shared.Actor, status string) ([]*RequestView, error) {
	if !actor.CanManageLoot() {
		return nil, ErrForbidden
	}

	views, err := q.store.ListByTenant(ctx, actor.TenantID, status)
	if err != nil {
		return nil, errs.Mark(err, ErrQueryFailed)
	}

	return views, nil
}

func (q *requestQueriesImpl) ListMine(ctx context.Context, actor shared.Actor) ([]*RequestView, error) {
	views, err := q.store.ListByUser(ctx, actor.MemberID)
	if err != nil {
		return nil, errs.Mark(err, ErrQueryFailed)
	}

	return views, nil
}
