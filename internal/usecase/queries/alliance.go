package queries

import (
	"context"

	"github.com/google/uuid"

	"loot-ledger/internal/pkg/errs"
	"loot-ledger/internal/usecase/shared"
)

type AllianceReadStore interface {
	ListAllies(ctx context.Context, tenantID uuid.UUID) ([]*AllianceView, error)
	ListRequests(ctx context.Context, tenantID uuid.UUID, status string) ([]*AllianceRequestView, error)
}

type AllianceQueries interface {
	ListAllies(ctx context.Context, actor shared.Actor) ([]*AllianceView, error)
	// ListRequests returns requests the actor's tenant sent or received.
	ListRequests(ctx context.Context, actor shared.Actor, status string) ([]*AllianceRequestView, error)
}

type allianceQueriesImpl struct {
	store AllianceReadStore
}

func NewAllianceQueries(store AllianceReadStore) AllianceQueries {
	return &allianceQueriesImpl{store: store}
}

func (q *allianceQueriesImpl) ListAllies(ctx context.Context, actor shared.Actor) ([]*AllianceView, error) {
	views, err := q.store.ListAllies(ctx, actor.TenantID)
	if err != nil {
		return nil, errs.Mark(err, ErrQueryFailed)
	}

	return views, nil
}

func (q *allianceQueriesImpl) ListRequests(ctx context.Context, actor shared.Actor, status string) ([]*AllianceRequestView, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	views, err := q.store.ListRequests(ctx, actor.TenantID, status)
	if err != nil {
		return nil, errs.Mark(err, ErrQueryFailed)
	}

	return views, nil
}
