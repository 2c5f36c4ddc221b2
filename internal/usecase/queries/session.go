package queries

import (
	"context"

	"github.com/google/uuid"

	"loot-ledger/internal/infra"
	"loot-ledger/internal/pkg/errs"
	"loot-ledger/internal/usecase/shared"
)

type SessionReadStore interface {
	FindByID(ctx context.Context, tenantID, sessionID uuid.UUID) (*SessionView, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*SessionView, error)
}

type SessionQueries interface {
	Get(ctx context.Context, actor shared.Actor, sessionID uuid.UUID) (*SessionView, error)
	List(ctx context.Context, actor shared.Actor) ([]*SessionView, error)
}

type sessionQueriesImpl struct {
	store SessionReadStore
}

func NewSessionQueries(store SessionReadStore) SessionQueries {
	return &sessionQueriesImpl{store: store}
}

// Get shows who already opened and what they revealed; unopened crates stay
// blank. Sessions are tenant-internal, alliances grant no access here.
func (q *sessionQueriesImpl) Get(ctx context.Context, actor shared.Actor, sessionID uuid.UUID) (*SessionView, error) {
	view, err := q.store.FindByID(ctx, actor.TenantID, sessionID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrNotFound
		}
		return nil, errs.Mark(err, ErrQueryFailed)
	}

	return view, nil
}

func (q *sessionQueriesImpl) List(ctx context.Context, actor shared.Actor) ([]*SessionView, error) {
	views, err := q.store.ListByTenant(ctx, actor.TenantID)
	if err != nil {
		return nil, errs.Mark(err, ErrQueryFailed)
	}

	return views, nil
}
