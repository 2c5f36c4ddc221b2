package queries

import (
	"context"

	"github.com/google/uuid"

	"loot-ledger/internal/infra"
	"loot-ledger/internal/pkg/errs"
	"loot-ledger/internal/usecase/shared"
)

type MemberReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*MemberView, error)
}

type MemberQueries interface {
	CurrentMember(ctx context.Context, actor shared.Actor) (*MemberView, error)
}

type memberQueriesImpl struct {
	store MemberReadStore
}

func NewMemberQueries(store MemberReadStore) MemberQueries {
	return &memberQueriesImpl{store: store}
}

func (q *memberQueriesImpl) CurrentMember(ctx context.Context, actor shared.Actor) (*MemberView, error) {
	view, err := q.store.FindByID(ctx, actor.MemberID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrNotFound
		}
		return nil, errs.Mark(err, ErrQueryFailed)
	}

	return view, nil
}
