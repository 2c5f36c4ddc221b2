package commands

import (
	"context"

	"github.com/google/uuid"

	"loot-ledger/internal/domain/alliance"
	"loot-ledger/internal/infra"
	"loot-ledger/internal/pkg/clock"
	"loot-ledger/internal/pkg/errs"
	"loot-ledger/internal/usecase/queries"
	"loot-ledger/internal/usecase/shared"
)

type AllianceCommands interface {
	Request(ctx context.Context, actor shared.Actor, targetTenant uuid.UUID) (*queries.AllianceRequestView, error)
	Approve(ctx context.Context, actor shared.Actor, requestID uuid.UUID) (*queries.AllianceRequestView, error)
	Reject(ctx context.Context, actor shared.Actor, requestID uuid.UUID) (*queries.AllianceRequestView, error)
	Break(ctx context.Context, actor shared.Actor, allyTenant uuid.UUID) error
}

type allianceCommandsImpl struct {
	uow       shared.UnitOfWork
	alliances AllianceReads
	clock     clock.Clock
}

func NewAllianceCommands(uow shared.UnitOfWork, alliances AllianceReads, clk clock.Clock) AllianceCommands {
	return &allianceCommandsImpl{uow: uow, alliances: alliances, clock: clk}
}

// Request opens a pending alliance request towards another tenant. At most
// one pending request may exist between a pair at a time, in either
// direction. The read-side check answers the common case up front; the
// partial unique index still decides racing submissions inside the
// transaction.
func (a *allianceCommandsImpl) Request(ctx context.Context, actor shared.Actor, targetTenant uuid.UUID) (*queries.AllianceRequestView, error) {
	if !actor.IsAdmin() {
		return nil, ErrUnauthorized
	}

	req, err := alliance.NewRequest(actor.TenantID, targetTenant, a.clock.Now())
	if err != nil {
		return nil, ErrSelfAlliance
	}

	pending, err := a.alliances.HasPendingBetween(ctx, actor.TenantID, targetTenant)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if pending {
		return nil, ErrAlreadyPending
	}

	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		allied, err := tx.Alliances().PairExists(ctx, actor.TenantID, targetTenant)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if allied {
			return ErrAlreadyAllied
		}

		if _, err := tx.Alliances().CreateRequest(ctx, req); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return ErrAlreadyPending
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return allianceRequestToView(req), nil
}

// Approve flips the request and materializes both directional rows in the
// same transaction. There is no observable moment where the relation exists
// in only one direction.
func (a *allianceCommandsImpl) Approve(ctx context.Context, actor shared.Actor, requestID uuid.UUID) (*queries.AllianceRequestView, error) {
	if !actor.IsAdmin() {
		return nil, ErrUnauthorized
	}

	var view *queries.AllianceRequestView
	err := a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		req, err := a.lockTargetedRequest(ctx, tx, actor, requestID)
		if err != nil {
			return err
		}

		if err := req.Approve(a.clock.Now()); err != nil {
			return ErrAlreadyDecided
		}

		if err := tx.Alliances().SaveDecision(ctx, req); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return ErrAlreadyDecided
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if err := tx.Alliances().CreatePairs(ctx, req.Materialize()); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return ErrAlreadyAllied
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		view = allianceRequestToView(req)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return view, nil
}

func (a *allianceCommandsImpl) Reject(ctx context.Context, actor shared.Actor, requestID uuid.UUID) (*queries.AllianceRequestView, error) {
	if !actor.IsAdmin() {
		return nil, ErrUnauthorized
	}

	var view *queries.AllianceRequestView
	err := a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		req, err := a.lockTargetedRequest(ctx, tx, actor, requestID)
		if err != nil {
			return err
		}

		if err := req.Reject(a.clock.Now()); err != nil {
			return ErrAlreadyDecided
		}

		if err := tx.Alliances().SaveDecision(ctx, req); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return ErrAlreadyDecided
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		view = allianceRequestToView(req)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return view, nil
}

// Break dissolves an alliance from either side. Both directional rows vanish
// in one transaction; past ledger entries are untouched.
func (a *allianceCommandsImpl) Break(ctx context.Context, actor shared.Actor, allyTenant uuid.UUID) error {
	if !actor.IsAdmin() {
		return ErrUnauthorized
	}

	return a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		deleted, err := tx.Alliances().DeletePairs(ctx, actor.TenantID, allyTenant)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if deleted == 0 {
			return ErrAllianceNotFound
		}
		return nil
	})
}

// lockTargetedRequest loads the request under lock and verifies the actor's
// tenant is the one being asked. Only the target side decides.
func (a *allianceCommandsImpl) lockTargetedRequest(ctx context.Context, tx shared.Tx, actor shared.Actor, requestID uuid.UUID) (*alliance.Request, error) {
	req, err := tx.Alliances().FindRequestForUpdate(ctx, requestID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrAllianceRequestNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if req.TargetTenant() != actor.TenantID {
		return nil, ErrUnauthorized
	}
	return req, nil
}

func allianceRequestToView(req *alliance.Request) *queries.AllianceRequestView {
	return &queries.AllianceRequestView{
		ID:           req.ID(),
		SenderTenant: req.SenderTenant(),
		TargetTenant: req.TargetTenant(),
		Status:       string(req.Status()),
		CreatedAt:    req.CreatedAt(),
		DecidedAt:    req.DecidedAt(),
	}
}
