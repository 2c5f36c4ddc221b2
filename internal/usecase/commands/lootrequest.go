package commands

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"loot-ledger/internal/domain/ledger"
	"loot-ledger/internal/domain/lootrequest"
	"loot-ledger/internal/infra"
	"loot-ledger/internal/pkg/clock"
	"loot-ledger/internal/pkg/errs"
	"loot-ledger/internal/usecase/queries"
	"loot-ledger/internal/usecase/shared"
)

// InventoryReads is the slice of the inventory read model the command layer
// needs: a single-item snapshot taken before a request is recorded.
type InventoryReads interface {
	FindByID(ctx context.Context, tenantID, itemID uuid.UUID) (*queries.ItemView, error)
}

// AllianceReads answers visibility questions against committed alliance state.
type AllianceReads interface {
	CanView(ctx context.Context, actorTenant, targetTenant uuid.UUID) (bool, error)
	HasPendingBetween(ctx context.Context, tenantA, tenantB uuid.UUID) (bool, error)
}

type SubmitRequestInput struct {
	// TenantID is the tenant whose inventory is being requested against. It
	// may differ from the actor's own tenant when an alliance permits it.
	TenantID uuid.UUID
	ItemID   uuid.UUID
	Quantity int
}

type RequestCommands interface {
	Submit(ctx context.Context, actor shared.Actor, input SubmitRequestInput) (*queries.RequestView, error)
	Approve(ctx context.Context, actor shared.Actor, requestID uuid.UUID) (*queries.RequestView, error)
	Reject(ctx context.Context, actor shared.Actor, requestID uuid.UUID, reason string) (*queries.RequestView, error)
}

type requestCommandsImpl struct {
	uow       shared.UnitOfWork
	inventory InventoryReads
	alliances AllianceReads
	clock     clock.Clock
}

func NewRequestCommands(uow shared.UnitOfWork, inventory InventoryReads, alliances AllianceReads, clk clock.Clock) RequestCommands {
	return &requestCommandsImpl{
		uow:       uow,
		inventory: inventory,
		alliances: alliances,
		clock:     clk,
	}
}

// Submit records a member's wish. No stock is held; the request carries a
// name/category snapshot so later renames do not rewrite its history.
func (r *requestCommandsImpl) Submit(ctx context.Context, actor shared.Actor, input SubmitRequestInput) (*queries.RequestView, error) {
	visible, err := r.alliances.CanView(ctx, actor.TenantID, input.TenantID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !visible {
		return nil, ErrUnauthorized
	}

	item, err := r.inventory.FindByID(ctx, input.TenantID, input.ItemID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	req, err := lootrequest.NewRequest(
		input.TenantID, actor.MemberID, input.ItemID,
		item.Name, item.Category, input.Quantity, r.clock.Now(),
	)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	err = r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Requests().Create(ctx, req); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return requestToView(req), nil
}

// Approve re-validates stock at decision time. When the pool no longer
// covers the request the transaction aborts and the request stays PENDING,
// so the admin can retry or reject after a restock.
func (r *requestCommandsImpl) Approve(ctx context.Context, actor shared.Actor, requestID uuid.UUID) (*queries.RequestView, error) {
	if !actor.IsAdmin() {
		return nil, ErrUnauthorized
	}

	var view *queries.RequestView
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		req, err := tx.Requests().FindForUpdate(ctx, actor.TenantID, requestID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrRequestNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if err := req.Approve(actor.MemberID, r.clock.Now()); err != nil {
			return ErrAlreadyProcessed
		}

		stock, err := tx.Inventory().Reserve(ctx, req.TenantID(), req.ItemID(), req.Quantity())
		if err != nil {
			return translateReserveErr(err)
		}

		if err := tx.Requests().SaveDecision(ctx, req); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return ErrAlreadyProcessed
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		recipient := req.UserID()
		entry, err := ledger.NewEntry(
			req.TenantID(), &recipient, stock.Name, stock.Category,
			req.Quantity(), ledger.KindAssigned, ledger.MethodRequestApproval,
			&actor.MemberID, r.clock.Now(),
		)
		if err != nil {
			return errs.Mark(err, ErrDomainValidation)
		}
		if err := tx.Ledger().Append(ctx, entry); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		view = requestToView(req)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return view, nil
}

func (r *requestCommandsImpl) Reject(ctx context.Context, actor shared.Actor, requestID uuid.UUID, reason string) (*queries.RequestView, error) {
	if !actor.IsAdmin() {
		return nil, ErrUnauthorized
	}

	var view *queries.RequestView
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		req, err := tx.Requests().FindForUpdate(ctx, actor.TenantID, requestID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrRequestNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if err := req.Reject(actor.MemberID, reason, r.clock.Now()); err != nil {
			if errors.Is(err, lootrequest.ErrEmptyReason) {
				return errs.Mark(err, ErrDomainValidation)
			}
			return ErrAlreadyProcessed
		}

		if err := tx.Requests().SaveDecision(ctx, req); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return ErrAlreadyProcessed
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		view = requestToView(req)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return view, nil
}

func requestToView(req *lootrequest.Request) *queries.RequestView {
	return &queries.RequestView{
		ID:           req.ID(),
		TenantID:     req.TenantID(),
		UserID:       req.UserID(),
		ItemID:       req.ItemID(),
		ItemName:     req.ItemName(),
		Category:     req.Category(),
		Quantity:     req.Quantity(),
		Status:       string(req.Status()),
		DenialReason: req.DenialReason(),
		CreatedAt:    req.CreatedAt(),
		DecidedAt:    req.DecidedAt(),
		DecidedBy:    req.DecidedBy(),
	}
}
