package commands

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"loot-ledger/internal/domain/ledger"
	"loot-ledger/internal/infra"
	"loot-ledger/internal/pkg/clock"
	"loot-ledger/internal/pkg/errs"
	"loot-ledger/internal/pkg/random"
	"loot-ledger/internal/usecase/queries"
	"loot-ledger/internal/usecase/shared"
)

type GiveawayMode string

const (
	// ModePickRecipient draws a winning member for one fixed prize item.
	ModePickRecipient GiveawayMode = "PICK_RECIPIENT"
	// ModePickItem draws a winning item for one fixed recipient.
	ModePickItem GiveawayMode = "PICK_ITEM"
)

type AssignDirectInput struct {
	ItemID      uuid.UUID
	RecipientID uuid.UUID
	Quantity    int
}

type WithdrawInput struct {
	ItemID   uuid.UUID
	Quantity int
}

type DrawGiveawayInput struct {
	Mode GiveawayMode
	// ItemIDs is the prize pool in PICK_ITEM mode, or exactly one item in
	// PICK_RECIPIENT mode.
	ItemIDs []uuid.UUID
	// CandidateIDs is the recipient pool in PICK_RECIPIENT mode, or exactly
	// one fixed recipient in PICK_ITEM mode.
	CandidateIDs []uuid.UUID
}

type DistributionCommands interface {
	AssignDirect(ctx context.Context, actor shared.Actor, input AssignDirectInput) (*queries.LedgerEntryView, error)
	Withdraw(ctx context.Context, actor shared.Actor, input WithdrawInput) (*queries.LedgerEntryView, error)
	DrawGiveaway(ctx context.Context, actor shared.Actor, input DrawGiveawayInput) (*queries.LedgerEntryView, error)
}

type distributionCommandsImpl struct {
	uow      shared.UnitOfWork
	selector random.Selector
	clock    clock.Clock
}

func NewDistributionCommands(uow shared.UnitOfWork, selector random.Selector, clk clock.Clock) DistributionCommands {
	return &distributionCommandsImpl{
		uow:      uow,
		selector: selector,
		clock:    clk,
	}
}

// AssignDirect moves units to an explicitly chosen recipient. The decrement
// and the log append share one transaction: either both commit or neither.
func (d *distributionCommandsImpl) AssignDirect(ctx context.Context, actor shared.Actor, input AssignDirectInput) (*queries.LedgerEntryView, error) {
	if !actor.CanManageLoot() {
		return nil, ErrUnauthorized
	}

	var view *queries.LedgerEntryView
	err := d.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		stock, err := tx.Inventory().Reserve(ctx, actor.TenantID, input.ItemID, input.Quantity)
		if err != nil {
			return translateReserveErr(err)
		}

		entry, err := d.appendEntry(ctx, tx, actor, stock, input.Quantity, &input.RecipientID, ledger.KindAssigned, ledger.MethodManual)
		if err != nil {
			return err
		}
		view = entryToView(entry)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return view, nil
}

// Withdraw removes units from the pool without a recipient, e.g. for assets
// consumed or written off. Audited like any other allocation.
func (d *distributionCommandsImpl) Withdraw(ctx context.Context, actor shared.Actor, input WithdrawInput) (*queries.LedgerEntryView, error) {
	if !actor.CanManageLoot() {
		return nil, ErrUnauthorized
	}

	var view *queries.LedgerEntryView
	err := d.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		stock, err := tx.Inventory().Reserve(ctx, actor.TenantID, input.ItemID, input.Quantity)
		if err != nil {
			return translateReserveErr(err)
		}

		entry, err := d.appendEntry(ctx, tx, actor, stock, input.Quantity, nil, ledger.KindWithdrawn, ledger.MethodWithdrawal)
		if err != nil {
			return err
		}
		view = entryToView(entry)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return view, nil
}

// DrawGiveaway runs an ad-hoc random draw. The winning index is computed
// here, inside the transaction, never accepted from the caller.
func (d *distributionCommandsImpl) DrawGiveaway(ctx context.Context, actor shared.Actor, input DrawGiveawayInput) (*queries.LedgerEntryView, error) {
	if !actor.CanManageLoot() {
		return nil, ErrUnauthorized
	}
	if len(input.ItemIDs) == 0 || len(input.CandidateIDs) == 0 {
		return nil, ErrEmptyPool
	}

	switch input.Mode {
	case ModePickRecipient:
		if len(input.ItemIDs) != 1 {
			return nil, errs.Mark(errs.New("pick-recipient mode takes exactly one item"), ErrDomainValidation)
		}
		return d.drawRecipient(ctx, actor, input.ItemIDs[0], input.CandidateIDs)
	case ModePickItem:
		if len(input.CandidateIDs) != 1 {
			return nil, errs.Mark(errs.New("pick-item mode takes exactly one recipient"), ErrDomainValidation)
		}
		return d.drawItem(ctx, actor, input.ItemIDs, input.CandidateIDs[0])
	default:
		return nil, errs.Mark(errs.New("unknown giveaway mode"), ErrDomainValidation)
	}
}

func (d *distributionCommandsImpl) drawRecipient(ctx context.Context, actor shared.Actor, itemID uuid.UUID, candidates []uuid.UUID) (*queries.LedgerEntryView, error) {
	var view *queries.LedgerEntryView
	err := d.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		winner, err := random.Pick(d.selector, candidates)
		if err != nil {
			return translateDrawErr(err)
		}

		stock, err := tx.Inventory().Reserve(ctx, actor.TenantID, itemID, 1)
		if err != nil {
			return translateReserveErr(err)
		}

		entry, err := d.appendEntry(ctx, tx, actor, stock, 1, &winner, ledger.KindGiveaway, ledger.MethodGiveawayRoll)
		if err != nil {
			return err
		}
		view = entryToView(entry)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return view, nil
}

// drawItem retries the draw excluding items that turn out to be depleted,
// failing with PoolExhausted only when nothing claimable remains.
func (d *distributionCommandsImpl) drawItem(ctx context.Context, actor shared.Actor, pool []uuid.UUID, recipientID uuid.UUID) (*queries.LedgerEntryView, error) {
	var view *queries.LedgerEntryView
	err := d.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		candidates := make([]uuid.UUID, len(pool))
		copy(candidates, pool)

		for len(candidates) > 0 {
			idx, err := d.selector.IntN(len(candidates))
			if err != nil {
				return translateDrawErr(err)
			}
			itemID := candidates[idx]

			stock, err := tx.Inventory().Reserve(ctx, actor.TenantID, itemID, 1)
			if err != nil {
				if infra.IsKind(err, infra.KindConflict) || infra.IsKind(err, infra.KindNotFound) {
					candidates = append(candidates[:idx], candidates[idx+1:]...)
					continue
				}
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}

			entry, err := d.appendEntry(ctx, tx, actor, stock, 1, &recipientID, ledger.KindGiveaway, ledger.MethodGiveawayRoll)
			if err != nil {
				return err
			}
			view = entryToView(entry)
			return nil
		}

		return ErrPoolExhausted
	})
	if err != nil {
		return nil, err
	}

	return view, nil
}

func (d *distributionCommandsImpl) appendEntry(
	ctx context.Context,
	tx shared.Tx,
	actor shared.Actor,
	stock *shared.ReservedStock,
	quantity int,
	recipientID *uuid.UUID,
	kind ledger.Kind,
	method ledger.Method,
) (*ledger.Entry, error) {
	entry, err := ledger.NewEntry(
		actor.TenantID, recipientID, stock.Name, stock.Category,
		quantity, kind, method, &actor.MemberID, d.clock.Now(),
	)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	if err := tx.Ledger().Append(ctx, entry); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return entry, nil
}

func entryToView(entry *ledger.Entry) *queries.LedgerEntryView {
	return &queries.LedgerEntryView{
		ID:          entry.ID(),
		TenantID:    entry.TenantID(),
		RecipientID: entry.RecipientID(),
		ItemName:    entry.ItemName(),
		Category:    entry.Category(),
		Quantity:    entry.Quantity(),
		Kind:        string(entry.Kind()),
		Method:      string(entry.Method()),
		PerformedBy: entry.PerformedBy(),
		OccurredAt:  entry.OccurredAt(),
	}
}

func translateReserveErr(err error) error {
	switch {
	case infra.IsKind(err, infra.KindNotFound):
		return ErrItemNotFound
	case infra.IsKind(err, infra.KindConflict):
		return ErrInsufficientStock
	default:
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
}

func translateDrawErr(err error) error {
	if errors.Is(err, random.ErrEmptyPool) {
		return ErrEmptyPool
	}
	return errs.Mark(err, ErrDatabaseOperationFailed)
}
