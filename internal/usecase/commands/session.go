package commands

import (
	"context"
	"time"

	"github.com/google/uuid"

	"loot-ledger/internal/domain/ledger"
	"loot-ledger/internal/domain/session"
	"loot-ledger/internal/infra"
	"loot-ledger/internal/pkg/clock"
	"loot-ledger/internal/pkg/errs"
	"loot-ledger/internal/pkg/random"
	"loot-ledger/internal/usecase/queries"
	"loot-ledger/internal/usecase/shared"
)

type CreateSessionInput struct {
	Title          string
	ItemIDs        []uuid.UUID
	ParticipantIDs []uuid.UUID
}

// ClaimResult is what a participant learns the moment their crate opens.
type ClaimResult struct {
	WonItemName   string    `json:"won_item_name"`
	Category      string    `json:"category"`
	OpenedAt      time.Time `json:"opened_at"`
	SessionClosed bool      `json:"session_closed"`
}

type SessionCommands interface {
	Create(ctx context.Context, actor shared.Actor, input CreateSessionInput) (*queries.SessionView, error)
	Claim(ctx context.Context, actor shared.Actor, sessionID uuid.UUID) (*ClaimResult, error)
	Close(ctx context.Context, actor shared.Actor, sessionID uuid.UUID) error
}

type sessionCommandsImpl struct {
	uow       shared.UnitOfWork
	inventory InventoryReads
	selector  random.Selector
	clock     clock.Clock
}

func NewSessionCommands(uow shared.UnitOfWork, inventory InventoryReads, selector random.Selector, clk clock.Clock) SessionCommands {
	return &sessionCommandsImpl{
		uow:       uow,
		inventory: inventory,
		selector:  selector,
		clock:     clk,
	}
}

// Create snapshots the chosen items by value. The pool shown to participants
// is frozen at this moment; live stock is only consulted again at claim time.
func (s *sessionCommandsImpl) Create(ctx context.Context, actor shared.Actor, input CreateSessionInput) (*queries.SessionView, error) {
	if !actor.CanManageLoot() {
		return nil, ErrUnauthorized
	}

	items := make([]session.Item, 0, len(input.ItemIDs))
	for _, itemID := range input.ItemIDs {
		view, err := s.inventory.FindByID(ctx, actor.TenantID, itemID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil, ErrItemNotFound
			}
			return nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}
		items = append(items, session.Item{
			ItemID:   view.ID,
			Name:     view.Name,
			Category: view.Category,
		})
	}

	sess, err := session.NewSession(actor.TenantID, input.Title, items, input.ParticipantIDs, actor.MemberID, s.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	err = s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Sessions().Create(ctx, sess); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return sessionToView(sess), nil
}

// Claim opens one crate for the calling participant. The whole sequence runs
// in one transaction with the session row locked, so concurrent claims in the
// same session serialize and each settles on a distinct snapshot item:
//
//	lock session (must be ACTIVE)
//	lock participant (must not have opened yet)
//	draw a random unclaimed snapshot item, reserve 1 live unit
//	  retry excluding depleted items until one sticks
//	mark item claimed, mark participant opened, append the ledger entry
//	close the session when the last participant has opened
func (s *sessionCommandsImpl) Claim(ctx context.Context, actor shared.Actor, sessionID uuid.UUID) (*ClaimResult, error) {
	var result *ClaimResult
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Sessions().FindForUpdate(ctx, actor.TenantID, sessionID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrSessionNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if snap.Status != session.StatusActive {
			return ErrSessionClosed
		}

		participant, err := tx.Sessions().FindParticipantForUpdate(ctx, sessionID, actor.MemberID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrParticipantNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if participant.Opened() {
			return ErrAlreadyClaimed
		}

		available, err := tx.Sessions().AvailableItems(ctx, sessionID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		won, err := s.drawClaimable(ctx, tx, actor, available)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		if err := tx.Sessions().MarkItemClaimed(ctx, won.ID, actor.MemberID); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := tx.Sessions().MarkOpened(ctx, sessionID, actor.MemberID, won.Name, now); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return ErrAlreadyClaimed
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		recipient := actor.MemberID
		entry, err := ledger.NewEntry(
			actor.TenantID, &recipient, won.Name, won.Category,
			1, ledger.KindAssigned, ledger.MethodCrateOpening,
			&actor.MemberID, now,
		)
		if err != nil {
			return errs.Mark(err, ErrDomainValidation)
		}
		if err := tx.Ledger().Append(ctx, entry); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		closed := false
		unopened, err := tx.Sessions().CountUnopened(ctx, sessionID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if unopened == 0 {
			if err := tx.Sessions().Close(ctx, sessionID); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
			closed = true
		}

		result = &ClaimResult{
			WonItemName:   won.Name,
			Category:      won.Category,
			OpenedAt:      now,
			SessionClosed: closed,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// drawClaimable draws uniformly over the unclaimed snapshot and reserves one
// live unit for the drawn entry. A snapshot item whose live stock has since
// drained is excluded, together with its duplicates, and the draw repeats
// over what remains.
func (s *sessionCommandsImpl) drawClaimable(ctx context.Context, tx shared.Tx, actor shared.Actor, available []session.Item) (*session.Item, error) {
	for len(available) > 0 {
		idx, err := s.selector.IntN(len(available))
		if err != nil {
			return nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}
		candidate := available[idx]

		_, err = tx.Inventory().Reserve(ctx, actor.TenantID, candidate.ItemID, 1)
		if err == nil {
			return &candidate, nil
		}
		if !infra.IsKind(err, infra.KindConflict) && !infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}

		// The underlying item is gone; every snapshot entry pointing at it
		// is equally unclaimable.
		filtered := available[:0]
		for _, it := range available {
			if it.ItemID != candidate.ItemID {
				filtered = append(filtered, it)
			}
		}
		available = filtered
	}

	return nil, ErrPoolExhausted
}

// Close ends a session early. Participants who have not opened yet lose
// their turn; already-claimed items stay claimed.
func (s *sessionCommandsImpl) Close(ctx context.Context, actor shared.Actor, sessionID uuid.UUID) error {
	if !actor.IsAdmin() {
		return ErrUnauthorized
	}

	return s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Sessions().FindForUpdate(ctx, actor.TenantID, sessionID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrSessionNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if snap.Status != session.StatusActive {
			return ErrSessionClosed
		}

		if err := tx.Sessions().Close(ctx, sessionID); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func sessionToView(sess *session.Session) *queries.SessionView {
	items := make([]queries.SessionItemView, len(sess.Items()))
	for i, it := range sess.Items() {
		items[i] = queries.SessionItemView{
			ID:       it.ID,
			ItemID:   it.ItemID,
			Name:     it.Name,
			Category: it.Category,
			Claimed:  it.Claimed,
		}
	}

	participants := make([]queries.SessionParticipantView, len(sess.Participants()))
	for i, p := range sess.Participants() {
		participants[i] = queries.SessionParticipantView{
			UserID:      p.UserID,
			OpenedAt:    p.OpenedAt,
			WonItemName: p.WonItemName,
		}
	}

	return &queries.SessionView{
		ID:           sess.ID(),
		TenantID:     sess.TenantID(),
		Title:        sess.Title(),
		Status:       string(sess.Status()),
		CreatedBy:    sess.CreatedBy(),
		CreatedAt:    sess.CreatedAt(),
		Items:        items,
		Participants: participants,
	}
}
