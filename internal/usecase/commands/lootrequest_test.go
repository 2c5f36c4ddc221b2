//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loot-ledger/internal/domain/ledger"
	"loot-ledger/internal/domain/lootrequest"
	"loot-ledger/internal/pkg/clock"
	"loot-ledger/internal/usecase/commands"
	"loot-ledger/internal/usecase/queries"
)

func TestSubmitRequest(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	newReads := func(view *queries.ItemView) (*fakeInventoryReads, *fakeAllianceReads) {
		inv := &fakeInventoryReads{items: map[uuid.UUID]*queries.ItemView{}}
		if view != nil {
			inv.items[view.ID] = view
		}
		return inv, &fakeAllianceReads{visible: map[[2]uuid.UUID]bool{}}
	}

	t.Run("snapshots item name and category", func(t *testing.T) {
		actor := viewerActor()
		uow, tx := newFakeUoW()
		item := &queries.ItemView{ID: uuid.New(), TenantID: actor.TenantID, Name: "Shield", Category: "armor", Quantity: 3}
		inv, allies := newReads(item)

		cmd := commands.NewRequestCommands(uow, inv, allies, clock.NewMockClock(now))
		view, err := cmd.Submit(ctx, actor, commands.SubmitRequestInput{
			TenantID: actor.TenantID,
			ItemID:   item.ID,
			Quantity: 2,
		})
		require.NoError(t, err)

		assert.Equal(t, "Shield", view.ItemName)
		assert.Equal(t, "armor", view.Category)
		assert.Equal(t, string(lootrequest.StatusPending), view.Status)
		assert.Equal(t, actor.MemberID, view.UserID)
		require.Len(t, tx.requests.created, 1)
	})

	t.Run("cross-tenant requires an alliance", func(t *testing.T) {
		actor := viewerActor()
		otherTenant := uuid.New()
		uow, _ := newFakeUoW()
		item := &queries.ItemView{ID: uuid.New(), TenantID: otherTenant, Name: "Shield", Category: "armor"}
		inv, allies := newReads(item)

		cmd := commands.NewRequestCommands(uow, inv, allies, clock.NewMockClock(now))
		_, err := cmd.Submit(ctx, actor, commands.SubmitRequestInput{
			TenantID: otherTenant,
			ItemID:   item.ID,
			Quantity: 1,
		})
		assert.ErrorIs(t, err, commands.ErrUnauthorized)

		// With the alliance in place the same submission lands.
		allies.visible[[2]uuid.UUID{actor.TenantID, otherTenant}] = true
		view, err := cmd.Submit(ctx, actor, commands.SubmitRequestInput{
			TenantID: otherTenant,
			ItemID:   item.ID,
			Quantity: 1,
		})
		require.NoError(t, err)
		assert.Equal(t, otherTenant, view.TenantID)
	})

	t.Run("unknown item", func(t *testing.T) {
		actor := viewerActor()
		uow, _ := newFakeUoW()
		inv, allies := newReads(nil)

		cmd := commands.NewRequestCommands(uow, inv, allies, clock.NewMockClock(now))
		_, err := cmd.Submit(ctx, actor, commands.SubmitRequestInput{
			TenantID: actor.TenantID,
			ItemID:   uuid.New(),
			Quantity: 1,
		})
		assert.ErrorIs(t, err, commands.ErrItemNotFound)
	})
}

func newPendingRequest(t *testing.T, tenantID uuid.UUID, itemID uuid.UUID, qty int) *lootrequest.Request {
	t.Helper()
	req, err := lootrequest.NewRequest(tenantID, uuid.New(), itemID, "Shield", "armor", qty, time.Now())
	require.NoError(t, err)
	return req
}

func TestApproveRequest(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	t.Run("approval reserves stock and logs the assignment", func(t *testing.T) {
		actor := adminActor()
		uow, tx := newFakeUoW()
		itemID := tx.inventory.add(actor.TenantID, "Shield", "armor", 5)
		req := newPendingRequest(t, actor.TenantID, itemID, 2)
		tx.requests.request = req

		cmd := commands.NewRequestCommands(uow, nil, nil, clock.NewMockClock(now))
		view, err := cmd.Approve(ctx, actor, req.ID())
		require.NoError(t, err)

		assert.Equal(t, string(lootrequest.StatusApproved), view.Status)
		require.NotNil(t, view.DecidedBy)
		assert.Equal(t, actor.MemberID, *view.DecidedBy)
		assert.Equal(t, 3, tx.inventory.stock[itemID].quantity)

		require.Len(t, tx.ledger.entries, 1)
		entry := tx.ledger.entries[0]
		assert.Equal(t, ledger.KindAssigned, entry.Kind())
		assert.Equal(t, ledger.MethodRequestApproval, entry.Method())
		require.NotNil(t, entry.RecipientID())
		assert.Equal(t, req.UserID(), *entry.RecipientID())
	})

	t.Run("insufficient stock leaves the request pending", func(t *testing.T) {
		actor := adminActor()
		uow, tx := newFakeUoW()
		itemID := tx.inventory.add(actor.TenantID, "Shield", "armor", 1)
		req := newPendingRequest(t, actor.TenantID, itemID, 5)
		tx.requests.request = req

		cmd := commands.NewRequestCommands(uow, nil, nil, clock.NewMockClock(now))
		_, err := cmd.Approve(ctx, actor, req.ID())
		assert.ErrorIs(t, err, commands.ErrInsufficientStock)

		// No decision persisted, no ledger entry, stock untouched.
		assert.Nil(t, tx.requests.savedDecision)
		assert.Empty(t, tx.ledger.entries)
		assert.Equal(t, 1, tx.inventory.stock[itemID].quantity)
	})

	t.Run("decided request cannot be approved again", func(t *testing.T) {
		actor := adminActor()
		uow, tx := newFakeUoW()
		itemID := tx.inventory.add(actor.TenantID, "Shield", "armor", 5)
		req := newPendingRequest(t, actor.TenantID, itemID, 1)
		require.NoError(t, req.Reject(uuid.New(), "no", now))
		tx.requests.request = req

		cmd := commands.NewRequestCommands(uow, nil, nil, clock.NewMockClock(now))
		_, err := cmd.Approve(ctx, actor, req.ID())
		assert.ErrorIs(t, err, commands.ErrAlreadyProcessed)
	})

	t.Run("only admins decide", func(t *testing.T) {
		uow, _ := newFakeUoW()
		cmd := commands.NewRequestCommands(uow, nil, nil, clock.NewMockClock(now))

		_, err := cmd.Approve(ctx, operatorActor(), uuid.New())
		assert.ErrorIs(t, err, commands.ErrUnauthorized)
	})
}

func TestRejectRequest(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	t.Run("rejection records the reason without touching stock", func(t *testing.T) {
		actor := adminActor()
		uow, tx := newFakeUoW()
		itemID := tx.inventory.add(actor.TenantID, "Shield", "armor", 5)
		req := newPendingRequest(t, actor.TenantID, itemID, 2)
		tx.requests.request = req

		cmd := commands.NewRequestCommands(uow, nil, nil, clock.NewMockClock(now))
		view, err := cmd.Reject(ctx, actor, req.ID(), "reserved for raid night")
		require.NoError(t, err)

		assert.Equal(t, string(lootrequest.StatusRejected), view.Status)
		require.NotNil(t, view.DenialReason)
		assert.Equal(t, "reserved for raid night", *view.DenialReason)
		assert.Equal(t, 5, tx.inventory.stock[itemID].quantity)
		assert.Empty(t, tx.ledger.entries)
	})

	t.Run("empty reason is a validation error", func(t *testing.T) {
		actor := adminActor()
		uow, tx := newFakeUoW()
		req := newPendingRequest(t, actor.TenantID, uuid.New(), 2)
		tx.requests.request = req

		cmd := commands.NewRequestCommands(uow, nil, nil, clock.NewMockClock(now))
		_, err := cmd.Reject(ctx, actor, req.ID(), "   ")
		assert.ErrorIs(t, err, commands.ErrDomainValidation)
		assert.True(t, req.IsPending())
	})
}
