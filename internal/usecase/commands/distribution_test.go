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
	"loot-ledger/internal/pkg/clock"
	"loot-ledger/internal/usecase/commands"
)

func TestAssignDirect(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	t.Run("decrements stock and appends one ledger entry", func(t *testing.T) {
		actor := operatorActor()
		uow, tx := newFakeUoW()
		itemID := tx.inventory.add(actor.TenantID, "Mythic Sword", "weapon", 5)
		recipient := uuid.New()

		cmd := commands.NewDistributionCommands(uow, &scriptedSelector{}, clock.NewMockClock(now))
		view, err := cmd.AssignDirect(ctx, actor, commands.AssignDirectInput{
			ItemID:      itemID,
			RecipientID: recipient,
			Quantity:    2,
		})
		require.NoError(t, err)

		assert.Equal(t, "Mythic Sword", view.ItemName)
		assert.Equal(t, 2, view.Quantity)
		assert.Equal(t, string(ledger.KindAssigned), view.Kind)
		assert.Equal(t, string(ledger.MethodManual), view.Method)
		require.NotNil(t, view.RecipientID)
		assert.Equal(t, recipient, *view.RecipientID)
		assert.Equal(t, now, view.OccurredAt)

		assert.Equal(t, 3, tx.inventory.stock[itemID].quantity)
		require.Len(t, tx.ledger.entries, 1)
	})

	t.Run("insufficient stock writes nothing", func(t *testing.T) {
		actor := operatorActor()
		uow, tx := newFakeUoW()
		itemID := tx.inventory.add(actor.TenantID, "Potion", "consumable", 1)

		cmd := commands.NewDistributionCommands(uow, &scriptedSelector{}, clock.NewMockClock(now))
		_, err := cmd.AssignDirect(ctx, actor, commands.AssignDirectInput{
			ItemID:      itemID,
			RecipientID: uuid.New(),
			Quantity:    3,
		})
		assert.ErrorIs(t, err, commands.ErrInsufficientStock)
		assert.Empty(t, tx.ledger.entries)
		assert.Equal(t, 1, tx.inventory.stock[itemID].quantity)
	})

	t.Run("unknown item", func(t *testing.T) {
		actor := operatorActor()
		uow, _ := newFakeUoW()

		cmd := commands.NewDistributionCommands(uow, &scriptedSelector{}, clock.NewMockClock(now))
		_, err := cmd.AssignDirect(ctx, actor, commands.AssignDirectInput{
			ItemID:      uuid.New(),
			RecipientID: uuid.New(),
			Quantity:    1,
		})
		assert.ErrorIs(t, err, commands.ErrItemNotFound)
	})

	t.Run("viewer cannot assign", func(t *testing.T) {
		uow, _ := newFakeUoW()
		cmd := commands.NewDistributionCommands(uow, &scriptedSelector{}, clock.NewMockClock(now))

		_, err := cmd.AssignDirect(ctx, viewerActor(), commands.AssignDirectInput{
			ItemID:      uuid.New(),
			RecipientID: uuid.New(),
			Quantity:    1,
		})
		assert.ErrorIs(t, err, commands.ErrUnauthorized)
	})
}

func TestWithdraw(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	actor := adminActor()

	uow, tx := newFakeUoW()
	itemID := tx.inventory.add(actor.TenantID, "Old Banner", "decor", 4)

	cmd := commands.NewDistributionCommands(uow, &scriptedSelector{}, clock.NewMockClock(now))
	view, err := cmd.Withdraw(ctx, actor, commands.WithdrawInput{ItemID: itemID, Quantity: 4})
	require.NoError(t, err)

	assert.Equal(t, string(ledger.KindWithdrawn), view.Kind)
	assert.Equal(t, string(ledger.MethodWithdrawal), view.Method)
	assert.Nil(t, view.RecipientID)
	assert.Equal(t, 0, tx.inventory.stock[itemID].quantity)
}

func TestDrawGiveaway(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	t.Run("pick recipient draws a winner from candidates", func(t *testing.T) {
		actor := operatorActor()
		uow, tx := newFakeUoW()
		itemID := tx.inventory.add(actor.TenantID, "Rare Mount", "mount", 1)
		candidates := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

		cmd := commands.NewDistributionCommands(uow, &scriptedSelector{indices: []int{2}}, clock.NewMockClock(now))
		view, err := cmd.DrawGiveaway(ctx, actor, commands.DrawGiveawayInput{
			Mode:         commands.ModePickRecipient,
			ItemIDs:      []uuid.UUID{itemID},
			CandidateIDs: candidates,
		})
		require.NoError(t, err)

		require.NotNil(t, view.RecipientID)
		assert.Equal(t, candidates[2], *view.RecipientID)
		assert.Equal(t, string(ledger.KindGiveaway), view.Kind)
		assert.Equal(t, string(ledger.MethodGiveawayRoll), view.Method)
		assert.Equal(t, 0, tx.inventory.stock[itemID].quantity)
	})

	t.Run("pick item skips depleted items and settles on a claimable one", func(t *testing.T) {
		actor := operatorActor()
		uow, tx := newFakeUoW()
		empty := tx.inventory.add(actor.TenantID, "Gone", "misc", 0)
		full := tx.inventory.add(actor.TenantID, "Left", "misc", 1)
		recipient := uuid.New()

		// First draw lands on the depleted item; it is excluded and the
		// second draw must settle on the remaining one.
		cmd := commands.NewDistributionCommands(uow, &scriptedSelector{indices: []int{0, 0}}, clock.NewMockClock(now))
		view, err := cmd.DrawGiveaway(ctx, actor, commands.DrawGiveawayInput{
			Mode:         commands.ModePickItem,
			ItemIDs:      []uuid.UUID{empty, full},
			CandidateIDs: []uuid.UUID{recipient},
		})
		require.NoError(t, err)

		assert.Equal(t, "Left", view.ItemName)
		assert.Equal(t, 0, tx.inventory.stock[full].quantity)
	})

	t.Run("pool exhausted when every item is depleted", func(t *testing.T) {
		actor := operatorActor()
		uow, tx := newFakeUoW()
		a := tx.inventory.add(actor.TenantID, "A", "misc", 0)
		b := tx.inventory.add(actor.TenantID, "B", "misc", 0)

		cmd := commands.NewDistributionCommands(uow, &scriptedSelector{indices: []int{0, 0}}, clock.NewMockClock(now))
		_, err := cmd.DrawGiveaway(ctx, actor, commands.DrawGiveawayInput{
			Mode:         commands.ModePickItem,
			ItemIDs:      []uuid.UUID{a, b},
			CandidateIDs: []uuid.UUID{uuid.New()},
		})
		assert.ErrorIs(t, err, commands.ErrPoolExhausted)
		assert.Empty(t, tx.ledger.entries)
	})

	t.Run("empty pools rejected up front", func(t *testing.T) {
		actor := operatorActor()
		uow, _ := newFakeUoW()
		cmd := commands.NewDistributionCommands(uow, &scriptedSelector{}, clock.NewMockClock(now))

		_, err := cmd.DrawGiveaway(ctx, actor, commands.DrawGiveawayInput{
			Mode:         commands.ModePickRecipient,
			ItemIDs:      []uuid.UUID{uuid.New()},
			CandidateIDs: nil,
		})
		assert.ErrorIs(t, err, commands.ErrEmptyPool)
	})

	t.Run("pick recipient takes exactly one item", func(t *testing.T) {
		actor := operatorActor()
		uow, _ := newFakeUoW()
		cmd := commands.NewDistributionCommands(uow, &scriptedSelector{}, clock.NewMockClock(now))

		_, err := cmd.DrawGiveaway(ctx, actor, commands.DrawGiveawayInput{
			Mode:         commands.ModePickRecipient,
			ItemIDs:      []uuid.UUID{uuid.New(), uuid.New()},
			CandidateIDs: []uuid.UUID{uuid.New()},
		})
		assert.ErrorIs(t, err, commands.ErrDomainValidation)
	})
}
