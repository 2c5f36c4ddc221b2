//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loot-ledger/internal/domain/alliance"
	"loot-ledger/internal/infra"
	"loot-ledger/internal/pkg/clock"
	"loot-ledger/internal/usecase/commands"
)

func TestRequestAlliance(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	t.Run("creates a pending request", func(t *testing.T) {
		actor := adminActor()
		target := uuid.New()
		uow, tx := newFakeUoW()

		cmd := commands.NewAllianceCommands(uow, &fakeAllianceReads{}, clock.NewMockClock(now))
		view, err := cmd.Request(ctx, actor, target)
		require.NoError(t, err)

		assert.Equal(t, actor.TenantID, view.SenderTenant)
		assert.Equal(t, target, view.TargetTenant)
		assert.Equal(t, string(alliance.RequestPending), view.Status)
		require.NotNil(t, tx.alliances.request)
	})

	t.Run("self alliance rejected", func(t *testing.T) {
		actor := adminActor()
		uow, _ := newFakeUoW()

		cmd := commands.NewAllianceCommands(uow, &fakeAllianceReads{}, clock.NewMockClock(now))
		_, err := cmd.Request(ctx, actor, actor.TenantID)
		assert.ErrorIs(t, err, commands.ErrSelfAlliance)
	})

	t.Run("already allied pair", func(t *testing.T) {
		actor := adminActor()
		target := uuid.New()
		uow, tx := newFakeUoW()
		tx.alliances.pairs[[2]uuid.UUID{actor.TenantID, target}] = true

		cmd := commands.NewAllianceCommands(uow, &fakeAllianceReads{}, clock.NewMockClock(now))
		_, err := cmd.Request(ctx, actor, target)
		assert.ErrorIs(t, err, commands.ErrAlreadyAllied)
	})

	t.Run("known pending request blocks resubmission up front", func(t *testing.T) {
		actor := adminActor()
		target := uuid.New()
		uow, tx := newFakeUoW()
		reads := &fakeAllianceReads{pending: map[[2]uuid.UUID]bool{
			{target, actor.TenantID}: true,
		}}

		cmd := commands.NewAllianceCommands(uow, reads, clock.NewMockClock(now))
		_, err := cmd.Request(ctx, actor, target)
		assert.ErrorIs(t, err, commands.ErrAlreadyPending)
		assert.Nil(t, tx.alliances.request)
	})

	t.Run("pending duplicate in either direction", func(t *testing.T) {
		actor := adminActor()
		uow, tx := newFakeUoW()
		tx.alliances.createReqErr = infra.NewRepoErr("pending pair exists", infra.KindDuplicateKey)

		cmd := commands.NewAllianceCommands(uow, &fakeAllianceReads{}, clock.NewMockClock(now))
		_, err := cmd.Request(ctx, actor, uuid.New())
		assert.ErrorIs(t, err, commands.ErrAlreadyPending)
	})

	t.Run("only admins", func(t *testing.T) {
		uow, _ := newFakeUoW()
		cmd := commands.NewAllianceCommands(uow, &fakeAllianceReads{}, clock.NewMockClock(now))

		_, err := cmd.Request(ctx, operatorActor(), uuid.New())
		assert.ErrorIs(t, err, commands.ErrUnauthorized)
	})
}

func pendingAllianceRequest(t *testing.T, sender, target uuid.UUID) *alliance.Request {
	t.Helper()
	req, err := alliance.NewRequest(sender, target, time.Now())
	require.NoError(t, err)
	return req
}

func TestApproveAlliance(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	t.Run("approval materializes both directions", func(t *testing.T) {
		sender := uuid.New()
		actor := adminActor()
		uow, tx := newFakeUoW()
		req := pendingAllianceRequest(t, sender, actor.TenantID)
		tx.alliances.request = req

		cmd := commands.NewAllianceCommands(uow, &fakeAllianceReads{}, clock.NewMockClock(now))
		view, err := cmd.Approve(ctx, actor, req.ID())
		require.NoError(t, err)

		assert.Equal(t, string(alliance.RequestApproved), view.Status)
		assert.True(t, tx.alliances.pairs[[2]uuid.UUID{sender, actor.TenantID}])
		assert.True(t, tx.alliances.pairs[[2]uuid.UUID{actor.TenantID, sender}])
	})

	t.Run("only the target tenant decides", func(t *testing.T) {
		actor := adminActor()
		uow, tx := newFakeUoW()
		req := pendingAllianceRequest(t, actor.TenantID, uuid.New())
		tx.alliances.request = req

		cmd := commands.NewAllianceCommands(uow, &fakeAllianceReads{}, clock.NewMockClock(now))
		_, err := cmd.Approve(ctx, actor, req.ID())
		assert.ErrorIs(t, err, commands.ErrUnauthorized)
		assert.Empty(t, tx.alliances.pairs)
	})

	t.Run("decided request stays decided", func(t *testing.T) {
		actor := adminActor()
		uow, tx := newFakeUoW()
		req := pendingAllianceRequest(t, uuid.New(), actor.TenantID)
		require.NoError(t, req.Reject(now))
		tx.alliances.request = req

		cmd := commands.NewAllianceCommands(uow, &fakeAllianceReads{}, clock.NewMockClock(now))
		_, err := cmd.Approve(ctx, actor, req.ID())
		assert.ErrorIs(t, err, commands.ErrAlreadyDecided)
	})

	t.Run("unknown request", func(t *testing.T) {
		actor := adminActor()
		uow, _ := newFakeUoW()

		cmd := commands.NewAllianceCommands(uow, &fakeAllianceReads{}, clock.NewMockClock(now))
		_, err := cmd.Approve(ctx, actor, uuid.New())
		assert.ErrorIs(t, err, commands.ErrAllianceRequestNotFound)
	})
}

func TestRejectAlliance(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	actor := adminActor()

	uow, tx := newFakeUoW()
	req := pendingAllianceRequest(t, uuid.New(), actor.TenantID)
	tx.alliances.request = req

	cmd := commands.NewAllianceCommands(uow, &fakeAllianceReads{}, clock.NewMockClock(now))
	view, err := cmd.Reject(ctx, actor, req.ID())
	require.NoError(t, err)

	assert.Equal(t, string(alliance.RequestRejected), view.Status)
	assert.Empty(t, tx.alliances.pairs)
}

func TestBreakAlliance(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	t.Run("removes both directions", func(t *testing.T) {
		actor := adminActor()
		ally := uuid.New()
		uow, tx := newFakeUoW()
		tx.alliances.pairs[[2]uuid.UUID{actor.TenantID, ally}] = true
		tx.alliances.pairs[[2]uuid.UUID{ally, actor.TenantID}] = true

		cmd := commands.NewAllianceCommands(uow, &fakeAllianceReads{}, clock.NewMockClock(now))
		require.NoError(t, cmd.Break(ctx, actor, ally))
		assert.Empty(t, tx.alliances.pairs)
	})

	t.Run("no alliance to break", func(t *testing.T) {
		actor := adminActor()
		uow, _ := newFakeUoW()

		cmd := commands.NewAllianceCommands(uow, &fakeAllianceReads{}, clock.NewMockClock(now))
		err := cmd.Break(ctx, actor, uuid.New())
		assert.ErrorIs(t, err, commands.ErrAllianceNotFound)
	})
}
