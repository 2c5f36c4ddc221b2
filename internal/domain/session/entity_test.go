//go:build unit

package session_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loot-ledger/internal/domain/session"
)

func poolOf(names ...string) []session.Item {
	items := make([]session.Item, len(names))
	for i, n := range names {
		items[i] = session.Item{ItemID: uuid.New(), Name: n, Category: "misc"}
	}
	return items
}

func TestNewSession(t *testing.T) {
	tenantID := uuid.New()
	creator := uuid.New()
	now := time.Now()

	t.Run("snapshots items by value with fresh ids", func(t *testing.T) {
		source := poolOf("Crate A", "Crate B")
		participants := []uuid.UUID{uuid.New(), uuid.New()}

		sess, err := session.NewSession(tenantID, "Friday drop", source, participants, creator, now)
		require.NoError(t, err)

		assert.Equal(t, session.StatusActive, sess.Status())
		require.Len(t, sess.Items(), 2)
		for i, it := range sess.Items() {
			assert.NotEqual(t, uuid.Nil, it.ID)
			assert.Equal(t, source[i].ItemID, it.ItemID)
			assert.False(t, it.Claimed)
		}
		require.Len(t, sess.Participants(), 2)
		for _, p := range sess.Participants() {
			assert.Equal(t, sess.ID(), p.SessionID)
			assert.False(t, p.Opened())
		}
	})

	t.Run("validation", func(t *testing.T) {
		_, err := session.NewSession(tenantID, "  ", poolOf("A"), []uuid.UUID{uuid.New()}, creator, now)
		assert.ErrorIs(t, err, session.ErrEmptyTitle)

		_, err = session.NewSession(tenantID, "drop", nil, []uuid.UUID{uuid.New()}, creator, now)
		assert.ErrorIs(t, err, session.ErrNoItems)

		_, err = session.NewSession(tenantID, "drop", poolOf("A"), nil, creator, now)
		assert.ErrorIs(t, err, session.ErrNoParticipants)

		dup := uuid.New()
		_, err = session.NewSession(tenantID, "drop", poolOf("A"), []uuid.UUID{dup, dup}, creator, now)
		assert.ErrorIs(t, err, session.ErrDuplicateUser)
	})
}

func TestParticipantClaim(t *testing.T) {
	p := session.Participant{SessionID: uuid.New(), UserID: uuid.New()}
	now := time.Now()

	require.NoError(t, p.Claim("Crate A", now))
	assert.True(t, p.Opened())
	require.NotNil(t, p.WonItemName)
	assert.Equal(t, "Crate A", *p.WonItemName)

	// Exactly once: the second claim fails regardless of the item
	assert.ErrorIs(t, p.Claim("Crate B", now), session.ErrAlreadyClaimed)
	assert.Equal(t, "Crate A", *p.WonItemName)
}
