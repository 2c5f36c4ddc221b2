//go:build unit

package ledger_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loot-ledger/internal/domain/ledger"
)

func TestNewEntry(t *testing.T) {
	tenantID := uuid.New()
	recipient := uuid.New()
	actor := uuid.New()
	now := time.Now()

	t.Run("valid entry", func(t *testing.T) {
		entry, err := ledger.NewEntry(tenantID, &recipient, "Sword", "weapon", 1,
			ledger.KindAssigned, ledger.MethodManual, &actor, now)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, entry.ID())
		assert.Equal(t, ledger.KindAssigned, entry.Kind())
	})

	t.Run("withdrawal has no recipient", func(t *testing.T) {
		entry, err := ledger.NewEntry(tenantID, nil, "Sword", "weapon", 2,
			ledger.KindWithdrawn, ledger.MethodWithdrawal, &actor, now)
		require.NoError(t, err)
		assert.Nil(t, entry.RecipientID())
	})

	t.Run("rejects empty item name", func(t *testing.T) {
		_, err := ledger.NewEntry(tenantID, &recipient, "  ", "weapon", 1,
			ledger.KindAssigned, ledger.MethodManual, &actor, now)
		assert.ErrorIs(t, err, ledger.ErrEmptyItemName)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := ledger.NewEntry(tenantID, &recipient, "Sword", "weapon", 0,
			ledger.KindAssigned, ledger.MethodManual, &actor, now)
		assert.ErrorIs(t, err, ledger.ErrInvalidQuantity)
	})

	t.Run("rejects unknown kind and method", func(t *testing.T) {
		_, err := ledger.NewEntry(tenantID, &recipient, "Sword", "weapon", 1,
			ledger.Kind("LOST"), ledger.MethodManual, &actor, now)
		assert.ErrorIs(t, err, ledger.ErrInvalidKind)

		_, err = ledger.NewEntry(tenantID, &recipient, "Sword", "weapon", 1,
			ledger.KindAssigned, ledger.Method("AUCTION"), &actor, now)
		assert.ErrorIs(t, err, ledger.ErrInvalidMethod)
	})
}

func TestParseKindAndMethod(t *testing.T) {
	for _, s := range []string{"ASSIGNED", "GIVEAWAY", "WITHDRAWN"} {
		_, err := ledger.ParseKind(s)
		assert.NoError(t, err, s)
	}
	_, err := ledger.ParseKind("assigned")
	assert.ErrorIs(t, err, ledger.ErrInvalidKind)

	for _, s := range []string{"MANUAL", "REQUEST_APPROVAL", "GIVEAWAY_ROLL", "CRATE_OPENING", "WITHDRAWAL"} {
		_, err := ledger.ParseMethod(s)
		assert.NoError(t, err, s)
	}
	_, err = ledger.ParseMethod("TRADE")
	assert.ErrorIs(t, err, ledger.ErrInvalidMethod)
}
