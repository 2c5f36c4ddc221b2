//go:build unit

package inventory_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loot-ledger/internal/domain/inventory"
)

func TestNewItem(t *testing.T) {
	tenantID := uuid.New()
	now := time.Now()

	t.Run("valid item", func(t *testing.T) {
		item, err := inventory.NewItem(tenantID, "  Mythic Sword  ", "weapon", 5, nil, now)
		require.NoError(t, err)
		assert.Equal(t, "Mythic Sword", item.Name())
		assert.Equal(t, "weapon", item.Category())
		assert.Equal(t, 5, item.Quantity())
		assert.NotEqual(t, uuid.Nil, item.ID())
	})

	t.Run("zero quantity is allowed", func(t *testing.T) {
		item, err := inventory.NewItem(tenantID, "Ticket", "", 0, nil, now)
		require.NoError(t, err)
		assert.True(t, item.Exhausted())
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := inventory.NewItem(tenantID, "   ", "weapon", 1, nil, now)
		assert.ErrorIs(t, err, inventory.ErrEmptyName)
	})

	t.Run("negative quantity", func(t *testing.T) {
		_, err := inventory.NewItem(tenantID, "Sword", "weapon", -1, nil, now)
		assert.ErrorIs(t, err, inventory.ErrNegativeQuantity)
	})
}

func TestItemReduce(t *testing.T) {
	tenantID := uuid.New()
	now := time.Now()

	t.Run("reduce within stock", func(t *testing.T) {
		item, err := inventory.NewItem(tenantID, "Potion", "consumable", 3, nil, now)
		require.NoError(t, err)

		require.NoError(t, item.Reduce(2))
		assert.Equal(t, 1, item.Quantity())
		assert.False(t, item.Exhausted())

		require.NoError(t, item.Reduce(1))
		assert.True(t, item.Exhausted())
	})

	t.Run("quantity never goes negative", func(t *testing.T) {
		item, err := inventory.NewItem(tenantID, "Potion", "consumable", 2, nil, now)
		require.NoError(t, err)

		err = item.Reduce(3)
		assert.ErrorIs(t, err, inventory.ErrInsufficientStock)
		assert.Equal(t, 2, item.Quantity())
	})

	t.Run("non-positive reduction rejected", func(t *testing.T) {
		item, err := inventory.NewItem(tenantID, "Potion", "consumable", 2, nil, now)
		require.NoError(t, err)

		assert.ErrorIs(t, item.Reduce(0), inventory.ErrInvalidQuantity)
		assert.ErrorIs(t, item.Reduce(-1), inventory.ErrInvalidQuantity)
	})
}

func TestParseExhaustionPolicy(t *testing.T) {
	p, err := inventory.ParseExhaustionPolicy("keep_at_zero")
	require.NoError(t, err)
	assert.Equal(t, inventory.KeepAtZero, p)

	p, err = inventory.ParseExhaustionPolicy("delete_at_zero")
	require.NoError(t, err)
	assert.Equal(t, inventory.DeleteAtZero, p)

	_, err = inventory.ParseExhaustionPolicy("purge")
	assert.Error(t, err)
}
