//go:build unit

package alliance_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loot-ledger/internal/domain/alliance"
)

func TestNewRequest(t *testing.T) {
	sender := uuid.New()
	target := uuid.New()

	req, err := alliance.NewRequest(sender, target, time.Now())
	require.NoError(t, err)
	assert.True(t, req.IsPending())

	_, err = alliance.NewRequest(sender, sender, time.Now())
	assert.ErrorIs(t, err, alliance.ErrSelfAlliance)
}

func TestDecisionsAreOneWay(t *testing.T) {
	req, err := alliance.NewRequest(uuid.New(), uuid.New(), time.Now())
	require.NoError(t, err)

	require.NoError(t, req.Approve(time.Now()))
	assert.Equal(t, alliance.RequestApproved, req.Status())
	assert.NotNil(t, req.DecidedAt())

	assert.ErrorIs(t, req.Approve(time.Now()), alliance.ErrAlreadyDecided)
	assert.ErrorIs(t, req.Reject(time.Now()), alliance.ErrAlreadyDecided)
}

func TestMaterializeIsSymmetric(t *testing.T) {
	sender := uuid.New()
	target := uuid.New()
	req, err := alliance.NewRequest(sender, target, time.Now())
	require.NoError(t, err)

	pairs := req.Materialize()
	assert.Equal(t, alliance.Pair{TenantID: sender, AllyID: target}, pairs[0])
	assert.Equal(t, alliance.Pair{TenantID: target, AllyID: sender}, pairs[1])
}
