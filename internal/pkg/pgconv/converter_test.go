//go:build unit

package pgconv_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"

	"loot-ledger/internal/pkg/pgconv"
)

func TestIsNoRows(t *testing.T) {
	assert.True(t, pgconv.IsNoRows(pgx.ErrNoRows))
	assert.True(t, pgconv.IsNoRows(sql.ErrNoRows))
	assert.True(t, pgconv.IsNoRows(fmt.Errorf("scan: %w", pgx.ErrNoRows)))

	assert.False(t, pgconv.IsNoRows(nil))
	assert.False(t, pgconv.IsNoRows(errors.New("connection reset")))
}
