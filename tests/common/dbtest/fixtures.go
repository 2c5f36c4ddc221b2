//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"loot-ledger/internal/pkg/password"
)

// TestPassword is the plaintext every seeded member logs in with.
const TestPassword = "testpass123"

func CreateTestTenant(t *testing.T, db DBLike, name string) uuid.UUID {
	t.Helper()

	tenantID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx, "INSERT INTO tenants (id, name) VALUES ($1, $2)", tenantID, name)
	require.NoError(t, err)

	return tenantID
}

func CreateTestMember(t *testing.T, db DBLike, tenantID uuid.UUID, email, role string) uuid.UUID {
	t.Helper()

	memberID := uuid.New()
	ctx := context.Background()

	hash, err := password.HashPassword(TestPassword)
	require.NoError(t, err)

	tag, err := db.Exec(ctx,
		"INSERT INTO members (id, tenant_id, email, password_hash, role, is_active) VALUES ($1, $2, $3, $4, $5, true) ON CONFLICT (email) DO NOTHING",
		memberID, tenantID, email, hash, role)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM members WHERE email = $1", email).Scan(&memberID)
	}

	return memberID
}

func CreateTestItem(t *testing.T, db DBLike, tenantID uuid.UUID, name, category string, quantity int) uuid.UUID {
	t.Helper()

	itemID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx,
		"INSERT INTO inventory_items (id, tenant_id, name, category, quantity) VALUES ($1, $2, $3, $4, $5)",
		itemID, tenantID, name, category, quantity)
	require.NoError(t, err)

	return itemID
}

// inserts basic reference data needed by tests
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO tenants (id, name) VALUES
		    (gen_random_uuid(), 'Default Guild'),
		    (gen_random_uuid(), 'Allied Guild')
		ON CONFLICT DO NOTHING;
	`)
	if err != nil {
		return err
	}

	return nil
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}
