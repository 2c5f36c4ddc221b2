package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"loot-ledger/internal/domain/session"
	"loot-ledger/internal/infra"
	"loot-ledger/internal/infra/db"
	"loot-ledger/internal/pkg/pgconv"
	"loot-ledger/internal/usecase/shared"
)

type SessionRepository struct {
	dbtx db.DBTX
}

func NewSessionRepository(dbtx db.DBTX) *SessionRepository {
	return &SessionRepository{dbtx: dbtx}
}

// Create persists the session header plus its by-value item snapshot and
// participant list in one shot. All rows share the caller's transaction.
func (r *SessionRepository) Create(ctx context.Context, s *session.Session) (uuid.UUID, error) {
	const header = `
		INSERT INTO loot_sessions (id, tenant_id, title, status, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	if _, err := r.dbtx.Exec(ctx, header,
		s.ID(), s.TenantID(), s.Title(), string(s.Status()), s.CreatedBy(), s.CreatedAt(),
	); err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create loot session", err)
	}

	const item = `
		INSERT INTO session_items (id, session_id, item_id, name, category, claimed)
		VALUES ($1, $2, $3, $4, $5, false)`
	for _, it := range s.Items() {
		if _, err := r.dbtx.Exec(ctx, item, it.ID, s.ID(), it.ItemID, it.Name, it.Category); err != nil {
			return uuid.Nil, infra.WrapRepoErr("failed to snapshot session item", err)
		}
	}

	const participant = `
		INSERT INTO session_participants (session_id, user_id)
		VALUES ($1, $2)`
	for _, p := range s.Participants() {
		if _, err := r.dbtx.Exec(ctx, participant, s.ID(), p.UserID); err != nil {
			return uuid.Nil, infra.WrapRepoErr("failed to add session participant", err)
		}
	}

	return s.ID(), nil
}

func (r *SessionRepository) FindForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*shared.SessionSnapshot, error) {
	const q = `
		SELECT id, tenant_id, title, status
		FROM loot_sessions
		WHERE id = $1 AND tenant_id = $2
		FOR UPDATE`

	snap := &shared.SessionSnapshot{}
	var status string
	err := r.dbtx.QueryRow(ctx, q, id, tenantID).Scan(&snap.ID, &snap.TenantID, &snap.Title, &status)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("loot session not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find loot session", err)
	}
	snap.Status = session.Status(status)

	return snap, nil
}

func (r *SessionRepository) FindParticipantForUpdate(ctx context.Context, sessionID, userID uuid.UUID) (*session.Participant, error) {
	const q = `
		SELECT session_id, user_id, opened_at, won_item_name
		FROM session_participants
		WHERE session_id = $1 AND user_id = $2
		FOR UPDATE`

	p := &session.Participant{}
	err := r.dbtx.QueryRow(ctx, q, sessionID, userID).
		Scan(&p.SessionID, &p.UserID, &p.OpenedAt, &p.WonItemName)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("session participant not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find session participant", err)
	}

	return p, nil
}

func (r *SessionRepository) AvailableItems(ctx context.Context, sessionID uuid.UUID) ([]session.Item, error) {
	const q = `
		SELECT id, item_id, name, category
		FROM session_items
		WHERE session_id = $1 AND claimed = false
		ORDER BY id`

	rows, err := r.dbtx.Query(ctx, q, sessionID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list available session items", err)
	}
	defer rows.Close()

	var items []session.Item
	for rows.Next() {
		var it session.Item
		if err := rows.Scan(&it.ID, &it.ItemID, &it.Name, &it.Category); err != nil {
			return nil, infra.WrapRepoErr("failed to scan session item", err)
		}
		items = append(items, it)
	}
	if rows.Err() != nil {
		return nil, infra.WrapRepoErr("failed to read session items", rows.Err())
	}

	return items, nil
}

func (r *SessionRepository) MarkItemClaimed(ctx context.Context, snapshotItemID, userID uuid.UUID) error {
	const q = `
		UPDATE session_items
		SET claimed = true, claimed_by = $2
		WHERE id = $1 AND claimed = false`

	tag, err := r.dbtx.Exec(ctx, q, snapshotItemID, userID)
	if err != nil {
		return infra.WrapRepoErr("failed to mark session item claimed", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr("session item already claimed", infra.KindConflict)
	}

	return nil
}

// MarkOpened sets opened_at and won_item_name together, at most once. The
// opened_at IS NULL guard is the at-most-once claim invariant.
func (r *SessionRepository) MarkOpened(ctx context.Context, sessionID, userID uuid.UUID, wonItemName string, openedAt time.Time) error {
	const q = `
		UPDATE session_participants
		SET opened_at = $3, won_item_name = $4
		WHERE session_id = $1 AND user_id = $2 AND opened_at IS NULL`

	tag, err := r.dbtx.Exec(ctx, q, sessionID, userID, openedAt, wonItemName)
	if err != nil {
		return infra.WrapRepoErr("failed to mark participant opened", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr("participant already opened", infra.KindConflict)
	}

	return nil
}

func (r *SessionRepository) CountUnopened(ctx context.Context, sessionID uuid.UUID) (int, error) {
	const q = `
		SELECT COUNT(*)
		FROM session_participants
		WHERE session_id = $1 AND opened_at IS NULL`

	var n int
	if err := r.dbtx.QueryRow(ctx, q, sessionID).Scan(&n); err != nil {
		return 0, infra.WrapRepoErr("failed to count unopened participants", err)
	}

	return n, nil
}

func (r *SessionRepository) Close(ctx context.Context, sessionID uuid.UUID) error {
	const q = `UPDATE loot_sessions SET status = 'CLOSED' WHERE id = $1`

	if _, err := r.dbtx.Exec(ctx, q, sessionID); err != nil {
		return infra.WrapRepoErr("failed to close loot session", err)
	}

	return nil
}
