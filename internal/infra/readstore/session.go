package readstore

import (
	"context"

	"github.com/google/uuid"

	"loot-ledger/internal/infra"
	"loot-ledger/internal/infra/db"
	"loot-ledger/internal/pkg/pgconv"
	"loot-ledger/internal/usecase/queries"
)

type SessionReadStore struct {
	dbtx db.DBTX
}

func NewSessionReadStore(dbtx db.DBTX) *SessionReadStore {
	return &SessionReadStore{dbtx: dbtx}
}

func (r *SessionReadStore) FindByID(ctx context.Context, tenantID, sessionID uuid.UUID) (*queries.SessionView, error) {
	const header = `
		SELECT id, tenant_id, title, status, created_by, created_at
		FROM loot_sessions
		WHERE id = $1 AND tenant_id = $2`

	view := &queries.SessionView{}
	err := r.dbtx.QueryRow(ctx, header, sessionID, tenantID).Scan(
		&view.ID, &view.TenantID, &view.Title, &view.Status, &view.CreatedBy, &view.CreatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("loot session not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find loot session", err)
	}

	items, err := r.listItems(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	view.Items = items

	participants, err := r.listParticipants(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	view.Participants = participants

	return view, nil
}

func (r *SessionReadStore) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*queries.SessionView, error) {
	const q = `
		SELECT id, tenant_id, title, status, created_by, created_at
		FROM loot_sessions
		WHERE tenant_id = $1
		ORDER BY created_at DESC`

	rows, err := r.dbtx.Query(ctx, q, tenantID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list loot sessions", err)
	}
	defer rows.Close()

	var result []*queries.SessionView
	for rows.Next() {
		view := &queries.SessionView{}
		if err := rows.Scan(
			&view.ID, &view.TenantID, &view.Title, &view.Status, &view.CreatedBy, &view.CreatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan loot session", err)
		}
		result = append(result, view)
	}
	if rows.Err() != nil {
		return nil, infra.WrapRepoErr("failed to read loot session rows", rows.Err())
	}

	return result, nil
}

func (r *SessionReadStore) listItems(ctx context.Context, sessionID uuid.UUID) ([]queries.SessionItemView, error) {
	const q = `
		SELECT id, item_id, name, category, claimed
		FROM session_items
		WHERE session_id = $1
		ORDER BY name`

	rows, err := r.dbtx.Query(ctx, q, sessionID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list session items", err)
	}
	defer rows.Close()

	var items []queries.SessionItemView
	for rows.Next() {
		var it queries.SessionItemView
		if err := rows.Scan(&it.ID, &it.ItemID, &it.Name, &it.Category, &it.Claimed); err != nil {
			return nil, infra.WrapRepoErr("failed to scan session item", err)
		}
		items = append(items, it)
	}
	if rows.Err() != nil {
		return nil, infra.WrapRepoErr("failed to read session item rows", rows.Err())
	}

	return items, nil
}

func (r *SessionReadStore) listParticipants(ctx context.Context, sessionID uuid.UUID) ([]queries.SessionParticipantView, error) {
	const q = `
		SELECT user_id, opened_at, won_item_name
		FROM session_participants
		WHERE session_id = $1
		ORDER BY user_id`

	rows, err := r.dbtx.Query(ctx, q, sessionID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list session participants", err)
	}
	defer rows.Close()

	var participants []queries.SessionParticipantView
	for rows.Next() {
		var p queries.SessionParticipantView
		if err := rows.Scan(&p.UserID, &p.OpenedAt, &p.WonItemName); err != nil {
			return nil, infra.WrapRepoErr("failed to scan session participant", err)
		}
		participants = append(participants, p)
	}
	if rows.Err() != nil {
		return nil, infra.WrapRepoErr("failed to read session participant rows", rows.Err())
	}

	return participants, nil
}
