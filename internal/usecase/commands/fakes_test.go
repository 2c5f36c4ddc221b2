//go:build unit

package commands_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"loot-ledger/internal/domain/alliance"
	"loot-ledger/internal/domain/inventory"
	"loot-ledger/internal/domain/ledger"
	"loot-ledger/internal/domain/lootrequest"
	"loot-ledger/internal/domain/member"
	"loot-ledger/internal/domain/session"
	"loot-ledger/internal/infra"
	"loot-ledger/internal/infra/db"
	"loot-ledger/internal/usecase/queries"
	"loot-ledger/internal/usecase/shared"
)

// In-memory doubles for the transactional repositories. They reproduce the
// guarded-write contract of the real Postgres layer: conditional updates that
// match no row surface as KindConflict, missing rows as KindNotFound.

func adminActor() shared.Actor {
	return shared.Actor{MemberID: uuid.New(), TenantID: uuid.New(), Role: member.RoleAdmin}
}

func operatorActor() shared.Actor {
	return shared.Actor{MemberID: uuid.New(), TenantID: uuid.New(), Role: member.RoleOperator}
}

func viewerActor() shared.Actor {
	return shared.Actor{MemberID: uuid.New(), TenantID: uuid.New(), Role: member.RoleViewer}
}

type fakeUoW struct {
	tx *fakeTx
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, u.tx)
}

func (u *fakeUoW) WithinReadOnly(context.Context, func(context.Context, db.DBTX) error) error {
	panic("not used in command tests")
}

type fakeTx struct {
	inventory *fakeInventoryRepo
	ledger    *fakeLedgerRepo
	requests  *fakeRequestRepo
	sessions  *fakeSessionRepo
	alliances *fakeAllianceRepo
}

func newFakeTx() *fakeTx {
	return &fakeTx{
		inventory: &fakeInventoryRepo{stock: map[uuid.UUID]*stockRow{}},
		ledger:    &fakeLedgerRepo{},
		requests:  &fakeRequestRepo{},
		sessions:  &fakeSessionRepo{},
		alliances: &fakeAllianceRepo{pairs: map[[2]uuid.UUID]bool{}},
	}
}

func newFakeUoW() (*fakeUoW, *fakeTx) {
	tx := newFakeTx()
	return &fakeUoW{tx: tx}, tx
}

func (t *fakeTx) Inventory() shared.InventoryRepository { return t.inventory }
func (t *fakeTx) Ledger() shared.LedgerRepository       { return t.ledger }
func (t *fakeTx) Requests() shared.RequestRepository    { return t.requests }
func (t *fakeTx) Sessions() shared.SessionRepository    { return t.sessions }
func (t *fakeTx) Alliances() shared.AllianceRepository  { return t.alliances }
func (t *fakeTx) Members() shared.MemberRepository      { return nil }
func (t *fakeTx) DB() db.DBTX                           { return nil }

type stockRow struct {
	tenantID uuid.UUID
	name     string
	category string
	quantity int
}

type fakeInventoryRepo struct {
	stock map[uuid.UUID]*stockRow
}

func (r *fakeInventoryRepo) add(tenantID uuid.UUID, name, category string, qty int) uuid.UUID {
	id := uuid.New()
	r.stock[id] = &stockRow{tenantID: tenantID, name: name, category: category, quantity: qty}
	return id
}

func (r *fakeInventoryRepo) Create(_ context.Context, item *inventory.Item) (uuid.UUID, error) {
	r.stock[item.ID()] = &stockRow{
		tenantID: item.TenantID(),
		name:     item.Name(),
		category: item.Category(),
		quantity: item.Quantity(),
	}
	return item.ID(), nil
}

func (r *fakeInventoryRepo) Reserve(_ context.Context, tenantID, itemID uuid.UUID, qty int) (*shared.ReservedStock, error) {
	row, ok := r.stock[itemID]
	if !ok || row.tenantID != tenantID {
		return nil, infra.NewRepoErr("item not found", infra.KindNotFound)
	}
	if row.quantity < qty {
		return nil, infra.NewRepoErr("insufficient stock", infra.KindConflict)
	}
	row.quantity -= qty
	return &shared.ReservedStock{
		ItemID:    itemID,
		Name:      row.name,
		Category:  row.category,
		Remaining: row.quantity,
	}, nil
}

type fakeLedgerRepo struct {
	entries []*ledger.Entry
}

func (r *fakeLedgerRepo) Append(_ context.Context, entry *ledger.Entry) error {
	r.entries = append(r.entries, entry)
	return nil
}

type fakeRequestRepo struct {
	request       *lootrequest.Request
	created       []*lootrequest.Request
	saveErr       error
	savedDecision *lootrequest.Request
}

func (r *fakeRequestRepo) Create(_ context.Context, req *lootrequest.Request) (uuid.UUID, error) {
	r.created = append(r.created, req)
	return req.ID(), nil
}

func (r *fakeRequestRepo) FindForUpdate(_ context.Context, tenantID, id uuid.UUID) (*lootrequest.Request, error) {
	if r.request == nil || r.request.ID() != id || r.request.TenantID() != tenantID {
		return nil, infra.NewRepoErr("request not found", infra.KindNotFound)
	}
	return r.request, nil
}

func (r *fakeRequestRepo) SaveDecision(_ context.Context, req *lootrequest.Request) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.savedDecision = req
	return nil
}

type fakeSessionRepo struct {
	snapshot    *shared.SessionSnapshot
	participant *session.Participant
	available   []session.Item

	created       []*session.Session
	claimedItems  []uuid.UUID
	markOpenedErr error
	opened        bool
	unopenedAfter int
	closed        bool
}

func (r *fakeSessionRepo) Create(_ context.Context, s *session.Session) (uuid.UUID, error) {
	r.created = append(r.created, s)
	return s.ID(), nil
}

func (r *fakeSessionRepo) FindForUpdate(_ context.Context, tenantID, id uuid.UUID) (*shared.SessionSnapshot, error) {
	if r.snapshot == nil || r.snapshot.ID != id || r.snapshot.TenantID != tenantID {
		return nil, infra.NewRepoErr("session not found", infra.KindNotFound)
	}
	return r.snapshot, nil
}

func (r *fakeSessionRepo) FindParticipantForUpdate(_ context.Context, sessionID, userID uuid.UUID) (*session.Participant, error) {
	if r.participant == nil || r.participant.SessionID != sessionID || r.participant.UserID != userID {
		return nil, infra.NewRepoErr("participant not found", infra.KindNotFound)
	}
	return r.participant, nil
}

func (r *fakeSessionRepo) AvailableItems(_ context.Context, _ uuid.UUID) ([]session.Item, error) {
	return r.available, nil
}

func (r *fakeSessionRepo) MarkItemClaimed(_ context.Context, snapshotItemID, _ uuid.UUID) error {
	r.claimedItems = append(r.claimedItems, snapshotItemID)
	return nil
}

func (r *fakeSessionRepo) MarkOpened(_ context.Context, _, _ uuid.UUID, _ string, _ time.Time) error {
	if r.markOpenedErr != nil {
		return r.markOpenedErr
	}
	r.opened = true
	return nil
}

func (r *fakeSessionRepo) CountUnopened(_ context.Context, _ uuid.UUID) (int, error) {
	return r.unopenedAfter, nil
}

func (r *fakeSessionRepo) Close(_ context.Context, _ uuid.UUID) error {
	r.closed = true
	return nil
}

type fakeAllianceRepo struct {
	request       *alliance.Request
	pairs         map[[2]uuid.UUID]bool
	createReqErr  error
	createdPairs  [][2]alliance.Pair
	deletedPairs  int64
	savedDecision *alliance.Request
}

func (r *fakeAllianceRepo) CreateRequest(_ context.Context, req *alliance.Request) (uuid.UUID, error) {
	if r.createReqErr != nil {
		return uuid.Nil, r.createReqErr
	}
	r.request = req
	return req.ID(), nil
}

func (r *fakeAllianceRepo) FindRequestForUpdate(_ context.Context, id uuid.UUID) (*alliance.Request, error) {
	if r.request == nil || r.request.ID() != id {
		return nil, infra.NewRepoErr("alliance request not found", infra.KindNotFound)
	}
	return r.request, nil
}

func (r *fakeAllianceRepo) SaveDecision(_ context.Context, req *alliance.Request) error {
	r.savedDecision = req
	return nil
}

func (r *fakeAllianceRepo) CreatePairs(_ context.Context, pairs [2]alliance.Pair) error {
	for _, p := range pairs {
		r.pairs[[2]uuid.UUID{p.TenantID, p.AllyID}] = true
	}
	r.createdPairs = append(r.createdPairs, pairs)
	return nil
}

func (r *fakeAllianceRepo) DeletePairs(_ context.Context, tenantA, tenantB uuid.UUID) (int64, error) {
	var deleted int64
	for _, key := range [][2]uuid.UUID{{tenantA, tenantB}, {tenantB, tenantA}} {
		if r.pairs[key] {
			delete(r.pairs, key)
			deleted++
		}
	}
	r.deletedPairs = deleted
	return deleted, nil
}

func (r *fakeAllianceRepo) PairExists(_ context.Context, tenantID, allyID uuid.UUID) (bool, error) {
	return r.pairs[[2]uuid.UUID{tenantID, allyID}], nil
}

// fakeInventoryReads serves the read-model snapshot commands take before
// writing. Keyed by tenant+item like the real read store.
type fakeInventoryReads struct {
	items map[uuid.UUID]*queries.ItemView
}

func (r *fakeInventoryReads) FindByID(_ context.Context, tenantID, itemID uuid.UUID) (*queries.ItemView, error) {
	view, ok := r.items[itemID]
	if !ok || view.TenantID != tenantID {
		return nil, infra.NewRepoErr("item not found", infra.KindNotFound)
	}
	return view, nil
}

type fakeAllianceReads struct {
	visible map[[2]uuid.UUID]bool
	pending map[[2]uuid.UUID]bool
}

func (r *fakeAllianceReads) CanView(_ context.Context, actorTenant, targetTenant uuid.UUID) (bool, error) {
	if actorTenant == targetTenant {
		return true, nil
	}
	return r.visible[[2]uuid.UUID{actorTenant, targetTenant}], nil
}

func (r *fakeAllianceReads) HasPendingBetween(_ context.Context, tenantA, tenantB uuid.UUID) (bool, error) {
	return r.pending[[2]uuid.UUID{tenantA, tenantB}] || r.pending[[2]uuid.UUID{tenantB, tenantA}], nil
}

// scriptedSelector replays a fixed index sequence so draw outcomes are
// deterministic under test.
type scriptedSelector struct {
	indices []int
	pos     int
}

func (s *scriptedSelector) IntN(n int) (int, error) {
	if s.pos >= len(s.indices) {
		return 0, nil
	}
	idx := s.indices[s.pos]
	s.pos++
	if idx >= n {
		idx = n - 1
	}
	return idx, nil
}
