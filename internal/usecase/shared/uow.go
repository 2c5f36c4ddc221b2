package shared

import (
	"context"
	"time"

	"github.com/google/uuid"

	"loot-ledger/internal/domain/alliance"
	"loot-ledger/internal/domain/inventory"
	"loot-ledger/internal/domain/ledger"
	"loot-ledger/internal/domain/lootrequest"
	"loot-ledger/internal/domain/session"
	"loot-ledger/internal/infra/db"
)

type UnitOfWork interface {
	// Within: full read-write transaction with retry on serialization conflicts
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
}

type Tx interface {
	Inventory() InventoryRepository
	Ledger() LedgerRepository
	Requests() RequestRepository
	Sessions() SessionRepository
	Alliances() AllianceRepository
	Members() MemberRepository
	DB() db.DBTX
}

// ReservedStock reports the result of a successful in-transaction decrement.
type ReservedStock struct {
	ItemID    uuid.UUID
	Name      string
	Category  string
	Remaining int
}

type InventoryRepository interface {
	Create(ctx context.Context, item *inventory.Item) (uuid.UUID, error)
	// Reserve reads and decrements the quantity in the same transaction,
	// re-validating the count at decrement time. Fails with KindNotFound when
	// the item is absent and KindConflict when stock does not cover qty.
	Reserve(ctx context.Context, tenantID, itemID uuid.UUID, qty int) (*ReservedStock, error)
}

type LedgerRepository interface {
	// Append is a pure insert; the caller has already validated and committed
	// the matching inventory change in the same transaction.
	Append(ctx context.Context, entry *ledger.Entry) error
}

type RequestRepository interface {
	Create(ctx context.Context, req *lootrequest.Request) (uuid.UUID, error)
	// FindForUpdate locks the row for the remainder of the transaction.
	FindForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*lootrequest.Request, error)
	// SaveDecision persists an APPROVED/REJECTED flip. The UPDATE is guarded
	// on status = PENDING; a lost race surfaces as KindConflict.
	SaveDecision(ctx context.Context, req *lootrequest.Request) error
}

// SessionSnapshot is the session header as seen inside a claim transaction.
type SessionSnapshot struct {
	ID       uuid.UUID
	TenantID uuid.UUID
	Title    string
	Status   session.Status
}

type SessionRepository interface {
	Create(ctx context.Context, s *session.Session) (uuid.UUID, error)
	FindForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*SessionSnapshot, error)
	FindParticipantForUpdate(ctx context.Context, sessionID, userID uuid.UUID) (*session.Participant, error)
	// AvailableItems returns snapshot items not yet claimed by any participant.
	AvailableItems(ctx context.Context, sessionID uuid.UUID) ([]session.Item, error)
	// MarkItemClaimed is guarded on claimed = false; KindConflict on a lost race.
	MarkItemClaimed(ctx context.Context, snapshotItemID, userID uuid.UUID) error
	// MarkOpened is guarded on opened_at IS NULL; KindConflict on a double claim.
	MarkOpened(ctx context.Context, sessionID, userID uuid.UUID, wonItemName string, openedAt time.Time) error
	CountUnopened(ctx context.Context, sessionID uuid.UUID) (int, error)
	Close(ctx context.Context, sessionID uuid.UUID) error
}

type AllianceRepository interface {
	// CreateRequest fails with KindDuplicateKey when a pending request
	// already exists between the pair, in either direction.
	CreateRequest(ctx context.Context, req *alliance.Request) (uuid.UUID, error)
	FindRequestForUpdate(ctx context.Context, id uuid.UUID) (*alliance.Request, error)
	SaveDecision(ctx context.Context, req *alliance.Request) error
	// CreatePairs inserts both directional rows; DeletePairs removes both.
	// Neither ever leaves an asymmetric relation behind.
	CreatePairs(ctx context.Context, pairs [2]alliance.Pair) error
	DeletePairs(ctx context.Context, tenantA, tenantB uuid.UUID) (int64, error)
	PairExists(ctx context.Context, tenantID, allyID uuid.UUID) (bool, error)
}

type MemberRepository interface {
	UpdateLastLogin(ctx context.Context, memberID uuid.UUID, at time.Time) error
}
