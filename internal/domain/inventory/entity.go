package inventory

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyName         = errors.New("item name cannot be empty")
	ErrNegativeQuantity  = errors.New("quantity cannot be negative")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ExhaustionPolicy decides what happens to an item row when an allocation
// brings its quantity to exactly zero.
type ExhaustionPolicy string

const (
	KeepAtZero   ExhaustionPolicy = "keep_at_zero"
	DeleteAtZero ExhaustionPolicy = "delete_at_zero"
)

func ParseExhaustionPolicy(s string) (ExhaustionPolicy, error) {
	switch ExhaustionPolicy(s) {
	case KeepAtZero, DeleteAtZero:
		return ExhaustionPolicy(s), nil
	default:
		return "", errors.New("invalid exhaustion policy: " + s)
	}
}

// Item is a pooled asset owned by one tenant. Its quantity is mutated only
// inside allocation transactions and never goes negative.
type Item struct {
	id        uuid.UUID
	tenantID  uuid.UUID
	name      string
	category  string
	quantity  int
	notes     *string
	createdAt time.Time
}

func NewItem(tenantID uuid.UUID, name, category string, quantity int, notes *string, now time.Time) (*Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if quantity < 0 {
		return nil, ErrNegativeQuantity
	}

	return &Item{
		id:        uuid.New(),
		tenantID:  tenantID,
		name:      name,
		category:  strings.TrimSpace(category),
		quantity:  quantity,
		notes:     notes,
		createdAt: now,
	}, nil
}

// Reconstruct rebuilds an Item from persisted state.
func Reconstruct(id, tenantID uuid.UUID, name, category string, quantity int, notes *string, createdAt time.Time) *Item {
	return &Item{
		id:        id,
		tenantID:  tenantID,
		name:      name,
		category:  category,
		quantity:  quantity,
		notes:     notes,
		createdAt: createdAt,
	}
}

func (i *Item) ID() uuid.UUID        { return i.id }
func (i *Item) TenantID() uuid.UUID  { return i.tenantID }
func (i *Item) Name() string         { return i.name }
func (i *Item) Category() string     { return i.category }
func (i *Item) Quantity() int        { return i.quantity }
func (i *Item) Notes() *string       { return i.notes }
func (i *Item) CreatedAt() time.Time { return i.createdAt }

// Reduce enforces the non-negative invariant. The persistence layer applies
// the same check again at decrement time; this is the in-memory counterpart
// used by domain logic and tests.
func (i *Item) Reduce(qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if qty > i.quantity {
		return ErrInsufficientStock
	}
	i.quantity -= qty
	return nil
}

// Exhausted reports whether the item has no units left.
func (i *Item) Exhausted() bool {
	return i.quantity == 0
}
