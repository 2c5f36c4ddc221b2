// Package ledger defines the append-only audit trail of completed
// allocations. Entries are written once, in the same transaction as the
// inventory decrement they record, and never mutated afterwards.
package ledger

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyItemName   = errors.New("item name cannot be empty")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidKind     = errors.New("invalid entry kind")
	ErrInvalidMethod   = errors.New("invalid entry method")
)

type Kind string

const (
	KindAssigned  Kind = "ASSIGNED"
	KindGiveaway  Kind = "GIVEAWAY"
	KindWithdrawn Kind = "WITHDRAWN"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindAssigned, KindGiveaway, KindWithdrawn:
		return Kind(s), nil
	default:
		return "", ErrInvalidKind
	}
}

// Method records which protocol produced the transfer.
type Method string

const (
	MethodManual          Method = "MANUAL"
	MethodRequestApproval Method = "REQUEST_APPROVAL"
	MethodGiveawayRoll    Method = "GIVEAWAY_ROLL"
	MethodCrateOpening    Method = "CRATE_OPENING"
	MethodWithdrawal      Method = "WITHDRAWAL"
)

func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodManual, MethodRequestApproval, MethodGiveawayRoll, MethodCrateOpening, MethodWithdrawal:
		return Method(s), nil
	default:
		return "", ErrInvalidMethod
	}
}

type Entry struct {
	id          uuid.UUID
	tenantID    uuid.UUID
	recipientID *uuid.UUID
	itemName    string
	category    string
	quantity    int
	kind        Kind
	method      Method
	performedBy *uuid.UUID
	occurredAt  time.Time
}

func NewEntry(
	tenantID uuid.UUID,
	recipientID *uuid.UUID,
	itemName, category string,
	quantity int,
	kind Kind,
	method Method,
	performedBy *uuid.UUID,
	occurredAt time.Time,
) (*Entry, error) {
	if strings.TrimSpace(itemName) == "" {
		return nil, ErrEmptyItemName
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}
	if _, err := ParseMethod(string(method)); err != nil {
		return nil, err
	}

	return &Entry{
		id:          uuid.New(),
		tenantID:    tenantID,
		recipientID: recipientID,
		itemName:    itemName,
		category:    category,
		quantity:    quantity,
		kind:        kind,
		method:      method,
		performedBy: performedBy,
		occurredAt:  occurredAt,
	}, nil
}

func (e *Entry) ID() uuid.UUID           { return e.id }
func (e *Entry) TenantID() uuid.UUID     { return e.tenantID }
func (e *Entry) RecipientID() *uuid.UUID { return e.recipientID }
func (e *Entry) ItemName() string        { return e.itemName }
func (e *Entry) Category() string        { return e.category }
func (e *Entry) Quantity() int           { return e.quantity }
func (e *Entry) Kind() Kind              { return e.kind }
func (e *Entry) Method() Method          { return e.method }
func (e *Entry) PerformedBy() *uuid.UUID { return e.performedBy }
func (e *Entry) OccurredAt() time.Time   { return e.occurredAt }
