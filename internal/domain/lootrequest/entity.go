// Package lootrequest implements the member request / admin decision state
// machine. Submitting a request holds no stock; availability is re-checked
// when an admin approves.
package lootrequest

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidQuantity  = errors.New("requested quantity must be positive")
	ErrAlreadyProcessed = errors.New("request already processed")
	ErrEmptyReason      = errors.New("denial reason cannot be empty")
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

type Request struct {
	id           uuid.UUID
	tenantID     uuid.UUID
	userID       uuid.UUID
	itemID       uuid.UUID
	itemName     string
	category     string
	quantity     int
	status       Status
	denialReason *string
	createdAt    time.Time
	decidedAt    *time.Time
	decidedBy    *uuid.UUID
}

func NewRequest(tenantID, userID, itemID uuid.UUID, itemName, category string, quantity int, now time.Time) (*Request, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	return &Request{
		id:        uuid.New(),
		tenantID:  tenantID,
		userID:    userID,
		itemID:    itemID,
		itemName:  itemName,
		category:  category,
		quantity:  quantity,
		status:    StatusPending,
		createdAt: now,
	}, nil
}

func Reconstruct(
	id, tenantID, userID, itemID uuid.UUID,
	itemName, category string,
	quantity int,
	status Status,
	denialReason *string,
	createdAt time.Time,
	decidedAt *time.Time,
	decidedBy *uuid.UUID,
) *Request {
	return &Request{
		id:           id,
		tenantID:     tenantID,
		userID:       userID,
		itemID:       itemID,
		itemName:     itemName,
		category:     category,
		quantity:     quantity,
		status:       status,
		denialReason: denialReason,
		createdAt:    createdAt,
		decidedAt:    decidedAt,
		decidedBy:    decidedBy,
	}
}

func (r *Request) ID() uuid.UUID          { return r.id }
func (r *Request) TenantID() uuid.UUID    { return r.tenantID }
func (r *Request) UserID() uuid.UUID      { return r.userID }
func (r *Request) ItemID() uuid.UUID      { return r.itemID }
func (r *Request) ItemName() string       { return r.itemName }
func (r *Request) Category() string       { return r.category }
func (r *Request) Quantity() int          { return r.quantity }
func (r *Request) Status() Status         { return r.status }
func (r *Request) DenialReason() *string  { return r.denialReason }
func (r *Request) CreatedAt() time.Time   { return r.createdAt }
func (r *Request) DecidedAt() *time.Time  { return r.decidedAt }
func (r *Request) DecidedBy() *uuid.UUID  { return r.decidedBy }
func (r *Request) IsPending() bool        { return r.status == StatusPending }

// Approve is one-way. A decided request can never be re-opened.
func (r *Request) Approve(approverID uuid.UUID, now time.Time) error {
	if r.status != StatusPending {
		return ErrAlreadyProcessed
	}
	r.status = StatusApproved
	r.decidedAt = &now
	r.decidedBy = &approverID
	return nil
}

func (r *Request) Reject(rejecterID uuid.UUID, reason string, now time.Time) error {
	if r.status != StatusPending {
		return ErrAlreadyProcessed
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrEmptyReason
	}
	r.status = StatusRejected
	r.denialReason = &reason
	r.decidedAt = &now
	r.decidedBy = &rejecterID
	return nil
}
