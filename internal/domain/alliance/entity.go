// Package alliance models the symmetric visibility relation between two
// tenants. An approved request always materializes as two directional rows
// so a visibility check is a single one-hop lookup from either side.
package alliance

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSelfAlliance   = errors.New("tenant cannot ally with itself")
	ErrAlreadyDecided = errors.New("alliance request already decided")
)

type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestApproved RequestStatus = "APPROVED"
	RequestRejected RequestStatus = "REJECTED"
)

type Request struct {
	id           uuid.UUID
	senderTenant uuid.UUID
	targetTenant uuid.UUID
	status       RequestStatus
	createdAt    time.Time
	decidedAt    *time.Time
}

func NewRequest(senderTenant, targetTenant uuid.UUID, now time.Time) (*Request, error) {
	if senderTenant == targetTenant {
		return nil, ErrSelfAlliance
	}
	return &Request{
		id:           uuid.New(),
		senderTenant: senderTenant,
		targetTenant: targetTenant,
		status:       RequestPending,
		createdAt:    now,
	}, nil
}

func Reconstruct(id, senderTenant, targetTenant uuid.UUID, status RequestStatus, createdAt time.Time, decidedAt *time.Time) *Request {
	return &Request{
		id:           id,
		senderTenant: senderTenant,
		targetTenant: targetTenant,
		status:       status,
		createdAt:    createdAt,
		decidedAt:    decidedAt,
	}
}

func (r *Request) ID() uuid.UUID           { return r.id }
func (r *Request) SenderTenant() uuid.UUID { return r.senderTenant }
func (r *Request) TargetTenant() uuid.UUID { return r.targetTenant }
func (r *Request) Status() RequestStatus   { return r.status }
func (r *Request) CreatedAt() time.Time    { return r.createdAt }
func (r *Request) DecidedAt() *time.Time   { return r.decidedAt }
func (r *Request) IsPending() bool         { return r.status == RequestPending }

func (r *Request) Approve(now time.Time) error {
	if r.status != RequestPending {
		return ErrAlreadyDecided
	}
	r.status = RequestApproved
	r.decidedAt = &now
	return nil
}

func (r *Request) Reject(now time.Time) error {
	if r.status != RequestPending {
		return ErrAlreadyDecided
	}
	r.status = RequestRejected
	r.decidedAt = &now
	return nil
}

// Pair is one direction of an approved alliance. Rows are only ever created
// and deleted together, both directions in one transaction.
type Pair struct {
	TenantID uuid.UUID
	AllyID   uuid.UUID
}

// Materialize returns both directional rows for an approved request.
func (r *Request) Materialize() [2]Pair {
	return [2]Pair{
		{TenantID: r.senderTenant, AllyID: r.targetTenant},
		{TenantID: r.targetTenant, AllyID: r.senderTenant},
	}
}
