package queries

import (
	"time"

	"github.com/google/uuid"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// ItemView represents read-optimized inventory data
type ItemView struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Quantity  int       `json:"quantity"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// LedgerEntryView represents one immutable distribution log entry
type LedgerEntryView struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    uuid.UUID  `json:"tenant_id"`
	RecipientID *uuid.UUID `json:"recipient_id,omitempty"`
	ItemName    string     `json:"item_name"`
	Category    string     `json:"category"`
	Quantity    int        `json:"quantity"`
	Kind        string     `json:"kind"`
	Method      string     `json:"method"`
	PerformedBy *uuid.UUID `json:"performed_by,omitempty"`
	OccurredAt  time.Time  `json:"occurred_at"`
}

// LedgerFilter narrows the ledger feed. Zero values mean "no filter".
type LedgerFilter struct {
	Kind        string
	Method      string
	RecipientID *uuid.UUID
	Limit       int
}

// RequestView represents read-optimized loot request data
type RequestView struct {
	ID           uuid.UUID  `json:"id"`
	TenantID     uuid.UUID  `json:"tenant_id"`
	UserID       uuid.UUID  `json:"user_id"`
	ItemID       uuid.UUID  `json:"item_id"`
	ItemName     string     `json:"item_name"`
	Category     string     `json:"category"`
	Quantity     int        `json:"quantity"`
	Status       string     `json:"status"`
	DenialReason *string    `json:"denial_reason,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	DecidedAt    *time.Time `json:"decided_at,omitempty"`
	DecidedBy    *uuid.UUID `json:"decided_by,omitempty"`
}

// SessionView represents a crate-opening session with its snapshot pool
type SessionView struct {
	ID           uuid.UUID                `json:"id"`
	TenantID     uuid.UUID                `json:"tenant_id"`
	Title        string                   `json:"title"`
	Status       string                   `json:"status"`
	CreatedBy    uuid.UUID                `json:"created_by"`
	CreatedAt    time.Time                `json:"created_at"`
	Items        []SessionItemView        `json:"items"`
	Participants []SessionParticipantView `json:"participants"`
}

type SessionItemView struct {
	ID       uuid.UUID `json:"id"`
	ItemID   uuid.UUID `json:"item_id"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
	Claimed  bool      `json:"claimed"`
}

type SessionParticipantView struct {
	UserID      uuid.UUID  `json:"user_id"`
	OpenedAt    *time.Time `json:"opened_at,omitempty"`
	WonItemName *string    `json:"won_item_name,omitempty"`
}

// AllianceRequestView represents a pending or decided alliance request
type AllianceRequestView struct {
	ID           uuid.UUID  `json:"id"`
	SenderTenant uuid.UUID  `json:"sender_tenant"`
	TargetTenant uuid.UUID  `json:"target_tenant"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	DecidedAt    *time.Time `json:"decided_at,omitempty"`
}

// AllianceView is one direction of an approved alliance
type AllianceView struct {
	TenantID  uuid.UUID `json:"tenant_id"`
	AllyID    uuid.UUID `json:"ally_id"`
	CreatedAt time.Time `json:"created_at"`
}

// MemberView represents read-optimized member data
type MemberView struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    uuid.UUID  `json:"tenant_id"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// MemberCredentialView carries the password hash; it never leaves the
// authentication command.
type MemberCredentialView struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
}
