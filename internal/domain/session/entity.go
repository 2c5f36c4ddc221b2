// Package session models crate-opening events: a fixed, snapshotted pool of
// items and a fixed participant list, where each participant reveals and
// claims exactly one item.
package session

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyTitle        = errors.New("session title cannot be empty")
	ErrNoItems           = errors.New("session requires at least one item")
	ErrNoParticipants    = errors.New("session requires at least one participant")
	ErrAlreadyClaimed    = errors.New("participant already opened a crate")
	ErrSessionClosed     = errors.New("session is closed")
	ErrDuplicateUser     = errors.New("duplicate participant")
)

type Status string

const (
	StatusActive Status = "ACTIVE"
	StatusClosed Status = "CLOSED"
)

// Item is a by-value snapshot of an inventory item taken at session creation
// time. Live inventory changes after the session starts do not alter the
// visible pool; availability is re-validated against live stock at claim time.
type Item struct {
	ID       uuid.UUID
	ItemID   uuid.UUID // original inventory item reference
	Name     string
	Category string
	Claimed  bool
}

// Participant state machine: NOT_OPENED -> OPENED(wonItemName), one-way,
// exactly once. OpenedAt doubles as the idempotency guard.
type Participant struct {
	SessionID   uuid.UUID
	UserID      uuid.UUID
	OpenedAt    *time.Time
	WonItemName *string
}

func (p *Participant) Opened() bool {
	return p.OpenedAt != nil
}

func (p *Participant) Claim(wonItemName string, now time.Time) error {
	if p.Opened() {
		return ErrAlreadyClaimed
	}
	p.OpenedAt = &now
	p.WonItemName = &wonItemName
	return nil
}

type Session struct {
	id           uuid.UUID
	tenantID     uuid.UUID
	title        string
	status       Status
	items        []Item
	participants []Participant
	createdBy    uuid.UUID
	createdAt    time.Time
}

func NewSession(tenantID uuid.UUID, title string, items []Item, participantIDs []uuid.UUID, createdBy uuid.UUID, now time.Time) (*Session, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	if len(participantIDs) == 0 {
		return nil, ErrNoParticipants
	}

	seen := make(map[uuid.UUID]struct{}, len(participantIDs))
	for _, id := range participantIDs {
		if _, dup := seen[id]; dup {
			return nil, ErrDuplicateUser
		}
		seen[id] = struct{}{}
	}

	sessionID := uuid.New()

	snapshot := make([]Item, len(items))
	for i, it := range items {
		snapshot[i] = Item{
			ID:       uuid.New(),
			ItemID:   it.ItemID,
			Name:     it.Name,
			Category: it.Category,
		}
	}

	participants := make([]Participant, len(participantIDs))
	for i, userID := range participantIDs {
		participants[i] = Participant{
			SessionID: sessionID,
			UserID:    userID,
		}
	}

	return &Session{
		id:           sessionID,
		tenantID:     tenantID,
		title:        title,
		status:       StatusActive,
		items:        snapshot,
		participants: participants,
		createdBy:    createdBy,
		createdAt:    now,
	}, nil
}

func (s *Session) ID() uuid.UUID              { return s.id }
func (s *Session) TenantID() uuid.UUID        { return s.tenantID }
func (s *Session) Title() string              { return s.title }
func (s *Session) Status() Status             { return s.status }
func (s *Session) Items() []Item              { return s.items }
func (s *Session) Participants() []Participant { return s.participants }
func (s *Session) CreatedBy() uuid.UUID       { return s.createdBy }
func (s *Session) CreatedAt() time.Time       { return s.createdAt }

func (s *Session) IsActive() bool {
	return s.status == StatusActive
}
