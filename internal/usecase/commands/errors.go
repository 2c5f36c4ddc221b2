package commands

import "loot-ledger/internal/pkg/errs"

// Sentinel errors shared across the command layer. All are expected,
// recoverable outcomes reported synchronously to the caller; handlers map
// them to status codes.
var (
	ErrUnauthorized            = errs.New("actor lacks role or tenant scope")
	ErrDomainValidation        = errs.New("domain validation failed")
	ErrDatabaseOperationFailed = errs.New("database operation failed")

	// Inventory / distribution
	ErrItemNotFound      = errs.New("inventory item not found")
	ErrInsufficientStock = errs.New("insufficient stock")
	ErrEmptyPool         = errs.New("draw attempted over empty pool")
	ErrPoolExhausted     = errs.New("no candidates remain for draw")

	// Requests
	ErrRequestNotFound  = errs.New("loot request not found")
	ErrAlreadyProcessed = errs.New("request already processed")

	// Sessions
	ErrSessionNotFound     = errs.New("loot session not found")
	ErrParticipantNotFound = errs.New("session participant not found")
	ErrAlreadyClaimed      = errs.New("participant already opened a crate")
	ErrSessionClosed       = errs.New("session is closed")

	// Alliances
	ErrAllianceRequestNotFound = errs.New("alliance request not found")
	ErrAlreadyPending          = errs.New("alliance request already pending")
	ErrAlreadyAllied           = errs.New("tenants are already allied")
	ErrAlreadyDecided          = errs.New("alliance request already decided")
	ErrAllianceNotFound        = errs.New("alliance not found")
	ErrSelfAlliance            = errs.New("tenant cannot ally with itself")

	// Auth
	ErrInvalidCredentials = errs.New("invalid credentials")
	ErrMemberNotFound     = errs.New("member not found")
)
