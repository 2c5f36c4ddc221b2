package queries

import "loot-ledger/internal/pkg/errs"

var (
	ErrNotFound    = errs.New("resource not found")
	ErrForbidden   = errs.New("actor may not view this resource")
	ErrQueryFailed = errs.New("query failed")
)
