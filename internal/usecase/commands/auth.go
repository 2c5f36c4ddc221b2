package commands

import (
	"context"

	"github.com/google/uuid"

	"loot-ledger/internal/infra"
	"loot-ledger/internal/pkg/clock"
	"loot-ledger/internal/pkg/errs"
	"loot-ledger/internal/pkg/jwt"
	"loot-ledger/internal/pkg/password"
	"loot-ledger/internal/usecase/queries"
	"loot-ledger/internal/usecase/shared"
)

// MemberReads is the member read model slice the auth flow needs.
type MemberReads interface {
	FindByID(ctx context.Context, id uuid.UUID) (*queries.MemberView, error)
	FindCredentialByEmail(ctx context.Context, email string) (*queries.MemberCredentialView, error)
}

type LoginResult struct {
	AccessToken  string             `json:"access_token"`
	RefreshToken string             `json:"refresh_token"`
	Member       queries.MemberView `json:"member"`
}

type AuthCommands interface {
	Login(ctx context.Context, email, plainPassword string) (*LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*LoginResult, error)
}

type authCommandsImpl struct {
	uow     shared.UnitOfWork
	members MemberReads
	tokens  *jwt.Service
	clock   clock.Clock
}

func NewAuthCommands(uow shared.UnitOfWork, members MemberReads, tokens *jwt.Service, clk clock.Clock) AuthCommands {
	return &authCommandsImpl{
		uow:     uow,
		members: members,
		tokens:  tokens,
		clock:   clk,
	}
}

// Login deliberately collapses "unknown email" and "wrong password" into one
// error so the response does not leak which emails exist.
func (a *authCommandsImpl) Login(ctx context.Context, email, plainPassword string) (*LoginResult, error) {
	cred, err := a.members.FindCredentialByEmail(ctx, email)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if err := password.ComparePassword(cred.PasswordHash, plainPassword); err != nil {
		return nil, ErrInvalidCredentials
	}

	result, err := a.issueTokens(cred.ID, cred.TenantID, cred.Role)
	if err != nil {
		return nil, err
	}

	now := a.clock.Now()
	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Members().UpdateLastLogin(ctx, cred.ID, now); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Member = queries.MemberView{
		ID:          cred.ID,
		TenantID:    cred.TenantID,
		Email:       cred.Email,
		Role:        cred.Role,
		IsActive:    cred.IsActive,
		LastLoginAt: &now,
	}
	return result, nil
}

// Refresh re-validates the member before reissuing tokens, so a deactivated
// account cannot ride an old refresh token back in.
func (a *authCommandsImpl) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	claims, err := a.tokens.ValidateToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if claims.TokenType != jwt.TokenTypeRefresh {
		return nil, ErrInvalidCredentials
	}

	member, err := a.members.FindByID(ctx, claims.MemberID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	result, err := a.issueTokens(member.ID, member.TenantID, member.Role)
	if err != nil {
		return nil, err
	}

	result.Member = *member
	return result, nil
}

func (a *authCommandsImpl) issueTokens(memberID, tenantID uuid.UUID, role string) (*LoginResult, error) {
	access, err := a.tokens.GenerateAccessToken(memberID, tenantID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	refresh, err := a.tokens.GenerateRefreshToken(memberID, tenantID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return &LoginResult{AccessToken: access, RefreshToken: refresh}, nil
}
