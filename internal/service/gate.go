package service

import (
	"context"
	"errors"

	"github.com/sweetshop/sweetshop/internal/model"
	"github.com/sweetshop/sweetshop/internal/store"
)

// Gate resolves bearer tokens to accounts and enforces admin-only access.
type Gate struct {
	tokens   *TokenService
	accounts *AccountService
}

// NewGate returns a Gate over the token service and account directory.
func NewGate(tokens *TokenService, accounts *AccountService) *Gate {
	return &Gate{tokens: tokens, accounts: accounts}
}

// ResolveCaller returns the active account identified by token.
func (g *Gate) ResolveCaller(ctx context.Context, token string) (*model.Account, error) {
	claims, err := g.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	account, err := g.accounts.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUnknownSubject
		}
		return nil, err
	}
	if !account.IsActive {
		return nil, ErrInactiveAccount
	}
	return account, nil
}

// RequireAdmin returns ErrForbidden unless account is an administrator.
func (g *Gate) RequireAdmin(account *model.Account) error {
	if account == nil || !account.IsAdmin {
		return ErrForbidden
	}
	return nil
}
