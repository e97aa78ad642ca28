package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sweetshop/sweetshop/internal/model"
	"github.com/sweetshop/sweetshop/internal/store"
)

// AccountService is the account directory: lookup, registration and
// credential checks.
type AccountService struct {
	store  *store.Store
	hasher *Hasher
	logger *slog.Logger
}

// NewAccountService wires an AccountService to its store and hasher.
func NewAccountService(st *store.Store, hasher *Hasher, logger *slog.Logger) *AccountService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountService{store: st, hasher: hasher, logger: logger}
}

// FindByEmail returns the account registered under email.
func (s *AccountService) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	return s.store.GetAccountByEmail(ctx, email)
}

// FindByID returns the account with the given ID.
func (s *AccountService) FindByID(ctx context.Context, id int64) (*model.Account, error) {
	return s.store.GetAccount(ctx, id)
}

// List returns every account ordered by ID.
func (s *AccountService) List(ctx context.Context) ([]model.Account, error) {
	return s.store.ListAccounts(ctx)
}

// Register creates a new active, non-admin account.
func (s *AccountService) Register(ctx context.Context, reg model.Registration) (*model.Account, error) {
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return s.create(ctx, reg, false)
}

func (s *AccountService) create(ctx context.Context, reg model.Registration, admin bool) (*model.Account, error) {
	if _, err := s.store.GetAccountByEmail(ctx, reg.Email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hash, err := s.hasher.HashPassword(reg.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &model.Account{
		Email:          reg.Email,
		FullName:       reg.FullName,
		HashedPassword: hash,
		IsActive:       true,
		IsAdmin:        admin,
	}
	if err := s.store.CreateAccount(ctx, account); err != nil {
		// Lost a race with a concurrent registration of the same email.
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	s.logger.Info("account registered", "id", account.ID, "admin", admin)
	return account, nil
}

// Authenticate returns the account for email if password matches.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*model.Account, error) {
	account, err := s.store.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.hasher.VerifyPassword(password, account.HashedPassword) {
		return nil, ErrInvalidCredentials
	}
	if !account.IsActive {
		return nil, ErrInactiveAccount
	}
	return account, nil
}

// EnsureAdmin makes sure an administrator with email exists. A missing
// account is created with the given password; an existing one keeps its
// password and gets the admin flag. The returned bool reports creation.
func (s *AccountService) EnsureAdmin(ctx context.Context, email, password, fullName string) (*model.Account, bool, error) {
	existing, err := s.store.GetAccountByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.IsAdmin {
			return existing, false, nil
		}
		updated, err := s.store.UpdateAccount(ctx, existing.ID, store.AccountPatch{IsAdmin: model.Some(true)})
		return updated, false, err
	case !errors.Is(err, store.ErrNotFound):
		return nil, false, err
	}

	reg := model.Registration{Email: email, Password: password, FullName: fullName}
	if err := reg.Validate(); err != nil {
		return nil, false, err
	}
	created, err := s.create(ctx, reg, true)
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}

// SetAdmin grants or revokes the admin flag.
func (s *AccountService) SetAdmin(ctx context.Context, id int64, admin bool) (*model.Account, error) {
	return s.store.UpdateAccount(ctx, id, store.AccountPatch{IsAdmin: model.Some(admin)})
}

// SetActive enables or disables an account.
func (s *AccountService) SetActive(ctx context.Context, id int64, active bool) (*model.Account, error) {
	return s.store.UpdateAccount(ctx, id, store.AccountPatch{IsActive: model.Some(active)})
}

// ChangePassword replaces the password of an account.
func (s *AccountService) ChangePassword(ctx context.Context, id int64, password string) (*model.Account, error) {
	return s.UpdateProfile(ctx, id, model.AccountUpdate{Password: model.Some(password)})
}

// UpdateProfile applies the set fields of u to the account.
func (s *AccountService) UpdateProfile(ctx context.Context, id int64, u model.AccountUpdate) (*model.Account, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}

	patch := store.AccountPatch{
		Email:    u.Email,
		FullName: u.FullName,
		IsActive: u.IsActive,
	}
	if u.Password.Set {
		hash, err := s.hasher.HashPassword(u.Password.Value)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		patch.HashedPassword = model.Some(hash)
	}

	account, err := s.store.UpdateAccount(ctx, id, patch)
	if errors.Is(err, store.ErrDuplicate) {
		return nil, ErrDuplicateEmail
	}
	return account, err
}
