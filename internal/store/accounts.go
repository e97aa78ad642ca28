package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/sweetshop/sweetshop/internal/model"
)

const accountColumns = `id, email, full_name, hashed_password, is_active, is_admin, created_at, updated_at`

// AccountPatch lists the account columns an update may change.
type AccountPatch struct {
	Email          model.Optional[string]
	FullName       model.Optional[string]
	HashedPassword model.Optional[string]
	IsActive       model.Optional[bool]
	IsAdmin        model.Optional[bool]
}

// CreateAccount inserts a new account. The ID and CreatedAt fields on a are
// populated after a successful insert. A taken email yields ErrDuplicate.
func (s *Store) CreateAccount(ctx context.Context, a *model.Account) error {
	a.CreatedAt = now()
	a.UpdatedAt = nil

	const q = `INSERT INTO accounts
		(email, full_name, hashed_password, is_active, is_admin, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	id, err := s.insert(ctx, s.db, q, a.Email, a.FullName, a.HashedPassword, a.IsActive, a.IsAdmin, a.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert account: %w", err)
	}
	a.ID = id
	return nil
}

// GetAccount returns an account by ID.
func (s *Store) GetAccount(ctx context.Context, id int64) (*model.Account, error) {
	var a model.Account
	q := s.db.Rebind("SELECT " + accountColumns + " FROM accounts WHERE id = ?")
	if err := s.db.GetContext(ctx, &a, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &a, nil
}

// GetAccountByEmail returns an account by its login email.
func (s *Store) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	var a model.Account
	q := s.db.Rebind("SELECT " + accountColumns + " FROM accounts WHERE email = ?")
	if err := s.db.GetContext(ctx, &a, q, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get account by email: %w", err)
	}
	return &a, nil
}

// ListAccounts returns all accounts ordered by ID.
func (s *Store) ListAccounts(ctx context.Context) ([]model.Account, error) {
	var accounts []model.Account
	if err := s.db.SelectContext(ctx, &accounts, "SELECT "+accountColumns+" FROM accounts ORDER BY id"); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

// UpdateAccount writes the set fields of p and returns the updated account.
// The UpdatedAt column is refreshed automatically.
func (s *Store) UpdateAccount(ctx context.Context, id int64, p AccountPatch) (*model.Account, error) {
	var (
		sets []string
		args []interface{}
	)
	add := func(col string, v interface{}) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if p.Email.Set {
		add("email", p.Email.Value)
	}
	if p.FullName.Set {
		add("full_name", p.FullName.Value)
	}
	if p.HashedPassword.Set {
		add("hashed_password", p.HashedPassword.Value)
	}
	if p.IsActive.Set {
		add("is_active", p.IsActive.Value)
	}
	if p.IsAdmin.Set {
		add("is_admin", p.IsAdmin.Value)
	}
	add("updated_at", now())
	args = append(args, id)

	var a model.Account
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		q := tx.Rebind("UPDATE accounts SET " + strings.Join(sets, ", ") + " WHERE id = ?")
		result, err := tx.ExecContext(ctx, q, args...)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicate
			}
			return fmt.Errorf("update account: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("update account rows affected: %w", err)
		}
		if n == 0 {
			return ErrNotFound
		}
		return tx.GetContext(ctx, &a, tx.Rebind("SELECT "+accountColumns+" FROM accounts WHERE id = ?"), id)
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}
