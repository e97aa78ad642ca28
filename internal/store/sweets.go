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

const sweetColumns = `id, name, description, category, price, quantity, image_url, created_at, updated_at`

// CreateSweet inserts a new catalog entry and returns it.
func (s *Store) CreateSweet(ctx context.Context, in model.SweetInput) (*model.Sweet, error) {
	sw := &model.Sweet{
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Price:       in.Price,
		Quantity:    in.Quantity,
		ImageURL:    in.ImageURL,
		CreatedAt:   now(),
	}

	const q = `INSERT INTO sweets
		(name, description, category, price, quantity, image_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	id, err := s.insert(ctx, s.db, q, sw.Name, sw.Description, sw.Category, sw.Price, sw.Quantity, sw.ImageURL, sw.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert sweet: %w", err)
	}
	sw.ID = id
	return sw, nil
}

// GetSweet returns a catalog entry by ID.
func (s *Store) GetSweet(ctx context.Context, id int64) (*model.Sweet, error) {
	return getSweet(ctx, s.db, id)
}

func getSweet(ctx context.Context, q sqlx.ExtContext, id int64) (*model.Sweet, error) {
	var sw model.Sweet
	if err := sqlx.GetContext(ctx, q, &sw, q.Rebind("SELECT "+sweetColumns+" FROM sweets WHERE id = ?"), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get sweet: %w", err)
	}
	return &sw, nil
}

// SweetExists reports whether an entry with exactly this name exists.
func (s *Store) SweetExists(ctx context.Context, name string) (bool, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, s.db.Rebind("SELECT COUNT(*) FROM sweets WHERE name = ?"), name); err != nil {
		return false, fmt.Errorf("count sweets: %w", err)
	}
	return count > 0, nil
}

// ListSweets returns a page of catalog entries ordered by ID.
func (s *Store) ListSweets(ctx context.Context, offset, limit int) ([]model.Sweet, error) {
	return s.SearchSweets(ctx, model.SweetFilter{}, offset, limit)
}

// SearchSweets returns a page of entries matching every non-nil field of f.
// Name and category match case-insensitive substrings; price bounds are
// inclusive.
func (s *Store) SearchSweets(ctx context.Context, f model.SweetFilter, offset, limit int) ([]model.Sweet, error) {
	var (
		where []string
		args  []interface{}
	)
	if f.Name != nil {
		where = append(where, s.dialect.lower+"(name) LIKE ? ESCAPE '!'")
		args = append(args, likePattern(*f.Name))
	}
	if f.Category != nil {
		where = append(where, s.dialect.lower+"(category) LIKE ? ESCAPE '!'")
		args = append(args, likePattern(*f.Category))
	}
	if f.MinPrice != nil {
		where = append(where, "price >= ?")
		args = append(args, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		where = append(where, "price <= ?")
		args = append(args, *f.MaxPrice)
	}

	q := "SELECT " + sweetColumns + " FROM sweets"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY id LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	sweets := []model.Sweet{}
	if err := s.db.SelectContext(ctx, &sweets, s.db.Rebind(q), args...); err != nil {
		return nil, fmt.Errorf("search sweets: %w", err)
	}
	return sweets, nil
}

// likePattern turns a search term into a lower-cased LIKE pattern with the
// wildcards of the term escaped by '!'.
func likePattern(term string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + r.Replace(strings.ToLower(term)) + "%"
}

// UpdateSweet writes only the set fields of u and returns the updated entry.
// Columns that are not set are left as stored, so a concurrent purchase is
// never overwritten by an update that does not touch quantity.
func (s *Store) UpdateSweet(ctx context.Context, id int64, u model.SweetUpdate) (*model.Sweet, error) {
	var (
		sets []string
		args []interface{}
	)
	add := func(col string, v interface{}) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if u.Name.Set {
		add("name", u.Name.Value)
	}
	if u.Description.Set {
		add("description", u.Description.Value)
	}
	if u.Category.Set {
		add("category", u.Category.Value)
	}
	if u.Price.Set {
		add("price", u.Price.Value)
	}
	if u.Quantity.Set {
		add("quantity", u.Quantity.Value)
	}
	if u.ImageURL.Set {
		add("image_url", u.ImageURL.Value)
	}
	add("updated_at", now())
	args = append(args, id)

	var sw *model.Sweet
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		q := tx.Rebind("UPDATE sweets SET " + strings.Join(sets, ", ") + " WHERE id = ?")
		result, err := tx.ExecContext(ctx, q, args...)
		if err != nil {
			return fmt.Errorf("update sweet: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("update sweet rows affected: %w", err)
		}
		if n == 0 {
			return ErrNotFound
		}
		sw, err = getSweet(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sw, nil
}

// DeleteSweet removes a catalog entry and returns its last stored state.
func (s *Store) DeleteSweet(ctx context.Context, id int64) (*model.Sweet, error) {
	var sw *model.Sweet
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		sw, err = getSweet(ctx, tx, id)
		if err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM sweets WHERE id = ?"), id)
		if err != nil {
			return fmt.Errorf("delete sweet: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete sweet rows affected: %w", err)
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sw, nil
}

// AdjustQuantity adds delta (negative for a purchase) to the stock of an
// entry and returns the entry after the change. The check and the write are
// one conditional UPDATE, so concurrent adjustments of the same entry cannot
// lose updates or drive the quantity below zero. A decrement larger than the
// stock yields ErrInsufficientStock and an increment past model.MaxQuantity
// yields ErrStockOverflow; both leave the row unchanged.
func (s *Store) AdjustQuantity(ctx context.Context, id int64, delta int) (*model.Sweet, error) {
	if delta > model.MaxQuantity || delta < -model.MaxQuantity {
		if _, err := s.GetSweet(ctx, id); err != nil {
			return nil, err
		}
		if delta > 0 {
			return nil, ErrStockOverflow
		}
		return nil, ErrInsufficientStock
	}
	var sw *model.Sweet
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		// Bounds are on the current value so no sum is computed outside the
		// 32-bit column range.
		lo, hi := 0, model.MaxQuantity
		if delta < 0 {
			lo = -delta
		} else {
			hi -= delta
		}
		const q = `UPDATE sweets SET quantity = quantity + ?, updated_at = ?
			WHERE id = ? AND quantity >= ? AND quantity <= ?`
		result, err := tx.ExecContext(ctx, tx.Rebind(q), delta, now(), id, lo, hi)
		if err != nil {
			return fmt.Errorf("adjust quantity: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("adjust quantity rows affected: %w", err)
		}
		if n == 0 {
			// Either the row is gone or the guard rejected the change.
			if _, err := getSweet(ctx, tx, id); err != nil {
				return err
			}
			if delta > 0 {
				return ErrStockOverflow
			}
			return ErrInsufficientStock
		}
		sw, err = getSweet(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sw, nil
}
