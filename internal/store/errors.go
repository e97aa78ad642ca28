package store

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when an insert or update violates a unique
	// constraint.
	ErrDuplicate = errors.New("duplicate key")

	// ErrInsufficientStock is returned when a stock decrement would take the
	// quantity below zero.
	ErrInsufficientStock = errors.New("insufficient quantity in stock")

	// ErrStockOverflow is returned when an increment would take the quantity
	// above model.MaxQuantity.
	ErrStockOverflow = errors.New("quantity exceeds maximum stock")
)

// isUniqueViolation reports whether err is a unique-constraint violation from
// any of the supported drivers.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	var sqErr *sqlite.Error
	if errors.As(err, &sqErr) {
		switch sqErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}
	return false
}
