// Package service implements the account directory, token issuing, access
// checks and the inventory catalog on top of the store.
package service

import (
	"errors"

	"github.com/sweetshop/sweetshop/internal/model"
	"github.com/sweetshop/sweetshop/internal/store"
)

var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrInactiveAccount    = errors.New("inactive user")
	ErrInvalidToken       = errors.New("could not validate credentials")
	ErrUnknownSubject     = errors.New("user not found")
	ErrForbidden          = errors.New("not enough permissions")

	// Re-exported so callers of this package need not import store or model
	// to classify errors.
	ErrNotFound          = store.ErrNotFound
	ErrInsufficientStock = store.ErrInsufficientStock
	ErrValidation        = model.ErrValidation
)
