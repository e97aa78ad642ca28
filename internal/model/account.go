package model

import "time"

// Account is a registered user of the shop. Passwords are stored as bcrypt
// hashes and never leave the server.
type Account struct {
	ID             int64      `json:"id" db:"id"`
	Email          string     `json:"email" db:"email"`
	FullName       string     `json:"full_name" db:"full_name"`
	HashedPassword string     `json:"-" db:"hashed_password"`
	IsActive       bool       `json:"is_active" db:"is_active"`
	IsAdmin        bool       `json:"is_admin" db:"is_admin"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at" db:"updated_at"`
}

// Registration is the payload accepted by the register endpoint.
type Registration struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	FullName string `json:"full_name" validate:"required"`
}

// Validate checks the registration payload.
func (r *Registration) Validate() error {
	return validateStruct(r)
}

// Credentials is the payload accepted by the login endpoint.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Validate checks the login payload.
func (c *Credentials) Validate() error {
	return validateStruct(c)
}

// AccountUpdate carries the profile fields an account update may change.
// Only fields marked as set are applied.
type AccountUpdate struct {
	Email    Optional[string] `json:"email"`
	FullName Optional[string] `json:"full_name"`
	Password Optional[string] `json:"password"`
	IsActive Optional[bool]   `json:"is_active"`
}

// Validate checks the fields that are set.
func (u *AccountUpdate) Validate() error {
	if u.Email.Set {
		if err := validate.Var(u.Email.Value, "required,email"); err != nil {
			return NewValidationError("email", "value is not a valid email address")
		}
	}
	if u.FullName.Set && u.FullName.Value == "" {
		return NewValidationError("full_name", "field required")
	}
	if u.Password.Set && u.Password.Value == "" {
		return NewValidationError("password", "field required")
	}
	return nil
}

// Token is the login response body.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
