package service

import (
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes is the bcrypt input limit.
const maxPasswordBytes = 72

// Hasher hashes and verifies passwords with bcrypt.
type Hasher struct {
	cost   int
	logger *slog.Logger
}

// NewHasher returns a Hasher using the given bcrypt cost. A cost of zero
// selects bcrypt.DefaultCost.
func NewHasher(cost int, logger *slog.Logger) *Hasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Hasher{cost: cost, logger: logger}
}

// HashPassword returns a salted bcrypt hash of password. Inputs longer than
// 72 bytes are truncated first.
func (h *Hasher) HashPassword(password string) (string, error) {
	normalized := truncatePassword(password)
	if len(normalized) != len(password) {
		h.logger.Warn("password exceeds bcrypt limit, truncating",
			"bytes", len(password), "limit", maxPasswordBytes)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(normalized), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches hash. The same truncation
// as HashPassword is applied. Malformed hashes never match.
func (h *Hasher) VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(truncatePassword(password))) == nil
}

// truncatePassword cuts password to at most 72 bytes without leaving a
// partial UTF-8 sequence at the end.
func truncatePassword(password string) string {
	if len(password) <= maxPasswordBytes {
		return password
	}
	return strings.ToValidUTF8(password[:maxPasswordBytes], "")
}
