package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sweetshop/sweetshop/internal/model"
	"github.com/sweetshop/sweetshop/internal/service"
)

type contextKeyAuth string

// AccountKey is the context key for the authenticated account.
const AccountKey contextKeyAuth = "account"

// Authenticate returns an HTTP middleware that resolves the bearer token in
// the Authorization header to an active account via gate. On success the
// account is attached to the request context. Missing or invalid tokens get
// a 401 with a WWW-Authenticate challenge.
func Authenticate(gate *service.Gate, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeUnauthorized(w, "Not authenticated")
				return
			}

			account, err := gate.ResolveCaller(r.Context(), token)
			switch {
			case err == nil:
			case errors.Is(err, service.ErrInvalidToken):
				writeUnauthorized(w, "Could not validate credentials")
				return
			case errors.Is(err, service.ErrUnknownSubject):
				writeUnauthorized(w, "User not found")
				return
			case errors.Is(err, service.ErrInactiveAccount):
				writeAuthError(w, http.StatusBadRequest, "Inactive user")
				return
			default:
				logger.Error("resolve caller", "error", err, "request_id", GetRequestID(r.Context()))
				writeAuthError(w, http.StatusInternalServerError, "Internal server error")
				return
			}

			ctx := context.WithValue(r.Context(), AccountKey, account)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin returns an HTTP middleware that enforces admin-level access.
// It must be used after Authenticate in the middleware chain.
func RequireAdmin(gate *service.Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := gate.RequireAdmin(GetAccount(r.Context())); err != nil {
				writeAuthError(w, http.StatusForbidden, "Not enough permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetAccount extracts the authenticated account from the context.
// Returns nil if no account is present (i.e., unauthenticated request).
func GetAccount(ctx context.Context) *model.Account {
	if a, ok := ctx.Value(AccountKey).(*model.Account); ok {
		return a
	}
	return nil
}

// WithAccount returns a copy of ctx carrying account.
func WithAccount(ctx context.Context, account *model.Account) context.Context {
	return context.WithValue(ctx, AccountKey, account)
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeAuthError(w, http.StatusUnauthorized, message)
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{
		Error: model.ErrorDetail{Code: status, Message: message},
	})
}
