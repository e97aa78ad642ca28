package handler

import (
	"log/slog"
	"net/http"

	"github.com/sweetshop/sweetshop/internal/model"
	"github.com/sweetshop/sweetshop/internal/server/middleware"
	"github.com/sweetshop/sweetshop/internal/service"
)

// AuthHandler serves registration, login and the current-user endpoint.
type AuthHandler struct {
	accounts *service.AccountService
	tokens   *service.TokenService
	logger   *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(accounts *service.AccountService, tokens *service.TokenService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, tokens: tokens, logger: logger}
}

// Register creates a new account.
// POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var reg model.Registration
	if err := readJSON(r, &reg); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	account, err := h.accounts.Register(r.Context(), reg)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, account)
}

// Login exchanges credentials for a bearer token.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	if err := readJSON(r, &creds); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	if err := creds.Validate(); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	account, err := h.accounts.Authenticate(r.Context(), creds.Email, creds.Password)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	token, err := h.tokens.IssueDefault(account.ID)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, model.Token{AccessToken: token, TokenType: "bearer"})
}

// Me returns the authenticated account.
// GET /api/v1/users/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	account := middleware.GetAccount(r.Context())
	if account == nil {
		writeServiceError(w, r, h.logger, service.ErrInvalidToken)
		return
	}
	writeJSON(w, http.StatusOK, account)
}
