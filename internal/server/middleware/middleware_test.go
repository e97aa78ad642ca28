package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sweetshop/sweetshop/internal/model"
	"github.com/sweetshop/sweetshop/internal/service"
	"github.com/sweetshop/sweetshop/internal/store"
)

// ---------------------------------------------------------------------------
// RequestID middleware tests
// ---------------------------------------------------------------------------

func TestRequestIDGeneratesUUID(t *testing.T) {
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetRequestID(r.Context()) == "" {
			t.Error("expected non-empty request ID in context")
		}
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/test", nil))

	respID := rr.Header().Get("X-Request-ID")
	if len(respID) != 36 {
		t.Errorf("expected UUID-length request ID, got %q (len=%d)", respID, len(respID))
	}
}

func TestRequestIDClientValue(t *testing.T) {
	tests := []struct {
		name string
		id   string
		keep bool
	}{
		{"token", "my-custom-trace-id-123", true},
		{"spaces", "has spaces", false},
		{"too long", strings.Repeat("x", 129), false},
		{"control chars", "abc\x01", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
			req := httptest.NewRequest("GET", "/test", nil)
			req.Header.Set("X-Request-ID", tt.id)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			got := rr.Header().Get("X-Request-ID")
			if tt.keep && got != tt.id {
				t.Errorf("expected %q to be kept, got %q", tt.id, got)
			}
			if !tt.keep && got == tt.id {
				t.Errorf("expected %q to be replaced", tt.id)
			}
		})
	}
}

func TestGetRequestIDEmptyContext(t *testing.T) {
	if id := GetRequestID(context.Background()); id != "" {
		t.Errorf("expected empty string from bare context, got %q", id)
	}
}

// ---------------------------------------------------------------------------
// Logger middleware tests
// ---------------------------------------------------------------------------

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	status := http.StatusOK
	handler := RequestID(Logger(logger, "/health")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte("ok"))
	})))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/health", nil))
	if buf.Len() != 0 {
		t.Errorf("health check should log at debug, got %q", buf.String())
	}

	status = http.StatusNotFound
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/missing", nil))
	out := buf.String()
	for _, want := range []string{"level=WARN", "status=404", "path=/missing", "bytes=2", "request_id="} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q missing %q", out, want)
		}
	}
}

// ---------------------------------------------------------------------------
// Authenticate / RequireAdmin middleware tests
// ---------------------------------------------------------------------------

type authEnv struct {
	gate     *service.Gate
	tokens   *service.TokenService
	accounts *service.AccountService
	logger   *slog.Logger
}

func newAuthEnv(t *testing.T) *authEnv {
	t.Helper()
	st, err := store.Open(context.Background(), "")
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens, err := service.NewTokenService("middleware-test-secret", "HS256", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	accounts := service.NewAccountService(st, service.NewHasher(bcrypt.MinCost, logger), logger)
	return &authEnv{
		gate:     service.NewGate(tokens, accounts),
		tokens:   tokens,
		accounts: accounts,
		logger:   logger,
	}
}

func (e *authEnv) account(t *testing.T, email string) (*model.Account, string) {
	t.Helper()
	a, err := e.accounts.Register(context.Background(), model.Registration{
		Email: email, Password: "pw", FullName: "Someone",
	})
	if err != nil {
		t.Fatal(err)
	}
	token, err := e.tokens.IssueDefault(a.ID)
	if err != nil {
		t.Fatal(err)
	}
	return a, token
}

func TestAuthenticate(t *testing.T) {
	env := newAuthEnv(t)
	user, token := env.account(t, "user@example.com")
	idle, idleToken := env.account(t, "idle@example.com")
	if _, err := env.accounts.SetActive(context.Background(), idle.ID, false); err != nil {
		t.Fatal(err)
	}

	var seen *model.Account
	handler := Authenticate(env.gate, env.logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetAccount(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name      string
		header    string
		status    int
		challenge bool
	}{
		{"valid", "Bearer " + token, http.StatusOK, false},
		{"lowercase scheme", "bearer " + token, http.StatusOK, false},
		{"missing", "", http.StatusUnauthorized, true},
		{"basic scheme", "Basic dXNlcjpwdw==", http.StatusUnauthorized, true},
		{"garbage", "Bearer garbage", http.StatusUnauthorized, true},
		{"inactive", "Bearer " + idleToken, http.StatusBadRequest, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest("GET", "/users/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.status {
				t.Fatalf("status: got %d, want %d (body %s)", rr.Code, tt.status, rr.Body.String())
			}
			if got := rr.Header().Get("WWW-Authenticate") == "Bearer"; got != tt.challenge {
				t.Errorf("WWW-Authenticate challenge = %v, want %v", got, tt.challenge)
			}
			if tt.status == http.StatusOK {
				if seen == nil || seen.ID != user.ID {
					t.Errorf("context account = %+v, want id %d", seen, user.ID)
				}
				return
			}
			var body model.ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if body.Error.Code != tt.status || body.Error.Message == "" {
				t.Errorf("error body = %+v", body)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	env := newAuthEnv(t)
	admin, _, err := env.accounts.EnsureAdmin(context.Background(), "admin@example.com", "pw", "Admin")
	if err != nil {
		t.Fatal(err)
	}
	user, _ := env.account(t, "plain@example.com")

	called := false
	handler := RequireAdmin(env.gate)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name    string
		account *model.Account
		status  int
	}{
		{"admin", admin, http.StatusOK},
		{"non-admin", user, http.StatusForbidden},
		{"unauthenticated", nil, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called = false
			req := httptest.NewRequest("DELETE", "/sweets/1", nil)
			if tt.account != nil {
				req = req.WithContext(WithAccount(req.Context(), tt.account))
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.status {
				t.Errorf("status: got %d, want %d", rr.Code, tt.status)
			}
			if called != (tt.status == http.StatusOK) {
				t.Errorf("inner handler called = %v", called)
			}
		})
	}
}

func TestGetAccountEmptyContext(t *testing.T) {
	if a := GetAccount(context.Background()); a != nil {
		t.Errorf("expected nil account from bare context, got %+v", a)
	}
}

// ---------------------------------------------------------------------------
// RateLimit middleware tests
// ---------------------------------------------------------------------------

func TestRateLimit(t *testing.T) {
	handler := RateLimit(2)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("POST", "/auth/login", nil)
		req.RemoteAddr = "203.0.113.7:5555"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	if codes[0] != 200 || codes[1] != 200 || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [200 200 429]", codes)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	handler := RateLimit(0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	for i := 0; i < 50; i++ {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("POST", "/auth/login", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("request %d: got %d", i, rr.Code)
		}
	}
}
