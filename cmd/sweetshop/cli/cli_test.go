package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sweetshop/sweetshop/internal/config"
	"github.com/sweetshop/sweetshop/internal/model"
	"github.com/sweetshop/sweetshop/internal/service"
	"github.com/sweetshop/sweetshop/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(context.Background(), "")
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSeedSweetsIsIdempotent(t *testing.T) {
	st := newTestStore(t)
	catalog := service.NewCatalogService(st, nil, discardLogger())
	ctx := context.Background()

	var out bytes.Buffer
	n, err := seedSweets(ctx, st, catalog, &out)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(sampleSweets) {
		t.Errorf("first seed created %d, want %d", n, len(sampleSweets))
	}

	out.Reset()
	n, err = seedSweets(ctx, st, catalog, &out)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("second seed created %d, want 0", n)
	}
	if !strings.Contains(out.String(), "Sweet already exists: Lemon Tart") {
		t.Errorf("output = %q", out.String())
	}

	all, err := catalog.List(ctx, 0, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != len(sampleSweets) {
		t.Errorf("catalog has %d entries, want %d", len(all), len(sampleSweets))
	}
	if all[0].Name != "Chocolate Cake" || all[0].Price != 15.99 || all[0].Quantity != 10 {
		t.Errorf("first sweet = %+v", all[0])
	}
}

func TestAdminCommands(t *testing.T) {
	st := newTestStore(t)
	logger := discardLogger()
	accounts := service.NewAccountService(st, service.NewHasher(4, logger), logger)
	ctx := context.Background()

	if _, err := accounts.Register(ctx, model.Registration{Email: "kid@example.com", Password: "candy", FullName: "Kid"}); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	promote := func(ctx context.Context, a *service.AccountService, id int64) (*model.Account, error) {
		return a.SetAdmin(ctx, id, true)
	}
	if err := runAccountChange(ctx, &out, accounts, "kid@example.com", promote); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "admin=yes") {
		t.Errorf("output = %q", out.String())
	}
	if err := runAccountChange(ctx, &out, accounts, "ghost@example.com", promote); err == nil {
		t.Error("expected error for unknown email")
	}

	out.Reset()
	if err := runAdminCreate(ctx, &out, accounts, "boss@example.com", "hunter2", "Boss"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Created admin user") {
		t.Errorf("output = %q", out.String())
	}
	if err := runAdminCreate(ctx, &out, accounts, "not-an-email", "pw", "X"); err == nil {
		t.Error("expected validation error")
	}

	out.Reset()
	if err := runAdminList(ctx, &out, accounts, true, true); err != nil {
		t.Fatal(err)
	}
	var admins []model.Account
	if err := json.Unmarshal(out.Bytes(), &admins); err != nil {
		t.Fatal(err)
	}
	if len(admins) != 2 {
		t.Errorf("got %d admins, want 2", len(admins))
	}
}

func TestNewLogger(t *testing.T) {
	ctx := context.Background()
	if !newLogger(config.LoggingSettings{Level: "warn"}, false).Enabled(ctx, slog.LevelWarn) {
		t.Error("warn should be enabled")
	}
	if newLogger(config.LoggingSettings{Level: "warn"}, false).Enabled(ctx, slog.LevelInfo) {
		t.Error("info should be disabled at warn level")
	}
	if !newLogger(config.LoggingSettings{Level: "error"}, true).Enabled(ctx, slog.LevelDebug) {
		t.Error("dev mode should enable debug")
	}
}

func TestVersionCommand(t *testing.T) {
	cmd := newVersionCmd("1.2.3", "abc123", "2026-01-01")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--json"})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	var info map[string]string
	if err := json.Unmarshal(out.Bytes(), &info); err != nil {
		t.Fatal(err)
	}
	if info["version"] != "1.2.3" || info["commit"] != "abc123" {
		t.Errorf("info = %v", info)
	}
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweetshop.yaml")
	cmd := newConfigInitCmd()
	cmd.SetOut(io.Discard)

	if err := runConfigInit(cmd, path, false); err != nil {
		t.Fatal(err)
	}
	if err := runConfigInit(cmd, path, false); err == nil {
		t.Error("expected error when file exists")
	}
	if err := runConfigInit(cmd, path, true); err != nil {
		t.Errorf("--force: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal(err)
	}
	if _, err := config.LoadYAMLConfig(path); err != nil {
		t.Errorf("written file does not parse: %v", err)
	}
}
