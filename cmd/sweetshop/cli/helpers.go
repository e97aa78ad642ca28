package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/sweetshop/sweetshop/internal/config"
	"github.com/sweetshop/sweetshop/internal/store"
)

// defaultDatabaseURL is used when neither the config nor the environment
// names a database.
const defaultDatabaseURL = "data/sweetshop.db"

// loadSettings reads the effective settings from viper.
func loadSettings() (config.Settings, error) {
	settings, err := config.Load(viper.GetViper())
	if err != nil {
		return config.Settings{}, fmt.Errorf("load config: %w", err)
	}
	if settings.Database.URL == "" {
		settings.Database.URL = defaultDatabaseURL
	}
	return settings, nil
}

// newLogger builds the process logger. dev forces debug level.
func newLogger(s config.LoggingSettings, dev bool) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(s.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if dev {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(s.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// openStore opens the configured database and applies the schema.
func openStore(ctx context.Context, settings config.Settings) (*store.Store, error) {
	st, err := store.Open(ctx, settings.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

// versionString returns a display version string.
func versionString() string {
	if appVersion == "" || appVersion == "dev" {
		return "dev"
	}
	if strings.HasPrefix(appVersion, "v") {
		return appVersion
	}
	return "v" + appVersion
}
