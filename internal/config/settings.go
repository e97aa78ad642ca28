// Package config builds the immutable runtime settings of the service from
// flags, environment variables and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Settings is constructed once at process start and passed to the components
// that need it. Nothing reads configuration from globals after that.
type Settings struct {
	Server   ServerSettings
	Auth     AuthSettings
	Database DatabaseSettings
	Admin    AdminSettings
	Logging  LoggingSettings
}

// ServerSettings controls the HTTP listener.
type ServerSettings struct {
	Host            string
	Port            int
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

// AuthSettings controls password hashing and token signing.
type AuthSettings struct {
	SecretKey      string
	Algorithm      string
	AccessTokenTTL time.Duration
	BcryptCost     int
	LoginRateLimit int // requests per minute per IP; 0 disables
}

// DatabaseSettings selects the backing store.
type DatabaseSettings struct {
	URL string
}

// AdminSettings are the credentials of the bootstrap administrator.
type AdminSettings struct {
	Email    string
	Password string
	FullName string
}

// LoggingSettings controls log output.
type LoggingSettings struct {
	Level  string
	Format string
}

// DefaultSecretKey is the development signing key. Load warns callers through
// Settings.InsecureSecret when it is still in use.
const DefaultSecretKey = "your-super-secret-key-change-this-in-production"

var supportedAlgorithms = map[string]bool{"HS256": true, "HS384": true, "HS512": true}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.shutdown_timeout", "30s")

	v.SetDefault("auth.secret_key", DefaultSecretKey)
	v.SetDefault("auth.algorithm", "HS256")
	v.SetDefault("auth.access_token_expire_minutes", 30)
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("auth.login_rate_limit", 20)

	v.SetDefault("database.url", "")

	v.SetDefault("admin.email", "admin@sweetshop.com")
	v.SetDefault("admin.password", "admin123")
	v.SetDefault("admin.full_name", "System Administrator")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Load reads every key from v and validates the result.
func Load(v *viper.Viper) (Settings, error) {
	shutdown, err := time.ParseDuration(v.GetString("server.shutdown_timeout"))
	if err != nil {
		return Settings{}, fmt.Errorf("server.shutdown_timeout: %w", err)
	}

	s := Settings{
		Server: ServerSettings{
			Host:            v.GetString("server.host"),
			Port:            v.GetInt("server.port"),
			CORSOrigins:     v.GetStringSlice("server.cors_origins"),
			ShutdownTimeout: shutdown,
		},
		Auth: AuthSettings{
			SecretKey:      v.GetString("auth.secret_key"),
			Algorithm:      v.GetString("auth.algorithm"),
			AccessTokenTTL: time.Duration(v.GetInt("auth.access_token_expire_minutes")) * time.Minute,
			BcryptCost:     v.GetInt("auth.bcrypt_cost"),
			LoginRateLimit: v.GetInt("auth.login_rate_limit"),
		},
		Database: DatabaseSettings{
			URL: v.GetString("database.url"),
		},
		Admin: AdminSettings{
			Email:    v.GetString("admin.email"),
			Password: v.GetString("admin.password"),
			FullName: v.GetString("admin.full_name"),
		},
		Logging: LoggingSettings{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
		},
	}

	if s.Database.URL == "" {
		s.Database.URL = databaseURLFromEnv()
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks the settings for values the service cannot run with.
func (s Settings) Validate() error {
	var errs []error
	if s.Server.Port <= 0 || s.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", s.Server.Port))
	}
	if s.Auth.SecretKey == "" {
		errs = append(errs, errors.New("auth.secret_key must not be empty"))
	}
	if !supportedAlgorithms[s.Auth.Algorithm] {
		errs = append(errs, fmt.Errorf("auth.algorithm %q not supported (use HS256, HS384 or HS512)", s.Auth.Algorithm))
	}
	if s.Auth.AccessTokenTTL < 0 {
		errs = append(errs, errors.New("auth.access_token_expire_minutes must not be negative"))
	}
	if s.Auth.BcryptCost < 4 || s.Auth.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("auth.bcrypt_cost %d out of range 4..31", s.Auth.BcryptCost))
	}
	return errors.Join(errs...)
}

// InsecureSecret reports whether the development signing key is in use.
func (s Settings) InsecureSecret() bool {
	return s.Auth.SecretKey == DefaultSecretKey
}

// databaseURLFromEnv prefers DATABASE_URL and otherwise assembles a
// PostgreSQL URL from the POSTGRES_* variables used by the container setup.
func databaseURLFromEnv() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	user := os.Getenv("POSTGRES_USER")
	password := os.Getenv("POSTGRES_PASSWORD")
	db := os.Getenv("POSTGRES_DB")
	if user == "" || password == "" || db == "" {
		return ""
	}
	host := os.Getenv("POSTGRES_HOST")
	if host == "" {
		host = "db"
	}
	port := os.Getenv("POSTGRES_PORT")
	if port == "" {
		port = "5432"
	}
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s", user, password, host, port, db)
}
