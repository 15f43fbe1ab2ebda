// Package config loads the process configuration once at startup.
//
// Values come from the environment, optionally seeded from a .env file.
// The resulting *Config is passed explicitly to every component that needs
// it; nothing in this package is global.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Config is the full set of recognised options.
type Config struct {
	AppName string `env:"APP_NAME,default=marketplace"`
	AppPort string `env:"APP_PORT,default=8080"`

	DatabaseURL string `env:"DATABASE_URL,required"`
	SecretKey   string `env:"SECRET_KEY,required"`
	Debug       bool   `env:"DEBUG,default=false"`
	LogLevel    string `env:"LOG_LEVEL"`

	AccessTokenExpireMinutes int `env:"ACCESS_TOKEN_EXPIRE_MINUTES,default=10080"`
	RefreshTokenExpireDays   int `env:"REFRESH_TOKEN_EXPIRE_DAYS,default=7"`

	SuperadminHandle   string `env:"SUPERADMIN_HANDLE"`
	SuperadminEmail    string `env:"SUPERADMIN_EMAIL"`
	SuperadminPassword string `env:"SUPERADMIN_PASSWORD"`

	// Comma-separated; envdecode splits slices on ';' so this stays raw.
	CORSOrigins string `env:"BACKEND_CORS_ORIGINS"`

	// Requests per minute per client IP on login, register and refresh.
	// Zero disables the limit.
	LoginRateLimit int `env:"LOGIN_RATE_LIMIT,default=20"`

	MaxBodyBytes    int64         `env:"MAX_BODY_BYTES,default=4194304"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
}

// Load reads the given .env files (missing files are ignored) and decodes
// the environment into a Config. With no paths it tries ".env".
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envdecode.StrictDecode(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the cross-field rules envdecode cannot express.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.SecretKey) == "" {
		return errors.New("config: SECRET_KEY must not be empty")
	}
	if c.AccessTokenExpireMinutes <= 0 {
		return errors.New("config: ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}
	if c.RefreshTokenExpireDays <= 0 {
		return errors.New("config: REFRESH_TOKEN_EXPIRE_DAYS must be positive")
	}
	if c.LoginRateLimit < 0 {
		return errors.New("config: LOGIN_RATE_LIMIT must not be negative")
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = 4 << 20
	}
	if _, err := c.Database(); err != nil {
		return err
	}
	return nil
}

// AccessTTL is the lifetime of an access token.
func (c *Config) AccessTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

// RefreshTTL is the lifetime of a refresh token.
func (c *Config) RefreshTTL() time.Duration {
	return time.Duration(c.RefreshTokenExpireDays) * 24 * time.Hour
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + strings.TrimPrefix(c.AppPort, ":")
}

// AllowedOrigins splits BACKEND_CORS_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, strings.TrimRight(o, "/"))
		}
	}
	return out
}

// Policy resolves the DEV/PROD security policy.
func (c *Config) Policy() SecurityPolicy {
	return PolicyFor(c.Debug)
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to debug in DEV.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	if c.Debug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// DatabaseConfig is the driver/DSN pair derived from DATABASE_URL.
type DatabaseConfig struct {
	Driver string
	DSN    string
}

// Database derives the gorm driver name and driver-native DSN from
// DATABASE_URL. SQLAlchemy-style driver suffixes ("postgresql+asyncpg://")
// are stripped, so one URL serves both the server and the migration tool.
func (c *Config) Database() (DatabaseConfig, error) {
	return ParseDatabaseURL(c.DatabaseURL)
}

// ParseDatabaseURL is the pure form of Config.Database.
func ParseDatabaseURL(raw string) (DatabaseConfig, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DatabaseConfig{}, errors.New("config: DATABASE_URL is empty")
	}

	scheme, rest, hasScheme := strings.Cut(raw, "://")
	if !hasScheme {
		// Bare paths and sqlite pseudo-DSNs.
		return DatabaseConfig{Driver: "sqlite", DSN: raw}, nil
	}
	scheme, _, _ = strings.Cut(strings.ToLower(scheme), "+")

	switch scheme {
	case "postgres", "postgresql":
		return DatabaseConfig{Driver: "postgres", DSN: "postgres://" + rest}, nil
	case "mysql", "mariadb":
		dsn, err := mysqlDSN(rest)
		if err != nil {
			return DatabaseConfig{}, err
		}
		return DatabaseConfig{Driver: "mysql", DSN: dsn}, nil
	case "sqlserver", "mssql":
		return DatabaseConfig{Driver: "sqlserver", DSN: "sqlserver://" + rest}, nil
	case "sqlite", "sqlite3", "file":
		if rest == "" {
			return DatabaseConfig{}, errors.New("config: sqlite DATABASE_URL needs a path")
		}
		return DatabaseConfig{Driver: "sqlite", DSN: rest}, nil
	default:
		return DatabaseConfig{}, fmt.Errorf("config: unsupported DATABASE_URL scheme %q (supported: postgres, mysql, sqlserver, sqlite)", scheme)
	}
}

// mysqlDSN turns "user:pass@host:3306/db?x=y" into the go-sql-driver form
// "user:pass@tcp(host:3306)/db?x=y&parseTime=true".
func mysqlDSN(rest string) (string, error) {
	u, err := url.Parse("mysql://" + rest)
	if err != nil {
		return "", fmt.Errorf("config: parse mysql DATABASE_URL: %w", err)
	}

	host := u.Host
	if u.Port() == "" {
		host += ":3306"
	}

	q := u.Query()
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "true")
	}
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}

	var creds string
	if u.User != nil {
		creds = u.User.Username()
		if pw, ok := u.User.Password(); ok {
			creds += ":" + pw
		}
		creds += "@"
	}

	return fmt.Sprintf("%stcp(%s)%s?%s", creds, host, u.Path, q.Encode()), nil
}
