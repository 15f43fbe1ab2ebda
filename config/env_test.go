package config_test

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/marketplace/config"
)

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgresql+asyncpg://app:secret@db:5432/market")
	t.Setenv("SECRET_KEY", "s3cr3t")
	t.Setenv("DEBUG", "true")
	t.Setenv("BACKEND_CORS_ORIGINS", "http://localhost:3000, https://shop.example.com/")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "30")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, 30*time.Minute, cfg.AccessTTL())
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTTL())
	assert.Equal(t, []string{"http://localhost:3000", "https://shop.example.com"}, cfg.AllowedOrigins())
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 20, cfg.LoginRateLimit)

	db, err := cfg.Database()
	require.NoError(t, err)
	assert.Equal(t, "postgres", db.Driver)
	assert.Equal(t, "postgres://app:secret@db:5432/market", db.DSN)
}

func TestLoadReadsDotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("APP_PORT=9090\nMAX_BODY_BYTES=1024\n"), 0o600))

	t.Setenv("DATABASE_URL", "sqlite://market.db")
	t.Setenv("SECRET_KEY", "k")
	// godotenv never overrides variables that are already set.
	t.Setenv("APP_PORT", "")
	os.Unsetenv("APP_PORT")
	t.Setenv("MAX_BODY_BYTES", "")
	os.Unsetenv("MAX_BODY_BYTES")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr())
	assert.EqualValues(t, 1024, cfg.MaxBodyBytes)
}

func TestLoadRequiresSecretAndDatabase(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	os.Unsetenv("DATABASE_URL")
	t.Setenv("SECRET_KEY", "k")

	_, err := config.Load(filepath.Join(t.TempDir(), "none"))
	assert.Error(t, err)
}

func TestParseDatabaseURL(t *testing.T) {
	cases := []struct {
		in     string
		driver string
		dsn    string
	}{
		{"postgres://u:p@h/db", "postgres", "postgres://u:p@h/db"},
		{"postgresql+psycopg2://u:p@h:5433/db?sslmode=disable", "postgres", "postgres://u:p@h:5433/db?sslmode=disable"},
		{"mysql://root:pw@localhost/shop", "mysql", "root:pw@tcp(localhost:3306)/shop?charset=utf8mb4&parseTime=true"},
		{"sqlserver://sa:pw@localhost:1433?database=shop", "sqlserver", "sqlserver://sa:pw@localhost:1433?database=shop"},
		{"sqlite://market.db", "sqlite", "market.db"},
		{"file::memory:?cache=shared", "sqlite", "file::memory:?cache=shared"},
		{"market.db", "sqlite", "market.db"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := config.ParseDatabaseURL(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.driver, got.Driver)
			assert.Equal(t, tc.dsn, got.DSN)
		})
	}

	_, err := config.ParseDatabaseURL("oracle://x")
	assert.Error(t, err)
}

func TestPolicyFor(t *testing.T) {
	dev := config.PolicyFor(true)
	assert.False(t, dev.CookieSecure)
	assert.Equal(t, http.SameSiteLaxMode, dev.CookieSameSite)
	assert.False(t, dev.CSRFEnabled)
	assert.True(t, dev.AutoCreateSchema)
	assert.Equal(t, "dev", dev.Mode())

	prod := config.PolicyFor(false)
	assert.True(t, prod.CookieSecure)
	assert.Equal(t, http.SameSiteStrictMode, prod.CookieSameSite)
	assert.True(t, prod.CSRFEnabled)
	assert.False(t, prod.AutoCreateSchema)
	assert.Equal(t, "prod", prod.Mode())
}
