package app_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/marketplace/config"
	"github.com/shashiranjanraj/marketplace/database/migrations"
	"github.com/shashiranjanraj/marketplace/pkg/app"
	"github.com/shashiranjanraj/marketplace/pkg/router"
	"github.com/shashiranjanraj/marketplace/pkg/testkit"
)

func testConfig(t *testing.T, debug bool) func() (*config.Config, error) {
	dbPath := filepath.Join(t.TempDir(), "app.db")
	return func() (*config.Config, error) {
		cfg := &config.Config{
			AppName:                  "marketplace-test",
			AppPort:                  "0",
			DatabaseURL:              "sqlite://" + dbPath,
			SecretKey:                "test-secret",
			Debug:                    debug,
			LogLevel:                 "error",
			AccessTokenExpireMinutes: 60,
			RefreshTokenExpireDays:   1,
			MaxBodyBytes:             1 << 20,
		}
		return cfg, cfg.Validate()
	}
}

func newApp(t *testing.T, debug bool, out *bytes.Buffer) *app.Application {
	return app.New("marketplace").
		WithConfig(testConfig(t, debug)).
		Output(out).
		AutoMigrate(migrations.Models()...).
		Migrations(migrations.All()...).
		Routes(func(r *router.Router, _ *app.Kernel) {
			r.Get("/ping", "ping", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})
		})
}

func execute(t *testing.T, a *app.Application, args ...string) error {
	t.Helper()
	cmd := a.Command()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestRouteList(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, execute(t, newApp(t, true, &out), "route:list"))

	assert.Contains(t, out.String(), "METHOD")
	assert.Regexp(t, `GET\s+/ping\s+ping`, out.String())
	assert.Regexp(t, `GET\s+/metrics\s+metrics`, out.String())
}

func TestMigrateCommands(t *testing.T) {
	var out bytes.Buffer
	a := newApp(t, false, &out)

	require.NoError(t, execute(t, a, "migrate"))
	assert.Contains(t, out.String(), "Migrated:  20260101000000_create_users_table")

	out.Reset()
	require.NoError(t, execute(t, a, "migrate:status"))
	assert.Regexp(t, `20260101000003_create_order_items_table\s+Ran\s+1`, out.String())

	out.Reset()
	require.NoError(t, execute(t, a, "migrate"))
	assert.Contains(t, out.String(), "Nothing to migrate.")

	out.Reset()
	require.NoError(t, execute(t, a, "migrate:rollback"))
	assert.Contains(t, out.String(), "Rolled back:  20260101000000_create_users_table")

	out.Reset()
	require.NoError(t, execute(t, a, "migrate:down"))
	assert.Contains(t, out.String(), "Nothing to roll back.")
}

func TestSeedCommand(t *testing.T) {
	var out bytes.Buffer
	var ran []string
	a := newApp(t, true, &out).Seeders(
		app.Seeder{Name: "first", Run: func(context.Context, *gorm.DB) error { ran = append(ran, "first"); return nil }},
		app.Seeder{Name: "broken", Run: func(context.Context, *gorm.DB) error { return errors.New("boom") }},
		app.Seeder{Name: "never", Run: func(context.Context, *gorm.DB) error { ran = append(ran, "never"); return nil }},
	)

	err := execute(t, a, "seed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `seeder "broken"`)
	assert.Equal(t, []string{"first"}, ran)
	assert.Contains(t, out.String(), "Running seeder: broken … FAILED")
}

func TestBootFollowsSchemaPolicy(t *testing.T) {
	for _, debug := range []bool{true, false} {
		var out bytes.Buffer
		booted := false
		a := newApp(t, debug, &out).OnBoot(func(context.Context, *app.Kernel) error {
			booted = true
			return nil
		})

		k, err := a.Kernel(true)
		require.NoError(t, err)
		require.NoError(t, a.Boot(context.Background(), k))

		assert.True(t, booted)
		assert.Equal(t, debug, k.DB.Migrator().HasTable("products"), "debug=%v", debug)
		require.NoError(t, k.Close())
	}
}

func TestOperationalEndpoints(t *testing.T) {
	var out bytes.Buffer
	a := newApp(t, true, &out)
	k, err := a.Kernel(true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = k.Close() })

	c := testkit.NewClient(t, a.Handler(k))

	res := c.Get("/healthz")
	require.Equal(t, http.StatusOK, res.Code, res.String())
	assert.Equal(t, "up", res.JSON("data.database").String())
	assert.NotEmpty(t, res.Header.Get("X-Request-ID"))

	assert.Equal(t, http.StatusNoContent, c.Get("/ping").Code)

	res = c.Get("/nope")
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.EqualValues(t, 404, res.JSON("status").Int())

	res = c.Post("/ping", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, res.Code)
	assert.Equal(t, "Method not allowed", res.JSON("message").String())

	res = c.Get("/metrics")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.String(), "marketplace_test_http_requests_total")
}

func TestKernelConfigError(t *testing.T) {
	a := app.New("marketplace").WithConfig(func() (*config.Config, error) {
		return nil, errors.New("config: DATABASE_URL is empty")
	})
	_, err := a.Kernel(false)
	assert.EqualError(t, err, "config: DATABASE_URL is empty")
}
