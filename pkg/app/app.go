// Package app provides the application runner: a builder that collects the
// project's routes, models, migrations, seeders and boot hooks, and a cobra
// CLI that serves, migrates and seeds with them.
//
// # Usage
//
//	func main() {
//	    app.New("marketplace").
//	        Routes(func(r *router.Router, k *app.Kernel) {
//	            routes.RegisterAPI(r, routes.NewDeps(k))
//	        }).
//	        AutoMigrate(migrations.Models()...).
//	        Migrations(migrations.All()...).
//	        Seeders(seeders.All()...).
//	        Run()
//	}
//
// Then:
//
//	marketplace serve
//	marketplace migrate
//	marketplace seed
//	marketplace route:list
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/marketplace/config"
	"github.com/shashiranjanraj/marketplace/pkg/database"
	"github.com/shashiranjanraj/marketplace/pkg/logger"
	"github.com/shashiranjanraj/marketplace/pkg/metrics"
	"github.com/shashiranjanraj/marketplace/pkg/migration"
	"github.com/shashiranjanraj/marketplace/pkg/router"
)

// Kernel is what the process builds once at startup and hands to route
// callbacks and hooks. DB is nil for commands that need no database.
type Kernel struct {
	Config  *config.Config
	Log     *slog.Logger
	Metrics *metrics.Metrics
	DB      *gorm.DB
}

// Close releases the database connection, if any.
func (k *Kernel) Close() error {
	if k.DB == nil {
		return nil
	}
	return database.Close(k.DB)
}

// RouteFunc registers routes on r using the kernel's resources.
type RouteFunc func(r *router.Router, k *Kernel)

// BootFunc runs after the database is ready and before the server listens.
type BootFunc func(ctx context.Context, k *Kernel) error

// Seeder inserts demo or reference rows.
type Seeder struct {
	Name string
	Run  func(ctx context.Context, db *gorm.DB) error
}

// ─── Application Builder ──────────────────────────────────────────────────────

// Application is the central configuration object for the project.
// Build one with New(), attach your configuration, then call Run().
type Application struct {
	name       string
	routesFns  []RouteFunc
	models     []any
	migrations []migration.Migration
	seeders    []Seeder
	boots      []BootFunc
	out        io.Writer
	loadConfig func() (*config.Config, error)
}

// New creates an Application. name is the CLI binary name.
func New(name string) *Application {
	return &Application{
		name:       name,
		out:        os.Stdout,
		loadConfig: func() (*config.Config, error) { return config.Load() },
	}
}

// Routes registers a route-registration callback that will be called when
// the HTTP kernel is built. Callbacks run in the order they were added.
func (a *Application) Routes(fn RouteFunc) *Application {
	a.routesFns = append(a.routesFns, fn)
	return a
}

// AutoMigrate adds GORM models that are auto-migrated on serve when the
// security policy allows schema auto-creation (DEV only).
func (a *Application) AutoMigrate(models ...any) *Application {
	a.models = append(a.models, models...)
	return a
}

// Migrations sets the versioned migrations used by the migrate commands.
func (a *Application) Migrations(ms ...migration.Migration) *Application {
	a.migrations = append(a.migrations, ms...)
	return a
}

// Seeders registers seeders run by the seed command, in order.
func (a *Application) Seeders(s ...Seeder) *Application {
	a.seeders = append(a.seeders, s...)
	return a
}

// OnBoot registers a hook run by serve after the schema step.
func (a *Application) OnBoot(fn BootFunc) *Application {
	a.boots = append(a.boots, fn)
	return a
}

// WithConfig replaces the environment loader, e.g. in tests.
func (a *Application) WithConfig(load func() (*config.Config, error)) *Application {
	a.loadConfig = load
	return a
}

// Output redirects command output.
func (a *Application) Output(w io.Writer) *Application {
	a.out = w
	return a
}

// Run executes the CLI with os.Args and exits non-zero on error.
// This is the only function you need to call from main().
func (a *Application) Run() {
	if err := a.Command().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// Kernel loads the configuration and, when withDB is set, opens the
// database. The caller must Close it.
func (a *Application) Kernel(withDB bool) (*Kernel, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	k := &Kernel{
		Config:  cfg,
		Log:     logger.FromConfig(cfg),
		Metrics: metrics.New(metricsNamespace(cfg.AppName)),
	}
	if !withDB {
		return k, nil
	}

	dbCfg, err := cfg.Database()
	if err != nil {
		return nil, err
	}
	if k.DB, err = database.Open(dbCfg, k.Metrics); err != nil {
		return nil, err
	}
	k.Log.Debug("database connected", "driver", dbCfg.Driver)
	return k, nil
}

// Boot applies the schema policy and runs the boot hooks.
func (a *Application) Boot(ctx context.Context, k *Kernel) error {
	ctx = logger.InjectLogger(ctx, k.Log)
	policy := k.Config.Policy()
	if policy.AutoCreateSchema && len(a.models) > 0 {
		if err := k.DB.WithContext(ctx).AutoMigrate(a.models...); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
		k.Log.Info("schema auto-created", "models", len(a.models))
	}
	for _, fn := range a.boots {
		if err := fn(ctx, k); err != nil {
			return err
		}
	}
	return nil
}

func (a *Application) migrator(k *Kernel) *migration.Runner {
	return migration.New(k.DB, a.migrations, a.out, k.Log)
}

// metricsNamespace turns an app name into a valid Prometheus namespace.
func metricsNamespace(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
			out = append(out, r)
		case r >= '0' && r <= '9':
			if len(out) > 0 {
				out = append(out, r)
			}
		default:
			out = append(out, '_')
		}
	}
	if len(out) == 0 {
		return "app"
	}
	return string(out)
}
