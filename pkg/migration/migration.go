// Package migration runs ordered, reversible schema changes and records
// which ones have been applied in the schema_migrations table.
//
// Migrations are passed explicitly, in order:
//
//	r := migration.New(db, migrations.All(), os.Stdout, log)
//	r.Run(ctx)      // apply every pending migration as one batch
//	r.Rollback(ctx) // undo the most recent batch
//
// The server never runs migrations; they are applied by the CLI only.
package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Migration is one named schema step.
type Migration struct {
	// Name should be timestamp-prefixed, e.g. "20260101000000_create_users".
	Name string
	Up   func(tx *gorm.DB) error
	Down func(tx *gorm.DB) error
}

type record struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (record) TableName() string { return "schema_migrations" }

// ErrUnknownMigration is returned when the tracking table names a migration
// the runner was not given.
var ErrUnknownMigration = errors.New("migration: unknown migration")

// State is one row of Status output.
type State struct {
	Name  string
	Ran   bool
	Batch int
}

// Runner executes and tracks migrations.
type Runner struct {
	db         *gorm.DB
	migrations []Migration
	out        io.Writer
	log        *slog.Logger
}

// New creates a Runner. Progress lines go to out and structured events to log.
func New(db *gorm.DB, migrations []Migration, out io.Writer, log *slog.Logger) *Runner {
	if out == nil {
		out = io.Discard
	}
	if log == nil {
		log = slog.Default()
	}
	return &Runner{db: db, migrations: migrations, out: out, log: log}
}

func (r *Runner) ensureTable(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&record{}); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}
	return nil
}

func (r *Runner) applied(ctx context.Context) (map[string]record, error) {
	var ran []record
	if err := r.db.WithContext(ctx).Find(&ran).Error; err != nil {
		return nil, fmt.Errorf("migration: load applied: %w", err)
	}
	out := make(map[string]record, len(ran))
	for _, rec := range ran {
		out[rec.Name] = rec
	}
	return out, nil
}

// Pending returns the migrations not yet applied, in the order given to New.
func (r *Runner) Pending(ctx context.Context) ([]Migration, error) {
	if err := r.ensureTable(ctx); err != nil {
		return nil, err
	}
	ran, err := r.applied(ctx)
	if err != nil {
		return nil, err
	}
	var pending []Migration
	for _, m := range r.migrations {
		if _, ok := ran[m.Name]; !ok {
			pending = append(pending, m)
		}
	}
	return pending, nil
}

// Run applies all pending migrations in a single batch. Each migration and
// its tracking row commit together.
func (r *Runner) Run(ctx context.Context) (int, error) {
	pending, err := r.Pending(ctx)
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		fmt.Fprintln(r.out, "Nothing to migrate.")
		return 0, nil
	}

	batch, err := r.lastBatch(ctx)
	if err != nil {
		return 0, err
	}
	batch++

	for _, m := range pending {
		fmt.Fprintf(r.out, "  ▶ Migrating: %s\n", m.Name)
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := m.Up(tx); err != nil {
				return err
			}
			return tx.Create(&record{Name: m.Name, Batch: batch}).Error
		})
		if err != nil {
			return 0, fmt.Errorf("migration: %s up: %w", m.Name, err)
		}
		r.log.Info("migration applied", "name", m.Name, "batch", batch)
		fmt.Fprintf(r.out, "  ✅ Migrated:  %s\n", m.Name)
	}
	return len(pending), nil
}

// Rollback reverses every migration of the most recent batch, newest first.
func (r *Runner) Rollback(ctx context.Context) (int, error) {
	if err := r.ensureTable(ctx); err != nil {
		return 0, err
	}
	batch, err := r.lastBatch(ctx)
	if err != nil {
		return 0, err
	}
	if batch == 0 {
		fmt.Fprintln(r.out, "Nothing to roll back.")
		return 0, nil
	}

	var records []record
	if err := r.db.WithContext(ctx).Where("batch = ?", batch).Order("id desc").Find(&records).Error; err != nil {
		return 0, fmt.Errorf("migration: load batch %d: %w", batch, err)
	}

	byName := make(map[string]Migration, len(r.migrations))
	for _, m := range r.migrations {
		byName[m.Name] = m
	}

	for _, rec := range records {
		m, ok := byName[rec.Name]
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrUnknownMigration, rec.Name)
		}
		fmt.Fprintf(r.out, "  ◀ Rolling back: %s\n", rec.Name)
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if m.Down != nil {
				if err := m.Down(tx); err != nil {
					return err
				}
			}
			return tx.Delete(&record{}, rec.ID).Error
		})
		if err != nil {
			return 0, fmt.Errorf("migration: %s down: %w", rec.Name, err)
		}
		r.log.Info("migration rolled back", "name", rec.Name, "batch", batch)
		fmt.Fprintf(r.out, "  ✅ Rolled back:  %s\n", rec.Name)
	}
	return len(records), nil
}

// Status reports every known migration and whether it has been applied.
func (r *Runner) Status(ctx context.Context) ([]State, error) {
	if err := r.ensureTable(ctx); err != nil {
		return nil, err
	}
	ran, err := r.applied(ctx)
	if err != nil {
		return nil, err
	}
	states := make([]State, 0, len(r.migrations))
	for _, m := range r.migrations {
		rec, ok := ran[m.Name]
		states = append(states, State{Name: m.Name, Ran: ok, Batch: rec.Batch})
	}
	return states, nil
}

// PrintStatus writes Status as a table to the runner's output.
func (r *Runner) PrintStatus(ctx context.Context) error {
	states, err := r.Status(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "%-60s  %-8s  %s\n", "Migration", "Status", "Batch")
	fmt.Fprintln(r.out, strings.Repeat("-", 80))
	for _, s := range states {
		if s.Ran {
			fmt.Fprintf(r.out, "%-60s  %-8s  %d\n", s.Name, "Ran", s.Batch)
		} else {
			fmt.Fprintf(r.out, "%-60s  %-8s  -\n", s.Name, "Pending")
		}
	}
	return nil
}

func (r *Runner) lastBatch(ctx context.Context) (int, error) {
	var batch sql.NullInt64
	if err := r.db.WithContext(ctx).Model(&record{}).Select("MAX(batch)").Row().Scan(&batch); err != nil {
		return 0, fmt.Errorf("migration: last batch: %w", err)
	}
	return int(batch.Int64), nil
}
