// Package testkit supports end-to-end API tests: a throwaway SQLite
// database with the full schema, an HTTP client that keeps cookies between
// calls, and a runner for JSON scenario files.
//
//	db := testkit.NewDB(t)
//	client := testkit.NewClient(t, newHandler(t, db))
//	testkit.RunDir(t, "testdata", newHandler)
package testkit

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/marketplace/config"
	"github.com/shashiranjanraj/marketplace/database/migrations"
	"github.com/shashiranjanraj/marketplace/pkg/database"
	"github.com/shashiranjanraj/marketplace/pkg/logger"
	"github.com/shashiranjanraj/marketplace/pkg/migration"
)

var dbSeq atomic.Int64

// NewDB opens a private in-memory SQLite database, applies every migration
// and closes it when the test ends.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))

	db, err := database.Open(config.DatabaseConfig{Driver: "sqlite", DSN: dsn}, nil)
	require.NoError(t, err, "testkit: open sqlite")
	t.Cleanup(func() { _ = database.Close(db) })

	_, err = migration.New(db, migrations.All(), nil, logger.Discard()).Run(context.Background())
	require.NoError(t, err, "testkit: migrate")
	return db
}
