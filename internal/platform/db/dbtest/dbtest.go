// Package dbtest opens migrated in-memory sqlite databases for tests.
package dbtest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fatflowers/gymcore/internal/platform/db"
	"github.com/fatflowers/gymcore/pkg/gormlog"
)

// New returns a fresh database private to t. The connection pool is capped at one so
// concurrent goroutines serialize on sqlite instead of failing with "database is locked".
func New(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), db.GormConfig(gormlog.New(zap.NewNop().Sugar(), 0)))
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(zap.NewNop().Sugar(), gdb))
	return gdb
}
