package db

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fatflowers/gymcore/internal/models"
	cfgpkg "github.com/fatflowers/gymcore/pkg/config"
	"github.com/fatflowers/gymcore/pkg/gormlog"
)

// Dialector picks the gorm driver for the configured database.
func Dialector(cfg cfgpkg.DBConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case cfgpkg.DBDriverPostgres:
		return postgres.Open(cfg.DSN), nil
	case cfgpkg.DBDriverSQLite:
		return sqlite.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Driver)
	}
}

// GormConfig stamps autoCreateTime/autoUpdateTime columns in UTC like every other time the
// service writes, so range queries compare like with like on sqlite's text timestamps.
func GormConfig(l logger.Interface) *gorm.Config {
	return &gorm.Config{
		Logger:  l,
		NowFunc: func() time.Time { return time.Now().UTC() },
	}
}

func NewDB(l *zap.SugaredLogger, cfg *cfgpkg.Config) (*gorm.DB, error) {
	if cfg.Database.DSN == "" {
		l.Error("database DSN is empty")
		return nil, gorm.ErrInvalidDB
	}
	dialector, err := Dialector(cfg.Database)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, GormConfig(gormlog.New(l, cfg.Database.SlowThreshold)))
	if err != nil {
		l.Errorf("failed to connect database: %v", err)
		return nil, err
	}
	if cfg.Database.Driver == cfgpkg.DBDriverSQLite {
		// sqlite serializes writers; a single connection avoids "database is locked".
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	l.Infow("connected to database", "driver", cfg.Database.Driver)
	return db, nil
}

var Module = fx.Options(
	fx.Provide(NewDB),
	fx.Invoke(AutoMigrate),
	fx.Invoke(registerDBClose),
)

// Models lists every table owned or read by the service, in migration order.
func Models() []any {
	return []any{
		&models.User{},
		&models.MembershipPlan{},
		&models.Membership{},
		&models.MembershipLog{},
		&models.CheckIn{},
		&models.Sale{},
		&models.Product{},
	}
}

// AutoMigrate runs GORM migrations on startup
func AutoMigrate(l *zap.SugaredLogger, db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		l.Errorf("automigrate failed: %v", err)
		return err
	}
	l.Infow("automigrate completed")
	return nil
}

// registerDBClose ensures the underlying *sql.DB is closed on shutdown
func registerDBClose(lc fx.Lifecycle, l *zap.SugaredLogger, gdb *gorm.DB) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			sqlDB, err := gdb.DB()
			if err != nil {
				l.Warnw("gorm: get sql.DB failed", "err", err)
				return nil
			}
			l.Infow("closing database connection pool")
			return sqlDB.Close()
		},
	})
}
