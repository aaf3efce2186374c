// Package db provides the gorm connection to the remote store.
package db

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/localgov-gh/revhub/internal/config"
)

// Open connects to the configured database. SQLite is the OSS default;
// the DSN decides the actual file or in-memory target.
func Open(cfg config.Config, log *zap.Logger) (*gorm.DB, error) {
	dsn := cfg.DatabaseDSN
	if dsn == "" {
		dsn = "file:revhub.db?cache=shared"
	}
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	log.Info("database connected", zap.String("dsn", dsn))
	return conn, nil
}

var Module = fx.Module("db",
	fx.Provide(Open),
)
