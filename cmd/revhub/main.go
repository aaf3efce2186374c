package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/localgov-gh/revhub/internal/clock"
	"github.com/localgov-gh/revhub/internal/config"
	"github.com/localgov-gh/revhub/internal/dashboard"
	"github.com/localgov-gh/revhub/internal/logger"
	"github.com/localgov-gh/revhub/internal/migration"
	"github.com/localgov-gh/revhub/internal/refresh"
	"github.com/localgov-gh/revhub/internal/seed"
	"github.com/localgov-gh/revhub/internal/server"
	"github.com/localgov-gh/revhub/internal/store"
	"github.com/localgov-gh/revhub/pkg/db"
)

var version = "dev"

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(func() *snowflake.Node {
			node, err := snowflake.NewNode(1)
			if err != nil {
				panic(err)
			}
			return node
		}),
		db.Module,
		fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := migration.RunMigrations(sqlDB); err != nil {
				return err
			}
			if cfg.SeedDemoData {
				return seed.EnsureDemoData(conn)
			}
			return nil
		}),
		clock.Module,
		store.Module,
		dashboard.Module,
		refresh.Module,
		server.Module,
	)
	app.Run()
}
