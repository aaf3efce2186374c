package store

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/localgov-gh/revhub/internal/clock"
	"github.com/localgov-gh/revhub/internal/codes"
)

type Param struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Codegen *codes.Generator
	Clock   clock.Clock
}

func provideStore(p Param) (*Store, BulkSource) {
	s := New(NewGormRemote(p.DB), p.GenID, p.Codegen, p.Clock, p.Log)
	return s, NewGormBulkSource(p.DB)
}

var Module = fx.Module("store",
	fx.Provide(codes.NewGenerator),
	fx.Provide(provideStore),
	fx.Invoke(func(lc fx.Lifecycle, s *Store, source BulkSource, log *zap.Logger) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				if err := s.Load(ctx, source); err != nil {
					// Partial loads degrade to empty collections but the
					// process still serves what it has.
					log.Warn("initial bulk load incomplete", zap.Error(err))
				}
				return nil
			},
		})
	}),
)
