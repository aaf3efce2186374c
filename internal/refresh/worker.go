// Package refresh periodically re-syncs the in-memory store from the
// backing database. Reloads touch the read path only; mutations always
// go through the store's optimistic write path.
package refresh

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/localgov-gh/revhub/internal/store"
)

type Params struct {
	fx.In

	Store  *store.Store
	Source store.BulkSource
	Log    *zap.Logger
	Config Config `optional:"true"`
}

type Worker struct {
	store  *store.Store
	source store.BulkSource
	log    *zap.Logger
	cfg    Config
}

func NewWorker(p Params) *Worker {
	return &Worker{
		store:  p.Store,
		source: p.Source,
		log:    p.Log.Named("refresh"),
		cfg:    p.Config.withDefaults(),
	}
}

func (w *Worker) RunForever(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if err := w.RunOnce(ctx); err != nil {
			w.log.Warn("periodic reload incomplete", zap.Error(err))
		}
	}
}

func (w *Worker) RunOnce(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return w.store.Load(ctx, w.source)
}
