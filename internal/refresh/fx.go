package refresh

import (
	"context"

	"go.uber.org/fx"

	"github.com/localgov-gh/revhub/internal/config"
)

var Module = fx.Module("refresh",
	fx.Provide(func(cfg config.Config) Config {
		return Config{Interval: cfg.RefreshInterval}
	}),
	fx.Provide(NewWorker),
	fx.Invoke(runWorker),
)

func runWorker(lc fx.Lifecycle, worker *Worker) {
	// The OnStart context only covers startup and is cancelled once the
	// app is up; the worker needs one that lives until shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go worker.RunForever(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
