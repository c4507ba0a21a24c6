package recalc

import (
	"context"

	"github.com/jewelleryos/aurum/internal/recalc/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("recalc",
	fx.Provide(
		ProvideConfig,
		repository.NewRepository,
		New,
	),
	fx.Invoke(Register),
)

// Register wires the scheduler's loop lifetime to the application lifetime so
// shutdown interrupts an in-flight job at its next repository call.
func Register(lc fx.Lifecycle, sched *Scheduler) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			sched.SetBaseContext(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
