package bootstrap

import (
	"context"
	"log/slog"

	"biblio-api/internal/infra/seed"
	"biblio-api/internal/pkg/config"
	"biblio-api/internal/usecase/commands"

	"go.uber.org/fx"
)

// StartupModule runs the one-shot boot work: demo data seeding (when enabled)
// and a first notification sweep so reminders exist before any request hits.
var StartupModule = fx.Module("startup",
	fx.Provide(
		seed.NewSeeder,
	),
	fx.Invoke(
		registerStartupTasks,
	),
)

func registerStartupTasks(
	lc fx.Lifecycle,
	cfg config.Config,
	seeder *seed.Seeder,
	sweepCommands commands.SweepCommands,
	logger *slog.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if cfg.Library.SeedDemoData {
				if err := seeder.Run(ctx); err != nil {
					return err
				}
			}

			result, err := sweepCommands.Run(ctx)
			if err != nil {
				// The API is still usable without reminders; do not block boot.
				logger.Warn("startup sweep failed", "error", err)
				return nil
			}
			logger.Info("startup sweep completed",
				"due_soon", result.DueSoonNotices,
				"overdue", result.OverdueNotices,
				"reservation_ready", result.ReservationReadyNotices,
			)
			return nil
		},
	})
}
