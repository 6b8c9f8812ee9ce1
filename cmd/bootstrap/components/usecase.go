package components

import (
	"biblio-api/internal/pkg/clock"
	"biblio-api/internal/pkg/config"
	"biblio-api/internal/usecase"
	"biblio-api/internal/usecase/commands"
	"biblio-api/internal/usecase/queries"
	"biblio-api/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewLoanUseCase,
		commands.NewReservationUseCase,
		commands.NewNotificationUseCase,
		func(uow shared.UnitOfWork, mailer shared.Mailer, clock clock.Clock, library config.LibraryConfig) commands.SweepCommands {
			return commands.NewSweepUseCase(uow, mailer, clock, library.DueSoonThresholdDays)
		},
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewBookQueries,
		queries.NewLoanQueries,
		queries.NewReservationQueries,
		queries.NewNotificationQueries,
		queries.NewUserQueries,
		queries.NewReportQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)
