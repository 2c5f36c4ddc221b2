package components

import (
	"loot-ledger/internal/pkg/clock"
	"loot-ledger/internal/pkg/random"
	"loot-ledger/internal/usecase/commands"
	"loot-ledger/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	random.NewCryptoSelector,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewInventoryCommands,
		commands.NewDistributionCommands,
		commands.NewRequestCommands,
		commands.NewSessionCommands,
		commands.NewAllianceCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewInventoryQueries,
		queries.NewLedgerQueries,
		queries.NewRequestQueries,
		queries.NewSessionQueries,
		queries.NewAllianceQueries,
		queries.NewMemberQueries,
	),
)
