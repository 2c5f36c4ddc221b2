package components

import (
	"loot-ledger/internal/domain/inventory"
	"loot-ledger/internal/infra/db"
	"loot-ledger/internal/infra/readstore"
	"loot-ledger/internal/infra/uow"
	"loot-ledger/internal/pkg/config"
	"loot-ledger/internal/usecase/commands"
	"loot-ledger/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	baseOption,
	readstoreModule,
	uowModule,
)

var baseOption = fx.Provide(
	NewDBTX,
	NewExhaustionPolicy,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		// Inventory
		fx.Annotate(
			readstore.NewInventoryReadStore,
			fx.As(new(queries.InventoryReadStore)),
			fx.As(new(commands.InventoryReads)),
		),
		// Ledger
		fx.Annotate(
			readstore.NewLedgerReadStore,
			fx.As(new(queries.LedgerReadStore)),
		),
		// Requests
		fx.Annotate(
			readstore.NewRequestReadStore,
			fx.As(new(queries.RequestReadStore)),
		),
		// Sessions
		fx.Annotate(
			readstore.NewSessionReadStore,
			fx.As(new(queries.SessionReadStore)),
		),
		// Alliances: one store serves the visibility gate and both layers
		fx.Annotate(
			readstore.NewAllianceReadStore,
			fx.As(new(queries.AllianceReadStore)),
			fx.As(new(queries.VisibilityGate)),
			fx.As(new(commands.AllianceReads)),
		),
		// Members
		fx.Annotate(
			readstore.NewMemberReadStore,
			fx.As(new(queries.MemberReadStore)),
			fx.As(new(commands.MemberReads)),
		),
	),
)

var uowModule = fx.Module("persistence/uow",
	fx.Provide(
		uow.NewPostgresUoW,
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}

func NewExhaustionPolicy(cfg config.Config) (inventory.ExhaustionPolicy, error) {
	return inventory.ParseExhaustionPolicy(cfg.Inventory.ExhaustionPolicy)
}
