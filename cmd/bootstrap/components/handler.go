package components

import (
	"loot-ledger/internal/handler"
	"loot-ledger/internal/handler/api"
	"loot-ledger/internal/handler/middleware"
	"loot-ledger/internal/pkg/config"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		NewCookieConfig,
		api.NewAuthHandler,
		api.NewInventoryHandler,
		api.NewDistributionHandler,
		api.NewLootRequestHandler,
		api.NewSessionHandler,
		api.NewAllianceHandler,
		middleware.NewAuthMiddleware,
		NewHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

func NewCookieConfig(cfg config.Config) config.CookieConfig {
	return cfg.Cookie
}

func NewHandlers(
	auth *api.AuthHandler,
	inventory *api.InventoryHandler,
	distribution *api.DistributionHandler,
	lootRequest *api.LootRequestHandler,
	session *api.SessionHandler,
	alliance *api.AllianceHandler,
) handler.Handlers {
	return handler.Handlers{
		Auth:         auth,
		Inventory:    inventory,
		Distribution: distribution,
		LootRequest:  lootRequest,
		Session:      session,
		Alliance:     alliance,
	}
}
