package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"loot-ledger/internal/domain/member"
	"loot-ledger/internal/handler/api"
	"loot-ledger/internal/handler/middleware"
	"loot-ledger/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Auth         *api.AuthHandler
	Inventory    *api.InventoryHandler
	Distribution *api.DistributionHandler
	LootRequest  *api.LootRequestHandler
	Session      *api.SessionHandler
	Alliance     *api.AllianceHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, handlers Handlers, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, handlers, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	operatorUp := authMiddleware.RequireRoleAtLeast(member.RoleOperator)
	adminOnly := authMiddleware.RequireRoleAtLeast(member.RoleAdmin)

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/login", Handler: h.Auth.Login},
				{Method: http.MethodPost, Path: "/refresh", Handler: h.Auth.Refresh},
			})

			authRequired := auth.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodPost, Path: "/logout", Handler: h.Auth.Logout},
				{Method: http.MethodGet, Path: "/me", Handler: h.Auth.Me},
			})
		}

		tenants := apiGroup.Group("/tenants")
		tenants.Use(authMiddleware.RequireAuth())
		{
			addRoutes(tenants, []route{
				{Method: http.MethodGet, Path: "/:tenant_id/inventory", Handler: h.Inventory.ListItems},
				{Method: http.MethodGet, Path: "/:tenant_id/inventory/:item_id", Handler: h.Inventory.GetItem},
				{Method: http.MethodGet, Path: "/:tenant_id/ledger", Handler: h.Distribution.ListLedger},
			})
		}

		inventory := apiGroup.Group("/inventory")
		inventory.Use(authMiddleware.RequireAuth())
		{
			addRoutes(inventory, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Inventory.CreateItem, Mw: []gin.HandlerFunc{operatorUp}},
			})
		}

		distributions := apiGroup.Group("/distributions")
		distributions.Use(authMiddleware.RequireAuth(), operatorUp)
		{
			addRoutes(distributions, []route{
				{Method: http.MethodPost, Path: "/assign", Handler: h.Distribution.Assign},
				{Method: http.MethodPost, Path: "/withdraw", Handler: h.Distribution.Withdraw},
				{Method: http.MethodPost, Path: "/giveaway", Handler: h.Distribution.DrawGiveaway},
			})
		}

		requests := apiGroup.Group("/requests")
		requests.Use(authMiddleware.RequireAuth())
		{
			addRoutes(requests, []route{
				{Method: http.MethodPost, Path: "", Handler: h.LootRequest.Submit},
				{Method: http.MethodGet, Path: "", Handler: h.LootRequest.ListForTenant, Mw: []gin.HandlerFunc{operatorUp}},
				{Method: http.MethodGet, Path: "/mine", Handler: h.LootRequest.ListMine},
				{Method: http.MethodGet, Path: "/:id", Handler: h.LootRequest.Get},
				{Method: http.MethodPost, Path: "/:id/approve", Handler: h.LootRequest.Approve, Mw: []gin.HandlerFunc{adminOnly}},
				{Method: http.MethodPost, Path: "/:id/reject", Handler: h.LootRequest.Reject, Mw: []gin.HandlerFunc{adminOnly}},
			})
		}

		sessions := apiGroup.Group("/sessions")
		sessions.Use(authMiddleware.RequireAuth())
		{
			addRoutes(sessions, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Session.Create, Mw: []gin.HandlerFunc{operatorUp}},
				{Method: http.MethodGet, Path: "", Handler: h.Session.List},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Session.Get},
				{Method: http.MethodPost, Path: "/:id/claim", Handler: h.Session.Claim},
				{Method: http.MethodPost, Path: "/:id/close", Handler: h.Session.Close, Mw: []gin.HandlerFunc{adminOnly}},
			})
		}

		alliances := apiGroup.Group("/alliances")
		alliances.Use(authMiddleware.RequireAuth())
		{
			addRoutes(alliances, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Alliance.ListAllies},
				{Method: http.MethodGet, Path: "/requests", Handler: h.Alliance.ListRequests, Mw: []gin.HandlerFunc{adminOnly}},
				{Method: http.MethodPost, Path: "/requests", Handler: h.Alliance.Request, Mw: []gin.HandlerFunc{adminOnly}},
				{Method: http.MethodPost, Path: "/requests/:id/approve", Handler: h.Alliance.Approve, Mw: []gin.HandlerFunc{adminOnly}},
				{Method: http.MethodPost, Path: "/requests/:id/reject", Handler: h.Alliance.Reject, Mw: []gin.HandlerFunc{adminOnly}},
				{Method: http.MethodDelete, Path: "/:tenant_id", Handler: h.Alliance.Break, Mw: []gin.HandlerFunc{adminOnly}},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
