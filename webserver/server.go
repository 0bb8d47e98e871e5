package webserver

import (
	"github.com/gofiber/fiber/v2"

	"marmot/interfaces"
	"marmot/kpi"
	fiberhelpers "marmot/utils/fiberhelper"
	"marmot/utils/fiberhelper/middleware"
	"marmot/utils/log"
)

// Server : the query gateway. KPI reads are open, kline writes need a token.
type Server struct {
	app        *fiber.App
	store      interfaces.KlineStore
	aggregator *kpi.Aggregator
}

func NewServer(store interfaces.KlineStore, aggregator *kpi.Aggregator, tokenSecret string) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "marmot",
		ErrorHandler: fiberhelpers.DefaultErrorHandler,
	})
	app.Use(fiberhelpers.NewRecover())
	app.Use(middleware.LogMiddleware("/health"))

	s := &Server{app: app, store: store, aggregator: aggregator}

	app.Get("/", s.root)
	app.Get("/health", s.health)

	api := app.Group("/api/v1")

	kpis := api.Group("/kpis")
	kpis.Get("/volatility", s.volatility)
	kpis.Get("/volume", s.volume)
	kpis.Get("/pressure", s.pressure)
	kpis.Get("/aggtrades-stats", s.tradeDistribution)
	kpis.Get("/summary", s.summary)

	guard := middleware.TokenValidationMiddleware(tokenSecret)
	klines := api.Group("/klines")
	klines.Post("/", guard, s.createKline)
	klines.Get("/", s.listKlines)
	// static routes first so "stats" never parses as an id
	klines.Get("/stats/symbols", s.distinctSymbols)
	klines.Get("/stats/count", s.countKlines)
	klines.Get("/:id", s.getKline)
	klines.Put("/:id", guard, s.updateKline)
	klines.Delete("/:id", guard, s.deleteKline)

	return s
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Start(port string) error {
	log.Infof("[WEB] listening on :%s", port)
	return s.app.Listen(":" + port)
}

func (s *Server) Stop() error {
	return s.app.Shutdown()
}

func (s *Server) root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "marmot klines API",
		"version": "1.0.0",
		"endpoints": fiber.Map{
			"GET /api/v1/kpis/volatility":      "market volatility KPI",
			"GET /api/v1/kpis/volume":          "trading volume KPI",
			"GET /api/v1/kpis/pressure":        "buy/sell pressure KPI",
			"GET /api/v1/kpis/aggtrades-stats": "aggregated trade distribution",
			"GET /api/v1/kpis/summary":         "all four KPIs in one call",
			"GET /api/v1/klines":               "list klines with filters",
			"POST /api/v1/klines":              "create a kline",
			"GET /api/v1/klines/:id":           "fetch a kline by id",
			"PUT /api/v1/klines/:id":           "update a kline",
			"DELETE /api/v1/klines/:id":        "delete a kline",
		},
	})
}

func (s *Server) health(c *fiber.Ctx) error {
	if err := s.store.Ping(c.Context()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":   "unhealthy",
			"database": "disconnected",
		})
	}
	return c.JSON(fiber.Map{
		"status":   "healthy",
		"database": "connected",
	})
}
