package bot

import (
	"context"
	"fmt"
	"time"

	"marmot/chartview"
	"marmot/config"
	"marmot/etl"
	"marmot/exchange"
	"marmot/kpi"
	"marmot/storage"
	"marmot/utils/log"
	"marmot/webserver"
)

const chartRefreshEvery = time.Minute

// Marmot : the assembled service. ETL keeps the store fresh, the webserver
// answers KPI and CRUD queries, the chart server renders the dashboard.
type Marmot struct {
	cfg config.Config

	store       *storage.MongoKlineStore
	pipeline    *etl.Pipeline
	aggregator  *kpi.Aggregator
	server      *webserver.Server
	chartServer *chartview.ChartServer

	cancel context.CancelFunc
}

// NewMarmot wires every component from the configuration.
func NewMarmot(ctx context.Context, cfg config.Config) (*Marmot, error) {
	store, err := storage.NewMongoKlineStore(ctx, cfg.MongoURI, cfg.MongoDBName, cfg.MongoCollection)
	if err != nil {
		return nil, fmt.Errorf("failed to create kline store: %w", err)
	}

	binance := exchange.NewBinance(cfg.BinanceBaseURL)
	pipeline := etl.NewPipeline(binance, store, cfg.ETLKlineLimit)
	for _, symbol := range cfg.Symbols {
		pipeline.Register(symbol, cfg.KlineInterval)
	}

	aggregator := kpi.NewAggregator(store)
	server := webserver.NewServer(store, aggregator, cfg.APITokenSecret)
	chartServer := chartview.NewChartServer(store, aggregator, cfg.Symbols)

	log.Infof("[SETUP] marmot wired: %d symbols, interval %s", len(cfg.Symbols), cfg.KlineInterval)
	return &Marmot{
		cfg:         cfg,
		store:       store,
		pipeline:    pipeline,
		aggregator:  aggregator,
		server:      server,
		chartServer: chartServer,
	}, nil
}

// Start launches the ETL scheduler, the API and the dashboard.
func (m *Marmot) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	go m.pipeline.Run(ctx, m.cfg.ETLInterval)
	go m.chartServer.Run(ctx, chartRefreshEvery)

	go func() {
		if err := m.server.Start(m.cfg.APIPort); err != nil {
			log.Errorf("[WEB] server stopped: %v", err)
		}
	}()
	go func() {
		if err := m.chartServer.Start(m.cfg.ChartPort); err != nil {
			log.Errorf("[CHART] server stopped: %v", err)
		}
	}()
}

// Stop shuts everything down in reverse order.
func (m *Marmot) Stop() {
	if m.cancel != nil {
		m.cancel()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.server.Stop(); err != nil {
		log.Errorf("[WEB] shutdown: %v", err)
	}
	if err := m.chartServer.Stop(shutdownCtx); err != nil {
		log.Errorf("[CHART] shutdown: %v", err)
	}
	if err := m.store.Close(shutdownCtx); err != nil {
		log.Errorf("[SETUP] store close: %v", err)
	}
}
