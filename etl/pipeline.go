package etl

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/StudioSol/set"
	"github.com/samber/lo"

	"marmot/interfaces"
	"marmot/model"
	"marmot/utils/log"
)

// Pipeline : extract -> transform -> load for kline + aggtrade batches.
// One cycle per registered (symbol, interval) job.
type Pipeline struct {
	exchange   interfaces.Exchange
	store      interfaces.KlineStore
	klineLimit int

	jobs *set.LinkedHashSetString
}

func NewPipeline(exchange interfaces.Exchange, store interfaces.KlineStore, klineLimit int) *Pipeline {
	return &Pipeline{
		exchange:   exchange,
		store:      store,
		klineLimit: klineLimit,
		jobs:       set.NewLinkedHashSetString(),
	}
}

// Register adds a (symbol, interval) job; duplicates are a no-op.
func (p *Pipeline) Register(symbol, interval string) {
	p.jobs.Add(makeJobKey(symbol, interval))
}

// Jobs returns the registered job keys in registration order.
func (p *Pipeline) Jobs() []string {
	var keys []string
	for key := range p.jobs.Iter() {
		keys = append(keys, key)
	}
	return keys
}

func makeJobKey(symbol, interval string) string {
	return fmt.Sprintf("%s--%s", strings.ToUpper(symbol), interval)
}

func splitJobKey(key string) (symbol, interval string) {
	parts := strings.SplitN(key, "--", 2)
	return parts[0], parts[1]
}

// RunCycle executes one extract/transform/load pass over every job.
// Per-job failures are logged and skipped, one bad symbol never blocks the rest.
func (p *Pipeline) RunCycle(ctx context.Context) error {
	var firstErr error
	for _, key := range p.Jobs() {
		symbol, interval := splitJobKey(key)
		if err := p.runJob(ctx, symbol, interval); err != nil {
			log.Errorf("[ETL] job %s failed: %v", key, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (p *Pipeline) runJob(ctx context.Context, symbol, interval string) error {
	klines, err := p.Extract(ctx, symbol, interval)
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}
	if err := p.Load(ctx, klines); err != nil {
		return fmt.Errorf("load: %w", err)
	}
	log.Infof("[ETL] loaded %d klines for %s/%s", len(klines), symbol, interval)
	return nil
}

// Extract fetches the latest klines and the aggtrades of each kline window,
// then joins the trades onto their containing candle.
func (p *Pipeline) Extract(ctx context.Context, symbol, interval string) ([]model.Kline, error) {
	klines, err := p.exchange.Klines(ctx, symbol, interval, p.klineLimit)
	if err != nil {
		return nil, err
	}

	for i := range klines {
		trades, err := p.exchange.AggTrades(ctx, symbol, klines[i].OpenTime, klines[i].CloseTime)
		if err != nil {
			return nil, err
		}
		klines[i] = JoinTrades(klines[i], trades)
	}
	return klines, nil
}

// JoinTrades attaches the trades falling inside the kline's window. Trades
// outside [open_time, close_time] are dropped, the exchange occasionally
// returns rows straddling the window edge.
func JoinTrades(kline model.Kline, trades []model.AggTrade) model.Kline {
	kline.AggTrades = lo.Filter(trades, func(t model.AggTrade, _ int) bool {
		return !t.Timestamp.Before(kline.OpenTime) && !t.Timestamp.After(kline.CloseTime)
	})
	if kline.AggTrades == nil {
		kline.AggTrades = []model.AggTrade{}
	}
	return kline
}

// Load bulk-inserts the batch; an empty batch is a no-op.
func (p *Pipeline) Load(ctx context.Context, klines []model.Kline) error {
	return p.store.InsertMany(ctx, klines)
}

// Run executes one cycle immediately, then one per tick until ctx is done.
// Cycle errors are logged, never fatal: the next tick retries from scratch.
func (p *Pipeline) Run(ctx context.Context, every time.Duration) {
	log.Infof("[ETL] scheduler started, %d jobs, every %s", len(p.Jobs()), every)
	if err := p.RunCycle(ctx); err != nil {
		log.Errorf("[ETL] cycle failed: %v", err)
	}

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("[ETL] scheduler stopped")
			return
		case <-ticker.C:
			if err := p.RunCycle(ctx); err != nil {
				log.Errorf("[ETL] cycle failed: %v", err)
			}
		}
	}
}
