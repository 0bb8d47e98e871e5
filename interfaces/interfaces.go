package interfaces

import (
	"context"
	"time"

	"marmot/model"
)

// Exchange : read-only market data source (Binance public REST).
type Exchange interface {
	// Klines fetches up to limit candles for symbol/interval, oldest first.
	Klines(ctx context.Context, symbol, interval string, limit int) ([]model.Kline, error)
	// AggTrades fetches every aggregated trade in [start, end], paging as needed.
	AggTrades(ctx context.Context, symbol string, start, end time.Time) ([]model.AggTrade, error)
}

// KlineStore : the persisted candle collection.
type KlineStore interface {
	Insert(ctx context.Context, kline model.Kline) (string, error)
	InsertMany(ctx context.Context, klines []model.Kline) error
	Find(ctx context.Context, filter model.KlineFilter) ([]model.Kline, error)
	List(ctx context.Context, filter model.KlineFilter, opts model.ListOptions) ([]model.Kline, error)
	Get(ctx context.Context, id string) (model.Kline, error)
	Update(ctx context.Context, id string, update model.KlineUpdate) (model.Kline, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, filter model.KlineFilter) (int64, error)
	DistinctSymbols(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
