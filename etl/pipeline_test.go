package etl

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marmot/mocks"
	"marmot/model"
)

func minuteKline(symbol string, openTime time.Time) model.Kline {
	return model.Kline{
		OpenTime:   openTime,
		CloseTime:  openTime.Add(time.Minute - time.Millisecond),
		Symbol:     symbol,
		Interval:   "1m",
		OpenPrice:  100,
		ClosePrice: 101,
		HighPrice:  102,
		LowPrice:   99,
		Volume:     10,
	}
}

func TestRegister_DeduplicatesAndKeepsOrder(t *testing.T) {
	p := NewPipeline(&mocks.MockExchange{}, &mocks.MockKlineStore{}, 60)
	p.Register("BTCUSDT", "1m")
	p.Register("ETHUSDT", "1m")
	p.Register("btcusdt", "1m") // same job, case-insensitive symbol
	p.Register("BTCUSDT", "5m") // different interval, different job

	assert.Equal(t, []string{"BTCUSDT--1m", "ETHUSDT--1m", "BTCUSDT--5m"}, p.Jobs())
}

func TestJoinTrades_WindowIsInclusive(t *testing.T) {
	openTime := time.Date(2025, 11, 17, 12, 0, 0, 0, time.UTC)
	kline := minuteKline("BTCUSDT", openTime)

	trades := []model.AggTrade{
		{TradeID: 1, Timestamp: openTime.Add(-time.Second)}, // before the window
		{TradeID: 2, Timestamp: openTime},                   // on the open edge
		{TradeID: 3, Timestamp: openTime.Add(30 * time.Second)},
		{TradeID: 4, Timestamp: kline.CloseTime},          // on the close edge
		{TradeID: 5, Timestamp: openTime.Add(time.Minute)}, // after the window
	}

	joined := JoinTrades(kline, trades)
	require.Len(t, joined.AggTrades, 3)
	assert.Equal(t, int64(2), joined.AggTrades[0].TradeID)
	assert.Equal(t, int64(3), joined.AggTrades[1].TradeID)
	assert.Equal(t, int64(4), joined.AggTrades[2].TradeID)
}

func TestJoinTrades_NoTradesYieldsEmptySlice(t *testing.T) {
	openTime := time.Date(2025, 11, 17, 12, 0, 0, 0, time.UTC)

	joined := JoinTrades(minuteKline("BTCUSDT", openTime), nil)
	assert.NotNil(t, joined.AggTrades)
	assert.Empty(t, joined.AggTrades)
}

func TestRunCycle_JoinsTradesAndLoads(t *testing.T) {
	openTime := time.Date(2025, 11, 17, 12, 0, 0, 0, time.UTC)
	kline := minuteKline("BTCUSDT", openTime)

	exchange := &mocks.MockExchange{
		MockKlines: map[string][]model.Kline{"BTCUSDT": {kline}},
		MockTrades: map[string][]model.AggTrade{"BTCUSDT": {
			{TradeID: 1, Quantity: 2, Timestamp: openTime.Add(10 * time.Second)},
			{TradeID: 2, Quantity: 3, Timestamp: openTime.Add(2 * time.Minute)}, // next candle
		}},
	}
	store := &mocks.MockKlineStore{}
	p := NewPipeline(exchange, store, 60)
	p.Register("BTCUSDT", "1m")

	require.NoError(t, p.RunCycle(context.Background()))

	assert.Equal(t, 1, exchange.KlinesCount)
	assert.Equal(t, 1, exchange.AggTradesCount) // one call per fetched kline
	assert.Equal(t, 1, store.InsertManyCount)
	require.Len(t, store.LastInserted, 1)
	require.Len(t, store.LastInserted[0].AggTrades, 1)
	assert.Equal(t, int64(1), store.LastInserted[0].AggTrades[0].TradeID)
}

func TestRunCycle_EmptyExtractIsHarmless(t *testing.T) {
	openTime := time.Date(2025, 11, 17, 12, 0, 0, 0, time.UTC)

	exchange := &mocks.MockExchange{
		MockKlines: map[string][]model.Kline{
			"ETHUSDT": {minuteKline("ETHUSDT", openTime)},
			// BTCUSDT has no canned data, its extract yields nothing to load
		},
	}
	store := &mocks.MockKlineStore{}
	p := NewPipeline(exchange, store, 60)
	p.Register("BTCUSDT", "1m")
	p.Register("ETHUSDT", "1m")

	require.NoError(t, p.RunCycle(context.Background()))
	assert.Equal(t, 2, exchange.KlinesCount)
	require.Len(t, store.Klines, 1)
	assert.Equal(t, "ETHUSDT", store.Klines[0].Symbol)
}

func TestRunCycle_StoreFailureIsReported(t *testing.T) {
	openTime := time.Date(2025, 11, 17, 12, 0, 0, 0, time.UTC)

	exchange := &mocks.MockExchange{
		MockKlines: map[string][]model.Kline{"BTCUSDT": {minuteKline("BTCUSDT", openTime)}},
	}
	store := &mocks.MockKlineStore{InsertErr: assert.AnError}
	p := NewPipeline(exchange, store, 60)
	p.Register("BTCUSDT", "1m")

	err := p.RunCycle(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestExchangeFailure_AbortsTheJob(t *testing.T) {
	exchange := &mocks.MockExchange{KlinesErr: assert.AnError}
	store := &mocks.MockKlineStore{}
	p := NewPipeline(exchange, store, 60)
	p.Register("BTCUSDT", "1m")

	err := p.RunCycle(context.Background())
	require.Error(t, err)
	assert.Zero(t, store.InsertManyCount)
}
