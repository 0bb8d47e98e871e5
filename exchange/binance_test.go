package exchange

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marmot/utils/resty"
)

const testBaseURL = "https://api.binance.test"

func paramValue(params []resty.QueryParam, key string) any {
	for _, p := range params {
		if p.Key == key {
			return p.Value
		}
	}
	return nil
}

func TestKlines_ParsesWireRows(t *testing.T) {
	row := []interface{}{
		1763380800000, // open_time
		"100.10",      // open
		"110.00",      // high
		"99.50",       // low
		"105.25",      // close
		"10.5",        // volume
		1763380859999, // close_time
		"1050.75",     // quote asset volume
		42,            // number of trades
		"6.3",         // taker buy base
		"661.5",       // taker buy quote
		"0",           // ignore
	}
	var seenParams []resty.QueryParam
	client := resty.NewMockRestyClient([]resty.MockFunc{{
		Method: "GET",
		Path:   testBaseURL + klinesPath,
		ResultBody: func(header map[string]string, requestBody any, param ...resty.QueryParam) (resty.MockFuncResponse, error) {
			seenParams = param
			return resty.MockFuncResponse{Body: [][]interface{}{row}}, nil
		},
	}})

	binance := NewBinance(testBaseURL, WithRestyClient(client))
	klines, err := binance.Klines(context.Background(), "BTCUSDT", "1m", 60)
	require.NoError(t, err)

	assert.Equal(t, "BTCUSDT", paramValue(seenParams, "symbol"))
	assert.Equal(t, "1m", paramValue(seenParams, "interval"))

	require.Len(t, klines, 1)
	k := klines[0]
	assert.Equal(t, time.UnixMilli(1763380800000).UTC(), k.OpenTime)
	assert.Equal(t, time.UnixMilli(1763380859999).UTC(), k.CloseTime)
	assert.Equal(t, "BTCUSDT", k.Symbol)
	assert.Equal(t, "1m", k.Interval)
	assert.Equal(t, 100.10, k.OpenPrice)
	assert.Equal(t, 110.00, k.HighPrice)
	assert.Equal(t, 99.50, k.LowPrice)
	assert.Equal(t, 105.25, k.ClosePrice)
	assert.Equal(t, 10.5, k.Volume)
	assert.Equal(t, 1050.75, k.QuoteAssetVolume)
	assert.Equal(t, int64(42), k.NumberOfTrades)
	assert.Equal(t, 6.3, k.TakerBuyBaseAssetVolume)
	assert.Equal(t, 661.5, k.TakerBuyQuoteAssetVolume)
	assert.NotNil(t, k.AggTrades)
}

func TestKlines_RejectsUnknownInterval(t *testing.T) {
	binance := NewBinance(testBaseURL, WithRestyClient(resty.NewMockRestyClient(nil)))
	_, err := binance.Klines(context.Background(), "BTCUSDT", "7m", 60)
	require.Error(t, err)
}

func TestKlines_MalformedRowFails(t *testing.T) {
	client := resty.NewMockRestyClient([]resty.MockFunc{{
		Method: "GET",
		Path:   testBaseURL + klinesPath,
		ResultBody: func(header map[string]string, requestBody any, param ...resty.QueryParam) (resty.MockFuncResponse, error) {
			return resty.MockFuncResponse{Body: [][]interface{}{{1763380800000, "not-a-number"}}}, nil
		},
	}})

	binance := NewBinance(testBaseURL, WithRestyClient(client))
	_, err := binance.Klines(context.Background(), "BTCUSDT", "1m", 60)
	require.Error(t, err)
}

func TestKlines_ErrorStatusFails(t *testing.T) {
	client := resty.NewMockRestyClient([]resty.MockFunc{{
		Method: "GET",
		Path:   testBaseURL + klinesPath,
		ResultBody: func(header map[string]string, requestBody any, param ...resty.QueryParam) (resty.MockFuncResponse, error) {
			return resty.MockFuncResponse{
				RawResponse: &http.Response{StatusCode: http.StatusTeapot},
				Body:        map[string]any{"code": -1121, "msg": "Invalid symbol."},
			}, nil
		},
	}})

	binance := NewBinance(testBaseURL, WithRestyClient(client))
	_, err := binance.Klines(context.Background(), "NOPEUSDT", "1m", 60)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 418")
}

func wireTrade(id, ts int64) map[string]any {
	return map[string]any{
		"a": id, "p": "100.5", "q": "0.25",
		"f": id, "l": id, "T": ts, "m": id%2 == 0, "M": true,
	}
}

func TestAggTrades_ParsesWireTrades(t *testing.T) {
	start := time.UnixMilli(1763380800000).UTC()
	end := start.Add(time.Minute - time.Millisecond)

	client := resty.NewMockRestyClient([]resty.MockFunc{{
		Method: "GET",
		Path:   testBaseURL + aggTradesPath,
		ResultBody: func(header map[string]string, requestBody any, param ...resty.QueryParam) (resty.MockFuncResponse, error) {
			return resty.MockFuncResponse{Body: []map[string]any{
				wireTrade(1, start.UnixMilli()+100),
				wireTrade(2, start.UnixMilli()+200),
			}}, nil
		},
	}})

	binance := NewBinance(testBaseURL, WithRestyClient(client))
	trades, err := binance.AggTrades(context.Background(), "BTCUSDT", start, end)
	require.NoError(t, err)

	require.Len(t, trades, 2)
	assert.Equal(t, int64(1), trades[0].TradeID)
	assert.Equal(t, 100.5, trades[0].Price)
	assert.Equal(t, 0.25, trades[0].Quantity)
	assert.Equal(t, start.Add(100*time.Millisecond), trades[0].Timestamp)
	assert.False(t, trades[0].IsBuyerMaker)
	assert.True(t, trades[1].IsBuyerMaker)
}

func TestAggTrades_PagesPastFullResponses(t *testing.T) {
	start := time.UnixMilli(1763380800000).UTC()
	end := start.Add(time.Minute - time.Millisecond)

	fullPage := make([]map[string]any, maxPageSize)
	for i := range fullPage {
		fullPage[i] = wireTrade(int64(i+1), start.UnixMilli()+int64(i))
	}
	lastTimestamp := start.UnixMilli() + int64(maxPageSize-1)

	calls := 0
	client := resty.NewMockRestyClient([]resty.MockFunc{{
		Method: "GET",
		Path:   testBaseURL + aggTradesPath,
		ResultBody: func(header map[string]string, requestBody any, param ...resty.QueryParam) (resty.MockFuncResponse, error) {
			calls++
			if calls == 1 {
				return resty.MockFuncResponse{Body: fullPage}, nil
			}
			// the second call must start just past the last trade of page one
			assert.Equal(t, lastTimestamp+1, paramValue(param, "startTime"))
			return resty.MockFuncResponse{Body: []map[string]any{
				wireTrade(int64(maxPageSize+1), lastTimestamp+10),
			}}, nil
		},
	}})

	binance := NewBinance(testBaseURL, WithRestyClient(client))
	trades, err := binance.AggTrades(context.Background(), "BTCUSDT", start, end)
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
	assert.Len(t, trades, maxPageSize+1)
}

func TestAggTrades_EmptyWindow(t *testing.T) {
	start := time.UnixMilli(1763380800000).UTC()
	end := start.Add(time.Minute - time.Millisecond)

	client := resty.NewMockRestyClient([]resty.MockFunc{{
		Method: "GET",
		Path:   testBaseURL + aggTradesPath,
		ResultBody: func(header map[string]string, requestBody any, param ...resty.QueryParam) (resty.MockFuncResponse, error) {
			return resty.MockFuncResponse{Body: []map[string]any{}}, nil
		},
	}})

	binance := NewBinance(testBaseURL, WithRestyClient(client))
	trades, err := binance.AggTrades(context.Background(), "BTCUSDT", start, end)
	require.NoError(t, err)
	assert.Empty(t, trades)
}
