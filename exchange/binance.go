package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"marmot/model"
	"marmot/utils/log"
	"marmot/utils/resty"
	"marmot/utils/tools"
)

const (
	klinesPath    = "/api/v3/klines"
	aggTradesPath = "/api/v3/aggTrades"

	// Binance caps both endpoints at 1000 rows per request.
	maxPageSize = 1000
)

// Binance : public REST market data client. No API key needed, the kline and
// aggTrades endpoints are unauthenticated.
type Binance struct {
	baseURL string
	resty   resty.RestyClient
}

type BinanceOption func(*Binance)

func WithRestyClient(client resty.RestyClient) BinanceOption {
	return func(b *Binance) {
		b.resty = client
	}
}

func NewBinance(baseURL string, opts ...BinanceOption) *Binance {
	b := &Binance{
		baseURL: baseURL,
		resty:   resty.NewDefaultRestyClientWithRetryCount(false, 3, 10*time.Second),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Binance) get(ctx context.Context, path string, params []resty.QueryParam) ([]byte, error) {
	resp, err := b.resty.MakeRequest(ctx, nil, nil).Get(b.baseURL+path, params...)
	if err != nil {
		return nil, fmt.Errorf("binance GET %s: %w", path, err)
	}
	if resp.StatusCode() >= 400 {
		return nil, fmt.Errorf("binance GET %s: status %d: %s", path, resp.StatusCode(), resp.String())
	}
	return resp.Body(), nil
}

// Klines fetches up to limit candles, oldest first. Binance returns each
// kline as a 12-element array with decimals encoded as strings.
func (b *Binance) Klines(ctx context.Context, symbol, interval string, limit int) ([]model.Kline, error) {
	if !tools.ValidBinanceInterval(interval) {
		return nil, fmt.Errorf("unsupported binance interval: %s", interval)
	}
	if limit <= 0 || limit > maxPageSize {
		limit = maxPageSize
	}

	body, err := b.get(ctx, klinesPath, []resty.QueryParam{
		{Key: "symbol", Value: symbol},
		{Key: "interval", Value: interval},
		{Key: "limit", Value: limit},
	})
	if err != nil {
		return nil, err
	}

	var rows [][]interface{}
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("kline response parse: %w", err)
	}

	klines := make([]model.Kline, 0, len(rows))
	for _, row := range rows {
		kline, err := convertKlineRow(symbol, interval, row)
		if err != nil {
			return nil, err
		}
		klines = append(klines, kline)
	}
	return klines, nil
}

// AggTrades drains every aggregated trade in [start, end], paging by moving
// the window start past the last returned trade.
func (b *Binance) AggTrades(ctx context.Context, symbol string, start, end time.Time) ([]model.AggTrade, error) {
	var trades []model.AggTrade
	cursor := start.UnixMilli()
	endMillis := end.UnixMilli()

	for cursor <= endMillis {
		body, err := b.get(ctx, aggTradesPath, []resty.QueryParam{
			{Key: "symbol", Value: symbol},
			{Key: "startTime", Value: cursor},
			{Key: "endTime", Value: endMillis},
			{Key: "limit", Value: maxPageSize},
		})
		if err != nil {
			return nil, err
		}

		var page []binanceAggTrade
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("aggtrade response parse: %w", err)
		}
		if len(page) == 0 {
			break
		}

		for _, raw := range page {
			trade, err := raw.toModel()
			if err != nil {
				return nil, err
			}
			trades = append(trades, trade)
		}

		if len(page) < maxPageSize {
			break
		}
		next := page[len(page)-1].Timestamp + 1
		if next <= cursor {
			log.Warnf("[ETL] aggtrade cursor stalled for %s at %d", symbol, cursor)
			break
		}
		cursor = next
	}
	return trades, nil
}

// binanceAggTrade : wire format, single-letter keys per the exchange docs.
type binanceAggTrade struct {
	AggTradeID   int64  `json:"a"`
	Price        string `json:"p"`
	Quantity     string `json:"q"`
	FirstTradeID int64  `json:"f"`
	LastTradeID  int64  `json:"l"`
	Timestamp    int64  `json:"T"`
	IsBuyerMaker bool   `json:"m"`
	IsBestMatch  bool   `json:"M"`
}

func (t binanceAggTrade) toModel() (model.AggTrade, error) {
	price, err := strconv.ParseFloat(t.Price, 64)
	if err != nil {
		return model.AggTrade{}, fmt.Errorf("aggtrade price parse: %w", err)
	}
	quantity, err := strconv.ParseFloat(t.Quantity, 64)
	if err != nil {
		return model.AggTrade{}, fmt.Errorf("aggtrade quantity parse: %w", err)
	}
	return model.AggTrade{
		TradeID:      t.AggTradeID,
		Price:        price,
		Quantity:     quantity,
		FirstTradeID: t.FirstTradeID,
		LastTradeID:  t.LastTradeID,
		Timestamp:    tools.FromEpochMillis(t.Timestamp),
		IsBuyerMaker: t.IsBuyerMaker,
		IsBestMatch:  t.IsBestMatch,
	}, nil
}

func convertKlineRow(symbol, interval string, row []interface{}) (model.Kline, error) {
	// open_time, open, high, low, close, volume, close_time,
	// quote_asset_volume, number_of_trades, taker_buy_base, taker_buy_quote, ignore
	if len(row) < 11 {
		return model.Kline{}, fmt.Errorf("kline row has %d fields, want at least 11", len(row))
	}

	openTime, err := toInt64(row[0])
	if err != nil {
		return model.Kline{}, fmt.Errorf("kline open_time: %w", err)
	}
	closeTime, err := toInt64(row[6])
	if err != nil {
		return model.Kline{}, fmt.Errorf("kline close_time: %w", err)
	}
	numberOfTrades, err := toInt64(row[8])
	if err != nil {
		return model.Kline{}, fmt.Errorf("kline number_of_trades: %w", err)
	}

	values := make([]float64, 0, 7)
	for _, idx := range []int{1, 2, 3, 4, 5, 7, 9} {
		v, err := toFloat64(row[idx])
		if err != nil {
			return model.Kline{}, fmt.Errorf("kline field %d: %w", idx, err)
		}
		values = append(values, v)
	}
	takerBuyQuote, err := toFloat64(row[10])
	if err != nil {
		return model.Kline{}, fmt.Errorf("kline field 10: %w", err)
	}

	return model.Kline{
		OpenTime:                 tools.FromEpochMillis(openTime),
		CloseTime:                tools.FromEpochMillis(closeTime),
		Symbol:                   symbol,
		Interval:                 interval,
		OpenPrice:                values[0],
		HighPrice:                values[1],
		LowPrice:                 values[2],
		ClosePrice:               values[3],
		Volume:                   values[4],
		QuoteAssetVolume:         values[5],
		NumberOfTrades:           numberOfTrades,
		TakerBuyBaseAssetVolume:  values[6],
		TakerBuyQuoteAssetVolume: takerBuyQuote,
		AggTrades:                []model.AggTrade{},
	}, nil
}

func toFloat64(v interface{}) (float64, error) {
	switch value := v.(type) {
	case float64:
		return value, nil
	case string:
		return strconv.ParseFloat(value, 64)
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}

func toInt64(v interface{}) (int64, error) {
	switch value := v.(type) {
	case float64:
		return int64(value), nil
	case string:
		return strconv.ParseInt(value, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}
