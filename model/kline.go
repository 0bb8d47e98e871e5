package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AggTrade : one aggregated trade execution, embedded in its owning Kline.
// is_buyer_maker=true means the taker side of the trade was a seller.
type AggTrade struct {
	TradeID      int64     `bson:"trade_id" json:"trade_id"`
	Price        float64   `bson:"price" json:"price"`
	Quantity     float64   `bson:"quantity" json:"quantity"`
	FirstTradeID int64     `bson:"first_trade_id" json:"first_trade_id"`
	LastTradeID  int64     `bson:"last_trade_id" json:"last_trade_id"`
	Timestamp    time.Time `bson:"timestamp" json:"timestamp"`
	IsBuyerMaker bool      `bson:"is_buyer_maker" json:"is_buyer_maker"`
	IsBestMatch  bool      `bson:"is_best_match" json:"is_best_match"`
}

// Kline : one candle per symbol per interval, with its aggtrades embedded.
type Kline struct {
	ID                       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	OpenTime                 time.Time          `bson:"open_time" json:"open_time"`
	CloseTime                time.Time          `bson:"close_time" json:"close_time"`
	Symbol                   string             `bson:"symbol" json:"symbol"`
	Interval                 string             `bson:"interval" json:"interval"`
	OpenPrice                float64            `bson:"open_price" json:"open_price"`
	ClosePrice               float64            `bson:"close_price" json:"close_price"`
	HighPrice                float64            `bson:"high_price" json:"high_price"`
	LowPrice                 float64            `bson:"low_price" json:"low_price"`
	Volume                   float64            `bson:"volume" json:"volume"`
	QuoteAssetVolume         float64            `bson:"quote_asset_volume" json:"quote_asset_volume"`
	NumberOfTrades           int64              `bson:"number_of_trades" json:"number_of_trades"`
	TakerBuyBaseAssetVolume  float64            `bson:"taker_buy_base_asset_volume" json:"taker_buy_base_asset_volume"`
	TakerBuyQuoteAssetVolume float64            `bson:"taker_buy_quote_asset_volume" json:"taker_buy_quote_asset_volume"`
	AggTrades                []AggTrade         `bson:"aggtrades" json:"aggtrades"`
}

// KlineUpdate : partial update payload, nil fields are left untouched.
type KlineUpdate struct {
	OpenTime                 *time.Time  `json:"open_time,omitempty"`
	CloseTime                *time.Time  `json:"close_time,omitempty"`
	Symbol                   *string     `json:"symbol,omitempty"`
	Interval                 *string     `json:"interval,omitempty"`
	OpenPrice                *float64    `json:"open_price,omitempty"`
	ClosePrice               *float64    `json:"close_price,omitempty"`
	HighPrice                *float64    `json:"high_price,omitempty"`
	LowPrice                 *float64    `json:"low_price,omitempty"`
	Volume                   *float64    `json:"volume,omitempty"`
	QuoteAssetVolume         *float64    `json:"quote_asset_volume,omitempty"`
	NumberOfTrades           *int64      `json:"number_of_trades,omitempty"`
	TakerBuyBaseAssetVolume  *float64    `json:"taker_buy_base_asset_volume,omitempty"`
	TakerBuyQuoteAssetVolume *float64    `json:"taker_buy_quote_asset_volume,omitempty"`
	AggTrades                *[]AggTrade `json:"aggtrades,omitempty"`
}
