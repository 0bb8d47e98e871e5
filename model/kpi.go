package model

// Sentiment labels derived from buy pressure.
const (
	SentimentBullish = "BULLISH"
	SentimentBearish = "BEARISH"
	SentimentNeutral = "NEUTRAL"
)

// VolatilityGlobal : flat mean of per-candle volatility across the filtered set.
type VolatilityGlobal struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

type VolatilitySymbol struct {
	Symbol        string  `json:"symbol"`
	VolatilityAvg float64 `json:"volatility_avg"`
	VolatilityMax float64 `json:"volatility_max"`
	PriceMax      float64 `json:"price_max"`
	PriceMin      float64 `json:"price_min"`
	Periods       int     `json:"periods"`
}

type VolatilityStats struct {
	Global   VolatilityGlobal   `json:"global"`
	BySymbol []VolatilitySymbol `json:"by_symbol"`
}

type VolumeGlobal struct {
	VolumeBase  float64 `json:"volume_base"`
	VolumeQuote float64 `json:"volume_quote"`
	TotalTrades int64   `json:"total_trades"`
}

type VolumeSymbol struct {
	Symbol             string  `json:"symbol"`
	VolumeBase         float64 `json:"volume_base"`
	VolumeQuote        float64 `json:"volume_quote"`
	NumTrades          int64   `json:"num_trades"`
	VolumeAvgPerPeriod float64 `json:"volume_avg_per_period"`
	QuotePerTrade      float64 `json:"quote_per_trade"`
}

type VolumeStats struct {
	Global   VolumeGlobal   `json:"global"`
	BySymbol []VolumeSymbol `json:"by_symbol"`
}

type PressureGlobal struct {
	BuyPct    float64 `json:"buy_pct"`
	Sentiment string  `json:"sentiment"`
}

type PressureSymbol struct {
	Symbol       string  `json:"symbol"`
	BuyPct       float64 `json:"buy_pct"`
	SellPct      float64 `json:"sell_pct"`
	Sentiment    string  `json:"sentiment"`
	BuyerVolume  float64 `json:"buyer_volume"`
	SellerVolume float64 `json:"seller_volume"`
}

type PressureStats struct {
	Global   PressureGlobal   `json:"global"`
	BySymbol []PressureSymbol `json:"by_symbol"`
}

type DistributionSymbol struct {
	Symbol       string  `json:"symbol"`
	TotalTrades  int64   `json:"total_aggtrades"`
	BuyerTrades  int64   `json:"trades_buyer_side"`
	SellerTrades int64   `json:"trades_seller_side"`
	PctBuyerSide float64 `json:"pct_buyer_side"`
	AvgQuantity  float64 `json:"avg_quantity"`
}

// DistributionStats carries no global rollup, matching the upstream contract.
type DistributionStats struct {
	BySymbol []DistributionSymbol `json:"by_symbol"`
}

// KPISummary : the four KPI groups computed over one shared filter.
type KPISummary struct {
	Volatility   VolatilityStats   `json:"volatility"`
	Volume       VolumeStats       `json:"volume"`
	Pressure     PressureStats     `json:"pressure"`
	Distribution DistributionStats `json:"distribution"`
}
