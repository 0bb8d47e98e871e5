package kpi

import (
	"context"
	"sort"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"marmot/errors"
	"marmot/model"
	"marmot/utils/collection"
)

// KlineFinder is the single store operation the aggregator needs.
type KlineFinder interface {
	Find(ctx context.Context, filter model.KlineFilter) ([]model.Kline, error)
}

// Aggregator computes the four KPI groups over a filtered kline slice.
// Every operation is read-only; each call issues one bulk read and does the
// grouping in memory, so state never outlives a call.
type Aggregator struct {
	store KlineFinder
}

func NewAggregator(store KlineFinder) *Aggregator {
	return &Aggregator{store: store}
}

func (a *Aggregator) find(ctx context.Context, filter model.KlineFilter) ([]model.Kline, error) {
	klines, err := a.store.Find(ctx, filter)
	if err != nil {
		if _, rest := errors.ConvertToErrorBase(err); rest != nil {
			return nil, errors.NewStorageUnavailable(err)
		}
		return nil, err
	}
	return klines, nil
}

// candleVolatility : (high-low)/low in percent, 0 when low is not positive.
func candleVolatility(k model.Kline) float64 {
	if k.LowPrice <= 0 {
		return 0
	}
	return (k.HighPrice - k.LowPrice) / k.LowPrice * 100
}

// Volatility : per-symbol mean/max volatility with price extremes, plus the
// flat mean over every candle in the filtered set (not a mean of means).
func (a *Aggregator) Volatility(ctx context.Context, filter model.KlineFilter) (model.VolatilityStats, error) {
	klines, err := a.find(ctx, filter)
	if err != nil {
		return model.VolatilityStats{}, err
	}

	result := model.VolatilityStats{
		Global:   model.VolatilityGlobal{Value: 0, Unit: "percent"},
		BySymbol: []model.VolatilitySymbol{},
	}
	if len(klines) == 0 {
		return result, nil
	}

	grouped := collection.GroupBy(klines, func(k model.Kline) string { return k.Symbol })
	var all []float64

	for symbol, group := range grouped {
		volatilities := collection.Map(group, candleVolatility)
		all = append(all, volatilities...)

		avg, _ := stats.Mean(volatilities)
		max, _ := stats.Max(volatilities)
		priceMax, _ := stats.Max(collection.Map(group, func(k model.Kline) float64 { return k.HighPrice }))
		priceMin, _ := stats.Min(collection.Map(group, func(k model.Kline) float64 { return k.LowPrice }))

		result.BySymbol = append(result.BySymbol, model.VolatilitySymbol{
			Symbol:        symbol,
			VolatilityAvg: collection.RoundTo(avg, 4),
			VolatilityMax: collection.RoundTo(max, 4),
			PriceMax:      collection.RoundTo(priceMax, 2),
			PriceMin:      collection.RoundTo(priceMin, 2),
			Periods:       len(group),
		})
	}

	global, _ := stats.Mean(all)
	result.Global.Value = collection.RoundTo(global, 4)

	sort.Slice(result.BySymbol, func(i, j int) bool {
		if result.BySymbol[i].VolatilityAvg != result.BySymbol[j].VolatilityAvg {
			return result.BySymbol[i].VolatilityAvg > result.BySymbol[j].VolatilityAvg
		}
		return result.BySymbol[i].Symbol < result.BySymbol[j].Symbol
	})
	return result, nil
}

// Volume : per-symbol base/quote volume and trade totals with per-period and
// per-trade averages, plus grand totals across all symbols.
func (a *Aggregator) Volume(ctx context.Context, filter model.KlineFilter) (model.VolumeStats, error) {
	klines, err := a.find(ctx, filter)
	if err != nil {
		return model.VolumeStats{}, err
	}

	result := model.VolumeStats{BySymbol: []model.VolumeSymbol{}}
	if len(klines) == 0 {
		return result, nil
	}

	grouped := collection.GroupBy(klines, func(k model.Kline) string { return k.Symbol })
	var totalBase, totalQuote float64
	var totalTrades int64

	for symbol, group := range grouped {
		base := collection.SumBy(group, func(k model.Kline) float64 { return k.Volume })
		quote := collection.SumBy(group, func(k model.Kline) float64 { return k.QuoteAssetVolume })
		trades := collection.SumBy(group, func(k model.Kline) int64 { return k.NumberOfTrades })

		totalBase += base
		totalQuote += quote
		totalTrades += trades

		avgPerPeriod := base / float64(len(group))
		quotePerTrade := 0.0
		if trades > 0 {
			quotePerTrade = quote / float64(trades)
		}

		result.BySymbol = append(result.BySymbol, model.VolumeSymbol{
			Symbol:             symbol,
			VolumeBase:         collection.RoundTo(base, 8),
			VolumeQuote:        collection.RoundTo(quote, 2),
			NumTrades:          trades,
			VolumeAvgPerPeriod: collection.RoundTo(avgPerPeriod, 8),
			QuotePerTrade:      collection.RoundTo(quotePerTrade, 2),
		})
	}

	result.Global = model.VolumeGlobal{
		VolumeBase:  collection.RoundTo(totalBase, 8),
		VolumeQuote: collection.RoundTo(totalQuote, 2),
		TotalTrades: totalTrades,
	}

	sort.Slice(result.BySymbol, func(i, j int) bool {
		if result.BySymbol[i].VolumeQuote != result.BySymbol[j].VolumeQuote {
			return result.BySymbol[i].VolumeQuote > result.BySymbol[j].VolumeQuote
		}
		return result.BySymbol[i].Symbol < result.BySymbol[j].Symbol
	})
	return result, nil
}

func sentimentFor(buyPct float64) string {
	switch {
	case buyPct > 55:
		return model.SentimentBullish
	case buyPct < 45:
		return model.SentimentBearish
	default:
		return model.SentimentNeutral
	}
}

// Pressure : taker-buy volume against total volume. A group with zero total
// volume reads as a balanced 50/50, not a fault.
func (a *Aggregator) Pressure(ctx context.Context, filter model.KlineFilter) (model.PressureStats, error) {
	klines, err := a.find(ctx, filter)
	if err != nil {
		return model.PressureStats{}, err
	}

	result := model.PressureStats{
		Global:   model.PressureGlobal{BuyPct: 0, Sentiment: model.SentimentNeutral},
		BySymbol: []model.PressureSymbol{},
	}
	if len(klines) == 0 {
		return result, nil
	}

	grouped := collection.GroupBy(klines, func(k model.Kline) string { return k.Symbol })
	var globalBuyer, globalTotal float64

	for symbol, group := range grouped {
		buyer := collection.SumBy(group, func(k model.Kline) float64 { return k.TakerBuyBaseAssetVolume })
		total := collection.SumBy(group, func(k model.Kline) float64 { return k.Volume })
		seller := total - buyer

		globalBuyer += buyer
		globalTotal += total

		buyPct := 50.0
		if total > 0 {
			buyPct = buyer / total * 100
		}

		result.BySymbol = append(result.BySymbol, model.PressureSymbol{
			Symbol:       symbol,
			BuyPct:       collection.RoundTo(buyPct, 2),
			SellPct:      collection.RoundTo(100-buyPct, 2),
			Sentiment:    sentimentFor(buyPct),
			BuyerVolume:  collection.RoundTo(buyer, 8),
			SellerVolume: collection.RoundTo(seller, 8),
		})
	}

	globalPct := 50.0
	if globalTotal > 0 {
		globalPct = globalBuyer / globalTotal * 100
	}
	result.Global = model.PressureGlobal{
		BuyPct:    collection.RoundTo(globalPct, 2),
		Sentiment: sentimentFor(globalPct),
	}

	sort.Slice(result.BySymbol, func(i, j int) bool {
		if result.BySymbol[i].BuyPct != result.BySymbol[j].BuyPct {
			return result.BySymbol[i].BuyPct > result.BySymbol[j].BuyPct
		}
		return result.BySymbol[i].Symbol < result.BySymbol[j].Symbol
	})
	return result, nil
}

// TradeDistribution : embedded aggtrades grouped by the owning candle's
// symbol. A trade counts as buyer-side when the taker bought, that is when
// is_buyer_maker is false. There is no global rollup for this group.
func (a *Aggregator) TradeDistribution(ctx context.Context, filter model.KlineFilter) (model.DistributionStats, error) {
	klines, err := a.find(ctx, filter)
	if err != nil {
		return model.DistributionStats{}, err
	}

	result := model.DistributionStats{BySymbol: []model.DistributionSymbol{}}
	if len(klines) == 0 {
		return result, nil
	}

	type acc struct {
		total, buyers, sellers int64
		quantity               float64
	}
	grouped := make(map[string]*acc)

	for _, k := range klines {
		entry, ok := grouped[k.Symbol]
		if !ok {
			entry = &acc{}
			grouped[k.Symbol] = entry
		}
		for _, trade := range k.AggTrades {
			entry.total++
			entry.quantity += trade.Quantity
			if trade.IsBuyerMaker {
				entry.sellers++
			} else {
				entry.buyers++
			}
		}
	}

	for symbol, entry := range grouped {
		avgQuantity := 0.0
		pctBuyers := 0.0
		if entry.total > 0 {
			avgQuantity = entry.quantity / float64(entry.total)
			pctBuyers = float64(entry.buyers) / float64(entry.total) * 100
		}
		result.BySymbol = append(result.BySymbol, model.DistributionSymbol{
			Symbol:       symbol,
			TotalTrades:  entry.total,
			BuyerTrades:  entry.buyers,
			SellerTrades: entry.sellers,
			PctBuyerSide: collection.RoundTo(pctBuyers, 2),
			AvgQuantity:  collection.RoundTo(avgQuantity, 8),
		})
	}

	sort.Slice(result.BySymbol, func(i, j int) bool {
		if result.BySymbol[i].TotalTrades != result.BySymbol[j].TotalTrades {
			return result.BySymbol[i].TotalTrades > result.BySymbol[j].TotalTrades
		}
		return result.BySymbol[i].Symbol < result.BySymbol[j].Symbol
	})
	return result, nil
}

// Summary runs the four KPI computations concurrently over the same filter.
// The operations are independent and commutative, so one goroutine each (a
// fixed fan-out of four reads) only shortens the wall clock.
func (a *Aggregator) Summary(ctx context.Context, filter model.KlineFilter) (model.KPISummary, error) {
	var summary model.KPISummary

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		summary.Volatility, err = a.Volatility(groupCtx, filter)
		return err
	})
	group.Go(func() error {
		var err error
		summary.Volume, err = a.Volume(groupCtx, filter)
		return err
	})
	group.Go(func() error {
		var err error
		summary.Pressure, err = a.Pressure(groupCtx, filter)
		return err
	})
	group.Go(func() error {
		var err error
		summary.Distribution, err = a.TradeDistribution(groupCtx, filter)
		return err
	})

	if err := group.Wait(); err != nil {
		return model.KPISummary{}, err
	}
	return summary, nil
}
