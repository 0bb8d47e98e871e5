package mocks

import (
	"context"
	"sync"
	"time"

	"marmot/model"
)

// MockExchange : canned market data source for pipeline tests.
type MockExchange struct {
	mu sync.Mutex

	MockKlines map[string][]model.Kline   // keyed by symbol
	MockTrades map[string][]model.AggTrade // keyed by symbol

	KlinesErr    error
	AggTradesErr error

	KlinesCount    int
	AggTradesCount int
}

func (m *MockExchange) Klines(ctx context.Context, symbol, interval string, limit int) ([]model.Kline, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.KlinesCount++
	if m.KlinesErr != nil {
		return nil, m.KlinesErr
	}
	klines := m.MockKlines[symbol]
	if limit > 0 && len(klines) > limit {
		klines = klines[:limit]
	}
	return klines, nil
}

func (m *MockExchange) AggTrades(ctx context.Context, symbol string, start, end time.Time) ([]model.AggTrade, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AggTradesCount++
	if m.AggTradesErr != nil {
		return nil, m.AggTradesErr
	}
	var out []model.AggTrade
	for _, t := range m.MockTrades[symbol] {
		if !t.Timestamp.Before(start) && !t.Timestamp.After(end) {
			out = append(out, t)
		}
	}
	return out, nil
}
