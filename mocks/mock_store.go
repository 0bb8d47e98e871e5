package mocks

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"marmot/errors"
	"marmot/model"
)

// MockKlineStore : in-memory stand-in for the Mongo store. Set FindErr (or
// the other *Err fields) to force the corresponding call to fail.
type MockKlineStore struct {
	mu     sync.Mutex
	Klines []model.Kline

	FindErr   error
	InsertErr error
	PingErr   error

	FindCount       int
	InsertManyCount int
	LastInserted    []model.Kline
}

func (m *MockKlineStore) Insert(ctx context.Context, kline model.Kline) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertErr != nil {
		return "", m.InsertErr
	}
	if kline.ID.IsZero() {
		kline.ID = primitive.NewObjectID()
	}
	m.Klines = append(m.Klines, kline)
	return kline.ID.Hex(), nil
}

func (m *MockKlineStore) InsertMany(ctx context.Context, klines []model.Kline) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertErr != nil {
		return m.InsertErr
	}
	m.InsertManyCount++
	m.LastInserted = klines
	m.Klines = append(m.Klines, klines...)
	return nil
}

func (m *MockKlineStore) matches(k model.Kline, filter model.KlineFilter) bool {
	if filter.Symbol != "" && k.Symbol != filter.Symbol {
		return false
	}
	if filter.Start != nil && k.OpenTime.Before(*filter.Start) {
		return false
	}
	if filter.End != nil && k.OpenTime.After(*filter.End) {
		return false
	}
	return true
}

func (m *MockKlineStore) Find(ctx context.Context, filter model.KlineFilter) ([]model.Kline, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FindCount++
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	var out []model.Kline
	for _, k := range m.Klines {
		if m.matches(k, filter) {
			out = append(out, k)
		}
	}
	return out, nil
}

func (m *MockKlineStore) List(ctx context.Context, filter model.KlineFilter, opts model.ListOptions) ([]model.Kline, error) {
	klines, err := m.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	asc := opts.SortOrder == "asc"
	sort.SliceStable(klines, func(i, j int) bool {
		if asc {
			return klines[i].OpenTime.Before(klines[j].OpenTime)
		}
		return klines[j].OpenTime.Before(klines[i].OpenTime)
	})
	if opts.Skip > 0 {
		if opts.Skip >= int64(len(klines)) {
			return nil, nil
		}
		klines = klines[opts.Skip:]
	}
	if opts.Limit > 0 && int64(len(klines)) > opts.Limit {
		klines = klines[:opts.Limit]
	}
	return klines, nil
}

func (m *MockKlineStore) Get(ctx context.Context, id string) (model.Kline, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range m.Klines {
		if k.ID.Hex() == id {
			return k, nil
		}
	}
	return model.Kline{}, errors.NewNotFound("kline")
}

func (m *MockKlineStore) Update(ctx context.Context, id string, update model.KlineUpdate) (model.Kline, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, k := range m.Klines {
		if k.ID.Hex() == id {
			if update.Symbol != nil {
				k.Symbol = *update.Symbol
			}
			if update.Volume != nil {
				k.Volume = *update.Volume
			}
			if update.ClosePrice != nil {
				k.ClosePrice = *update.ClosePrice
			}
			m.Klines[i] = k
			return k, nil
		}
	}
	return model.Kline{}, errors.NewNotFound("kline")
}

func (m *MockKlineStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, k := range m.Klines {
		if k.ID.Hex() == id {
			m.Klines = append(m.Klines[:i], m.Klines[i+1:]...)
			return nil
		}
	}
	return errors.NewNotFound("kline")
}

func (m *MockKlineStore) Count(ctx context.Context, filter model.KlineFilter) (int64, error) {
	klines, err := m.Find(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(klines)), nil
}

func (m *MockKlineStore) DistinctSymbols(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[string]bool{}
	var symbols []string
	for _, k := range m.Klines {
		if !seen[k.Symbol] {
			seen[k.Symbol] = true
			symbols = append(symbols, k.Symbol)
		}
	}
	sort.Strings(symbols)
	return symbols, nil
}

func (m *MockKlineStore) Ping(ctx context.Context) error {
	return m.PingErr
}

func (m *MockKlineStore) Close(ctx context.Context) error {
	return nil
}
