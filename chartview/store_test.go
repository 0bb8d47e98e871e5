package chartview

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marmot/model"
)

func TestSnapshotStore_SetAndGet(t *testing.T) {
	store := NewSnapshotStore()
	assert.NotNil(t, store.Get().Frames)

	snap := Snapshot{
		Summary:   model.KPISummary{},
		Frames:    map[string]*model.ChartFrame{"BTCUSDT": {Symbol: "BTCUSDT"}},
		UpdatedAt: time.Now(),
	}
	store.Set(snap)
	assert.Equal(t, snap, store.Get())
}

func TestSnapshotStore_BroadcastReachesSubscribers(t *testing.T) {
	store := NewSnapshotStore()
	first := store.Subscribe()
	second := store.Subscribe()

	store.Broadcast([]byte("payload"))

	assert.Equal(t, []byte("payload"), <-first)
	assert.Equal(t, []byte("payload"), <-second)
}

func TestSnapshotStore_SlowSubscriberDropsPayloads(t *testing.T) {
	store := NewSnapshotStore()
	slow := store.Subscribe()

	// the channel buffers 8 payloads, the rest must be dropped, not block
	for i := 0; i < 20; i++ {
		store.Broadcast([]byte("tick"))
	}
	assert.Len(t, slow, 8)
}

func TestSnapshotStore_UnsubscribeIsIdempotent(t *testing.T) {
	store := NewSnapshotStore()
	ch := store.Subscribe()

	store.Unsubscribe(ch)
	store.Unsubscribe(ch) // second call must not close twice

	store.Broadcast([]byte("tick"))
	_, open := <-ch
	assert.False(t, open)
}

func TestNewChartFrameColumns(t *testing.T) {
	openTime := time.Date(2025, 11, 17, 12, 0, 0, 0, time.UTC)
	klines := []model.Kline{
		{OpenTime: openTime, OpenPrice: 1, ClosePrice: 2, HighPrice: 3, LowPrice: 0.5, Volume: 10},
		{OpenTime: openTime.Add(time.Minute), OpenPrice: 2, ClosePrice: 4, HighPrice: 5, LowPrice: 1.5, Volume: 20},
	}

	frame := model.NewChartFrame("BTCUSDT", klines)
	assert.Equal(t, "BTCUSDT", frame.Symbol)
	assert.Equal(t, []float64{2, 4}, frame.Close.Values())
	assert.Equal(t, 2, frame.Volume.Length())
	assert.Equal(t, 4.0, frame.Close.Last(0))
	assert.Equal(t, openTime, frame.Time[0])
}

func TestOverlays_ShortFramesYieldEmptyLines(t *testing.T) {
	frame := model.NewChartFrame("BTCUSDT", nil)
	assert.Empty(t, smaOverlay(frame).Values)
	assert.Empty(t, rsiOverlay(frame).Values)
}

func TestOverlays_AlignWithTimeAxis(t *testing.T) {
	closes := make([]model.Kline, 30)
	openTime := time.Date(2025, 11, 17, 12, 0, 0, 0, time.UTC)
	for i := range closes {
		closes[i] = model.Kline{
			OpenTime:   openTime.Add(time.Duration(i) * time.Minute),
			ClosePrice: 100 + float64(i%5),
		}
	}
	frame := model.NewChartFrame("BTCUSDT", closes)

	sma := smaOverlay(frame)
	require.Equal(t, frame.Close.Length(), sma.Values.Length())

	rsi := rsiOverlay(frame)
	require.Equal(t, frame.Close.Length(), rsi.Values.Length())
	for _, v := range rsi.Values.LastValues(10) {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 100.0)
	}
}
