package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSumBy(t *testing.T) {
	type row struct {
		base  float64
		count int64
	}
	rows := []row{{1.5, 2}, {2.5, 3}, {0, 0}}

	assert.Equal(t, 4.0, SumBy(rows, func(r row) float64 { return r.base }))
	assert.Equal(t, int64(5), SumBy(rows, func(r row) int64 { return r.count }))
	assert.Equal(t, 0.0, SumBy(nil, func(r row) float64 { return r.base }))
}

func TestRoundTo(t *testing.T) {
	assert.Equal(t, 1.2346, RoundTo(1.23456789, 4))
	assert.Equal(t, 1.23, RoundTo(1.234, 2))
	assert.Equal(t, 1.24, RoundTo(1.236, 2))
	assert.Equal(t, -1.24, RoundTo(-1.236, 2))
	assert.Equal(t, 100.0, RoundTo(100, 8))
	assert.Equal(t, 0.0, RoundTo(0, 2))
}

func TestMap(t *testing.T) {
	doubled := Map([]int{1, 2, 3}, func(v int) int { return v * 2 })
	assert.Equal(t, []int{2, 4, 6}, doubled)
	assert.Empty(t, Map(nil, func(v int) int { return v }))
}

func TestGroupBy(t *testing.T) {
	grouped := GroupBy([]string{"BTCUSDT", "ETHUSDT", "BTCUSDT"}, func(s string) string { return s })
	assert.Len(t, grouped, 2)
	assert.Len(t, grouped["BTCUSDT"], 2)
	assert.Len(t, grouped["ETHUSDT"], 1)
}
