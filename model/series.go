package model

import (
	"time"

	"golang.org/x/exp/constraints"
)

// Series is a time series of values
type Series[T constraints.Ordered] []T

// Values returns the values of the series
func (s Series[T]) Values() []T {
	return s
}

// Length returns the number of values in the series
func (s Series[T]) Length() int {
	return len(s)
}

// Last returns the last value of the series given a past index position
func (s Series[T]) Last(position int) T {
	return s[len(s)-1-position]
}

// LastValues returns the last values of the series given a size
func (s Series[T]) LastValues(size int) []T {
	if l := len(s); l > size {
		return s[l-size:]
	}
	return s
}

// ChartFrame : column view over a symbol's klines, feeds the chart indicators.
type ChartFrame struct {
	Symbol string

	Open   Series[float64]
	Close  Series[float64]
	High   Series[float64]
	Low    Series[float64]
	Volume Series[float64]

	Time []time.Time
}

// NewChartFrame builds the column view from stored klines, preserving order.
func NewChartFrame(symbol string, klines []Kline) *ChartFrame {
	frame := &ChartFrame{Symbol: symbol}
	for _, k := range klines {
		frame.Open = append(frame.Open, k.OpenPrice)
		frame.Close = append(frame.Close, k.ClosePrice)
		frame.High = append(frame.High, k.HighPrice)
		frame.Low = append(frame.Low, k.LowPrice)
		frame.Volume = append(frame.Volume, k.Volume)
		frame.Time = append(frame.Time, k.OpenTime)
	}
	return frame
}
