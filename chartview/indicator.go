package chartview

import (
	"github.com/markcheno/go-talib"

	"marmot/model"
)

const (
	smaWindow = 9
	rsiWindow = 14
)

// Overlay : a named indicator line aligned with the frame's time axis.
type Overlay struct {
	Name   string
	Values model.Series[float64]
}

// smaOverlay computes the simple moving average over closes. talib pads the
// warmup region with zeros, which echarts renders as a leading flat segment.
func smaOverlay(frame *model.ChartFrame) Overlay {
	if frame.Close.Length() < smaWindow {
		return Overlay{Name: "SMA(9)"}
	}
	return Overlay{
		Name:   "SMA(9)",
		Values: talib.Sma(frame.Close.Values(), smaWindow),
	}
}

func rsiOverlay(frame *model.ChartFrame) Overlay {
	if frame.Close.Length() <= rsiWindow {
		return Overlay{Name: "RSI(14)"}
	}
	return Overlay{
		Name:   "RSI(14)",
		Values: talib.Rsi(frame.Close.Values(), rsiWindow),
	}
}
