package chartview

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/gorilla/websocket"
	"github.com/samber/lo"

	"marmot/interfaces"
	"marmot/kpi"
	"marmot/model"
	"marmot/utils/log"
)

const frameSize = 200

// ChartServer : KPI dashboard on its own port. A background loop refreshes a
// snapshot from the store and the aggregator; /ws pushes each new snapshot.
type ChartServer struct {
	store      interfaces.KlineStore
	aggregator *kpi.Aggregator
	symbols    []string
	data       *SnapshotStore

	httpServer *http.Server
	upgrader   websocket.Upgrader
}

func NewChartServer(store interfaces.KlineStore, aggregator *kpi.Aggregator, symbols []string) *ChartServer {
	return &ChartServer{
		store:      store,
		aggregator: aggregator,
		symbols:    symbols,
		data:       NewSnapshotStore(),
		upgrader:   websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
}

// Refresh pulls fresh frames and a KPI summary into the snapshot store and
// broadcasts the summary to websocket subscribers.
func (cs *ChartServer) Refresh(ctx context.Context) error {
	frames := make(map[string]*model.ChartFrame, len(cs.symbols))
	for _, symbol := range cs.symbols {
		klines, err := cs.store.List(ctx, model.KlineFilter{Symbol: symbol}, model.ListOptions{
			Limit:     frameSize,
			SortBy:    "open_time",
			SortOrder: "desc",
		})
		if err != nil {
			return err
		}
		frames[symbol] = model.NewChartFrame(symbol, lo.Reverse(klines))
	}

	summary, err := cs.aggregator.Summary(ctx, model.KlineFilter{})
	if err != nil {
		return err
	}

	snap := Snapshot{Summary: summary, Frames: frames, UpdatedAt: time.Now().UTC()}
	cs.data.Set(snap)

	payload, err := json.Marshal(struct {
		Type string   `json:"type"`
		Data Snapshot `json:"data"`
	}{Type: "summary", Data: snap})
	if err != nil {
		return err
	}
	cs.data.Broadcast(payload)
	return nil
}

// Run refreshes immediately, then on a ticker until ctx is done.
func (cs *ChartServer) Run(ctx context.Context, every time.Duration) {
	if err := cs.Refresh(ctx); err != nil {
		log.Errorf("[CHART] refresh failed: %v", err)
	}

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := cs.Refresh(ctx); err != nil {
				log.Errorf("[CHART] refresh failed: %v", err)
			}
		}
	}
}

func (cs *ChartServer) Start(port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", cs.indexHandler)
	mux.HandleFunc("/chart", cs.chartHandler)
	mux.HandleFunc("/ws", cs.wsHandler)

	cs.httpServer = &http.Server{Addr: ":" + port, Handler: mux}
	log.Infof("[CHART] listening on :%s", port)
	err := cs.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (cs *ChartServer) Stop(ctx context.Context) error {
	if cs.httpServer == nil {
		return nil
	}
	return cs.httpServer.Shutdown(ctx)
}

func (cs *ChartServer) indexHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, `<html><body>
        <h2>Marmot Trading Analytics</h2>
        <p><a href="/chart">Go To KPI Dashboard</a></p>
        </body></html>`)
}

func (cs *ChartServer) chartHandler(w http.ResponseWriter, r *http.Request) {
	snap := cs.data.Get()

	page := components.NewPage()
	page.PageTitle = "Marmot KPI Dashboard"

	for _, symbol := range cs.symbols {
		if frame, ok := snap.Frames[symbol]; ok {
			page.AddCharts(buildKlineChart(frame))
			page.AddCharts(buildRSIChart(frame))
		}
	}
	page.AddCharts(
		buildVolatilityChart(snap.Summary.Volatility),
		buildPressureChart(snap.Summary.Pressure),
		buildVolumeChart(snap.Summary.Volume),
	)

	if err := page.Render(w); err != nil {
		log.Errorf("[CHART] render failed: %v", err)
	}
}

// wsHandler : live refresh feed. Sends the current snapshot on connect, then
// every broadcast until the client goes away.
func (cs *ChartServer) wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := cs.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("[CHART] websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ch := cs.data.Subscribe()
	defer cs.data.Unsubscribe(ch)

	initial, err := json.Marshal(struct {
		Type string   `json:"type"`
		Data Snapshot `json:"data"`
	}{Type: "summary", Data: cs.data.Get()})
	if err == nil {
		if err := conn.WriteMessage(websocket.TextMessage, initial); err != nil {
			return
		}
	}

	// drain reads so close frames are processed
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cs.data.Unsubscribe(ch)
				return
			}
		}
	}()

	for msg := range ch {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

func buildKlineChart(frame *model.ChartFrame) *charts.Kline {
	kline := charts.NewKLine()
	if frame.Close.Length() == 0 {
		return kline
	}

	n := frame.Close.Length()
	xVals := make([]string, n)
	kValues := make([]opts.KlineData, n)

	// go-echarts Kline expects [open, close, low, high]
	for i := 0; i < n; i++ {
		xVals[i] = frame.Time[i].Format("01/02 15:04")
		kValues[i] = opts.KlineData{
			Value: [4]float64{frame.Open[i], frame.Close[i], frame.Low[i], frame.High[i]},
		}
	}

	kline.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("%s Candles", frame.Symbol),
			Show:  opts.Bool(true),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	kline.SetXAxis(xVals).
		AddSeries("KLine", kValues).
		SetSeriesOptions(charts.WithItemStyleOpts(opts.ItemStyle{
			Color:        "#ec0000",
			Color0:       "#00da3c",
			BorderColor:  "#8A0000",
			BorderColor0: "#008F28",
		}))

	sma := smaOverlay(frame)
	if sma.Values.Length() > 0 {
		line := charts.NewLine()
		lineData := make([]opts.LineData, sma.Values.Length())
		for i, v := range sma.Values {
			lineData[i] = opts.LineData{Value: v}
		}
		line.SetXAxis(xVals).AddSeries(sma.Name, lineData)
		kline.Overlap(line)
	}
	return kline
}

func buildRSIChart(frame *model.ChartFrame) *charts.Line {
	line := charts.NewLine()
	rsi := rsiOverlay(frame)
	if rsi.Values.Length() == 0 {
		return line
	}

	xVals := make([]string, len(frame.Time))
	for i, t := range frame.Time {
		xVals[i] = t.Format("01/02 15:04")
	}

	rsiSeries := make([]opts.LineData, rsi.Values.Length())
	for i, v := range rsi.Values {
		rsiSeries[i] = opts.LineData{Value: v}
	}

	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("%s %s", frame.Symbol, rsi.Name),
			Show:  opts.Bool(true),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	line.SetXAxis(xVals).
		AddSeries(rsi.Name, rsiSeries).
		SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	return line
}

func buildVolatilityChart(stats model.VolatilityStats) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Volatility by Symbol",
			Subtitle: fmt.Sprintf("global avg %.4f%%", stats.Global.Value),
			Show:     opts.Bool(true),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	xVals := make([]string, len(stats.BySymbol))
	avgSeries := make([]opts.BarData, len(stats.BySymbol))
	maxSeries := make([]opts.BarData, len(stats.BySymbol))
	for i, s := range stats.BySymbol {
		xVals[i] = s.Symbol
		avgSeries[i] = opts.BarData{Value: s.VolatilityAvg}
		maxSeries[i] = opts.BarData{Value: s.VolatilityMax}
	}
	bar.SetXAxis(xVals).
		AddSeries("avg %", avgSeries).
		AddSeries("max %", maxSeries)
	return bar
}

func buildPressureChart(stats model.PressureStats) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Buy/Sell Pressure",
			Subtitle: fmt.Sprintf("global %.2f%% buy, %s", stats.Global.BuyPct, stats.Global.Sentiment),
			Show:     opts.Bool(true),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	xVals := make([]string, len(stats.BySymbol))
	buySeries := make([]opts.BarData, len(stats.BySymbol))
	sellSeries := make([]opts.BarData, len(stats.BySymbol))
	for i, s := range stats.BySymbol {
		xVals[i] = s.Symbol
		buySeries[i] = opts.BarData{Value: s.BuyPct}
		sellSeries[i] = opts.BarData{Value: s.SellPct}
	}
	bar.SetXAxis(xVals).
		AddSeries("buy %", buySeries).
		AddSeries("sell %", sellSeries)
	bar.SetSeriesOptions(charts.WithBarChartOpts(opts.BarChart{Stack: "pressure"}))
	return bar
}

func buildVolumeChart(stats model.VolumeStats) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Quote Volume by Symbol",
			Subtitle: fmt.Sprintf("total %.2f, %d trades", stats.Global.VolumeQuote, stats.Global.TotalTrades),
			Show:     opts.Bool(true),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	xVals := make([]string, len(stats.BySymbol))
	series := make([]opts.BarData, len(stats.BySymbol))
	for i, s := range stats.BySymbol {
		xVals[i] = s.Symbol
		series[i] = opts.BarData{Value: s.VolumeQuote}
	}
	bar.SetXAxis(xVals).AddSeries("quote volume", series)
	return bar
}
