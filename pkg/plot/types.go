package plot

import "github.com/raykavin/stockview/pkg/core"

// Chart palette
const (
	ColorBackground = "#111"
	ColorText       = "#ccc"
	ColorGrid       = "#333"
	ColorUp         = "#26a69a"
	ColorDown       = "#ef5350"
	ColorPrediction = "rgba(126, 56, 191, 0.6)"
)

// DefaultHeight is the fixed chart height in logical pixels
const DefaultHeight = 400

// ChartOptions mirrors the lightweight-charts chart options the browser applies
type ChartOptions struct {
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Layout    Layout    `json:"layout"`
	Grid      Grid      `json:"grid"`
	TimeScale TimeScale `json:"timeScale"`
}

type Layout struct {
	Background Background `json:"background"`
	TextColor  string     `json:"textColor"`
}

type Background struct {
	Type  string `json:"type"`
	Color string `json:"color"`
}

type Grid struct {
	VertLines GridLine `json:"vertLines"`
	HorzLines GridLine `json:"horzLines"`
}

type GridLine struct {
	Color string `json:"color"`
}

type TimeScale struct {
	TimeVisible    bool `json:"timeVisible"`
	SecondsVisible bool `json:"secondsVisible"`
}

// CandlestickStyle holds the colors of a candlestick series
type CandlestickStyle struct {
	UpColor       string `json:"upColor"`
	DownColor     string `json:"downColor"`
	WickUpColor   string `json:"wickUpColor"`
	WickDownColor string `json:"wickDownColor"`
	BorderVisible bool   `json:"borderVisible"`
}

var (
	// HistoricalStyle draws observed bars green when up and red when down
	HistoricalStyle = CandlestickStyle{
		UpColor:       ColorUp,
		DownColor:     ColorDown,
		WickUpColor:   ColorUp,
		WickDownColor: ColorDown,
	}

	// PredictionStyle draws forecast bars in one translucent purple regardless of direction
	PredictionStyle = CandlestickStyle{
		UpColor:       ColorPrediction,
		DownColor:     ColorPrediction,
		WickUpColor:   ColorPrediction,
		WickDownColor: ColorPrediction,
	}
)

// DefaultChartOptions returns the dark chart layout with the given height
func DefaultChartOptions(height int) ChartOptions {
	if height <= 0 {
		height = DefaultHeight
	}

	return ChartOptions{
		Height: height,
		Layout: Layout{
			Background: Background{Type: "solid", Color: ColorBackground},
			TextColor:  ColorText,
		},
		Grid: Grid{
			VertLines: GridLine{Color: ColorGrid},
			HorzLines: GridLine{Color: ColorGrid},
		},
		TimeScale: TimeScale{
			TimeVisible:    true,
			SecondsVisible: false,
		},
	}
}

// LinePoint is one value of a lightweight-charts line series
type LinePoint struct {
	Time  int64   `json:"time"`
	Value float64 `json:"value"`
}

// LineSeries is the merged close-price line split into its two drawable series
type LineSeries struct {
	Historical []LinePoint `json:"historical"`
	Prediction []LinePoint `json:"prediction"`
}

// chartPayload is the JSON sent to clients after every render or resize
type chartPayload struct {
	Symbol     string                 `json:"symbol"`
	State      string                 `json:"state"`
	Quote      core.Quote             `json:"quote"`
	Document   *Document              `json:"document"`
	Line       []core.MergedLinePoint `json:"line"`
	LineSeries LineSeries             `json:"lineSeries"`
}

// statePayload reports the load status of a session
type statePayload struct {
	Status string `json:"status"`
	Symbol string `json:"symbol"`
	Error  string `json:"error,omitempty"`
}
