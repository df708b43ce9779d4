package plot

import (
	"sync/atomic"

	"github.com/raykavin/stockview/pkg/core"
)

var documentSequence atomic.Uint64

// Document is a Surface recorded as data. The browser replays it with
// lightweight-charts: a new ID means a new chart, a new FitGeneration means
// fitContent must be called again.
type Document struct {
	ID            uint64            `json:"id"`
	Options       ChartOptions      `json:"options"`
	Series        []*DocumentSeries `json:"series"`
	FitGeneration int               `json:"fitGeneration"`
	FittedSeries  int               `json:"fittedSeries"`
	Removed       bool              `json:"removed"`
}

// DocumentSeries is a candlestick series recorded on a document
type DocumentSeries struct {
	Kind  string            `json:"kind"`
	Style CandlestickStyle  `json:"style"`
	Data  []core.ChartPoint `json:"data"`
}

// SetData replaces the series points
func (s *DocumentSeries) SetData(points []core.ChartPoint) {
	s.Data = points
}

// NewDocument is a SurfaceFactory producing recorded documents
func NewDocument(_ Container, options ChartOptions) Surface {
	return &Document{
		ID:      documentSequence.Add(1),
		Options: options,
		Series:  make([]*DocumentSeries, 0, 2),
	}
}

func (d *Document) AddCandlestickSeries(style CandlestickStyle) CandlestickSeries {
	series := &DocumentSeries{Kind: "candlestick", Style: style, Data: []core.ChartPoint{}}
	if !d.Removed {
		d.Series = append(d.Series, series)
	}
	return series
}

// FitContent records a fit over every series attached so far
func (d *Document) FitContent() {
	if d.Removed {
		return
	}
	d.FitGeneration++
	d.FittedSeries = len(d.Series)
}

func (d *Document) Resize(width, height int) {
	if d.Removed {
		return
	}
	d.Options.Width = width
	d.Options.Height = height
}

// Remove detaches every series; the document cannot be drawn on afterwards
func (d *Document) Remove() {
	d.Removed = true
	d.Series = nil
}
