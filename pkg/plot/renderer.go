package plot

import (
	"fmt"

	"github.com/raykavin/stockview/pkg/core"
	"github.com/raykavin/stockview/pkg/series"
)

// State of a renderer
type State int

const (
	Uninitialized State = iota
	Active
	ActivePrediction
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case ActivePrediction:
		return "active_prediction"
	default:
		return "uninitialized"
	}
}

// Handle owns one drawing surface and its resize listener
type Handle struct {
	surface  Surface
	window   *Window
	listener ListenerID
	state    State
	released bool
}

// Surface returns the owned surface
func (h *Handle) Surface() Surface { return h.surface }

// State returns Active or ActivePrediction
func (h *Handle) State() State { return h.state }

// Release removes the resize listener and the surface. Calling it again is a no-op.
func (h *Handle) Release() {
	if h == nil || h.released {
		return
	}
	h.released = true
	h.window.RemoveResizeListener(h.listener)
	h.surface.Remove()
}

// Acquire draws the historical series and, when present, the prediction series on
// a new surface, fits the viewport to both and attaches one resize listener.
// It returns a nil handle when there is nothing to draw.
func Acquire(container Container, window *Window, options ChartOptions, factory SurfaceFactory,
	historical, prediction core.Series) (*Handle, error) {

	if container == nil || !container.Mounted() || historical.Empty() {
		return nil, nil
	}

	historicalPoints, err := series.Normalize(historical)
	if err != nil {
		return nil, fmt.Errorf("normalize historical series: %w", err)
	}

	predictionPoints, err := series.Normalize(prediction)
	if err != nil {
		return nil, fmt.Errorf("normalize prediction series: %w", err)
	}

	options.Width = container.ClientWidth()
	height := options.Height
	surface := factory(container, options)

	handle := &Handle{surface: surface, window: window, state: Active}

	surface.AddCandlestickSeries(HistoricalStyle).SetData(historicalPoints)

	if len(predictionPoints) > 0 {
		surface.AddCandlestickSeries(PredictionStyle).SetData(predictionPoints)
		handle.state = ActivePrediction
	}

	// Fit only once every series is attached
	surface.FitContent()

	handle.listener = window.AddResizeListener(func() {
		surface.Resize(container.ClientWidth(), height)
		surface.FitContent()
	})

	return handle, nil
}

// RendererOption configures a Renderer
type RendererOption func(*Renderer)

// WithRendererHeight sets the fixed chart height
func WithRendererHeight(height int) RendererOption {
	return func(r *Renderer) {
		r.options = DefaultChartOptions(height)
	}
}

// WithSurfaceFactory replaces the surface factory (NewDocument by default)
func WithSurfaceFactory(factory SurfaceFactory) RendererOption {
	return func(r *Renderer) {
		r.factory = factory
	}
}

// WithRendererMetrics reports surface lifecycle to a metrics recorder
func WithRendererMetrics(metrics *Metrics) RendererOption {
	return func(r *Renderer) {
		r.metrics = metrics
	}
}

// Renderer rebuilds the chart from scratch on every input change. The previous
// surface and listener are always released before a new one is acquired.
type Renderer struct {
	container Container
	window    *Window
	options   ChartOptions
	factory   SurfaceFactory
	metrics   *Metrics
	handle    *Handle
}

func NewRenderer(container Container, window *Window, options ...RendererOption) *Renderer {
	r := &Renderer{
		container: container,
		window:    window,
		options:   DefaultChartOptions(DefaultHeight),
		factory:   NewDocument,
	}

	for _, option := range options {
		option(r)
	}

	return r
}

// Render releases the current surface and draws both series on a new one
func (r *Renderer) Render(historical, prediction core.Series) error {
	r.Release()

	handle, err := Acquire(r.container, r.window, r.options, r.factory, historical, prediction)
	if err != nil {
		return err
	}

	r.handle = handle
	if handle != nil {
		r.metrics.surfaceAcquired(handle.state)
	}

	return nil
}

// Release tears down the current surface, if any
func (r *Renderer) Release() {
	if r.handle == nil {
		return
	}

	r.handle.Release()
	r.handle = nil
	r.metrics.surfaceReleased()
}

// Mount attaches a container; the next Render draws on it
func (r *Renderer) Mount(container Container) {
	r.container = container
}

// Unmount releases the surface and detaches the container
func (r *Renderer) Unmount() {
	r.Release()
	r.container = nil
}

// State returns the current renderer state
func (r *Renderer) State() State {
	if r.handle == nil {
		return Uninitialized
	}
	return r.handle.state
}

// Surface returns the live surface, or nil when uninitialized
func (r *Renderer) Surface() Surface {
	if r.handle == nil {
		return nil
	}
	return r.handle.surface
}

// Document returns the live surface as a Document, or nil
func (r *Renderer) Document() *Document {
	document, _ := r.Surface().(*Document)
	return document
}
