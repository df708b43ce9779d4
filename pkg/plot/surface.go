package plot

import (
	"sync"

	"github.com/raykavin/stockview/pkg/core"
)

// Container is the region hosting a drawing surface
type Container interface {
	Mounted() bool
	ClientWidth() int
}

// CandlestickSeries is a series attached to a surface
type CandlestickSeries interface {
	SetData(points []core.ChartPoint)
}

// Surface is a drawing surface owning one or more series
type Surface interface {
	AddCandlestickSeries(style CandlestickStyle) CandlestickSeries
	FitContent()
	Resize(width, height int)
	Remove()
}

// SurfaceFactory creates a surface for a container
type SurfaceFactory func(container Container, options ChartOptions) Surface

// Viewport is a Container whose size is reported by a remote client
type Viewport struct {
	sync.RWMutex
	width   int
	mounted bool
}

// NewViewport returns a mounted viewport with the given width
func NewViewport(width int) *Viewport {
	return &Viewport{width: width, mounted: true}
}

// Mount attaches the viewport with the given width
func (v *Viewport) Mount(width int) {
	v.Lock()
	defer v.Unlock()
	v.width = width
	v.mounted = true
}

// Unmount detaches the viewport
func (v *Viewport) Unmount() {
	v.Lock()
	defer v.Unlock()
	v.mounted = false
}

// SetWidth updates the client width
func (v *Viewport) SetWidth(width int) {
	v.Lock()
	defer v.Unlock()
	v.width = width
}

func (v *Viewport) Mounted() bool {
	v.RLock()
	defer v.RUnlock()
	return v.mounted
}

func (v *Viewport) ClientWidth() int {
	v.RLock()
	defer v.RUnlock()
	return v.width
}
