package plot

import (
	"sync"

	"github.com/StudioSol/set"
)

// ListenerID identifies a registered resize listener
type ListenerID int64

// Window is the resize event source of a client. Listeners run in
// registration order.
type Window struct {
	sync.Mutex
	lastID    int64
	order     *set.LinkedHashSetINT64
	listeners map[int64]func()
}

func NewWindow() *Window {
	return &Window{
		order:     set.NewLinkedHashSetINT64(),
		listeners: make(map[int64]func()),
	}
}

// AddResizeListener registers fn and returns its ID
func (w *Window) AddResizeListener(fn func()) ListenerID {
	w.Lock()
	defer w.Unlock()

	w.lastID++
	w.order.Add(w.lastID)
	w.listeners[w.lastID] = fn

	return ListenerID(w.lastID)
}

// RemoveResizeListener unregisters a listener, reporting whether it was registered
func (w *Window) RemoveResizeListener(id ListenerID) bool {
	w.Lock()
	defer w.Unlock()

	if _, ok := w.listeners[int64(id)]; !ok {
		return false
	}

	w.order.Remove(int64(id))
	delete(w.listeners, int64(id))
	return true
}

// DispatchResize notifies every listener of a size change
func (w *Window) DispatchResize() {
	w.Lock()
	pending := make([]func(), 0, len(w.listeners))
	for id := range w.order.Iter() {
		pending = append(pending, w.listeners[id])
	}
	w.Unlock()

	for _, fn := range pending {
		fn()
	}
}

// ListenerCount returns the number of registered listeners
func (w *Window) ListenerCount() int {
	w.Lock()
	defer w.Unlock()
	return len(w.listeners)
}
