package watcher

import (
	"slices"
	"sync"
	"time"
	"unique"
)

// DefaultWindow is the quiet period after the last change before a rebuild starts.
const DefaultWindow = 200 * time.Millisecond

// Debouncer collects changed paths and reports them once no change arrived for a window.
type Debouncer struct {
	mu       sync.Mutex
	pending  map[unique.Handle[string]]struct{}
	timer    *time.Timer
	window   time.Duration
	callback func(paths []string)
}

// NewDebouncer creates a Debouncer calling callback with the sorted changed paths.
func NewDebouncer(window time.Duration, callback func(paths []string)) *Debouncer {
	return &Debouncer{
		pending:  make(map[unique.Handle[string]]struct{}),
		window:   window,
		callback: callback,
	}
}

// Add records a change to path and restarts the window.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending[unique.Make(path)] = struct{}{}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

func (d *Debouncer) fire() {
	if paths := d.take(); len(paths) > 0 && d.callback != nil {
		d.callback(paths)
	}
}

// Flush reports the pending paths immediately and waits for the callback to return.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil && !d.timer.Stop() {
		// The timer already fired and owns the pending set.
		d.mu.Unlock()
		return
	}
	d.mu.Unlock()
	d.fire()
}

// take empties the pending set.
func (d *Debouncer) take() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.timer = nil
	paths := make([]string, 0, len(d.pending))
	for h := range d.pending {
		paths = append(paths, h.Value())
	}
	clear(d.pending)
	slices.Sort(paths)
	return paths
}
