package pane

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the structured logger.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// WithDecoder replaces the input byte decoder.
func WithDecoder(d Decoder) Option {
	return func(m *Manager) { m.decoder = d }
}

// WithResizePoll sets how often the terminal size is checked.
func WithResizePoll(interval time.Duration) Option {
	return func(m *Manager) { m.pollInterval = interval }
}

// Manager owns the window list, the screen, and the render loop. All
// rendering happens on the loop goroutine under the frame lock; windows
// mutated from other goroutines mark themselves dirty and wake the loop.
type Manager struct {
	mu sync.Mutex // frame lock: window list, activation, rendering

	driver  Driver
	screen  *Screen
	comp    *Compositor
	log     *slog.Logger
	decoder Decoder

	windows []*Window
	active  *Window
	nextZ   int

	events       chan Event
	wake         chan struct{}
	pollInterval time.Duration
	cancel       context.CancelFunc

	// forceNext schedules a full recomposite. Atomic so window callbacks
	// can set it while the frame lock is held.
	forceNext atomic.Bool

	// handler receives events the manager did not consume itself.
	handler func(Event) bool
}

// NewManager creates a manager rendering to the given driver.
func NewManager(driver Driver, opts ...Option) (*Manager, error) {
	m := &Manager{
		driver:       driver,
		log:          slog.Default(),
		decoder:      DefaultDecoder{},
		events:       make(chan Event, eventQueueSize),
		wake:         make(chan struct{}, 1),
		pollInterval: 250 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(m)
	}

	screen, err := NewScreen(driver)
	if err != nil {
		return nil, err
	}
	m.screen = screen
	m.comp = NewCompositor(screen, m.log)
	return m, nil
}

// OnEvent registers the application event handler. It runs on the loop
// goroutine; returning true consumes the event.
func (m *Manager) OnEvent(fn func(Event) bool) {
	m.mu.Lock()
	m.handler = fn
	m.mu.Unlock()
}

// AddWindow attaches a window, stacks it on top and activates it.
func (m *Manager) AddWindow(w *Window) {
	m.mu.Lock()
	m.windows = append(m.windows, w)
	w.mu.Lock()
	w.invalidate = m.Invalidate
	w.relayout = m.fullRedraw
	w.mu.Unlock()
	m.nextZ++
	w.SetZ(m.nextZ)
	m.activateLocked(w)
	m.mu.Unlock()
	m.fullRedraw()
}

// CloseWindow detaches a window, dismissing its portals. If it was
// active, the topmost remaining window takes activation.
func (m *Manager) CloseWindow(w *Window) {
	m.mu.Lock()
	for i, q := range m.windows {
		if q == w {
			m.windows = append(m.windows[:i], m.windows[i+1:]...)
			break
		}
	}
	w.deactivated()
	w.mu.Lock()
	w.invalidate = nil
	w.relayout = nil
	w.mu.Unlock()
	if m.active == w {
		m.active = nil
		m.activateLocked(m.topmostLocked())
	}
	m.mu.Unlock()
	m.fullRedraw()
}

// Windows returns the attached windows in attach order.
func (m *Manager) Windows() []*Window {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Window, len(m.windows))
	copy(out, m.windows)
	return out
}

// Active returns the focused window, or nil.
func (m *Manager) Active() *Window {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Activate focuses a window, raising it above its pass siblings. The
// previously active window loses its dismiss-on-outside-click portals.
func (m *Manager) Activate(w *Window) {
	m.mu.Lock()
	m.activateLocked(w)
	m.mu.Unlock()
	m.Invalidate()
}

func (m *Manager) activateLocked(w *Window) {
	prev := m.active
	if prev == w {
		return
	}
	if prev != nil {
		prev.deactivated()
		prev.Invalidate() // border restyles
	}
	m.active = w
	if w != nil {
		m.nextZ++
		w.SetZ(m.nextZ)
		w.Invalidate()
	}
}

// topmostLocked returns the visible window latest in composite order.
func (m *Manager) topmostLocked() *Window {
	order := compositeOrder(m.windows, nil)
	if len(order) == 0 {
		return nil
	}
	return order[len(order)-1]
}

// HitTest resolves a screen point to the topmost window containing it
// and the control or portal content hit inside it (which may be nil).
func (m *Manager) HitTest(x, y int) (*Window, Paintable) {
	m.mu.Lock()
	order := compositeOrder(m.windows, m.active)
	m.mu.Unlock()

	for i := len(order) - 1; i >= 0; i-- {
		w := order[i]
		b := w.Bounds()
		if !b.Contains(x, y) {
			continue
		}
		return w, w.HitTest(x-b.X, y-b.Y)
	}
	return nil, nil
}

// Invalidate wakes the render loop; coalesces with pending wakeups.
func (m *Manager) Invalidate() {
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// Stop cancels the render loop and its worker goroutines.
func (m *Manager) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Run starts the input and resize workers and drives the render loop
// until the context is cancelled or Stop is called. It owns rendering:
// each iteration drains all pending events, then renders one frame if
// anything is dirty.
func (m *Manager) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	m.mu.Lock()
	m.cancel = cancel
	m.mu.Unlock()
	defer cancel()

	go inputReader(ctx, m.driver, m.decoder, m.events, m.log)
	go resizePoller(ctx, m.driver, m.pollInterval, m.events, m.log)

	m.fullRedraw()
	if err := m.renderFrame(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-m.events:
			m.dispatch(ev)
			m.drainEvents()
		case <-m.wake:
		}
		if err := m.renderFrame(); err != nil {
			return err
		}
	}
}

// drainEvents empties the queue before the frame so a burst of input
// costs one render, not one per event.
func (m *Manager) drainEvents() {
	for {
		select {
		case ev := <-m.events:
			m.dispatch(ev)
		default:
			return
		}
	}
}

func (m *Manager) dispatch(ev Event) {
	switch e := ev.(type) {
	case ResizeEvent:
		m.mu.Lock()
		m.screen.Resize(e.Size)
		m.mu.Unlock()
		m.forceNext.Store(true)
		m.log.Debug("terminal resized", "width", e.Size.Width, "height", e.Size.Height)
		return
	case MouseEvent:
		if e.Action == MousePress {
			m.routeClick(e)
		}
	}

	m.mu.Lock()
	handler := m.handler
	m.mu.Unlock()
	if handler != nil {
		handler(ev)
	}
}

// routeClick activates the window under a press and gives its portals a
// chance to dismiss. The click then continues to the application handler
// either way: dismissal never consumes input.
func (m *Manager) routeClick(e MouseEvent) {
	w, _ := m.HitTest(e.X, e.Y)

	m.mu.Lock()
	active := m.active
	m.mu.Unlock()

	if active != nil {
		b := active.Bounds()
		active.handleOutsideClick(e.X-b.X, e.Y-b.Y)
	}
	if w != nil && w != active {
		m.Activate(w)
	}
}

// renderFrame composites every window and flushes the screen. Clean
// frames (no dirty window, no forced redraw) skip compositing entirely;
// the flush then finds nothing to write.
func (m *Manager) renderFrame() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	force := m.forceNext.Swap(false)

	dirty := force
	for _, w := range m.windows {
		if w.Dirty() {
			dirty = true
			break
		}
	}
	if dirty {
		m.comp.Composite(m.windows, m.active, force)
	}

	m.screen.SetCursor(m.cursorState())
	return m.screen.Flush()
}

// cursorState translates the active window's cursor to screen
// coordinates; the cursor stays hidden when it would land outside the
// window or the window is gone.
func (m *Manager) cursorState() Cursor {
	w := m.active
	if w == nil {
		return Cursor{}
	}
	c := w.Cursor()
	if !c.Visible {
		return Cursor{}
	}
	b := w.Bounds()
	sc := c
	sc.X += b.X
	sc.Y += b.Y
	if !b.Contains(sc.X, sc.Y) {
		return Cursor{}
	}
	return sc
}

// fullRedraw schedules a forced composite of every window. Geometry,
// visibility and stacking changes route here so regions a window used
// to cover are repainted by whatever is underneath.
func (m *Manager) fullRedraw() {
	m.forceNext.Store(true)
	m.Invalidate()
}
