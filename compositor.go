package pane

import (
	"log/slog"
	"sort"
)

// Compositor renders every window to the screen each frame in three
// ordered passes: normal windows by Z ascending, then the active window,
// then always-on-top windows by Z ascending. Pass order trumps raw Z, so
// focus and notifications are never buried by a Z value accident.
type Compositor struct {
	screen *Screen
	log    *slog.Logger
}

// NewCompositor creates a compositor writing to screen.
func NewCompositor(screen *Screen, log *slog.Logger) *Compositor {
	if log == nil {
		log = slog.Default()
	}
	return &Compositor{screen: screen, log: log}
}

// Composite renders one frame: repaints dirty windows, computes each
// window's visible regions against everything painted after it, and
// emits the visible parts to the screen's back buffer. force repaints
// and re-emits every window (after a resize or full redraw).
func (c *Compositor) Composite(windows []*Window, active *Window, force bool) {
	order := compositeOrder(windows, active)
	if force {
		c.screen.Clear()
	}

	screenBounds := Rect{Width: c.screen.Size().Width, Height: c.screen.Size().Height}

	for i, w := range order {
		c.paintWindow(w, w == active, force)

		bounds := w.Bounds().Intersect(screenBounds)
		if bounds.IsEmpty() {
			continue
		}

		// Occluders are the windows painted after this one; their pass
		// and Z place them above it on screen.
		occluders := make([]Rect, 0, len(order)-i-1)
		for _, above := range order[i+1:] {
			occluders = append(occluders, above.Bounds())
		}
		visible := VisibleRegions(bounds, occluders)
		if len(visible) == 0 {
			continue
		}

		c.emit(w, visible, force)
	}
}

// paintWindow repaints a window's buffer, isolating panics so one broken
// control cannot take down the frame. A window whose paint fails keeps
// its previous buffer content: stale but valid.
func (c *Compositor) paintWindow(w *Window, active, force bool) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("window paint failed",
				"window", w.Title(),
				"panic", r)
		}
	}()
	w.repaint(active, force)
}

// emit serializes each visible region of the window's buffer and writes
// it to the screen back buffer at the window's absolute position. Rows
// whose cells have not changed since the last hand-off are skipped; the
// dirty flags are cleared once the buffer content is handed over.
func (c *Compositor) emit(w *Window, visible []Rect, force bool) {
	wb := w.Bounds()
	buf := w.Buffer()
	for _, region := range visible {
		// region is in screen coordinates; the buffer is window-local.
		x0 := region.X - wb.X
		x1 := region.Right() - wb.X
		for y := region.Y; y < region.Bottom(); y++ {
			ly := y - wb.Y
			if !force && !buf.RowDirty(ly) {
				continue
			}
			c.screen.WriteAt(region.X, y, buf.LineRange(ly, x0, x1))
		}
	}
	buf.ClearDirty()
}

// compositeOrder builds the bottom-to-top paint order: normal windows by
// Z ascending, the active window, then always-on-top windows by Z
// ascending. Hidden and minimized windows are excluded.
func compositeOrder(windows []*Window, active *Window) []*Window {
	var normal, top []*Window
	for _, w := range windows {
		if !w.Visible() {
			continue
		}
		if w == active {
			continue
		}
		if w.Class() == ClassAlwaysOnTop {
			top = append(top, w)
		} else {
			normal = append(normal, w)
		}
	}
	byZ := func(ws []*Window) {
		sort.SliceStable(ws, func(i, j int) bool { return ws[i].Z() < ws[j].Z() })
	}
	byZ(normal)
	byZ(top)

	order := normal
	if active != nil && active.Visible() {
		if active.Class() == ClassAlwaysOnTop {
			top = append(top, active)
			byZ(top)
		} else {
			order = append(order, active)
		}
	}
	return append(order, top...)
}
