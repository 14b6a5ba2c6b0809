package pane

import (
	"sync"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// WindowClass determines which compositor pass a window renders in. The
// active window is an implicit third classification: a focused normal
// window paints in its own pass between the normal and always-on-top
// passes, so focus is never buried by a raw Z value.
type WindowClass uint8

const (
	ClassNormal WindowClass = iota
	ClassAlwaysOnTop
)

// Hook is a frame extension point. It receives the window's buffer, the
// region that changed and the active clip rectangle. Hooks run under the
// frame lock and must not block or perform slow I/O.
type Hook func(buf *Buffer, region, clip Rect)

// Chrome holds the border appearance for a window in both focus states.
type Chrome struct {
	Border   BorderStyle
	Active   Style
	Inactive Style
}

// DefaultChrome renders single-line borders, dimming the inactive color
// toward the background.
func DefaultChrome() Chrome {
	active := DefaultStyle().Foreground(RGB(0xd0, 0xd0, 0xd0))
	return Chrome{
		Border:   BorderSingle,
		Active:   active,
		Inactive: active.Foreground(active.FG.Darken(0.55)),
	}
}

// Window owns one layout node tree and one cell buffer. Its fields are
// guarded by a narrow lock held only while mutating the window itself;
// painting happens on the render loop under the frame lock.
type Window struct {
	mu sync.Mutex

	title     string
	bounds    Rect
	z         int
	class     WindowClass
	visible   bool
	minimized bool
	dirty     bool

	root Control
	tree *Tree
	buf  *Buffer

	// scratch receives each repaint; it is swapped into buf only when
	// painting completes, so a failed paint leaves buf stale but valid.
	scratch *Buffer

	background Cell
	chrome     Chrome
	cursor     Cursor

	postClear []Hook
	postPaint []Hook

	portals portalList

	borderCache borderCache

	// invalidate wakes the owning manager's render loop; set on attach.
	invalidate func()

	// relayout schedules a full recomposite. Fired on changes that alter
	// what other windows' regions look like: bounds, visibility,
	// stacking. Set on attach.
	relayout func()
}

// borderCache holds the pre-rendered top and bottom border rows. Side
// columns are two cells per row and not worth caching.
type borderCache struct {
	top    []Cell
	bottom []Cell

	width  int
	border BorderStyle
	style  Style
	title  string
}

func (bc *borderCache) valid(width int, border BorderStyle, style Style, title string) bool {
	return bc.top != nil &&
		bc.width == width &&
		bc.border == border &&
		bc.style == style &&
		bc.title == title
}

// NewWindow creates a visible window with the given title and bounds.
func NewWindow(title string, bounds Rect) *Window {
	return &Window{
		title:      title,
		bounds:     bounds,
		visible:    true,
		dirty:      true,
		buf:        NewBuffer(bounds.Width, bounds.Height),
		background: EmptyCell(),
		chrome:     DefaultChrome(),
		cursor:     DefaultCursor(),
	}
}

// Title returns the window title.
func (w *Window) Title() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.title
}

// SetTitle changes the title shown in the border.
func (w *Window) SetTitle(title string) {
	w.mu.Lock()
	w.title = title
	w.dirty = true
	w.mu.Unlock()
	w.wake()
}

// Bounds returns the window's screen rectangle.
func (w *Window) Bounds() Rect {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.bounds
}

// SetBounds moves/resizes the window. A size change reallocates the
// buffer and invalidates every cell.
func (w *Window) SetBounds(r Rect) {
	w.mu.Lock()
	resized := r.Width != w.bounds.Width || r.Height != w.bounds.Height
	w.bounds = r
	if resized {
		w.buf.Resize(r.Width, r.Height)
	}
	w.dirty = true
	w.mu.Unlock()
	w.wakeLayout()
}

// Z returns the window's stacking order value.
func (w *Window) Z() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.z
}

// SetZ changes the stacking order value.
func (w *Window) SetZ(z int) {
	w.mu.Lock()
	w.z = z
	w.mu.Unlock()
	w.wakeLayout()
}

// Class returns the window's compositor pass classification.
func (w *Window) Class() WindowClass {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.class
}

// SetClass changes the compositor pass classification.
func (w *Window) SetClass(c WindowClass) {
	w.mu.Lock()
	w.class = c
	w.mu.Unlock()
	w.wakeLayout()
}

// Visible returns true if the window participates in rendering.
func (w *Window) Visible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visible && !w.minimized
}

// Show makes the window visible.
func (w *Window) Show() {
	w.mu.Lock()
	w.visible = true
	w.dirty = true
	w.mu.Unlock()
	w.wakeLayout()
}

// Hide removes the window from rendering without destroying it. The
// screen region it occupied is recomposited.
func (w *Window) Hide() {
	w.mu.Lock()
	w.visible = false
	w.mu.Unlock()
	w.wakeLayout()
}

// Minimized returns the minimized state.
func (w *Window) Minimized() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.minimized
}

// Minimize removes the window from the render list until restored.
func (w *Window) Minimize() {
	w.mu.Lock()
	w.minimized = true
	w.mu.Unlock()
	w.wakeLayout()
}

// Restore undoes Minimize.
func (w *Window) Restore() {
	w.mu.Lock()
	w.minimized = false
	w.dirty = true
	w.mu.Unlock()
	w.wakeLayout()
}

// SetRoot replaces the window's control tree root. The layout node tree
// is rebuilt on the next frame.
func (w *Window) SetRoot(root Control) {
	w.mu.Lock()
	w.root = root
	w.tree = nil
	w.dirty = true
	w.mu.Unlock()
	w.wake()
}

// SetBackground sets the fill cell painted before controls.
func (w *Window) SetBackground(c Cell) {
	w.mu.Lock()
	w.background = c
	w.dirty = true
	w.mu.Unlock()
	w.wake()
}

// SetChrome replaces the border appearance.
func (w *Window) SetChrome(c Chrome) {
	w.mu.Lock()
	w.chrome = c
	w.dirty = true
	w.mu.Unlock()
	w.wake()
}

// Cursor returns the window's cursor state.
func (w *Window) Cursor() Cursor {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cursor
}

// SetCursor updates the window's cursor state (window coordinates).
func (w *Window) SetCursor(c Cursor) {
	w.mu.Lock()
	w.cursor = c
	w.mu.Unlock()
	w.wake()
}

// OnPostClear registers a hook fired after the buffer is cleared but
// before controls paint (full-buffer backgrounds).
func (w *Window) OnPostClear(h Hook) {
	w.mu.Lock()
	w.postClear = append(w.postClear, h)
	w.mu.Unlock()
}

// OnPostPaint registers a hook fired after controls paint but before the
// buffer reaches the screen compositor (fades, snapshots).
func (w *Window) OnPostPaint(h Hook) {
	w.mu.Lock()
	w.postPaint = append(w.postPaint, h)
	w.mu.Unlock()
}

// Invalidate marks the window dirty and wakes the render loop. This is
// the invalidation signal controls call after any mutation; the engine
// does not know why, only that a rebuild is needed.
func (w *Window) Invalidate() {
	w.mu.Lock()
	w.dirty = true
	w.mu.Unlock()
	w.wake()
}

func (w *Window) wake() {
	w.mu.Lock()
	fn := w.invalidate
	w.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// wakeLayout signals a change that can vacate or expose screen regions,
// so the manager must recomposite every window, not just this one.
func (w *Window) wakeLayout() {
	w.mu.Lock()
	fn := w.relayout
	if fn == nil {
		fn = w.invalidate
	}
	w.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Dirty returns true if the window needs repainting.
func (w *Window) Dirty() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dirty
}

// Buffer exposes the window's last committed cell buffer. Intended for
// tests and post-paint inspection; the compositor owns it during a frame.
func (w *Window) Buffer() *Buffer {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf
}

// contentRect returns the area inside the border, in window coordinates.
func (w *Window) contentRect() Rect {
	r := Rect{Width: w.bounds.Width, Height: w.bounds.Height}
	if !w.chrome.Border.IsZero() {
		r = r.Inset(1)
	}
	return r
}

// OpenPortal attaches portal content to the window's overlay layer and
// returns its handle. Portals paint after all normal content and are
// hit-tested before it, most recent first.
func (w *Window) OpenPortal(content PortalContent, onDismiss func()) *Portal {
	w.mu.Lock()
	p := w.portals.open(w, content, onDismiss)
	w.dirty = true
	w.mu.Unlock()
	w.wake()
	return p
}

// ClosePortal removes a portal without firing its dismissal notification.
func (w *Window) ClosePortal(p *Portal) {
	w.mu.Lock()
	w.portals.remove(p)
	w.dirty = true
	w.mu.Unlock()
	w.wake()
}

// Portals returns the open portals in creation order.
func (w *Window) Portals() []*Portal {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.portals.snapshot()
}

// HitTest resolves a point in window coordinates to the control or portal
// content under it, checking portals (most recent first) before the
// normal tree.
func (w *Window) HitTest(x, y int) Paintable {
	w.mu.Lock()
	portals := w.portals.snapshot()
	tree := w.tree
	w.mu.Unlock()

	for i := len(portals) - 1; i >= 0; i-- {
		if portals[i].content.HitTest(x, y) {
			return portals[i].content
		}
	}
	if tree == nil {
		return nil
	}
	// The tree is arranged at the content rect, so node coordinates are
	// already window coordinates.
	return tree.HitTest(x, y)
}

// handleOutsideClick dismisses any dismiss-on-outside-click portal the
// click landed outside of. The click is not consumed; normal processing
// continues afterwards.
func (w *Window) handleOutsideClick(x, y int) {
	w.mu.Lock()
	portals := w.portals.snapshot()
	w.mu.Unlock()

	for _, p := range portals {
		if p.content.DismissOnOutsideClick() && !p.content.HitTest(x, y) {
			p.dismiss()
			w.mu.Lock()
			w.portals.remove(p)
			w.dirty = true
			w.mu.Unlock()
		}
	}
}

// deactivated dismisses dismiss-on-outside-click portals when the window
// loses activation, independent of any click position.
func (w *Window) deactivated() {
	w.mu.Lock()
	portals := w.portals.snapshot()
	w.mu.Unlock()

	for _, p := range portals {
		if p.content.DismissOnOutsideClick() {
			p.dismiss()
			w.mu.Lock()
			w.portals.remove(p)
			w.dirty = true
			w.mu.Unlock()
		}
	}
}

// repaint redraws the window buffer if it is dirty (or force is set):
// background fill, cached border, layout tree, portals, hooks. A clean
// window keeps its buffer content from the prior frame.
func (w *Window) repaint(active, force bool) {
	w.mu.Lock()
	if !w.dirty && !force {
		w.mu.Unlock()
		return
	}
	root := w.root
	tree := w.tree
	portals := w.portals.snapshot()
	background := w.background
	chrome := w.chrome
	title := w.title
	content := w.contentRect()
	postClear := w.postClear
	postPaint := w.postPaint
	size := Size{Width: w.bounds.Width, Height: w.bounds.Height}
	if w.scratch == nil || w.scratch.Size() != size {
		w.scratch = NewBuffer(size.Width, size.Height)
	}
	buf := w.scratch
	committed := w.buf
	w.dirty = false
	w.mu.Unlock()

	full := buf.Bounds()
	// Start from the last committed content with clean flags so the row
	// dirty state after painting means "changed since last emitted"; the
	// compositor skips clean rows and clears the flags on hand-off.
	buf.CopyFrom(committed)
	buf.ClearDirty()
	buf.Fill(background)
	for _, h := range postClear {
		h(buf, full, full)
	}

	// Rebuilt wholesale: never mutated node by node.
	if tree == nil && root != nil {
		tree = BuildTree(root)
		w.mu.Lock()
		w.tree = tree
		w.mu.Unlock()
	}

	w.paintBorder(buf, chrome, title, active)

	if tree != nil && !content.IsEmpty() {
		tree.Measure(0, Loose(content.Width, content.Height))
		// The root node carries the content rect itself, so node
		// coordinates are buffer coordinates and the clip lines up.
		tree.Arrange(0, content)
		tree.Paint(buf, content)
	}

	// Portals paint after the entire normal tree, clipped only by the
	// buffer itself: overlay content escapes normal layout bounds.
	for _, p := range portals {
		b := p.content.Bounds()
		p.content.Paint(buf, b, full)
	}

	for _, h := range postPaint {
		h(buf, full, full)
	}

	// Commit: a panic anywhere above leaves buf holding the prior frame.
	w.mu.Lock()
	w.buf, w.scratch = buf, w.buf
	w.mu.Unlock()
}

// paintBorder draws the window border and title from the border cache,
// re-rendering only when size, style, title or focus changed.
func (w *Window) paintBorder(buf *Buffer, chrome Chrome, title string, active bool) {
	if chrome.Border.IsZero() {
		return
	}
	style := chrome.Inactive
	if active {
		style = chrome.Active
	}
	full := buf.Bounds()
	if full.Width < 2 || full.Height < 2 {
		return
	}
	rows := w.borderRows(full.Width, chrome.Border, style, title)
	for x, c := range rows.top {
		buf.Set(x, 0, c)
	}
	for x, c := range rows.bottom {
		buf.Set(x, full.Height-1, c)
	}
	for y := 1; y < full.Height-1; y++ {
		buf.Set(0, y, NewCell(chrome.Border.Vertical, style))
		buf.Set(full.Width-1, y, NewCell(chrome.Border.Vertical, style))
	}
}

// borderRows returns the cached top and bottom border rows, re-rendering
// them when width, border style, color or title changed since last frame.
func (w *Window) borderRows(width int, border BorderStyle, style Style, title string) *borderCache {
	bc := &w.borderCache
	if bc.valid(width, border, style, title) {
		return bc
	}

	top := make([]Cell, width)
	bottom := make([]Cell, width)
	for x := range top {
		top[x] = NewCell(border.Horizontal, style)
		bottom[x] = NewCell(border.Horizontal, style)
	}
	if width >= 2 {
		top[0] = NewCell(border.TopLeft, style)
		top[width-1] = NewCell(border.TopRight, style)
		bottom[0] = NewCell(border.BottomLeft, style)
		bottom[width-1] = NewCell(border.BottomRight, style)
	}
	if title != "" && width > 6 {
		label := " " + title + " "
		x := 2
		g := uniseg.NewGraphemes(label)
		for g.Next() {
			runes := g.Runes()
			if len(runes) == 0 {
				continue
			}
			cw := runewidth.StringWidth(string(runes))
			if cw == 0 {
				cw = 1
			}
			if x+cw > width-2 {
				break
			}
			top[x] = NewCell(runes[0], style)
			for k := 1; k < cw; k++ {
				top[x+k] = Cell{Rune: 0, Style: style}
			}
			x += cw
		}
	}

	*bc = borderCache{top: top, bottom: bottom, width: width, border: border, style: style, title: title}
	return bc
}
