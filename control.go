package pane

// Paintable is the minimal surface hit testing resolves to: a Control
// from the layout tree or PortalContent from the overlay layer.
type Paintable interface {
	Paint(buf *Buffer, bounds, clip Rect)
}

// Control is the paintable capability the engine sees for every widget.
// Controls are otherwise opaque: the layout tree measures them bottom-up
// and paints them with a clip rectangle they must honor (writes outside
// bounds ∩ clip are dropped by the buffer, never an error).
type Control interface {
	// Measure returns the intrinsic content size under the constraints.
	// The result must not exceed the maximums nor fall below the minimums.
	Measure(c Constraints) Size

	// Paint draws the control into buf. bounds is the rectangle assigned
	// at arrange time; clip is the region writes may land in.
	Paint(buf *Buffer, bounds, clip Rect)
}

// Container is a control with children; the layout node tree mirrors the
// hierarchy it exposes.
type Container interface {
	Control
	Children() []Control
}

// Arranged is implemented by containers that choose their own child
// placement algorithm. Containers without it get the vertical stack.
type Arranged interface {
	Container
	Layout() Layout
}

// Alignment controls horizontal placement of a child within its row.
type Alignment uint8

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
	AlignStretch
)

// Sticky pins a child to an edge of a scrollable viewport regardless of
// scroll offset.
type Sticky uint8

const (
	StickyNone Sticky = iota
	StickyTop
	StickyBottom
)

// Margin is empty space reserved around a child during arrange.
type Margin struct {
	Left, Top, Right, Bottom int
}

// Horizontal returns the total horizontal margin.
func (m Margin) Horizontal() int { return m.Left + m.Right }

// Vertical returns the total vertical margin.
func (m Margin) Vertical() int { return m.Top + m.Bottom }

// Hints carry per-child layout attributes. Controls expose them through
// the Hinted interface; everything defaults to zero values.
type Hints struct {
	Align  Alignment
	Fill   bool // consume remaining vertical space, resolved at arrange
	Margin Margin
	Sticky Sticky
}

// Hinted is implemented by controls that carry layout hints.
type Hinted interface {
	Control
	LayoutHints() Hints
}

// HitTester is implemented by controls that accept pointer input. x, y are
// relative to the control's arranged bounds.
type HitTester interface {
	HitTest(x, y int) bool
}

// PortalContent is the capability a portal owner supplies: explicit
// bounds, painting, hit testing and the dismissal policy.
type PortalContent interface {
	// Bounds returns the portal's rectangle in window coordinates.
	Bounds() Rect

	// Paint draws the portal content. bounds equals Bounds(); clip is the
	// window region writes may land in.
	Paint(buf *Buffer, bounds, clip Rect)

	// HitTest reports whether the point (window coordinates) belongs to
	// the portal.
	HitTest(x, y int) bool

	// DismissOnOutsideClick reports whether a click outside the portal
	// should remove it.
	DismissOnOutsideClick() bool
}
