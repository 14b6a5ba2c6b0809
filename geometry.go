package pane

// Size represents dimensions in cells.
type Size struct {
	Width  int
	Height int
}

// Rect is an axis-aligned rectangle in cell coordinates.
type Rect struct {
	X, Y          int
	Width, Height int
}

// NewRect creates a rectangle, clamping negative dimensions to zero.
func NewRect(x, y, w, h int) Rect {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return Rect{X: x, Y: y, Width: w, Height: h}
}

// Right returns the exclusive right edge.
func (r Rect) Right() int {
	return r.X + r.Width
}

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.Height
}

// IsEmpty returns true if the rectangle covers no cells.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Area returns the number of cells covered.
func (r Rect) Area() int {
	if r.IsEmpty() {
		return 0
	}
	return r.Width * r.Height
}

// Contains returns true if the point lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Intersects returns true if the rectangles overlap.
func (r Rect) Intersects(o Rect) bool {
	return !r.IsEmpty() && !o.IsEmpty() &&
		r.X < o.Right() && o.X < r.Right() &&
		r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Intersect returns the overlapping region, or an empty Rect.
func (r Rect) Intersect(o Rect) Rect {
	x := max(r.X, o.X)
	y := max(r.Y, o.Y)
	right := min(r.Right(), o.Right())
	bottom := min(r.Bottom(), o.Bottom())
	if right <= x || bottom <= y {
		return Rect{}
	}
	return Rect{X: x, Y: y, Width: right - x, Height: bottom - y}
}

// Offset returns the rectangle translated by dx, dy.
func (r Rect) Offset(dx, dy int) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Inset returns the rectangle shrunk by n cells on every side.
func (r Rect) Inset(n int) Rect {
	return NewRect(r.X+n, r.Y+n, r.Width-2*n, r.Height-2*n)
}

// Unbounded is the sentinel for an unconstrained maximum dimension.
// It is compared against, never used in arithmetic.
const Unbounded = -1

// Constraints carry the min/max size a node may occupy. A max of
// Unbounded means the dimension is unconstrained.
type Constraints struct {
	MinWidth, MinHeight int
	MaxWidth, MaxHeight int
}

// Loose returns constraints with no minimum and the given maximums.
func Loose(maxW, maxH int) Constraints {
	return Constraints{MaxWidth: maxW, MaxHeight: maxH}
}

// Tight returns constraints that force exactly the given size.
func Tight(w, h int) Constraints {
	return Constraints{MinWidth: w, MinHeight: h, MaxWidth: w, MaxHeight: h}
}

// UnboundedHeight returns the constraints with the height maximum removed.
// Used by scrollable containers measuring full content size.
func (c Constraints) UnboundedHeight() Constraints {
	c.MaxHeight = Unbounded
	return c
}

// HasBoundedWidth returns true if the width maximum is finite.
func (c Constraints) HasBoundedWidth() bool {
	return c.MaxWidth != Unbounded
}

// HasBoundedHeight returns true if the height maximum is finite.
func (c Constraints) HasBoundedHeight() bool {
	return c.MaxHeight != Unbounded
}

// Clamp returns the size adjusted to satisfy the constraints: raised to
// the minimums, then lowered to any finite maximums.
func (c Constraints) Clamp(s Size) Size {
	if s.Width < c.MinWidth {
		s.Width = c.MinWidth
	}
	if s.Height < c.MinHeight {
		s.Height = c.MinHeight
	}
	if c.MaxWidth != Unbounded && s.Width > c.MaxWidth {
		s.Width = c.MaxWidth
	}
	if c.MaxHeight != Unbounded && s.Height > c.MaxHeight {
		s.Height = c.MaxHeight
	}
	return s
}

// Shrink returns the constraints reduced by w and h on the maximums,
// leaving unbounded dimensions unbounded. Minimums are reduced toward zero.
func (c Constraints) Shrink(w, h int) Constraints {
	c.MinWidth = max(c.MinWidth-w, 0)
	c.MinHeight = max(c.MinHeight-h, 0)
	if c.MaxWidth != Unbounded {
		c.MaxWidth = max(c.MaxWidth-w, 0)
	}
	if c.MaxHeight != Unbounded {
		c.MaxHeight = max(c.MaxHeight-h, 0)
	}
	return c
}
