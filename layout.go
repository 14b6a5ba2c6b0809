package pane

// Pluggable layout algorithms for containers. Measure is bottom-up
// (children first), Arrange is top-down (parent assigns rectangles inside
// its own content rect). Alignment and Fill are resolved at arrange time,
// never at measure: measure returns intrinsic content size only.

// Layout positions a container's children.
type Layout interface {
	// Measure computes the container's desired size after measuring every
	// child. The returned size is clamped by the tree.
	Measure(t *Tree, node int, c Constraints) Size

	// Arrange places each child inside content, a rectangle with origin
	// at the container's top-left corner.
	Arrange(t *Tree, node int, content Rect)
}

// chromeLayout is implemented by layouts that draw their own chrome
// (splitters) during paint.
type chromeLayout interface {
	PaintChrome(t *Tree, node int, buf *Buffer, abs, clip Rect)
}

// Scroller is implemented by container controls that scroll their content
// vertically. Measure sees the full content height; paint shows only the
// slice at the current offset, with triangle indicators when content
// extends past the viewport.
type Scroller interface {
	Container
	ScrollOffset() int
}

// defaultFillHeight bounds a Fill child measured under unbounded height
// constraints. Growing without a viewport has no meaningful answer, so the
// node falls back to a capped default instead of attempting infinite
// growth. The exact value is a placeholder policy, not a contract.
const defaultFillHeight = 10

// VStack stacks children vertically; the default layout for containers.
type VStack struct {
	Gap int
}

// Measure measures every child under the stack's width, heights
// unconstrained from below, and sums the results.
func (v VStack) Measure(t *Tree, node int, c Constraints) Size {
	var total Size
	count := 0
	t.children(node, func(ci int) bool {
		h := t.Node(ci).Hints
		cc := Constraints{
			MaxWidth:  c.MaxWidth,
			MaxHeight: c.MaxHeight,
		}
		if cc.MaxWidth != Unbounded {
			cc.MaxWidth = max(cc.MaxWidth-h.Margin.Horizontal(), 0)
		}
		s := t.Measure(ci, cc)
		if h.Fill && !c.HasBoundedHeight() && s.Height == 0 {
			s.Height = defaultFillHeight
			t.Node(ci).Desired = s
		}
		if w := s.Width + h.Margin.Horizontal(); w > total.Width {
			total.Width = w
		}
		total.Height += s.Height + h.Margin.Vertical()
		count++
		return true
	})
	if count > 1 {
		total.Height += v.Gap * (count - 1)
	}
	return total
}

// Arrange stacks children top to bottom, resolving Fill against the space
// left over by the siblings and horizontal alignment against the content
// width. Assigned rectangles never extend outside content.
func (v VStack) Arrange(t *Tree, node int, content Rect) {
	// Remaining space for Fill children.
	consumed, fillCount := 0, 0
	t.children(node, func(ci int) bool {
		n := t.Node(ci)
		consumed += n.Desired.Height + n.Hints.Margin.Vertical() + v.Gap
		if n.Hints.Fill {
			fillCount++
		}
		return true
	})
	if consumed > 0 {
		consumed -= v.Gap
	}
	spare := max(content.Height-consumed, 0)

	y := content.Y
	t.children(node, func(ci int) bool {
		n := t.Node(ci)
		h := n.Hints
		availW := max(content.Width-h.Margin.Horizontal(), 0)

		height := n.Desired.Height
		if h.Fill && fillCount > 0 {
			height += spare / fillCount
		}
		height = min(height, max(content.Bottom()-y-h.Margin.Vertical(), 0))

		width := min(n.Desired.Width, availW)
		x := content.X + h.Margin.Left
		switch h.Align {
		case AlignStretch:
			width = availW
		case AlignCenter:
			x += (availW - width) / 2
		case AlignRight:
			x += availW - width
		}

		t.Arrange(ci, NewRect(x, y+h.Margin.Top, width, height))
		y += height + h.Margin.Vertical() + v.Gap
		return true
	})
}

// GridSplit arranges children as columns of a grid, one child per column,
// with optional splitter lines drawn between them. Column widths follow
// Weights; with no weights every column gets an equal share.
type GridSplit struct {
	Weights       []float64
	Splitters     bool
	SplitterStyle Style
}

// Measure gives each child its column's share of the width and returns
// the combined size.
func (g GridSplit) Measure(t *Tree, node int, c Constraints) Size {
	cols := 0
	t.children(node, func(int) bool { cols++; return true })
	if cols == 0 {
		return Size{}
	}

	widths := g.columnWidths(c.MaxWidth, cols)
	var total Size
	i := 0
	t.children(node, func(ci int) bool {
		cc := Constraints{MaxWidth: widths[i], MaxHeight: c.MaxHeight}
		s := t.Measure(ci, cc)
		total.Width += s.Width
		if s.Height > total.Height {
			total.Height = s.Height
		}
		i++
		return true
	})
	if g.Splitters {
		total.Width += cols - 1
	}
	return total
}

// Arrange assigns one column per child, full content height.
func (g GridSplit) Arrange(t *Tree, node int, content Rect) {
	cols := 0
	t.children(node, func(int) bool { cols++; return true })
	if cols == 0 {
		return
	}

	widths := g.columnWidths(content.Width, cols)
	x := content.X
	i := 0
	t.children(node, func(ci int) bool {
		t.Arrange(ci, NewRect(x, content.Y, widths[i], content.Height))
		x += widths[i]
		if g.Splitters {
			x++
		}
		i++
		return true
	})
}

// PaintChrome draws the vertical splitter lines between columns. Border
// merging in the buffer turns crossings into junction glyphs.
func (g GridSplit) PaintChrome(t *Tree, node int, buf *Buffer, abs, clip Rect) {
	if !g.Splitters {
		return
	}
	cols := 0
	t.children(node, func(int) bool { cols++; return true })
	if cols < 2 {
		return
	}
	widths := g.columnWidths(abs.Width, cols)
	x := abs.X
	for i := 0; i < cols-1; i++ {
		x += widths[i]
		for y := abs.Y; y < abs.Bottom(); y++ {
			buf.SetClipped(x, y, NewCell(BoxVertical, g.SplitterStyle), clip)
		}
		x++
	}
}

// columnWidths splits total width across cols columns by weight. An
// unbounded total gives each column the fill fallback width.
func (g GridSplit) columnWidths(total, cols int) []int {
	widths := make([]int, cols)
	if total == Unbounded {
		for i := range widths {
			widths[i] = defaultFillHeight * 2
		}
		return widths
	}
	if g.Splitters {
		total -= cols - 1
	}
	if total < 0 {
		total = 0
	}

	sum := 0.0
	for i := 0; i < cols; i++ {
		sum += g.weight(i)
	}
	used := 0
	for i := 0; i < cols; i++ {
		w := int(float64(total) * g.weight(i) / sum)
		widths[i] = w
		used += w
	}
	// leftover cells from integer division go to the last column
	widths[cols-1] += total - used
	return widths
}

func (g GridSplit) weight(i int) float64 {
	if i < len(g.Weights) && g.Weights[i] > 0 {
		return g.Weights[i]
	}
	return 1
}
