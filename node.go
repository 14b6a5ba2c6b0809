package pane

// Arena-based layout node tree. Nodes live in a flat slice and address
// parent and children by index, so whole-tree replacement is a cheap slice
// swap and there are no aliased pointers to go stale. The tree mirrors the
// external control hierarchy and is rebuilt wholesale whenever the owning
// window's control set changes; nodes are never mutated one by one.

// LayoutNode is one node of the arena. Links are arena indices (-1 none).
type LayoutNode struct {
	Parent     int
	FirstChild int
	LastChild  int
	NextSib    int

	// Control is a non-owning reference to the external control.
	Control Control

	Hints  Hints
	Desired Size // set by Measure
	Bounds  Rect // parent-relative, set by Arrange

	// ScrollY is the scroll offset for scrollable containers, captured
	// from the control at build time.
	ScrollY int

	layout     Layout // nil for leaves
	scrollable bool
	contentH   int // full measured content height for scrollable nodes
}

// Tree holds the layout node arena for one window.
type Tree struct {
	nodes []LayoutNode
}

// BuildTree constructs a tree mirroring the control hierarchy rooted at
// root. Containers get their declared layout, or the vertical stack when
// they declare none.
func BuildTree(root Control) *Tree {
	t := &Tree{nodes: make([]LayoutNode, 0, 16)}
	if root != nil {
		t.add(root, -1)
	}
	return t
}

// add appends a node for the control and recurses into its children.
func (t *Tree) add(ctrl Control, parent int) int {
	idx := len(t.nodes)
	n := LayoutNode{
		Parent:     parent,
		FirstChild: -1,
		LastChild:  -1,
		NextSib:    -1,
		Control:    ctrl,
	}
	if h, ok := ctrl.(Hinted); ok {
		n.Hints = h.LayoutHints()
	}
	if c, ok := ctrl.(Container); ok {
		if a, ok := ctrl.(Arranged); ok {
			n.layout = a.Layout()
		} else {
			n.layout = VStack{}
		}
		if s, ok := ctrl.(Scroller); ok {
			n.ScrollY = s.ScrollOffset()
			n.scrollable = true
		}
		t.nodes = append(t.nodes, n)
		for _, child := range c.Children() {
			ci := t.add(child, idx)
			t.link(idx, ci)
		}
		return idx
	}
	t.nodes = append(t.nodes, n)
	return idx
}

// link appends child to parent's child list in O(1).
func (t *Tree) link(parent, child int) {
	p := &t.nodes[parent]
	if p.FirstChild < 0 {
		p.FirstChild = child
	} else {
		t.nodes[p.LastChild].NextSib = child
	}
	p.LastChild = child
}

// Len returns the number of nodes.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Node returns the node at the given arena index.
func (t *Tree) Node(i int) *LayoutNode {
	return &t.nodes[i]
}

// children iterates a node's child indices.
func (t *Tree) children(i int, fn func(int) bool) {
	for c := t.nodes[i].FirstChild; c >= 0; c = t.nodes[c].NextSib {
		if !fn(c) {
			return
		}
	}
}

// Measure computes the node's desired size bottom-up: container layouts
// measure every child before the container itself, and the result is
// clamped to the constraints.
func (t *Tree) Measure(i int, c Constraints) Size {
	n := &t.nodes[i]
	var s Size
	if n.layout != nil {
		mc := c
		if n.scrollable {
			// Scroll content measures at its full height; the viewport
			// bound applies at arrange time.
			mc = mc.UnboundedHeight()
		}
		s = n.layout.Measure(t, i, mc)
		if n.scrollable {
			n.contentH = s.Height
		}
	} else if n.Control != nil {
		s = n.Control.Measure(c)
	}
	n.Desired = c.Clamp(s)
	return n.Desired
}

// Arrange assigns the node its final rectangle (in the parent's
// coordinate space) and lets its layout place the children inside it,
// top-down. Children may only be placed inside the node's rectangle.
func (t *Tree) Arrange(i int, final Rect) {
	n := &t.nodes[i]
	n.Bounds = final
	if n.layout != nil {
		h := final.Height
		if n.scrollable && n.contentH > h {
			// Children lay out over the full content extent; painting
			// slides the viewport over it.
			h = n.contentH
		}
		n.layout.Arrange(t, i, Rect{Width: final.Width, Height: h})
	}
}

// AbsBounds derives the node's screen-relative bounds by walking the
// parent chain. Parents are used for upward queries only.
func (t *Tree) AbsBounds(i int) Rect {
	r := t.nodes[i].Bounds
	for p := t.nodes[i].Parent; p >= 0; p = t.nodes[p].Parent {
		r = r.Offset(t.nodes[p].Bounds.X, t.nodes[p].Bounds.Y)
	}
	return r
}

// Paint draws the whole tree into buf, clipped to clip. Each node paints
// within bounds ∩ clip; writes outside are dropped by the buffer.
func (t *Tree) Paint(buf *Buffer, clip Rect) {
	if len(t.nodes) == 0 {
		return
	}
	t.paintNode(0, 0, 0, buf, clip)
}

// paintNode paints node i with its parent's content origin at (ox, oy).
func (t *Tree) paintNode(i, ox, oy int, buf *Buffer, clip Rect) {
	n := &t.nodes[i]
	abs := n.Bounds.Offset(ox, oy)
	nodeClip := clip.Intersect(abs)
	if nodeClip.IsEmpty() {
		return
	}
	if n.Control != nil {
		n.Control.Paint(buf, abs, nodeClip)
	}
	if pl, ok := n.layout.(chromeLayout); ok {
		pl.PaintChrome(t, i, buf, abs, nodeClip)
	}

	if n.layout == nil {
		return
	}
	scrolling := n.scrollable && (n.ScrollY > 0 || t.contentHeight(i) > abs.Height)

	// Sticky children paint after scrolled content so pinned rows stay on
	// top of whatever slides under them.
	var sticky []int
	t.children(i, func(c int) bool {
		if scrolling && t.nodes[c].Hints.Sticky != StickyNone {
			sticky = append(sticky, c)
			return true
		}
		dy := 0
		if scrolling {
			dy = -n.ScrollY
		}
		t.paintNode(c, abs.X, abs.Y+dy, buf, nodeClip)
		return true
	})
	for _, c := range sticky {
		t.paintNode(c, abs.X, abs.Y+t.stickyShift(i, c, abs), buf, nodeClip)
	}
	if scrolling {
		t.paintScrollIndicators(i, buf, abs, nodeClip)
	}
}

// stickyShift returns the vertical offset that pins child c of scrolling
// container i to its declared edge.
func (t *Tree) stickyShift(i, c int, abs Rect) int {
	switch t.nodes[c].Hints.Sticky {
	case StickyTop:
		return -t.nodes[c].Bounds.Y
	case StickyBottom:
		return abs.Height - t.nodes[c].Bounds.Bottom()
	}
	return -t.nodes[i].ScrollY
}

// contentHeight returns the arranged extent of a node's children.
func (t *Tree) contentHeight(i int) int {
	h := 0
	t.children(i, func(c int) bool {
		if b := t.nodes[c].Bounds.Bottom(); b > h {
			h = b
		}
		return true
	})
	return h
}

// paintScrollIndicators draws the triangle glyphs at the top and bottom of
// the container's rightmost occupied column when content extends beyond
// the viewport in that direction.
func (t *Tree) paintScrollIndicators(i int, buf *Buffer, abs, clip Rect) {
	n := &t.nodes[i]
	if abs.Width <= 0 || abs.Height <= 0 {
		return
	}
	col := abs.Right() - 1
	style := DefaultStyle().Dim()
	if n.ScrollY > 0 {
		buf.SetClipped(col, abs.Y, NewCell(ScrollUpGlyph, style), clip)
	}
	if t.contentHeight(i)-n.ScrollY > abs.Height {
		buf.SetClipped(col, abs.Bottom()-1, NewCell(ScrollDownGlyph, style), clip)
	}
}

// HitTest returns the deepest control containing the point, searching
// front to back (later siblings paint over earlier ones, so they are
// tested first). x, y are in the tree's root coordinate space.
func (t *Tree) HitTest(x, y int) Control {
	if len(t.nodes) == 0 {
		return nil
	}
	return t.hitNode(0, x, y, 0, 0)
}

func (t *Tree) hitNode(i, x, y, ox, oy int) Control {
	n := &t.nodes[i]
	abs := n.Bounds.Offset(ox, oy)
	if !abs.Contains(x, y) {
		return nil
	}

	// Children front to back: sticky children sit on top of scrolled
	// siblings, then reverse paint order within each group.
	var kids, sticky []int
	scrolling := n.scrollable
	t.children(i, func(c int) bool {
		if scrolling && t.nodes[c].Hints.Sticky != StickyNone {
			sticky = append(sticky, c)
		} else {
			kids = append(kids, c)
		}
		return true
	})
	for k := len(sticky) - 1; k >= 0; k-- {
		dy := t.stickyShift(i, sticky[k], abs)
		if hit := t.hitNode(sticky[k], x, y, abs.X, abs.Y+dy); hit != nil {
			return hit
		}
	}
	for k := len(kids) - 1; k >= 0; k-- {
		dy := 0
		if scrolling {
			dy = -n.ScrollY
		}
		if hit := t.hitNode(kids[k], x, y, abs.X, abs.Y+dy); hit != nil {
			return hit
		}
	}

	if n.Control == nil {
		return nil
	}
	if ht, ok := n.Control.(HitTester); ok && !ht.HitTest(x-abs.X, y-abs.Y) {
		return nil
	}
	return n.Control
}
