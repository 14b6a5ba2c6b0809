package pane

import (
	"strings"
	"testing"
)

// renderRoot builds, measures, arranges and paints a control tree into a
// fresh buffer of the given size.
func renderRoot(root Control, w, h int) (*Tree, *Buffer) {
	tree := BuildTree(root)
	tree.Measure(0, Loose(w, h))
	tree.Arrange(0, Rect{Width: w, Height: h})
	buf := NewBuffer(w, h)
	tree.Paint(buf, buf.Bounds())
	return tree, buf
}

func row(buf *Buffer, y int) string {
	return strings.TrimRight(strings.Split(buf.String(), "\n")[y], " ")
}

func TestBuildTreeMirrorsHierarchy(t *testing.T) {
	root := NewBox(
		NewLabel("a"),
		NewBox(NewLabel("b"), NewLabel("c")),
	)
	tree := BuildTree(root)

	if tree.Len() != 5 {
		t.Fatalf("tree has %d nodes, want 5", tree.Len())
	}
	if tree.Node(0).Parent != -1 {
		t.Error("root should have no parent")
	}
	// inner box at index 2, its children at 3 and 4
	if tree.Node(3).Parent != 2 || tree.Node(4).Parent != 2 {
		t.Error("inner labels should parent to the inner box")
	}
	if tree.Node(2).FirstChild != 3 || tree.Node(2).LastChild != 4 {
		t.Error("inner box child links wrong")
	}
	if tree.Node(3).NextSib != 4 {
		t.Error("sibling link wrong")
	}
}

func TestVStackStacksAndMeasures(t *testing.T) {
	tree, buf := renderRoot(NewBox(
		NewLabel("one"),
		NewLabel("two longer"),
		NewLabel("three"),
	), 20, 10)

	if row(buf, 0) != "one" || row(buf, 1) != "two longer" || row(buf, 2) != "three" {
		t.Errorf("stacked rows wrong:\n%s", buf.String())
	}
	if d := tree.Node(0).Desired; d.Width != 10 || d.Height != 3 {
		t.Errorf("desired = %+v, want 10x3", d)
	}
}

func TestVStackGap(t *testing.T) {
	root := NewBox(NewLabel("a"), NewLabel("b")).WithLayout(VStack{Gap: 2})
	_, buf := renderRoot(root, 10, 10)
	if row(buf, 0) != "a" || row(buf, 3) != "b" {
		t.Errorf("gap not applied:\n%s", buf.String())
	}
}

func TestVStackAlignment(t *testing.T) {
	_, buf := renderRoot(NewBox(
		NewLabel("L"),
		NewLabel("C").Align(AlignCenter),
		NewLabel("R").Align(AlignRight),
	), 9, 3)

	if buf.Get(0, 0).Rune != 'L' {
		t.Error("left alignment broken")
	}
	if buf.Get(4, 1).Rune != 'C' {
		t.Errorf("center alignment broken:\n%s", buf.String())
	}
	if buf.Get(8, 2).Rune != 'R' {
		t.Errorf("right alignment broken:\n%s", buf.String())
	}
}

func TestVStackFillConsumesSpare(t *testing.T) {
	tree, _ := renderRoot(NewBox(
		NewLabel("top"),
		NewSpacer(),
		NewLabel("bottom"),
	), 10, 8)

	spacer := tree.Node(2)
	if spacer.Bounds.Height != 6 {
		t.Errorf("spacer height = %d, want 6 (8 rows minus 2 labels)", spacer.Bounds.Height)
	}
	bottom := tree.Node(3)
	if bottom.Bounds.Y != 7 {
		t.Errorf("bottom label at y=%d, want 7", bottom.Bounds.Y)
	}
}

func TestVStackMargins(t *testing.T) {
	tree, _ := renderRoot(NewBox(
		NewLabel("x").WithMargin(Margin{Left: 2, Top: 1, Bottom: 1}),
		NewLabel("y"),
	), 10, 10)

	first := tree.Node(1)
	if first.Bounds.X != 2 || first.Bounds.Y != 1 {
		t.Errorf("margined child at %+v, want x=2 y=1", first.Bounds)
	}
	second := tree.Node(2)
	if second.Bounds.Y != 3 {
		t.Errorf("second child at y=%d, want 3 (1 top + 1 row + 1 bottom)", second.Bounds.Y)
	}
}

func TestArrangeClampsInsideContent(t *testing.T) {
	tree, _ := renderRoot(NewBox(
		NewLabel("aaaa\nbbbb\ncccc\ndddd\neeee"),
		NewLabel("overflow"),
	), 10, 4)

	for i := 1; i < tree.Len(); i++ {
		b := tree.Node(i).Bounds
		if b.Bottom() > 4 {
			t.Errorf("node %d extends to %d, outside the 4-row content", i, b.Bottom())
		}
	}
}

func TestGridSplitColumns(t *testing.T) {
	root := NewBox(
		NewLabel("AA"),
		NewLabel("BB"),
	).WithLayout(GridSplit{Weights: []float64{1, 3}, Splitters: true})
	tree, buf := renderRoot(root, 21, 4)

	left, right := tree.Node(1), tree.Node(2)
	if left.Bounds.Width != 5 {
		t.Errorf("left column width = %d, want 5 (weight 1 of 4, minus splitter)", left.Bounds.Width)
	}
	if right.Bounds.Width != 15 {
		t.Errorf("right column width = %d, want 15", right.Bounds.Width)
	}
	if right.Bounds.X != 6 {
		t.Errorf("right column starts at %d, want 6 (after splitter)", right.Bounds.X)
	}
	if buf.Get(5, 0).Rune != BoxVertical {
		t.Errorf("splitter missing at column 5:\n%s", buf.String())
	}
}

func TestScrollOffsetShiftsContent(t *testing.T) {
	sb := NewScrollBox()
	for i := 0; i < 10; i++ {
		sb.Add(Labelf("line%d", i))
	}
	sb.ScrollTo(4)
	_, buf := renderRoot(NewBox(sb), 10, 4)

	if got := row(buf, 0); !strings.HasPrefix(got, "line4") {
		t.Errorf("first visible row = %q, want line4", got)
	}
}

func TestScrollIndicators(t *testing.T) {
	sb := NewScrollBox()
	for i := 0; i < 10; i++ {
		sb.Add(Labelf("%d", i))
	}
	sb.ScrollTo(2)
	_, buf := renderRoot(NewBox(sb), 10, 4)

	if got := buf.Get(9, 0).Rune; got != ScrollUpGlyph {
		t.Errorf("top indicator = %q, want %q", got, ScrollUpGlyph)
	}
	if got := buf.Get(9, 3).Rune; got != ScrollDownGlyph {
		t.Errorf("bottom indicator = %q, want %q", got, ScrollDownGlyph)
	}

	// scrolled to the end: only the up indicator remains
	sb.ScrollTo(6)
	_, buf = renderRoot(NewBox(sb), 10, 4)
	if got := buf.Get(9, 3).Rune; got == ScrollDownGlyph {
		t.Error("bottom indicator should disappear at the end of content")
	}
}

func TestStickyChildrenPinned(t *testing.T) {
	sb := NewScrollBox(NewLabel("header").Pin(StickyTop))
	for i := 0; i < 10; i++ {
		sb.Add(Labelf("row%d", i))
	}
	sb.ScrollTo(5)
	_, buf := renderRoot(NewBox(sb), 12, 5)

	if got := row(buf, 0); !strings.HasPrefix(got, "header") {
		t.Errorf("sticky header not pinned, first row = %q", got)
	}
}

func TestHitTestDeepest(t *testing.T) {
	inner := NewLabel("hit")
	root := NewBox(
		NewLabel("top"),
		NewBox(inner),
	)
	tree, _ := renderRoot(root, 10, 5)

	if got := tree.HitTest(0, 1); got != Control(inner) {
		t.Errorf("HitTest(0,1) = %T, want the inner label", got)
	}
	if got := tree.HitTest(0, 4); got != Control(root) {
		t.Errorf("HitTest in empty area = %T, want the root box", got)
	}
	if got := tree.HitTest(50, 50); got != nil {
		t.Errorf("HitTest outside = %v, want nil", got)
	}
}

func TestAbsBounds(t *testing.T) {
	root := NewBox(NewBox(NewLabel("x").WithMargin(Margin{Left: 3})))
	tree, _ := renderRoot(root, 10, 5)

	abs := tree.AbsBounds(2) // the label
	if abs.X != 3 || abs.Y != 0 {
		t.Errorf("AbsBounds = %+v, want x=3 y=0", abs)
	}
}

func TestLabelPaintHonorsClipLeftEdge(t *testing.T) {
	buf := NewBuffer(10, 1)
	l := NewLabel("abcdef")
	l.Paint(buf, NewRect(0, 0, 10, 1), NewRect(2, 0, 8, 1))

	if got := buf.Get(0, 0); got != EmptyCell() {
		t.Errorf("cell (0,0) = %+v, want empty outside the clip", got)
	}
	if got := buf.Get(1, 0); got != EmptyCell() {
		t.Errorf("cell (1,0) = %+v, want empty outside the clip", got)
	}
	if got := buf.Get(2, 0).Rune; got != 'c' {
		t.Errorf("cell (2,0) = %q, want 'c' (text keeps its position, clipped)", got)
	}
}

func TestPaintHonorsClip(t *testing.T) {
	tree := BuildTree(NewBox(NewLabel("visible\nhidden")))
	tree.Measure(0, Loose(10, 10))
	tree.Arrange(0, Rect{Width: 10, Height: 10})
	buf := NewBuffer(10, 10)
	tree.Paint(buf, NewRect(0, 0, 10, 1))

	if row(buf, 0) != "visible" {
		t.Errorf("row 0 = %q", row(buf, 0))
	}
	if row(buf, 1) != "" {
		t.Errorf("clipped row should be empty, got %q", row(buf, 1))
	}
}
