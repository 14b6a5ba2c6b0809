package pane

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// A minimal built-in control set. The engine treats controls as opaque
// paintables; these exist so windows have something to show and tests
// have something to lay out. Richer widget sets live outside the engine.

// Label is a styled single-or-multi-line text control.
type Label struct {
	text  string
	lines []string
	style Style
	hints Hints
}

// NewLabel creates a label with the default style.
func NewLabel(text string) *Label {
	l := &Label{style: DefaultStyle()}
	l.SetText(text)
	return l
}

// Labelf creates a label with printf-style formatting.
func Labelf(format string, args ...any) *Label {
	return NewLabel(fmt.Sprintf(format, args...))
}

// SetText replaces the label text.
func (l *Label) SetText(text string) *Label {
	l.text = text
	l.lines = strings.Split(text, "\n")
	return l
}

// Text returns the label text.
func (l *Label) Text() string {
	return l.text
}

// Styled sets the complete style.
func (l *Label) Styled(s Style) *Label {
	l.style = s
	return l
}

// Bold makes the text bold.
func (l *Label) Bold() *Label {
	l.style = l.style.Bold()
	return l
}

// Dim makes the text dim.
func (l *Label) Dim() *Label {
	l.style = l.style.Dim()
	return l
}

// Fg sets the foreground color.
func (l *Label) Fg(c Color) *Label {
	l.style = l.style.Foreground(c)
	return l
}

// Bg sets the background color.
func (l *Label) Bg(c Color) *Label {
	l.style = l.style.Background(c)
	return l
}

// Align sets the horizontal alignment hint.
func (l *Label) Align(a Alignment) *Label {
	l.hints.Align = a
	return l
}

// WithMargin sets the margin hint.
func (l *Label) WithMargin(m Margin) *Label {
	l.hints.Margin = m
	return l
}

// Pin sets the sticky hint.
func (l *Label) Pin(s Sticky) *Label {
	l.hints.Sticky = s
	return l
}

// LayoutHints implements Hinted.
func (l *Label) LayoutHints() Hints {
	return l.hints
}

// Measure implements Control: widest line by display width, one row per
// line.
func (l *Label) Measure(c Constraints) Size {
	var s Size
	for _, line := range l.lines {
		if w := runewidth.StringWidth(line); w > s.Width {
			s.Width = w
		}
	}
	if l.text != "" {
		s.Height = len(l.lines)
	}
	return c.Clamp(s)
}

// Paint implements Control. Lines clip on all four edges: a glyph only
// lands when it fits entirely inside the visible area.
func (l *Label) Paint(buf *Buffer, bounds, clip Rect) {
	area := bounds.Intersect(clip)
	if area.IsEmpty() {
		return
	}
	for i, line := range l.lines {
		y := bounds.Y + i
		if y >= area.Bottom() {
			break
		}
		if y < area.Y {
			continue
		}
		buf.WriteStringRegion(bounds.X, y, line, l.style, area)
	}
}

// Spacer is invisible filler. A growing spacer consumes the leftover
// space in its stack.
type Spacer struct {
	size int
	grow bool
}

// NewSpacer creates a spacer that grows to fill leftover space.
func NewSpacer() *Spacer {
	return &Spacer{grow: true}
}

// FixedSpacer creates a spacer of a fixed height.
func FixedSpacer(size int) *Spacer {
	return &Spacer{size: size}
}

// LayoutHints implements Hinted.
func (s *Spacer) LayoutHints() Hints {
	return Hints{Fill: s.grow}
}

// Measure implements Control.
func (s *Spacer) Measure(c Constraints) Size {
	return c.Clamp(Size{Height: s.size})
}

// Paint implements Control: spacers are invisible.
func (s *Spacer) Paint(buf *Buffer, bounds, clip Rect) {}

// Box is a plain container: children stacked by its layout, an optional
// background fill.
type Box struct {
	children []Control
	layout   Layout
	bg       Cell
	fill     bool
	hints    Hints
}

// NewBox creates a container stacking children vertically.
func NewBox(children ...Control) *Box {
	return &Box{children: children, layout: VStack{}}
}

// WithLayout replaces the child placement algorithm.
func (b *Box) WithLayout(l Layout) *Box {
	b.layout = l
	return b
}

// WithBackground fills the box's bounds before children paint.
func (b *Box) WithBackground(c Cell) *Box {
	b.bg = c
	b.fill = true
	return b
}

// Growing makes the box consume leftover vertical space.
func (b *Box) Growing() *Box {
	b.hints.Fill = true
	return b
}

// Add appends children.
func (b *Box) Add(children ...Control) *Box {
	b.children = append(b.children, children...)
	return b
}

// Children implements Container.
func (b *Box) Children() []Control {
	return b.children
}

// Layout implements Arranged.
func (b *Box) Layout() Layout {
	return b.layout
}

// LayoutHints implements Hinted.
func (b *Box) LayoutHints() Hints {
	return b.hints
}

// Measure implements Control. Containers defer to their layout; the box
// itself has no intrinsic size.
func (b *Box) Measure(c Constraints) Size {
	return c.Clamp(Size{})
}

// Paint implements Control.
func (b *Box) Paint(buf *Buffer, bounds, clip Rect) {
	if !b.fill {
		return
	}
	buf.FillRect(bounds.Intersect(clip), b.bg)
}

// ScrollBox is a vertically scrolling container. Content is measured at
// full height; painting shows the slice at the current offset with
// indicator glyphs when content extends past the viewport.
type ScrollBox struct {
	children []Control
	offset   int
	hints    Hints
}

// NewScrollBox creates a scrolling container that fills leftover space
// and stretches across the viewport, keeping the scroll indicators at
// the viewport's right edge.
func NewScrollBox(children ...Control) *ScrollBox {
	return &ScrollBox{children: children, hints: Hints{Fill: true, Align: AlignStretch}}
}

// Add appends children.
func (s *ScrollBox) Add(children ...Control) *ScrollBox {
	s.children = append(s.children, children...)
	return s
}

// ScrollBy adjusts the offset by delta rows, clamped at zero.
func (s *ScrollBox) ScrollBy(delta int) {
	s.ScrollTo(s.offset + delta)
}

// ScrollTo sets the offset, clamped at zero. Overscroll past the content
// end is clamped at paint time by the viewport.
func (s *ScrollBox) ScrollTo(offset int) {
	s.offset = max(offset, 0)
}

// ScrollOffset implements Scroller.
func (s *ScrollBox) ScrollOffset() int {
	return s.offset
}

// Children implements Container.
func (s *ScrollBox) Children() []Control {
	return s.children
}

// LayoutHints implements Hinted.
func (s *ScrollBox) LayoutHints() Hints {
	return s.hints
}

// Measure implements Control.
func (s *ScrollBox) Measure(c Constraints) Size {
	return c.Clamp(Size{})
}

// Paint implements Control.
func (s *ScrollBox) Paint(buf *Buffer, bounds, clip Rect) {}
