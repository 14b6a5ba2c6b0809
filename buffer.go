package pane

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Buffer is a 2D grid of cells owned by exactly one window.
// Writes track dirtiness per cell and per row; out-of-bounds writes are
// silently dropped so a control painting against stale bounds during a
// resize cannot crash the frame.
type Buffer struct {
	cells    []Cell
	dirty    []bool
	rowDirty []bool
	width    int
	height   int
}

// NewBuffer creates a new buffer with the given dimensions.
// Negative dimensions are clamped to zero.
func NewBuffer(width, height int) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	cells := make([]Cell, width*height)
	empty := EmptyCell()
	for i := range cells {
		cells[i] = empty
	}
	return &Buffer{
		cells:    cells,
		dirty:    make([]bool, width*height),
		rowDirty: make([]bool, height),
		width:    width,
		height:   height,
	}
}

// Width returns the buffer width.
func (b *Buffer) Width() int {
	return b.width
}

// Height returns the buffer height.
func (b *Buffer) Height() int {
	return b.height
}

// Size returns the buffer dimensions.
func (b *Buffer) Size() Size {
	return Size{Width: b.width, Height: b.height}
}

// Bounds returns the buffer extent as a rectangle at the origin.
func (b *Buffer) Bounds() Rect {
	return Rect{Width: b.width, Height: b.height}
}

// InBounds returns true if the given coordinates are within the buffer.
func (b *Buffer) InBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// index converts x,y coordinates to a slice index.
func (b *Buffer) index(x, y int) int {
	return y*b.width + x
}

// Get returns the cell at the given coordinates.
// Returns an empty cell if out of bounds.
func (b *Buffer) Get(x, y int) Cell {
	if !b.InBounds(x, y) {
		return EmptyCell()
	}
	return b.cells[b.index(x, y)]
}

// Set sets the cell at the given coordinates. Does nothing if out of
// bounds or if the cell already holds the same content (so unchanged
// writes never mark anything dirty). Border characters merge with
// existing border characters.
func (b *Buffer) Set(x, y int, c Cell) {
	if !b.InBounds(x, y) {
		return
	}
	idx := b.index(x, y)
	existing := b.cells[idx]

	if merged, ok := mergeBorders(existing.Rune, c.Rune); ok {
		c.Rune = merged
	}

	if existing == c {
		return
	}
	b.cells[idx] = c
	b.dirty[idx] = true
	b.rowDirty[y] = true
}

// SetClipped sets a cell only if the coordinates fall inside clip.
func (b *Buffer) SetClipped(x, y int, c Cell, clip Rect) {
	if !clip.Contains(x, y) {
		return
	}
	b.Set(x, y, c)
}

// Fill fills the entire buffer with the given cell.
func (b *Buffer) Fill(c Cell) {
	b.FillRect(b.Bounds(), c)
}

// Clear clears the buffer to empty cells with default style.
func (b *Buffer) Clear() {
	b.Fill(EmptyCell())
}

// FillRect fills a rectangular region with the given cell.
func (b *Buffer) FillRect(r Rect, c Cell) {
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			b.Set(x, y, c)
		}
	}
}

// WriteString writes a string at the given coordinates with the given
// style, iterating grapheme clusters so combining sequences occupy one
// cell. Wide clusters advance by their display width; the cells skipped
// over are left untouched. Returns the number of columns written.
func (b *Buffer) WriteString(x, y int, s string, style Style) int {
	return b.WriteStringClipped(x, y, s, style, b.width-x)
}

// WriteStringClipped writes a string, stopping after maxWidth columns.
// Returns the number of columns written.
func (b *Buffer) WriteStringClipped(x, y int, s string, style Style, maxWidth int) int {
	written := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		runes := g.Runes()
		if len(runes) == 0 {
			continue
		}
		w := runewidth.StringWidth(string(runes))
		if w == 0 {
			w = 1
		}
		if written+w > maxWidth || !b.InBounds(x, y) {
			break
		}
		b.Set(x, y, NewCell(runes[0], style))
		// trailing columns of a wide cluster hold placeholders
		for k := 1; k < w; k++ {
			b.Set(x+k, y, Cell{Rune: 0, Style: style})
		}
		x += w
		written += w
	}
	return written
}

// WriteStringRegion writes a string at (x, y) dropping everything outside
// region; a wide cluster straddling a region edge is dropped whole.
// Returns the number of columns advanced past.
func (b *Buffer) WriteStringRegion(x, y int, s string, style Style, region Rect) int {
	if y < region.Y || y >= region.Bottom() {
		return 0
	}
	start := x
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		runes := g.Runes()
		if len(runes) == 0 {
			continue
		}
		w := runewidth.StringWidth(string(runes))
		if w == 0 {
			w = 1
		}
		if x >= region.Right() {
			break
		}
		if x >= region.X && x+w <= region.Right() {
			b.Set(x, y, NewCell(runes[0], style))
			for k := 1; k < w; k++ {
				b.Set(x+k, y, Cell{Rune: 0, Style: style})
			}
		}
		x += w
	}
	return x - start
}

// HLine draws a horizontal line of the given rune.
func (b *Buffer) HLine(x, y, length int, r rune, style Style) {
	for i := 0; i < length; i++ {
		b.Set(x+i, y, NewCell(r, style))
	}
}

// VLine draws a vertical line of the given rune.
func (b *Buffer) VLine(x, y, length int, r rune, style Style) {
	for i := 0; i < length; i++ {
		b.Set(x, y+i, NewCell(r, style))
	}
}

// RowDirty returns true if any cell in the row changed since the last
// ClearDirty.
func (b *Buffer) RowDirty(y int) bool {
	if y < 0 || y >= b.height {
		return false
	}
	return b.rowDirty[y]
}

// CellDirty returns true if the cell changed since the last ClearDirty.
func (b *Buffer) CellDirty(x, y int) bool {
	if !b.InBounds(x, y) {
		return false
	}
	return b.dirty[b.index(x, y)]
}

// MarkAllDirty flags every cell as changed, forcing a full re-emit.
func (b *Buffer) MarkAllDirty() {
	for i := range b.dirty {
		b.dirty[i] = true
	}
	for y := range b.rowDirty {
		b.rowDirty[y] = true
	}
}

// ClearDirty resets all dirty flags. Called exactly once per successful
// flush of the buffer's content.
func (b *Buffer) ClearDirty() {
	for i := range b.dirty {
		b.dirty[i] = false
	}
	for y := range b.rowDirty {
		b.rowDirty[y] = false
	}
}

// CopyFrom overwrites this buffer's cells with src's content without
// touching dirty state. Mismatched sizes are ignored; the owning window
// realigns both of its buffers on any bounds change.
func (b *Buffer) CopyFrom(src *Buffer) {
	if src == nil || src.width != b.width || src.height != b.height {
		return
	}
	copy(b.cells, src.cells)
}

// Resize reallocates the buffer to new dimensions. All cells are reset
// and marked dirty; content is not preserved since the owning window is
// rebuilt after any bounds change.
func (b *Buffer) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if width == b.width && height == b.height {
		b.MarkAllDirty()
		return
	}
	b.width = width
	b.height = height
	b.cells = make([]Cell, width*height)
	empty := EmptyCell()
	for i := range b.cells {
		b.cells[i] = empty
	}
	b.dirty = make([]bool, width*height)
	b.rowDirty = make([]bool, height)
	b.MarkAllDirty()
}

// String returns the buffer contents as plain text (for tests/debugging).
func (b *Buffer) String() string {
	var result []byte
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			c := b.Get(x, y)
			if c.Rune == 0 {
				result = append(result, ' ')
			} else {
				result = append(result, string(c.Rune)...)
			}
		}
		if y < b.height-1 {
			result = append(result, '\n')
		}
	}
	return string(result)
}

// Box drawing characters for borders.
const (
	BoxHorizontal         = '─'
	BoxVertical           = '│'
	BoxTopLeft            = '┌'
	BoxTopRight           = '┐'
	BoxBottomLeft         = '└'
	BoxBottomRight        = '┘'
	BoxRoundedTopLeft     = '╭'
	BoxRoundedTopRight    = '╮'
	BoxRoundedBottomLeft  = '╰'
	BoxRoundedBottomRight = '╯'
	BoxDoubleHorizontal   = '═'
	BoxDoubleVertical     = '║'
	BoxDoubleTopLeft      = '╔'
	BoxDoubleTopRight     = '╗'
	BoxDoubleBottomLeft   = '╚'
	BoxDoubleBottomRight  = '╝'
)

// Box junction characters for merged borders.
const (
	BoxTeeDown  = '┬'
	BoxTeeUp    = '┴'
	BoxTeeRight = '├'
	BoxTeeLeft  = '┤'
	BoxCross    = '┼'
)

// Scroll indicator glyphs emitted by scrollable containers.
const (
	ScrollUpGlyph   = '▲'
	ScrollDownGlyph = '▼'
)

// borderEdges maps border runes to which edges they connect.
// Bits: 1=top, 2=right, 4=bottom, 8=left.
var borderEdges = map[rune]uint8{
	BoxHorizontal:  0b1010,
	BoxVertical:    0b0101,
	BoxTopLeft:     0b0110,
	BoxTopRight:    0b1100,
	BoxBottomLeft:  0b0011,
	BoxBottomRight: 0b1001,
	BoxTeeDown:     0b1110,
	BoxTeeUp:       0b1011,
	BoxTeeRight:    0b0111,
	BoxTeeLeft:     0b1101,
	BoxCross:       0b1111,
	// Rounded corners share edges with the square ones
	BoxRoundedTopLeft:     0b0110,
	BoxRoundedTopRight:    0b1100,
	BoxRoundedBottomLeft:  0b0011,
	BoxRoundedBottomRight: 0b1001,
}

// edgesToBorder maps edge combinations back to border runes.
var edgesToBorder = map[uint8]rune{
	0b1010: BoxHorizontal,
	0b0101: BoxVertical,
	0b0110: BoxTopLeft,
	0b1100: BoxTopRight,
	0b0011: BoxBottomLeft,
	0b1001: BoxBottomRight,
	0b1110: BoxTeeDown,
	0b1011: BoxTeeUp,
	0b0111: BoxTeeRight,
	0b1101: BoxTeeLeft,
	0b1111: BoxCross,
}

// mergeBorders combines two border characters into one.
// Returns the merged rune and true if both were border chars.
func mergeBorders(existing, new rune) (rune, bool) {
	existingEdges, ok1 := borderEdges[existing]
	newEdges, ok2 := borderEdges[new]
	if !ok1 || !ok2 {
		return new, false
	}
	merged := existingEdges | newEdges
	if result, ok := edgesToBorder[merged]; ok {
		return result, true
	}
	return new, false
}

// BorderStyle defines the characters used for drawing borders.
type BorderStyle struct {
	Horizontal  rune
	Vertical    rune
	TopLeft     rune
	TopRight    rune
	BottomLeft  rune
	BottomRight rune
}

// Standard border styles.
var (
	BorderNone   = BorderStyle{}
	BorderSingle = BorderStyle{
		Horizontal:  BoxHorizontal,
		Vertical:    BoxVertical,
		TopLeft:     BoxTopLeft,
		TopRight:    BoxTopRight,
		BottomLeft:  BoxBottomLeft,
		BottomRight: BoxBottomRight,
	}
	BorderRounded = BorderStyle{
		Horizontal:  BoxHorizontal,
		Vertical:    BoxVertical,
		TopLeft:     BoxRoundedTopLeft,
		TopRight:    BoxRoundedTopRight,
		BottomLeft:  BoxRoundedBottomLeft,
		BottomRight: BoxRoundedBottomRight,
	}
	BorderDouble = BorderStyle{
		Horizontal:  BoxDoubleHorizontal,
		Vertical:    BoxDoubleVertical,
		TopLeft:     BoxDoubleTopLeft,
		TopRight:    BoxDoubleTopRight,
		BottomLeft:  BoxDoubleBottomLeft,
		BottomRight: BoxDoubleBottomRight,
	}
)

// IsZero returns true for the no-border style.
func (bs BorderStyle) IsZero() bool {
	return bs == BorderStyle{}
}

// DrawBorder draws a border around the given rectangle.
func (b *Buffer) DrawBorder(r Rect, border BorderStyle, style Style) {
	if r.Width < 2 || r.Height < 2 || border.IsZero() {
		return
	}

	b.Set(r.X, r.Y, NewCell(border.TopLeft, style))
	b.Set(r.Right()-1, r.Y, NewCell(border.TopRight, style))
	b.Set(r.X, r.Bottom()-1, NewCell(border.BottomLeft, style))
	b.Set(r.Right()-1, r.Bottom()-1, NewCell(border.BottomRight, style))

	for i := 1; i < r.Width-1; i++ {
		b.Set(r.X+i, r.Y, NewCell(border.Horizontal, style))
		b.Set(r.X+i, r.Bottom()-1, NewCell(border.Horizontal, style))
	}
	for i := 1; i < r.Height-1; i++ {
		b.Set(r.X, r.Y+i, NewCell(border.Vertical, style))
		b.Set(r.Right()-1, r.Y+i, NewCell(border.Vertical, style))
	}
}
