package pane

import (
	"bytes"

	"github.com/pkg/errors"
)

// Screen is the terminal-level double buffer. The compositor writes
// escape-coded lines into the back buffer; Flush diffs back against front
// and sends only the changed column ranges to the driver, in a single
// write. A frame where nothing changed produces zero terminal writes.
type Screen struct {
	driver Driver

	width  int
	height int

	front   [][]Cell
	back    [][]Cell
	touched []bool // rows written since the last flush

	// force repaints every cell on the next flush, ignoring front.
	force bool

	cursor     Cursor // desired state for the next flush
	lastCursor Cursor // state applied by the previous flush
	cursorSet  bool

	out bytes.Buffer
}

// NewScreen allocates a screen sized to the driver's terminal.
func NewScreen(driver Driver) (*Screen, error) {
	sz, err := driver.Size()
	if err != nil {
		return nil, errors.Wrap(err, "size screen")
	}
	s := &Screen{driver: driver}
	s.alloc(sz)
	return s, nil
}

// Size returns the screen dimensions in cells.
func (s *Screen) Size() Size {
	return Size{Width: s.width, Height: s.height}
}

// Resize reallocates both buffers to the new dimensions. Previous content
// is discarded and the next flush repaints every cell.
func (s *Screen) Resize(sz Size) {
	s.alloc(sz)
}

// FullRedraw forces the next flush to repaint every cell regardless of
// the front buffer's content.
func (s *Screen) FullRedraw() {
	s.force = true
	for y := range s.touched {
		s.touched[y] = true
	}
}

func (s *Screen) alloc(sz Size) {
	s.width = max(sz.Width, 0)
	s.height = max(sz.Height, 0)
	s.front = allocCells(s.width, s.height)
	s.back = allocCells(s.width, s.height)
	s.touched = make([]bool, s.height)
	s.force = true
	for y := range s.touched {
		s.touched[y] = true
	}
}

func allocCells(width, height int) [][]Cell {
	rows := make([][]Cell, height)
	empty := EmptyCell()
	for y := range rows {
		row := make([]Cell, width)
		for x := range row {
			row[x] = empty
		}
		rows[y] = row
	}
	return rows
}

// Clear fills the back buffer with empty cells.
func (s *Screen) Clear() {
	empty := EmptyCell()
	for y := range s.back {
		for x := range s.back[y] {
			s.back[y][x] = empty
		}
		s.touched[y] = true
	}
}

// WriteAt decodes an escape-coded line into the back buffer starting at
// (x, y). Content extending past the right edge is dropped; a y outside
// the screen drops the whole line.
func (s *Screen) WriteAt(x, y int, line string) {
	if y < 0 || y >= s.height || x >= s.width {
		return
	}
	row := s.back[y]
	col := x
	ParseLineFunc(line, func(c Cell) {
		if col >= 0 && col < s.width {
			row[col] = c
		}
		col++
	})
	s.touched[y] = true
}

// SetCursor sets the hardware cursor state to apply on the next flush.
// Coordinates are screen-absolute.
func (s *Screen) SetCursor(c Cursor) {
	s.cursor = c
}

// Flush diffs the back buffer against the front, emits each row's
// changed column ranges plus any cursor change, and sends it all in one
// driver write. The back buffer becomes the new front.
func (s *Screen) Flush() error {
	s.out.Reset()

	for y := 0; y < s.height; y++ {
		if !s.touched[y] && !s.force {
			continue
		}
		s.flushRow(y)
		s.touched[y] = false
	}
	s.force = false
	s.flushCursor()

	if s.out.Len() == 0 {
		return nil
	}
	_, err := s.driver.Write(s.out.Bytes())
	return errors.Wrap(err, "flush screen")
}

// flushRow emits one cursor move and cell run per contiguous range of
// changed columns, so widely separated edits on the same row do not drag
// the unchanged cells between them across the wire. Each range is
// extended over wide-character placeholders so a wide glyph is never
// split, then copied into the front buffer.
func (s *Screen) flushRow(y int) {
	if s.force {
		s.emitRange(y, 0, s.width)
		return
	}

	back, front := s.back[y], s.front[y]
	for x := 0; x < s.width; {
		if back[x] == front[x] {
			x++
			continue
		}
		x0, x1 := x, x+1
		for x1 < s.width && back[x1] != front[x1] {
			x1++
		}
		// A placeholder at a range edge belongs to a wide glyph that
		// starts further left; widen until the range edges land on real
		// cells.
		for x0 > 0 && back[x0].Rune == 0 {
			x0--
		}
		for x1 < s.width && back[x1].Rune == 0 {
			x1++
		}
		s.emitRange(y, x0, x1)
		x = x1
	}
}

// emitRange writes back-buffer columns [x0, x1) of row y to the output
// and promotes them to the front buffer.
func (s *Screen) emitRange(y, x0, x1 int) {
	if x1 <= x0 {
		return
	}
	s.out.WriteString(moveTo(x0, y))
	appendCellRun(&s.out, s.back[y][x0:x1])
	copy(s.front[y][x0:x1], s.back[y][x0:x1])
}

// flushCursor appends cursor updates when the desired state differs from
// what the terminal currently shows. A visible cursor is repositioned
// whenever the flush wrote cells, since writing moves it.
func (s *Screen) flushCursor() {
	c := s.cursor
	wrote := s.out.Len() > 0

	if !c.Visible {
		if s.cursorSet && s.lastCursor.Visible {
			s.out.WriteString(seqHideCursor)
		}
		s.lastCursor = c
		s.cursorSet = true
		return
	}

	changed := !s.cursorSet || c != s.lastCursor
	if !changed && !wrote {
		return
	}
	if !s.cursorSet || c.Shape != s.lastCursor.Shape {
		s.out.WriteString(c.Shape.shapeSeq())
	}
	s.out.WriteString(moveTo(c.X, c.Y))
	if !s.cursorSet || !s.lastCursor.Visible {
		s.out.WriteString(seqShowCursor)
	}
	s.lastCursor = c
	s.cursorSet = true
}

// Front returns the cell currently displayed at (x, y); tests use it to
// assert what reached the terminal.
func (s *Screen) Front(x, y int) Cell {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return EmptyCell()
	}
	return s.front[y][x]
}
