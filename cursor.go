package pane

import "strconv"

// CursorShape selects the terminal cursor glyph (DECSCUSR parameter).
type CursorShape uint8

const (
	CursorBlock CursorShape = iota
	CursorUnderline
	CursorBar
)

// Cursor is the hardware cursor state a window requests. Coordinates are
// window-relative; the screen translates them when the window is active.
type Cursor struct {
	X, Y    int
	Shape   CursorShape
	Visible bool
}

// DefaultCursor returns a hidden block cursor at the origin. Windows that
// never set a cursor keep the terminal cursor hidden.
func DefaultCursor() Cursor {
	return Cursor{Shape: CursorBlock}
}

// shapeSeq returns the DECSCUSR escape for the shape (steady variants).
func (s CursorShape) shapeSeq() string {
	switch s {
	case CursorUnderline:
		return "\x1b[4 q"
	case CursorBar:
		return "\x1b[6 q"
	default:
		return "\x1b[2 q"
	}
}

// moveTo returns the CUP escape for 0-based screen coordinates.
func moveTo(x, y int) string {
	return "\x1b[" + strconv.Itoa(y+1) + ";" + strconv.Itoa(x+1) + "H"
}
