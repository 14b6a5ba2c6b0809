package pane

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Driver abstracts the terminal under the screen: sizing, raw output and
// input bytes. Tests substitute an in-memory implementation to observe
// exactly what the screen writes.
type Driver interface {
	// Size returns the terminal dimensions in cells.
	Size() (Size, error)

	// Write sends raw bytes to the terminal.
	Write(p []byte) (int, error)

	// Read reads raw input bytes, blocking until some are available.
	Read(p []byte) (int, error)

	// Close restores the terminal to its pre-Open state.
	Close() error
}

const (
	seqEnterAltScreen = "\x1b[?1049h"
	seqExitAltScreen  = "\x1b[?1049l"
	seqHideCursor     = "\x1b[?25l"
	seqShowCursor     = "\x1b[?25h"
	seqClearScreen    = "\x1b[2J"
	seqEnableMouse    = "\x1b[?1000h\x1b[?1002h\x1b[?1006h"
	seqDisableMouse   = "\x1b[?1006l\x1b[?1002l\x1b[?1000l"
	seqReset          = "\x1b[0m"
)

// TermDriver drives a real terminal: raw mode, the alternate screen and
// SGR mouse reporting.
type TermDriver struct {
	in    *os.File
	out   *os.File
	state *term.State
	mouse bool
}

// TermOption configures a TermDriver.
type TermOption func(*TermDriver)

// WithMouse enables SGR mouse reporting.
func WithMouse() TermOption {
	return func(d *TermDriver) { d.mouse = true }
}

// OpenTerm puts the controlling terminal into raw mode and switches to
// the alternate screen. Callers must Close to restore the terminal.
func OpenTerm(opts ...TermOption) (*TermDriver, error) {
	d := &TermDriver{in: os.Stdin, out: os.Stdout}
	for _, opt := range opts {
		opt(d)
	}

	if !term.IsTerminal(int(d.in.Fd())) {
		return nil, errors.New("stdin is not a terminal")
	}
	state, err := term.MakeRaw(int(d.in.Fd()))
	if err != nil {
		return nil, errors.Wrap(err, "enter raw mode")
	}
	d.state = state

	seq := seqEnterAltScreen + seqHideCursor + seqClearScreen
	if d.mouse {
		seq += seqEnableMouse
	}
	if _, err := d.out.WriteString(seq); err != nil {
		_ = term.Restore(int(d.in.Fd()), state)
		return nil, errors.Wrap(err, "enter alternate screen")
	}
	return d, nil
}

// Size queries the terminal dimensions.
func (d *TermDriver) Size() (Size, error) {
	ws, err := unix.IoctlGetWinsize(int(d.out.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return Size{}, errors.Wrap(err, "query terminal size")
	}
	return Size{Width: int(ws.Col), Height: int(ws.Row)}, nil
}

// Write sends raw bytes to the terminal.
func (d *TermDriver) Write(p []byte) (int, error) {
	return d.out.Write(p)
}

// Read reads raw input bytes from the terminal.
func (d *TermDriver) Read(p []byte) (int, error) {
	return d.in.Read(p)
}

// Close leaves the alternate screen and restores the saved termios state.
func (d *TermDriver) Close() error {
	seq := seqReset
	if d.mouse {
		seq += seqDisableMouse
	}
	seq += seqShowCursor + seqExitAltScreen
	_, werr := d.out.WriteString(seq)

	if d.state != nil {
		if err := term.Restore(int(d.in.Fd()), d.state); err != nil {
			return errors.Wrap(err, "restore terminal")
		}
		d.state = nil
	}
	return errors.Wrap(werr, "leave alternate screen")
}

// memDriver is an in-memory driver for tests: fixed size, captured writes.
type memDriver struct {
	size   Size
	writes [][]byte
	input  io.Reader
}

func newMemDriver(width, height int) *memDriver {
	return &memDriver{size: Size{Width: width, Height: height}}
}

func (d *memDriver) Size() (Size, error) {
	return d.size, nil
}

func (d *memDriver) Write(p []byte) (int, error) {
	cp := make([]byte, len(p))
	copy(cp, p)
	d.writes = append(d.writes, cp)
	return len(p), nil
}

func (d *memDriver) Read(p []byte) (int, error) {
	if d.input == nil {
		return 0, io.EOF
	}
	return d.input.Read(p)
}

func (d *memDriver) Close() error {
	return nil
}
