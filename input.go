package pane

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"
)

// Event is an input or lifecycle event delivered to the manager loop.
type Event interface {
	event()
}

// Key identifies non-printing keys.
type Key uint8

const (
	KeyRune Key = iota // printable, in KeyEvent.Rune
	KeyEnter
	KeyTab
	KeyBackspace
	KeyEscape
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPgUp
	KeyPgDn
	KeyDelete
	KeyCtrlC
)

// KeyEvent is a single key press.
type KeyEvent struct {
	Key  Key
	Rune rune // valid when Key == KeyRune
	Alt  bool
}

func (KeyEvent) event() {}

// MouseButton identifies which button a mouse event refers to.
type MouseButton uint8

const (
	MouseLeft MouseButton = iota
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
)

// MouseAction is what the button did.
type MouseAction uint8

const (
	MousePress MouseAction = iota
	MouseRelease
	MouseDrag
)

// MouseEvent is a pointer event in screen coordinates.
type MouseEvent struct {
	X, Y   int
	Button MouseButton
	Action MouseAction
}

func (MouseEvent) event() {}

// ResizeEvent reports a new terminal size.
type ResizeEvent struct {
	Size Size
}

func (ResizeEvent) event() {}

// Decoder turns raw terminal bytes into events. It returns the decoded
// events and how many bytes it consumed; zero consumed means it needs
// more input. The default decoder handles UTF-8 runes, common control
// and arrow keys, and SGR mouse reports; applications with richer needs
// substitute their own.
type Decoder interface {
	Decode(p []byte) ([]Event, int)
}

// eventQueueSize bounds the input channel. Producers drop events when
// the consumer falls this far behind rather than blocking the readers.
const eventQueueSize = 128

// inputRetryDelay is how long the reader backs off after a transient
// read failure before trying again.
const inputRetryDelay = 50 * time.Millisecond

// inputReader pumps driver bytes through the decoder into the event
// channel. Transient read failures are logged and retried; only EOF or
// context cancellation stops the reader.
func inputReader(ctx context.Context, d Driver, dec Decoder, events chan<- Event, log *slog.Logger) {
	buf := make([]byte, 256)
	pending := make([]byte, 0, 256)
	for {
		n, err := d.Read(buf)
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return
			}
			log.Warn("input read failed", "err", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(inputRetryDelay):
			}
			continue
		}
		pending = append(pending, buf[:n]...)
		for len(pending) > 0 {
			evs, consumed := dec.Decode(pending)
			if consumed == 0 {
				break
			}
			pending = pending[consumed:]
			for _, ev := range evs {
				select {
				case events <- ev:
				case <-ctx.Done():
					return
				default:
					// queue full: drop rather than block the reader
				}
			}
		}
		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

// resizePoller emits a ResizeEvent whenever the driver reports a new
// terminal size. Polling avoids platform signal plumbing and keeps the
// driver interface minimal. Size query failures are logged and the
// poller keeps going; only context cancellation stops it.
func resizePoller(ctx context.Context, d Driver, interval time.Duration, events chan<- Event, log *slog.Logger) {
	last, err := d.Size()
	if err != nil {
		log.Warn("terminal size query failed", "err", err)
		last = Size{}
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		sz, err := d.Size()
		if err != nil {
			log.Warn("terminal size query failed", "err", err)
			continue
		}
		if sz == last {
			continue
		}
		if last == (Size{}) {
			// first successful query after a failed baseline
			last = sz
			continue
		}
		last = sz
		select {
		case events <- ResizeEvent{Size: sz}:
		case <-ctx.Done():
			return
		default:
		}
	}
}

// DefaultDecoder decodes the escape sequences the built-in driver turns
// on: plain keys and SGR mouse reports.
type DefaultDecoder struct{}

// Decode implements Decoder.
func (DefaultDecoder) Decode(p []byte) ([]Event, int) {
	if len(p) == 0 {
		return nil, 0
	}

	if p[0] == 0x1b {
		return decodeEscape(p)
	}

	switch p[0] {
	case '\r', '\n':
		return []Event{KeyEvent{Key: KeyEnter}}, 1
	case '\t':
		return []Event{KeyEvent{Key: KeyTab}}, 1
	case 0x7f, 0x08:
		return []Event{KeyEvent{Key: KeyBackspace}}, 1
	case 0x03:
		return []Event{KeyEvent{Key: KeyCtrlC}}, 1
	}

	r, size := decodeRune(string(p))
	return []Event{KeyEvent{Key: KeyRune, Rune: r}}, size
}

// decodeEscape handles sequences beginning with ESC: CSI keys, SGR mouse
// and alt-modified runes. A bare trailing ESC is consumed as the escape
// key only when nothing follows it.
func decodeEscape(p []byte) ([]Event, int) {
	if len(p) == 1 {
		return []Event{KeyEvent{Key: KeyEscape}}, 1
	}
	if p[1] != '[' {
		evs, n := DefaultDecoder{}.Decode(p[1:])
		for i, ev := range evs {
			if k, ok := ev.(KeyEvent); ok {
				k.Alt = true
				evs[i] = k
			}
		}
		return evs, n + 1
	}

	// CSI: find the final byte
	end := -1
	for i := 2; i < len(p); i++ {
		if p[i] >= 0x40 && p[i] <= 0x7e {
			end = i
			break
		}
	}
	if end < 0 {
		return nil, 0 // incomplete, wait for more bytes
	}
	seq := p[2 : end+1]
	consumed := end + 1

	if seq[0] == '<' {
		if ev, ok := decodeSGRMouse(seq); ok {
			return []Event{ev}, consumed
		}
		return nil, consumed
	}

	var key Key
	switch seq[len(seq)-1] {
	case 'A':
		key = KeyUp
	case 'B':
		key = KeyDown
	case 'C':
		key = KeyRight
	case 'D':
		key = KeyLeft
	case 'H':
		key = KeyHome
	case 'F':
		key = KeyEnd
	case '~':
		switch string(seq[:len(seq)-1]) {
		case "3":
			key = KeyDelete
		case "5":
			key = KeyPgUp
		case "6":
			key = KeyPgDn
		default:
			return nil, consumed
		}
	default:
		return nil, consumed
	}
	return []Event{KeyEvent{Key: key}}, consumed
}

// decodeSGRMouse parses "<b;x;yM" / "<b;x;ym" (final byte included).
func decodeSGRMouse(seq []byte) (Event, bool) {
	final := seq[len(seq)-1]
	if final != 'M' && final != 'm' {
		return nil, false
	}
	params := splitParams(string(seq[1 : len(seq)-1]))
	if len(params) != 3 {
		return nil, false
	}
	b, x, y := params[0], params[1]-1, params[2]-1

	ev := MouseEvent{X: x, Y: y}
	switch {
	case b&64 != 0:
		if b&1 != 0 {
			ev.Button = MouseWheelDown
		} else {
			ev.Button = MouseWheelUp
		}
		ev.Action = MousePress
	default:
		switch b & 3 {
		case 0:
			ev.Button = MouseLeft
		case 1:
			ev.Button = MouseMiddle
		case 2:
			ev.Button = MouseRight
		}
		switch {
		case final == 'm':
			ev.Action = MouseRelease
		case b&32 != 0:
			ev.Action = MouseDrag
		default:
			ev.Action = MousePress
		}
	}
	return ev, true
}
