package pane

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// Serialization of cell rows to ANSI escape-coded strings, and the exact
// inverse parse. A row is emitted left to right with a style sequence only
// when a cell's style differs from the one currently active (color-run
// compression). No trailing reset is emitted: a stray reset would
// desynchronize the screen compositor's diffing when the line is parsed
// back in.
//
// Cells with Rune 0 are placeholders for the trailing columns of a wide
// character and emit nothing; the parser recreates them so the round trip
// is exact.

// Line serializes a full row of the buffer, trimming trailing empty
// cells. LineRange does not trim: the screen compositor relies on every
// column of a range being emitted so stale content is overwritten.
func (b *Buffer) Line(y int) string {
	if y < 0 || y >= b.height {
		return ""
	}
	end := b.width
	empty := EmptyCell()
	for end > 0 && b.cells[b.index(end-1, y)] == empty {
		end--
	}
	return b.LineRange(y, 0, end)
}

// LineRange serializes the columns [x0, x1) of a row. The active style
// starts at DefaultStyle regardless of what precedes x0, so a range can be
// parsed back in isolation.
func (b *Buffer) LineRange(y, x0, x1 int) string {
	if y < 0 || y >= b.height {
		return ""
	}
	x0 = max(x0, 0)
	x1 = min(x1, b.width)

	var out bytes.Buffer
	row := b.cells[b.index(0, y) : b.index(0, y)+b.width]
	appendCellRun(&out, row[x0:x1])
	return out.String()
}

// appendCellRun serializes a run of cells with color-run compression,
// starting from the default style.
func appendCellRun(out *bytes.Buffer, cells []Cell) {
	current := DefaultStyle()
	for _, c := range cells {
		if c.Rune == 0 {
			continue
		}
		if !c.Style.Equal(current) {
			writeStyleSeq(out, c.Style)
			current = c.Style
		}
		out.WriteRune(c.Rune)
	}
}

// Lines serializes every row of the buffer, one string per row.
func (b *Buffer) Lines() []string {
	lines := make([]string, b.height)
	for y := 0; y < b.height; y++ {
		lines[y] = b.Line(y)
	}
	return lines
}

// writeStyleSeq emits a full SGR sequence for the style: a reset followed
// by attributes, foreground and background. Always emitting the complete
// state keeps the parser stateless across sequences.
func writeStyleSeq(out *bytes.Buffer, style Style) {
	out.WriteString("\x1b[0")

	if style.Attr.Has(AttrBold) {
		out.WriteString(";1")
	}
	if style.Attr.Has(AttrDim) {
		out.WriteString(";2")
	}
	if style.Attr.Has(AttrItalic) {
		out.WriteString(";3")
	}
	if style.Attr.Has(AttrUnderline) {
		out.WriteString(";4")
	}
	if style.Attr.Has(AttrBlink) {
		out.WriteString(";5")
	}
	if style.Attr.Has(AttrInverse) {
		out.WriteString(";7")
	}
	if style.Attr.Has(AttrStrikethrough) {
		out.WriteString(";9")
	}

	writeColorSeq(out, style.FG, true)
	writeColorSeq(out, style.BG, false)
	out.WriteByte('m')
}

// writeColorSeq emits the SGR parameters for one color.
func writeColorSeq(out *bytes.Buffer, c Color, fg bool) {
	switch c.Mode {
	case ColorDefault:
		if fg {
			out.WriteString(";39")
		} else {
			out.WriteString(";49")
		}
	case Color16:
		base := 30
		if !fg {
			base = 40
		}
		out.WriteByte(';')
		if c.Index >= 8 {
			writeInt(out, base+60+int(c.Index-8))
		} else {
			writeInt(out, base+int(c.Index))
		}
	case Color256:
		if fg {
			out.WriteString(";38;5;")
		} else {
			out.WriteString(";48;5;")
		}
		writeInt(out, int(c.Index))
	case ColorRGB:
		if fg {
			out.WriteString(";38;2;")
		} else {
			out.WriteString(";48;2;")
		}
		writeInt(out, int(c.R))
		out.WriteByte(';')
		writeInt(out, int(c.G))
		out.WriteByte(';')
		writeInt(out, int(c.B))
	}
}

// writeInt writes an integer without allocation.
func writeInt(out *bytes.Buffer, n int) {
	if n == 0 {
		out.WriteByte('0')
		return
	}
	if n < 0 {
		out.WriteByte('-')
		n = -n
	}
	var scratch [10]byte
	i := len(scratch)
	for n > 0 {
		i--
		scratch[i] = byte('0' + n%10)
		n /= 10
	}
	out.Write(scratch[i:])
}

// ParseLine parses an escape-coded line back into cells. For any line
// produced by Line/LineRange this is the exact inverse: wide characters
// regain their Rune-0 placeholder cells.
func ParseLine(line string) []Cell {
	var cells []Cell
	ParseLineFunc(line, func(c Cell) {
		cells = append(cells, c)
	})
	return cells
}

// ParseLineFunc parses an escape-coded line, invoking emit once per cell
// in column order. Unknown SGR parameters are skipped; non-SGR escape
// sequences are dropped.
func ParseLineFunc(line string, emit func(Cell)) {
	style := DefaultStyle()
	for i := 0; i < len(line); {
		if line[i] == '\x1b' {
			seq, rest := scanEscape(line[i:])
			if strings.HasSuffix(seq, "m") && strings.HasPrefix(seq, "\x1b[") {
				style = applySGR(style, seq[2:len(seq)-1])
			}
			i = len(line) - len(rest)
			continue
		}
		r, size := decodeRune(line[i:])
		emit(Cell{Rune: r, Style: style})
		w := runewidth.RuneWidth(r)
		for k := 1; k < w; k++ {
			emit(Cell{Rune: 0, Style: style})
		}
		i += size
	}
}

// scanEscape returns the escape sequence at the start of s and the
// remainder. CSI sequences end at the first byte in 0x40-0x7E; anything
// else is treated as a two-byte sequence.
func scanEscape(s string) (seq, rest string) {
	if len(s) < 2 {
		return s, ""
	}
	if s[1] != '[' {
		return s[:2], s[2:]
	}
	for i := 2; i < len(s); i++ {
		if s[i] >= 0x40 && s[i] <= 0x7E {
			return s[:i+1], s[i+1:]
		}
	}
	return s, ""
}

// decodeRune decodes a single UTF-8 rune from s.
func decodeRune(s string) (rune, int) {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size <= 1 {
		return ' ', 1
	}
	return r, size
}

// applySGR applies the semicolon-separated SGR parameters to a style.
func applySGR(style Style, params string) Style {
	fields := splitParams(params)
	for i := 0; i < len(fields); i++ {
		switch p := fields[i]; p {
		case 0:
			style = DefaultStyle()
		case 1:
			style.Attr = style.Attr.With(AttrBold)
		case 2:
			style.Attr = style.Attr.With(AttrDim)
		case 3:
			style.Attr = style.Attr.With(AttrItalic)
		case 4:
			style.Attr = style.Attr.With(AttrUnderline)
		case 5:
			style.Attr = style.Attr.With(AttrBlink)
		case 7:
			style.Attr = style.Attr.With(AttrInverse)
		case 9:
			style.Attr = style.Attr.With(AttrStrikethrough)
		case 39:
			style.FG = DefaultColor()
		case 49:
			style.BG = DefaultColor()
		case 38, 48:
			color, consumed := parseExtendedColor(fields[i+1:])
			if consumed == 0 {
				return style
			}
			if p == 38 {
				style.FG = color
			} else {
				style.BG = color
			}
			i += consumed
		default:
			switch {
			case p >= 30 && p <= 37:
				style.FG = BasicColor(uint8(p - 30))
			case p >= 40 && p <= 47:
				style.BG = BasicColor(uint8(p - 40))
			case p >= 90 && p <= 97:
				style.FG = BasicColor(uint8(p - 90 + 8))
			case p >= 100 && p <= 107:
				style.BG = BasicColor(uint8(p - 100 + 8))
			}
		}
	}
	return style
}

// parseExtendedColor parses the tail of a 38/48 parameter sequence.
// Returns the color and the number of parameters consumed (0 on malformed
// input).
func parseExtendedColor(fields []int) (Color, int) {
	if len(fields) == 0 {
		return Color{}, 0
	}
	switch fields[0] {
	case 5:
		if len(fields) < 2 {
			return Color{}, 0
		}
		return PaletteColor(uint8(fields[1])), 2
	case 2:
		if len(fields) < 4 {
			return Color{}, 0
		}
		return RGB(uint8(fields[1]), uint8(fields[2]), uint8(fields[3])), 4
	}
	return Color{}, 0
}

// splitParams parses "0;38;5;120" into ints. Empty params count as 0.
func splitParams(s string) []int {
	if s == "" {
		return []int{0}
	}
	out := make([]int, 0, 8)
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == ';' {
			out = append(out, n)
			n = 0
			continue
		}
		if s[i] >= '0' && s[i] <= '9' {
			n = n*10 + int(s[i]-'0')
		}
	}
	return append(out, n)
}
