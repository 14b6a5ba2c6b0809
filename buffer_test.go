package pane

import (
	"strings"
	"testing"
)

func TestBufferSetGet(t *testing.T) {
	b := NewBuffer(10, 5)
	c := NewCell('x', DefaultStyle().Bold())
	b.Set(3, 2, c)

	if got := b.Get(3, 2); got != c {
		t.Errorf("Get = %+v, want %+v", got, c)
	}
	if !b.CellDirty(3, 2) || !b.RowDirty(2) {
		t.Error("write should mark cell and row dirty")
	}
	if b.RowDirty(1) {
		t.Error("untouched row should stay clean")
	}
}

func TestBufferOutOfBoundsIgnored(t *testing.T) {
	b := NewBuffer(4, 4)
	for _, pt := range [][2]int{{-1, 0}, {0, -1}, {4, 0}, {0, 4}, {100, 100}} {
		b.Set(pt[0], pt[1], NewCell('x', DefaultStyle()))
	}
	for y := 0; y < 4; y++ {
		if b.RowDirty(y) {
			t.Fatalf("out-of-bounds write dirtied row %d", y)
		}
	}
	if got := b.Get(-1, -1); got != EmptyCell() {
		t.Errorf("out-of-bounds Get = %+v, want empty", got)
	}
}

func TestBufferUnchangedWriteStaysClean(t *testing.T) {
	b := NewBuffer(4, 4)
	c := NewCell('a', DefaultStyle())
	b.Set(1, 1, c)
	b.ClearDirty()

	b.Set(1, 1, c)
	if b.CellDirty(1, 1) || b.RowDirty(1) {
		t.Error("writing an identical cell must not mark dirty")
	}
}

func TestBufferWriteStringWide(t *testing.T) {
	b := NewBuffer(10, 1)
	n := b.WriteString(0, 0, "a世b", DefaultStyle())
	if n != 4 {
		t.Fatalf("columns written = %d, want 4", n)
	}
	if b.Get(0, 0).Rune != 'a' || b.Get(1, 0).Rune != '世' || b.Get(3, 0).Rune != 'b' {
		t.Errorf("unexpected row content %q", b.String())
	}
	if b.Get(2, 0).Rune != 0 {
		t.Error("trailing column of a wide rune should hold a placeholder")
	}
}

func TestBufferWriteStringClipped(t *testing.T) {
	b := NewBuffer(10, 1)
	n := b.WriteStringClipped(0, 0, "hello world", DefaultStyle(), 5)
	if n != 5 {
		t.Fatalf("columns written = %d, want 5", n)
	}
	if got := strings.TrimRight(b.String(), " "); got != "hello" {
		t.Errorf("content = %q, want %q", got, "hello")
	}

	// a wide rune that doesn't fit is dropped entirely
	b2 := NewBuffer(10, 1)
	n = b2.WriteStringClipped(0, 0, "ab世", DefaultStyle(), 3)
	if n != 2 {
		t.Errorf("wide rune straddling the limit should not be written, wrote %d cols", n)
	}
}

func TestBufferWriteStringRegion(t *testing.T) {
	b := NewBuffer(10, 2)
	region := NewRect(2, 0, 4, 1) // columns [2,6) of row 0

	b.WriteStringRegion(0, 0, "a世bcd", DefaultStyle(), region)
	if got := b.Get(0, 0); got != EmptyCell() {
		t.Errorf("cell left of the region written: %+v", got)
	}
	// 世 occupies columns 1-2, straddling the region's left edge: dropped
	if got := b.Get(2, 0); got != EmptyCell() {
		t.Errorf("straddling wide rune should be dropped whole, got %+v", got)
	}
	for i, want := range []rune{'b', 'c', 'd'} {
		if got := b.Get(3+i, 0).Rune; got != want {
			t.Errorf("cell (%d,0) = %q, want %q", 3+i, got, want)
		}
	}

	if n := b.WriteStringRegion(0, 1, "x", DefaultStyle(), region); n != 0 {
		t.Errorf("row outside the region wrote %d columns", n)
	}
}

func TestBufferFillRect(t *testing.T) {
	b := NewBuffer(6, 4)
	b.FillRect(NewRect(1, 1, 3, 2), NewCell('#', DefaultStyle()))
	want := "" +
		"      \n" +
		" ###  \n" +
		" ###  \n" +
		"      "
	if got := b.String(); got != want {
		t.Errorf("buffer:\n%s\nwant:\n%s", got, want)
	}
}

func TestBufferResize(t *testing.T) {
	b := NewBuffer(4, 2)
	b.Set(0, 0, NewCell('x', DefaultStyle()))
	b.Resize(6, 3)

	if b.Width() != 6 || b.Height() != 3 {
		t.Fatalf("size = %dx%d, want 6x3", b.Width(), b.Height())
	}
	if b.Get(0, 0) != EmptyCell() {
		t.Error("resize should discard content")
	}
	if !b.RowDirty(0) || !b.RowDirty(2) {
		t.Error("resize should mark every row dirty")
	}
}

func TestBorderMerging(t *testing.T) {
	b := NewBuffer(10, 10)
	style := DefaultStyle()
	b.DrawBorder(NewRect(0, 0, 5, 5), BorderSingle, style)
	b.DrawBorder(NewRect(4, 0, 5, 5), BorderSingle, style)

	if got := b.Get(4, 0).Rune; got != BoxTeeDown {
		t.Errorf("top junction = %q, want %q", got, BoxTeeDown)
	}
	if got := b.Get(4, 4).Rune; got != BoxTeeUp {
		t.Errorf("bottom junction = %q, want %q", got, BoxTeeUp)
	}
}

func TestDrawBorderStyles(t *testing.T) {
	for _, tc := range []struct {
		name   string
		border BorderStyle
		corner rune
	}{
		{"single", BorderSingle, BoxTopLeft},
		{"rounded", BorderRounded, BoxRoundedTopLeft},
		{"double", BorderDouble, BoxDoubleTopLeft},
	} {
		t.Run(tc.name, func(t *testing.T) {
			b := NewBuffer(4, 4)
			b.DrawBorder(b.Bounds(), tc.border, DefaultStyle())
			if got := b.Get(0, 0).Rune; got != tc.corner {
				t.Errorf("corner = %q, want %q", got, tc.corner)
			}
		})
	}
}
