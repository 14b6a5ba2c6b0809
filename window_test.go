package pane

import (
	"strings"
	"testing"
)

func TestWindowRepaintDrawsBorderAndTitle(t *testing.T) {
	w := NewWindow("logs", NewRect(0, 0, 14, 4))
	w.repaint(true, false)
	buf := w.Buffer()

	if buf.Get(0, 0).Rune != BoxTopLeft || buf.Get(13, 3).Rune != BoxBottomRight {
		t.Errorf("border corners missing:\n%s", buf.String())
	}
	if !strings.Contains(strings.Split(buf.String(), "\n")[0], " logs ") {
		t.Errorf("title missing from top border:\n%s", buf.String())
	}
}

func TestWindowBorderStyleFollowsActivation(t *testing.T) {
	w := NewWindow("w", NewRect(0, 0, 8, 3))
	w.repaint(true, false)
	activeStyle := w.Buffer().Get(0, 0).Style

	w.Invalidate()
	w.repaint(false, false)
	inactiveStyle := w.Buffer().Get(0, 0).Style

	if activeStyle.Equal(inactiveStyle) {
		t.Error("active and inactive borders should differ")
	}
}

func TestWindowRepaintSkipsWhenClean(t *testing.T) {
	w := NewWindow("w", NewRect(0, 0, 10, 4))
	w.SetChrome(Chrome{})
	w.SetRoot(fillControl{r: 'x'})
	w.repaint(false, false)
	if w.Dirty() {
		t.Fatal("repaint should clear the dirty flag")
	}
	first := w.Buffer()

	w.repaint(false, false)
	if w.Buffer() != first {
		t.Error("clean window should keep its committed buffer")
	}

	w.repaint(false, true)
	if w.Buffer() == first {
		t.Error("forced repaint should commit a fresh buffer")
	}
}

func TestWindowContentInsideBorder(t *testing.T) {
	w := NewWindow("w", NewRect(0, 0, 12, 5))
	w.SetRoot(NewBox(NewLabel("hi")))
	w.repaint(false, false)
	buf := w.Buffer()

	if buf.Get(1, 1).Rune != 'h' {
		t.Errorf("content should start inside the border:\n%s", buf.String())
	}
}

func TestWindowHitTestInsideBorder(t *testing.T) {
	w := NewWindow("w", NewRect(0, 0, 12, 5))
	label := NewLabel("hi")
	w.SetRoot(NewBox(label))
	w.repaint(false, false)

	got, ok := w.HitTest(1, 1).(*Label)
	if !ok || got != label {
		t.Errorf("HitTest(1,1) = %v, want the label painted there", got)
	}
	if got := w.HitTest(0, 0); got != nil {
		t.Errorf("HitTest(0,0) = %v, want nil on the border", got)
	}
}

func TestWindowSetBoundsResizesBuffer(t *testing.T) {
	w := NewWindow("w", NewRect(0, 0, 10, 4))
	w.SetBounds(NewRect(2, 2, 16, 6))
	w.repaint(false, false)

	if got := w.Buffer().Size(); got != (Size{Width: 16, Height: 6}) {
		t.Errorf("buffer size = %+v after SetBounds", got)
	}
	if !w.Dirty() {
		// repaint already ran; a fresh SetBounds marks dirty again
		w.SetBounds(NewRect(0, 0, 16, 6))
		if !w.Dirty() {
			t.Error("SetBounds should mark the window dirty")
		}
	}
}

func TestWindowHooksRun(t *testing.T) {
	w := NewWindow("w", NewRect(0, 0, 10, 4))
	w.SetChrome(Chrome{})

	var order []string
	w.OnPostClear(func(buf *Buffer, region, clip Rect) {
		order = append(order, "clear")
		buf.Set(0, 0, NewCell('b', DefaultStyle()))
	})
	w.SetRoot(fillControl{r: 'c'})
	w.OnPostPaint(func(buf *Buffer, region, clip Rect) {
		order = append(order, "paint")
	})

	w.repaint(false, false)
	if len(order) != 2 || order[0] != "clear" || order[1] != "paint" {
		t.Errorf("hook order = %v", order)
	}
	if w.Buffer().Get(0, 0).Rune != 'c' {
		t.Error("post-clear hook output should be painted over by controls")
	}
}

func TestWindowVisibility(t *testing.T) {
	w := NewWindow("w", NewRect(0, 0, 10, 4))
	if !w.Visible() {
		t.Fatal("new windows are visible")
	}
	w.Minimize()
	if w.Visible() {
		t.Error("minimized windows do not render")
	}
	w.Restore()
	w.Hide()
	if w.Visible() {
		t.Error("hidden windows do not render")
	}
	w.Show()
	if !w.Visible() {
		t.Error("Show should restore visibility")
	}
}

func TestBorderCacheInvalidation(t *testing.T) {
	w := NewWindow("one", NewRect(0, 0, 12, 4))
	w.repaint(true, false)
	top := w.borderCache.top

	// same inputs: cached rows are reused
	w.Invalidate()
	w.repaint(true, false)
	if &w.borderCache.top[0] != &top[0] {
		t.Error("unchanged border should reuse the cached rows")
	}

	w.SetTitle("two")
	w.repaint(true, false)
	if !strings.Contains(strings.Split(w.Buffer().String(), "\n")[0], " two ") {
		t.Error("title change should re-render the border cache")
	}
}
