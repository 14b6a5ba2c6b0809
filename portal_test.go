package pane

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// popup is a minimal PortalContent for tests.
type popup struct {
	bounds  Rect
	r       rune
	dismiss bool
}

func (p *popup) Bounds() Rect { return p.bounds }

func (p *popup) Paint(buf *Buffer, bounds, clip Rect) {
	buf.FillRect(bounds.Intersect(clip), NewCell(p.r, DefaultStyle()))
}

func (p *popup) HitTest(x, y int) bool { return p.bounds.Contains(x, y) }

func (p *popup) DismissOnOutsideClick() bool { return p.dismiss }

func TestPositionPortal(t *testing.T) {
	screen := NewRect(0, 0, 80, 24)
	size := Size{Width: 8, Height: 4}

	t.Run("below when room", func(t *testing.T) {
		anchor := NewRect(10, 5, 8, 1)
		got := PositionPortal(anchor, size, PlaceBelow, screen)
		assert.Equal(t, NewRect(10, 6, 8, 4), got)
	})

	t.Run("flips above when bottom overflows", func(t *testing.T) {
		anchor := NewRect(10, 21, 8, 1) // 2 rows left below
		got := PositionPortal(anchor, size, PlaceBelow, screen)
		assert.Equal(t, NewRect(10, 17, 8, 4), got, "portal should open above the anchor")
	})

	t.Run("above flips below at top edge", func(t *testing.T) {
		anchor := NewRect(10, 1, 8, 1)
		got := PositionPortal(anchor, size, PlaceAbove, screen)
		assert.Equal(t, NewRect(10, 2, 8, 4), got)
	})

	t.Run("right when room", func(t *testing.T) {
		anchor := NewRect(10, 5, 8, 1)
		got := PositionPortal(anchor, size, PlaceRight, screen)
		assert.Equal(t, NewRect(18, 5, 8, 4), got)
	})

	t.Run("right flips left at the edge", func(t *testing.T) {
		anchor := NewRect(75, 5, 4, 1)
		got := PositionPortal(anchor, size, PlaceRight, screen)
		assert.Equal(t, NewRect(67, 5, 8, 4), got, "portal should open left of the anchor")
	})

	t.Run("left flips right at the edge", func(t *testing.T) {
		anchor := NewRect(2, 5, 4, 1)
		got := PositionPortal(anchor, size, PlaceLeft, screen)
		assert.Equal(t, NewRect(6, 5, 8, 4), got)
	})

	t.Run("clamped at right edge", func(t *testing.T) {
		anchor := NewRect(78, 5, 2, 1)
		got := PositionPortal(anchor, size, PlaceBelow, screen)
		assert.Equal(t, 72, got.X, "portal should shift left inside the screen")
	})

	t.Run("clamped when neither side fits", func(t *testing.T) {
		tall := Size{Width: 8, Height: 30}
		got := PositionPortal(NewRect(10, 5, 8, 1), tall, PlaceBelow, screen)
		assert.Equal(t, 0, got.Y, "oversize portal pins to the top edge")
	})
}

func TestPortalPaintsAfterContent(t *testing.T) {
	w := NewWindow("w", NewRect(0, 0, 10, 5))
	w.SetChrome(Chrome{})
	w.SetRoot(fillControl{r: 'c'})
	w.OpenPortal(&popup{bounds: NewRect(2, 1, 4, 2), r: 'p'}, nil)

	w.repaint(false, true)
	buf := w.Buffer()
	assert.Equal(t, 'p', buf.Get(3, 1).Rune, "portal paints over normal content")
	assert.Equal(t, 'c', buf.Get(0, 0).Rune)
}

func TestPortalHitTestBeforeContent(t *testing.T) {
	w := NewWindow("w", NewRect(0, 0, 10, 5))
	w.SetChrome(Chrome{})
	w.SetRoot(fillControl{r: 'c'})
	p1 := &popup{bounds: NewRect(1, 1, 4, 2), r: '1'}
	p2 := &popup{bounds: NewRect(3, 1, 4, 2), r: '2'}
	w.OpenPortal(p1, nil)
	w.OpenPortal(p2, nil)
	w.repaint(false, true)

	assert.Same(t, p2, w.HitTest(4, 1).(*popup), "most recent portal wins the overlap")
	assert.Same(t, p1, w.HitTest(1, 1).(*popup))
	_, isPopup := w.HitTest(8, 4).(*popup)
	assert.False(t, isPopup, "points outside every portal fall through to the tree")
}

func TestPortalOutsideClickDismissal(t *testing.T) {
	w := NewWindow("w", NewRect(0, 0, 20, 10))
	w.SetChrome(Chrome{})

	fired := 0
	p := w.OpenPortal(&popup{bounds: NewRect(2, 2, 5, 3), dismiss: true},
		func() { fired++ })

	// click inside: portal stays
	w.handleOutsideClick(3, 3)
	assert.Len(t, w.Portals(), 1)
	assert.Zero(t, fired)

	// click outside: dismissed, notification fires once
	w.handleOutsideClick(15, 8)
	assert.Empty(t, w.Portals())
	assert.Equal(t, 1, fired)

	// repeated dismissal never re-fires
	p.Dismiss()
	w.handleOutsideClick(15, 8)
	assert.Equal(t, 1, fired)
}

func TestPortalDeactivationDismissesOnce(t *testing.T) {
	w := NewWindow("w", NewRect(0, 0, 20, 10))
	fired := 0
	w.OpenPortal(&popup{bounds: NewRect(2, 2, 5, 3), dismiss: true},
		func() { fired++ })

	w.deactivated()
	require.Empty(t, w.Portals())
	require.Equal(t, 1, fired)

	w.deactivated()
	assert.Equal(t, 1, fired, "notification must fire exactly once")
}

func TestPortalWithoutAutoDismissSurvives(t *testing.T) {
	w := NewWindow("w", NewRect(0, 0, 20, 10))
	w.OpenPortal(&popup{bounds: NewRect(2, 2, 5, 3)}, nil)

	w.handleOutsideClick(15, 8)
	w.deactivated()
	assert.Len(t, w.Portals(), 1, "non-dismissing portals ignore clicks and focus loss")
}

func TestClosePortalSkipsNotification(t *testing.T) {
	w := NewWindow("w", NewRect(0, 0, 20, 10))
	fired := 0
	p := w.OpenPortal(&popup{bounds: NewRect(2, 2, 5, 3)}, func() { fired++ })

	w.ClosePortal(p)
	assert.Empty(t, w.Portals())
	assert.Zero(t, fired, "ClosePortal removes without firing the dismissal hook")
}
