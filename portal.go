package pane

import "sync"

// Portals let a control paint outside its layout bounds: dropdown menus,
// completion popups, tooltips. A portal belongs to a window's overlay
// layer, paints after the entire normal tree, and is hit-tested before it.

// Placement selects where a portal prefers to open relative to its anchor.
type Placement uint8

const (
	// PlaceBelow opens under the anchor, flipping above when the portal
	// would overflow the bottom edge.
	PlaceBelow Placement = iota

	// PlaceAbove opens over the anchor, flipping below when the portal
	// would overflow the top edge.
	PlaceAbove

	// PlaceRight opens beside the anchor's right edge, flipping left when
	// the portal would overflow the right edge.
	PlaceRight

	// PlaceLeft opens beside the anchor's left edge, flipping right when
	// the portal would overflow the left edge.
	PlaceLeft
)

// PositionPortal computes the rectangle for a portal of the given size
// anchored to anchor, inside container (all in the same coordinate
// space). The preferred side flips when the portal would not fit there
// but fits on the other side; either way the result is clamped inside
// container.
func PositionPortal(anchor Rect, size Size, place Placement, container Rect) Rect {
	below := anchor.Bottom()
	above := anchor.Y - size.Height
	right := anchor.Right()
	left := anchor.X - size.Width

	x, y := anchor.X, below
	switch place {
	case PlaceBelow:
		if below+size.Height > container.Bottom() && above >= container.Y {
			y = above
		}
	case PlaceAbove:
		y = above
		if above < container.Y && below+size.Height <= container.Bottom() {
			y = below
		}
	case PlaceRight:
		x, y = right, anchor.Y
		if right+size.Width > container.Right() && left >= container.X {
			x = left
		}
	case PlaceLeft:
		x, y = left, anchor.Y
		if left < container.X && right+size.Width <= container.Right() {
			x = right
		}
	}

	r := NewRect(x, y, size.Width, size.Height)

	// Clamp inside the container; size wins over position.
	if r.Right() > container.Right() {
		r.X = container.Right() - r.Width
	}
	if r.X < container.X {
		r.X = container.X
	}
	if r.Bottom() > container.Bottom() {
		r.Y = container.Bottom() - r.Height
	}
	if r.Y < container.Y {
		r.Y = container.Y
	}
	return r
}

// Portal is the handle returned when content is attached to a window's
// overlay layer.
type Portal struct {
	content   PortalContent
	owner     *Window
	onDismiss func()
	dismissed sync.Once
}

// Content returns the attached portal content.
func (p *Portal) Content() PortalContent {
	return p.content
}

// Dismiss removes the portal from its window and fires the dismissal
// notification. Safe to call more than once; the notification fires at
// most once.
func (p *Portal) Dismiss() {
	p.dismiss()
	if p.owner != nil {
		p.owner.ClosePortal(p)
	}
}

// dismiss fires the notification without detaching from the window.
// The owner removes the portal from its list separately.
func (p *Portal) dismiss() {
	p.dismissed.Do(func() {
		if p.onDismiss != nil {
			p.onDismiss()
		}
	})
}

// portalList keeps a window's open portals in creation order. Guarded by
// the owning window's lock.
type portalList struct {
	items []*Portal
}

func (pl *portalList) open(owner *Window, content PortalContent, onDismiss func()) *Portal {
	p := &Portal{content: content, owner: owner, onDismiss: onDismiss}
	pl.items = append(pl.items, p)
	return p
}

func (pl *portalList) remove(p *Portal) {
	for i, q := range pl.items {
		if q == p {
			pl.items = append(pl.items[:i], pl.items[i+1:]...)
			return
		}
	}
}

func (pl *portalList) snapshot() []*Portal {
	if len(pl.items) == 0 {
		return nil
	}
	out := make([]*Portal, len(pl.items))
	copy(out, pl.items)
	return out
}
