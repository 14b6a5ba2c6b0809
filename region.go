package pane

// Occlusion culling by iterative rectangle subtraction. Operates purely on
// already-validated rectangles; there are no failure paths.

// VisibleRegions computes the parts of target not covered by any of the
// occluders. The result is a set of pairwise non-overlapping rectangles
// whose total area equals target minus the union of the occluders within
// it. A fully occluded target yields an empty slice; callers treat that as
// "skip rendering", never as an error.
func VisibleRegions(target Rect, occluders []Rect) []Rect {
	if target.IsEmpty() {
		return nil
	}
	visible := []Rect{target}
	for _, occ := range occluders {
		if occ.IsEmpty() {
			continue
		}
		next := visible[:0:0]
		for _, r := range visible {
			if !r.Intersects(occ) {
				next = append(next, r)
				continue
			}
			next = appendSubtract(next, r, occ)
		}
		visible = next
		if len(visible) == 0 {
			return visible
		}
	}
	return visible
}

// appendSubtract appends r minus occ to dst as up to four strips: full-width
// bands above and below the overlap, and left/right strips confined to the
// overlap's rows so the pieces never overlap each other.
func appendSubtract(dst []Rect, r, occ Rect) []Rect {
	ix := r.Intersect(occ)

	if ix.Y > r.Y {
		dst = append(dst, Rect{X: r.X, Y: r.Y, Width: r.Width, Height: ix.Y - r.Y})
	}
	if ix.Bottom() < r.Bottom() {
		dst = append(dst, Rect{X: r.X, Y: ix.Bottom(), Width: r.Width, Height: r.Bottom() - ix.Bottom()})
	}
	if ix.X > r.X {
		dst = append(dst, Rect{X: r.X, Y: ix.Y, Width: ix.X - r.X, Height: ix.Height})
	}
	if ix.Right() < r.Right() {
		dst = append(dst, Rect{X: ix.Right(), Y: ix.Y, Width: r.Right() - ix.Right(), Height: ix.Height})
	}
	return dst
}
