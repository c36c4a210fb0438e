/*
Package clipboard implements rectangular selections, detached copies of
raster content and the movable preview used while pasting.
*/
package clipboard

import (
	"errors"
	"image"

	"github.com/bodgit/mifont/raster"
)

// ErrEmptySelection is returned when copying without an active selection.
var ErrEmptySelection = errors.New("clipboard: nothing selected")

func clamp(v, min, max int) int {
	switch {
	case v < min:
		return min
	case v > max:
		return max
	}
	return v
}

func clampPoint(p image.Point, r image.Rectangle) image.Point {
	return image.Pt(clamp(p.X, r.Min.X, r.Max.X-1), clamp(p.Y, r.Min.Y, r.Max.Y-1))
}

// Selection is a rectangle dragged out between an anchor and a cursor. Both
// corners are included.
type Selection struct {
	bounds         image.Rectangle
	anchor, cursor image.Point
	active         bool
}

// NewSelection returns an empty selection limited to bounds.
func NewSelection(bounds image.Rectangle) *Selection {
	return &Selection{bounds: bounds}
}

// Start begins a new selection at p.
func (s *Selection) Start(p image.Point) {
	s.anchor = clampPoint(p, s.bounds)
	s.cursor = s.anchor
	s.active = true
}

// Update moves the corner opposite the anchor to p.
func (s *Selection) Update(p image.Point) {
	if !s.active {
		return
	}
	s.cursor = clampPoint(p, s.bounds)
}

// Clear removes the selection.
func (s *Selection) Clear() {
	s.active = false
}

func (s *Selection) Active() bool { return s.active }

// Rect returns the selected rectangle.
func (s *Selection) Rect() (image.Rectangle, bool) {
	if !s.active {
		return image.Rectangle{}, false
	}
	r := image.Rectangle{s.anchor, s.cursor}.Canon()
	r.Max = r.Max.Add(image.Pt(1, 1))
	return r, true
}

// Clip is a detached block of palette indices.
type Clip struct {
	Width, Height int
	Pix           []uint8
}

// Copy copies the selected part of b.
func Copy(b *raster.Buffer, s *Selection) (*Clip, error) {
	r, ok := s.Rect()
	if !ok {
		return nil, ErrEmptySelection
	}
	r = r.Intersect(b.Bounds())
	if r.Empty() {
		return nil, ErrEmptySelection
	}
	return &Clip{
		Width:  r.Dx(),
		Height: r.Dy(),
		Pix:    b.Region(r),
	}, nil
}

// Preview is a clip floating over a buffer, not yet written into it.
type Preview struct {
	clip   *Clip
	bounds image.Rectangle
	at     image.Point
}

// NewPreview places c at p within bounds.
func NewPreview(c *Clip, p image.Point, bounds image.Rectangle) *Preview {
	pv := &Preview{clip: c, bounds: bounds}
	pv.MoveTo(p)
	return pv
}

// MoveTo moves the top-left corner of the preview to p. The preview is kept
// inside the bounds where it fits and its corner never leaves them.
func (pv *Preview) MoveTo(p image.Point) {
	max := pv.bounds.Max.Sub(image.Pt(pv.clip.Width, pv.clip.Height))
	if max.X < pv.bounds.Min.X {
		max.X = pv.bounds.Max.X - 1
	}
	if max.Y < pv.bounds.Min.Y {
		max.Y = pv.bounds.Max.Y - 1
	}
	pv.at = image.Pt(clamp(p.X, pv.bounds.Min.X, max.X), clamp(p.Y, pv.bounds.Min.Y, max.Y))
}

// Move shifts the preview by (dx, dy).
func (pv *Preview) Move(dx, dy int) {
	pv.MoveTo(pv.at.Add(image.Pt(dx, dy)))
}

func (pv *Preview) At() image.Point { return pv.at }

func (pv *Preview) Clip() *Clip { return pv.clip }

// Rect returns the area the preview covers, which may extend past the
// bounds.
func (pv *Preview) Rect() image.Rectangle {
	return image.Rectangle{pv.at, pv.at.Add(image.Pt(pv.clip.Width, pv.clip.Height))}
}

// IndexAt returns the clip index covering buffer point p.
func (pv *Preview) IndexAt(p image.Point) (uint8, bool) {
	if !p.In(pv.Rect()) {
		return 0, false
	}
	d := p.Sub(pv.at)
	return pv.clip.Pix[d.Y*pv.clip.Width+d.X], true
}

// Commit writes the clip into b at the preview position and reports whether
// anything changed.
func (pv *Preview) Commit(b *raster.Buffer) bool {
	return b.Blit(pv.at, pv.clip.Width, pv.clip.Height, pv.clip.Pix)
}
