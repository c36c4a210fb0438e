/*
Package raster implements the indexed pixel buffer edited by mifont.

A Buffer is a fixed size grid of palette indices paired with a palette of
exactly 256 colors. The palette never changes once the buffer is created;
loading a different sheet creates a new buffer.
*/
package raster

import (
	"bytes"
	"errors"
	"image"
	"image/color"
)

// PaletteSize is the number of entries every palette must have.
const PaletteSize = 256

var (
	// ErrOutOfBounds is returned when a coordinate lies outside the buffer.
	ErrOutOfBounds = errors.New("raster: coordinate out of bounds")
	// ErrInvalidIndex is returned for a palette index outside 0-255.
	ErrInvalidIndex = errors.New("raster: invalid palette index")
	// ErrPaletteSize is returned when the palette is not 256 colors.
	ErrPaletteSize = errors.New("raster: palette must have 256 colors")
	// ErrSnapshotSize is returned when restoring a snapshot taken from a
	// buffer of a different size.
	ErrSnapshotSize = errors.New("raster: snapshot size mismatch")
)

// Buffer is a grid of palette indices.
type Buffer struct {
	m *image.Paletted
}

// New wraps m, which must carry a 256 color palette. The buffer shares m's
// pixels so edits are visible to whoever encodes m later.
func New(m *image.Paletted) (*Buffer, error) {
	if len(m.Palette) != PaletteSize {
		return nil, ErrPaletteSize
	}
	if m.Rect.Min != (image.Point{}) {
		dup := *m
		dup.Rect = dup.Rect.Sub(dup.Rect.Min)
		m = &dup
	}
	return &Buffer{m: m}, nil
}

func (b *Buffer) Width() int { return b.m.Rect.Dx() }

func (b *Buffer) Height() int { return b.m.Rect.Dy() }

func (b *Buffer) Bounds() image.Rectangle { return b.m.Rect }

// Palette returns a copy of the palette.
func (b *Buffer) Palette() color.Palette {
	return append(color.Palette(nil), b.m.Palette...)
}

// Color returns the palette color for index i.
func (b *Buffer) Color(i uint8) color.Color {
	return b.m.Palette[i]
}

// Image exposes the underlying image for rendering. Callers must not modify
// it directly.
func (b *Buffer) Image() *image.Paletted { return b.m }

// Pixel returns the palette index at (x, y).
func (b *Buffer) Pixel(x, y int) (uint8, error) {
	if !(image.Point{x, y}.In(b.m.Rect)) {
		return 0, ErrOutOfBounds
	}
	return b.m.ColorIndexAt(x, y), nil
}

// SetPixel sets the palette index at (x, y).
func (b *Buffer) SetPixel(x, y, index int) error {
	if !(image.Point{x, y}.In(b.m.Rect)) {
		return ErrOutOfBounds
	}
	if index < 0 || index >= PaletteSize {
		return ErrInvalidIndex
	}
	b.m.SetColorIndex(x, y, uint8(index))
	return nil
}

// Region returns a row-major copy of the indices inside r, which is clipped
// to the buffer.
func (b *Buffer) Region(r image.Rectangle) []uint8 {
	r = r.Intersect(b.m.Rect)
	pix := make([]uint8, 0, r.Dx()*r.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := b.m.PixOffset(r.Min.X, y)
		pix = append(pix, b.m.Pix[i:i+r.Dx()]...)
	}
	return pix
}

// Blit writes a w by h block of indices with its top-left corner at dst.
// Pixels falling outside the buffer are dropped. It reports whether any
// pixel changed.
func (b *Buffer) Blit(dst image.Point, w, h int, pix []uint8) bool {
	changed := false
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := dst.Add(image.Pt(x, y))
			if !p.In(b.m.Rect) || y*w+x >= len(pix) {
				continue
			}
			i := b.m.PixOffset(p.X, p.Y)
			if b.m.Pix[i] != pix[y*w+x] {
				b.m.Pix[i] = pix[y*w+x]
				changed = true
			}
		}
	}
	return changed
}

// Snapshot is an independent copy of a buffer's pixels.
type Snapshot struct {
	Width, Height int
	Pix           []uint8
}

// Snapshot copies the current pixels.
func (b *Buffer) Snapshot() Snapshot {
	return Snapshot{
		Width:  b.Width(),
		Height: b.Height(),
		Pix:    b.Region(b.m.Rect),
	}
}

// Restore replaces the pixels with those in s.
func (b *Buffer) Restore(s Snapshot) error {
	if s.Width != b.Width() || s.Height != b.Height() || len(s.Pix) != s.Width*s.Height {
		return ErrSnapshotSize
	}
	b.Blit(image.Point{}, s.Width, s.Height, s.Pix)
	return nil
}

// Equal reports whether the buffer holds exactly the pixels in s.
func (b *Buffer) Equal(s Snapshot) bool {
	return s.Width == b.Width() && s.Height == b.Height() && bytes.Equal(b.Region(b.m.Rect), s.Pix)
}
