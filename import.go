package mifont

import (
	"errors"
	"image"
	"image/color"

	"github.com/bodgit/mifont/clipboard"
	"github.com/ericpauley/go-quantize/quantize"
	"github.com/gogpu/gg"
)

var errEmptyImage = errors.New("mifont: image is empty")

// usedColors returns the palette indices appearing in the sheet plus the
// current drawing color, and the matching colors.
func (e *Editor) usedColors() ([]uint8, color.Palette) {
	b := e.sheet.Buffer
	m := b.Image()

	var seen [256]bool
	seen[e.canvas.Color()] = true
	for _, v := range m.Pix {
		seen[v] = true
	}

	var indices []uint8
	var p color.Palette
	for i, ok := range seen {
		if ok {
			indices = append(indices, uint8(i))
			p = append(p, b.Color(uint8(i)))
		}
	}
	return indices, p
}

// ImportGlyph replaces the glyph for code with m, scaled to fit the cell.
// The image is first reduced to as many colors as the sheet uses, then each
// color is mapped to the nearest of them, so the palette is never extended.
// The import is a single undo entry.
func (e *Editor) ImportGlyph(code int, m image.Image) error {
	if e.sheet == nil {
		return errNoSheet
	}

	r, err := e.sheet.Layout.Region(code)
	if err != nil {
		return err
	}

	src := m.Bounds()
	if src.Empty() {
		return errEmptyImage
	}

	indices, used := e.usedColors()

	q := quantize.MedianCutQuantizer{}
	reduced := q.Quantize(make(color.Palette, 0, len(used)), m)

	if len(reduced) == 0 {
		return errEmptyImage
	}

	lookup := make([]uint8, len(reduced))
	for i, c := range reduced {
		lookup[i] = indices[used.Index(c)]
	}

	clip := &clipboard.Clip{
		Width:  r.Dx(),
		Height: r.Dy(),
		Pix:    make([]uint8, r.Dx()*r.Dy()),
	}
	for y := 0; y < clip.Height; y++ {
		for x := 0; x < clip.Width; x++ {
			sx := src.Min.X + x*src.Dx()/clip.Width
			sy := src.Min.Y + y*src.Dy()/clip.Height
			clip.Pix[y*clip.Width+x] = lookup[reduced.Index(m.At(sx, sy))]
		}
	}

	if err := e.canvas.Stamp(r.Min, clip); err != nil {
		return err
	}

	e.logger.Printf("Imported glyph %d from %dx%d image using %d colors\n", code, src.Dx(), src.Dy(), len(reduced))

	return nil
}

// ExportGlyph draws the glyph for code, each pixel scaled up to a zoom by
// zoom square. The caller should Close the returned context.
func (e *Editor) ExportGlyph(code, zoom int) (*gg.Context, error) {
	if e.sheet == nil {
		return nil, errNoSheet
	}
	if zoom < 1 {
		zoom = 1
	}

	r, err := e.sheet.Layout.Region(code)
	if err != nil {
		return nil, err
	}

	b := e.sheet.Buffer
	size := r.Size().Mul(zoom)
	dc := gg.NewContext(size.X, size.Y)
	z := float64(zoom)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			v, _ := b.Pixel(x, y)
			p := image.Pt(x, y).Sub(r.Min).Mul(zoom)
			dc.SetColor(b.Color(v))
			dc.DrawRectangle(float64(p.X), float64(p.Y), z, z)
			if err := dc.Fill(); err != nil {
				dc.Close()
				return nil, err
			}
		}
	}
	return dc, nil
}
