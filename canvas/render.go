package canvas

import (
	"image"
	"image/color"

	"github.com/gogpu/gg"
)

// Overlay colors
var (
	GridColor      = gg.RGBA2(0.4, 0.4, 0.4, 0.4)
	GlyphColor     = gg.RGBA2(0, 1, 0, 0.3)
	ActiveColor    = gg.RGBA2(1, 0, 0, 0.6)
	SelectionColor = gg.RGB(1, 1, 0)
	PreviewColor   = gg.RGB(0, 1, 0)
)

// previewAlpha is the opacity of the paste preview.
const previewAlpha = 0.7

// Cell describes what is shown at one buffer pixel.
type Cell struct {
	Index    uint8
	Color    color.Color
	Preview  bool // Index comes from the paste preview
	Selected bool
	Active   bool // inside the active glyph
	Code     int  // glyph containing the pixel
	LeftEdge bool // first column of a glyph cell
	TopEdge  bool // first row of a glyph cell
}

// Inspect returns what is shown at buffer point p. It reports false when p
// lies outside the buffer.
func (c *Canvas) Inspect(p image.Point) (Cell, bool) {
	v, err := c.buf.Pixel(p.X, p.Y)
	if err != nil {
		return Cell{}, false
	}
	cell := Cell{Index: v}

	if c.preview != nil {
		if i, ok := c.preview.IndexAt(p); ok {
			cell.Index, cell.Preview = i, true
		}
	}
	cell.Color = c.buf.Color(cell.Index)

	if r, ok := c.selection.Rect(); ok {
		cell.Selected = p.In(r)
	}
	if r, err := c.layout.Region(c.active); err == nil {
		cell.Active = p.In(r)
	}
	if code, ok := c.layout.CodeAt(p.X, p.Y); ok {
		r, _ := c.layout.Region(code)
		cell.Code = code
		cell.LeftEdge = p.X == r.Min.X
		cell.TopEdge = p.Y == r.Min.Y
	}

	return cell, true
}

// Render paints the visible part of the sheet into dc, whose top-left corner
// corresponds to the scroll offset.
func (c *Canvas) Render(dc *gg.Context) error {
	size := image.Pt(dc.Width(), dc.Height())
	dc.ClearWithColor(gg.Black)

	// Buffer area covered by dc
	visible := image.Rectangle{
		c.ScreenToBuffer(image.Point{}),
		c.ScreenToBuffer(size.Sub(image.Pt(1, 1))).Add(image.Pt(1, 1)),
	}.Intersect(c.buf.Bounds())

	z := float64(c.zoom)
	for y := visible.Min.Y; y < visible.Max.Y; y++ {
		for x := visible.Min.X; x < visible.Max.X; x++ {
			p := image.Pt(x, y)
			cell, _ := c.Inspect(p)
			col := gg.FromColor(cell.Color)
			if cell.Preview {
				col.A = previewAlpha
			}
			s := c.BufferToScreen(p)
			dc.SetRGBA(col.R, col.G, col.B, col.A)
			dc.DrawRectangle(float64(s.X), float64(s.Y), z, z)
			if err := dc.Fill(); err != nil {
				return err
			}
		}
	}

	if c.grid {
		dc.SetLineWidth(1)
		setColor(dc, GridColor)
		top, bottom := c.BufferToScreen(visible.Min), c.BufferToScreen(visible.Max)
		for x := visible.Min.X; x <= visible.Max.X; x++ {
			sx := float64(c.BufferToScreen(image.Pt(x, 0)).X) + 0.5
			dc.DrawLine(sx, float64(top.Y), sx, float64(bottom.Y))
		}
		for y := visible.Min.Y; y <= visible.Max.Y; y++ {
			sy := float64(c.BufferToScreen(image.Pt(0, y)).Y) + 0.5
			dc.DrawLine(float64(top.X), sy, float64(bottom.X), sy)
		}
		if err := dc.Stroke(); err != nil {
			return err
		}
	}

	for code := 0; code < c.layout.Cells; code++ {
		r, err := c.layout.Region(code)
		if err != nil || !r.Overlaps(visible) || code == c.active {
			continue
		}
		if err := c.outline(dc, r, 1, GlyphColor); err != nil {
			return err
		}
	}

	if r, err := c.layout.Region(c.active); err == nil {
		if err := c.outline(dc, r, 2, ActiveColor); err != nil {
			return err
		}
	}
	if r, ok := c.selection.Rect(); ok {
		if err := c.outline(dc, r, 2, SelectionColor); err != nil {
			return err
		}
	}
	if c.preview != nil {
		return c.outline(dc, c.preview.Rect(), 2, PreviewColor)
	}
	return nil
}

func setColor(dc *gg.Context, col gg.RGBA) {
	dc.SetRGBA(col.R, col.G, col.B, col.A)
}

// outline strokes the inside border of buffer rectangle r.
func (c *Canvas) outline(dc *gg.Context, r image.Rectangle, width float64, col gg.RGBA) error {
	min, max := c.BufferToScreen(r.Min), c.BufferToScreen(r.Max)
	half := width / 2
	setColor(dc, col)
	dc.SetLineWidth(width)
	dc.DrawRectangle(float64(min.X)+half, float64(min.Y)+half, float64(max.X-min.X)-width, float64(max.Y-min.Y)-width)
	return dc.Stroke()
}
