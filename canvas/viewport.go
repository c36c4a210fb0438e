package canvas

import "image"

// Zoom returns the number of screen pixels per buffer pixel.
func (c *Canvas) Zoom() int { return c.zoom }

// SetZoom sets the zoom factor, clamped to MinZoom and MaxZoom.
func (c *Canvas) SetZoom(z int) {
	switch {
	case z < MinZoom:
		z = MinZoom
	case z > MaxZoom:
		z = MaxZoom
	}
	c.zoom = z
}

func (c *Canvas) ZoomIn() { c.SetZoom(c.zoom + ZoomStep) }

func (c *Canvas) ZoomOut() { c.SetZoom(c.zoom - ZoomStep) }

// Offset returns the buffer point shown at the top-left of the screen.
func (c *Canvas) Offset() image.Point { return c.offset }

// ScrollTo shows buffer point p at the top-left of the screen.
func (c *Canvas) ScrollTo(p image.Point) {
	r := c.buf.Bounds()
	c.offset = image.Pt(clamp(p.X, r.Min.X, r.Max.X-1), clamp(p.Y, r.Min.Y, r.Max.Y-1))
}

// Scroll moves the view by (dx, dy) buffer pixels.
func (c *Canvas) Scroll(dx, dy int) {
	c.ScrollTo(c.offset.Add(image.Pt(dx, dy)))
}

// ScreenSize returns the size of the whole buffer at the current zoom.
func (c *Canvas) ScreenSize() image.Point {
	return c.buf.Bounds().Size().Mul(c.zoom)
}

// ScreenToBuffer converts a screen position to buffer coordinates. The
// result may lie outside the buffer.
func (c *Canvas) ScreenToBuffer(p image.Point) image.Point {
	return image.Pt(floorDiv(p.X, c.zoom), floorDiv(p.Y, c.zoom)).Add(c.offset)
}

// BufferToScreen returns the top-left screen position of buffer pixel p.
func (c *Canvas) BufferToScreen(p image.Point) image.Point {
	return p.Sub(c.offset).Mul(c.zoom)
}

func (c *Canvas) ActiveGlyph() int { return c.active }

// HoverGlyph returns the code under the pointer or -1.
func (c *Canvas) HoverGlyph() int { return c.hover }

// JumpTo makes code the active glyph and scrolls its cell into view.
func (c *Canvas) JumpTo(code int) error {
	r, err := c.layout.Region(code)
	if err != nil {
		return err
	}
	c.active = code
	c.ScrollTo(r.Min)
	c.emit(Event{Kind: CharacterJumped, Code: code})
	return nil
}

func (c *Canvas) track(b image.Point) {
	if code, ok := c.layout.CodeAt(b.X, b.Y); ok {
		c.hover = code
	} else {
		c.hover = -1
	}
}

func clamp(v, min, max int) int {
	switch {
	case v < min:
		return min
	case v > max:
		return max
	}
	return v
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
