package canvas

import "image"

// PointerDown handles the pointer being pressed at screen position p.
func (c *Canvas) PointerDown(p image.Point, shift bool) {
	b := c.ScreenToBuffer(p)
	c.track(b)

	switch c.state {
	case PastePreviewing:
		c.preview.MoveTo(b)
		c.dragging = true
		c.emit(Event{Kind: PreviewChanged})
		return
	case Idle:
	default:
		return
	}

	if c.mode == Select || shift {
		c.selection.Start(b)
		c.state = Selecting
		c.emit(Event{Kind: SelectionChanged})
		return
	}

	c.ClearSelection()
	c.state = Drawing
	c.stroke = &stroke{before: c.buf.Snapshot()}
	if code, ok := c.layout.CodeAt(b.X, b.Y); ok {
		c.active = code
	}
	c.paint(b)
}

// PointerMove handles the pointer moving to screen position p, whether or
// not it is pressed.
func (c *Canvas) PointerMove(p image.Point) {
	b := c.ScreenToBuffer(p)
	c.track(b)

	switch c.state {
	case Drawing:
		c.paint(b)
	case Selecting:
		c.selection.Update(b)
		c.emit(Event{Kind: SelectionChanged})
	case PastePreviewing:
		if c.dragging {
			c.preview.MoveTo(b)
			c.emit(Event{Kind: PreviewChanged})
		}
	}
}

// PointerUp handles the pointer being released at screen position p. A
// stroke that changed anything is committed to the history as one entry.
func (c *Canvas) PointerUp(p image.Point) {
	b := c.ScreenToBuffer(p)

	switch c.state {
	case Drawing:
		s := c.stroke
		c.stroke = nil
		c.state = Idle
		if s.changed {
			c.history.Commit(s.before)
		}
	case Selecting:
		c.selection.Update(b)
		c.state = Idle
		c.emit(Event{Kind: SelectionChanged})
	case PastePreviewing:
		c.dragging = false
	}
}

// paint sets buffer pixel b to the drawing color. Painting a cell that
// already has the color does nothing.
func (c *Canvas) paint(b image.Point) {
	v, err := c.buf.Pixel(b.X, b.Y)
	if err != nil || v == c.color {
		return
	}
	if err := c.buf.SetPixel(b.X, b.Y, int(c.color)); err != nil {
		return
	}
	c.stroke.changed = true
	c.emit(Event{Kind: PixelChanged, Point: b})
}
