package canvas

import (
	"image"

	"github.com/bodgit/mifont/clipboard"
)

// Selection returns the selected rectangle in buffer coordinates.
func (c *Canvas) Selection() (image.Rectangle, bool) {
	return c.selection.Rect()
}

// ClearSelection removes any selection.
func (c *Canvas) ClearSelection() {
	if !c.selection.Active() {
		return
	}
	c.selection.Clear()
	c.emit(Event{Kind: SelectionChanged})
}

// Select selects r directly, as if it had been dragged out.
func (c *Canvas) Select(r image.Rectangle) {
	r = r.Canon()
	if r.Empty() {
		c.ClearSelection()
		return
	}
	c.selection.Start(r.Min)
	c.selection.Update(r.Max.Sub(image.Pt(1, 1)))
	c.emit(Event{Kind: SelectionChanged})
}

// Clip returns the clipboard contents, or nil.
func (c *Canvas) Clip() *clipboard.Clip { return c.clip }

// SetClip replaces the clipboard contents. It is used to carry the clipboard
// over from another canvas.
func (c *Canvas) SetClip(clip *clipboard.Clip) { c.clip = clip }

// Copy copies the selection to the clipboard. The selection is kept.
func (c *Canvas) Copy() error {
	clip, err := clipboard.Copy(c.buf, c.selection)
	if err != nil {
		return err
	}
	c.clip = clip
	return nil
}

// Preview returns the paste preview, or nil when not pasting.
func (c *Canvas) Preview() *clipboard.Preview { return c.preview }

// Paste shows the clipboard as a movable preview. It starts at the selection
// if there is one, otherwise at the active glyph.
func (c *Canvas) Paste() error {
	if c.clip == nil {
		return ErrEmptyClipboard
	}
	if c.state != Idle && c.state != PastePreviewing {
		return ErrBusy
	}

	at, ok := c.selection.Rect()
	if !ok {
		at, _ = c.layout.Region(c.active)
	}

	c.preview = clipboard.NewPreview(c.clip, at.Min, c.buf.Bounds())
	c.dragging = false
	c.state = PastePreviewing
	c.emit(Event{Kind: PreviewChanged})
	return nil
}

// MovePreview shifts the paste preview by (dx, dy) buffer pixels.
func (c *Canvas) MovePreview(dx, dy int) error {
	if c.state != PastePreviewing {
		return ErrNotPasting
	}
	c.preview.Move(dx, dy)
	c.emit(Event{Kind: PreviewChanged})
	return nil
}

// CommitPaste writes the preview into the buffer as a single undo entry.
func (c *Canvas) CommitPaste() error {
	if c.state != PastePreviewing {
		return ErrNotPasting
	}

	before := c.buf.Snapshot()
	pv := c.preview
	c.endPaste()

	if pv.Commit(c.buf) {
		c.history.Commit(before)
	}
	return nil
}

// CancelPaste discards the preview without touching the buffer.
func (c *Canvas) CancelPaste() error {
	if c.state != PastePreviewing {
		return ErrNotPasting
	}
	c.endPaste()
	return nil
}

func (c *Canvas) endPaste() {
	c.preview = nil
	c.dragging = false
	c.state = Idle
	c.emit(Event{Kind: PreviewChanged})
}

// Stamp writes clip into the buffer with its top-left corner at p as a single
// undo entry, without going through a preview.
func (c *Canvas) Stamp(p image.Point, clip *clipboard.Clip) error {
	if c.state != Idle {
		return ErrBusy
	}
	before := c.buf.Snapshot()
	if c.buf.Blit(p, clip.Width, clip.Height, clip.Pix) {
		c.history.Commit(before)
	}
	return nil
}
