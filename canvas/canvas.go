/*
Package canvas implements the interactive editing surface for a font sheet.

A Canvas turns pointer gestures into edits of a raster.Buffer. Pointer
positions arrive in screen space, which is the buffer scaled by the zoom
factor and shifted by the scroll offset; they are converted to buffer
coordinates before anything touches the pixels.

The canvas is always in one of four states. Pressing the pointer in draw
mode starts a stroke that paints every cell the pointer crosses until it is
released, and the whole stroke becomes a single undo entry. Pressing with
shift held, or in select mode, drags out a selection instead. Pasting puts a
movable preview of the clipboard over the sheet until it is committed or
cancelled.
*/
package canvas

import (
	"errors"
	"image"

	"github.com/bodgit/mifont/clipboard"
	"github.com/bodgit/mifont/glyph"
	"github.com/bodgit/mifont/history"
	"github.com/bodgit/mifont/raster"
)

const (
	// MinZoom is the smallest zoom factor.
	MinZoom = 5
	// MaxZoom is the largest zoom factor.
	MaxZoom = 50
	// ZoomStep is the amount the zoom changes by.
	ZoomStep = 5
	// DefaultZoom is the initial zoom factor.
	DefaultZoom = 20
	// DefaultColor is the initial drawing color index.
	DefaultColor = 1
)

var (
	// ErrBusy is returned when an operation needs the canvas to be idle.
	ErrBusy = errors.New("canvas: gesture in progress")
	// ErrEmptyClipboard is returned when pasting before anything has been
	// copied.
	ErrEmptyClipboard = errors.New("canvas: clipboard is empty")
	// ErrNotPasting is returned when there is no paste preview.
	ErrNotPasting = errors.New("canvas: no paste in progress")
)

// State is the gesture the canvas is handling.
type State int

// Canvas states
const (
	Idle State = iota
	Drawing
	Selecting
	PastePreviewing
)

func (s State) String() string {
	switch s {
	case Drawing:
		return "drawing"
	case Selecting:
		return "selecting"
	case PastePreviewing:
		return "pasting"
	}
	return "idle"
}

// Mode decides what pressing the pointer does.
type Mode int

// Edit modes
const (
	Draw Mode = iota
	Select
)

func (m Mode) String() string {
	if m == Select {
		return "select"
	}
	return "draw"
}

type stroke struct {
	before  raster.Snapshot
	changed bool
}

// Canvas is an editing session over a single buffer. It is not safe for
// concurrent use; all calls are expected from one event loop.
type Canvas struct {
	buf     *raster.Buffer
	layout  glyph.Layout
	history *history.Stack

	selection *clipboard.Selection
	clip      *clipboard.Clip
	preview   *clipboard.Preview
	dragging  bool

	state  State
	mode   Mode
	color  uint8
	stroke *stroke

	zoom   int
	offset image.Point
	grid   bool
	active int
	hover  int

	subscribers []func(Event)
}

// New returns a canvas editing buf, whose cells are arranged as described by
// layout.
func New(buf *raster.Buffer, layout glyph.Layout) *Canvas {
	c := &Canvas{
		buf:       buf,
		layout:    layout,
		history:   history.New(history.DefaultDepth),
		selection: clipboard.NewSelection(buf.Bounds()),
		color:     DefaultColor,
		zoom:      DefaultZoom,
		grid:      true,
		hover:     -1,
	}
	c.history.Subscribe(func() {
		c.emit(Event{Kind: HistoryChanged})
	})
	return c
}

func (c *Canvas) Buffer() *raster.Buffer { return c.buf }

func (c *Canvas) Layout() glyph.Layout { return c.layout }

func (c *Canvas) History() *history.Stack { return c.history }

func (c *Canvas) State() State { return c.state }

func (c *Canvas) Mode() Mode { return c.mode }

// SetMode changes the edit mode. Switching to draw mode clears the
// selection.
func (c *Canvas) SetMode(m Mode) {
	c.mode = m
	if m == Draw {
		c.ClearSelection()
	}
}

func (c *Canvas) Color() uint8 { return c.color }

// SetColor sets the drawing color index.
func (c *Canvas) SetColor(index int) error {
	if index < 0 || index >= raster.PaletteSize {
		return raster.ErrInvalidIndex
	}
	c.color = uint8(index)
	return nil
}

func (c *Canvas) Grid() bool { return c.grid }

func (c *Canvas) SetGrid(on bool) { c.grid = on }

// Undo reverts the most recent edit.
func (c *Canvas) Undo() error {
	if c.state != Idle {
		return ErrBusy
	}
	return c.history.Undo(c.buf)
}

// Redo reapplies the most recently undone edit.
func (c *Canvas) Redo() error {
	if c.state != Idle {
		return ErrBusy
	}
	return c.history.Redo(c.buf)
}
