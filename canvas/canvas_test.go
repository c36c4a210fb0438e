package canvas

import (
	"image"
	"image/color"
	"testing"

	"github.com/bodgit/mifont/glyph"
	"github.com/bodgit/mifont/history"
	"github.com/bodgit/mifont/raster"
	"github.com/gogpu/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPalette() color.Palette {
	p := make(color.Palette, raster.PaletteSize)
	for i := range p {
		p[i] = color.RGBA{uint8(i), uint8(i * 2), uint8(255 - i), 0xff}
	}
	return p
}

func testCanvas(t *testing.T, height int) *Canvas {
	t.Helper()
	b, err := raster.New(image.NewPaletted(image.Rect(0, 0, glyph.SheetWidth, height), testPalette()))
	require.NoError(t, err)
	return New(b, glyph.NewHorizontal(height))
}

// at returns a screen point inside buffer pixel (x, y) at the current zoom.
func at(c *Canvas, x, y int) image.Point {
	return c.BufferToScreen(image.Pt(x, y)).Add(image.Pt(c.Zoom()/2, c.Zoom()-1))
}

func pixel(t *testing.T, c *Canvas, x, y int) uint8 {
	t.Helper()
	v, err := c.Buffer().Pixel(x, y)
	require.NoError(t, err)
	return v
}

func TestDrawAndUndo(t *testing.T) {
	c := testCanvas(t, 8)
	require.NoError(t, c.SetColor(12))

	c.PointerDown(at(c, 5, 3), false)
	assert.Equal(t, Drawing, c.State())
	c.PointerUp(at(c, 5, 3))
	assert.Equal(t, Idle, c.State())

	assert.Equal(t, uint8(12), pixel(t, c, 5, 3))
	assert.Equal(t, 1, c.History().Len())

	require.NoError(t, c.Undo())
	assert.Equal(t, uint8(0), pixel(t, c, 5, 3))

	require.NoError(t, c.Redo())
	assert.Equal(t, uint8(12), pixel(t, c, 5, 3))
}

func TestStrokeIsOneEntry(t *testing.T) {
	c := testCanvas(t, 9)
	require.NoError(t, c.SetColor(7))

	c.PointerDown(at(c, 1, 1), false)
	c.PointerMove(at(c, 2, 1))
	c.PointerMove(at(c, 3, 1))
	c.PointerMove(at(c, 2, 1)) // back over a painted cell
	c.PointerMove(at(c, 2, 2))
	c.PointerUp(at(c, 2, 2))

	assert.Equal(t, 1, c.History().Len())
	for _, p := range []image.Point{{1, 1}, {2, 1}, {3, 1}, {2, 2}} {
		assert.Equal(t, uint8(7), pixel(t, c, p.X, p.Y))
	}

	require.NoError(t, c.Undo())
	for _, p := range []image.Point{{1, 1}, {2, 1}, {3, 1}, {2, 2}} {
		assert.Equal(t, uint8(0), pixel(t, c, p.X, p.Y))
	}
	assert.Equal(t, history.ErrEmpty, c.Undo())
}

func TestStrokeWithoutChange(t *testing.T) {
	c := testCanvas(t, 8)
	require.NoError(t, c.SetColor(0))

	c.PointerDown(at(c, 1, 1), false)
	c.PointerUp(at(c, 1, 1))
	assert.Equal(t, 0, c.History().Len())

	// Outside the sheet
	c.SetZoom(MinZoom)
	require.NoError(t, c.SetColor(3))
	c.PointerDown(image.Pt(5, 8*MinZoom+2), false)
	c.PointerUp(image.Pt(5, 8*MinZoom+2))
	assert.Equal(t, 0, c.History().Len())
}

func TestBusy(t *testing.T) {
	c := testCanvas(t, 8)
	c.PointerDown(at(c, 0, 0), false)
	assert.Equal(t, ErrBusy, c.Undo())
	assert.Equal(t, ErrBusy, c.Redo())

	// A second press mid-stroke is ignored
	c.PointerDown(at(c, 4, 4), true)
	assert.Equal(t, Drawing, c.State())
	c.PointerUp(at(c, 0, 0))
	assert.Equal(t, Idle, c.State())
}

func TestSelectWithShift(t *testing.T) {
	c := testCanvas(t, 8)

	var events []EventKind
	c.Subscribe(func(e Event) { events = append(events, e.Kind) })

	c.PointerDown(at(c, 4, 5), true)
	assert.Equal(t, Selecting, c.State())
	c.PointerMove(at(c, 1, 2))
	c.PointerUp(at(c, 1, 2))
	assert.Equal(t, Idle, c.State())

	r, ok := c.Selection()
	require.True(t, ok)
	assert.Equal(t, image.Rect(1, 2, 5, 6), r)
	assert.Equal(t, []EventKind{SelectionChanged, SelectionChanged, SelectionChanged}, events)
	assert.Equal(t, 0, c.History().Len())
}

func TestSelectMode(t *testing.T) {
	c := testCanvas(t, 8)
	c.SetMode(Select)

	c.PointerDown(at(c, 0, 0), false)
	assert.Equal(t, Selecting, c.State())
	c.PointerUp(at(c, 2, 2))
	_, ok := c.Selection()
	assert.True(t, ok)

	c.SetMode(Draw)
	_, ok = c.Selection()
	assert.False(t, ok)
}

func TestDrawClearsSelection(t *testing.T) {
	c := testCanvas(t, 8)
	c.Select(image.Rect(0, 0, 3, 3))

	c.PointerDown(at(c, 5, 5), false)
	c.PointerUp(at(c, 5, 5))
	_, ok := c.Selection()
	assert.False(t, ok)
}

func TestCopyPaste(t *testing.T) {
	c := testCanvas(t, 8)

	assert.Equal(t, ErrEmptyClipboard, c.Paste())
	assert.Error(t, c.Copy())

	require.NoError(t, c.SetColor(9))
	c.PointerDown(at(c, 0, 0), false)
	c.PointerMove(at(c, 1, 1))
	c.PointerUp(at(c, 1, 1))

	c.Select(image.Rect(0, 0, 2, 2))
	require.NoError(t, c.Copy())
	assert.Equal(t, []uint8{9, 0, 0, 9}, c.Clip().Pix)

	// Pasting at the selection origin changes nothing
	require.NoError(t, c.Paste())
	assert.Equal(t, PastePreviewing, c.State())
	assert.Equal(t, image.Pt(0, 0), c.Preview().At())
	require.NoError(t, c.CommitPaste())
	assert.Equal(t, Idle, c.State())
	assert.Equal(t, 1, c.History().Len())

	require.NoError(t, c.Paste())
	require.NoError(t, c.MovePreview(20, 3))
	cell, ok := c.Inspect(image.Pt(20, 3))
	require.True(t, ok)
	assert.True(t, cell.Preview)
	assert.Equal(t, uint8(9), cell.Index)
	assert.Equal(t, uint8(0), pixel(t, c, 20, 3))

	require.NoError(t, c.CommitPaste())
	assert.Equal(t, uint8(9), pixel(t, c, 20, 3))
	assert.Equal(t, uint8(9), pixel(t, c, 21, 4))
	assert.Equal(t, 2, c.History().Len())

	require.NoError(t, c.Undo())
	assert.Equal(t, uint8(0), pixel(t, c, 20, 3))
}

func TestPasteAtActiveGlyph(t *testing.T) {
	c := testCanvas(t, 8)
	c.Select(image.Rect(0, 0, 10, 8))
	require.NoError(t, c.Copy())
	c.ClearSelection()

	require.NoError(t, c.JumpTo(65))
	require.NoError(t, c.Paste())
	assert.Equal(t, image.Pt(650, 0), c.Preview().At())

	// Dragging the preview
	c.PointerDown(c.BufferToScreen(image.Pt(700, 0)), false)
	c.PointerMove(c.BufferToScreen(image.Pt(710, 0)))
	assert.Equal(t, image.Pt(710, 0), c.Preview().At())
	c.PointerUp(c.BufferToScreen(image.Pt(710, 0)))
	assert.Equal(t, PastePreviewing, c.State())
	c.PointerMove(c.BufferToScreen(image.Pt(720, 0)))
	assert.Equal(t, image.Pt(710, 0), c.Preview().At())

	before := c.Buffer().Snapshot()
	require.NoError(t, c.CancelPaste())
	assert.True(t, c.Buffer().Equal(before))
	assert.Nil(t, c.Preview())
	assert.Equal(t, ErrNotPasting, c.CommitPaste())
	assert.Equal(t, ErrNotPasting, c.MovePreview(1, 1))
}

func TestClipCarriesOver(t *testing.T) {
	a := testCanvas(t, 8)
	a.Select(image.Rect(0, 0, 1, 1))
	require.NoError(t, a.Copy())

	b := testCanvas(t, 14)
	b.SetClip(a.Clip())
	assert.NoError(t, b.Paste())
}

func TestZoom(t *testing.T) {
	c := testCanvas(t, 8)
	assert.Equal(t, DefaultZoom, c.Zoom())

	c.SetZoom(1)
	assert.Equal(t, MinZoom, c.Zoom())
	c.SetZoom(100)
	assert.Equal(t, MaxZoom, c.Zoom())
	c.ZoomOut()
	assert.Equal(t, MaxZoom-ZoomStep, c.Zoom())
	c.ZoomIn()
	c.ZoomIn()
	assert.Equal(t, MaxZoom, c.Zoom())

	c.SetZoom(10)
	c.ScrollTo(image.Pt(100, 0))
	assert.Equal(t, image.Pt(100, 0), c.ScreenToBuffer(image.Pt(9, 9)))
	assert.Equal(t, image.Pt(101, 1), c.ScreenToBuffer(image.Pt(10, 10)))
	assert.Equal(t, image.Pt(99, -1), c.ScreenToBuffer(image.Pt(-1, -1)))
	assert.Equal(t, image.Pt(20, 0), c.BufferToScreen(image.Pt(102, 0)))

	c.Scroll(-500, 500)
	assert.Equal(t, image.Pt(0, 7), c.Offset())
}

func TestJumpTo(t *testing.T) {
	c := testCanvas(t, 15)

	var codes []int
	c.Subscribe(func(e Event) {
		if e.Kind == CharacterJumped {
			codes = append(codes, e.Code)
		}
	})

	require.NoError(t, c.JumpTo(97))
	assert.Equal(t, glyph.ErrCode, c.JumpTo(256))
	assert.Equal(t, []int{97}, codes)
	assert.Equal(t, 97, c.ActiveGlyph())
	assert.Equal(t, image.Pt(970, 0), c.Offset())

	c.PointerMove(at(c, 982, 0))
	assert.Equal(t, 98, c.HoverGlyph())
	c.PointerMove(image.Pt(-1, 0))
	assert.Equal(t, 96, c.HoverGlyph())
	c.PointerMove(image.Pt(0, 15*c.Zoom()))
	assert.Equal(t, -1, c.HoverGlyph())
}

func TestHistoryEvents(t *testing.T) {
	c := testCanvas(t, 8)

	var n int
	c.Subscribe(func(e Event) {
		if e.Kind == HistoryChanged {
			n++
		}
	})

	c.PointerDown(at(c, 0, 0), false)
	c.PointerUp(at(c, 0, 0))
	require.NoError(t, c.Undo())
	require.NoError(t, c.Redo())
	assert.Equal(t, 3, n)
}

func TestSetColor(t *testing.T) {
	c := testCanvas(t, 8)
	assert.Equal(t, uint8(DefaultColor), c.Color())
	assert.Equal(t, raster.ErrInvalidIndex, c.SetColor(256))
	assert.NoError(t, c.SetColor(255))
	assert.Equal(t, uint8(255), c.Color())
}

func assertColor(t *testing.T, want, got color.Color) {
	t.Helper()
	r1, g1, b1, _ := want.RGBA()
	r2, g2, b2, _ := got.RGBA()
	for _, d := range []int{int(r1>>8) - int(r2>>8), int(g1>>8) - int(g2>>8), int(b1>>8) - int(b2>>8)} {
		if d < -1 || d > 1 {
			assert.Failf(t, "colors differ", "want %v, got %v", want, got)
			return
		}
	}
}

func TestRender(t *testing.T) {
	c := testCanvas(t, 8)
	c.SetGrid(false)
	c.SetZoom(MinZoom)
	require.NoError(t, c.SetColor(200))
	c.PointerDown(at(c, 3, 4), false)
	c.PointerUp(at(c, 3, 4))

	dc := gg.NewContext(20*MinZoom, 8*MinZoom)
	defer dc.Close()
	require.NoError(t, c.Render(dc))
	m := dc.Image()

	centre := func(x, y int) image.Point {
		return c.BufferToScreen(image.Pt(x, y)).Add(image.Pt(MinZoom/2, MinZoom/2))
	}

	p := centre(3, 4)
	assertColor(t, testPalette()[200], m.At(p.X, p.Y))
	p = centre(14, 4)
	assertColor(t, testPalette()[0], m.At(p.X, p.Y))

	// The selection outline is drawn on top
	c.Select(image.Rect(12, 0, 16, 8))
	require.NoError(t, c.Render(dc))
	m = dc.Image()
	p = c.BufferToScreen(image.Pt(12, 4))
	assertColor(t, SelectionColor.Color(), m.At(p.X, p.Y))
	p = centre(14, 4)
	assertColor(t, testPalette()[0], m.At(p.X, p.Y))
}

func TestInspect(t *testing.T) {
	c := testCanvas(t, 14)
	require.NoError(t, c.JumpTo(3))

	cell, ok := c.Inspect(image.Pt(30, 0))
	require.True(t, ok)
	assert.Equal(t, 3, cell.Code)
	assert.True(t, cell.Active)
	assert.True(t, cell.LeftEdge)
	assert.True(t, cell.TopEdge)
	assert.False(t, cell.Selected)
	assert.Equal(t, testPalette()[0], cell.Color)

	cell, ok = c.Inspect(image.Pt(41, 5))
	require.True(t, ok)
	assert.Equal(t, 4, cell.Code)
	assert.False(t, cell.Active)
	assert.False(t, cell.LeftEdge)

	_, ok = c.Inspect(image.Pt(41, 14))
	assert.False(t, ok)
}
