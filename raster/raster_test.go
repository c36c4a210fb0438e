package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBuffer(t *testing.T, w, h int) *Buffer {
	t.Helper()
	p := make(color.Palette, PaletteSize)
	for i := range p {
		p[i] = color.RGBA{uint8(i), 0, 0, 0xff}
	}
	b, err := New(image.NewPaletted(image.Rect(0, 0, w, h), p))
	require.NoError(t, err)
	return b
}

func TestNew(t *testing.T) {
	_, err := New(image.NewPaletted(image.Rect(0, 0, 10, 8), color.Palette{color.Black}))
	assert.Equal(t, ErrPaletteSize, err)

	b := testBuffer(t, 2560, 8)
	assert.Equal(t, 2560, b.Width())
	assert.Equal(t, 8, b.Height())
}

func TestNewMovesOrigin(t *testing.T) {
	p := make(color.Palette, PaletteSize)
	for i := range p {
		p[i] = color.Black
	}
	m := image.NewPaletted(image.Rect(5, 5, 15, 13), p)
	m.SetColorIndex(5, 5, 9)

	b, err := New(m)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 10, 8), b.Bounds())
	v, err := b.Pixel(0, 0)
	require.NoError(t, err)
	assert.Equal(t, uint8(9), v)
}

func TestPixel(t *testing.T) {
	b := testBuffer(t, 2560, 8)

	require.NoError(t, b.SetPixel(5, 3, 12))
	v, err := b.Pixel(5, 3)
	require.NoError(t, err)
	assert.Equal(t, uint8(12), v)

	require.NoError(t, b.SetPixel(2559, 7, 255))
	v, err = b.Pixel(2559, 7)
	require.NoError(t, err)
	assert.Equal(t, uint8(255), v)
}

func TestPixelErrors(t *testing.T) {
	b := testBuffer(t, 10, 8)

	tables := []struct {
		x, y, index int
		err         error
	}{
		{-1, 0, 0, ErrOutOfBounds},
		{0, -1, 0, ErrOutOfBounds},
		{10, 0, 0, ErrOutOfBounds},
		{0, 8, 0, ErrOutOfBounds},
		{0, 0, 256, ErrInvalidIndex},
		{0, 0, -1, ErrInvalidIndex},
	}

	for _, table := range tables {
		assert.Equal(t, table.err, b.SetPixel(table.x, table.y, table.index))
	}

	_, err := b.Pixel(10, 8)
	assert.Equal(t, ErrOutOfBounds, err)
}

func TestPaletteIsCopy(t *testing.T) {
	b := testBuffer(t, 10, 8)
	p := b.Palette()
	p[0] = color.White
	assert.Equal(t, color.RGBA{0, 0, 0, 0xff}, b.Color(0))
}

func TestRegionAndBlit(t *testing.T) {
	b := testBuffer(t, 10, 8)
	require.NoError(t, b.SetPixel(2, 2, 1))
	require.NoError(t, b.SetPixel(3, 3, 2))

	pix := b.Region(image.Rect(2, 2, 4, 4))
	assert.Equal(t, []uint8{1, 0, 0, 2}, pix)

	// Clipped to the buffer
	assert.Len(t, b.Region(image.Rect(8, 6, 20, 20)), 4)

	assert.True(t, b.Blit(image.Pt(8, 6), 2, 2, []uint8{3, 4, 5, 6}))
	assert.False(t, b.Blit(image.Pt(8, 6), 2, 2, []uint8{3, 4, 5, 6}))
	assert.Equal(t, []uint8{3, 4, 5, 6}, b.Region(image.Rect(8, 6, 10, 8)))

	// Only the in-bounds corner lands
	assert.True(t, b.Blit(image.Pt(9, 7), 2, 2, []uint8{7, 7, 7, 7}))
	v, _ := b.Pixel(9, 7)
	assert.Equal(t, uint8(7), v)
}

func TestSnapshot(t *testing.T) {
	b := testBuffer(t, 10, 8)
	s := b.Snapshot()

	require.NoError(t, b.SetPixel(1, 1, 42))
	assert.False(t, b.Equal(s))
	assert.Equal(t, uint8(0), s.Pix[11])

	require.NoError(t, b.Restore(s))
	assert.True(t, b.Equal(s))

	assert.Equal(t, ErrSnapshotSize, b.Restore(Snapshot{Width: 9, Height: 8}))
}
