package history

import (
	"image"
	"image/color"
	"testing"

	"github.com/bodgit/mifont/raster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBuffer(t *testing.T) *raster.Buffer {
	t.Helper()
	p := make(color.Palette, raster.PaletteSize)
	for i := range p {
		p[i] = color.Gray{uint8(i)}
	}
	b, err := raster.New(image.NewPaletted(image.Rect(0, 0, 20, 8), p))
	require.NoError(t, err)
	return b
}

// edit commits the current state then changes one pixel, the same way the
// canvas does.
func edit(t *testing.T, s *Stack, b *raster.Buffer, i int) {
	t.Helper()
	s.Commit(b.Snapshot())
	require.NoError(t, b.SetPixel(i%20, i/20%8, i%255+1))
}

func TestEmpty(t *testing.T) {
	s := New(DefaultDepth)
	b := testBuffer(t)

	assert.False(t, s.CanUndo())
	assert.False(t, s.CanRedo())
	assert.Equal(t, ErrEmpty, s.Undo(b))
	assert.Equal(t, ErrEmpty, s.Redo(b))
}

func TestUndoRedoRoundTrip(t *testing.T) {
	for _, n := range []int{1, 2, 17, DefaultDepth} {
		s := New(DefaultDepth)
		b := testBuffer(t)

		var states []raster.Snapshot
		for i := 0; i < n; i++ {
			states = append(states, b.Snapshot())
			edit(t, s, b, i)
		}
		final := b.Snapshot()

		for i := n - 1; i >= 0; i-- {
			require.NoError(t, s.Undo(b))
			require.True(t, b.Equal(states[i]))
		}
		assert.Equal(t, ErrEmpty, s.Undo(b))

		for i := 0; i < n; i++ {
			require.NoError(t, s.Redo(b))
		}
		assert.True(t, b.Equal(final))
		assert.Equal(t, ErrEmpty, s.Redo(b))
	}
}

func TestEviction(t *testing.T) {
	s := New(DefaultDepth)
	b := testBuffer(t)

	first := b.Snapshot()
	for i := 0; i < DefaultDepth+1; i++ {
		edit(t, s, b, i)
	}
	assert.Equal(t, DefaultDepth, s.Len())

	for s.CanUndo() {
		require.NoError(t, s.Undo(b))
	}

	// The state before the first edit was evicted
	assert.False(t, b.Equal(first))
	v, err := b.Pixel(0, 0)
	require.NoError(t, err)
	assert.Equal(t, uint8(1), v)
}

func TestDepthNeverExceeded(t *testing.T) {
	s := New(3)
	b := testBuffer(t)
	for i := 0; i < 10; i++ {
		edit(t, s, b, i)
		assert.LessOrEqual(t, s.Len(), 3)
	}

	// Redo pushes back onto a full ring
	require.NoError(t, s.Undo(b))
	require.NoError(t, s.Redo(b))
	assert.Equal(t, 3, s.Len())
}

func TestCommitTruncatesRedo(t *testing.T) {
	s := New(DefaultDepth)
	b := testBuffer(t)

	edit(t, s, b, 0)
	edit(t, s, b, 1)
	require.NoError(t, s.Undo(b))
	assert.True(t, s.CanRedo())

	edit(t, s, b, 2)
	assert.False(t, s.CanRedo())
	assert.Equal(t, 2, s.Len())
}

func TestSubscribe(t *testing.T) {
	s := New(DefaultDepth)
	b := testBuffer(t)

	var calls int
	s.Subscribe(func() { calls++ })

	edit(t, s, b, 0)
	require.NoError(t, s.Undo(b))
	require.NoError(t, s.Redo(b))
	assert.Equal(t, 3, calls)

	// Failed operations are silent
	require.NoError(t, s.Undo(b))
	assert.Equal(t, ErrEmpty, s.Undo(b))
	assert.Equal(t, 4, calls)

	s.Reset()
	assert.Equal(t, 5, calls)
	assert.False(t, s.CanRedo())
}

func TestRestoreMismatch(t *testing.T) {
	s := New(DefaultDepth)
	b := testBuffer(t)
	edit(t, s, b, 0)

	p := make(color.Palette, raster.PaletteSize)
	for i := range p {
		p[i] = color.Black
	}
	other, err := raster.New(image.NewPaletted(image.Rect(0, 0, 10, 8), p))
	require.NoError(t, err)

	assert.Equal(t, raster.ErrSnapshotSize, s.Undo(other))
	assert.True(t, s.CanUndo())
	assert.False(t, s.CanRedo())
}
