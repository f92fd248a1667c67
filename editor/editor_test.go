package editor

import (
	"image"
	"io"
	"log"
	"testing"

	"github.com/bodgit/rlepix/indexed"
	"github.com/bodgit/rlepix/palette"
	"github.com/bodgit/rlepix/rle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEditor(t *testing.T, width, height int) *Editor {
	t.Helper()
	e, err := New(width, height, log.New(io.Discard, "", 0))
	require.NoError(t, err)
	return e
}

func pixel(t *testing.T, e *Editor, x, y int) indexed.ColorIndex {
	t.Helper()
	c, err := e.Canvas().Get(x, y)
	require.NoError(t, err)
	return c
}

func TestNew(t *testing.T) {
	e := newEditor(t, 16, 16)
	assert.Equal(t, Pencil, e.Tool)
	assert.Equal(t, indexed.Dark, e.Color)
	assert.Equal(t, 256, e.Canvas().Len())

	_, err := New(0, 16, log.New(io.Discard, "", 0))
	assert.ErrorIs(t, err, indexed.ErrConfiguration)
}

func TestTools(t *testing.T) {
	e := newEditor(t, 4, 4)

	require.NoError(t, e.Apply(1, 1))
	assert.Equal(t, indexed.Dark, pixel(t, e, 1, 1))

	e.Tool = Eraser
	require.NoError(t, e.Apply(1, 1))
	assert.Equal(t, indexed.Empty, pixel(t, e, 1, 1))

	e.Tool = Move
	require.NoError(t, e.Apply(2, 2))
	assert.Equal(t, indexed.Empty, pixel(t, e, 2, 2))

	e.Tool = Pencil
	assert.ErrorIs(t, e.Apply(4, 0), indexed.ErrOutOfBounds)

	e.Color = indexed.ColorIndex(8)
	assert.ErrorIs(t, e.Apply(0, 0), indexed.ErrInvalidColor)
}

func TestFill(t *testing.T) {
	e := newEditor(t, 4, 4)
	// Vertical wall at x = 2
	for y := 0; y < 4; y++ {
		require.NoError(t, e.SetPixel(2, y, indexed.Dark))
	}

	e.Tool = Fill
	e.Color = indexed.Skin
	require.NoError(t, e.Apply(0, 0))

	for y := 0; y < 4; y++ {
		assert.Equal(t, indexed.Skin, pixel(t, e, 0, y))
		assert.Equal(t, indexed.Skin, pixel(t, e, 1, y))
		assert.Equal(t, indexed.Dark, pixel(t, e, 2, y))
		assert.Equal(t, indexed.Empty, pixel(t, e, 3, y))
	}

	// Same color is a no-op
	require.NoError(t, e.Fill(0, 0, indexed.Skin))
	assert.ErrorIs(t, e.Fill(9, 9, indexed.Skin), indexed.ErrOutOfBounds)
}

func TestFillEdges(t *testing.T) {
	e := newEditor(t, 5, 3)
	// Diagonal neighbours are not connected
	require.NoError(t, e.SetPixel(1, 0, indexed.Dark))
	require.NoError(t, e.SetPixel(0, 1, indexed.Dark))

	require.NoError(t, e.Fill(0, 0, indexed.Bright))
	assert.Equal(t, indexed.Bright, pixel(t, e, 0, 0))
	assert.Equal(t, indexed.Empty, pixel(t, e, 1, 1))

	// Filling from the far corner reaches every cell of the open region
	require.NoError(t, e.Fill(4, 2, indexed.Skin))
	for pt, c := range e.Canvas().Enumerate() {
		switch pt {
		case image.Pt(0, 0):
			assert.Equal(t, indexed.Bright, c)
		case image.Pt(1, 0), image.Pt(0, 1):
			assert.Equal(t, indexed.Dark, c)
		default:
			assert.Equal(t, indexed.Skin, c, "%v", pt)
		}
	}

	enc, err := e.Encoding()
	require.NoError(t, err)
	m, err := enc.Decode(5, 3, 0)
	require.NoError(t, err)
	assert.True(t, m.Equal(e.Canvas()))
}

func TestMove(t *testing.T) {
	e := newEditor(t, 4, 4)
	require.NoError(t, e.SetPixel(0, 0, indexed.Bright))

	_, ok := e.MoveOffset()
	assert.False(t, ok)
	assert.ErrorIs(t, e.UpdateMove(1, 1), ErrNoMove)
	assert.ErrorIs(t, e.EndMove(1, 1), ErrNoMove)

	e.StartMove(1, 1)
	require.NoError(t, e.UpdateMove(2, 3))
	d, ok := e.MoveOffset()
	assert.True(t, ok)
	assert.Equal(t, image.Pt(1, 2), d)

	// Canvas untouched until the move ends
	assert.Equal(t, indexed.Bright, pixel(t, e, 0, 0))

	require.NoError(t, e.EndMove(2, 3))
	assert.Equal(t, indexed.Empty, pixel(t, e, 0, 0))
	assert.Equal(t, indexed.Bright, pixel(t, e, 1, 2))

	_, ok = e.MoveOffset()
	assert.False(t, ok)
}

func TestCancelMove(t *testing.T) {
	e := newEditor(t, 4, 4)
	require.NoError(t, e.SetPixel(0, 0, indexed.Bright))

	e.StartMove(0, 0)
	require.NoError(t, e.UpdateMove(3, 3))
	e.CancelMove()
	assert.ErrorIs(t, e.EndMove(3, 3), ErrNoMove)
	assert.Equal(t, indexed.Bright, pixel(t, e, 0, 0))
}

func TestTrim(t *testing.T) {
	e := newEditor(t, 8, 8)
	require.NoError(t, e.SetPixel(3, 4, indexed.Dark))

	s, err := e.Hex()
	require.NoError(t, err)
	assert.Equal(t, "600320", s)

	require.NoError(t, e.SetTrim(4))
	assert.Equal(t, uint8(4), e.Trim())
	s, err = e.Hex()
	require.NoError(t, err)
	assert.Equal(t, "6020", s)

	assert.ErrorIs(t, e.SetTrim(8), ErrTrimRange)
	assert.Equal(t, uint8(4), e.Trim())
}

func TestEncodingCache(t *testing.T) {
	e := newEditor(t, 8, 8)
	require.NoError(t, e.SetPixel(1, 1, indexed.Skin))

	a, err := e.Encoding()
	require.NoError(t, err)
	b, err := e.Encoding()
	require.NoError(t, err)
	assert.Same(t, a, b)

	require.NoError(t, e.SetPixel(2, 2, indexed.Skin))
	c, err := e.Encoding()
	require.NoError(t, err)
	assert.NotSame(t, a, c)
	assert.NotEqual(t, a.Bytes(), c.Bytes())
}

func TestEncodingOverflow(t *testing.T) {
	e := newEditor(t, 64, 2)
	require.NoError(t, e.SetPixel(0, 0, indexed.Dark))
	require.NoError(t, e.SetPixel(35, 1, indexed.Dark))

	_, err := e.Hex()
	assert.ErrorIs(t, err, rle.ErrEncodeOverflow)

	require.NoError(t, e.SetPixel(35, 1, indexed.Empty))
	_, err = e.Hex()
	assert.NoError(t, err)
}

func TestImport(t *testing.T) {
	src := newEditor(t, 8, 8)
	require.NoError(t, src.SetPixel(2, 3, indexed.ShirtAccent1))
	require.NoError(t, src.SetPixel(5, 6, indexed.PantsAccent2))
	s, err := src.Hex()
	require.NoError(t, err)

	dst := newEditor(t, 8, 8)
	require.NoError(t, dst.SetPixel(0, 0, indexed.Dark))
	require.NoError(t, dst.SetPixel(3, 3, indexed.Bright))

	// Merge keeps existing pixels under Empty runs
	require.NoError(t, dst.Import(s, false))
	assert.Equal(t, indexed.Dark, pixel(t, dst, 0, 0))
	assert.Equal(t, indexed.Bright, pixel(t, dst, 3, 3))
	assert.Equal(t, indexed.ShirtAccent1, pixel(t, dst, 2, 3))
	assert.Equal(t, indexed.PantsAccent2, pixel(t, dst, 5, 6))

	// Overwrite replaces the whole canvas
	require.NoError(t, dst.Import(s, true))
	assert.True(t, dst.Canvas().Equal(src.Canvas()))

	got, err := dst.Hex()
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestImportErrors(t *testing.T) {
	e := newEditor(t, 4, 2)
	assert.ErrorIs(t, e.Import("zz", true), rle.ErrInvalidHex)
	assert.ErrorIs(t, e.Import("", true), rle.ErrEmptyBuffer)

	// Offset 0, width 4, 16 Dark pixels overruns a 4x2 canvas after 8
	err := e.Import("03"+"2f", true)
	assert.ErrorIs(t, err, rle.ErrDestinationOverrun)
	for _, c := range e.Canvas().Pix {
		assert.Equal(t, indexed.Dark, c)
	}
}

func TestLoad(t *testing.T) {
	e := newEditor(t, 4, 4)
	m, err := indexed.New(16, 4, 4)
	require.NoError(t, err)
	m.Pix[5] = indexed.Skin
	m.VerticalTrim = 1

	require.NoError(t, e.Load(m))
	assert.Equal(t, indexed.Skin, pixel(t, e, 1, 1))
	assert.Equal(t, uint8(1), e.Trim())

	small, err := indexed.New(4, 2, 2)
	require.NoError(t, err)
	assert.ErrorIs(t, e.Load(small), ErrSize)
}

func TestLoadInvalidTrim(t *testing.T) {
	e := newEditor(t, 4, 4)
	require.NoError(t, e.SetPixel(0, 0, indexed.Dark))
	before, err := e.Hex()
	require.NoError(t, err)
	assert.Equal(t, "0020", before)

	m, err := indexed.New(16, 4, 4)
	require.NoError(t, err)
	m.Pix[15] = indexed.Skin
	m.VerticalTrim = 4

	assert.ErrorIs(t, e.Load(m), ErrTrimRange)

	// Nothing was copied so the cached encoding is still accurate
	assert.Equal(t, indexed.Dark, pixel(t, e, 0, 0))
	assert.Equal(t, indexed.Empty, pixel(t, e, 3, 3))
	assert.Equal(t, uint8(0), e.Trim())
	after, err := e.Hex()
	require.NoError(t, err)
	assert.Equal(t, before, after)

	enc, err := rle.Encode(e.Canvas())
	require.NoError(t, err)
	assert.Equal(t, before, enc.String())
}

func TestRender(t *testing.T) {
	e := newEditor(t, 2, 2)
	require.NoError(t, e.SetPixel(0, 0, indexed.Dark))

	m, err := e.Render()
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 2), m.Bounds())
	assert.Equal(t, palette.Default.Color(indexed.Dark), m.RGBAAt(0, 0))
	assert.Equal(t, uint8(0), m.RGBAAt(1, 1).A)

	// A move in progress renders at the dragged position
	e.StartMove(0, 0)
	require.NoError(t, e.UpdateMove(1, 1))
	m, err = e.Render()
	require.NoError(t, err)
	assert.Equal(t, uint8(0), m.RGBAAt(0, 0).A)
	assert.Equal(t, palette.Default.Color(indexed.Dark), m.RGBAAt(1, 1))

	e.Palette = palette.CollectionSize
	_, err = e.Render()
	assert.ErrorIs(t, err, palette.ErrPaletteIndex)
}

func TestToolString(t *testing.T) {
	assert.Equal(t, "fill", Fill.String())
	assert.Equal(t, "Tool(9)", Tool(9).String())
}
