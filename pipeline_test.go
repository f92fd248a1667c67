package rlepix

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/bodgit/rlepix/indexed"
	"github.com/bodgit/rlepix/palette"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, file string, width, height int, pixels map[image.Point]color.Color) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(file), 0o755))

	m := image.NewRGBA(image.Rect(0, 0, width, height))
	for p, c := range pixels {
		m.Set(p.X, p.Y, c)
	}

	f, err := os.Create(file)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, m))
}

func TestImport(t *testing.T) {
	dir := t.TempDir()
	p := palette.Default

	writePNG(t, filepath.Join(dir, "hero.png"), 8, 8, map[image.Point]color.Color{
		image.Pt(3, 4): p.Color(indexed.Dark),
		image.Pt(4, 4): p.Color(indexed.Skin),
	})
	writePNG(t, filepath.Join(dir, "sub", "coin.png"), 4, 4, map[image.Point]color.Color{
		image.Pt(0, 0): p.Color(indexed.ShirtAccent1),
	})
	writePNG(t, filepath.Join(dir, ".hidden", "ghost.png"), 4, 4, nil)
	writePNG(t, filepath.Join(dir, ".ghost.png"), 4, 4, nil)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0o644))

	l := newLibrary(t, 8, 8)
	n, err := l.Import(context.Background(), dir, 4)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	sprites, err := l.List()
	require.NoError(t, err)
	require.Len(t, sprites, 2)
	assert.Equal(t, "coin", sprites[0].Name)
	assert.Equal(t, "hero", sprites[1].Name)

	m, err := l.Get("hero")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, 8, m.Width())
	c, _ := m.Get(3, 4)
	assert.Equal(t, indexed.Dark, c)
	c, _ = m.Get(4, 4)
	assert.Equal(t, indexed.Skin, c)

	m, err = l.Get("coin")
	require.NoError(t, err)
	c, _ = m.Get(0, 0)
	assert.Equal(t, indexed.ShirtAccent1, c)
	c, _ = m.Get(1, 0)
	assert.Equal(t, indexed.Empty, c)
}

func TestImportTooLarge(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "big.png"), 32, 8, nil)

	l := newLibrary(t, 16, 16)
	_, err := l.Import(context.Background(), dir, 2)
	assert.ErrorIs(t, err, ErrImageSize)
}

func TestImportBadImage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.png"), []byte("not a png"), 0o644))

	l := newLibrary(t, 16, 16)
	_, err := l.Import(context.Background(), dir, 1)
	assert.Error(t, err)
}

func TestImportMissingDirectory(t *testing.T) {
	l := newLibrary(t, 16, 16)
	_, err := l.Import(context.Background(), filepath.Join(t.TempDir(), "missing"), 2)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestImportCancelled(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), 4, 4, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := newLibrary(t, 16, 16)
	_, err := l.Import(ctx, dir, 1)
	assert.Error(t, err)
}
