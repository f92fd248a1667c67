package rlepix

import (
	"image"

	"github.com/bodgit/rlepix/indexed"
	"github.com/bodgit/rlepix/palette"
	"github.com/disintegration/gift"
)

// Preview renders m with p and scales it up by scale using nearest
// neighbour resampling so each pixel stays a sharp square
func Preview(m *indexed.Image, p *palette.Palette, scale int) *image.RGBA {
	if scale < 1 {
		scale = 1
	}

	src := image.NewRGBA(image.Rect(0, 0, m.Width(), m.Height()))
	for pt, c := range m.Enumerate() {
		src.SetRGBA(pt.X, pt.Y, p.Color(c))
	}
	if scale == 1 {
		return src
	}

	filter := gift.Resize(m.Width()*scale, m.Height()*scale, gift.NearestNeighborResampling)
	dst := image.NewRGBA(filter.Bounds(src.Bounds()))
	filter.Draw(dst, src, &gift.Options{
		Parallelization: false,
	})

	return dst
}
