package palette

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/bodgit/rlepix/indexed"
	"github.com/ericpauley/go-quantize/quantize"
)

// Copy the opaque pixels of m into a single row so transparent background
// doesn't claim a palette slot
func opaquePixels(m image.Image) *image.RGBA {
	b := m.Bounds()
	var pixels []color.RGBA
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.RGBAModel.Convert(m.At(x, y)).(color.RGBA)
			if c.A >= 0x80 {
				c.A = 0xff
				pixels = append(pixels, c)
			}
		}
	}
	if len(pixels) == 0 {
		return nil
	}
	strip := image.NewRGBA(image.Rect(0, 0, len(pixels), 1))
	for i, c := range pixels {
		strip.SetRGBA(i, 0, c)
	}
	return strip
}

// FromImage builds a palette from the dominant opaque colors of m using
// median cut quantization. If m has fewer than Size distinct colors the
// remaining slots are taken from Default.
func FromImage(m image.Image) Palette {
	p := Default

	strip := opaquePixels(m)
	if strip == nil {
		return p
	}

	q := quantize.MedianCutQuantizer{}
	for i, c := range q.Quantize(make(color.Palette, 0, Size), strip) {
		if i >= Size {
			break
		}
		p[i] = color.RGBAModel.Convert(c).(color.RGBA)
		p[i].A = 0xff
	}
	return p
}

// Convert maps every pixel of m to the nearest color of p, producing an
// indexed image of the same size.
func (p *Palette) Convert(m image.Image) (*indexed.Image, error) {
	b := m.Bounds()
	pm := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), p.ColorPalette())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			pm.SetColorIndex(x-b.Min.X, y-b.Min.Y, uint8(p.Index(m.At(x, y))))
		}
	}
	return indexed.FromPaletted(pm)
}

// Draw converts src and composites its non-Empty pixels onto dst with the
// top-left corner of src at (0, 0). Pixels outside dst are ignored.
func (p *Palette) Draw(dst *indexed.Image, src image.Image) {
	b := src.Bounds()
	r := image.Rect(0, 0, dst.Width(), dst.Height()).Intersect(image.Rect(0, 0, b.Dx(), b.Dy()))
	tmp := image.NewRGBA(r)
	draw.Draw(tmp, r, src, b.Min, draw.Src)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if c := p.Index(tmp.At(x, y)); c != indexed.Empty {
				dst.Pix[y*dst.Width()+x] = c
			}
		}
	}
}
