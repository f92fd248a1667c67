package indexed

import (
	"fmt"
	"image"
	"image/color"
	"iter"
)

// Image is a width by height grid of ColorIndex values.
type Image struct {
	// VerticalTrim is the number of leading rows left out when the image
	// is run length encoded
	VerticalTrim uint8

	// Pix holds the cells in row-major order. Every cell must be a valid
	// ColorIndex; Set checks this but direct writes are not checked until
	// the image is encoded.
	Pix []ColorIndex

	resolution [2]uint8
}

// New allocates an all-Empty image of n pixels arranged as width columns by
// height rows. It fails with ErrConfiguration unless n == width*height and
// both dimensions fit in a byte.
func New(n, width, height int) (*Image, error) {
	if width <= 0 || height <= 0 || width > maxDimension || height > maxDimension {
		return nil, fmt.Errorf("%w: %dx%d", ErrConfiguration, width, height)
	}
	if width*height != n {
		return nil, fmt.Errorf("%w: %d != %d * %d", ErrConfiguration, n, width, height)
	}
	return &Image{
		Pix:        make([]ColorIndex, n),
		resolution: [2]uint8{uint8(width), uint8(height)},
	}, nil
}

// Width returns the number of columns
func (m *Image) Width() int { return int(m.resolution[0]) }

// Height returns the number of rows
func (m *Image) Height() int { return int(m.resolution[1]) }

// Len returns the total number of cells
func (m *Image) Len() int { return len(m.Pix) }

// InBounds reports whether (x, y) addresses a cell
func (m *Image) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.Width() && y < m.Height()
}

// PixOffset returns the index into Pix of the cell at (x, y).
func (m *Image) PixOffset(x, y int) (int, error) {
	if !m.InBounds(x, y) {
		return 0, fmt.Errorf("%w: (%d, %d) in %dx%d", ErrOutOfBounds, x, y, m.Width(), m.Height())
	}
	return m.Width()*y + x, nil
}

// Get returns the color at (x, y)
func (m *Image) Get(x, y int) (ColorIndex, error) {
	i, err := m.PixOffset(x, y)
	if err != nil {
		return Empty, err
	}
	return m.Pix[i], nil
}

// Set stores c at (x, y)
func (m *Image) Set(x, y int, c ColorIndex) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidColor, uint8(c))
	}
	i, err := m.PixOffset(x, y)
	if err != nil {
		return err
	}
	m.Pix[i] = c
	return nil
}

// Enumerate visits every cell once in row-major order, y outer and x inner.
// The sequence can be ranged over any number of times.
func (m *Image) Enumerate() iter.Seq2[image.Point, ColorIndex] {
	return func(yield func(image.Point, ColorIndex) bool) {
		w := m.Width()
		for i, c := range m.Pix {
			if !yield(image.Pt(i%w, i/w), c) {
				return
			}
		}
	}
}

// EnumerateMut is Enumerate but yields a pointer to each cell. Each pointer
// is only handed out once per iteration.
func (m *Image) EnumerateMut() iter.Seq2[image.Point, *ColorIndex] {
	return func(yield func(image.Point, *ColorIndex) bool) {
		w := m.Width()
		for i := range m.Pix {
			if !yield(image.Pt(i%w, i/w), &m.Pix[i]) {
				return
			}
		}
	}
}

// Shift translates the whole image by (dx, dy). Pixels moved off the grid
// are dropped and the uncovered area becomes Empty.
func (m *Image) Shift(dx, dy int) {
	sampler := m.Clone()
	for p, c := range m.EnumerateMut() {
		sx, sy := p.X-dx, p.Y-dy
		if !sampler.InBounds(sx, sy) {
			*c = Empty
			continue
		}
		*c = sampler.Pix[sampler.Width()*sy+sx]
	}
}

// Clone returns a deep copy of m
func (m *Image) Clone() *Image {
	dup := *m
	dup.Pix = append([]ColorIndex(nil), m.Pix...)
	return &dup
}

// Fill sets every cell to c
func (m *Image) Fill(c ColorIndex) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidColor, uint8(c))
	}
	for i := range m.Pix {
		m.Pix[i] = c
	}
	return nil
}

// Clear sets every cell to Empty
func (m *Image) Clear() {
	m.Fill(Empty)
}

// Equal reports whether both images have the same size and cells. The
// vertical trim is not compared.
func (m *Image) Equal(o *Image) bool {
	if m.resolution != o.resolution {
		return false
	}
	for i := range m.Pix {
		if m.Pix[i] != o.Pix[i] {
			return false
		}
	}
	return true
}

// ToPaletted converts the image to an *image.Paletted using p, which must
// hold at least NumColors entries.
func (m *Image) ToPaletted(p color.Palette) *image.Paletted {
	pm := image.NewPaletted(image.Rect(0, 0, m.Width(), m.Height()), p)
	for i, c := range m.Pix {
		pm.Pix[i] = uint8(c)
	}
	return pm
}

// FromPaletted copies the color indices of pm into a new Image. Any index
// outside the 3-bit range is rejected.
func FromPaletted(pm *image.Paletted) (*Image, error) {
	b := pm.Bounds()
	m, err := New(b.Dx()*b.Dy(), b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := ColorIndex(pm.ColorIndexAt(x, y))
			if err := m.Set(x-b.Min.X, y-b.Min.Y, c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}
