/*
Package palette maps ColorIndex values to RGB colors.

A Palette has one color for each of the seven non-Empty indices, Empty is
always transparent. A Collection groups eight palettes so the same indexed
sprite can be recolored by switching the selected palette.
*/
package palette

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/bodgit/rlepix/indexed"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	// Size is the number of colors in a palette, Empty has no entry
	Size = indexed.NumColors - 1

	// CollectionSize is the number of palettes in a Collection
	CollectionSize = 8
)

var ErrPaletteIndex = errors.New("palette: palette index out of range")

// Palette holds the colors for Dark through Accent4.
type Palette [Size]color.RGBA

// Default is the palette every Collection starts with
var Default = Palette{
	{0, 0, 0, 0xff},       // Dark
	{255, 255, 255, 0xff}, // Bright
	{204, 164, 153, 0xff}, // Skin
	{255, 165, 96, 0xff},  // ShirtAccent1
	{101, 107, 255, 0xff}, // PantsAccent2
	{173, 101, 255, 0xff}, // EyesAccent3
	{62, 24, 24, 0xff},    // Accent4
}

// Color returns the color for c, Empty and invalid indices are transparent
func (p *Palette) Color(c indexed.ColorIndex) color.RGBA {
	if c == indexed.Empty || !c.Valid() {
		return color.RGBA{}
	}
	return p[c-1]
}

// ColorPalette returns p as a color.Palette indexed the same way as
// ColorIndex, i.e. with a transparent entry first.
func (p *Palette) ColorPalette() color.Palette {
	cp := make(color.Palette, 0, indexed.NumColors)
	cp = append(cp, color.RGBA{})
	for _, c := range p {
		cp = append(cp, c)
	}
	return cp
}

// Index returns the ColorIndex whose color is closest to c in CIE L*a*b*
// space. Colors that are less than half opaque map to Empty.
func (p *Palette) Index(c color.Color) indexed.ColorIndex {
	if _, _, _, a := c.RGBA(); a < 0x8000 {
		return indexed.Empty
	}
	cc, _ := colorful.MakeColor(c)

	best, bestDist := indexed.Dark, math.MaxFloat64
	for i, pc := range p {
		pcc, _ := colorful.MakeColor(pc)
		if d := cc.DistanceLab(pcc); d < bestDist {
			best, bestDist = indexed.ColorIndex(i+1), d
		}
	}
	return best
}

// Collection is a fixed set of palettes.
type Collection [CollectionSize]Palette

// NewCollection returns a Collection where every palette is Default
func NewCollection() *Collection {
	c := new(Collection)
	for i := range c {
		c[i] = Default
	}
	return c
}

// Get returns palette i
func (c *Collection) Get(i uint8) (*Palette, error) {
	if int(i) >= len(c) {
		return nil, fmt.Errorf("%w: %d", ErrPaletteIndex, i)
	}
	return &c[i], nil
}
