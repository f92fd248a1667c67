/*
Package indexed implements a fixed-size grid of 3-bit palette indices.

An Image is created once at a fixed width and height and is never resized.
Pixels are stored row-major, so the cell at (x, y) lives at Pix[W*y+x]. All
addressing is bounds checked and reports ErrOutOfBounds rather than
panicking.
*/
package indexed

import (
	"errors"
	"fmt"
)

const (
	// NumColors is the number of distinct values a ColorIndex can hold
	NumColors    = 1 << 3
	maxDimension = 0xff
)

var (
	ErrConfiguration = errors.New("indexed: pixel count does not match width * height")
	ErrOutOfBounds   = errors.New("indexed: coordinates out of bounds")
	ErrInvalidColor  = errors.New("indexed: invalid color index")
)

// ColorIndex selects a slot in the active palette. Empty is the transparent
// background and has no palette entry.
type ColorIndex uint8

const (
	Empty ColorIndex = iota
	Dark
	Bright
	Skin
	ShirtAccent1
	PantsAccent2
	EyesAccent3
	Accent4
)

var colorNames = [NumColors]string{
	"Empty",
	"Dark",
	"Bright",
	"Skin",
	"ShirtAccent1",
	"PantsAccent2",
	"EyesAccent3",
	"Accent4",
}

// Valid reports whether c fits in three bits
func (c ColorIndex) Valid() bool {
	return c < NumColors
}

func (c ColorIndex) String() string {
	if !c.Valid() {
		return fmt.Sprintf("ColorIndex(%d)", uint8(c))
	}
	return colorNames[c]
}

// ParseColorIndex accepts either a color name or its numeric value
func ParseColorIndex(s string) (ColorIndex, error) {
	for i, name := range colorNames {
		if name == s {
			return ColorIndex(i), nil
		}
	}
	if len(s) == 1 && s[0] >= '0' && s[0] < '0'+NumColors {
		return ColorIndex(s[0] - '0'), nil
	}
	return Empty, fmt.Errorf("%w: %q", ErrInvalidColor, s)
}
