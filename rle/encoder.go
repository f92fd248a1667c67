package rle

import (
	"fmt"

	"github.com/bodgit/rlepix/indexed"
)

type encoder struct {
	m    *indexed.Image
	trim int

	offset int
	width  int

	runs []Run
}

// Find the leftmost and rightmost columns holding a non-Empty pixel in the
// rows below the trim. An empty region reports column 0 for both.
func (e *encoder) bounds() (int, int, error) {
	minX, maxX := e.m.Width(), -1
	for p, c := range e.m.Enumerate() {
		if !c.Valid() {
			return 0, 0, fmt.Errorf("%w: %d at (%d, %d)", indexed.ErrInvalidColor, uint8(c), p.X, p.Y)
		}
		if p.Y < e.trim || c == indexed.Empty {
			continue
		}
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
	}
	if maxX < 0 {
		return 0, 0, nil
	}
	return minX, maxX, nil
}

func (e *encoder) push(c indexed.ColorIndex) {
	if n := len(e.runs); n > 0 {
		last := &e.runs[n-1]
		if last.Color == c && last.Length < runLengthLimit {
			last.Length++
			return
		}
	}
	e.runs = append(e.runs, Run{Color: c, Length: 1})
}

func (e *encoder) encode() (*OneByteRle, error) {
	minX, maxX, err := e.bounds()
	if err != nil {
		return nil, err
	}

	// The offset field only has 3 bits, anything further right is covered
	// by widening the row instead
	e.offset = minX
	if e.offset > offsetLimit-1 {
		e.offset = offsetLimit - 1
	}
	e.width = maxX - e.offset
	if e.width >= widthLimit {
		return nil, fmt.Errorf("%w: columns %d to %d", ErrEncodeOverflow, e.offset, maxX)
	}

	w := e.m.Width()
	for y := e.trim; y < e.m.Height(); y++ {
		row := e.m.Pix[y*w : y*w+w]
		for _, c := range row[e.offset : e.offset+e.width+1] {
			e.push(c)
		}
	}

	// The decoder never clears cells it doesn't reach
	for len(e.runs) > 0 && e.runs[len(e.runs)-1].Color == indexed.Empty {
		e.runs = e.runs[:len(e.runs)-1]
	}

	b := make([]byte, 0, len(e.runs)+1)
	b = append(b, PackHeader(uint8(e.offset), uint8(e.width)))
	for _, r := range e.runs {
		b = append(b, r.Byte())
	}

	return &OneByteRle{
		bytes:        b,
		HeaderOffset: uint8(e.offset),
		HeaderWidth:  uint8(e.width),
	}, nil
}

// Encode run length encodes m, skipping the first m.VerticalTrim rows. It
// fails with ErrEncodeOverflow when the non-Empty pixels span more columns
// than the header can describe, or with indexed.ErrInvalidColor when a cell
// holds something other than one of the eight color indices.
func Encode(m *indexed.Image) (*OneByteRle, error) {
	e := encoder{
		m:    m,
		trim: int(m.VerticalTrim),
	}
	if e.trim > m.Height() {
		e.trim = m.Height()
	}
	return e.encode()
}
