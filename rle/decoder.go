package rle

import (
	"fmt"

	"github.com/bodgit/rlepix/indexed"
)

type decoder struct {
	dst       *indexed.Image
	overwrite bool

	offset int
	width  int

	x, y     int
	consumed int
}

func (d *decoder) put(c indexed.ColorIndex) error {
	if !d.dst.InBounds(d.x, d.y) {
		return fmt.Errorf("%w: cell (%d, %d) after %d pixels", ErrDestinationOverrun, d.x, d.y, d.consumed)
	}
	if d.overwrite || c != indexed.Empty {
		d.dst.Pix[d.y*d.dst.Width()+d.x] = c
	}

	d.consumed++
	d.x = d.offset + d.consumed%d.width
	if d.consumed%d.width == 0 {
		d.y++
	}
	return nil
}

func (d *decoder) decode(b []byte, trim int) error {
	if len(b) == 0 {
		return ErrEmptyBuffer
	}

	offset, width := UnpackHeader(b[0])
	d.offset = int(offset)
	d.width = int(width) + 1
	d.x, d.y = d.offset, trim

	for i, rb := range b[1:] {
		r := ParseRun(rb)
		if !r.Color.Valid() {
			return fmt.Errorf("%w: byte %d (%#02x)", ErrInvalidRunByte, i+1, rb)
		}
		for n := 0; n < int(r.Length); n++ {
			if err := d.put(r.Color); err != nil {
				return err
			}
		}
	}

	return nil
}

// DecodeOnto writes the encoded image into dst starting at row trim. With
// overwrite set every decoded cell is written, otherwise Empty pixels leave
// the destination untouched so the stream can be composited onto an
// existing image. Decoding stops at the first run that would leave the
// destination; cells already written are kept and ErrDestinationOverrun is
// returned.
func (e *OneByteRle) DecodeOnto(dst *indexed.Image, trim uint8, overwrite bool) error {
	d := decoder{
		dst:       dst,
		overwrite: overwrite,
	}
	return d.decode(e.bytes, int(trim))
}

// Decode returns a new width by height image holding the encoded pixels.
// Its VerticalTrim is set to trim so re-encoding yields the same stream.
func (e *OneByteRle) Decode(width, height int, trim uint8) (*indexed.Image, error) {
	m, err := indexed.New(width*height, width, height)
	if err != nil {
		return nil, err
	}
	m.VerticalTrim = trim
	if err := e.DecodeOnto(m, trim, true); err != nil {
		return m, err
	}
	return m, nil
}

// DecodeOnto is a convenience wrapper for decoding a raw byte stream
func DecodeOnto(b []byte, dst *indexed.Image, trim uint8, overwrite bool) error {
	d := decoder{
		dst:       dst,
		overwrite: overwrite,
	}
	return d.decode(b, int(trim))
}
