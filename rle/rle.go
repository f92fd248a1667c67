/*
Package rle implements a one byte per run, bit-packed run length encoding
for indexed images.

The encoded stream starts with a single header byte followed by one byte per
run:

	header: OOOWWWWW  O = left column offset (0-7)
	                  W = encoded row width minus one (0-31)
	run:    CCCLLLLL  C = color index (0-7)
	                  L = run length minus one (0-31)

Only the columns offset to offset+width of each row starting at the vertical
trim are encoded, scanned row by row. Trailing runs of Empty pixels are
dropped, the decoder leaves any cell it does not reach untouched. Streams
are usually exchanged as lowercase hex strings.
*/
package rle

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/bodgit/rlepix/indexed"
)

const (
	runLengthLimit = 1 << 5
	offsetLimit    = 1 << 3
	widthLimit     = 1 << 5
	fieldMask      = 0x1f
	colorShift     = 5
)

var (
	ErrEncodeOverflow     = errors.New("rle: bounding box wider than 32 columns")
	ErrEmptyBuffer        = errors.New("rle: empty buffer")
	ErrInvalidRunByte     = errors.New("rle: run byte has invalid color")
	ErrDestinationOverrun = errors.New("rle: run overruns destination image")
	ErrInvalidHex         = errors.New("rle: invalid hex string")
)

// PackHeader builds the header byte. Only the low 3 bits of offset and the
// low 5 bits of width are kept.
func PackHeader(offset, width uint8) byte {
	return (offset&(offsetLimit-1))<<colorShift | width&fieldMask
}

// UnpackHeader splits a header byte into its offset and width fields. The
// real row width is width+1.
func UnpackHeader(b byte) (offset, width uint8) {
	return b >> colorShift, b & fieldMask
}

// Run is a number of consecutive pixels of the same color.
type Run struct {
	Color  indexed.ColorIndex
	Length uint8 // 1 to 32
}

// Byte packs the run, Length must be between 1 and 32
func (r Run) Byte() byte {
	return byte(r.Color)<<colorShift | (r.Length-1)&fieldMask
}

// ParseRun unpacks a run byte
func ParseRun(b byte) Run {
	return Run{
		Color:  indexed.ColorIndex(b >> colorShift),
		Length: b&fieldMask + 1,
	}
}

// OneByteRle is an encoded image. It is never modified once created.
type OneByteRle struct {
	bytes []byte

	// HeaderOffset and HeaderWidth cache the fields of the header byte
	HeaderOffset uint8
	HeaderWidth  uint8
}

// New wraps an existing byte stream, parsing the header if there is one.
// The slice is copied.
func New(b []byte) *OneByteRle {
	e := &OneByteRle{
		bytes: append([]byte(nil), b...),
	}
	if len(b) > 0 {
		e.HeaderOffset, e.HeaderWidth = UnpackHeader(b[0])
	}
	return e
}

// ParseHex decodes a hex string as produced by String. Surrounding
// whitespace is ignored.
func ParseHex(s string) (*OneByteRle, error) {
	b, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHex, err)
	}
	return New(b), nil
}

// Bytes returns a copy of the encoded stream
func (e *OneByteRle) Bytes() []byte {
	return append([]byte(nil), e.bytes...)
}

// Len returns the size of the encoded stream in bytes
func (e *OneByteRle) Len() int {
	return len(e.bytes)
}

// Runs returns the decoded run records following the header
func (e *OneByteRle) Runs() []Run {
	if len(e.bytes) < 2 {
		return nil
	}
	runs := make([]Run, 0, len(e.bytes)-1)
	for _, b := range e.bytes[1:] {
		runs = append(runs, ParseRun(b))
	}
	return runs
}

// String returns the stream as lowercase hex
func (e *OneByteRle) String() string {
	return hex.EncodeToString(e.bytes)
}

// MarshalBinary implements encoding.BinaryMarshaler
func (e *OneByteRle) MarshalBinary() ([]byte, error) {
	return e.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler
func (e *OneByteRle) UnmarshalBinary(b []byte) error {
	*e = *New(b)
	return nil
}
