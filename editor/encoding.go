package editor

import (
	"fmt"
	"image"

	"github.com/bodgit/rlepix/rle"
)

// Trim returns the vertical trim applied when encoding
func (e *Editor) Trim() uint8 {
	return e.canvas.VerticalTrim
}

// SetTrim changes the number of leading rows left out of the encoding
func (e *Editor) SetTrim(t uint8) error {
	if int(t) >= e.canvas.Height() {
		return fmt.Errorf("%w: %d", ErrTrimRange, t)
	}
	if t != e.canvas.VerticalTrim {
		e.canvas.VerticalTrim = t
		e.Touch()
	}
	return nil
}

// Encoding returns the run length encoding of the canvas, re-encoding only
// if something changed since the last call
func (e *Editor) Encoding() (*rle.OneByteRle, error) {
	if !e.changed {
		return e.encoded, e.encodeErr
	}

	e.encoded, e.encodeErr = rle.Encode(e.canvas)
	e.changed = false
	if e.encodeErr != nil {
		e.logger.Println("encode failed:", e.encodeErr)
	} else {
		e.logger.Printf("encoded %d bytes, offset %d, width %d\n", e.encoded.Len(), e.encoded.HeaderOffset, int(e.encoded.HeaderWidth)+1)
	}
	return e.encoded, e.encodeErr
}

// Hex returns the encoding as a hex string
func (e *Editor) Hex() (string, error) {
	enc, err := e.Encoding()
	if err != nil {
		return "", err
	}
	return enc.String(), nil
}

// Import decodes a hex string onto the canvas at the current trim. With
// overwrite the canvas is cleared first, otherwise only the non-Empty
// pixels of the import are painted over it. If decoding stops part way the
// pixels already written are kept and the error is returned.
func (e *Editor) Import(s string, overwrite bool) error {
	enc, err := rle.ParseHex(s)
	if err != nil {
		return err
	}
	if enc.Len() == 0 {
		return rle.ErrEmptyBuffer
	}

	if overwrite {
		e.canvas.Clear()
	}
	err = enc.DecodeOnto(e.canvas, e.canvas.VerticalTrim, overwrite)
	e.Touch()
	if err != nil {
		e.logger.Println("import stopped early:", err)
	}
	return err
}

// Render draws the canvas using the selected palette. During a move the
// canvas is drawn at its dragged position.
func (e *Editor) Render() (*image.RGBA, error) {
	p, err := e.palettes.Get(e.Palette)
	if err != nil {
		return nil, err
	}

	m := e.canvas
	if d, ok := e.MoveOffset(); ok {
		m = m.Clone()
		m.Shift(d.X, d.Y)
	}

	out := image.NewRGBA(image.Rect(0, 0, m.Width(), m.Height()))
	for pt, c := range m.Enumerate() {
		out.SetRGBA(pt.X, pt.Y, p.Color(c))
	}
	return out, nil
}
