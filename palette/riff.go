package palette

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image/color"
	"io"

	"golang.org/x/image/riff"
)

var (
	riffType = riff.FourCC{'R', 'I', 'F', 'F'}
	palType  = riff.FourCC{'P', 'A', 'L', ' '}
	dataType = riff.FourCC{'d', 'a', 't', 'a'}

	errNotPalette = errors.New("palette: not a RIFF palette")
	errNoData     = errors.New("palette: no data chunk")
)

const palVersion = 0x0300

// ReadRIFF reads a Microsoft RIFF palette (.pal) file. The first Size
// entries are used, missing entries keep their Default color.
func ReadRIFF(r io.Reader) (Palette, error) {
	p := Default

	formType, rd, err := riff.NewReader(r)
	if err != nil {
		return p, fmt.Errorf("palette: could not open RIFF stream: %w", err)
	}
	if formType != palType {
		return p, errNotPalette
	}

	for {
		id, _, data, err := rd.Next()
		if err == io.EOF {
			return p, errNoData
		}
		if err != nil {
			return p, fmt.Errorf("palette: could not read chunk: %w", err)
		}
		if id != dataType {
			continue
		}

		var hdr struct {
			Version uint16
			Entries uint16
		}
		if err := binary.Read(data, binary.LittleEndian, &hdr); err != nil {
			return p, fmt.Errorf("palette: could not read header: %w", err)
		}
		if hdr.Version != palVersion {
			return p, fmt.Errorf("palette: unsupported version %#04x", hdr.Version)
		}

		for i := 0; i < int(hdr.Entries); i++ {
			var entry [4]byte
			if _, err := io.ReadFull(data, entry[:]); err != nil {
				return p, fmt.Errorf("palette: could not read color %d/%d: %w", i, hdr.Entries, err)
			}
			if i < Size {
				p[i] = color.RGBA{entry[0], entry[1], entry[2], 0xff}
			}
		}
		return p, nil
	}
}

// WriteRIFF writes p as a RIFF palette with Size entries
func (p *Palette) WriteRIFF(w io.Writer) error {
	chunk := new(bytes.Buffer)
	binary.Write(chunk, binary.LittleEndian, uint16(palVersion))
	binary.Write(chunk, binary.LittleEndian, uint16(Size))
	for _, c := range p {
		chunk.Write([]byte{c.R, c.G, c.B, 0x00})
	}

	b := new(bytes.Buffer)
	b.Write(riffType[:])
	binary.Write(b, binary.LittleEndian, uint32(4+8+chunk.Len()))
	b.Write(palType[:])
	b.Write(dataType[:])
	binary.Write(b, binary.LittleEndian, uint32(chunk.Len()))
	b.Write(chunk.Bytes())

	_, err := w.Write(b.Bytes())
	return err
}
