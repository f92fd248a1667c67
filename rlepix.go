/*
Package rlepix is a library for maintaining a collection of small indexed
color sprites stored as one byte run length encodings.
*/
package rlepix

import (
	"crypto/sha1"
	"errors"
	"fmt"
	"log"

	"github.com/bodgit/rlepix/bank"
	"github.com/bodgit/rlepix/indexed"
	"github.com/bodgit/rlepix/palette"
	"github.com/bodgit/rlepix/rle"
)

var ErrImageSize = errors.New("rlepix: image larger than sprite size")

// Sprite is a named, encoded sprite
type Sprite struct {
	Name   string
	Width  int
	Height int
	Trim   uint8
	RLE    *rle.OneByteRle
}

// Library is a sprite library backed by a SpriteDB. Imported images are
// mapped through the palette onto width by height sprites.
type Library struct {
	db      *SpriteDB
	palette palette.Palette
	width   int
	height  int
	logger  *log.Logger
}

func New(file string, width, height int, p palette.Palette, logger *log.Logger) (*Library, error) {
	if _, err := indexed.New(width*height, width, height); err != nil {
		return nil, err
	}

	db, err := NewSpriteDB(file)
	if err != nil {
		return nil, err
	}

	return &Library{
		db:      db,
		palette: p,
		width:   width,
		height:  height,
		logger:  logger,
	}, nil
}

func (l *Library) Close() error {
	return l.db.Close()
}

// Palette returns the palette used to map imported images
func (l *Library) Palette() *palette.Palette {
	return &l.palette
}

func checksum(e *rle.OneByteRle, trim uint8) string {
	h := sha1.New()
	h.Write([]byte{trim})
	h.Write(e.Bytes())
	return fmt.Sprintf("%X", h.Sum(nil))
}

// Put encodes m and stores it as name, replacing any existing sprite
func (l *Library) Put(name string, m *indexed.Image) error {
	e, err := rle.Encode(m)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	trim := m.VerticalTrim
	if int(trim) > m.Height() {
		trim = uint8(m.Height())
	}
	l.logger.Printf("Storing \"%s\" as %s\n", name, e)
	return l.db.PutSprite(name, checksum(e, trim), m.Width(), m.Height(), trim, e.Bytes())
}

// Get decodes the sprite called name. It returns nil if there is no such
// sprite.
func (l *Library) Get(name string) (*indexed.Image, error) {
	r, err := l.db.FindSprite(name)
	if err != nil || r == nil {
		return nil, err
	}
	m, err := rle.New(r.RLE).Decode(r.Width, r.Height, r.Trim)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return m, nil
}

// List returns every sprite sorted by name
func (l *Library) List() ([]Sprite, error) {
	records, err := l.db.Sprites()
	if err != nil {
		return nil, err
	}
	sprites := make([]Sprite, 0, len(records))
	for _, r := range records {
		sprites = append(sprites, Sprite{
			Name:   r.Name,
			Width:  r.Width,
			Height: r.Height,
			Trim:   r.Trim,
			RLE:    rle.New(r.RLE),
		})
	}
	return sprites, nil
}

// Delete removes the sprite called name, reporting whether it existed
func (l *Library) Delete(name string) (bool, error) {
	return l.db.DeleteSprite(name)
}

// Export builds a sprite bank from every sprite in the library
func (l *Library) Export() (*bank.Bank, error) {
	sprites, err := l.List()
	if err != nil {
		return nil, err
	}
	b := bank.New()
	for _, s := range sprites {
		if err := b.Set(s.Name, s.Trim, s.RLE); err != nil {
			return nil, err
		}
	}
	l.logger.Printf("Exported %d sprites\n", b.Len())
	return b, nil
}
