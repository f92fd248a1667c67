/*
Package bank implements a compact sprite bank that packs many run length
encoded sprites into a single blob suitable for embedding.

The layout is little endian:

	u16      count
	count *  u32 crc | u32 offset | u16 length | u8 trim
	...      encoded sprites

Entries are sorted by CRC. Offsets are relative to the first byte after the
entry table and identical encodings are only stored once.
*/
package bank

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"sort"
	"strings"

	"github.com/bodgit/rlepix/rle"
)

const (
	// Extension is the expected file extension used when writing to disk
	Extension = ".bank"

	maxEntries = 1024
	maxLength  = 0xffff
	entrySize  = 4 + 4 + 2 + 1
)

var (
	ErrTooManySprites = fmt.Errorf("bank: more than %d sprites", maxEntries)
	ErrShortBank      = errors.New("bank: insufficient data")
	ErrDuplicateName  = errors.New("bank: name checksum collision")
	ErrSpriteLength   = errors.New("bank: encoded sprite must be 1 to 65535 bytes")
)

// Checksum returns the key a sprite name is stored under
func Checksum(name string) uint32 {
	return crc32.ChecksumIEEE([]byte(strings.ToUpper(name)))
}

// entryHeader is one record of the entry table
type entryHeader struct {
	CRC    uint32
	Offset uint32
	Length uint16
	Trim   uint8
}

type entry struct {
	name string
	trim uint8
	rle  []byte
}

// Bank is the sprite bank object. It implements the
// encoding.BinaryMarshaler and encoding.BinaryUnmarshaler interfaces.
type Bank struct {
	entries map[uint32]*entry
}

// New returns an empty bank
func New() *Bank {
	return &Bank{
		entries: make(map[uint32]*entry),
	}
}

// Len returns the number of sprites in the bank
func (b *Bank) Len() int {
	return len(b.entries)
}

// Set stores the encoded sprite under name, replacing any previous sprite
// with that name
func (b *Bank) Set(name string, trim uint8, e *rle.OneByteRle) error {
	if e.Len() == 0 || e.Len() > maxLength {
		return fmt.Errorf("%w: %q is %d bytes", ErrSpriteLength, name, e.Len())
	}

	crc := Checksum(name)
	if old, ok := b.entries[crc]; ok {
		if old.name != "" && !strings.EqualFold(old.name, name) {
			return fmt.Errorf("%w: %q and %q", ErrDuplicateName, old.name, name)
		}
	} else if len(b.entries) >= maxEntries {
		return ErrTooManySprites
	}

	b.entries[crc] = &entry{
		name: name,
		trim: trim,
		rle:  e.Bytes(),
	}
	return nil
}

// Get returns the encoded sprite and its trim for name
func (b *Bank) Get(name string) (*rle.OneByteRle, uint8, bool) {
	e, ok := b.entries[Checksum(name)]
	if !ok {
		return nil, 0, false
	}
	return rle.New(e.rle), e.trim, true
}

func (b *Bank) keys() []uint32 {
	keys := make([]uint32, 0, len(b.entries))
	for k := range b.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// MarshalBinary encodes the bank into binary form and returns the result
func (b *Bank) MarshalBinary() ([]byte, error) {
	if len(b.entries) > maxEntries {
		return nil, ErrTooManySprites
	}

	keys := b.keys()

	blobs := new(bytes.Buffer)
	offsets := make(map[string]uint32)

	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, uint16(len(keys))); err != nil {
		return nil, err
	}

	for _, k := range keys {
		e := b.entries[k]
		offset, ok := offsets[string(e.rle)]
		if !ok {
			offset = uint32(blobs.Len())
			offsets[string(e.rle)] = offset
			blobs.Write(e.rle)
		}

		v := entryHeader{k, offset, uint16(len(e.rle)), e.trim}
		if err := binary.Write(buf, binary.LittleEndian, &v); err != nil {
			return nil, err
		}
	}

	if _, err := buf.Write(blobs.Bytes()); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// UnmarshalBinary decodes the bank from binary form. Names are not stored
// so sprites can only be looked up by name afterwards.
func (b *Bank) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)

	b.entries = make(map[uint32]*entry)

	var count uint16
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return ErrShortBank
	}
	if count > maxEntries {
		return ErrTooManySprites
	}

	base := 2 + int(count)*entrySize
	if len(data) < base {
		return ErrShortBank
	}

	for i := 0; i < int(count); i++ {
		var v entryHeader
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return ErrShortBank
		}

		start := base + int(v.Offset)
		end := start + int(v.Length)
		if v.Length == 0 || end > len(data) {
			return fmt.Errorf("%w: sprite %08x", ErrShortBank, v.CRC)
		}

		b.entries[v.CRC] = &entry{
			trim: v.Trim,
			rle:  append([]byte(nil), data[start:end]...),
		}
	}

	return nil
}
