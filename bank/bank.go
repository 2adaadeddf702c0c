/*
Package bank implements a compact bundle of named packed images, small and
simple enough to be read directly by a display device.

The bundle starts with a table of up to 256 little-endian CRC-32 keys, one
per image name, sorted in ascending order and padded with 0xFF bytes. A
matching table of little-endian 32-bit offset and length pairs follows, also
padded with 0xFF bytes, and then the packed images themselves. Offsets are
relative to the start of the image data.
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

	"github.com/bodgit/bitblit/bitmap"
)

const (
	// Filename is the expected filename used when writing to disk
	Filename   = "images.bnk"
	maxEntries = 256

	unused = 0xffffffff
)

var errInsufficient = errors.New("bank: insufficient data")

// Key returns the key used to look up name. Names are case-insensitive.
func Key(name string) uint32 {
	return crc32.ChecksumIEEE([]byte(strings.ToUpper(name)))
}

type entry struct {
	Offset uint32
	Length uint32
}

// DB is a bank of images. It implements the encoding.BinaryMarshaler and
// encoding.BinaryUnmarshaler interfaces.
type DB struct {
	images map[uint32]bitmap.Packed
}

// New returns an empty bank
func New() *DB {
	return &DB{
		images: make(map[uint32]bitmap.Packed),
	}
}

// Length returns the number of images in the bank
func (db *DB) Length() int {
	return len(db.images)
}

// Set stores the image under the given name, replacing any image already
// stored under it.
func (db *DB) Set(name string, p bitmap.Packed) error {
	if _, err := bitmap.Parse(p); err != nil {
		return fmt.Errorf("bank: %s: %w", name, err)
	}
	db.images[Key(name)] = p
	return nil
}

// Get returns the image stored under the given name
func (db *DB) Get(name string) (bitmap.Packed, bool) {
	p, ok := db.images[Key(name)]
	return p, ok
}

func (db *DB) keys() []uint32 {
	keys := make([]uint32, 0, len(db.images))
	for k := range db.images {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// MarshalBinary encodes the bank into binary form and returns the result
func (db *DB) MarshalBinary() ([]byte, error) {
	length := len(db.images)

	if length > maxEntries {
		return nil, fmt.Errorf("bank: more than %d entries", maxEntries)
	}

	keys := db.keys()

	b := new(bytes.Buffer)

	// Write out keys
	if err := binary.Write(b, binary.LittleEndian, keys); err != nil {
		return nil, err
	}
	if _, err := b.Write(bytes.Repeat([]byte{0xff}, 4*(maxEntries-length))); err != nil {
		return nil, err
	}

	// Write out offsets and lengths
	var offset uint32
	for _, k := range keys {
		e := entry{offset, uint32(len(db.images[k]))}
		if err := binary.Write(b, binary.LittleEndian, &e); err != nil {
			return nil, err
		}
		offset += e.Length
	}
	if _, err := b.Write(bytes.Repeat([]byte{0xff}, 8*(maxEntries-length))); err != nil {
		return nil, err
	}

	// Write out images
	for _, k := range keys {
		if _, err := b.Write(db.images[k]); err != nil {
			return nil, err
		}
	}

	return b.Bytes(), nil
}

// UnmarshalBinary decodes the bank from binary form
func (db *DB) UnmarshalBinary(b []byte) error {
	r := bytes.NewReader(b)

	db.images = make(map[uint32]bitmap.Packed)

	var keys [maxEntries]uint32
	if err := binary.Read(r, binary.LittleEndian, &keys); err != nil {
		return errInsufficient
	}

	var entries [maxEntries]entry
	if err := binary.Read(r, binary.LittleEndian, &entries); err != nil {
		return errInsufficient
	}

	data := b[len(b)-r.Len():]
	for i, k := range keys {
		if k == unused {
			break
		}
		e := entries[i]
		if e.Offset == unused || uint64(e.Offset)+uint64(e.Length) > uint64(len(data)) {
			return errInsufficient
		}
		p := make(bitmap.Packed, e.Length)
		copy(p, data[e.Offset:])
		if _, err := bitmap.Parse(p); err != nil {
			return fmt.Errorf("bank: entry %d: %w", i, err)
		}
		db.images[k] = p
	}

	return nil
}
