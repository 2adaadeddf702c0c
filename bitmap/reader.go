package bitmap

import (
	"encoding/binary"

	"github.com/bodgit/bitblit/surface"
)

// Source is anything that Parse accepts; Object, Packed and *Descriptor.
type Source interface {
	descriptor() (*Descriptor, error)
}

// Object is the structured form of an image.
type Object struct {
	Width  int
	Height int
	// BPP defaults to 1
	BPP         int
	Transparent *uint32
	// Palette must have 2, 4, 16 or 256 entries if set
	Palette []surface.Color
	// Buffer holds Height rows of packed pixels, each padded to a byte
	Buffer []byte
}

func (o Object) descriptor() (*Descriptor, error) {
	d := &Descriptor{
		Width:   o.Width,
		Height:  o.Height,
		BPP:     o.BPP,
		Buffer:  o.Buffer,
		Palette: o.Palette,
	}
	if d.BPP == 0 {
		d.BPP = 1
	}
	if o.Transparent != nil {
		d.Transparent, d.HasTransparent = *o.Transparent, true
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Packed is an image in the packed wire format.
type Packed []byte

func (p Packed) descriptor() (*Descriptor, error) {
	if len(p) < headerSize {
		return nil, FormatError("short header")
	}

	d := &Descriptor{
		Width:  int(p[0]),
		Height: int(p[1]),
		BPP:    int(p[2] & bppMask),
		Offset: headerSize,
		Buffer: p,
	}

	if p[2]&flagTransparent != 0 {
		if len(p) < d.Offset+1 {
			return nil, FormatError("missing transparent color")
		}
		d.Transparent, d.HasTransparent = uint32(p[d.Offset]), true
		d.Offset++
	}

	if p[2]&flagPalette != 0 {
		if d.BPP < 1 || d.BPP > 8 || !validBPP(d.BPP) {
			return nil, FormatError("inline palette needs bpp of 8 or less")
		}
		n := 1 << uint(d.BPP)
		if len(p) < d.Offset+n*2 {
			return nil, FormatError("short palette")
		}
		d.Palette = make([]surface.Color, n)
		for i := range d.Palette {
			d.Palette[i] = surface.Color(binary.LittleEndian.Uint16(p[d.Offset+i*2:]))
		}
		d.Offset += n * 2
	}

	if err := d.validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Parse validates src and returns its descriptor. The descriptor borrows the
// source buffer; nothing is copied.
func Parse(src Source) (*Descriptor, error) {
	if src == nil {
		return nil, FormatError("no image")
	}
	return src.descriptor()
}
