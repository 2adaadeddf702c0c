/*
Package bitmap implements the image descriptor parser and the packed image
format.

A packed image is a byte buffer starting with a three byte header of width,
height and a bits per pixel byte. Bit 7 of the bits per pixel byte signals a
following transparent color byte and bit 6 signals an inline palette of 2^bpp
little-endian 16-bit colors. The remaining bytes are the pixel rows, each
padded to a whole number of bytes, with pixels packed from the most
significant bit down. Pixels of 8 bits or more are stored big-endian.

Both packed images and structured Object values are normalised into a
Descriptor by Parse before they are drawn.
*/
package bitmap

import (
	"github.com/bodgit/bitblit/internal/bitio"
	"github.com/bodgit/bitblit/surface"
)

const (
	headerSize = 3

	flagTransparent = 0x80
	flagPalette     = 0x40
	bppMask         = 0x3f

	maxPackedSize = 0xff
)

// A FormatError reports that the input is not a valid image.
type FormatError string

func (e FormatError) Error() string { return "bitmap: invalid format: " + string(e) }

func validBPP(bpp int) bool {
	switch bpp {
	case 1, 2, 4, 8, 16, 24, 32:
		return true
	}
	return false
}

func validPalette(n int) bool {
	switch n {
	case 2, 4, 16, 256:
		return true
	}
	return false
}

// Descriptor is the canonical form of an image. It is read-only once parsed
// and only borrows Buffer.
type Descriptor struct {
	Width  int
	Height int
	BPP    int
	// Stride is the number of bytes in each row of pixels
	Stride int
	// Offset is where the pixel rows start in Buffer
	Offset int
	Buffer []byte

	Transparent    uint32
	HasTransparent bool

	// Palette, if non-nil, maps stored codes to surface colors. Its length
	// is a power of two and codes are masked to fit.
	Palette []surface.Color
}

func (d *Descriptor) validate() error {
	switch {
	case d.Width < 1 || d.Width > surface.MaxCoord:
		return FormatError("width out of range")
	case d.Height < 1 || d.Height > surface.MaxCoord:
		return FormatError("height out of range")
	case !validBPP(d.BPP):
		return FormatError("unsupported bpp")
	case d.Palette != nil && !validPalette(len(d.Palette)):
		return FormatError("palette must have 2, 4, 16 or 256 entries")
	}
	d.Stride = bitio.Stride(d.Width, d.BPP)
	if d.Offset < 0 || len(d.Buffer) < d.Offset+d.Stride*d.Height {
		return FormatError("not enough image data")
	}
	return nil
}

// RowOffset returns the bit offset of the first pixel in row y.
func (d *Descriptor) RowOffset(y int) int {
	return (d.Offset + y*d.Stride) << 3
}

// At returns the stored code of the pixel at (x, y), which must be within the
// image.
func (d *Descriptor) At(x, y int) uint32 {
	return bitio.Get(d.Buffer, d.RowOffset(y)+x*d.BPP, d.BPP)
}

// Color resolves a stored code to a surface color. The second result is
// false if the code is the transparent color.
func (d *Descriptor) Color(code uint32) (surface.Color, bool) {
	if d.HasTransparent && code == d.Transparent {
		return 0, false
	}
	if d.Palette != nil {
		return d.Palette[int(code)&(len(d.Palette)-1)], true
	}
	return surface.Color(code), true
}

// Release drops the reference to the source buffer.
func (d *Descriptor) Release() {
	d.Buffer = nil
}

func (d *Descriptor) descriptor() (*Descriptor, error) {
	if d == nil {
		return nil, FormatError("no image")
	}
	dup := *d
	if err := dup.validate(); err != nil {
		return nil, err
	}
	return &dup, nil
}
