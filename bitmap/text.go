package bitmap

import (
	"strings"

	"github.com/bodgit/bitblit/internal/bitio"
	"github.com/bodgit/bitblit/surface"
)

// FromText builds a 1 bpp image from lines of text, one line per row. Spaces
// are unset pixels and any other character is set. A leading and a trailing
// newline are ignored so the image can be written as a raw string literal.
func FromText(s string) Object {
	s = strings.TrimPrefix(s, "\n")
	s = strings.TrimSuffix(s, "\n")

	lines := strings.Split(s, "\n")

	o := Object{
		Height: len(lines),
		BPP:    1,
	}
	for _, l := range lines {
		if len(l) > o.Width {
			o.Width = len(l)
		}
	}

	stride := bitio.Stride(o.Width, 1)
	o.Buffer = make([]byte, stride*o.Height)
	for y, l := range lines {
		for x := 0; x < len(l); x++ {
			if l[x] != ' ' {
				bitio.Set(o.Buffer, (y*stride<<3)+x, 1, 1)
			}
		}
	}

	return o
}

// FromSurface copies the contents of s into a new image of the same bit
// depth.
func FromSurface(s surface.Reader) (Object, error) {
	b := s.Bounds()
	bpp := s.BitsPerPixel()
	if !validBPP(bpp) {
		return Object{}, FormatError("unsupported bpp")
	}

	o := Object{
		Width:  b.Dx(),
		Height: b.Dy(),
		BPP:    bpp,
	}
	if o.Width < 1 || o.Height < 1 {
		return Object{}, FormatError("empty surface")
	}

	stride := bitio.Stride(o.Width, bpp)
	o.Buffer = make([]byte, stride*o.Height)
	for y := 0; y < o.Height; y++ {
		off := y * stride << 3
		for x := 0; x < o.Width; x++ {
			bitio.Set(o.Buffer, off, bpp, uint32(s.Pixel(b.Min.X+x, b.Min.Y+y)))
			off += bpp
		}
	}

	return o, nil
}
